package object

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"multirag/internal/config"
	"multirag/internal/core"
)

// S3Fetcher downloads the source document from S3. It is fetch-only: the
// pipeline never writes back to the bucket.
type S3Fetcher struct {
	client *s3.Client
	bucket string
	key    string
	log    *zap.SugaredLogger
}

var _ core.ObjectFetcher = (*S3Fetcher)(nil)

// NewS3Fetcher validates connection parameters before touching the network;
// an empty bucket, key, or region is a configuration error, not a transport
// error.
func NewS3Fetcher(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*S3Fetcher, error) {
	if cfg.AwsAccessKey == "" || cfg.AwsSecretKey == "" {
		return nil, fmt.Errorf("AWS credentials not set")
	}
	if cfg.AwsRegion == "" {
		return nil, fmt.Errorf("AWS_REGION not set")
	}
	if cfg.BucketName == "" || cfg.BlobName == "" {
		return nil, fmt.Errorf("bucket or object key not set")
	}

	awsCfg, err := awscfg.LoadDefaultConfig(
		ctx,
		awscfg.WithRegion(cfg.AwsRegion),
		awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AwsAccessKey, cfg.AwsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Fetcher{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.BucketName,
		key:    cfg.BlobName,
		log:    log,
	}, nil
}

// Fetch downloads the configured object and returns its bytes. Any transport
// or auth failure is returned to the caller; the ingest command treats it as
// a pipeline abort, not a retry trigger.
func (f *S3Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	ctxGet, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	f.log.Infow("downloading source document", "bucket", f.bucket, "key", f.key)

	resp, err := f.client.GetObject(ctxGet, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}

	f.log.Infow("download complete", "bytes", len(body))
	return body, nil
}

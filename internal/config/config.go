package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config carries every knob the pipeline and the API server need. All values
// come from environment variables (a .env file is loaded by main before the
// CLI runs); there are no ingestion CLI flags.
type Config struct {
	// Object storage (source document).
	AwsAccessKey string `mapstructure:"AWS_ACCESS_KEY"`
	AwsSecretKey string `mapstructure:"AWS_SECRET_KEY"`
	AwsRegion    string `mapstructure:"AWS_REGION"`
	BucketName   string `mapstructure:"BUCKET_NAME"`
	BlobName     string `mapstructure:"BLOB_NAME"`

	// Vector store.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	VectorTable string `mapstructure:"VECTOR_TABLE"`
	EmbedDim    int    `mapstructure:"EMBED_DIM"`
	TopK        int    `mapstructure:"TOP_K"`

	// Models.
	VisionAPIKey string `mapstructure:"GEMINI_API_KEY"`
	VisionModel  string `mapstructure:"VISION_MODEL"`
	LLMAPIKey    string `mapstructure:"LLM_API_KEY"`
	LLMBaseURL   string `mapstructure:"LLM_BASE_URL"`
	LLMModel     string `mapstructure:"LLM_MODEL"`

	// Chunking.
	ChunkSize    int `mapstructure:"CHUNK_SIZE"`
	ChunkOverlap int `mapstructure:"CHUNK_OVERLAP"`

	// Auxiliary artifact directories.
	TableOutputDir   string `mapstructure:"TABLE_OUTPUT_DIR"`
	FormulaOutputDir string `mapstructure:"FORMULA_OUTPUT_DIR"`
	ImageOutputDir   string `mapstructure:"IMAGE_OUTPUT_DIR"`

	// HTTP server.
	Port  string `mapstructure:"PORT"`
	UIDir string `mapstructure:"UI_DIR"`

	// Index settle delay after creation, seconds.
	IndexSettleDelay time.Duration `mapstructure:"-"`
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	for _, key := range []string{
		"AWS_ACCESS_KEY", "AWS_SECRET_KEY", "AWS_REGION", "BUCKET_NAME", "BLOB_NAME",
		"DATABASE_URL", "VECTOR_TABLE", "GEMINI_API_KEY", "LLM_API_KEY",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("VECTOR_TABLE", "rag_vectors")
	v.SetDefault("EMBED_DIM", 384)
	v.SetDefault("TOP_K", 5)
	v.SetDefault("VISION_MODEL", "gemini-1.5-flash")
	v.SetDefault("LLM_BASE_URL", "https://api.groq.com/openai/v1")
	v.SetDefault("LLM_MODEL", "llama-3.3-70b-versatile")
	v.SetDefault("CHUNK_SIZE", 1000)
	v.SetDefault("CHUNK_OVERLAP", 200)
	v.SetDefault("TABLE_OUTPUT_DIR", "output_tables")
	v.SetDefault("FORMULA_OUTPUT_DIR", "output_formulas")
	v.SetDefault("IMAGE_OUTPUT_DIR", "output_images")
	v.SetDefault("PORT", "8000")
	v.SetDefault("UI_DIR", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.IndexSettleDelay = 10 * time.Second
	return &cfg, nil
}

// ValidateIngest checks the variables the batch ingestion run cannot work
// without. Missing values abort before any network call is attempted.
func (c *Config) ValidateIngest() error {
	missing := []string{}
	if c.AwsAccessKey == "" {
		missing = append(missing, "AWS_ACCESS_KEY")
	}
	if c.AwsSecretKey == "" {
		missing = append(missing, "AWS_SECRET_KEY")
	}
	if c.BucketName == "" {
		missing = append(missing, "BUCKET_NAME")
	}
	if c.BlobName == "" {
		missing = append(missing, "BLOB_NAME")
	}
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}
	return nil
}

// ValidateServe checks what the API server needs at startup.
func (c *Config) ValidateServe() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}
	if c.LLMAPIKey == "" {
		return fmt.Errorf("LLM_API_KEY not set")
	}
	return nil
}

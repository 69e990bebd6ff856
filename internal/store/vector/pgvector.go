package vector

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"multirag/internal/config"
	"multirag/internal/core"
	"multirag/internal/models"
)

const upsertBatchSize = 100

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PgStore keeps document vectors in Postgres with the pgvector extension.
// One table per index; cosine distance throughout.
type PgStore struct {
	db          *sql.DB
	table       string
	dim         int
	settleDelay time.Duration
	log         *zap.SugaredLogger
}

var _ core.VectorStore = (*PgStore)(nil)

func NewPgStore(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*PgStore, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if !identRe.MatchString(cfg.VectorTable) {
		return nil, fmt.Errorf("invalid vector table name %q", cfg.VectorTable)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return &PgStore{
		db:          db,
		table:       cfg.VectorTable,
		dim:         cfg.EmbedDim,
		settleDelay: cfg.IndexSettleDelay,
		log:         log,
	}, nil
}

func (s *PgStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// EnsureIndex creates the vector table and its ivfflat cosine index if they
// do not exist yet, then waits a settle delay so freshly provisioned indexes
// are ready before the first upsert.
func (s *PgStore) EnsureIndex(ctx context.Context) error {
	var reg sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT to_regclass($1)::text`, s.table).Scan(&reg)
	if err != nil {
		return fmt.Errorf("index existence check: %w", err)
	}
	if reg.Valid {
		return nil
	}

	s.log.Infow("creating vector index", "table", s.table, "dimension", s.dim)

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id         text PRIMARY KEY,
			embedding  vector(%d) NOT NULL,
			modality   text NOT NULL,
			source     text NOT NULL,
			image_path text,
			content    text NOT NULL
		)`, s.table, s.dim),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_embedding_idx
			ON %s USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)`,
			s.table, s.table),
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	// Give the backend time to finish provisioning before the first write.
	select {
	case <-time.After(s.settleDelay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Upsert writes item/vector pairs in batches of 100. A failed batch is
// logged and skipped; the remaining batches still attempt to complete. A
// count mismatch aborts with zero writes.
func (s *PgStore) Upsert(ctx context.Context, items []models.ContentItem, vectors [][]float32) error {
	recs, err := buildRecords(items, vectors, time.Now().Unix())
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}

	s.log.Infow("upserting records", "count", len(recs), "table", s.table)

	q := fmt.Sprintf(`INSERT INTO %s (id, embedding, modality, source, image_path, content)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		ON CONFLICT (id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			modality = EXCLUDED.modality,
			source = EXCLUDED.source,
			image_path = EXCLUDED.image_path,
			content = EXCLUDED.content`, s.table)

	for start := 0; start < len(recs); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(recs) {
			end = len(recs)
		}
		if err := s.upsertBatch(ctx, q, recs[start:end]); err != nil {
			s.log.Errorw("batch upsert failed, skipping batch", "from", start, "to", end, "err", err)
			continue
		}
		s.log.Infow("upserted batch", "from", start, "to", end)
	}
	return nil
}

func (s *PgStore) upsertBatch(ctx context.Context, q string, recs []record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range recs {
		r := &recs[i]
		if _, err := stmt.ExecContext(ctx,
			r.ID, pgvector.NewVector(r.Vector), string(r.Modality), r.SourceID, r.ImagePath, r.Content,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Query returns the topK nearest records by cosine distance. Rows whose
// stored content is empty are dropped, mirroring what retrieval expects.
func (s *PgStore) Query(ctx context.Context, vec []float32, topK int) ([]models.Match, error) {
	q := fmt.Sprintf(`SELECT id, content, modality, source, COALESCE(image_path, ''),
			embedding <=> $1 AS distance
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2`, s.table)

	rows, err := s.db.QueryContext(ctx, q, pgvector.NewVector(vec), topK)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}
	defer rows.Close()

	var out []models.Match
	for rows.Next() {
		var m models.Match
		var modality string
		if err := rows.Scan(&m.ID, &m.Content, &modality, &m.SourceID, &m.ImagePath, &m.Distance); err != nil {
			return nil, err
		}
		if m.Content == "" {
			continue
		}
		m.Modality = models.Modality(modality)
		out = append(out, m)
	}
	return out, rows.Err()
}

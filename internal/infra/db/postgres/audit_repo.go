package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/bryanwahyu/idea-analyzer/internal/domain/audit"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

const createAuditTable = `
CREATE TABLE IF NOT EXISTS analysis_audit (
  id            UUID         PRIMARY KEY,
  mode          VARCHAR(16)  NOT NULL,
  outcome       VARCHAR(32)  NOT NULL,
  error_message TEXT,
  idea_length   INTEGER      NOT NULL,
  latency_ms    BIGINT       NOT NULL,
  created_at    TIMESTAMPTZ  NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_audit_created_at ON analysis_audit (created_at);
`

// EnsureSchema creates the audit table when missing
func (r *AuditRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createAuditTable)
	return err
}

// Save inserts or updates an audit record
func (r *AuditRepository) Save(ctx context.Context, rec *audit.Record) error {
	const q = `
INSERT INTO analysis_audit
  (id, mode, outcome, error_message, idea_length, latency_ms, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
  outcome=EXCLUDED.outcome,
  error_message=EXCLUDED.error_message,
  latency_ms=EXCLUDED.latency_ms;
`
	var errMsg sql.NullString
	if strings.TrimSpace(rec.ErrorMessage) != "" {
		errMsg = sql.NullString{String: rec.ErrorMessage, Valid: true}
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q,
		string(rec.ID), rec.Mode, rec.Outcome, errMsg, rec.IdeaLength, rec.LatencyMS, createdAt)
	return err
}

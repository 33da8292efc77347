package mysql

import (
	"context"
	"database/sql"

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
  id            CHAR(36)     NOT NULL PRIMARY KEY,
  mode          VARCHAR(16)  NOT NULL,
  outcome       VARCHAR(32)  NOT NULL,
  error_message TEXT         NULL,
  idea_length   INT          NOT NULL,
  latency_ms    BIGINT       NOT NULL,
  created_at    DATETIME(3)  NOT NULL,
  INDEX idx_analysis_audit_created_at (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`

// EnsureSchema creates the audit table when missing
func (r *AuditRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createAuditTable)
	return err
}

// Save inserts one audit record
func (r *AuditRepository) Save(ctx context.Context, rec *audit.Record) error {
	const q = `
INSERT INTO analysis_audit
  (id, mode, outcome, error_message, idea_length, latency_ms, created_at)
VALUES (?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  outcome=VALUES(outcome), error_message=VALUES(error_message), latency_ms=VALUES(latency_ms);
`
	_, err := r.db.ExecContext(ctx, q,
		string(rec.ID),
		rec.Mode,
		rec.Outcome,
		nullString(rec.ErrorMessage),
		rec.IdeaLength,
		rec.LatencyMS,
		nowIfZero(rec.CreatedAt),
	)
	return err
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"factory-scoring-service/internal/core/domain"
	ports "factory-scoring-service/internal/core/ports/output"
)

const timeFormat = time.RFC3339Nano

const createCollectedRecords = `
CREATE TABLE IF NOT EXISTS collected_records (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	identifier   TEXT NOT NULL,
	request_id   TEXT NOT NULL DEFAULT '',
	model_name   TEXT NOT NULL DEFAULT '',
	payload      TEXT NOT NULL,
	collected_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_collected_records_identifier ON collected_records (identifier);
`

// Collector appends scoring inputs and predictions to a SQLite database.
type Collector struct {
	sqlDB *sql.DB
}

var _ ports.DataCollector = (*Collector)(nil)

// Open opens (creating if needed) the collector database at path.
func Open(path string) (*Collector, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("collector path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(createCollectedRecords); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create collected_records: %w", err)
	}
	return &Collector{sqlDB: sqlDB}, nil
}

func (c *Collector) Close() error {
	if c == nil || c.sqlDB == nil {
		return nil
	}
	return c.sqlDB.Close()
}

func (c *Collector) Collect(ctx context.Context, rec *domain.CollectedRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c == nil || c.sqlDB == nil {
		return fmt.Errorf("collector is not open")
	}
	if rec == nil || rec.Identifier == "" {
		return fmt.Errorf("collected record identifier is required")
	}

	collectedAt := rec.CollectedAt
	if collectedAt.IsZero() {
		collectedAt = time.Now()
	}
	_, err := c.sqlDB.ExecContext(ctx,
		`INSERT INTO collected_records (identifier, request_id, model_name, payload, collected_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Identifier, rec.RequestID, rec.ModelName, string(rec.Payload), collectedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert collected record: %w", err)
	}
	return nil
}

// List returns the records collected under identifier, oldest first.
func (c *Collector) List(ctx context.Context, identifier string) ([]domain.CollectedRecord, error) {
	rows, err := c.sqlDB.QueryContext(ctx,
		`SELECT identifier, request_id, model_name, payload, collected_at
		 FROM collected_records WHERE identifier = ? ORDER BY id`,
		identifier,
	)
	if err != nil {
		return nil, fmt.Errorf("list collected records: %w", err)
	}
	defer rows.Close()

	var out []domain.CollectedRecord
	for rows.Next() {
		var (
			rec         domain.CollectedRecord
			payload     string
			collectedAt string
		)
		if err := rows.Scan(&rec.Identifier, &rec.RequestID, &rec.ModelName, &payload, &collectedAt); err != nil {
			return nil, fmt.Errorf("scan collected record: %w", err)
		}
		rec.Payload = []byte(payload)
		if rec.CollectedAt, err = time.Parse(timeFormat, collectedAt); err != nil {
			return nil, fmt.Errorf("parse collected_at: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"bike-deal-monitor/models"
)

// PostgresWriter keeps an auditable history of confirmed deals in PostgreSQL.
// It is an optional sink: the seen-deals file stays the source of truth for
// deduplication, this table only records what was alerted and when.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS deals (
			id              SERIAL PRIMARY KEY,
			signature       TEXT        UNIQUE NOT NULL,
			brand           VARCHAR(50) NOT NULL,
			model           TEXT        NOT NULL,
			year            INT         NOT NULL DEFAULT 0,
			kilometers      INT         NOT NULL DEFAULT 0,
			price           INT         NOT NULL,
			predicted_price INT         NOT NULL,
			profit          INT         NOT NULL,
			found_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_deals_brand    ON deals(brand);
		CREATE INDEX IF NOT EXISTS idx_deals_profit   ON deals(profit);
		CREATE INDEX IF NOT EXISTS idx_deals_found_at ON deals(found_at);
	`)
	return err
}

// WriteDeal inserts one confirmed deal. Re-inserting the same signature is a
// no-op, mirroring the append-only seen log.
func (pw *PostgresWriter) WriteDeal(deal *models.Deal) error {
	_, err := pw.db.Exec(`
		INSERT INTO deals (signature, brand, model, year, kilometers, price, predicted_price, profit, found_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (signature) DO NOTHING
	`, deal.Signature, deal.Brand, deal.Model, deal.Year, deal.Kilometers,
		deal.Price, deal.PredictedPrice, deal.Profit, deal.FoundAt)
	if err != nil {
		return fmt.Errorf("postgres: insert deal: %w", err)
	}
	return nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

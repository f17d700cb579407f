package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"drawAuditor/config"
	"drawAuditor/game"
)

// ReportRecord is a stored audit report with its summary columns.
type ReportRecord struct {
	GameID          string       `json:"gameId"`
	RunID           string       `json:"runId"`
	Verdict         game.Verdict `json:"verdict"`
	Total           int          `json:"total"`
	Verified        int          `json:"verified"`
	Unverifiable    int          `json:"unverifiable"`
	Failed          int          `json:"failed"`
	FailedSequences []int32      `json:"failedSequences"`
	Fingerprint     string       `json:"fingerprint"`
	Report          *game.Report `json:"report"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// ReportStore persists audit reports in PostgreSQL.
type ReportStore struct {
	pool *pgxpool.Pool
	log  *zap.SugaredLogger
}

// NewReportStore connects, pings and creates the schema.
func NewReportStore(ctx context.Context, databaseURL string, log *zap.SugaredLogger) (*ReportStore, error) {
	log.Info("🔌 Connecting to PostgreSQL...")

	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = config.MaxConns
	poolConfig.MinConns = config.MinConns
	poolConfig.MaxConnLifetime = config.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("✅ PostgreSQL connected successfully")

	s := &ReportStore{pool: pool, log: log}
	if err := s.InitSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the pool.
func (s *ReportStore) Close() {
	s.log.Info("🔌 Closing PostgreSQL connection...")
	s.pool.Close()
}

// InitSchema creates the reports table if it doesn't exist.
func (s *ReportStore) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS verification_reports (
		id SERIAL PRIMARY KEY,
		game_id TEXT NOT NULL,
		run_id TEXT NOT NULL UNIQUE,
		verdict TEXT NOT NULL,
		total INTEGER NOT NULL,
		verified INTEGER NOT NULL,
		unverifiable INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		failed_sequences INTEGER[] NOT NULL DEFAULT '{}',
		report JSONB NOT NULL,
		fingerprint TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	-- Latest report per game
	CREATE INDEX IF NOT EXISTS idx_verification_reports_game_id
		ON verification_reports(game_id, created_at DESC);

	CREATE INDEX IF NOT EXISTS idx_verification_reports_created_at
		ON verification_reports(created_at DESC);
	`

	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create verification_reports table: %w", err)
	}
	return nil
}

// StoreReport inserts a report. Reports are append-only; a repeated run id
// is ignored.
func (s *ReportStore) StoreReport(ctx context.Context, report *game.Report) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	failed := make([]int32, 0, len(report.FailedSequences))
	for _, seq := range report.FailedSequences {
		failed = append(failed, int32(seq))
	}

	createdAt := time.Now().UTC()
	if report.CreatedAt > 0 {
		createdAt = time.Unix(report.CreatedAt, 0).UTC()
	}

	query := `
		INSERT INTO verification_reports
		(game_id, run_id, verdict, total, verified, unverifiable, failed,
		 failed_sequences, report, fingerprint, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (run_id) DO NOTHING
	`

	_, err = s.pool.Exec(
		ctx,
		query,
		report.GameID,
		report.RunID,
		string(report.Verdict),
		report.Total,
		report.Verified,
		report.Unverifiable,
		report.Failed,
		failed,
		reportJSON,
		report.Fingerprint,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}

	s.log.Infof("✅ Stored report - Game: %s, Verdict: %s, Run: %s",
		report.GameID, report.Verdict, report.RunID)
	return nil
}

const selectReport = `
	SELECT game_id, run_id, verdict, total, verified, unverifiable, failed,
	       failed_sequences, report, fingerprint, created_at
	FROM verification_reports
`

func scanReport(row pgx.Row) (*ReportRecord, error) {
	var record ReportRecord
	var verdict string
	var reportJSON []byte

	if err := row.Scan(
		&record.GameID,
		&record.RunID,
		&verdict,
		&record.Total,
		&record.Verified,
		&record.Unverifiable,
		&record.Failed,
		&record.FailedSequences,
		&reportJSON,
		&record.Fingerprint,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}
	record.Verdict = game.Verdict(verdict)

	record.Report = &game.Report{}
	if err := json.Unmarshal(reportJSON, record.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &record, nil
}

// GetLatestReport returns the newest report for a game, or nil if none.
func (s *ReportStore) GetLatestReport(ctx context.Context, gameID string) (*ReportRecord, error) {
	query := selectReport + `
		WHERE game_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	record, err := scanReport(s.pool.QueryRow(ctx, query, gameID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return record, nil
}

// GetRecentReports returns the N most recent reports across all games.
func (s *ReportStore) GetRecentReports(ctx context.Context, limit int) ([]*ReportRecord, error) {
	query := selectReport + `
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	records := []*ReportRecord{}
	for rows.Next() {
		record, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return records, nil
}

// HealthCheck pings PostgreSQL.
func (s *ReportStore) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

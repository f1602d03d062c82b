package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-jobradar-automation/internal/models"
)

// Postgres implements Store on a pgx pool, keeping postings as JSONB
// documents alongside their normalized key columns.
type Postgres struct {
	db *pgxpool.Pool
}

// Connect opens a pool and pings it. The caller owns the handle and must
// Close it at shutdown.
func Connect(ctx context.Context, connString string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// Connection poolers in transaction mode choke on the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Postgres{db: pool}, nil
}

func (p *Postgres) Close() {
	if p.db != nil {
		p.db.Close()
	}
}

// EnsureIndexes creates the schema, including the uniqueness constraint on
// the dedup key.
func (p *Postgres) EnsureIndexes(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id BIGSERIAL PRIMARY KEY,
			title_key TEXT NOT NULL,
			company_key TEXT NOT NULL,
			location_key TEXT NOT NULL,
			document JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (title_key, company_key, location_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs (created_at)`,
		`CREATE TABLE IF NOT EXISTS scraping_sessions (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			status TEXT NOT NULL,
			start_time TIMESTAMPTZ NOT NULL,
			document JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON scraping_sessions (user_id, start_time DESC)`,
	}
	for _, stmt := range statements {
		if _, err := p.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// UpsertJob inserts or fully replaces the posting stored under its dedup key.
// The DISTINCT-FROM guard skips the write when only the scrape timestamps
// changed, so re-seeing an unchanged posting reports neither flag. xmax = 0
// distinguishes a fresh insert from a replace.
func (p *Postgres) UpsertJob(ctx context.Context, job models.JobPosting) (UpsertResult, error) {
	key := KeyFor(job.Title, job.Company, job.Location)
	if key.Title == "" {
		return UpsertResult{}, errEmptyTitleKey
	}

	document, err := json.Marshal(job)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("failed to marshal job: %w", err)
	}

	query := `
		INSERT INTO jobs (title_key, company_key, location_key, document)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (title_key, company_key, location_key)
		DO UPDATE SET document = EXCLUDED.document, updated_at = now()
		WHERE jobs.document - 'scraped_at' - 'updated_at'
			IS DISTINCT FROM EXCLUDED.document - 'scraped_at' - 'updated_at'
		RETURNING (xmax = 0) AS inserted`

	var inserted bool
	err = p.db.QueryRow(ctx, query, key.Title, key.Company, key.Location, document).Scan(&inserted)
	if err == pgx.ErrNoRows {
		//conflict with identical content: no-op
		return UpsertResult{}, nil
	}
	if err != nil {
		return UpsertResult{}, fmt.Errorf("failed to upsert job: %w", err)
	}
	if inserted {
		return UpsertResult{Inserted: true}, nil
	}
	return UpsertResult{Modified: true}, nil
}

// FindJob looks a posting up by its dedup key.
func (p *Postgres) FindJob(ctx context.Context, title, company, location string) (*models.JobPosting, error) {
	key := KeyFor(title, company, location)

	var document []byte
	err := p.db.QueryRow(ctx,
		`SELECT document FROM jobs WHERE title_key = $1 AND company_key = $2 AND location_key = $3`,
		key.Title, key.Company, key.Location).Scan(&document)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}

	var job models.JobPosting
	if err := json.Unmarshal(document, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return &job, nil
}

func (p *Postgres) CountJobs(ctx context.Context) (int64, error) {
	var count int64
	if err := p.db.QueryRow(ctx, `SELECT count(*) FROM jobs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}

// ---------------- SESSION OPERATIONS ----------------

func (p *Postgres) CreateSession(ctx context.Context, session *models.ScrapingSession) error {
	document, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	_, err = p.db.Exec(ctx,
		`INSERT INTO scraping_sessions (id, user_id, status, start_time, document) VALUES ($1, $2, $3, $4, $5)`,
		session.ID, session.UserID, session.Status, session.StartTime, document)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (p *Postgres) GetSession(ctx context.Context, id string) (*models.ScrapingSession, error) {
	var document []byte
	err := p.db.QueryRow(ctx, `SELECT document FROM scraping_sessions WHERE id = $1`, id).Scan(&document)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.ScrapingSession
	if err := json.Unmarshal(document, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (p *Postgres) UpdateSession(ctx context.Context, session *models.ScrapingSession) error {
	document, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	//terminal states are final: only a rewrite of the same terminal status
	//(richer stats) may touch an already-finished session
	tag, err := p.db.Exec(ctx,
		`UPDATE scraping_sessions SET status = $1, document = $2
		 WHERE id = $3 AND (status = $1 OR status NOT IN ('completed', 'failed', 'cancelled'))`,
		session.Status, document, session.ID)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var status string
		err := p.db.QueryRow(ctx, `SELECT status FROM scraping_sessions WHERE id = $1`, session.ID).Scan(&status)
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		return ErrTerminalStatus
	}
	return nil
}

func (p *Postgres) ListSessions(ctx context.Context, userID string, limit int) ([]models.ScrapingSession, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := p.db.Query(ctx,
		`SELECT document FROM scraping_sessions WHERE user_id = $1 ORDER BY start_time DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.ScrapingSession
	for rows.Next() {
		var document []byte
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		var session models.ScrapingSession
		if err := json.Unmarshal(document, &session); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

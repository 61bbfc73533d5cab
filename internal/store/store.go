package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-zephyr-scraper/internal/models"
)

// Store is the narrow persistence contract the pipeline needs: read
// subscriptions, check/insert job records, write enrichment back. Schema
// management lives with the managed backend, not here.
type Store struct {
	db *pgxpool.Pool
}

func Connect(ctx context.Context, connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// IMPORTANT: Supabase connection pooler (PgBouncer in Transaction mode)
	// does not support prepared statements easily. We MUST disable the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Store{db: pool}, nil
}

func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// ---------------- SUBSCRIPTION OPERATIONS ----------------

// LoadActiveSubscriptions fetches every is_active = true search config.
// The scraper only reads this table; mutation belongs to the web layer.
func (s *Store) LoadActiveSubscriptions(ctx context.Context) ([]models.SearchSubscription, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, keywords, location, is_remote, experience_level, pages, is_active, created_at
		FROM search_configs
		WHERE is_active = true`)
	if err != nil {
		return nil, fmt.Errorf("failed to query search configs: %w", err)
	}
	defer rows.Close()

	var subs []models.SearchSubscription
	for rows.Next() {
		var sub models.SearchSubscription
		if err := rows.Scan(
			&sub.ID, &sub.UserID, &sub.Keywords, &sub.Location,
			&sub.RemoteOnly, &sub.ExperienceLevel, &sub.Pages, &sub.Active, &sub.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan search config: %w", err)
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// ---------------- JOB OPERATIONS ----------------

// FindJobIDByDedupKey is the authoritative duplicate check: one row per
// (user, source, dedup key) regardless of how many runs re-scrape the page.
func (s *Store) FindJobIDByDedupKey(ctx context.Context, userID, source, dedupKey string) (string, bool, error) {
	var id string
	err := s.db.QueryRow(ctx,
		`SELECT id FROM jobs WHERE user_id = $1 AND source = $2 AND job_hash = $3`,
		userID, source, dedupKey).Scan(&id)
	if err == pgx.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up job by dedup key: %w", err)
	}
	return id, true, nil
}

// InsertJob inserts a record unless the same (user, source, dedup key)
// already exists. Returns whether a row was actually written, so the
// check-then-insert race with concurrent runs degrades to a silent no-op.
func (s *Store) InsertJob(ctx context.Context, job *models.JobRecord) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		INSERT INTO jobs (
			user_id, title, company, location, url, job_hash, source, status,
			salary_min, salary_max, currency, job_type, experience_level,
			work_arrangement, posted_at, applicant_count, easy_apply, notes, created_at
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, '', NOW()
		WHERE NOT EXISTS (
			SELECT 1 FROM jobs WHERE user_id = $1 AND source = $7 AND job_hash = $6
		)`,
		job.UserID, job.Title, job.Company, job.Location, job.URL, job.DedupKey,
		job.Source, job.Status,
		job.SalaryMin, job.SalaryMax, job.Currency, job.JobType, job.ExperienceLevel,
		job.WorkArrangement, job.PostedAt, job.ApplicantCount, job.EasyApply,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert job: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// UpdateEnrichment writes only the enrichment fields. Status, notes and
// everything user-owned stays untouched.
func (s *Store) UpdateEnrichment(ctx context.Context, jobID, description, summary string, requirements []string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE jobs SET description = $1, ai_summary = $2, ai_requirements = $3 WHERE id = $4`,
		description, summary, requirements, jobID)
	if err != nil {
		return fmt.Errorf("failed to update enrichment for job %s: %w", jobID, err)
	}
	return nil
}

// UpdateStatus changes a record's lifecycle status. Transitioning into
// Applied stamps applied_at exactly once.
func (s *Store) UpdateStatus(ctx context.Context, jobID string, status models.JobStatus) error {
	_, err := s.db.Exec(ctx, `
		UPDATE jobs
		SET status = $1,
		    applied_at = CASE
		        WHEN $1 = 'Applied' AND applied_at IS NULL THEN NOW()
		        ELSE applied_at
		    END
		WHERE id = $2`,
		status, jobID)
	if err != nil {
		return fmt.Errorf("failed to update status for job %s: %w", jobID, err)
	}
	return nil
}

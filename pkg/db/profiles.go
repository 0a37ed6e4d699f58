package db

import (
	"context"
	"fmt"

	"social-lens-go/pkg/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const profileColumns = `id, user_id, platform, handle, scrape_status, scrape_error,
	 apify_run_id, last_scraped, created_at, updated_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Platform,
		&p.Handle,
		&p.ScrapeStatus,
		&p.ScrapeError,
		&p.ApifyRunID,
		&p.LastScraped,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("profile not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	return &p, nil
}

// GetOrCreateProfile returns the profile for (user, platform, handle),
// creating it on first request
func (db *DB) GetOrCreateProfile(ctx context.Context, userID uuid.UUID, create models.ProfileCreate) (*models.Profile, error) {
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO profiles (user_id, platform, handle)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, platform, handle)
		 DO UPDATE SET updated_at = NOW()
		 RETURNING `+profileColumns,
		userID, create.Platform, create.Handle,
	)
	return scanProfile(row)
}

// GetProfileByID retrieves a profile scoped to its owning user
func (db *DB) GetProfileByID(ctx context.Context, profileID, userID uuid.UUID) (*models.Profile, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 WHERE id = $1 AND user_id = $2`,
		profileID, userID,
	)
	return scanProfile(row)
}

// GetProfile retrieves a profile by id alone. Used by the webhook path,
// which carries no user session.
func (db *DB) GetProfile(ctx context.Context, profileID uuid.UUID) (*models.Profile, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 WHERE id = $1`,
		profileID,
	)
	return scanProfile(row)
}

// ListProfilesByUserID retrieves all profiles for a user
func (db *DB) ListProfilesByUserID(ctx context.Context, userID uuid.UUID) ([]models.Profile, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}

	return profiles, rows.Err()
}

// SetProfileStatus writes a new scrape status, replacing any prior error text
func (db *DB) SetProfileStatus(ctx context.Context, profileID uuid.UUID, status models.ScrapeStatus, scrapeError *string) error {
	result, err := db.Pool.Exec(ctx,
		`UPDATE profiles
		 SET scrape_status = $2, scrape_error = $3, updated_at = NOW()
		 WHERE id = $1`,
		profileID, status, scrapeError,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile not found")
	}
	return nil
}

// SetProfileRunStarted records the actor run id and moves the profile to fetching
func (db *DB) SetProfileRunStarted(ctx context.Context, profileID uuid.UUID, runID string) error {
	result, err := db.Pool.Exec(ctx,
		`UPDATE profiles
		 SET scrape_status = $2, scrape_error = NULL, apify_run_id = $3, updated_at = NOW()
		 WHERE id = $1`,
		profileID, models.StatusFetching, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to record run start: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile not found")
	}
	return nil
}

// MarkProfileCompleted stamps the profile as completed with last_scraped = now
func (db *DB) MarkProfileCompleted(ctx context.Context, profileID uuid.UUID) error {
	result, err := db.Pool.Exec(ctx,
		`UPDATE profiles
		 SET scrape_status = $2, scrape_error = NULL, last_scraped = NOW(), updated_at = NOW()
		 WHERE id = $1`,
		profileID, models.StatusCompleted,
	)
	if err != nil {
		return fmt.Errorf("failed to mark profile completed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile not found")
	}
	return nil
}

// DeleteProfile removes a profile. Dependent profile_data, conversations and
// messages rows are removed by ON DELETE CASCADE.
func (db *DB) DeleteProfile(ctx context.Context, profileID, userID uuid.UUID) error {
	result, err := db.Pool.Exec(ctx,
		`DELETE FROM profiles WHERE id = $1 AND user_id = $2`,
		profileID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile not found")
	}
	return nil
}

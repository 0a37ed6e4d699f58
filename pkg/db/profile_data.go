package db

import (
	"context"
	"encoding/json"
	"fmt"

	"social-lens-go/pkg/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetProfileData retrieves the current snapshot for a profile
func (db *DB) GetProfileData(ctx context.Context, profileID uuid.UUID) (*models.ProfileData, error) {
	var d models.ProfileData
	err := db.Pool.QueryRow(ctx,
		`SELECT id, profile_id, raw_data, platform_specific_data, scraped_at, created_at
		 FROM profile_data
		 WHERE profile_id = $1`,
		profileID,
	).Scan(
		&d.ID,
		&d.ProfileID,
		&d.RawData,
		&d.PlatformSpecificData,
		&d.ScrapedAt,
		&d.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("profile data not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile data: %w", err)
	}

	return &d, nil
}

// ReplaceProfileData swaps the profile's snapshot for a new one. The delete
// and insert run in a single transaction so a crash cannot leave the profile
// without a data row.
func (db *DB) ReplaceProfileData(ctx context.Context, profileID uuid.UUID, rawData, platformData json.RawMessage) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM profile_data WHERE profile_id = $1`,
		profileID,
	); err != nil {
		return fmt.Errorf("failed to delete old profile data: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO profile_data (profile_id, raw_data, platform_specific_data, scraped_at)
		 VALUES ($1, $2, $3, NOW())`,
		profileID, rawData, platformData,
	); err != nil {
		return fmt.Errorf("failed to insert profile data: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit profile data: %w", err)
	}

	return nil
}

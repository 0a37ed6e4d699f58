package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProfileData is the scrape result snapshot for a profile. At most one row
// exists per profile; a new successful scrape replaces it wholesale.
type ProfileData struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ProfileID uuid.UUID `db:"profile_id" json:"profile_id"`
	// RawData is the full ordered item list returned by the actor run
	RawData json.RawMessage `db:"raw_data" json:"raw_data"`
	// PlatformSpecificData is the first item of RawData, promoted for
	// convenient structured access
	PlatformSpecificData json.RawMessage `db:"platform_specific_data" json:"platform_specific_data"`
	ScrapedAt            time.Time       `db:"scraped_at" json:"scraped_at"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
}

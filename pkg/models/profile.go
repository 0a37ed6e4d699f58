package models

import (
	"time"

	"github.com/google/uuid"
)

// Platform identifies which social network a profile belongs to
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
)

// Valid reports whether the platform is one of the supported networks
func (p Platform) Valid() bool {
	return p == PlatformInstagram || p == PlatformLinkedIn
}

// ScrapeStatus is the lifecycle state of a profile's scrape pipeline
type ScrapeStatus string

const (
	StatusPending   ScrapeStatus = "pending"   // scrape requested, actor not yet started
	StatusFetching  ScrapeStatus = "fetching"  // actor run started, waiting for webhook
	StatusScraping  ScrapeStatus = "scraping"  // run succeeded, materializing dataset
	StatusCompleted ScrapeStatus = "completed" // snapshot persisted
	StatusFailed    ScrapeStatus = "failed"    // any step failed, see ScrapeError
)

// Terminal reports whether the status is a final state
func (s ScrapeStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Profile struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	UserID       uuid.UUID    `db:"user_id" json:"user_id"`
	Platform     Platform     `db:"platform" json:"platform"`
	Handle       string       `db:"handle" json:"handle"`
	ScrapeStatus ScrapeStatus `db:"scrape_status" json:"scrape_status"`
	ScrapeError  *string      `db:"scrape_error" json:"scrape_error,omitempty"`
	ApifyRunID   *string      `db:"apify_run_id" json:"apify_run_id,omitempty"`
	LastScraped  *time.Time   `db:"last_scraped" json:"last_scraped,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// ProfileCreate represents data for registering a new profile
type ProfileCreate struct {
	Platform Platform `json:"platform" binding:"required"`
	Handle   string   `json:"handle" binding:"required"`
}

// ScrapeRequest is the launch endpoint's request body
type ScrapeRequest struct {
	Platform  Platform  `json:"platform" binding:"required"`
	Handle    string    `json:"handle" binding:"required"`
	ProfileID uuid.UUID `json:"profileId" binding:"required"`
}

// ScrapeResponse is returned when an actor run has been started
type ScrapeResponse struct {
	Success   bool         `json:"success"`
	ProfileID uuid.UUID    `json:"profileId"`
	Handle    string       `json:"handle"`
	Platform  Platform     `json:"platform"`
	Status    ScrapeStatus `json:"status"`
	RunID     string       `json:"runId"`
}

// ProfileStatus is the status-query endpoint's response
type ProfileStatus struct {
	ProfileID    uuid.UUID    `json:"profileId"`
	ScrapeStatus ScrapeStatus `json:"scrape_status"`
	ScrapeError  *string      `json:"scrape_error,omitempty"`
	LastScraped  *time.Time   `json:"last_scraped,omitempty"`
}

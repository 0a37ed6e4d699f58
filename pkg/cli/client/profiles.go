package client

import (
	"context"
	"fmt"

	"social-lens-go/pkg/models"

	"github.com/google/uuid"
)

// RegisterProfile creates (or returns) the profile for a platform handle
func (c *Client) RegisterProfile(ctx context.Context, platform models.Platform, handle string) (*models.Profile, error) {
	req := models.ProfileCreate{
		Platform: platform,
		Handle:   handle,
	}

	var profile models.Profile
	if err := c.postJSON(ctx, "/api/v1/profiles", req, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

// ListProfiles retrieves all of the caller's tracked profiles
func (c *Client) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := c.getJSON(ctx, "/api/v1/profiles", &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// StartScrape launches a scrape run for a profile
func (c *Client) StartScrape(ctx context.Context, req models.ScrapeRequest) (*models.ScrapeResponse, error) {
	var resp models.ScrapeResponse
	if err := c.postJSON(ctx, "/api/v1/scrape", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReadStatus reads a profile's current scrape status. It satisfies
// poller.StatusReader so the CLI can watch scrape progress.
func (c *Client) ReadStatus(ctx context.Context, profileID uuid.UUID) (*models.ProfileStatus, error) {
	var status models.ProfileStatus
	path := fmt.Sprintf("/api/v1/profiles/%s/status", profileID)
	if err := c.getJSON(ctx, path, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

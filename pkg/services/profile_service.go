package services

import (
	"context"

	"social-lens-go/pkg/db"
	"social-lens-go/pkg/models"

	"github.com/google/uuid"
)

// ProfileWithData bundles a profile with its current snapshot for the dashboard
type ProfileWithData struct {
	Profile models.Profile      `json:"profile"`
	Data    *models.ProfileData `json:"data,omitempty"`
}

// ProfileService handles profile CRUD and dashboard reads
type ProfileService struct {
	db *db.DB
}

// NewProfileService creates a new profile service
func NewProfileService(database *db.DB) *ProfileService {
	return &ProfileService{db: database}
}

// RegisterProfile creates the profile row for (user, platform, handle) or
// returns the existing one. Called when a user first requests analysis.
func (s *ProfileService) RegisterProfile(ctx context.Context, userID uuid.UUID, create models.ProfileCreate) (*models.Profile, error) {
	return s.db.GetOrCreateProfile(ctx, userID, create)
}

// ListProfiles retrieves all profiles for a user
func (s *ProfileService) ListProfiles(ctx context.Context, userID uuid.UUID) ([]models.Profile, error) {
	return s.db.ListProfilesByUserID(ctx, userID)
}

// GetProfileStatus reads the current scrape lifecycle state for polling
func (s *ProfileService) GetProfileStatus(ctx context.Context, profileID, userID uuid.UUID) (*models.ProfileStatus, error) {
	profile, err := s.db.GetProfileByID(ctx, profileID, userID)
	if err != nil {
		return nil, err
	}

	return &models.ProfileStatus{
		ProfileID:    profile.ID,
		ScrapeStatus: profile.ScrapeStatus,
		ScrapeError:  profile.ScrapeError,
		LastScraped:  profile.LastScraped,
	}, nil
}

// GetProfileWithData returns the profile and its snapshot, if one exists
func (s *ProfileService) GetProfileWithData(ctx context.Context, profileID, userID uuid.UUID) (*ProfileWithData, error) {
	profile, err := s.db.GetProfileByID(ctx, profileID, userID)
	if err != nil {
		return nil, err
	}

	result := &ProfileWithData{Profile: *profile}

	// No snapshot yet is a normal state, not an error
	if data, err := s.db.GetProfileData(ctx, profileID); err == nil {
		result.Data = data
	}

	return result, nil
}

// DeleteProfile removes a profile and, via cascade, its data and conversations
func (s *ProfileService) DeleteProfile(ctx context.Context, profileID, userID uuid.UUID) error {
	return s.db.DeleteProfile(ctx, profileID, userID)
}

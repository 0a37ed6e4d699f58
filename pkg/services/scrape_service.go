package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"social-lens-go/pkg/apify"
	"social-lens-go/pkg/models"
	"social-lens-go/pkg/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrValidation marks request errors the caller can correct, as opposed to
// failures of the external scrape infrastructure.
var ErrValidation = errors.New("invalid scrape request")

// ProfileStore is the persistence surface the scrape pipeline writes through.
// *db.DB satisfies it; tests substitute a fake.
type ProfileStore interface {
	GetProfile(ctx context.Context, profileID uuid.UUID) (*models.Profile, error)
	SetProfileStatus(ctx context.Context, profileID uuid.UUID, status models.ScrapeStatus, scrapeError *string) error
	SetProfileRunStarted(ctx context.Context, profileID uuid.UUID, runID string) error
	MarkProfileCompleted(ctx context.Context, profileID uuid.UUID) error
	ReplaceProfileData(ctx context.Context, profileID uuid.UUID, rawData, platformData json.RawMessage) error
}

// ActorClient is the external scrape infrastructure: it starts runs and
// serves their result datasets.
type ActorClient interface {
	StartActorRun(ctx context.Context, actorID string, input any, webhookURL string) (*apify.Run, error)
	ListDatasetItems(ctx context.Context, datasetID string) ([]apify.DatasetItem, error)
}

// ScrapeService orchestrates the scrape lifecycle: launching actor runs,
// handling their terminal webhook callbacks and materializing result datasets.
type ScrapeService struct {
	store          ProfileStore
	actors         ActorClient
	actorConfigs   map[models.Platform]apify.ActorConfig
	webhookBaseURL string
	logger         *logrus.Logger
}

// NewScrapeService creates a new scrape service
func NewScrapeService(
	store ProfileStore,
	actors ActorClient,
	actorConfigs map[models.Platform]apify.ActorConfig,
	webhookBaseURL string,
	logger *logrus.Logger,
) *ScrapeService {
	return &ScrapeService{
		store:          store,
		actors:         actors,
		actorConfigs:   actorConfigs,
		webhookBaseURL: webhookBaseURL,
		logger:         logger,
	}
}

// StartScrape validates the request, normalizes the handle and starts exactly
// one actor run for the profile. The profile moves to pending before the
// external call and to fetching once the run has started. Run-start failures
// leave the profile failed with the provider error preserved; retry is a new
// user-initiated request.
func (s *ScrapeService) StartScrape(ctx context.Context, userID uuid.UUID, req models.ScrapeRequest) (*models.ScrapeResponse, error) {
	if !req.Platform.Valid() {
		return nil, fmt.Errorf("%w: unsupported platform: %s", ErrValidation, req.Platform)
	}

	handle, err := utils.NormalizeHandle(req.Platform, req.Handle)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	profile, err := s.store.GetProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, err
	}
	if profile.UserID != userID {
		return nil, fmt.Errorf("profile not found")
	}

	actorConfig, ok := s.actorConfigs[req.Platform]
	if !ok {
		return nil, fmt.Errorf("no actor configured for platform: %s", req.Platform)
	}

	// Optimistic status write before contacting the external infrastructure
	if err := s.store.SetProfileStatus(ctx, profile.ID, models.StatusPending, nil); err != nil {
		return nil, err
	}

	webhookURL := fmt.Sprintf("%s/api/v1/webhooks/apify?profileId=%s", s.webhookBaseURL, profile.ID)
	input := actorConfig.BuildActorInput(req.Platform, handle)

	run, err := s.actors.StartActorRun(ctx, actorConfig.ActorID, input, webhookURL)
	if err != nil {
		s.failProfile(ctx, profile.ID, err.Error())
		return nil, fmt.Errorf("failed to start scrape run: %w", err)
	}

	if err := s.store.SetProfileRunStarted(ctx, profile.ID, run.ID); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"profile_id": profile.ID,
		"platform":   req.Platform,
		"run_id":     run.ID,
	}).Info("Scrape run started")

	return &models.ScrapeResponse{
		Success:   true,
		ProfileID: profile.ID,
		Handle:    handle,
		Platform:  req.Platform,
		Status:    models.StatusFetching,
		RunID:     run.ID,
	}, nil
}

// HandleRunOutcome drives the profile's state transition for a normalized
// webhook outcome. Every recognized outcome leaves the profile in a terminal
// state before this returns; the returned message goes back to the caller.
func (s *ScrapeService) HandleRunOutcome(ctx context.Context, profileID uuid.UUID, outcome *apify.RunOutcome) (string, error) {
	profile, err := s.store.GetProfile(ctx, profileID)
	if err != nil {
		return "", err
	}

	// A callback for a run that is no longer the profile's current one is
	// stale: a newer launch superseded it. Ignore rather than overwrite.
	if outcome.RunID != "" && profile.ApifyRunID != nil && *profile.ApifyRunID != outcome.RunID {
		s.logger.WithFields(logrus.Fields{
			"profile_id":  profileID,
			"run_id":      outcome.RunID,
			"current_run": *profile.ApifyRunID,
		}).Warn("Ignoring webhook for superseded run")
		return "stale run callback ignored", nil
	}

	switch outcome.Kind {
	case apify.OutcomeSuccess:
		if outcome.DatasetID == "" {
			msg := "Scraping succeeded but no dataset id was provided"
			s.failProfile(ctx, profileID, msg)
			return msg, nil
		}

		if err := s.store.SetProfileStatus(ctx, profileID, models.StatusScraping, nil); err != nil {
			return "", err
		}

		if err := s.materializeDataset(ctx, profileID, outcome.DatasetID); err != nil {
			return fmt.Sprintf("scraping succeeded but materialization failed: %v", err), nil
		}

		return "profile data scraped successfully", nil

	case apify.OutcomeFailure:
		s.failProfile(ctx, profileID, outcome.Reason)
		return "scrape failure recorded", nil

	default:
		msg := fmt.Sprintf("Unrecognized scrape event: %q", outcome.RawValue)
		s.failProfile(ctx, profileID, msg)
		return msg, nil
	}
}

// materializeDataset fetches the completed run's full result set and persists
// it as the profile's snapshot, replacing any prior one. An empty result set
// is a failure: a run cannot complete without data.
func (s *ScrapeService) materializeDataset(ctx context.Context, profileID uuid.UUID, datasetID string) error {
	items, err := s.actors.ListDatasetItems(ctx, datasetID)
	if err != nil {
		s.failProfile(ctx, profileID, err.Error())
		return err
	}

	if len(items) == 0 {
		err := fmt.Errorf("no data returned from scraping service")
		s.failProfile(ctx, profileID, err.Error())
		return err
	}

	rawData, err := json.Marshal(items)
	if err != nil {
		s.failProfile(ctx, profileID, err.Error())
		return fmt.Errorf("failed to encode dataset items: %w", err)
	}

	// First item is by convention the primary record for the profile
	if err := s.store.ReplaceProfileData(ctx, profileID, rawData, json.RawMessage(items[0])); err != nil {
		s.failProfile(ctx, profileID, err.Error())
		return err
	}

	if err := s.store.MarkProfileCompleted(ctx, profileID); err != nil {
		s.failProfile(ctx, profileID, err.Error())
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"profile_id": profileID,
		"dataset_id": datasetID,
		"items":      len(items),
	}).Info("Profile data materialized")

	return nil
}

// failProfile writes a terminal failed status. Errors here are logged only;
// there is nothing further to fall back to.
func (s *ScrapeService) failProfile(ctx context.Context, profileID uuid.UUID, reason string) {
	if err := s.store.SetProfileStatus(ctx, profileID, models.StatusFailed, &reason); err != nil {
		s.logger.WithFields(logrus.Fields{
			"profile_id": profileID,
			"error":      err,
		}).Error("Failed to record failed scrape status")
	}
}

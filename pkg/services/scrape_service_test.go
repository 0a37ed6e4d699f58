package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"social-lens-go/pkg/apify"
	"social-lens-go/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory ProfileStore that records every status write
type fakeStore struct {
	profiles     map[uuid.UUID]*models.Profile
	rawData      map[uuid.UUID]json.RawMessage
	platformData map[uuid.UUID]json.RawMessage
	statusLog    []models.ScrapeStatus
	failStatus   error // injected SetProfileStatus failure
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:     make(map[uuid.UUID]*models.Profile),
		rawData:      make(map[uuid.UUID]json.RawMessage),
		platformData: make(map[uuid.UUID]json.RawMessage),
	}
}

func (f *fakeStore) addProfile(userID uuid.UUID, platform models.Platform, handle string) *models.Profile {
	p := &models.Profile{
		ID:           uuid.New(),
		UserID:       userID,
		Platform:     platform,
		Handle:       handle,
		ScrapeStatus: models.StatusPending,
	}
	f.profiles[p.ID] = p
	return p
}

func (f *fakeStore) GetProfile(_ context.Context, profileID uuid.UUID) (*models.Profile, error) {
	p, ok := f.profiles[profileID]
	if !ok {
		return nil, fmt.Errorf("profile not found")
	}
	copied := *p
	return &copied, nil
}

func (f *fakeStore) SetProfileStatus(_ context.Context, profileID uuid.UUID, status models.ScrapeStatus, scrapeError *string) error {
	if f.failStatus != nil {
		return f.failStatus
	}
	p, ok := f.profiles[profileID]
	if !ok {
		return fmt.Errorf("profile not found")
	}
	p.ScrapeStatus = status
	p.ScrapeError = scrapeError
	f.statusLog = append(f.statusLog, status)
	return nil
}

func (f *fakeStore) SetProfileRunStarted(_ context.Context, profileID uuid.UUID, runID string) error {
	p, ok := f.profiles[profileID]
	if !ok {
		return fmt.Errorf("profile not found")
	}
	p.ScrapeStatus = models.StatusFetching
	p.ScrapeError = nil
	p.ApifyRunID = &runID
	f.statusLog = append(f.statusLog, models.StatusFetching)
	return nil
}

func (f *fakeStore) MarkProfileCompleted(_ context.Context, profileID uuid.UUID) error {
	p, ok := f.profiles[profileID]
	if !ok {
		return fmt.Errorf("profile not found")
	}
	now := time.Now()
	p.ScrapeStatus = models.StatusCompleted
	p.ScrapeError = nil
	p.LastScraped = &now
	f.statusLog = append(f.statusLog, models.StatusCompleted)
	return nil
}

func (f *fakeStore) ReplaceProfileData(_ context.Context, profileID uuid.UUID, rawData, platformData json.RawMessage) error {
	f.rawData[profileID] = rawData
	f.platformData[profileID] = platformData
	return nil
}

// fakeActorClient scripts run starts and dataset listings
type fakeActorClient struct {
	run           *apify.Run
	startErr      error
	startedActor  string
	startedInput  any
	webhookURL    string
	datasets      map[string][]apify.DatasetItem
	listErr       error
	listCallCount int
}

func (f *fakeActorClient) StartActorRun(_ context.Context, actorID string, input any, webhookURL string) (*apify.Run, error) {
	f.startedActor = actorID
	f.startedInput = input
	f.webhookURL = webhookURL
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.run, nil
}

func (f *fakeActorClient) ListDatasetItems(_ context.Context, datasetID string) ([]apify.DatasetItem, error) {
	f.listCallCount++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.datasets[datasetID], nil
}

func newTestService(store *fakeStore, actors *fakeActorClient) *ScrapeService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	configs := map[models.Platform]apify.ActorConfig{
		models.PlatformInstagram: {ActorID: "ig-actor", ResultsLimit: 50},
		models.PlatformLinkedIn:  {ActorID: "li-actor", SessionCookie: "cookie"},
	}

	return NewScrapeService(store, actors, configs, "https://app.example.com", logger)
}

func TestStartScrape_StripsAtAndRecordsRun(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	profile := store.addProfile(userID, models.PlatformInstagram, "@sample_user")

	actors := &fakeActorClient{run: &apify.Run{ID: "run-1", Status: "RUNNING"}}
	service := newTestService(store, actors)

	resp, err := service.StartScrape(context.Background(), userID, models.ScrapeRequest{
		Platform:  models.PlatformInstagram,
		Handle:    "@sample_user",
		ProfileID: profile.ID,
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "sample_user", resp.Handle)
	assert.Equal(t, models.StatusFetching, resp.Status)
	assert.Equal(t, "run-1", resp.RunID)

	// Optimistic pending write happens before the run start, fetching after
	assert.Equal(t, []models.ScrapeStatus{models.StatusPending, models.StatusFetching}, store.statusLog)

	stored := store.profiles[profile.ID]
	require.NotNil(t, stored.ApifyRunID)
	assert.Equal(t, "run-1", *stored.ApifyRunID)

	// The callback URL routes straight back to this profile
	assert.Equal(t, "ig-actor", actors.startedActor)
	assert.Contains(t, actors.webhookURL, "profileId="+profile.ID.String())
}

func TestStartScrape_LinkedInRequiresProfileURL(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	profile := store.addProfile(userID, models.PlatformLinkedIn, "not-a-url")

	actors := &fakeActorClient{run: &apify.Run{ID: "run-1"}}
	service := newTestService(store, actors)

	_, err := service.StartScrape(context.Background(), userID, models.ScrapeRequest{
		Platform:  models.PlatformLinkedIn,
		Handle:    "not-a-url",
		ProfileID: profile.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "linkedin.com/in/")

	// Validation failures never reach the external infrastructure
	assert.Empty(t, actors.startedActor)
	assert.Empty(t, store.statusLog)
}

func TestStartScrape_UnknownPlatform(t *testing.T) {
	store := newFakeStore()
	service := newTestService(store, &fakeActorClient{})

	_, err := service.StartScrape(context.Background(), uuid.New(), models.ScrapeRequest{
		Platform:  "myspace",
		Handle:    "someone",
		ProfileID: uuid.New(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "unsupported platform")
}

func TestStartScrape_WrongOwner(t *testing.T) {
	store := newFakeStore()
	profile := store.addProfile(uuid.New(), models.PlatformInstagram, "someone")
	service := newTestService(store, &fakeActorClient{})

	_, err := service.StartScrape(context.Background(), uuid.New(), models.ScrapeRequest{
		Platform:  models.PlatformInstagram,
		Handle:    "someone",
		ProfileID: profile.ID,
	})
	require.Error(t, err)
	assert.Equal(t, "profile not found", err.Error())
}

func TestStartScrape_RunStartFailure(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	profile := store.addProfile(userID, models.PlatformInstagram, "someone")

	actors := &fakeActorClient{startErr: fmt.Errorf("actor quota exceeded")}
	service := newTestService(store, actors)

	_, err := service.StartScrape(context.Background(), userID, models.ScrapeRequest{
		Platform:  models.PlatformInstagram,
		Handle:    "someone",
		ProfileID: profile.ID,
	})
	require.Error(t, err)

	stored := store.profiles[profile.ID]
	assert.Equal(t, models.StatusFailed, stored.ScrapeStatus)
	require.NotNil(t, stored.ScrapeError)
	// The raw provider error text is preserved for diagnostics
	assert.Contains(t, *stored.ScrapeError, "actor quota exceeded")
}

func TestHandleRunOutcome_SuccessMaterializes(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	profile := store.addProfile(userID, models.PlatformInstagram, "sample_user")

	items := []apify.DatasetItem{
		json.RawMessage(`{"username":"sample_user","followers":100}`),
		json.RawMessage(`{"post":"one"}`),
		json.RawMessage(`{"post":"two"}`),
	}
	actors := &fakeActorClient{datasets: map[string][]apify.DatasetItem{"D1": items}}
	service := newTestService(store, actors)

	outcome, err := apify.ParseRunOutcome([]byte(`{"event":"ACTOR.RUN.SUCCEEDED","resource":{"defaultDatasetId":"D1"}}`))
	require.NoError(t, err)

	message, err := service.HandleRunOutcome(context.Background(), profile.ID, outcome)
	require.NoError(t, err)
	assert.Equal(t, "profile data scraped successfully", message)

	// scraping first, completed once the snapshot is persisted
	assert.Equal(t, []models.ScrapeStatus{models.StatusScraping, models.StatusCompleted}, store.statusLog)

	stored := store.profiles[profile.ID]
	assert.Equal(t, models.StatusCompleted, stored.ScrapeStatus)
	assert.NotNil(t, stored.LastScraped)
	assert.Nil(t, stored.ScrapeError)

	var raw []json.RawMessage
	require.NoError(t, json.Unmarshal(store.rawData[profile.ID], &raw))
	assert.Len(t, raw, 3)
	assert.JSONEq(t, `{"username":"sample_user","followers":100}`, string(store.platformData[profile.ID]))
}

func TestHandleRunOutcome_FailureStatus(t *testing.T) {
	store := newFakeStore()
	profile := store.addProfile(uuid.New(), models.PlatformInstagram, "sample_user")
	service := newTestService(store, &fakeActorClient{})

	outcome, err := apify.ParseRunOutcome([]byte(`{"resource":{"status":"FAILED"}}`))
	require.NoError(t, err)

	_, err = service.HandleRunOutcome(context.Background(), profile.ID, outcome)
	require.NoError(t, err)

	stored := store.profiles[profile.ID]
	assert.Equal(t, models.StatusFailed, stored.ScrapeStatus)
	require.NotNil(t, stored.ScrapeError)
	assert.Equal(t, "Scraping failed", *stored.ScrapeError)
}

func TestHandleRunOutcome_MissingDatasetID(t *testing.T) {
	store := newFakeStore()
	profile := store.addProfile(uuid.New(), models.PlatformInstagram, "sample_user")
	actors := &fakeActorClient{}
	service := newTestService(store, actors)

	outcome, err := apify.ParseRunOutcome([]byte(`{"event":"ACTOR.RUN.SUCCEEDED","resource":{}}`))
	require.NoError(t, err)

	_, err = service.HandleRunOutcome(context.Background(), profile.ID, outcome)
	require.NoError(t, err)

	stored := store.profiles[profile.ID]
	assert.Equal(t, models.StatusFailed, stored.ScrapeStatus)
	require.NotNil(t, stored.ScrapeError)
	assert.Contains(t, *stored.ScrapeError, "no dataset id")

	// Materialization is never attempted without a dataset
	assert.Zero(t, actors.listCallCount)
}

func TestHandleRunOutcome_EmptyDatasetIsFailure(t *testing.T) {
	store := newFakeStore()
	profile := store.addProfile(uuid.New(), models.PlatformInstagram, "sample_user")
	actors := &fakeActorClient{datasets: map[string][]apify.DatasetItem{"D-empty": {}}}
	service := newTestService(store, actors)

	outcome, err := apify.ParseRunOutcome([]byte(`{"event":"ACTOR.RUN.SUCCEEDED","resource":{"defaultDatasetId":"D-empty"}}`))
	require.NoError(t, err)

	_, err = service.HandleRunOutcome(context.Background(), profile.ID, outcome)
	require.NoError(t, err)

	stored := store.profiles[profile.ID]
	assert.Equal(t, models.StatusFailed, stored.ScrapeStatus)
	require.NotNil(t, stored.ScrapeError)
	assert.Equal(t, "no data returned from scraping service", *stored.ScrapeError)

	// No snapshot row is created for an empty result
	assert.NotContains(t, store.rawData, profile.ID)
}

func TestHandleRunOutcome_DatasetFetchError(t *testing.T) {
	store := newFakeStore()
	profile := store.addProfile(uuid.New(), models.PlatformInstagram, "sample_user")
	actors := &fakeActorClient{listErr: fmt.Errorf("dataset service unavailable")}
	service := newTestService(store, actors)

	outcome, err := apify.ParseRunOutcome([]byte(`{"event":"ACTOR.RUN.SUCCEEDED","resource":{"defaultDatasetId":"D1"}}`))
	require.NoError(t, err)

	_, err = service.HandleRunOutcome(context.Background(), profile.ID, outcome)
	require.NoError(t, err)

	stored := store.profiles[profile.ID]
	assert.Equal(t, models.StatusFailed, stored.ScrapeStatus)
	require.NotNil(t, stored.ScrapeError)
	assert.Contains(t, *stored.ScrapeError, "dataset service unavailable")
}

func TestHandleRunOutcome_UnrecognizedValueFailsSafe(t *testing.T) {
	store := newFakeStore()
	profile := store.addProfile(uuid.New(), models.PlatformInstagram, "sample_user")
	service := newTestService(store, &fakeActorClient{})

	outcome, err := apify.ParseRunOutcome([]byte(`{"event":"ACTOR.RUN.PAUSED","resource":{}}`))
	require.NoError(t, err)

	_, err = service.HandleRunOutcome(context.Background(), profile.ID, outcome)
	require.NoError(t, err)

	stored := store.profiles[profile.ID]
	assert.Equal(t, models.StatusFailed, stored.ScrapeStatus)
	require.NotNil(t, stored.ScrapeError)
	// The error names the unrecognized value
	assert.Contains(t, *stored.ScrapeError, "ACTOR.RUN.PAUSED")
}

func TestHandleRunOutcome_TerminalConvergence(t *testing.T) {
	// Every recognized payload leaves the profile in a terminal state
	bodies := []string{
		`{"event":"ACTOR.RUN.SUCCEEDED","resource":{"defaultDatasetId":"D1"}}`,
		`{"event":"ACTOR.RUN.SUCCEEDED","resource":{}}`,
		`{"event":"ACTOR.RUN.FAILED","resource":{}}`,
		`{"event":"ACTOR.RUN.TIMED_OUT","resource":{}}`,
		`{"event":"ACTOR.RUN.ABORTED","resource":{}}`,
		`{"resource":{"status":"SUCCEEDED","defaultDatasetId":"D1"}}`,
		`{"resource":{"status":"FAILED"}}`,
		`{"resource":{"status":"TIMED-OUT"}}`,
		`{"resource":{"status":"ABORTED"}}`,
		`{"event":"ACTOR.RUN.UNKNOWN","resource":{}}`,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			store := newFakeStore()
			profile := store.addProfile(uuid.New(), models.PlatformInstagram, "sample_user")
			profile.ScrapeStatus = models.StatusFetching

			actors := &fakeActorClient{datasets: map[string][]apify.DatasetItem{
				"D1": {json.RawMessage(`{"a":1}`)},
			}}
			service := newTestService(store, actors)

			outcome, err := apify.ParseRunOutcome([]byte(body))
			require.NoError(t, err)

			_, err = service.HandleRunOutcome(context.Background(), profile.ID, outcome)
			require.NoError(t, err)

			assert.True(t, store.profiles[profile.ID].ScrapeStatus.Terminal(),
				"profile left in non-terminal state %s", store.profiles[profile.ID].ScrapeStatus)
		})
	}
}

func TestHandleRunOutcome_SnapshotReplacement(t *testing.T) {
	store := newFakeStore()
	profile := store.addProfile(uuid.New(), models.PlatformInstagram, "sample_user")

	// Seed an existing snapshot from a previous scrape
	store.rawData[profile.ID] = json.RawMessage(`[{"old":"snapshot"}]`)
	store.platformData[profile.ID] = json.RawMessage(`{"old":"snapshot"}`)

	newItems := []apify.DatasetItem{
		json.RawMessage(`{"fresh":"first"}`),
		json.RawMessage(`{"fresh":"second"}`),
	}
	actors := &fakeActorClient{datasets: map[string][]apify.DatasetItem{"D2": newItems}}
	service := newTestService(store, actors)

	outcome, err := apify.ParseRunOutcome([]byte(`{"event":"ACTOR.RUN.SUCCEEDED","resource":{"defaultDatasetId":"D2"}}`))
	require.NoError(t, err)

	_, err = service.HandleRunOutcome(context.Background(), profile.ID, outcome)
	require.NoError(t, err)

	assert.NotContains(t, string(store.rawData[profile.ID]), "old")
	assert.JSONEq(t, `{"fresh":"first"}`, string(store.platformData[profile.ID]))
}

func TestHandleRunOutcome_StaleRunIgnored(t *testing.T) {
	store := newFakeStore()
	profile := store.addProfile(uuid.New(), models.PlatformInstagram, "sample_user")
	currentRun := "run-new"
	store.profiles[profile.ID].ApifyRunID = &currentRun
	store.profiles[profile.ID].ScrapeStatus = models.StatusFetching

	service := newTestService(store, &fakeActorClient{})

	outcome, err := apify.ParseRunOutcome([]byte(`{"event":"ACTOR.RUN.FAILED","resource":{"id":"run-old"}}`))
	require.NoError(t, err)

	message, err := service.HandleRunOutcome(context.Background(), profile.ID, outcome)
	require.NoError(t, err)
	assert.Contains(t, message, "stale")

	// A superseded run's outcome never overwrites the current run's state
	assert.Equal(t, models.StatusFetching, store.profiles[profile.ID].ScrapeStatus)
	assert.Empty(t, store.statusLog)
}

func TestHandleRunOutcome_UnknownProfile(t *testing.T) {
	store := newFakeStore()
	service := newTestService(store, &fakeActorClient{})

	outcome, err := apify.ParseRunOutcome([]byte(`{"resource":{"status":"FAILED"}}`))
	require.NoError(t, err)

	_, err = service.HandleRunOutcome(context.Background(), uuid.New(), outcome)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "not found"))
}

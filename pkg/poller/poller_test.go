package poller

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"social-lens-go/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader returns a fixed sequence of statuses, repeating the last one,
// and counts how many reads were issued.
type scriptedReader struct {
	mu       sync.Mutex
	statuses []*models.ProfileStatus
	errs     []error
	reads    int
}

func (r *scriptedReader) ReadStatus(_ context.Context, _ uuid.UUID) (*models.ProfileStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.reads
	r.reads++
	if i >= len(r.statuses) {
		i = len(r.statuses) - 1
	}
	if r.errs != nil && r.errs[i] != nil {
		return nil, r.errs[i]
	}
	return r.statuses[i], nil
}

func (r *scriptedReader) readCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

func statusOf(s models.ScrapeStatus) *models.ProfileStatus {
	return &models.ProfileStatus{ScrapeStatus: s}
}

func collect(t *testing.T, updates <-chan ProgressUpdate) []ProgressUpdate {
	t.Helper()
	var got []ProgressUpdate
	timeout := time.After(5 * time.Second)
	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return got
			}
			got = append(got, update)
		case <-timeout:
			t.Fatal("poller did not close its channel")
		}
	}
}

func TestWatch_StopsOnCompleted(t *testing.T) {
	reader := &scriptedReader{statuses: []*models.ProfileStatus{
		statusOf(models.StatusPending),
		statusOf(models.StatusFetching),
		statusOf(models.StatusScraping),
		statusOf(models.StatusCompleted),
	}}

	p := New(reader, 10*time.Millisecond, time.Minute)
	got := collect(t, p.Watch(context.Background(), uuid.New()))

	require.Len(t, got, 4)
	assert.Equal(t, "Queued for scraping", got[0].Stage)
	assert.Equal(t, 10, got[0].Percent)
	assert.Equal(t, "Scraping profile", got[1].Stage)
	assert.Equal(t, 40, got[1].Percent)
	assert.Equal(t, "Processing results", got[2].Stage)
	assert.Equal(t, 75, got[2].Percent)
	assert.Equal(t, "Done", got[3].Stage)
	assert.Equal(t, 100, got[3].Percent)
	assert.True(t, got[3].Done)

	// Once a terminal status is observed, no further reads are issued
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 4, reader.readCount())
}

func TestWatch_StopsOnFailed(t *testing.T) {
	errText := "Scraping failed"
	reader := &scriptedReader{statuses: []*models.ProfileStatus{
		{ScrapeStatus: models.StatusFailed, ScrapeError: &errText},
	}}

	p := New(reader, 10*time.Millisecond, time.Minute)
	got := collect(t, p.Watch(context.Background(), uuid.New()))

	require.Len(t, got, 1)
	assert.Equal(t, models.StatusFailed, got[0].Status)
	assert.Equal(t, "Failed", got[0].Stage)
	assert.True(t, got[0].Done)
	require.Error(t, got[0].Err)
	assert.Equal(t, errText, got[0].Err.Error())
}

func TestWatch_FirstReadIsImmediate(t *testing.T) {
	reader := &scriptedReader{statuses: []*models.ProfileStatus{
		statusOf(models.StatusCompleted),
	}}

	// A long interval must not delay the first observation
	p := New(reader, time.Hour, time.Minute)

	start := time.Now()
	got := collect(t, p.Watch(context.Background(), uuid.New()))

	require.Len(t, got, 1)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWatch_TimeoutCeiling(t *testing.T) {
	// Status never leaves fetching; the ceiling has to end the watch
	reader := &scriptedReader{statuses: []*models.ProfileStatus{
		statusOf(models.StatusFetching),
	}}

	p := New(reader, 5*time.Millisecond, 50*time.Millisecond)
	got := collect(t, p.Watch(context.Background(), uuid.New()))

	require.NotEmpty(t, got)
	last := got[len(got)-1]
	assert.True(t, last.TimedOut)
	assert.True(t, last.Done)
	require.Error(t, last.Err)
	assert.Contains(t, last.Err.Error(), "timed out")
}

func TestWatch_ContextCancellation(t *testing.T) {
	reader := &scriptedReader{statuses: []*models.ProfileStatus{
		statusOf(models.StatusFetching),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	p := New(reader, 5*time.Millisecond, time.Minute)
	updates := p.Watch(ctx, uuid.New())

	// Consume a few updates then walk away
	<-updates
	cancel()

	timeout := time.After(time.Second)
	for {
		select {
		case _, ok := <-updates:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("channel not closed after cancellation")
		}
	}
}

func TestWatch_ProgressNeverRegresses(t *testing.T) {
	// A stale read can observe an earlier status; the displayed percentage
	// holds its high-water mark
	reader := &scriptedReader{statuses: []*models.ProfileStatus{
		statusOf(models.StatusScraping),
		statusOf(models.StatusPending),
		statusOf(models.StatusCompleted),
	}}

	p := New(reader, 10*time.Millisecond, time.Minute)
	got := collect(t, p.Watch(context.Background(), uuid.New()))

	require.Len(t, got, 3)
	assert.Equal(t, 75, got[0].Percent)
	assert.Equal(t, 75, got[1].Percent)
	assert.Equal(t, 100, got[2].Percent)
}

func TestWatch_TransientReadErrorContinues(t *testing.T) {
	reader := &scriptedReader{
		statuses: []*models.ProfileStatus{
			nil,
			statusOf(models.StatusCompleted),
		},
		errs: []error{fmt.Errorf("connection refused"), nil},
	}

	p := New(reader, 10*time.Millisecond, time.Minute)
	got := collect(t, p.Watch(context.Background(), uuid.New()))

	require.Len(t, got, 2)
	require.Error(t, got[0].Err)
	assert.False(t, got[0].Done)
	assert.True(t, got[1].Done)
}

func TestNew_Defaults(t *testing.T) {
	p := New(&scriptedReader{}, 0, 0)
	assert.Equal(t, 10*time.Second, p.interval)
	assert.Equal(t, 5*time.Minute, p.timeout)
}

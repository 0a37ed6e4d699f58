// Package poller implements the client-facing scrape progress loop: repeated
// point-in-time status reads translated into display stages, with no
// server-side subscription.
package poller

import (
	"context"
	"fmt"
	"time"

	"social-lens-go/pkg/models"

	"github.com/google/uuid"
)

// StatusReader supplies point-in-time profile status reads. The API client
// and the test fakes both satisfy it.
type StatusReader interface {
	ReadStatus(ctx context.Context, profileID uuid.UUID) (*models.ProfileStatus, error)
}

// ProgressUpdate is one observation of scrape progress
type ProgressUpdate struct {
	Status   models.ScrapeStatus
	Stage    string
	Percent  int
	Err      error // scrape error, read error or timeout condition
	TimedOut bool  // ceiling elapsed without a terminal status
	Done     bool  // no further updates will follow
}

// stage maps a status to its user-facing label and progress percentage
var stages = map[models.ScrapeStatus]struct {
	label   string
	percent int
}{
	models.StatusPending:   {"Queued for scraping", 10},
	models.StatusFetching:  {"Scraping profile", 40},
	models.StatusScraping:  {"Processing results", 75},
	models.StatusCompleted: {"Done", 100},
	models.StatusFailed:    {"Failed", 0},
}

// Poller watches a profile's scrape status on a fixed interval
type Poller struct {
	reader   StatusReader
	interval time.Duration
	timeout  time.Duration
}

// New creates a poller with the given read interval and wall-clock ceiling
func New(reader StatusReader, interval, timeout time.Duration) *Poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Poller{
		reader:   reader,
		interval: interval,
		timeout:  timeout,
	}
}

// Watch polls the profile's status until a terminal state is observed, the
// ceiling elapses, or ctx is cancelled, whichever comes first. The returned
// channel is closed once polling stops; no reads are issued after that.
// Timing out reports a timeout condition only; it never mutates profile state.
func (p *Poller) Watch(ctx context.Context, profileID uuid.UUID) <-chan ProgressUpdate {
	updates := make(chan ProgressUpdate)

	go func() {
		defer close(updates)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		deadline := time.NewTimer(p.timeout)
		defer deadline.Stop()

		lastPercent := 0

		// First read happens immediately, not after one interval
		if done := p.poll(ctx, profileID, &lastPercent, updates); done {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-deadline.C:
				emit(ctx, updates, ProgressUpdate{
					Err:      fmt.Errorf("timed out waiting for scrape to finish after %s", p.timeout),
					TimedOut: true,
					Done:     true,
				})
				return
			case <-ticker.C:
				if done := p.poll(ctx, profileID, &lastPercent, updates); done {
					return
				}
			}
		}
	}()

	return updates
}

// poll performs one status read and emits an update. It reports true when
// polling must stop (terminal status observed or context cancelled).
func (p *Poller) poll(ctx context.Context, profileID uuid.UUID, lastPercent *int, updates chan<- ProgressUpdate) bool {
	status, err := p.reader.ReadStatus(ctx, profileID)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		// Transient read failures are surfaced but do not stop the loop
		return !emit(ctx, updates, ProgressUpdate{Err: err})
	}

	stage := stages[status.ScrapeStatus]

	update := ProgressUpdate{
		Status:  status.ScrapeStatus,
		Stage:   stage.label,
		Percent: stage.percent,
		Done:    status.ScrapeStatus.Terminal(),
	}

	// Displayed progress never moves backwards while the scrape is alive
	if status.ScrapeStatus != models.StatusFailed {
		if update.Percent < *lastPercent {
			update.Percent = *lastPercent
		}
		*lastPercent = update.Percent
	}

	if status.ScrapeStatus == models.StatusFailed && status.ScrapeError != nil {
		update.Err = fmt.Errorf("%s", *status.ScrapeError)
	}

	if !emit(ctx, updates, update) {
		return true
	}
	return update.Done
}

// emit delivers an update unless the consumer is gone. It reports false when
// the context was cancelled before delivery.
func emit(ctx context.Context, updates chan<- ProgressUpdate, update ProgressUpdate) bool {
	select {
	case updates <- update:
		return true
	case <-ctx.Done():
		return false
	}
}

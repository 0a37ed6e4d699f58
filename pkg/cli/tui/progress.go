// Package tui renders the CLI's interactive views.
package tui

import (
	"context"
	"fmt"
	"strings"

	"social-lens-go/pkg/models"
	"social-lens-go/pkg/poller"

	tea "github.com/charmbracelet/bubbletea"
)

const progressBarWidth = 30

// progressMsg wraps one poller observation for the update loop
type progressMsg poller.ProgressUpdate

// progressClosedMsg is emitted when the poller closes its channel
type progressClosedMsg struct{}

// AnalyzeProgress shows live scrape progress for one profile. It consumes a
// poller's update channel and quits once a terminal update arrives or the
// user cancels.
type AnalyzeProgress struct {
	platform models.Platform
	handle   string
	runID    string
	updates  <-chan poller.ProgressUpdate
	cancel   context.CancelFunc

	last      poller.ProgressUpdate
	cancelled bool
	finished  bool
}

// NewAnalyzeProgress constructs the progress model. cancel stops the
// underlying poller when the user backs out.
func NewAnalyzeProgress(
	platform models.Platform,
	handle string,
	runID string,
	updates <-chan poller.ProgressUpdate,
	cancel context.CancelFunc,
) *AnalyzeProgress {
	return &AnalyzeProgress{
		platform: platform,
		handle:   handle,
		runID:    runID,
		updates:  updates,
		cancel:   cancel,
	}
}

func (m *AnalyzeProgress) Init() tea.Cmd {
	return m.waitForUpdate()
}

// waitForUpdate blocks on the poller channel and forwards the next
// observation into the update loop
func (m *AnalyzeProgress) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.updates
		if !ok {
			return progressClosedMsg{}
		}
		return progressMsg(update)
	}
}

func (m *AnalyzeProgress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.last = poller.ProgressUpdate(msg)
		if m.last.Done {
			m.finished = true
			return m, tea.Quit
		}
		return m, m.waitForUpdate()

	case progressClosedMsg:
		m.finished = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *AnalyzeProgress) View() string {
	if m.cancelled {
		return "\n" + renderWarning("Scrape cancelled. It may still finish in the background.") + "\n"
	}
	if m.finished {
		return m.renderDone()
	}
	return m.renderRunning()
}

func (m *AnalyzeProgress) renderRunning() string {
	var b strings.Builder
	b.WriteString(renderTitle(fmt.Sprintf("Analyzing %s profile", m.platform)))

	b.WriteString(fieldLabelStyle.Render("Handle:"))
	b.WriteString(fmt.Sprintf(" %s\n", m.handle))
	if m.runID != "" {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Run: %s", m.runID)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(renderProgressBar(m.last.Percent))
	b.WriteString(fmt.Sprintf(" %3d%%\n", m.last.Percent))

	stage := m.last.Stage
	if stage == "" {
		stage = "Starting"
	}
	b.WriteString(infoStyle.Render(stage))
	b.WriteString("\n")

	if m.last.Err != nil {
		b.WriteString(warningStyle.Render(fmt.Sprintf("status read failed: %v, retrying", m.last.Err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Press Esc to cancel."))
	b.WriteString("\n")
	return b.String()
}

func (m *AnalyzeProgress) renderDone() string {
	switch {
	case m.last.TimedOut:
		return "\n" + renderWarning("Timed out waiting for the scrape to finish. It may still complete in the background.") + "\n"
	case m.last.Status == models.StatusFailed:
		reason := "unknown reason"
		if m.last.Err != nil {
			reason = m.last.Err.Error()
		}
		return "\n" + renderError(fmt.Sprintf("Scrape failed: %s", reason)) + "\n"
	case m.last.Status == models.StatusCompleted:
		return "\n" + renderSuccess("Scrape completed! Profile data is ready.") + "\n"
	default:
		return "\n" + renderWarning("Scrape watch stopped before a final status was observed.") + "\n"
	}
}

func renderProgressBar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * progressBarWidth / 100
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", progressBarWidth-filled))
}

// Result reports the last update observed and whether the user cancelled
func (m *AnalyzeProgress) Result() (poller.ProgressUpdate, bool) {
	return m.last, m.cancelled
}

// RunAnalyzeProgress drives the progress view until the scrape reaches a
// terminal state, polling times out, or the user cancels.
func RunAnalyzeProgress(
	platform models.Platform,
	handle string,
	runID string,
	updates <-chan poller.ProgressUpdate,
	cancel context.CancelFunc,
) (poller.ProgressUpdate, bool, error) {
	model := NewAnalyzeProgress(platform, handle, runID, updates, cancel)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return poller.ProgressUpdate{}, false, fmt.Errorf("progress view failed: %w", err)
	}

	final, cancelled := model.Result()
	return final, cancelled, nil
}

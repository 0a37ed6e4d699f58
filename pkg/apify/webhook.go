package apify

import (
	"encoding/json"
	"fmt"
)

// OutcomeKind tags the normalized result of a webhook callback
type OutcomeKind int

const (
	// OutcomeSuccess means the run succeeded; DatasetID may still be empty
	OutcomeSuccess OutcomeKind = iota
	// OutcomeFailure covers failed, timed-out and aborted runs
	OutcomeFailure
	// OutcomeUnrecognized means neither vocabulary matched a known value
	OutcomeUnrecognized
)

// RunOutcome is the tagged union a webhook payload normalizes into. Handlers
// dispatch on Kind and never inspect the loosely-typed payload fields again.
type RunOutcome struct {
	Kind      OutcomeKind
	DatasetID string // set for OutcomeSuccess when the payload carried one
	RunID     string // resource.id when present, for stale-run detection
	Reason    string // short human reason for OutcomeFailure
	RawValue  string // the unrecognized event/status value for OutcomeUnrecognized
}

// webhookPayload covers both callback shapes Apify sends: a full event
// envelope with an `event` field, or a bare resource object
type webhookPayload struct {
	Event    string `json:"event"`
	Resource struct {
		ID               string `json:"id"`
		ActID            string `json:"actId"`
		Status           string `json:"status"`
		DefaultDatasetID string `json:"defaultDatasetId"`
	} `json:"resource"`
}

// ParseRunOutcome normalizes a webhook body into a RunOutcome. The `event`
// field is authoritative when present; otherwise the outcome is derived from
// `resource.status`. A non-JSON body returns an error and no outcome.
func ParseRunOutcome(body []byte) (*RunOutcome, error) {
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}

	outcome := &RunOutcome{RunID: payload.Resource.ID}

	if payload.Event != "" {
		switch payload.Event {
		case EventRunSucceeded:
			outcome.Kind = OutcomeSuccess
			outcome.DatasetID = payload.Resource.DefaultDatasetID
		case EventRunFailed:
			outcome.Kind = OutcomeFailure
			outcome.Reason = "Scraping failed"
		case EventRunTimedOut:
			outcome.Kind = OutcomeFailure
			outcome.Reason = "Scraping timed out"
		case EventRunAborted:
			outcome.Kind = OutcomeFailure
			outcome.Reason = "Scraping aborted"
		default:
			outcome.Kind = OutcomeUnrecognized
			outcome.RawValue = payload.Event
		}
		return outcome, nil
	}

	switch payload.Resource.Status {
	case RunStatusSucceeded:
		outcome.Kind = OutcomeSuccess
		outcome.DatasetID = payload.Resource.DefaultDatasetID
	case RunStatusFailed:
		outcome.Kind = OutcomeFailure
		outcome.Reason = "Scraping failed"
	case RunStatusTimedOut:
		outcome.Kind = OutcomeFailure
		outcome.Reason = "Scraping timed out"
	case RunStatusAborted:
		outcome.Kind = OutcomeFailure
		outcome.Reason = "Scraping aborted"
	default:
		outcome.Kind = OutcomeUnrecognized
		outcome.RawValue = payload.Resource.Status
	}

	return outcome, nil
}

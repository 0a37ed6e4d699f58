package apify

import "encoding/json"

// Run describes an actor run as reported by the Apify API
type Run struct {
	ID               string `json:"id"`
	ActID            string `json:"actId"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
}

// runEnvelope is the Apify API response wrapper
type runEnvelope struct {
	Data Run `json:"data"`
}

// Actor run terminal statuses as reported by Apify
const (
	RunStatusSucceeded = "SUCCEEDED"
	RunStatusFailed    = "FAILED"
	RunStatusTimedOut  = "TIMED-OUT"
	RunStatusAborted   = "ABORTED"
)

// Webhook event types for actor run termination
const (
	EventRunSucceeded = "ACTOR.RUN.SUCCEEDED"
	EventRunFailed    = "ACTOR.RUN.FAILED"
	EventRunTimedOut  = "ACTOR.RUN.TIMED_OUT"
	EventRunAborted   = "ACTOR.RUN.ABORTED"
)

// webhookDefinition is the webhook registration sent alongside a run start
type webhookDefinition struct {
	EventTypes []string `json:"eventTypes"`
	RequestURL string   `json:"requestUrl"`
}

// DatasetItem is one opaque record from an actor run's default dataset
type DatasetItem = json.RawMessage

// Package apify provides a client for starting Apify actor runs, fetching
// dataset results and parsing actor webhook callbacks.
package apify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// Client handles Apify API interactions: starting actor runs and listing
// dataset items.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *logrus.Logger
}

// NewClient creates a new Apify API client
func NewClient(baseURL, token string, logger *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.apify.com"
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// StartActorRun starts an asynchronous actor run with the given input and
// registers webhookURL for all terminal run events. It returns immediately
// with the run descriptor; the actor reports its outcome via the webhook.
func (c *Client) StartActorRun(ctx context.Context, actorID string, input any, webhookURL string) (*Run, error) {
	jsonBody, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("error marshaling actor input: %w", err)
	}

	webhooks, err := encodeWebhooks(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("error encoding webhook definition: %w", err)
	}

	params := url.Values{}
	params.Set("token", c.token)
	params.Set("webhooks", webhooks)

	endpoint := fmt.Sprintf("%s/v2/acts/%s/runs?%s", c.baseURL, url.PathEscape(actorID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.WithFields(logrus.Fields{
		"actor_id":    actorID,
		"webhook_url": webhookURL,
	}).Debug("Starting actor run")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newInvalidResponseError("failed to read response", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, newUnauthorizedError()
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, newRunStartError(
			fmt.Sprintf("actor run start failed (status %d): %s", resp.StatusCode, string(body)), nil)
	}

	var envelope runEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, newInvalidResponseError("failed to decode run response", err)
	}
	if envelope.Data.ID == "" {
		return nil, newInvalidResponseError("run response missing run id", nil)
	}

	c.logger.WithFields(logrus.Fields{
		"actor_id": actorID,
		"run_id":   envelope.Data.ID,
		"status":   envelope.Data.Status,
	}).Debug("Actor run started")

	return &envelope.Data, nil
}

// ListDatasetItems fetches the complete item list of a dataset. Apify returns
// items in insertion order; the full set is retrieved in one listing call.
func (c *Client) ListDatasetItems(ctx context.Context, datasetID string) ([]DatasetItem, error) {
	params := url.Values{}
	params.Set("token", c.token)
	params.Set("clean", "true")
	params.Set("format", "json")

	endpoint := fmt.Sprintf("%s/v2/datasets/%s/items?%s", c.baseURL, url.PathEscape(datasetID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newInvalidResponseError("failed to read dataset response", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, newUnauthorizedError()
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newDatasetFetchError(
			fmt.Sprintf("dataset fetch failed (status %d): %s", resp.StatusCode, string(body)), nil)
	}

	var items []DatasetItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, newInvalidResponseError("failed to decode dataset items", err)
	}

	c.logger.WithFields(logrus.Fields{
		"dataset_id": datasetID,
		"items":      len(items),
	}).Debug("Fetched dataset items")

	return items, nil
}

// encodeWebhooks builds the base64-encoded webhook definition list the Apify
// run API expects in its query string
func encodeWebhooks(requestURL string) (string, error) {
	defs := []webhookDefinition{{
		EventTypes: []string{
			EventRunSucceeded,
			EventRunFailed,
			EventRunTimedOut,
			EventRunAborted,
		},
		RequestURL: requestURL,
	}}

	data, err := json.Marshal(defs)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

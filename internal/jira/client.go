// Package jira is a read-only client for the Jira REST API, used to enrich
// merge requests with ticket status and priority. One client is shared
// process-wide: a single set of tracker credentials serves the whole run.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hal/stalemr/internal/log"
	"github.com/hal/stalemr/internal/model"
)

// Client wraps the Jira REST API with basic auth.
type Client struct {
	baseURL    string
	username   string
	token      string
	httpClient *http.Client
}

// NewClient creates a Jira client for the given base URL
// (e.g. "https://example.atlassian.net").
func NewClient(baseURL, username, token string) *Client {
	return NewClientWithHTTPClient(&http.Client{Timeout: 30 * time.Second}, baseURL, username, token)
}

// NewClientWithHTTPClient creates a client with a caller-supplied HTTP
// client. Used by tests to point at a local server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, username, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		username:   username,
		token:      token,
		httpClient: httpClient,
	}
}

// issueRecord is the wire shape of the issue endpoint, reduced to the fields
// the pipeline reads.
type issueRecord struct {
	Fields struct {
		Status struct {
			Name string `json:"name"`
		} `json:"status"`
		Priority *struct {
			Name string `json:"name"`
			ID   string `json:"id"`
		} `json:"priority"`
	} `json:"fields"`
}

// GetTicketInfo fetches status and priority for a ticket key. Any failure
// (not found, auth, transport) is logged and yields the zero TicketInfo:
// "unknown" is a valid state for the pipeline, never an error. One attempt,
// no retry.
func (c *Client) GetTicketInfo(ctx context.Context, key string) model.TicketInfo {
	issueURL := fmt.Sprintf("%s/rest/api/2/issue/%s", c.baseURL, url.PathEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, issueURL, nil)
	if err != nil {
		log.Warn("failed to build Jira request", "ticket", key, "error", err)
		return model.TicketInfo{Key: key}
	}
	req.SetBasicAuth(c.username, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("failed to fetch Jira ticket", "ticket", key, "error", err)
		return model.TicketInfo{Key: key}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("failed to fetch Jira ticket", "ticket", key, "status", resp.StatusCode)
		return model.TicketInfo{Key: key}
	}

	var rec issueRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		log.Warn("failed to decode Jira ticket", "ticket", key, "error", err)
		return model.TicketInfo{Key: key}
	}

	info := model.TicketInfo{
		Key:    key,
		Status: rec.Fields.Status.Name,
	}
	if rec.Fields.Priority != nil {
		info.Priority = strings.ToLower(rec.Fields.Priority.Name)
		info.PriorityID = rec.Fields.Priority.ID
	}
	log.Debug("fetched Jira ticket", "ticket", key, "status", info.Status, "priority", info.Priority)
	return info
}

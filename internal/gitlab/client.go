// Package gitlab is a thin read-only client for the GitLab REST API v4,
// covering the two calls the reminder pipeline needs: listing open merge
// requests and fetching approval state.
package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hal/stalemr/internal/log"
	"github.com/hal/stalemr/internal/model"
)

// ErrMalformedTimestamp marks a created_at value the API returned that could
// not be parsed. Callers treat this as an upstream defect and fail the
// affected team rather than silently dropping the merge request.
var ErrMalformedTimestamp = errors.New("malformed created_at timestamp")

// Client wraps the GitLab REST API. Projects may carry their own access
// token; the client falls back to the default token when they don't.
type Client struct {
	baseURL      string
	defaultToken string
	httpClient   *http.Client
}

// NewClient creates a GitLab client for the given instance base URL
// (e.g. "https://gitlab.com").
func NewClient(baseURL, defaultToken string) *Client {
	return NewClientWithHTTPClient(&http.Client{Timeout: 30 * time.Second}, baseURL, defaultToken)
}

// NewClientWithHTTPClient creates a client with a caller-supplied HTTP
// client. Used by tests to point at a local server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, defaultToken string) *Client {
	return &Client{
		baseURL:      baseURL,
		defaultToken: defaultToken,
		httpClient:   httpClient,
	}
}

func (c *Client) tokenFor(project model.Project) string {
	if project.Token != "" {
		return project.Token
	}
	return c.defaultToken
}

func (c *Client) get(ctx context.Context, token, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Private-Token", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// userRef is the name-only shape GitLab uses for assignees and reviewers.
type userRef struct {
	Name string `json:"name"`
}

// mergeRequestRecord is the wire shape of a merge request list entry.
type mergeRequestRecord struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IID         int       `json:"iid"`
	WebURL      string    `json:"web_url"`
	CreatedAt   string    `json:"created_at"`
	Author      author    `json:"author"`
	Assignees   []userRef `json:"assignees"`
	Reviewers   []userRef `json:"reviewers"`
	Draft       bool      `json:"draft"`
}

type author struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// approvalRecord is the wire shape of the approvals endpoint.
type approvalRecord struct {
	ApprovedBy []struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	} `json:"approved_by"`
}

// ListOpenMergeRequests fetches all open merge requests for a project. One
// attempt, no retry; transport and non-2xx failures come back as errors for
// the orchestrator's degrade-and-continue policy. A malformed created_at
// timestamp returns an error wrapping ErrMalformedTimestamp.
func (c *Client) ListOpenMergeRequests(ctx context.Context, project model.Project) ([]model.MergeRequest, error) {
	listURL := fmt.Sprintf("%s/api/v4/projects/%s/merge_requests?state=opened&per_page=100",
		c.baseURL, url.PathEscape(project.ID))

	var records []mergeRequestRecord
	if err := c.get(ctx, c.tokenFor(project), listURL, &records); err != nil {
		return nil, fmt.Errorf("list merge requests for project %s: %w", project.ID, err)
	}
	log.Debug("fetched open merge requests", "project", project.Name, "count", len(records))

	mrs := make([]model.MergeRequest, 0, len(records))
	for _, rec := range records {
		createdAt, err := time.Parse(time.RFC3339, rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("merge request %d in project %s: %w: %q",
				rec.IID, project.ID, ErrMalformedTimestamp, rec.CreatedAt)
		}
		mrs = append(mrs, model.MergeRequest{
			Title:       rec.Title,
			Description: rec.Description,
			IID:         rec.IID,
			WebURL:      rec.WebURL,
			CreatedAt:   createdAt,
			Author:      model.Author{Name: rec.Author.Name, Username: rec.Author.Username},
			Assignees:   names(rec.Assignees),
			Reviewers:   names(rec.Reviewers),
			Draft:       rec.Draft,
			ProjectID:   project.ID,
			ProjectName: project.Name,
		})
	}
	return mrs, nil
}

// HasAnyApproval reports whether the merge request has at least one
// approval. Failures are logged and reported as unapproved so a broken
// approvals endpoint never blocks the rest of the run.
func (c *Client) HasAnyApproval(ctx context.Context, project model.Project, iid int) (bool, error) {
	approvalURL := fmt.Sprintf("%s/api/v4/projects/%s/merge_requests/%d/approvals",
		c.baseURL, url.PathEscape(project.ID), iid)

	var rec approvalRecord
	if err := c.get(ctx, c.tokenFor(project), approvalURL, &rec); err != nil {
		log.Warn("failed to fetch approval state, treating as unapproved",
			"project", project.ID, "mr", iid, "error", err)
		return false, nil
	}
	return len(rec.ApprovedBy) > 0, nil
}

func names(refs []userRef) []string {
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Name)
	}
	return out
}

package gitlab_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hal/stalemr/internal/gitlab"
	"github.com/hal/stalemr/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) *gitlab.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return gitlab.NewClientWithHTTPClient(server.Client(), server.URL, "default-token")
}

// mrJSON is a helper struct for building GitLab merge request responses.
type mrJSON struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IID         int        `json:"iid"`
	WebURL      string     `json:"web_url"`
	CreatedAt   string     `json:"created_at"`
	Author      userJSON   `json:"author"`
	Assignees   []nameJSON `json:"assignees"`
	Reviewers   []nameJSON `json:"reviewers"`
	Draft       bool       `json:"draft"`
}

type userJSON struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

type nameJSON struct {
	Name string `json:"name"`
}

var testProject = model.Project{ID: "123", Name: "Rohan", Token: "glpat-project"}

func TestListOpenMergeRequests(t *testing.T) {
	records := []mrJSON{
		{
			Title:       "[ABC-1] Fix login",
			Description: "closes ABC-1",
			IID:         42,
			WebURL:      "https://gitlab.example.com/group/repo/-/merge_requests/42",
			CreatedAt:   "2026-03-10T08:30:00.000Z",
			Author:      userJSON{Name: "Alice", Username: "alice"},
			Assignees:   []nameJSON{{Name: "Bob"}},
			Reviewers:   []nameJSON{{Name: "Carol"}, {Name: "Dave"}},
		},
		{
			Title:     "Draft: new dashboard",
			IID:       43,
			WebURL:    "https://gitlab.example.com/group/repo/-/merge_requests/43",
			CreatedAt: "2026-03-12T10:00:00+05:30",
			Author:    userJSON{Name: "Eve", Username: "eve"},
			Draft:     true,
		},
	}

	var gotPath, gotToken, gotState string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("Private-Token")
		gotState = r.URL.Query().Get("state")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(records)
	})

	client := newTestClient(t, handler)
	mrs, err := client.ListOpenMergeRequests(context.Background(), testProject)
	require.NoError(t, err)

	assert.Equal(t, "/api/v4/projects/123/merge_requests", gotPath)
	assert.Equal(t, "glpat-project", gotToken, "project token should win over the default")
	assert.Equal(t, "opened", gotState)

	require.Len(t, mrs, 2)
	assert.Equal(t, "[ABC-1] Fix login", mrs[0].Title)
	assert.Equal(t, 42, mrs[0].IID)
	assert.Equal(t, model.Author{Name: "Alice", Username: "alice"}, mrs[0].Author)
	assert.Equal(t, []string{"Bob"}, mrs[0].Assignees)
	assert.Equal(t, []string{"Carol", "Dave"}, mrs[0].Reviewers)
	assert.Equal(t, "123", mrs[0].ProjectID)
	assert.Equal(t, "Rohan", mrs[0].ProjectName)
	assert.Equal(t, time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC), mrs[0].CreatedAt.UTC())

	assert.True(t, mrs[1].Draft)
	assert.Equal(t, 5*3600+1800, func() int { _, off := mrs[1].CreatedAt.Zone(); return off }(),
		"offset timestamps keep their zone")
}

func TestListOpenMergeRequestsUsesDefaultToken(t *testing.T) {
	var gotToken string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("Private-Token")
		_ = json.NewEncoder(w).Encode([]mrJSON{})
	})

	client := newTestClient(t, handler)
	_, err := client.ListOpenMergeRequests(context.Background(), model.Project{ID: "9", Name: "Edoras"})
	require.NoError(t, err)
	assert.Equal(t, "default-token", gotToken)
}

func TestListOpenMergeRequestsServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	})

	client := newTestClient(t, handler)
	mrs, err := client.ListOpenMergeRequests(context.Background(), testProject)
	require.Error(t, err)
	assert.Nil(t, mrs)
	assert.NotErrorIs(t, err, gitlab.ErrMalformedTimestamp)
}

func TestListOpenMergeRequestsMalformedTimestamp(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]mrJSON{{
			Title:     "Fix",
			IID:       1,
			CreatedAt: "yesterday",
			Author:    userJSON{Name: "Alice", Username: "alice"},
		}})
	})

	client := newTestClient(t, handler)
	_, err := client.ListOpenMergeRequests(context.Background(), testProject)
	require.Error(t, err)
	assert.ErrorIs(t, err, gitlab.ErrMalformedTimestamp)
}

func TestHasAnyApproval(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"approved", `{"approved_by":[{"user":{"username":"carol"}}]}`, true},
		{"multiple approvers", `{"approved_by":[{"user":{"username":"carol"}},{"user":{"username":"dave"}}]}`, true},
		{"unapproved", `{"approved_by":[]}`, false},
		{"field absent", `{}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v4/projects/123/merge_requests/42/approvals", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})

			client := newTestClient(t, handler)
			got, err := client.HasAnyApproval(context.Background(), testProject, 42)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasAnyApprovalDegradesToUnapproved(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		})
		client := newTestClient(t, handler)
		got, err := client.HasAnyApproval(context.Background(), testProject, 42)
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("transport error", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close() // connection refused from here on
		client := gitlab.NewClientWithHTTPClient(&http.Client{}, server.URL, "tok")

		got, err := client.HasAnyApproval(context.Background(), testProject, 42)
		require.NoError(t, err)
		assert.False(t, got)
	})
}

func TestListOpenMergeRequestsTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := gitlab.NewClientWithHTTPClient(&http.Client{}, server.URL, "tok")

	_, err := client.ListOpenMergeRequests(context.Background(), testProject)
	require.Error(t, err)
	assert.False(t, errors.Is(err, gitlab.ErrMalformedTimestamp))
}

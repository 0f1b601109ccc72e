// Package service orchestrates a reminder run: collect open merge requests
// per team, classify them, and deliver one Slack message per team that has
// something stale.
package service

import (
	"context"

	"github.com/hal/stalemr/internal/gitlab"
	"github.com/hal/stalemr/internal/jira"
	"github.com/hal/stalemr/internal/model"
	"github.com/hal/stalemr/internal/slack"
)

// SourceGateway defines the merge request source used during collection.
// This interface enables mocking GitLab in unit tests.
type SourceGateway interface {
	// ListOpenMergeRequests returns all open merge requests for a project.
	ListOpenMergeRequests(ctx context.Context, project model.Project) ([]model.MergeRequest, error)

	// HasAnyApproval reports whether a merge request has at least one
	// approval. A lookup failure degrades to false rather than erroring.
	HasAnyApproval(ctx context.Context, project model.Project, iid int) (bool, error)
}

// TicketGateway resolves issue tracker keys to ticket metadata.
type TicketGateway interface {
	// GetTicketInfo returns what is known about a ticket. Lookup failures
	// yield a value carrying only the key.
	GetTicketInfo(ctx context.Context, key string) model.TicketInfo
}

// WebhookNotifier delivers a composed message to a webhook.
type WebhookNotifier interface {
	Send(ctx context.Context, webhookURL string, payload slack.Payload) error
}

// Ensure the concrete clients satisfy the gateway interfaces.
var _ SourceGateway = (*gitlab.Client)(nil)
var _ TicketGateway = (*jira.Client)(nil)
var _ WebhookNotifier = (*slack.Notifier)(nil)

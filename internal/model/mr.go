package model

import "time"

// Author identifies the creator of a merge request.
type Author struct {
	Name     string
	Username string
}

// MergeRequest is one open merge request fetched from GitLab. Value type:
// fetched fresh each run, freely copied between pipeline stages, never
// persisted.
type MergeRequest struct {
	Title       string
	Description string
	// IID is the merge request number, unique within its project.
	IID       int
	WebURL    string
	CreatedAt time.Time
	Author    Author
	Assignees []string
	Reviewers []string
	Draft     bool

	// Back-references to the owning project, filled in by the gateway.
	ProjectID   string
	ProjectName string
}

// TicketInfo is Jira enrichment for a merge request. The zero value is the
// valid "unknown" state: no resolvable ticket key, or a failed lookup. That
// is not an error condition for the pipeline.
type TicketInfo struct {
	// Key is the Jira issue key extracted from the merge request text
	// (e.g. "ABC-123"). Empty when no key was found.
	Key string
	// Status is the Jira status name, empty when unknown.
	Status string
	// Priority is the lowercase Jira priority name, empty when the ticket
	// has no priority or the lookup failed.
	Priority string
	// PriorityID is the Jira-internal priority identifier.
	PriorityID string
}

// StaleItem is the pipeline output unit: a merge request judged stale and
// admissible. Invariant: DaysOld >= ThresholdUsed and the request passed all
// exclusion filters (not approved, not draft, not bot/dependency).
type StaleItem struct {
	MR     MergeRequest
	Ticket TicketInfo
	// DaysOld is the whole-day age of the merge request at classification.
	DaysOld int
	// ThresholdUsed is the cutoff that was applied, resolved from the
	// ticket priority (or the fallback).
	ThresholdUsed int
}

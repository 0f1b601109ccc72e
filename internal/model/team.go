// Package model contains domain types for the stalemr pipeline.
// These types are independent of the GitLab, Jira, and Slack wire formats.
package model

// Team is a notification tenant: a named group of projects that shares one
// Slack webhook and one threshold configuration. Teams are built once per run
// from configuration and are immutable for the duration of the run.
type Team struct {
	Name       string
	WebhookURL string
	Thresholds ThresholdConfig
	Projects   []Project
}

// Project is a GitLab repository monitored for a team.
type Project struct {
	// ID is the GitLab project identifier (numeric id or URL-encoded path).
	ID string
	// Name is the display name used for grouping in notifications.
	Name string
	// Token is the access token used for this project's API calls.
	Token string
}

// ThresholdConfig maps Jira priority labels to staleness cutoffs in days.
type ThresholdConfig struct {
	// UsePriority enables priority-based lookup. When false every merge
	// request uses FallbackDays.
	UsePriority bool
	// FallbackDays is used when priority lookup is disabled, the priority is
	// unknown, or no entry exists for it. Always defined.
	FallbackDays int
	// Days holds per-priority cutoffs keyed by lowercase priority label
	// (highest, high, medium, low, lowest). May be sparse.
	Days map[string]int
}

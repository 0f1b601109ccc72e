// Package staleness decides which open merge requests are stale enough to
// remind about. Classification is pure: the Jira lookup happens exactly once
// per merge request upstream, and the resolved TicketInfo is passed in and
// returned unchanged inside the resulting StaleItem.
package staleness

import (
	"time"

	"github.com/hal/stalemr/internal/model"
)

// Classifier applies the staleness decision sequence to one merge request at
// a time. Now is captured once per run so a batch spanning a day rollover
// classifies consistently.
type Classifier struct {
	Thresholds model.ThresholdConfig
	Keywords   Keywords
	Now        time.Time
}

// NewClassifier creates a classifier with a fixed reference time.
func NewClassifier(thresholds model.ThresholdConfig, keywords Keywords, now time.Time) *Classifier {
	return &Classifier{
		Thresholds: thresholds,
		Keywords:   keywords,
		Now:        now,
	}
}

// Classify runs the fixed decision sequence: staleness, approval, draft,
// bot/dependency. The first failing check produces the exclusion reason.
// approved is the pre-fetched approval state for the merge request.
func (c *Classifier) Classify(mr model.MergeRequest, ticket model.TicketInfo, approved bool) Result {
	threshold := ResolveThreshold(ticket.Priority, c.Thresholds)

	// Compare in the timestamp's own zone so the cutoff and the created-at
	// share an offset.
	now := c.Now.In(mr.CreatedAt.Location())
	cutoff := now.AddDate(0, 0, -threshold)
	if !mr.CreatedAt.Before(cutoff) {
		return excluded(ExcludedNotStale)
	}

	if approved {
		return excluded(ExcludedApproved)
	}

	if isDraft(mr) {
		return excluded(ExcludedDraft)
	}

	if c.Keywords.IsBotOrDependency(mr) {
		return excluded(ExcludedBot)
	}

	return included(model.StaleItem{
		MR:            mr,
		Ticket:        ticket,
		DaysOld:       int(now.Sub(mr.CreatedAt).Hours() / 24),
		ThresholdUsed: threshold,
	})
}

package staleness

import "github.com/hal/stalemr/internal/model"

// ExclusionReason says why a merge request was filtered out of the reminder.
// Checks run in a fixed order (age, approval, draft, bot/dependency) so only
// the first matching reason is ever reported.
type ExclusionReason string

const (
	ExcludedNotStale ExclusionReason = "not-stale"
	ExcludedApproved ExclusionReason = "approved"
	ExcludedDraft    ExclusionReason = "draft"
	ExcludedBot      ExclusionReason = "bot-or-dependency"
)

// Result is the outcome of classifying one merge request.
type Result struct {
	// Item is non-nil when the merge request was included.
	Item *model.StaleItem
	// Reason is set when the merge request was excluded.
	Reason ExclusionReason
}

// Included reports whether the merge request survived all filters.
func (r Result) Included() bool {
	return r.Item != nil
}

// included wraps a stale item in a Result.
func included(item model.StaleItem) Result {
	return Result{Item: &item}
}

// excluded builds a Result carrying the exclusion reason.
func excluded(reason ExclusionReason) Result {
	return Result{Reason: reason}
}

package staleness

import (
	"strings"

	"github.com/hal/stalemr/internal/model"
)

// ResolveThreshold maps a Jira priority label to a staleness cutoff in days.
// When priority lookup is disabled, the priority is absent, or no entry
// exists for the label, the fallback applies. Label matching is
// case-insensitive. Pure with respect to its inputs.
func ResolveThreshold(priority string, cfg model.ThresholdConfig) int {
	if !cfg.UsePriority || priority == "" {
		return cfg.FallbackDays
	}
	if days, ok := cfg.Days[strings.ToLower(priority)]; ok {
		return days
	}
	return cfg.FallbackDays
}

package staleness

import (
	"strings"

	"github.com/hal/stalemr/internal/model"
)

// defaultBotIndicators are substrings that mark an author as an automation
// account. Matched case-insensitively against both the display name and the
// username.
var defaultBotIndicators = []string{
	"dependabot", "renovate", "greenkeeper", "snyk", "whitesource",
	"github-actions", "gitlab-ci", "automated", "bot", "dependency",
	"dependent_pat", "dependencybot", "auto-update",
}

// defaultDependencyPhrases are title substrings that mark a merge request as
// a dependency or security update. Matched case-insensitively.
var defaultDependencyPhrases = []string{
	"build(deps)", "build(deps-dev)", "chore(deps)", "deps:",
	"bump ", "update dependencies", "upgrade dependencies",
	"security update", "npm audit fix", "yarn upgrade",
	"pip upgrade", "requirements update", "package update",
	"version bump", "dependency update", "auto-update",
	"automated update", "[security]", "security patch",
}

// Keywords holds the effective bot and dependency indicator lists. The lists
// are data, not code branches: a disabled check is an empty list, and custom
// keywords from configuration extend the defaults.
type Keywords struct {
	Bots         []string
	Dependencies []string
}

// NewKeywords builds the effective keyword lists. excludeBots and
// excludeDependencies gate the two checks; customBots and customDependencies
// extend the built-in lists. Custom entries are trimmed, lowercased, and
// empty entries dropped.
func NewKeywords(excludeBots, excludeDependencies bool, customBots, customDependencies []string) Keywords {
	var kw Keywords
	if excludeBots {
		kw.Bots = append(kw.Bots, defaultBotIndicators...)
		kw.Bots = append(kw.Bots, normalizeKeywords(customBots)...)
	}
	if excludeDependencies {
		kw.Dependencies = append(kw.Dependencies, defaultDependencyPhrases...)
		kw.Dependencies = append(kw.Dependencies, normalizeKeywords(customDependencies)...)
	}
	return kw
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// IsBotOrDependency reports whether the merge request was created by an
// automation account or is a dependency update.
func (k Keywords) IsBotOrDependency(mr model.MergeRequest) bool {
	name := strings.ToLower(mr.Author.Name)
	username := strings.ToLower(mr.Author.Username)
	for _, indicator := range k.Bots {
		if strings.Contains(name, indicator) || strings.Contains(username, indicator) {
			return true
		}
	}

	title := strings.ToLower(mr.Title)
	for _, phrase := range k.Dependencies {
		if strings.Contains(title, phrase) {
			return true
		}
	}
	return false
}

// isDraft reports whether the merge request is in draft state, either via
// the draft flag or the conventional title markers. The markers are matched
// case-sensitively as written.
func isDraft(mr model.MergeRequest) bool {
	return mr.Draft || strings.Contains(mr.Title, "WIP:") || strings.Contains(mr.Title, "Draft:")
}

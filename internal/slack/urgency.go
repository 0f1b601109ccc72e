package slack

import "strings"

// Tier is the urgency classification for one stale item. A pure function of
// (age, threshold, priority): the high-priority branch reaches the top tier
// one day sooner than the default branch.
type Tier string

const (
	TierCritical    Tier = "critical"
	TierOverdue     Tier = "overdue"
	TierApproaching Tier = "approaching"
)

// TierFor classifies how far past its threshold an item is.
func TierFor(daysOld, threshold int, priority string) Tier {
	over := daysOld - threshold
	if priority == "highest" || priority == "high" {
		switch {
		case over >= 2:
			return TierCritical
		case over >= 1:
			return TierOverdue
		default:
			return TierApproaching
		}
	}
	switch {
	case over >= 3:
		return TierCritical
	case over >= 1:
		return TierOverdue
	default:
		return TierApproaching
	}
}

// urgencyEmoji maps the urgency of an item to its indicator. High-priority
// items use a hotter palette than the default one.
func urgencyEmoji(daysOld, threshold int, priority string) string {
	tier := TierFor(daysOld, threshold, priority)
	if priority == "highest" || priority == "high" {
		switch tier {
		case TierCritical:
			return "🚨"
		case TierOverdue:
			return "🔴"
		default:
			return "🟠"
		}
	}
	switch tier {
	case TierCritical:
		return "🔴"
	case TierOverdue:
		return "🟠"
	default:
		return "🟡"
	}
}

var priorityEmojis = map[string]string{
	"highest": "🔥",
	"high":    "⚡",
	"medium":  "📋",
	"low":     "📝",
	"lowest":  "💤",
}

func priorityEmoji(priority string) string {
	if e, ok := priorityEmojis[priority]; ok {
		return e
	}
	return "📋"
}

var projectEmojis = []struct {
	keyword string
	emoji   string
}{
	{"rohan", "🏰"},
	{"edoras", "🏛️"},
	{"athena", "🦉"},
	{"backend", "⚙️"},
	{"frontend", "🎨"},
	{"api", "🔌"},
	{"web", "🌐"},
	{"mobile", "📱"},
	{"admin", "👑"},
	{"core", "💎"},
}

func projectEmoji(name string) string {
	lower := strings.ToLower(name)
	for _, pe := range projectEmojis {
		if strings.Contains(lower, pe.keyword) {
			return pe.emoji
		}
	}
	return "📁"
}

package staleness

import "regexp"

// ticketKeyPatterns are tried in order; the first match wins. The bracketed
// form is kept for inputs where the plain form is defeated by surrounding
// markup.
var ticketKeyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z]+-\d+)`),
	regexp.MustCompile(`\[([A-Z]+-\d+)\]`),
}

// ExtractTicketKey scans a merge request title and description for a Jira
// issue key (one or more uppercase letters, a hyphen, one or more digits).
// Returns the empty string when no key is present. Pure text scanning, no
// I/O.
func ExtractTicketKey(title, description string) string {
	text := title + " " + description
	for _, pattern := range ticketKeyPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// Package slack composes and delivers Block Kit reminder messages. The
// composer is pure: it turns classified stale items into a Payload without
// touching the network.
package slack

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hal/stalemr/internal/format"
	"github.com/hal/stalemr/internal/model"
)

// Title truncation limits. The grouped layout nests items under project
// headers and gets a little less room.
const (
	singleProjectTitleMax = 60
	multiProjectTitleMax  = 55
)

// Payload is one webhook message: fallback text for notifications plus the
// structured blocks.
type Payload struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks"`
}

// Block is a Slack Block Kit block, reduced to the kinds the reminder uses.
type Block struct {
	Type     string       `json:"type"`
	Text     *TextObject  `json:"text,omitempty"`
	Elements []TextObject `json:"elements,omitempty"`
}

// TextObject is a Block Kit text element.
type TextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func headerBlock(text string) Block {
	return Block{Type: "header", Text: &TextObject{Type: "plain_text", Text: text}}
}

func sectionBlock(text string) Block {
	return Block{Type: "section", Text: &TextObject{Type: "mrkdwn", Text: text}}
}

func dividerBlock() Block {
	return Block{Type: "divider"}
}

func contextBlock(text string) Block {
	return Block{Type: "context", Elements: []TextObject{{Type: "mrkdwn", Text: text}}}
}

// Compose builds the flat single-project layout. Used for teams that own
// exactly one project.
func Compose(items []model.StaleItem) Payload {
	if len(items) == 0 {
		text := "🎉 Great news! No stale merge requests found. All reviews are up to date!"
		return Payload{
			Text:   text,
			Blocks: []Block{sectionBlock("🎉 *Great news!* No stale merge requests found. All reviews are up to date!")},
		}
	}

	items = sortedByAge(items)

	count := len(items)
	headerText := fmt.Sprintf("🔔 *Daily Review Reminder* - %s %s attention",
		format.CountNoun(count, "merge request"), needVerb(count))

	blocks := []Block{
		headerBlock("🔍 Stale Merge Requests Review"),
		sectionBlock(headerText),
		dividerBlock(),
	}

	for _, item := range items {
		blocks = append(blocks, sectionBlock(itemText(item, singleProjectTitleMax)), dividerBlock())
	}

	blocks = append(blocks, contextBlock(fmt.Sprintf(
		"📊 *Summary:* %s pending review • Oldest: %d days • Average age: %d days",
		format.CountNoun(count, "MR"), oldestAge(items), averageAge(items))))

	return Payload{Text: headerText, Blocks: blocks}
}

// ComposeByProject builds the grouped multi-project layout: one section per
// project, items oldest-first within each.
func ComposeByProject(itemsByProject map[string][]model.StaleItem) Payload {
	if totalItems(itemsByProject) == 0 {
		text := "🎉 Great news! No stale merge requests found across all projects. All reviews are up to date!"
		return Payload{
			Text:   text,
			Blocks: []Block{sectionBlock("🎉 *Great news!* No stale merge requests found across all projects. All reviews are up to date!")},
		}
	}

	projectNames := make([]string, 0, len(itemsByProject))
	var all []model.StaleItem
	for name, items := range itemsByProject {
		if len(items) == 0 {
			continue
		}
		projectNames = append(projectNames, name)
		all = append(all, items...)
	}
	sort.Strings(projectNames)

	total := len(all)
	headerText := fmt.Sprintf("🔔 *Daily Review Reminder* - %s need attention across %s",
		format.CountNoun(total, "merge request"), format.CountNoun(len(projectNames), "project"))

	blocks := []Block{
		headerBlock("🔍 Stale Merge Requests Review"),
		sectionBlock(headerText),
		dividerBlock(),
	}

	for _, name := range projectNames {
		items := sortedByAge(itemsByProject[name])
		blocks = append(blocks, sectionBlock(fmt.Sprintf("%s *%s* - %s",
			projectEmoji(name), name, format.CountNoun(len(items), "MR"))))
		for _, item := range items {
			blocks = append(blocks, sectionBlock(itemText(item, multiProjectTitleMax)))
		}
		blocks = append(blocks, dividerBlock())
	}

	oldest := oldestItem(all)
	blocks = append(blocks, contextBlock(fmt.Sprintf(
		"📊 *Summary:* %s across %s • Oldest: %d days (%s) • Average age: %d days",
		format.CountNoun(total, "MR"), format.CountNoun(len(projectNames), "project"),
		oldest.DaysOld, oldest.MR.ProjectName, averageAge(all))))

	return Payload{Text: headerText, Blocks: blocks}
}

// itemText renders one stale item: linked title, age vs threshold, the Jira
// line when the ticket resolved, reviewers, assignees, and author.
func itemText(item model.StaleItem, titleMax int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s *<%s|%s>*\n",
		urgencyEmoji(item.DaysOld, item.ThresholdUsed, item.Ticket.Priority),
		item.MR.WebURL,
		format.TruncateTitle(item.MR.Title, titleMax))
	fmt.Fprintf(&b, "⏰ *Age:* %s old (threshold: %s)\n",
		format.CountNoun(item.DaysOld, "day"), format.CountNoun(item.ThresholdUsed, "day"))

	if line := ticketLine(item.Ticket); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(item.MR.Reviewers) > 0 {
		fmt.Fprintf(&b, "👀 *Reviewers:* %s\n", strings.Join(item.MR.Reviewers, ", "))
	}
	if len(item.MR.Assignees) > 0 {
		fmt.Fprintf(&b, "👤 *Assignees:* %s\n", strings.Join(item.MR.Assignees, ", "))
	}
	fmt.Fprintf(&b, "✍️ *Author:* %s", item.MR.Author.Name)

	return b.String()
}

// ticketLine renders the Jira reference. A line appears only when a key was
// resolved and the lookup produced at least one of status/priority: a found
// key with a failed lookup renders identically to no key at all.
func ticketLine(ticket model.TicketInfo) string {
	if ticket.Key == "" || (ticket.Status == "" && ticket.Priority == "") {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎫 *Jira:* %s", ticket.Key)
	if ticket.Status != "" {
		fmt.Fprintf(&b, " (%s)", ticket.Status)
	}
	if ticket.Priority != "" {
		fmt.Fprintf(&b, " %s %s", priorityEmoji(ticket.Priority), titleCase(ticket.Priority))
	}
	return b.String()
}

// needVerb conjugates "need" for the summary line.
func needVerb(count int) string {
	if count == 1 {
		return "needs"
	}
	return "need"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// sortedByAge returns a copy ordered oldest-first.
func sortedByAge(items []model.StaleItem) []model.StaleItem {
	sorted := make([]model.StaleItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DaysOld > sorted[j].DaysOld
	})
	return sorted
}

func totalItems(itemsByProject map[string][]model.StaleItem) int {
	total := 0
	for _, items := range itemsByProject {
		total += len(items)
	}
	return total
}

func oldestItem(items []model.StaleItem) model.StaleItem {
	oldest := items[0]
	for _, item := range items[1:] {
		if item.DaysOld > oldest.DaysOld {
			oldest = item
		}
	}
	return oldest
}

func oldestAge(items []model.StaleItem) int {
	return oldestItem(items).DaysOld
}

// averageAge is integer-truncated, matching the summary's whole-day ages.
func averageAge(items []model.StaleItem) int {
	sum := 0
	for _, item := range items {
		sum += item.DaysOld
	}
	return sum / len(items)
}

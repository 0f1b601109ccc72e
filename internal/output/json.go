package output

import (
	"encoding/json"
	"io"

	"github.com/hal/stalemr/internal/model"
	"github.com/hal/stalemr/internal/service"
	"github.com/hal/stalemr/internal/slack"
)

// JSONFormatter formats reports as JSON
type JSONFormatter struct {
	Pretty bool
}

// teamJSON is the serialized shape of one team's report, including the
// Slack payload a live run would post to its webhook.
type teamJSON struct {
	Team    string                `json:"team"`
	Webhook string                `json:"webhook_url"`
	Total   int                   `json:"total"`
	Items   map[string][]itemJSON `json:"items_by_project"`
	Payload slack.Payload         `json:"payload"`
}

type itemJSON struct {
	Title     string `json:"title"`
	IID       int    `json:"iid"`
	WebURL    string `json:"web_url"`
	Author    string `json:"author"`
	DaysOld   int    `json:"days_old"`
	Threshold int    `json:"threshold"`
	Urgency   string `json:"urgency"`
	Ticket    string `json:"ticket,omitempty"`
	Priority  string `json:"priority,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Format outputs all reports with their composed payloads as JSON
func (f *JSONFormatter) Format(reports []service.TeamReport, w io.Writer) error {
	single := len(reports) == 1
	out := make([]teamJSON, 0, len(reports))
	for _, report := range reports {
		items := make(map[string][]itemJSON, len(report.ItemsByProject))
		for project, staleItems := range report.ItemsByProject {
			converted := make([]itemJSON, 0, len(staleItems))
			for _, item := range staleItems {
				converted = append(converted, toItemJSON(item))
			}
			items[project] = converted
		}

		out = append(out, teamJSON{
			Team:    report.Team.Name,
			Webhook: report.Team.WebhookURL,
			Total:   report.Total,
			Items:   items,
			Payload: payloadFor(report, single),
		})
	}

	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(out)
}

func toItemJSON(item model.StaleItem) itemJSON {
	return itemJSON{
		Title:     item.MR.Title,
		IID:       item.MR.IID,
		WebURL:    item.MR.WebURL,
		Author:    item.MR.Author.Name,
		DaysOld:   item.DaysOld,
		Threshold: item.ThresholdUsed,
		Urgency:   string(slack.TierFor(item.DaysOld, item.ThresholdUsed, item.Ticket.Priority)),
		Ticket:    item.Ticket.Key,
		Priority:  item.Ticket.Priority,
		Status:    item.Ticket.Status,
	}
}

// payloadFor mirrors the live run's layout choice: flat only when this is
// the run's only team and it watches a single project.
func payloadFor(report service.TeamReport, single bool) slack.Payload {
	if single && len(report.Team.Projects) == 1 {
		return slack.Compose(report.Items())
	}
	return slack.ComposeByProject(report.ItemsByProject)
}

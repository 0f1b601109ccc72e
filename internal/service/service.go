package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hal/stalemr/internal/gitlab"
	"github.com/hal/stalemr/internal/log"
	"github.com/hal/stalemr/internal/model"
	"github.com/hal/stalemr/internal/slack"
	"github.com/hal/stalemr/internal/staleness"
)

// Service runs the reminder pipeline against the configured gateways.
// The reference time is captured once at construction so every age and
// threshold comparison in a run agrees on "now".
type Service struct {
	source   SourceGateway
	tickets  TicketGateway
	notifier WebhookNotifier
	keywords staleness.Keywords
	now      time.Time
}

// New creates a Service. now is the run's single reference time.
func New(source SourceGateway, tickets TicketGateway, notifier WebhookNotifier, keywords staleness.Keywords, now time.Time) *Service {
	return &Service{
		source:   source,
		tickets:  tickets,
		notifier: notifier,
		keywords: keywords,
		now:      now,
	}
}

// TeamReport is the stale inventory collected for one team.
type TeamReport struct {
	Team           model.Team
	ItemsByProject map[string][]model.StaleItem
	Total          int
}

// Items flattens the report in project-name order.
func (r TeamReport) Items() []model.StaleItem {
	projectNames := make([]string, 0, len(r.ItemsByProject))
	for name := range r.ItemsByProject {
		projectNames = append(projectNames, name)
	}
	sort.Strings(projectNames)

	items := make([]model.StaleItem, 0, r.Total)
	for _, name := range projectNames {
		items = append(items, r.ItemsByProject[name]...)
	}
	return items
}

// RunSummary is the outcome of a full run.
type RunSummary struct {
	TeamsProcessed int
	TeamsNotified  int
	StaleTotal     int
}

// CollectTeam gathers and classifies the open merge requests for one team.
// A project fetch failure is logged and contributes zero items, except a
// malformed timestamp, which fails the team: an unparseable created_at means
// an MR of unknown age would be silently dropped from the inventory.
func (s *Service) CollectTeam(ctx context.Context, team model.Team) (TeamReport, error) {
	classifier := staleness.NewClassifier(team.Thresholds, s.keywords, s.now)

	report := TeamReport{
		Team:           team,
		ItemsByProject: make(map[string][]model.StaleItem, len(team.Projects)),
	}

	for _, project := range team.Projects {
		mrs, err := s.source.ListOpenMergeRequests(ctx, project)
		if err != nil {
			if errors.Is(err, gitlab.ErrMalformedTimestamp) {
				return TeamReport{}, fmt.Errorf("team %s: listing merge requests for %s: %w", team.Name, project.Name, err)
			}
			log.Error("listing merge requests failed", "team", team.Name, "project", project.Name, "error", err)
			continue
		}
		log.Debug("fetched open merge requests", "team", team.Name, "project", project.Name, "count", len(mrs))

		for _, mr := range mrs {
			var ticket model.TicketInfo
			if key := staleness.ExtractTicketKey(mr.Title, mr.Description); key != "" {
				ticket = s.tickets.GetTicketInfo(ctx, key)
			}

			approved, err := s.source.HasAnyApproval(ctx, project, mr.IID)
			if err != nil {
				// Unknown approval state counts as unapproved; reminding
				// twice beats dropping an MR that needs eyes.
				log.Warn("approval check failed", "team", team.Name, "project", project.Name, "iid", mr.IID, "error", err)
				approved = false
			}

			result := classifier.Classify(mr, ticket, approved)
			if !result.Included() {
				log.Debug("excluded merge request",
					"team", team.Name, "project", project.Name,
					"iid", mr.IID, "reason", string(result.Reason))
				continue
			}

			report.ItemsByProject[project.Name] = append(report.ItemsByProject[project.Name], *result.Item)
			report.Total++
		}
	}

	return report, nil
}

// Collect gathers reports for every team. A team that fails collection is
// dropped from the result; its error is joined into the returned error so
// the remaining teams still produce reports.
func (s *Service) Collect(ctx context.Context, teams []model.Team) ([]TeamReport, error) {
	reports := make([]TeamReport, 0, len(teams))
	var errs []error

	for _, team := range teams {
		report, err := s.CollectTeam(ctx, team)
		if err != nil {
			log.Error("collection failed", "team", team.Name, "error", err)
			errs = append(errs, err)
			continue
		}
		reports = append(reports, report)
	}

	return reports, errors.Join(errs...)
}

// Run collects every team and posts the reminder messages.
//
// With multiple teams, a team with nothing stale is skipped entirely. A
// run over a single team always posts, sending an all-clear message when
// nothing is stale, and uses the flat message layout when that team watches
// exactly one project.
func (s *Service) Run(ctx context.Context, teams []model.Team) (RunSummary, error) {
	var summary RunSummary
	var errs []error

	single := len(teams) == 1

	for _, team := range teams {
		report, err := s.CollectTeam(ctx, team)
		if err != nil {
			log.Error("collection failed", "team", team.Name, "error", err)
			errs = append(errs, err)
			continue
		}
		summary.TeamsProcessed++

		if report.Total == 0 && !single {
			log.Info("no stale merge requests", "team", team.Name)
			continue
		}

		var payload slack.Payload
		if single && len(team.Projects) == 1 {
			payload = slack.Compose(report.Items())
		} else {
			payload = slack.ComposeByProject(report.ItemsByProject)
		}

		if err := s.notifier.Send(ctx, team.WebhookURL, payload); err != nil {
			log.Error("webhook delivery failed", "team", team.Name, "error", err)
			errs = append(errs, fmt.Errorf("team %s: %w", team.Name, err))
			continue
		}

		log.Info("reminder sent", "team", team.Name, "stale", report.Total)
		summary.TeamsNotified++
		summary.StaleTotal += report.Total
	}

	return summary, errors.Join(errs...)
}

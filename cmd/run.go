package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hal/stalemr/config"
	"github.com/hal/stalemr/internal/gitlab"
	"github.com/hal/stalemr/internal/jira"
	"github.com/hal/stalemr/internal/log"
	"github.com/hal/stalemr/internal/model"
	"github.com/hal/stalemr/internal/output"
	"github.com/hal/stalemr/internal/service"
	"github.com/hal/stalemr/internal/slack"
	"github.com/hal/stalemr/internal/staleness"
)

// NewCmdRun creates the run command.
func NewCmdRun(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Check for stale merge requests and send reminders (same as bare stalemr)",
		Long: `Fetches open merge requests for every configured team, classifies
them against the staleness thresholds, and posts one Slack message per
team that has stale work. With --dry-run nothing is posted; the collected
reports are printed instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, opts)
		},
	}

	addRunFlags(cmd, opts)
	return cmd
}

// addRunFlags adds the run-specific flags to a command.
func addRunFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Config file path (default: ./.stalemr.yaml, then user config dir)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print what would be posted without sending anything")
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "table", "Dry-run output format (table, json)")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v progress, -vv debug)")
}

func runRun(cmd *cobra.Command, opts *Options) error {
	log.Initialize(opts.Verbosity, os.Stderr)

	ctx := cmd.Context()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	teams := cfg.BuildTeams()
	keywords := staleness.NewKeywords(
		cfg.BotsExcluded(), cfg.DependenciesExcluded(),
		cfg.CustomBotKeywords, cfg.CustomDependencyKeywords)

	svc := service.New(
		gitlab.NewClient(cfg.GitLabURL, cfg.GitLabToken),
		jira.NewClient(cfg.JiraURL, cfg.JiraUsername, cfg.JiraToken),
		slack.NewNotifier(),
		keywords,
		time.Now(),
	)

	if opts.DryRun {
		return runDry(cmd, svc, teams, opts.Format)
	}

	summary, err := svc.Run(ctx, teams)
	if err != nil {
		// Partial delivery still counts; report it before failing.
		log.Warn("run finished with errors",
			"teams_processed", summary.TeamsProcessed,
			"teams_notified", summary.TeamsNotified)
		return err
	}

	log.Info("run complete",
		"teams_processed", summary.TeamsProcessed,
		"teams_notified", summary.TeamsNotified,
		"stale_total", summary.StaleTotal)
	return nil
}

// runDry collects everything a live run would, then prints it instead of
// posting. Collection errors are reported after the healthy teams' output.
func runDry(cmd *cobra.Command, svc *service.Service, teams []model.Team, format string) error {
	if format != string(output.FormatTable) && format != string(output.FormatJSON) {
		return fmt.Errorf("invalid format: %s (must be table or json)", format)
	}

	reports, err := svc.Collect(cmd.Context(), teams)

	formatter := output.NewFormatter(output.Format(format))
	if ferr := formatter.Format(reports, cmd.OutOrStdout()); ferr != nil {
		return ferr
	}
	return err
}

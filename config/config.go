// Package config loads the reminder configuration: a YAML document of teams
// (webhook, thresholds, projects) plus process-wide credentials from the
// environment. Everything is read once at startup into a Config value that
// is passed down explicitly; the pipeline never reads ambient state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/hal/stalemr/internal/model"
)

// Config represents the application configuration.
type Config struct {
	// Teams keyed by team name. Every run processes all configured teams.
	Teams map[string]TeamConfig `yaml:"teams"`

	// Bot/dependency exclusion. Both default to enabled; the custom lists
	// extend the built-in keyword data.
	ExcludeBots              *bool    `yaml:"exclude_bots,omitempty"`
	ExcludeDependencies      *bool    `yaml:"exclude_dependencies,omitempty"`
	CustomBotKeywords        []string `yaml:"custom_bot_keywords,omitempty"`
	CustomDependencyKeywords []string `yaml:"custom_dependency_keywords,omitempty"`

	// Credentials, from the environment only (12-factor): never serialized.
	GitLabURL    string `yaml:"-"`
	GitLabToken  string `yaml:"-"`
	JiraURL      string `yaml:"-"`
	JiraUsername string `yaml:"-"`
	JiraToken    string `yaml:"-"`
}

// TeamConfig is one team's section of the YAML document.
type TeamConfig struct {
	WebhookURL string                   `yaml:"webhook_url"`
	Thresholds *ThresholdOverrides      `yaml:"thresholds,omitempty"`
	Projects   map[string]ProjectConfig `yaml:"projects"`
}

// ThresholdOverrides customizes the staleness cutoffs for a team. Unset
// fields keep the defaults.
type ThresholdOverrides struct {
	UsePriority  *bool          `yaml:"use_priority,omitempty"`
	FallbackDays *int           `yaml:"fallback_days,omitempty"`
	Days         map[string]int `yaml:"days,omitempty"`
}

// ProjectConfig is one GitLab project under a team, keyed by display name.
type ProjectConfig struct {
	ID    string `yaml:"id"`
	Token string `yaml:"token,omitempty"`
}

// DefaultThresholds returns the built-in priority cutoffs: the hotter the
// linked ticket, the sooner a reminder fires.
func DefaultThresholds() model.ThresholdConfig {
	return model.ThresholdConfig{
		UsePriority:  true,
		FallbackDays: 2,
		Days: map[string]int{
			"highest": 1,
			"high":    2,
			"medium":  3,
			"low":     3,
			"lowest":  3,
		},
	}
}

// DefaultConfigDir returns the default config directory.
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".stalemr"
	}
	return filepath.Join(configDir, "stalemr")
}

// ConfigPath returns the path to the global config file.
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current
// directory.
func LocalConfigPath() string {
	return ".stalemr.yaml"
}

// ConfigFileExists returns true if the global config file exists on disk.
func ConfigFileExists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Load reads the configuration. An explicit path wins; otherwise a local
// .stalemr.yaml takes precedence over the global config file. Credentials
// are then filled in from the environment. The result is not validated;
// call Validate before running the pipeline.
func Load(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(LocalConfigPath()); err == nil {
			path = LocalConfigPath()
		} else {
			path = ConfigPath()
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.loadEnv()
	return cfg, nil
}

// loadEnv fills in the credential fields from the environment.
func (c *Config) loadEnv() {
	c.GitLabURL = os.Getenv("GITLAB_URL")
	if c.GitLabURL == "" {
		c.GitLabURL = "https://gitlab.com"
	}
	c.GitLabToken = os.Getenv("GITLAB_TOKEN")
	c.JiraURL = os.Getenv("JIRA_URL")
	c.JiraUsername = os.Getenv("JIRA_USERNAME")
	c.JiraToken = os.Getenv("JIRA_TOKEN")
}

// Validate checks the required fields. A validation failure is fatal at
// startup, before any team is processed, so no partial messages go out.
func (c *Config) Validate() error {
	var missing []string
	if c.JiraURL == "" {
		missing = append(missing, "JIRA_URL")
	}
	if c.JiraUsername == "" {
		missing = append(missing, "JIRA_USERNAME")
	}
	if c.JiraToken == "" {
		missing = append(missing, "JIRA_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}

	if len(c.Teams) == 0 {
		return fmt.Errorf("no teams configured")
	}

	for name, team := range c.Teams {
		if team.WebhookURL == "" {
			return fmt.Errorf("team %s: webhook_url is required", name)
		}
		if len(team.Projects) == 0 {
			return fmt.Errorf("team %s: no projects configured", name)
		}
		for projectName, project := range team.Projects {
			if project.ID == "" {
				return fmt.Errorf("team %s: project %s: id is required", name, projectName)
			}
			if project.Token == "" && c.GitLabToken == "" {
				return fmt.Errorf("team %s: project %s: no token configured and GITLAB_TOKEN is not set", name, projectName)
			}
		}
	}
	return nil
}

// BuildTeams converts the configuration into the run's immutable team set.
// Team and project order is name-sorted: the YAML maps are unordered, and a
// stable order keeps runs and tests deterministic.
func (c *Config) BuildTeams() []model.Team {
	teamNames := make([]string, 0, len(c.Teams))
	for name := range c.Teams {
		teamNames = append(teamNames, name)
	}
	sort.Strings(teamNames)

	teams := make([]model.Team, 0, len(teamNames))
	for _, name := range teamNames {
		tc := c.Teams[name]

		projectNames := make([]string, 0, len(tc.Projects))
		for pname := range tc.Projects {
			projectNames = append(projectNames, pname)
		}
		sort.Strings(projectNames)

		projects := make([]model.Project, 0, len(projectNames))
		for _, pname := range projectNames {
			pc := tc.Projects[pname]
			token := pc.Token
			if token == "" {
				token = c.GitLabToken
			}
			projects = append(projects, model.Project{ID: pc.ID, Name: pname, Token: token})
		}

		teams = append(teams, model.Team{
			Name:       name,
			WebhookURL: tc.WebhookURL,
			Thresholds: tc.Thresholds.apply(DefaultThresholds()),
			Projects:   projects,
		})
	}
	return teams
}

// apply overlays the overrides onto the defaults.
func (o *ThresholdOverrides) apply(base model.ThresholdConfig) model.ThresholdConfig {
	if o == nil {
		return base
	}
	if o.UsePriority != nil {
		base.UsePriority = *o.UsePriority
	}
	if o.FallbackDays != nil {
		base.FallbackDays = *o.FallbackDays
	}
	if len(o.Days) > 0 {
		days := make(map[string]int, len(base.Days)+len(o.Days))
		for k, v := range base.Days {
			days[k] = v
		}
		for k, v := range o.Days {
			days[k] = v
		}
		base.Days = days
	}
	return base
}

// BotsExcluded reports whether bot authors are filtered (default true).
func (c *Config) BotsExcluded() bool {
	return c.ExcludeBots == nil || *c.ExcludeBots
}

// DependenciesExcluded reports whether dependency-update titles are filtered
// (default true).
func (c *Config) DependenciesExcluded() bool {
	return c.ExcludeDependencies == nil || *c.ExcludeDependencies
}

// ToYAML returns the config as a YAML string.
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths.
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs.
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a starter config template with comments.
func MinimalConfig() string {
	return `# stalemr configuration file
#
# Credentials come from the environment:
#   GITLAB_URL (default https://gitlab.com), GITLAB_TOKEN,
#   JIRA_URL, JIRA_USERNAME, JIRA_TOKEN

teams:
  platform:
    webhook_url: https://hooks.slack.com/services/XXX/YYY/ZZZ
    # thresholds:
    #   fallback_days: 2
    #   use_priority: true
    #   days:
    #     highest: 1
    #     high: 2
    projects:
      rohan:
        id: "123"
        # token: glpat-per-project-token

# exclude_bots: true
# exclude_dependencies: true
# custom_bot_keywords:
#   - jenkins
# custom_dependency_keywords:
#   - vendored update
`
}

// SaveTo writes content to a specific path, creating directories as needed.
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}

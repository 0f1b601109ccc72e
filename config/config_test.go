package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func setCreds(t *testing.T) {
	t.Helper()
	t.Setenv("GITLAB_URL", "")
	t.Setenv("GITLAB_TOKEN", "glpat-global")
	t.Setenv("JIRA_URL", "https://jira.example.com")
	t.Setenv("JIRA_USERNAME", "robot")
	t.Setenv("JIRA_TOKEN", "jira-token")
}

const sampleConfig = `
teams:
  platform:
    webhook_url: https://hooks.example.com/platform
    thresholds:
      fallback_days: 5
      days:
        high: 1
    projects:
      rohan:
        id: "123"
        token: glpat-rohan
      edoras:
        id: "group/edoras"
  web:
    webhook_url: https://hooks.example.com/web
    projects:
      frontend:
        id: "77"
`

func TestLoad(t *testing.T) {
	setCreds(t)
	path := writeConfig(t, sampleConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Teams) != 2 {
		t.Fatalf("len(Teams) = %d, want 2", len(cfg.Teams))
	}
	if cfg.GitLabURL != "https://gitlab.com" {
		t.Errorf("GitLabURL = %q, want default", cfg.GitLabURL)
	}
	if cfg.JiraUsername != "robot" {
		t.Errorf("JiraUsername = %q, want robot", cfg.JiraUsername)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	setCreds(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() error = nil, want error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	setCreds(t)
	path := writeConfig(t, "teams: [not: a: map")
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() error = nil, want parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing jira credentials",
			mutate:  func(c *Config) { c.JiraToken = "" },
			wantErr: true,
		},
		{
			name:    "no teams",
			mutate:  func(c *Config) { c.Teams = nil },
			wantErr: true,
		},
		{
			name: "missing webhook",
			mutate: func(c *Config) {
				tc := c.Teams["web"]
				tc.WebhookURL = ""
				c.Teams["web"] = tc
			},
			wantErr: true,
		},
		{
			name: "team without projects",
			mutate: func(c *Config) {
				tc := c.Teams["web"]
				tc.Projects = nil
				c.Teams["web"] = tc
			},
			wantErr: true,
		},
		{
			name: "project without id",
			mutate: func(c *Config) {
				c.Teams["web"].Projects["frontend"] = ProjectConfig{}
			},
			wantErr: true,
		},
		{
			name: "no token anywhere",
			mutate: func(c *Config) {
				c.GitLabToken = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			if err := yaml.Unmarshal([]byte(sampleConfig), cfg); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			cfg.GitLabToken = "glpat-global"
			cfg.JiraURL = "https://jira.example.com"
			cfg.JiraUsername = "robot"
			cfg.JiraToken = "jira-token"

			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildTeams(t *testing.T) {
	setCreds(t)
	path := writeConfig(t, sampleConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	teams := cfg.BuildTeams()
	if len(teams) != 2 {
		t.Fatalf("len(teams) = %d, want 2", len(teams))
	}

	// Name-sorted.
	if teams[0].Name != "platform" || teams[1].Name != "web" {
		t.Fatalf("team order = [%s %s], want [platform web]", teams[0].Name, teams[1].Name)
	}

	platform := teams[0]
	if platform.WebhookURL != "https://hooks.example.com/platform" {
		t.Errorf("WebhookURL = %q", platform.WebhookURL)
	}

	// Threshold overrides merge into the defaults.
	if platform.Thresholds.FallbackDays != 5 {
		t.Errorf("FallbackDays = %d, want 5", platform.Thresholds.FallbackDays)
	}
	if !platform.Thresholds.UsePriority {
		t.Error("UsePriority = false, want default true")
	}
	if got := platform.Thresholds.Days["high"]; got != 1 {
		t.Errorf("Days[high] = %d, want overridden 1", got)
	}
	if got := platform.Thresholds.Days["highest"]; got != 1 {
		t.Errorf("Days[highest] = %d, want default 1", got)
	}

	// Projects name-sorted, per-project token wins, global token fills gaps.
	if len(platform.Projects) != 2 {
		t.Fatalf("len(Projects) = %d, want 2", len(platform.Projects))
	}
	if platform.Projects[0].Name != "edoras" || platform.Projects[1].Name != "rohan" {
		t.Fatalf("project order = [%s %s]", platform.Projects[0].Name, platform.Projects[1].Name)
	}
	if platform.Projects[0].Token != "glpat-global" {
		t.Errorf("edoras token = %q, want global fallback", platform.Projects[0].Token)
	}
	if platform.Projects[1].Token != "glpat-rohan" {
		t.Errorf("rohan token = %q, want per-project token", platform.Projects[1].Token)
	}

	web := teams[1]
	if web.Thresholds.FallbackDays != 2 {
		t.Errorf("web FallbackDays = %d, want default 2", web.Thresholds.FallbackDays)
	}
}

func TestExclusionDefaults(t *testing.T) {
	cfg := &Config{}
	if !cfg.BotsExcluded() {
		t.Error("BotsExcluded() = false, want default true")
	}
	if !cfg.DependenciesExcluded() {
		t.Error("DependenciesExcluded() = false, want default true")
	}

	off := false
	cfg.ExcludeBots = &off
	cfg.ExcludeDependencies = &off
	if cfg.BotsExcluded() || cfg.DependenciesExcluded() {
		t.Error("explicit false not honored")
	}
}

func TestMinimalConfigParses(t *testing.T) {
	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(MinimalConfig()), cfg); err != nil {
		t.Fatalf("MinimalConfig() does not parse: %v", err)
	}
	if len(cfg.Teams) != 1 {
		t.Errorf("len(Teams) = %d, want 1", len(cfg.Teams))
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := SaveTo(path, "teams: {}\n"); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(data) != "teams: {}\n" {
		t.Errorf("content = %q", data)
	}
}

package staleness

import (
	"testing"

	"github.com/hal/stalemr/internal/model"
)

func TestResolveThreshold(t *testing.T) {
	cfg := model.ThresholdConfig{
		UsePriority:  true,
		FallbackDays: 2,
		Days: map[string]int{
			"highest": 1,
			"high":    2,
			"medium":  3,
		},
	}

	tests := []struct {
		name     string
		priority string
		cfg      model.ThresholdConfig
		want     int
	}{
		{"known priority", "high", cfg, 2},
		{"highest priority", "highest", cfg, 1},
		{"case insensitive", "HiGh", cfg, 2},
		{"absent priority uses fallback", "", cfg, 2},
		{"unknown priority uses fallback", "blocker", cfg, 2},
		{"sparse map falls back", "lowest", cfg, 2},
		{
			name:     "lookup disabled uses fallback",
			priority: "highest",
			cfg: model.ThresholdConfig{
				UsePriority:  false,
				FallbackDays: 4,
				Days:         map[string]int{"highest": 1},
			},
			want: 4,
		},
		{
			name:     "lookup disabled and absent priority",
			priority: "",
			cfg:      model.ThresholdConfig{UsePriority: false, FallbackDays: 4},
			want:     4,
		},
		{
			name:     "nil days map falls back",
			priority: "high",
			cfg:      model.ThresholdConfig{UsePriority: true, FallbackDays: 3},
			want:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveThreshold(tt.priority, tt.cfg)
			if got != tt.want {
				t.Errorf("ResolveThreshold(%q) = %d, want %d", tt.priority, got, tt.want)
			}
		})
	}
}

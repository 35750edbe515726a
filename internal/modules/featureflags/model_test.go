package featureflags

import (
	"testing"
	"time"
)

func TestConfig_IsActiveWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"disabled", Config{Enabled: false}, false},
		{"enabled no window", Config{Enabled: true}, true},
		{"inside window", Config{Enabled: true, StartDate: &past, EndDate: &future}, true},
		{"before start", Config{Enabled: true, StartDate: &future}, false},
		{"after end", Config{Enabled: true, EndDate: &past}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.isActiveAt(now); got != tt.want {
				t.Errorf("isActiveAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_IsABTestActive(t *testing.T) {
	v := VariantTreatment
	cfg := Config{Enabled: true, ABTestEnabled: true, ABVariant: &v}
	if !cfg.IsABTestActive() {
		t.Error("expected A/B active")
	}

	// Missing variant means not active even with the toggle on.
	cfg.ABVariant = nil
	if cfg.IsABTestActive() {
		t.Error("A/B active without a variant")
	}

	cfg.ABVariant = &v
	cfg.Enabled = false
	if cfg.IsABTestActive() {
		t.Error("A/B active on an inactive flag")
	}
}

func TestConfig_ValidateRolloutSteps(t *testing.T) {
	for _, pct := range []int{0, 10, 25, 50, 75, 100} {
		cfg := Config{Flag: FlagPointCache, RolloutPercent: pct}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate(%d%%) = %v, want nil", pct, err)
		}
	}
	for _, pct := range []int{-1, 5, 33, 99, 101} {
		cfg := Config{Flag: FlagPointCache, RolloutPercent: pct}
		if err := cfg.Validate(); err == nil {
			t.Errorf("Validate(%d%%) = nil, want error", pct)
		}
	}
}

func TestConfig_ValidateWindow(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	cfg := Config{Flag: FlagPointCache, StartDate: &start, EndDate: &end}
	if err := cfg.Validate(); err == nil {
		t.Error("inverted window should fail validation")
	}
}

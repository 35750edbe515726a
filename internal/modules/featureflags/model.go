// README: Feature flag configuration model with rollout and A/B fields.
package featureflags

import (
	"fmt"
	"time"
)

// Flag names a gated behavior.
type Flag string

const (
	// FlagCoordinateTransformation gates the new transform pipeline versus
	// the legacy threshold-based validator. Disabling it is the designed
	// kill switch for rollback.
	FlagCoordinateTransformation Flag = "coordinate_transformation"
	// FlagPointCache gates population of the quantized point cache tier.
	FlagPointCache Flag = "point_cache"
	// FlagChunkedBatch gates the concurrent chunked batch path.
	FlagChunkedBatch Flag = "chunked_batch"
)

// Variant is an A/B assignment.
type Variant string

const (
	VariantControl   Variant = "control"
	VariantTreatment Variant = "treatment"
)

// validRolloutSteps are the only rollout percentages the admin surface may
// set; intermediate values make gradual-rollout comparisons meaningless.
var validRolloutSteps = map[int]bool{0: true, 10: true, 25: true, 50: true, 75: true, 100: true}

// Config is the stored state for one flag. Configs are replaced wholesale on
// update, never field-patched.
type Config struct {
	Flag           Flag              `json:"flag"`
	Enabled        bool              `json:"enabled"`
	RolloutPercent int               `json:"rolloutPercentage"`
	ABTestEnabled  bool              `json:"abTestEnabled"`
	ABVariant      *Variant          `json:"abTestVariant,omitempty"`
	StartDate      *time.Time        `json:"startDate,omitempty"`
	EndDate        *time.Time        `json:"endDate,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// IsActive reports whether the flag is on and the current time falls inside
// its optional start/end window.
func (c Config) IsActive() bool {
	return c.isActiveAt(time.Now())
}

func (c Config) isActiveAt(now time.Time) bool {
	if !c.Enabled {
		return false
	}
	if c.StartDate != nil && now.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && now.After(*c.EndDate) {
		return false
	}
	return true
}

// IsABTestActive requires an active flag, A/B enabled, and a variant set.
func (c Config) IsABTestActive() bool {
	return c.IsActive() && c.ABTestEnabled && c.ABVariant != nil
}

// Validate rejects configs the service must never persist.
func (c Config) Validate() error {
	if c.Flag == "" {
		return fmt.Errorf("featureflags: config has empty flag name")
	}
	if !validRolloutSteps[c.RolloutPercent] {
		return fmt.Errorf("featureflags: rollout percentage %d not in {0,10,25,50,75,100}", c.RolloutPercent)
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return fmt.Errorf("featureflags: end date precedes start date")
	}
	return nil
}

// disabledConfig is what GetConfig returns for a flag that was never set.
func disabledConfig(f Flag) Config {
	return Config{Flag: f, Enabled: false, RolloutPercent: 0}
}

// Defaults is the built-in flag map: the transform pipeline fully on, the
// supporting flags on at 100% with A/B off.
func Defaults() map[Flag]Config {
	return map[Flag]Config{
		FlagCoordinateTransformation: {Flag: FlagCoordinateTransformation, Enabled: true, RolloutPercent: 100},
		FlagPointCache:               {Flag: FlagPointCache, Enabled: true, RolloutPercent: 100},
		FlagChunkedBatch:             {Flag: FlagChunkedBatch, Enabled: true, RolloutPercent: 100},
	}
}

// README: Flag service: deterministic rollout bucketing, A/B assignment, persistence.
package featureflags

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"

	"bridget/internal/logger"
	"bridget/internal/metrics"
)

// Service answers hot-path flag decisions and persists config changes.
// Reads take an RWMutex read lock; mutation (UpdateConfig, ResetToDefaults)
// is expected from a single control-plane context, not concurrent hot paths.
type Service struct {
	mu    sync.RWMutex
	store Store
	flags map[Flag]Config
}

// NewService loads persisted flags and fills gaps from the built-in defaults,
// so a fresh deployment starts with the transform pipeline fully enabled.
func NewService(ctx context.Context, store Store) (*Service, error) {
	flags, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	for f, cfg := range Defaults() {
		if _, ok := flags[f]; !ok {
			flags[f] = cfg
		}
	}
	return &Service{store: store, flags: flags}, nil
}

// GetConfig returns the stored config, or a default-disabled one for a flag
// that was never set.
func (s *Service) GetConfig(f Flag) Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cfg, ok := s.flags[f]; ok {
		return cfg
	}
	return disabledConfig(f)
}

// All returns a copy of the current flag map for the admin surface.
func (s *Service) All() map[Flag]Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[Flag]Config, len(s.flags))
	for f, cfg := range s.flags {
		out[f] = cfg
	}
	return out
}

// IsEnabled decides whether f is on for the given identifier. The decision is
// deterministic per identifier within a config epoch: a bridge never flips
// between calls because bucketing hashes the identifier with a stable hash
// rather than sampling.
func (s *Service) IsEnabled(f Flag, identifier string) bool {
	cfg := s.GetConfig(f)
	enabled := s.isEnabled(cfg, identifier)
	decision := "off"
	if enabled {
		decision = "on"
	}
	metrics.FlagDecisionsTotal.WithLabelValues(string(f), decision).Inc()
	return enabled
}

func (s *Service) isEnabled(cfg Config, identifier string) bool {
	if !cfg.IsActive() {
		return false
	}
	if cfg.IsABTestActive() {
		return assignVariant(identifier) == VariantTreatment
	}
	return rolloutBucket(identifier) < uint64(cfg.RolloutPercent)
}

// ABVariant returns the stable control/treatment assignment, or false when
// no A/B test is active for the flag.
func (s *Service) ABVariant(f Flag, identifier string) (Variant, bool) {
	cfg := s.GetConfig(f)
	if !cfg.IsABTestActive() {
		return "", false
	}
	return assignVariant(identifier), true
}

// UpdateConfig replaces the config for one flag and persists the whole map.
func (s *Service) UpdateConfig(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.flags[cfg.Flag]
	s.flags[cfg.Flag] = cfg
	if err := s.store.Save(ctx, s.flags); err != nil {
		if existed {
			s.flags[cfg.Flag] = prev
		} else {
			delete(s.flags, cfg.Flag)
		}
		return err
	}
	logger.L().Info("flag_updated",
		"flag", string(cfg.Flag),
		"enabled", cfg.Enabled,
		"rollout", cfg.RolloutPercent,
		"abTest", cfg.ABTestEnabled)
	return nil
}

// ResetToDefaults restores the built-in flag map and persists it.
func (s *Service) ResetToDefaults(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defaults := Defaults()
	if err := s.store.Save(ctx, defaults); err != nil {
		return err
	}
	s.flags = defaults
	logger.L().Info("flags_reset_to_defaults")
	return nil
}

// DisableCoordinateTransformation is the rollback kill switch: after it
// returns, IsEnabled answers false for every identifier immediately.
func (s *Service) DisableCoordinateTransformation(ctx context.Context) error {
	cfg := s.GetConfig(FlagCoordinateTransformation)
	cfg.Enabled = false
	return s.UpdateConfig(ctx, cfg)
}

// rolloutBucket maps an identifier into [0,100). xxhash is stable across
// processes, which rollout determinism depends on; Go's runtime hash is not.
func rolloutBucket(identifier string) uint64 {
	return xxhash.Sum64String(identifier) % 100
}

// assignVariant uses an independently-keyed hash reduced modulo 2 so the A/B
// split does not correlate with the rollout bucket.
func assignVariant(identifier string) Variant {
	if xxhash.Sum64String(identifier+":ab")%2 == 0 {
		return VariantControl
	}
	return VariantTreatment
}

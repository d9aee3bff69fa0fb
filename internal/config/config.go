package config

import (
	"fmt"
	"os"
	"strconv"
)

// TierThresholds are the five ascending reputation bounds that separate
// the trust levels. An author below Banned is banned; at or above Expert
// they are an expert.
type TierThresholds struct {
	Banned       float64
	Beginner     float64
	Intermediate float64
	Trusted      float64
	Expert       float64
}

type Config struct {
	Tiers TierThresholds

	// Items created by authors at or above this reputation start out
	// verified instead of unverified.
	AutoVerifyReputation float64

	// Accepted star range for item ratings (inclusive, after rounding).
	MinRating float64
	MaxRating float64
}

func Default() Config {
	return Config{
		Tiers: TierThresholds{
			Banned:       0,
			Beginner:     10,
			Intermediate: 50,
			Trusted:      200,
			Expert:       1000,
		},
		AutoVerifyReputation: 100,
		MinRating:            0,
		MaxRating:            5,
	}
}

// Current is the active configuration. Load replaces it at startup; tests
// may swap it for the duration of a case.
var Current = Default()

// Load reads overrides from the environment into Current and validates the
// result. Call once at startup, after godotenv.
func Load() error {
	cfg, err := FromEnv()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	Current = cfg
	return nil
}

// FromEnv starts from Default and applies any environment overrides. An
// override that does not parse is a configuration error, not something to
// fall back from.
func FromEnv() (Config, error) {
	cfg := Default()
	overrides := []struct {
		key string
		dst *float64
	}{
		{"REPUTATION_BANNED", &cfg.Tiers.Banned},
		{"REPUTATION_BEGINNER", &cfg.Tiers.Beginner},
		{"REPUTATION_INTERMEDIATE", &cfg.Tiers.Intermediate},
		{"REPUTATION_TRUSTED", &cfg.Tiers.Trusted},
		{"REPUTATION_EXPERT", &cfg.Tiers.Expert},
		{"AUTO_VERIFICATION_REPUTATION", &cfg.AutoVerifyReputation},
		{"RATING_MIN", &cfg.MinRating},
		{"RATING_MAX", &cfg.MaxRating},
	}
	for _, o := range overrides {
		if err := envFloat(o.key, o.dst); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Validate rejects malformed threshold tables. A failure here is fatal at
// startup, never a per-request condition.
func (c Config) Validate() error {
	t := c.Tiers
	bounds := []float64{t.Banned, t.Beginner, t.Intermediate, t.Trusted, t.Expert}
	for i := 1; i < len(bounds); i++ {
		if bounds[i] <= bounds[i-1] {
			return fmt.Errorf("config: reputation tier thresholds must be strictly ascending, got %v", bounds)
		}
	}
	if c.MinRating >= c.MaxRating {
		return fmt.Errorf("config: rating range [%v, %v] is empty", c.MinRating, c.MaxRating)
	}
	return nil
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	*dst = f
	return nil
}

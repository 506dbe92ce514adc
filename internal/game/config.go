package game

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of a session. Distances are pixels, speeds are
// pixels per tick, durations are simulated time.
type Config struct {
	TankWidth     float64 `yaml:"tank_width"`
	TankHeight    float64 `yaml:"tank_height"`
	WallThickness float64 `yaml:"wall_thickness"`

	Gravity     float64 `yaml:"gravity"`
	BallRadius  float64 `yaml:"ball_radius"`
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
	Density     float64 `yaml:"density"`
	Substeps    int     `yaml:"substeps"`
	CellSize    int     `yaml:"cell_size"`

	TickDuration time.Duration `yaml:"tick_duration"`
	SpawnDelay   time.Duration `yaml:"spawn_delay"`

	SpawnMargin    float64 `yaml:"spawn_margin"`     // side margin for the spawn X range
	SpawnTopMargin float64 `yaml:"spawn_top_margin"` // spawn Y = top margin + ball radius
	FallenBuffer   float64 `yaml:"fallen_buffer"`    // balls below height+buffer are removed

	MinDistance          float64 `yaml:"min_distance"`
	RegionWidth          float64 `yaml:"region_width"`
	RegionHeight         float64 `yaml:"region_height"`
	FallbackRegionWidth  float64 `yaml:"fallback_region_width"`
	FallbackRegionHeight float64 `yaml:"fallback_region_height"`
	PermanentCashHeight  float64 `yaml:"permanent_cash_height"`
	PermanentCashFrac    float64 `yaml:"permanent_cash_frac"` // fraction of tank width

	VelocityThreshold float64       `yaml:"velocity_threshold"`
	VelocityDebounce  time.Duration `yaml:"velocity_debounce"`

	StartBallLevel    int `yaml:"start_ball_level"`
	StartBallCount    int `yaml:"start_ball_count"`
	MultiplierFactor  int `yaml:"multiplier_factor"` // factor of regions made by the sandbox tool
	ItemOfferFromTurn int `yaml:"item_offer_from_turn"`

	StartingLayout bool `yaml:"starting_layout"`

	// KeepPendingSpawnsOnClear lets already scheduled spawns outlive a clear,
	// matching the behaviour of the first release.
	KeepPendingSpawnsOnClear bool `yaml:"keep_pending_spawns_on_clear"`
	// PortalKeepsChargeWithoutExit leaves a ball's portal charge intact when it
	// enters a blue portal while no orange portal exists.
	PortalKeepsChargeWithoutExit bool `yaml:"portal_keeps_charge_without_exit"`
}

// DefaultConfig returns the stock tank.
func DefaultConfig() Config {
	return Config{
		TankWidth:     800,
		TankHeight:    800,
		WallThickness: 20,

		Gravity:     0.2,
		BallRadius:  5,
		Restitution: 0.6,
		Friction:    0,
		Density:     0.001,
		Substeps:    2,
		CellSize:    40,

		TickDuration: time.Second / 60,
		SpawnDelay:   250 * time.Millisecond,

		SpawnMargin:    30,
		SpawnTopMargin: 30,
		FallenBuffer:   50,

		MinDistance:          75,
		RegionWidth:          90,
		RegionHeight:         20,
		FallbackRegionWidth:  100,
		FallbackRegionHeight: 50,
		PermanentCashHeight:  30,
		PermanentCashFrac:    0.5,

		VelocityThreshold: 0.5,
		VelocityDebounce:  time.Second,

		StartBallLevel:    1,
		StartBallCount:    10,
		MultiplierFactor:  2,
		ItemOfferFromTurn: 2,

		StartingLayout: true,
	}
}

// Validate rejects configurations the session cannot run with.
func (c Config) Validate() error {
	var errs []error
	positive := []struct {
		name string
		v    float64
	}{
		{"tank_width", c.TankWidth},
		{"tank_height", c.TankHeight},
		{"wall_thickness", c.WallThickness},
		{"ball_radius", c.BallRadius},
		{"region_width", c.RegionWidth},
		{"region_height", c.RegionHeight},
		{"min_distance", c.MinDistance},
	}
	for _, p := range positive {
		if p.v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be > 0, got %g", p.name, p.v))
		}
	}
	if c.TickDuration <= 0 {
		errs = append(errs, fmt.Errorf("tick_duration must be > 0, got %s", c.TickDuration))
	}
	if c.SpawnDelay < 0 {
		errs = append(errs, fmt.Errorf("spawn_delay must be >= 0, got %s", c.SpawnDelay))
	}
	if c.StartBallLevel < 1 || c.StartBallCount < 1 {
		errs = append(errs, fmt.Errorf("start loadout must be >= 1 (level=%d count=%d)", c.StartBallLevel, c.StartBallCount))
	}
	if c.MultiplierFactor < 2 {
		errs = append(errs, fmt.Errorf("multiplier_factor must be >= 2, got %d", c.MultiplierFactor))
	}
	if c.PermanentCashFrac <= 0 || c.PermanentCashFrac > 1 {
		errs = append(errs, fmt.Errorf("permanent_cash_frac must be in (0,1], got %g", c.PermanentCashFrac))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML file and overlays it onto DefaultConfig. Keys that
// are absent keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// fallenLine is the y coordinate below which balls are discarded.
func (c Config) fallenLine() float64 { return c.TankHeight + c.FallenBuffer }

// spawnY is the y coordinate every dropped ball starts at.
func (c Config) spawnY() float64 { return c.SpawnTopMargin + c.BallRadius }

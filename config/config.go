// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Mutation  MutationConfig  `yaml:"mutation"`
	Food      FoodConfig      `yaml:"food"`
	Needs     NeedsConfig     `yaml:"needs"`
	Water     WaterConfig     `yaml:"water"`
	Herbivore SpeciesConfig   `yaml:"herbivore"`
	Predator  SpeciesConfig   `yaml:"predator"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds map dimensions in tiles.
type WorldConfig struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

// PhysicsConfig holds simulation stepping parameters.
type PhysicsConfig struct {
	DT           float64 `yaml:"dt"`
	GridCellSize float64 `yaml:"grid_cell_size"`
}

// TerrainConfig holds biome generation parameters.
type TerrainConfig struct {
	BiomeScale  int          `yaml:"biome_scale"`  // Coarse region size in tiles (1-10)
	TileSize    int          `yaml:"tile_size"`    // World units per tile
	PondChance  float64      `yaml:"pond_chance"`  // Percent chance a high-potential cell becomes water
	RiverChance float64      `yaml:"river_chance"` // Percent chance the map gets a river
	RiverWidth  int          `yaml:"river_width"`  // River half-width in tiles
	Weights     BiomeWeights `yaml:"weights"`
}

// BiomeWeights holds relative spawn weights for the land biomes.
// Negative values are clamped to zero; an all-zero set falls back to uniform.
type BiomeWeights struct {
	Plains float64 `yaml:"plains"`
	Forest float64 `yaml:"forest"`
	Desert float64 `yaml:"desert"`
	Tundra float64 `yaml:"tundra"`
}

// MutationConfig holds heredity mutation parameters.
type MutationConfig struct {
	Rate       float64 `yaml:"rate"`        // Per-locus chance of a polygenic perturbation
	Magnitude  float64 `yaml:"magnitude"`   // Perturbation size as a fraction of the locus range
	AlleleRate float64 `yaml:"allele_rate"` // Per-trait chance of re-drawing a discrete allele
}

// FoodConfig holds food field parameters.
type FoodConfig struct {
	MaxSlots    int         `yaml:"max_slots"`    // Bites per node when fully grown
	CellSize    float64     `yaml:"cell_size"`    // Food grid bucket size in world units
	BiteValue   float64     `yaml:"bite_value"`   // Hunger restored per bite
	WaterValue  float64     `yaml:"water_value"`  // Thirst restored by a cactus bite
	CactusPrick float64     `yaml:"cactus_prick"` // Max damage from a cactus prick
	RegenMin    float64     `yaml:"regen_min"`    // Slot regen delay lower bound (seconds)
	RegenMax    float64     `yaml:"regen_max"`    // Slot regen delay upper bound (seconds)
	Spawn       SpawnConfig `yaml:"spawn"`
}

// SpawnConfig holds per-tile spawn probabilities by biome.
type SpawnConfig struct {
	ForestTree     float64 `yaml:"forest_tree"`
	ForestDeadTree float64 `yaml:"forest_dead_tree"`
	PlainsShrub    float64 `yaml:"plains_shrub"`
	TundraTree     float64 `yaml:"tundra_tree"`
	TundraLichen   float64 `yaml:"tundra_lichen"`
	DesertCactus   float64 `yaml:"desert_cactus"`
}

// NeedsConfig holds shared need-drain and terrain movement modifiers.
type NeedsConfig struct {
	DesertThirstMult   float64 `yaml:"desert_thirst_mult"`   // Thirst drain multiplier in desert
	TundraHungerMult   float64 `yaml:"tundra_hunger_mult"`   // Hunger drain multiplier in tundra
	PregnancyDrainMult float64 `yaml:"pregnancy_drain_mult"` // Need drain multiplier while pregnant
	PregnancySpeedDiv  float64 `yaml:"pregnancy_speed_div"`  // Speed divisor while pregnant
	ForestSpeedMult    float64 `yaml:"forest_speed_mult"`    // Speed multiplier in forest
	TundraSpeedMult    float64 `yaml:"tundra_speed_mult"`    // Speed multiplier in tundra
	StarveDamage       float64 `yaml:"starve_damage"`        // Health drain per second at zero hunger/thirst
}

// WaterConfig holds water-crossing parameters.
type WaterConfig struct {
	SwimThreshold      float64 `yaml:"swim_threshold"`       // Minimum swim stat to enter water
	CrossingHungerMult float64 `yaml:"crossing_hunger_mult"` // Hunger drain multiplier while swimming
	ThirstRefillRate   float64 `yaml:"thirst_refill_rate"`   // Thirst restored per second while swimming
	DrinkRate          float64 `yaml:"drink_rate"`           // Thirst restored per second while drinking at shore
	WetSpeedMult       float64 `yaml:"wet_speed_mult"`       // Speed multiplier while drying off
	WetDuration        float64 `yaml:"wet_duration"`         // Seconds the post-swim slowdown lasts
}

// SpeciesConfig holds per-species population and behavior tuning.
type SpeciesConfig struct {
	Initial        int     `yaml:"initial"`         // Starting population
	HungerDrain    float64 `yaml:"hunger_drain"`    // Base hunger drain per second
	ThirstDrain    float64 `yaml:"thirst_drain"`    // Base thirst drain per second
	HungerSeek     float64 `yaml:"hunger_seek"`     // Hunger level that triggers food seeking
	ThirstSeek     float64 `yaml:"thirst_seek"`     // Thirst level that triggers water seeking
	BreedDuration  float64 `yaml:"breed_duration"`  // Handshake length in seconds
	BreedCooldown  float64 `yaml:"breed_cooldown"`  // Seconds between breeding attempts
	MaternalRisk   float64 `yaml:"maternal_risk"`   // Death chance per offspring beyond the first
	WanderTurn     float64 `yaml:"wander_turn"`     // Max heading change per second while wandering
	FleeSpeedMult  float64 `yaml:"flee_speed_mult"` // Speed multiplier while fleeing or charging
	AttackRange    float64 `yaml:"attack_range"`    // Strike reach in world units
	AttackCooldown float64 `yaml:"attack_cooldown"` // Seconds between strikes
	EatHunger      float64 `yaml:"eat_hunger"`      // Hunger gained from a kill, per unit prey size
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowTicks int `yaml:"window_ticks"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW float64 // World width in world units
	WorldH float64 // World height in world units
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks configured values against their allowed ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.World.Cols <= 0 || c.World.Rows <= 0 {
		errs = append(errs, fmt.Errorf("world: cols and rows must be positive, got %dx%d", c.World.Cols, c.World.Rows))
	}
	if c.Physics.DT <= 0 {
		errs = append(errs, fmt.Errorf("physics: dt must be positive, got %g", c.Physics.DT))
	}
	if c.Terrain.BiomeScale < 1 || c.Terrain.BiomeScale > 10 {
		errs = append(errs, fmt.Errorf("terrain: biome_scale must be in 1..10, got %d", c.Terrain.BiomeScale))
	}
	if c.Terrain.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("terrain: tile_size must be positive, got %d", c.Terrain.TileSize))
	}
	if c.Terrain.RiverWidth < 1 {
		errs = append(errs, fmt.Errorf("terrain: river_width must be at least 1, got %d", c.Terrain.RiverWidth))
	}
	if c.Food.MaxSlots <= 0 {
		errs = append(errs, fmt.Errorf("food: max_slots must be positive, got %d", c.Food.MaxSlots))
	}
	if c.Food.RegenMin > c.Food.RegenMax {
		errs = append(errs, fmt.Errorf("food: regen_min %g exceeds regen_max %g", c.Food.RegenMin, c.Food.RegenMax))
	}
	if c.Mutation.Rate < 0 || c.Mutation.Rate > 1 {
		errs = append(errs, fmt.Errorf("mutation: rate must be in 0..1, got %g", c.Mutation.Rate))
	}
	if c.Mutation.AlleleRate < 0 || c.Mutation.AlleleRate > 1 {
		errs = append(errs, fmt.Errorf("mutation: allele_rate must be in 0..1, got %g", c.Mutation.AlleleRate))
	}
	if c.Telemetry.WindowTicks <= 0 {
		errs = append(errs, fmt.Errorf("telemetry: window_ticks must be positive, got %d", c.Telemetry.WindowTicks))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.WorldW = float64(c.World.Cols * c.Terrain.TileSize)
	c.Derived.WorldH = float64(c.World.Rows * c.Terrain.TileSize)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

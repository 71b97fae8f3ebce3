package sim

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wilds/components"
	"github.com/pthm-cable/wilds/config"
	"github.com/pthm-cable/wilds/genetics"
	"github.com/pthm-cable/wilds/systems"
	"github.com/pthm-cable/wilds/telemetry"
	"github.com/pthm-cable/wilds/terrain"
)

// Simulation owns the world and runs the multi-phase tick loop. A single
// goroutine drives it; nothing here is safe for concurrent use.
type Simulation struct {
	cfg *config.Config
	rng *rand.Rand
	st  *store

	terrain *terrain.World
	water   *terrain.WaterField
	food    *systems.FoodField
	grid    *systems.SpatialGrid

	herbivores *Population
	predators  *Population

	tick int64
	out  *telemetry.OutputManager
}

// New generates terrain, seeds the food field and both populations, and
// returns a ready simulation. progress receives terrain generation
// updates and may be nil.
func New(cfg *config.Config, seed int64, progress terrain.ProgressFunc) (*Simulation, error) {
	rng := rand.New(rand.NewSource(seed))

	set := terrain.Settings{
		BiomeScale:  cfg.Terrain.BiomeScale,
		TileSize:    cfg.Terrain.TileSize,
		PondChance:  cfg.Terrain.PondChance,
		RiverChance: cfg.Terrain.RiverChance,
		RiverWidth:  cfg.Terrain.RiverWidth,
		Weights: [4]float64{
			cfg.Terrain.Weights.Plains,
			cfg.Terrain.Weights.Forest,
			cfg.Terrain.Weights.Desert,
			cfg.Terrain.Weights.Tundra,
		},
	}
	gen, err := terrain.NewGenerator(cfg.World.Cols, cfg.World.Rows, set, rng)
	if err != nil {
		return nil, fmt.Errorf("building terrain generator: %w", err)
	}
	world := gen.Generate(progress)
	counts := world.CountBiomes()
	slog.Info("terrain generated",
		"plains", counts[terrain.Plains],
		"forest", counts[terrain.Forest],
		"desert", counts[terrain.Desert],
		"tundra", counts[terrain.Tundra],
		"water", counts[terrain.Water],
	)

	water := terrain.NewWaterField(world)
	food := systems.NewFoodField(world, cfg.Food, rng)
	slog.Info("food field seeded", "nodes", food.Count())

	ecsWorld := ecs.NewWorld()
	st := newStore(ecsWorld)

	mut := genetics.MutationParams{
		Rate:       cfg.Mutation.Rate,
		Magnitude:  cfg.Mutation.Magnitude,
		AlleleRate: cfg.Mutation.AlleleRate,
	}
	herbEng := genetics.NewEngine(genetics.HerbivoreSchema(), mut, rng)
	predEng := genetics.NewEngine(genetics.PredatorSchema(), mut, rng)

	s := &Simulation{
		cfg:     cfg,
		rng:     rng,
		st:      st,
		terrain: world,
		water:   water,
		food:    food,
		grid:    systems.NewSpatialGrid(world.Width(), world.Height(), cfg.Physics.GridCellSize),
		herbivores: NewPopulation(components.Herbivore, st, herbEng,
			cfg.Herbivore, cfg.Needs, cfg.Water, rng),
		predators: NewPopulation(components.Predator, st, predEng,
			cfg.Predator, cfg.Needs, cfg.Water, rng),
	}

	if err := s.herbivores.SpawnInitial(cfg.Herbivore.Initial, world, water); err != nil {
		return nil, err
	}
	if err := s.predators.SpawnInitial(cfg.Predator.Initial, world, water); err != nil {
		return nil, err
	}
	slog.Info("populations spawned",
		"herbivores", s.herbivores.Count(),
		"predators", s.predators.Count(),
	)
	return s, nil
}

// SetOutput attaches an output manager for windowed telemetry.
func (s *Simulation) SetOutput(out *telemetry.OutputManager) {
	s.out = out
}

// Now returns the current sim time in seconds.
func (s *Simulation) Now() float64 {
	return float64(s.tick) * s.cfg.Physics.DT
}

// Tick returns the current tick number.
func (s *Simulation) Tick() int64 { return s.tick }

// Terrain returns the generated world.
func (s *Simulation) Terrain() *terrain.World { return s.terrain }

// Herbivores returns the herbivore population manager.
func (s *Simulation) Herbivores() *Population { return s.herbivores }

// Predators returns the predator population manager.
func (s *Simulation) Predators() *Population { return s.predators }

// Food returns the food field.
func (s *Simulation) Food() *systems.FoodField { return s.food }

// Step advances one tick through the fixed phases: behavior updates,
// breeding resolution, births, culls, food regen, telemetry. Phases never
// interleave; structural ECS changes happen only in births and culls.
func (s *Simulation) Step() {
	s.tick++
	env := &Env{
		DT:         s.cfg.Physics.DT,
		Now:        s.Now(),
		World:      s.terrain,
		Water:      s.water,
		Food:       s.food,
		Grid:       s.grid,
		Herbivores: s.herbivores,
		Predators:  s.predators,
	}

	s.rebuildGrid()

	s.herbivores.Update(env)
	s.predators.Update(env)

	s.herbivores.ResolveBreeding(env)
	s.predators.ResolveBreeding(env)

	s.herbivores.Births(env)
	s.predators.Births(env)

	s.herbivores.Cull()
	s.predators.Cull()

	s.food.Tick(env.Now)

	if s.tick%int64(s.cfg.Telemetry.WindowTicks) == 0 {
		s.flushStats()
	}
}

// Run advances n ticks.
func (s *Simulation) Run(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// rebuildGrid refreshes the creature spatial grid from current positions.
func (s *Simulation) rebuildGrid() {
	s.grid.Clear()
	query := s.st.filter.Query()
	for query.Next() {
		pos, _, _, _, life, _, _ := query.Get()
		if life.Dead {
			continue
		}
		s.grid.Insert(query.Entity(), pos.X, pos.Y)
	}
}

package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/wilds/components"
	"github.com/pthm-cable/wilds/config"
	"github.com/pthm-cable/wilds/genetics"
	"github.com/pthm-cable/wilds/systems"
	"github.com/pthm-cable/wilds/terrain"
)

// ErrNoLand is returned when spawn placement cannot find a land tile.
var ErrNoLand = errors.New("no land available for spawning")

// spawnAttempts bounds rejection sampling for land placement.
const spawnAttempts = 200

// Env is the per-tick context handed to population updates.
type Env struct {
	DT  float64
	Now float64

	World *terrain.World
	Water *terrain.WaterField
	Food  *systems.FoodField
	Grid  *systems.SpatialGrid

	Herbivores *Population
	Predators  *Population
}

// Other returns the opposing population.
func (e *Env) Other(s components.Species) *Population {
	if s == components.Herbivore {
		return e.Predators
	}
	return e.Herbivores
}

// proposal is a courtship request collected during the update phase and
// arbitrated afterwards.
type proposal struct {
	MaleID   uint32
	FemaleID uint32
	Attract  float64 // suitor attractiveness, for rival arbitration
}

// birthOrder marks a mother whose gestation has completed.
type birthOrder struct {
	MotherID uint32
}

// Population manages one species: id allocation, spawning, the behavior
// update, breeding resolution, births, and culling. Both populations share
// one ECS world; the species tag keeps their updates apart.
type Population struct {
	species components.Species
	st      *store
	eng     *genetics.Engine
	rng     *rand.Rand
	src     exprand.Source // feeds gonum distributions

	cfg      config.SpeciesConfig
	needsCfg config.NeedsConfig
	waterCfg config.WaterConfig

	nextID uint32
	byID   map[uint32]ecs.Entity

	proposals []proposal
	births    []birthOrder
	scratch   []systems.Neighbor

	// Window counters, drained by telemetry.
	BirthCount int
	DeathCount [7]int // indexed by components.DeathCause

	// Lifetime tallies, never reset.
	TotalBirths int
	TotalDeaths [7]int
}

// NewPopulation wires a population over the shared store.
func NewPopulation(species components.Species, st *store, eng *genetics.Engine,
	cfg config.SpeciesConfig, needsCfg config.NeedsConfig, waterCfg config.WaterConfig,
	rng *rand.Rand) *Population {
	return &Population{
		species:  species,
		st:       st,
		eng:      eng,
		rng:      rng,
		src:      exprand.NewSource(uint64(rng.Int63())),
		cfg:      cfg,
		needsCfg: needsCfg,
		waterCfg: waterCfg,
		byID:     make(map[uint32]ecs.Entity),
	}
}

// Species returns the population's archetype.
func (p *Population) Species() components.Species { return p.species }

// Count returns the number of live creatures.
func (p *Population) Count() int { return len(p.byID) }

// Lookup resolves a creature id to its entity. Ids of culled creatures
// stop resolving; ids are never reused.
func (p *Population) Lookup(id uint32) (ecs.Entity, bool) {
	e, ok := p.byID[id]
	return e, ok
}

func (p *Population) allocID() uint32 {
	p.nextID++
	return p.nextID
}

// Spawn creates one creature at a position from the given genome and
// returns its id. Structural change: never call while a query is open.
func (p *Population) Spawn(x, y float64, genome *genetics.Genome) uint32 {
	id := p.allocID()
	phen := p.eng.Express(genome)

	pos := components.Position{X: x, Y: y}
	mot := components.Motion{Heading: p.rng.Float64() * 2 * math.Pi}
	org := components.Organism{
		ID:      id,
		Species: p.species,
		Sex:     components.Sex(p.rng.Intn(2)),
		Genome:  genome,
		Phen:    phen,
	}
	needs := components.Needs{Hunger: 80, Thirst: 80, Health: phen.MaxHealth}
	life := components.Lifecycle{}
	rep := components.Reproduction{Cooldown: p.cfg.BreedCooldown * p.rng.Float64()}
	beh := components.Behavior{FoodNode: -1}

	e := p.st.mapper.NewEntity(&pos, &mot, &org, &needs, &life, &rep, &beh)
	p.byID[id] = e
	return id
}

// SpawnInitial places n creatures with random genomes on land tiles using
// rejection sampling.
func (p *Population) SpawnInitial(n int, w *terrain.World, water *terrain.WaterField) error {
	for i := 0; i < n; i++ {
		x, y, err := randomLand(w, water, p.rng)
		if err != nil {
			return fmt.Errorf("spawning %s %d/%d: %w", p.species, i+1, n, err)
		}
		p.Spawn(x, y, p.eng.RandomGenome())
	}
	return nil
}

// randomLand picks a uniform land position, or ErrNoLand after the
// attempt cap.
func randomLand(w *terrain.World, water *terrain.WaterField, rng *rand.Rand) (float64, float64, error) {
	for i := 0; i < spawnAttempts; i++ {
		x := rng.Float64() * w.Width()
		y := rng.Float64() * w.Height()
		if !water.IsWaterAt(x, y) {
			return x, y, nil
		}
	}
	return 0, 0, ErrNoLand
}

// Update runs the behavior step for every live creature of this species.
// Only component values change here; spawns and removals wait for the
// later phases.
func (p *Population) Update(env *Env) {
	query := p.st.filter.Query()
	for query.Next() {
		pos, mot, org, needs, life, rep, beh := query.Get()
		if org.Species != p.species || life.Dead {
			continue
		}
		p.updateCreature(env, query.Entity(), pos, mot, org, needs, life, rep, beh)
	}
}

// ResolveBreeding arbitrates the proposals collected during Update. For
// each female the most attractive suitor wins; a rival may displace a male
// already mid-handshake if he is strictly more attractive (herbivores
// only; predator pairs are first-come).
func (p *Population) ResolveBreeding(env *Env) {
	best := make(map[uint32]proposal, len(p.proposals))
	var order []uint32 // map iteration would make runs diverge
	for _, prop := range p.proposals {
		cur, ok := best[prop.FemaleID]
		if !ok {
			order = append(order, prop.FemaleID)
		}
		if !ok || prop.Attract > cur.Attract {
			best[prop.FemaleID] = prop
		}
	}
	p.proposals = p.proposals[:0]

	for _, femaleID := range order {
		prop := best[femaleID]
		fe, ok := p.byID[femaleID]
		if !ok {
			continue
		}
		me, ok := p.byID[prop.MaleID]
		if !ok {
			continue
		}
		fRep := p.st.repMap.Get(fe)
		fBeh := p.st.behMap.Get(fe)
		fLife := p.st.lifeMap.Get(fe)
		mLife := p.st.lifeMap.Get(me)
		if fLife.Dead || mLife.Dead {
			continue
		}

		if fBeh.State == components.StateBreeding {
			// Rival interruption: herbivore females switch to a strictly
			// more attractive suitor mid-handshake.
			if p.species != components.Herbivore {
				continue
			}
			curMate, ok := p.byID[fRep.PartnerID]
			if ok {
				curOrg := p.st.orgMap.Get(curMate)
				if prop.Attract <= curOrg.Phen.Attractiveness {
					continue
				}
				p.breakOff(curMate)
			}
		} else if !p.eligible(env, fe) {
			continue
		}
		if !p.eligible(env, me) {
			continue
		}

		p.startHandshake(me, fe, prop.MaleID, femaleID)
	}
}

// startHandshake puts both partners into the breeding state with a shared
// timer. They hold position until it runs out.
func (p *Population) startHandshake(male, female ecs.Entity, maleID, femaleID uint32) {
	mRep := p.st.repMap.Get(male)
	fRep := p.st.repMap.Get(female)
	mBeh := p.st.behMap.Get(male)
	fBeh := p.st.behMap.Get(female)

	mRep.PartnerID = femaleID
	fRep.PartnerID = maleID
	mRep.BreedTimer = p.cfg.BreedDuration
	fRep.BreedTimer = p.cfg.BreedDuration
	mBeh.State = components.StateBreeding
	fBeh.State = components.StateBreeding
	mBeh.StateTime = 0
	fBeh.StateTime = 0
	mBeh.TargetID = 0
	fBeh.TargetID = 0
}

// breakOff drops a creature out of its handshake with a cooldown penalty.
func (p *Population) breakOff(e ecs.Entity) {
	rep := p.st.repMap.Get(e)
	beh := p.st.behMap.Get(e)
	rep.PartnerID = 0
	rep.BreedTimer = 0
	rep.Cooldown = p.cfg.BreedCooldown * 0.5
	beh.State = components.StateWander
	beh.StateTime = 0
}

// mateHealthFrac is the share of max health a creature needs to court.
const mateHealthFrac = 0.5

// eligible checks the fertility gate: alive, mature and inside the fertile
// window, off cooldown, not pregnant, on dry land, and not badly depleted.
func (p *Population) eligible(env *Env, e ecs.Entity) bool {
	org := p.st.orgMap.Get(e)
	life := p.st.lifeMap.Get(e)
	rep := p.st.repMap.Get(e)
	needs := p.st.needsMap.Get(e)
	pos := p.st.posMap.Get(e)

	if life.Dead || rep.Pregnant || rep.Cooldown > 0 {
		return false
	}
	frac := life.Age / org.Phen.MaxAge
	if frac < 0.25 || frac > 0.75 {
		return false
	}
	if env.Water.IsWaterAt(pos.X, pos.Y) {
		return false
	}
	if needs.Health < org.Phen.MaxHealth*mateHealthFrac {
		return false
	}
	return needs.Hunger > 30 && needs.Thirst > 30
}

// Births spawns the litters of mothers whose gestation completed this
// tick. Runs after all queries are closed; spawning is structural.
func (p *Population) Births(env *Env) {
	orders := p.births
	p.births = p.births[:0]

	for _, order := range orders {
		me, ok := p.byID[order.MotherID]
		if !ok {
			continue
		}
		mLife := p.st.lifeMap.Get(me)
		mRep := p.st.repMap.Get(me)
		if mLife.Dead || !mRep.Pregnant {
			continue
		}
		mPos := p.st.posMap.Get(me)
		mOrg := p.st.orgMap.Get(me)

		litter := p.litterSize(mOrg.Phen.LitterMean)
		fatherID := mRep.FatherID
		father := mRep.FatherGenome
		if father == nil {
			father = mOrg.Genome
		}
		// Capture before spawning: each Spawn is structural and may move
		// the mother's components.
		mx, my := mPos.X, mPos.Y
		mother := mOrg.Genome
		for c := 0; c < litter; c++ {
			child := p.eng.Inherit(mother, father)
			ox := mx + (p.rng.Float64()*2-1)*float64(env.World.TileSize)
			oy := my + (p.rng.Float64()*2-1)*float64(env.World.TileSize)
			ox = clamp(ox, 0, env.World.Width()-1)
			oy = clamp(oy, 0, env.World.Height()-1)
			cid := p.Spawn(ox, oy, child)
			cOrg := p.st.orgMap.Get(p.byID[cid])
			cOrg.ParentA = order.MotherID
			cOrg.ParentB = fatherID
			p.BirthCount++
			p.TotalBirths++
		}

		me = p.byID[order.MotherID]
		mLife = p.st.lifeMap.Get(me)
		mRep = p.st.repMap.Get(me)
		mRep.Pregnant = false
		mRep.GestLeft = 0
		mRep.FatherID = 0
		mRep.FatherGenome = nil
		mRep.Cooldown = p.cfg.BreedCooldown

		// Large litters carry a maternal risk; herbivores only.
		if p.species == components.Herbivore && litter > 1 {
			risk := p.cfg.MaternalRisk * float64(litter-1)
			if p.rng.Float64() < risk {
				mLife.Dead = true
				mLife.Cause = components.CauseChildbirth
			}
		}
	}
}

// litterSize draws the number of offspring. Herbivores sample a normal
// around the litter trait, clamped to 1..4; predators always bear one.
func (p *Population) litterSize(mean float64) int {
	if p.species == components.Predator {
		return 1
	}
	draw := distuv.Normal{Mu: mean, Sigma: 0.75, Src: p.src}.Rand()
	n := int(math.Round(draw))
	if n < 1 {
		n = 1
	}
	if n > 4 {
		n = 4
	}
	return n
}

// gestationFor draws the pregnancy duration: the gestation trait with
// +/-20% jitter, capped by the mother's remaining expected lifespan.
func (p *Population) gestationFor(phen *genetics.Phenotype, age float64) float64 {
	jitter := distuv.Uniform{Min: 0.8, Max: 1.2, Src: p.src}.Rand()
	d := phen.GestationBase * jitter
	remaining := phen.MaxAge - age
	if d > remaining {
		d = remaining
	}
	if d < 1 {
		d = 1
	}
	return d
}

// Cull removes creatures flagged dead during this tick, tallies their
// causes, and drops them from the id index. Collect-then-remove keeps the
// structural change outside the query.
func (p *Population) Cull() {
	type dead struct {
		e     ecs.Entity
		id    uint32
		cause components.DeathCause
	}
	var toRemove []dead

	query := p.st.filter.Query()
	for query.Next() {
		_, _, org, _, life, _, _ := query.Get()
		if org.Species != p.species || !life.Dead {
			continue
		}
		toRemove = append(toRemove, dead{query.Entity(), org.ID, life.Cause})
	}

	for _, d := range toRemove {
		p.DeathCount[d.cause]++
		p.TotalDeaths[d.cause]++
		delete(p.byID, d.id)
		p.st.mapper.Remove(d.e)
	}
}

// ResetCounters clears the per-window birth and death tallies.
func (p *Population) ResetCounters() {
	p.BirthCount = 0
	p.DeathCount = [7]int{}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

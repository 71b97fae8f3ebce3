package systems

import (
	"errors"
	"math"
	"math/rand"

	"github.com/pthm-cable/wilds/config"
	"github.com/pthm-cable/wilds/terrain"
)

// FoodSpecies identifies what kind of plant a node is.
type FoodSpecies uint8

const (
	FoodTree FoodSpecies = iota // forest, edible
	FoodDeadTree                // forest, decorative only
	FoodShrub                   // plains
	FoodTundraTree              // tundra, yield scales with metabolism
	FoodLichen                  // tundra, yield scales with metabolism
	FoodCactus                  // desert, gives thirst, may prick
	NumFoodSpecies
)

func (s FoodSpecies) String() string {
	switch s {
	case FoodTree:
		return "tree"
	case FoodDeadTree:
		return "dead_tree"
	case FoodShrub:
		return "shrub"
	case FoodTundraTree:
		return "tundra_tree"
	case FoodLichen:
		return "lichen"
	case FoodCactus:
		return "cactus"
	}
	return "unknown"
}

// Edible reports whether the species yields food at all.
func (s FoodSpecies) Edible() bool {
	return s != FoodDeadTree
}

var (
	// ErrDepleted is returned when eating from a node with no slots left.
	ErrDepleted = errors.New("food node depleted")
	// ErrInedible is returned when eating from a decorative node.
	ErrInedible = errors.New("food node is not edible")
)

// respawnSoonFrac is the elapsed fraction of the regen delay at which an
// empty node counts as nearly regrown for telemetry.
const respawnSoonFrac = 0.7

// regenEpsilon absorbs float64 rounding in elapsed-time comparisons so a
// slot due exactly at the delay boundary regrows on that tick.
const regenEpsilon = 1e-9

// FoodNode is one plant. Nodes never move and are never removed; a
// depleted node regrows in place.
type FoodNode struct {
	ID         int32
	X, Y       float64
	Species    FoodSpecies
	Slots      int     // remaining bites
	MaxSlots   int
	RegenDelay float64 // seconds after last interaction before a slot regrows
	LastBite   float64 // sim time of last interaction
}

// Meal is what one bite yields.
type Meal struct {
	Hunger float64
	Thirst float64
	Damage float64 // cactus prick
}

// Eater carries the consumer stats that modify a meal.
type Eater struct {
	Metabolism   float64
	Intelligence float64
}

// FoodField owns every food node plus a uniform bucket grid for radius
// queries. It is not part of the ECS; creatures reference nodes by id.
type FoodField struct {
	params config.FoodConfig
	nodes  []FoodNode
	rng    *rand.Rand

	cellSize float64
	cols     int
	rows     int
	buckets  [][]int32
}

// NewFoodField spawns nodes across the world using per-biome probabilities
// and builds the bucket grid.
func NewFoodField(w *terrain.World, params config.FoodConfig, rng *rand.Rand) *FoodField {
	f := &FoodField{
		params:   params,
		rng:      rng,
		cellSize: params.CellSize,
		cols:     int(w.Width()/params.CellSize) + 1,
		rows:     int(w.Height()/params.CellSize) + 1,
	}
	f.buckets = make([][]int32, f.cols*f.rows)

	ts := float64(w.TileSize)
	for ty := 0; ty < w.Rows; ty++ {
		for tx := 0; tx < w.Cols; tx++ {
			species, ok := f.rollSpawn(w.BiomeAt(tx, ty))
			if !ok {
				continue
			}
			// Jitter within the tile so rows of plants don't line up.
			x := (float64(tx) + 0.1 + rng.Float64()*0.8) * ts
			y := (float64(ty) + 0.1 + rng.Float64()*0.8) * ts
			f.addNode(x, y, species)
		}
	}
	return f
}

func (f *FoodField) rollSpawn(b terrain.Biome) (FoodSpecies, bool) {
	sp := f.params.Spawn
	r := f.rng.Float64()
	switch b {
	case terrain.Forest:
		if r < sp.ForestTree {
			return FoodTree, true
		}
		if r < sp.ForestTree+sp.ForestDeadTree {
			return FoodDeadTree, true
		}
	case terrain.Plains:
		if r < sp.PlainsShrub {
			return FoodShrub, true
		}
	case terrain.Tundra:
		if r < sp.TundraTree {
			return FoodTundraTree, true
		}
		if r < sp.TundraTree+sp.TundraLichen {
			return FoodLichen, true
		}
	case terrain.Desert:
		if r < sp.DesertCactus {
			return FoodCactus, true
		}
	}
	return 0, false
}

func (f *FoodField) addNode(x, y float64, species FoodSpecies) {
	id := int32(len(f.nodes))
	delay := f.params.RegenMin + f.rng.Float64()*(f.params.RegenMax-f.params.RegenMin)
	f.nodes = append(f.nodes, FoodNode{
		ID:         id,
		X:          x,
		Y:          y,
		Species:    species,
		Slots:      f.params.MaxSlots,
		MaxSlots:   f.params.MaxSlots,
		RegenDelay: delay,
	})
	b := f.bucketIndex(x, y)
	f.buckets[b] = append(f.buckets[b], id)
}

func (f *FoodField) bucketIndex(x, y float64) int {
	col := int(x / f.cellSize)
	row := int(y / f.cellSize)
	if col < 0 {
		col = 0
	} else if col >= f.cols {
		col = f.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= f.rows {
		row = f.rows - 1
	}
	return row*f.cols + col
}

// Node returns the node with the given id, or nil.
func (f *FoodField) Node(id int32) *FoodNode {
	if id < 0 || int(id) >= len(f.nodes) {
		return nil
	}
	return &f.nodes[id]
}

// Count returns the total number of nodes.
func (f *FoodField) Count() int { return len(f.nodes) }

// AvailableCount returns the number of edible nodes with at least one slot.
func (f *FoodField) AvailableCount() int {
	n := 0
	for i := range f.nodes {
		if f.nodes[i].Slots > 0 && f.nodes[i].Species.Edible() {
			n++
		}
	}
	return n
}

// Tick regrows slots: one slot returns RegenDelay seconds after the last
// interaction, then the clock restarts for the next slot.
func (f *FoodField) Tick(now float64) {
	for i := range f.nodes {
		n := &f.nodes[i]
		if n.Slots >= n.MaxSlots {
			continue
		}
		if now-n.LastBite >= n.RegenDelay-regenEpsilon {
			n.Slots++
			n.LastBite = now
		}
	}
}

// Eat consumes one slot from a node and returns the meal. Tundra species
// yield more to low-metabolism eaters; cacti restore thirst and may prick,
// with smarter eaters pricked less often and less hard.
func (f *FoodField) Eat(id int32, eater Eater, now float64) (Meal, error) {
	n := f.Node(id)
	if n == nil || !n.Species.Edible() {
		return Meal{}, ErrInedible
	}
	if n.Slots <= 0 {
		return Meal{}, ErrDepleted
	}
	n.Slots--
	n.LastBite = now

	var m Meal
	switch n.Species {
	case FoodCactus:
		m.Thirst = f.params.WaterValue
		m.Hunger = f.params.BiteValue * 0.25
		prickChance := 0.8 * (1 - eater.Intelligence)
		if f.rng.Float64() < prickChance {
			m.Damage = f.params.CactusPrick * (1 - eater.Intelligence)
		}
	case FoodLichen, FoodTundraTree:
		// Slow metabolisms extract more from poor forage.
		scale := 2 - eater.Metabolism
		if scale < 0.5 {
			scale = 0.5
		}
		m.Hunger = f.params.BiteValue * scale * 0.75
	default:
		m.Hunger = f.params.BiteValue
	}
	return m, nil
}

// NearestAvailable finds the closest node within maxRadius that satisfies
// pred and has at least one slot, by expanding ring search over buckets.
// Returns -1 if none. A nil pred accepts any edible species.
func (f *FoodField) NearestAvailable(x, y, maxRadius float64, pred func(*FoodNode) bool) int32 {
	if pred == nil {
		pred = func(n *FoodNode) bool { return n.Species.Edible() }
	}
	maxRing := int(maxRadius/f.cellSize) + 1
	centerCol := int(x / f.cellSize)
	centerRow := int(y / f.cellSize)
	maxSq := maxRadius * maxRadius

	best := int32(-1)
	bestSq := math.MaxFloat64
	foundRing := -1

	for ring := 0; ring <= maxRing; ring++ {
		if foundRing >= 0 && ring > foundRing+1 {
			break
		}
		for _, cell := range ringCells(centerCol, centerRow, ring) {
			if cell[0] < 0 || cell[1] < 0 || cell[0] >= f.cols || cell[1] >= f.rows {
				continue
			}
			for _, id := range f.buckets[cell[1]*f.cols+cell[0]] {
				n := &f.nodes[id]
				if n.Slots <= 0 || !pred(n) {
					continue
				}
				dx := n.X - x
				dy := n.Y - y
				dSq := dx*dx + dy*dy
				if dSq <= maxSq && dSq < bestSq {
					best = id
					bestSq = dSq
					if foundRing < 0 {
						foundRing = ring
					}
				}
			}
		}
	}
	return best
}

// ringCells lists bucket coordinates at Chebyshev distance ring.
func ringCells(cx, cy, ring int) [][2]int {
	if ring == 0 {
		return [][2]int{{cx, cy}}
	}
	cells := make([][2]int, 0, 8*ring)
	for dx := -ring; dx <= ring; dx++ {
		cells = append(cells, [2]int{cx + dx, cy - ring}, [2]int{cx + dx, cy + ring})
	}
	for dy := -ring + 1; dy <= ring-1; dy++ {
		cells = append(cells, [2]int{cx - ring, cy + dy}, [2]int{cx + ring, cy + dy})
	}
	return cells
}

// CountBySpecies tallies nodes per species.
func (f *FoodField) CountBySpecies() [NumFoodSpecies]int {
	var counts [NumFoodSpecies]int
	for i := range f.nodes {
		counts[f.nodes[i].Species]++
	}
	return counts
}

// RespawningSoon counts empty nodes that are at least respawnSoonFrac of
// the way through their regen delay.
func (f *FoodField) RespawningSoon(now float64) int {
	count := 0
	for i := range f.nodes {
		n := &f.nodes[i]
		if n.Slots == 0 && now-n.LastBite >= n.RegenDelay*respawnSoonFrac {
			count++
		}
	}
	return count
}

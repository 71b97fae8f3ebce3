// Package terrain generates the tile world: biome layout via constraint
// collapse, water placement from noise potentials, and spatial queries over
// the finished map.
package terrain

// Biome labels one tile of the world.
type Biome uint8

const (
	Plains Biome = iota
	Forest
	Desert
	Tundra
	Water
	numBiomes
)

// landBiomes are the biomes eligible for weighted collapse. Water enters
// the map only through seeding (ponds, rivers).
var landBiomes = [...]Biome{Plains, Forest, Desert, Tundra}

func (b Biome) String() string {
	switch b {
	case Plains:
		return "plains"
	case Forest:
		return "forest"
	case Desert:
		return "desert"
	case Tundra:
		return "tundra"
	case Water:
		return "water"
	}
	return "unknown"
}

// biomeSet is a bitmask of candidate biomes for one uncollapsed cell.
type biomeSet uint8

const fullSet = biomeSet(1<<numBiomes) - 1

func only(b Biome) biomeSet        { return 1 << b }
func (s biomeSet) has(b Biome) bool { return s&(1<<b) != 0 }

func (s biomeSet) count() int {
	n := 0
	for b := Biome(0); b < numBiomes; b++ {
		if s.has(b) {
			n++
		}
	}
	return n
}

// first returns the lowest-numbered biome in the set.
func (s biomeSet) first() Biome {
	for b := Biome(0); b < numBiomes; b++ {
		if s.has(b) {
			return b
		}
	}
	return Plains
}

// adjacency lists, for each biome, the biomes allowed next to it.
// Plains and water border everything; forest and tundra exclude desert;
// desert excludes forest and tundra.
var adjacency = [numBiomes]biomeSet{
	Plains: only(Plains) | only(Forest) | only(Desert) | only(Tundra) | only(Water),
	Forest: only(Plains) | only(Forest) | only(Tundra) | only(Water),
	Desert: only(Plains) | only(Desert) | only(Water),
	Tundra: only(Plains) | only(Forest) | only(Tundra) | only(Water),
	Water:  only(Plains) | only(Forest) | only(Desert) | only(Tundra) | only(Water),
}

// CanNeighbor reports whether two biomes may share a tile edge.
func CanNeighbor(a, b Biome) bool {
	return adjacency[a].has(b)
}

package terrain

// World is a finished, fully-collapsed tile map. Tiles are stored row-major.
type World struct {
	Cols     int
	Rows     int
	TileSize int
	Biomes   []Biome
}

// BiomeAt returns the biome of the tile at (tx, ty). Out-of-range
// coordinates report Water so the map edge behaves like a shoreline.
func (w *World) BiomeAt(tx, ty int) Biome {
	if tx < 0 || ty < 0 || tx >= w.Cols || ty >= w.Rows {
		return Water
	}
	return w.Biomes[ty*w.Cols+tx]
}

// BiomeAtWorld returns the biome under a world-space position.
func (w *World) BiomeAtWorld(x, y float64) Biome {
	return w.BiomeAt(int(x)/w.TileSize, int(y)/w.TileSize)
}

// Width returns the map width in world units.
func (w *World) Width() float64 { return float64(w.Cols * w.TileSize) }

// Height returns the map height in world units.
func (w *World) Height() float64 { return float64(w.Rows * w.TileSize) }

// TileCenter returns the world-space center of a tile.
func (w *World) TileCenter(tx, ty int) (float64, float64) {
	ts := float64(w.TileSize)
	return (float64(tx) + 0.5) * ts, (float64(ty) + 0.5) * ts
}

// CountBiomes tallies tiles per biome.
func (w *World) CountBiomes() [5]int {
	var counts [5]int
	for _, b := range w.Biomes {
		counts[b]++
	}
	return counts
}

package terrain

import "math"

// WaterField answers water queries over a finished world. Positions are in
// world units.
type WaterField struct {
	w *World
}

// NewWaterField wraps a world for water lookups.
func NewWaterField(w *World) *WaterField {
	return &WaterField{w: w}
}

// IsWaterAt reports whether the tile under a position is water.
func (f *WaterField) IsWaterAt(x, y float64) bool {
	return f.w.BiomeAtWorld(x, y) == Water
}

// IsWaterNear reports whether any water tile lies within radius of the
// position.
func (f *WaterField) IsWaterNear(x, y, radius float64) bool {
	_, _, ok := f.NearestWater(x, y, radius)
	return ok
}

// NearestWater finds the closest water tile center within maxRadius using
// an expanding ring scan. Returns the tile center and whether one was found.
func (f *WaterField) NearestWater(x, y, maxRadius float64) (wx, wy float64, ok bool) {
	ts := float64(f.w.TileSize)
	ctx := int(x / ts)
	cty := int(y / ts)
	maxRing := int(maxRadius/ts) + 1

	bestSq := maxRadius * maxRadius
	foundRing := -1
	for ring := 0; ring <= maxRing; ring++ {
		// One extra ring after the first hit: a diagonal tile in ring r can
		// be farther than an orthogonal tile in ring r+1.
		if foundRing >= 0 && ring > foundRing+1 {
			break
		}
		for _, t := range ringTiles(ctx, cty, ring) {
			// Edge tiles read as water but have no reachable center.
			if t[0] < 0 || t[1] < 0 || t[0] >= f.w.Cols || t[1] >= f.w.Rows {
				continue
			}
			if f.w.BiomeAt(t[0], t[1]) != Water {
				continue
			}
			cx, cy := f.w.TileCenter(t[0], t[1])
			dSq := (cx-x)*(cx-x) + (cy-y)*(cy-y)
			if dSq <= bestSq {
				bestSq = dSq
				wx, wy = cx, cy
				if foundRing < 0 {
					foundRing = ring
				}
			}
		}
	}
	if foundRing >= 0 {
		return wx, wy, true
	}
	return 0, 0, false
}

// LandAhead walks along a heading and returns the center of the first land
// tile within maxDist, for creatures steering around or across water.
func (f *WaterField) LandAhead(x, y, heading, maxDist float64) (lx, ly float64, ok bool) {
	ts := float64(f.w.TileSize)
	dx := math.Cos(heading)
	dy := math.Sin(heading)
	for d := ts; d <= maxDist; d += ts / 2 {
		px := x + dx*d
		py := y + dy*d
		tx := int(math.Floor(px / ts))
		ty := int(math.Floor(py / ts))
		if tx < 0 || ty < 0 || tx >= f.w.Cols || ty >= f.w.Rows {
			return 0, 0, false
		}
		if f.w.BiomeAt(tx, ty) != Water {
			cx, cy := f.w.TileCenter(tx, ty)
			return cx, cy, true
		}
	}
	return 0, 0, false
}

// ringTiles lists the tiles at Chebyshev distance ring from the center.
func ringTiles(cx, cy, ring int) [][2]int {
	if ring == 0 {
		return [][2]int{{cx, cy}}
	}
	tiles := make([][2]int, 0, 8*ring)
	for dx := -ring; dx <= ring; dx++ {
		tiles = append(tiles, [2]int{cx + dx, cy - ring}, [2]int{cx + dx, cy + ring})
	}
	for dy := -ring + 1; dy <= ring-1; dy++ {
		tiles = append(tiles, [2]int{cx - ring, cy + dy}, [2]int{cx + ring, cy + dy})
	}
	return tiles
}

package terrain

import (
	"math"
	"testing"
)

// stripeWorld builds a small map by hand: water in the middle column,
// plains everywhere else. TileSize 10 keeps coordinates easy to read.
func stripeWorld() *World {
	w := &World{Cols: 9, Rows: 9, TileSize: 10, Biomes: make([]Biome, 81)}
	for ty := 0; ty < 9; ty++ {
		w.Biomes[ty*9+4] = Water
	}
	return w
}

func TestIsWaterAt(t *testing.T) {
	f := NewWaterField(stripeWorld())
	if !f.IsWaterAt(45, 45) {
		t.Error("center of water column should be water")
	}
	if f.IsWaterAt(15, 45) {
		t.Error("plains tile reported as water")
	}
}

func TestNearestWater(t *testing.T) {
	f := NewWaterField(stripeWorld())
	wx, wy, ok := f.NearestWater(15, 45, 100)
	if !ok {
		t.Fatal("no water found within radius")
	}
	if wx != 45 || wy != 45 {
		t.Errorf("nearest water at (%g, %g), want (45, 45)", wx, wy)
	}

	// Radius too small to reach the column.
	if _, _, ok := f.NearestWater(5, 45, 15); ok {
		t.Error("found water beyond the search radius")
	}
}

func TestIsWaterNear(t *testing.T) {
	f := NewWaterField(stripeWorld())
	if !f.IsWaterNear(35, 45, 15) {
		t.Error("water column within radius not detected")
	}
	if f.IsWaterNear(5, 45, 15) {
		t.Error("detected water outside radius")
	}
}

func TestLandAhead(t *testing.T) {
	f := NewWaterField(stripeWorld())
	// Standing just west of the water column, heading east: first land is
	// on the far bank.
	lx, _, ok := f.LandAhead(38, 45, 0, 100)
	if !ok {
		t.Fatal("no land found across the water column")
	}
	if lx < 50 {
		t.Errorf("land ahead at x=%g, want far bank (>= 50)", lx)
	}

	// Heading straight off the map edge finds nothing.
	if _, _, ok := f.LandAhead(5, 45, math.Pi, 100); ok {
		t.Error("found land beyond the map edge")
	}
}

func TestBiomeAtOutOfRangeIsWater(t *testing.T) {
	w := stripeWorld()
	if w.BiomeAt(-1, 0) != Water || w.BiomeAt(0, 99) != Water {
		t.Error("out-of-range tiles should read as water")
	}
}

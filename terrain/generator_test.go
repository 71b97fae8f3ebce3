package terrain

import (
	"math"
	"math/rand"
	"testing"
)

func defaultSettings() Settings {
	return Settings{
		BiomeScale:  4,
		TileSize:    32,
		PondChance:  20,
		RiverChance: 60,
		RiverWidth:  2,
		Weights:     [4]float64{40, 25, 20, 15},
	}
}

func generate(t *testing.T, seed int64, set Settings, cols, rows int) *World {
	t.Helper()
	g, err := NewGenerator(cols, rows, set, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return g.Generate(nil)
}

func TestGenerateAllCellsCollapsed(t *testing.T) {
	w := generate(t, 1, defaultSettings(), 96, 72)
	if len(w.Biomes) != 96*72 {
		t.Fatalf("biome grid has %d tiles, want %d", len(w.Biomes), 96*72)
	}
	for i, b := range w.Biomes {
		if b >= numBiomes {
			t.Fatalf("tile %d has invalid biome %d", i, b)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := generate(t, 42, defaultSettings(), 64, 48)
	b := generate(t, 42, defaultSettings(), 64, 48)
	for i := range a.Biomes {
		if a.Biomes[i] != b.Biomes[i] {
			t.Fatalf("tile %d differs between identical seeds: %v vs %v", i, a.Biomes[i], b.Biomes[i])
		}
	}
}

func TestGenerateDifferentSeedsDiffer(t *testing.T) {
	a := generate(t, 1, defaultSettings(), 64, 48)
	b := generate(t, 2, defaultSettings(), 64, 48)
	same := 0
	for i := range a.Biomes {
		if a.Biomes[i] == b.Biomes[i] {
			same++
		}
	}
	if same == len(a.Biomes) {
		t.Fatal("different seeds produced identical maps")
	}
}

func TestAdjacencySymmetric(t *testing.T) {
	for a := Biome(0); a < numBiomes; a++ {
		for b := Biome(0); b < numBiomes; b++ {
			if CanNeighbor(a, b) != CanNeighbor(b, a) {
				t.Errorf("adjacency asymmetric for %v/%v", a, b)
			}
		}
	}
}

func TestGeneratedMapRespectsAdjacency(t *testing.T) {
	// River carving can only add water, which borders everything, so the
	// finished tile grid must be adjacency-legal everywhere.
	w := generate(t, 7, defaultSettings(), 96, 72)
	for ty := 0; ty < w.Rows; ty++ {
		for tx := 0; tx < w.Cols; tx++ {
			b := w.BiomeAt(tx, ty)
			if tx+1 < w.Cols && !CanNeighbor(b, w.BiomeAt(tx+1, ty)) {
				t.Fatalf("illegal pair %v/%v at (%d,%d)", b, w.BiomeAt(tx+1, ty), tx, ty)
			}
			if ty+1 < w.Rows && !CanNeighbor(b, w.BiomeAt(tx, ty+1)) {
				t.Fatalf("illegal pair %v/%v at (%d,%d)", b, w.BiomeAt(tx, ty+1), tx, ty)
			}
		}
	}
}

func TestNormalizeWeights(t *testing.T) {
	cases := []struct {
		name string
		in   [4]float64
		want [4]float64
	}{
		{"defaults", [4]float64{40, 25, 20, 15}, [4]float64{0.40, 0.25, 0.20, 0.15}},
		{"negative clamped", [4]float64{-10, 0, 0, 10}, [4]float64{0, 0, 0, 1}},
		{"all zero falls back", [4]float64{0, 0, 0, 0}, [4]float64{0.25, 0.25, 0.25, 0.25}},
		{"all negative falls back", [4]float64{-1, -2, -3, -4}, [4]float64{0.25, 0.25, 0.25, 0.25}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := normalizeWeights(c.in)
			for i := range got {
				if math.Abs(got[i]-c.want[i]) > 1e-9 {
					t.Errorf("weight %d = %g, want %g", i, got[i], c.want[i])
				}
			}
		})
	}
}

func TestSettingsValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults ok", func(s *Settings) {}, false},
		{"scale too low", func(s *Settings) { s.BiomeScale = 0 }, true},
		{"scale too high", func(s *Settings) { s.BiomeScale = 11 }, true},
		{"zero tile size", func(s *Settings) { s.TileSize = 0 }, true},
		{"zero river width", func(s *Settings) { s.RiverWidth = 0 }, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := defaultSettings()
			c.mutate(&s)
			err := s.Validate()
			if (err != nil) != c.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestNoWaterWhenChancesZero(t *testing.T) {
	set := defaultSettings()
	set.PondChance = 0
	set.RiverChance = 0
	w := generate(t, 5, set, 64, 48)
	if n := w.CountBiomes()[Water]; n != 0 {
		t.Errorf("map has %d water tiles with pond and river chances zero", n)
	}
}

func TestNewGeneratorRejectsEmptyMap(t *testing.T) {
	_, err := NewGenerator(0, 10, defaultSettings(), rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("expected error for zero-width map")
	}
}

func TestRiverAlwaysWhenCertain(t *testing.T) {
	set := defaultSettings()
	set.RiverChance = 100
	set.PondChance = 0
	w := generate(t, 3, set, 96, 72)
	if w.CountBiomes()[Water] == 0 {
		t.Fatal("river chance 100 produced no water")
	}
}

func TestProgressReported(t *testing.T) {
	stages := map[string]bool{}
	g, err := NewGenerator(64, 48, defaultSettings(), rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	g.Generate(func(stage string, done, total int) {
		stages[stage] = true
		if done > total {
			t.Errorf("stage %s reported done %d > total %d", stage, done, total)
		}
	})
	for _, want := range []string{"seed", "collapse", "filter", "river", "done"} {
		if !stages[want] {
			t.Errorf("stage %q never reported", want)
		}
	}
}

package sim

import "testing"

func TestWindowStatsCompositionAndTraitMeans(t *testing.T) {
	s, err := New(smallConfig(t), 11, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Run(120)
	stats := s.windowStats()

	if stats.HerbCount != s.Herbivores().Count() {
		t.Errorf("herb count = %d, want %d", stats.HerbCount, s.Herbivores().Count())
	}
	if stats.HerbFemales < 0 || stats.HerbFemales > stats.HerbCount {
		t.Errorf("herb females = %d outside 0..%d", stats.HerbFemales, stats.HerbCount)
	}
	if stats.PredFemales < 0 || stats.PredFemales > stats.PredCount {
		t.Errorf("pred females = %d outside 0..%d", stats.PredFemales, stats.PredCount)
	}
	if stats.HerbSeekFood+stats.HerbSeekMate > stats.HerbCount {
		t.Errorf("herb activity %d+%d exceeds population %d",
			stats.HerbSeekFood, stats.HerbSeekMate, stats.HerbCount)
	}
	if stats.PredSeekFood+stats.PredSeekMate > stats.PredCount {
		t.Errorf("pred activity %d+%d exceeds population %d",
			stats.PredSeekFood, stats.PredSeekMate, stats.PredCount)
	}

	// Trait means sit inside each schema's output range.
	if stats.HerbCount > 0 {
		if stats.HerbSpeedMean < 0.5 || stats.HerbSpeedMean > 2.0 {
			t.Errorf("herb speed mean = %v outside [0.5, 2.0]", stats.HerbSpeedMean)
		}
		if stats.HerbVisionMean < 30 || stats.HerbVisionMean > 120 {
			t.Errorf("herb vision mean = %v outside [30, 120]", stats.HerbVisionMean)
		}
		if stats.HerbSizeMean < 0.6 || stats.HerbSizeMean > 1.4 {
			t.Errorf("herb size mean = %v outside [0.6, 1.4]", stats.HerbSizeMean)
		}
	}
	if stats.PredCount > 0 {
		if stats.PredSpeedMean < 0.7 || stats.PredSpeedMean > 2.2 {
			t.Errorf("pred speed mean = %v outside [0.7, 2.2]", stats.PredSpeedMean)
		}
		if stats.PredSizeMean < 0.8 || stats.PredSizeMean > 1.6 {
			t.Errorf("pred size mean = %v outside [0.8, 1.6]", stats.PredSizeMean)
		}
	}
}

// Package telemetry aggregates windowed simulation statistics and writes
// them as CSV per run.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowEndTick int64   `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	// Population counts at window end
	HerbCount int `csv:"herbivores"`
	PredCount int `csv:"predators"`

	// Events during window
	HerbBirths int `csv:"herb_births"`
	PredBirths int `csv:"pred_births"`
	HerbDeaths int `csv:"herb_deaths"`
	PredDeaths int `csv:"pred_deaths"`

	// Death causes during window (both species)
	Starved    int `csv:"deaths_starved"`
	Dehydrated int `csv:"deaths_dehydrated"`
	OldAge     int `csv:"deaths_old_age"`
	Predation  int `csv:"deaths_predation"`
	Combat     int `csv:"deaths_combat"`
	Childbirth int `csv:"deaths_childbirth"`

	// Herbivore need distribution (sampled at window end)
	HerbHungerMean float64 `csv:"herb_hunger_mean"`
	HerbHungerP50  float64 `csv:"herb_hunger_p50"`
	HerbHungerP95  float64 `csv:"herb_hunger_p95"`
	HerbHealthMean float64 `csv:"herb_health_mean"`
	HerbAgeMean    float64 `csv:"herb_age_mean"`
	HerbAgeStd     float64 `csv:"herb_age_std"`

	// Predator need distribution
	PredHungerMean float64 `csv:"pred_hunger_mean"`
	PredHealthMean float64 `csv:"pred_health_mean"`
	PredAgeMean    float64 `csv:"pred_age_mean"`

	// Per-species composition and activity (sampled at window end)
	HerbFemales    int     `csv:"herb_females"`
	HerbSeekFood   int     `csv:"herb_seek_food"`
	HerbSeekMate   int     `csv:"herb_seek_mate"`
	HerbSpeedMean  float64 `csv:"herb_speed_mean"`
	HerbVisionMean float64 `csv:"herb_vision_mean"`
	HerbSizeMean   float64 `csv:"herb_size_mean"`
	PredFemales    int     `csv:"pred_females"`
	PredSeekFood   int     `csv:"pred_seek_food"`
	PredSeekMate   int     `csv:"pred_seek_mate"`
	PredSpeedMean  float64 `csv:"pred_speed_mean"`
	PredSizeMean   float64 `csv:"pred_size_mean"`

	// Food field
	FoodNodes      int `csv:"food_nodes"`
	FoodAvailable  int `csv:"food_available"`
	RespawningSoon int `csv:"food_respawning_soon"`
	Pregnancies    int `csv:"pregnancies"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Summary holds mean, stddev and two percentiles of one sampled meter.
type Summary struct {
	Mean float64
	Std  float64
	P50  float64
	P95  float64
}

// Summarize computes the summary of a value slice. The input is not
// modified.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Mean: stat.Mean(sorted, nil),
		P50:  Percentile(sorted, 0.50),
		P95:  Percentile(sorted, 0.95),
	}
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	return s
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"herbivores", s.HerbCount,
		"predators", s.PredCount,
		"herb_births", s.HerbBirths,
		"pred_births", s.PredBirths,
		"herb_deaths", s.HerbDeaths,
		"pred_deaths", s.PredDeaths,
		"deaths_starved", s.Starved,
		"deaths_dehydrated", s.Dehydrated,
		"deaths_old_age", s.OldAge,
		"deaths_predation", s.Predation,
		"deaths_combat", s.Combat,
		"deaths_childbirth", s.Childbirth,
		"herb_hunger_mean", s.HerbHungerMean,
		"pred_hunger_mean", s.PredHungerMean,
		"herb_females", s.HerbFemales,
		"herb_seek_food", s.HerbSeekFood,
		"herb_seek_mate", s.HerbSeekMate,
		"food_available", s.FoodAvailable,
		"food_respawning_soon", s.RespawningSoon,
		"pregnancies", s.Pregnancies,
	)
}

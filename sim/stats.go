package sim

import (
	"github.com/pthm-cable/wilds/components"
	"github.com/pthm-cable/wilds/telemetry"
)

// meterSample holds the per-creature values gathered at window end.
type meterSample struct {
	hunger []float64
	health []float64
	age    []float64
	speed  []float64
	vision []float64
	size   []float64

	females  int
	seekFood int
	seekMate int
}

// windowStats samples both populations and builds the window record.
func (s *Simulation) windowStats() telemetry.WindowStats {
	var herb, pred meterSample
	pregnancies := 0

	query := s.st.filter.Query()
	for query.Next() {
		_, _, org, needs, life, rep, beh := query.Get()
		if life.Dead {
			continue
		}
		sample := &herb
		if org.Species == components.Predator {
			sample = &pred
		}
		sample.hunger = append(sample.hunger, needs.Hunger)
		sample.health = append(sample.health, needs.Health)
		sample.age = append(sample.age, life.Age)
		sample.speed = append(sample.speed, org.Phen.Speed)
		sample.vision = append(sample.vision, org.Phen.Vision)
		sample.size = append(sample.size, org.Phen.Size)
		if org.Sex == components.Female {
			sample.females++
		}
		switch beh.State {
		case components.StateSeekFood, components.StateHunt:
			sample.seekFood++
		case components.StateSeekMate, components.StateCourting:
			sample.seekMate++
		}
		if rep.Pregnant {
			pregnancies++
		}
	}

	herbSum := telemetry.Summarize(herb.hunger)
	herbHealth := telemetry.Summarize(herb.health)
	herbAge := telemetry.Summarize(herb.age)
	predSum := telemetry.Summarize(pred.hunger)
	predHealth := telemetry.Summarize(pred.health)
	predAge := telemetry.Summarize(pred.age)

	hd := s.herbivores.DeathCount
	pd := s.predators.DeathCount
	totalDeaths := func(c [7]int) int {
		n := 0
		for _, v := range c {
			n += v
		}
		return n
	}

	total := s.food.Count()
	available := s.food.AvailableCount()

	return telemetry.WindowStats{
		WindowEndTick: s.tick,
		SimTimeSec:    s.Now(),

		HerbCount: s.herbivores.Count(),
		PredCount: s.predators.Count(),

		HerbBirths: s.herbivores.BirthCount,
		PredBirths: s.predators.BirthCount,
		HerbDeaths: totalDeaths(hd),
		PredDeaths: totalDeaths(pd),

		Starved:    hd[components.CauseStarvation] + pd[components.CauseStarvation],
		Dehydrated: hd[components.CauseDehydration] + pd[components.CauseDehydration],
		OldAge:     hd[components.CauseOldAge] + pd[components.CauseOldAge],
		Predation:  hd[components.CausePredation] + pd[components.CausePredation],
		Combat:     hd[components.CauseCombat] + pd[components.CauseCombat],
		Childbirth: hd[components.CauseChildbirth] + pd[components.CauseChildbirth],

		HerbHungerMean: herbSum.Mean,
		HerbHungerP50:  herbSum.P50,
		HerbHungerP95:  herbSum.P95,
		HerbHealthMean: herbHealth.Mean,
		HerbAgeMean:    herbAge.Mean,
		HerbAgeStd:     herbAge.Std,

		PredHungerMean: predSum.Mean,
		PredHealthMean: predHealth.Mean,
		PredAgeMean:    predAge.Mean,

		HerbFemales:    herb.females,
		HerbSeekFood:   herb.seekFood,
		HerbSeekMate:   herb.seekMate,
		HerbSpeedMean:  telemetry.Summarize(herb.speed).Mean,
		HerbVisionMean: telemetry.Summarize(herb.vision).Mean,
		HerbSizeMean:   telemetry.Summarize(herb.size).Mean,
		PredFemales:    pred.females,
		PredSeekFood:   pred.seekFood,
		PredSeekMate:   pred.seekMate,
		PredSpeedMean:  telemetry.Summarize(pred.speed).Mean,
		PredSizeMean:   telemetry.Summarize(pred.size).Mean,

		FoodNodes:      total,
		FoodAvailable:  available,
		RespawningSoon: s.food.RespawningSoon(s.Now()),
		Pregnancies:    pregnancies,
	}
}

// flushStats writes the window record and resets the window counters.
func (s *Simulation) flushStats() {
	stats := s.windowStats()
	stats.LogStats()
	if s.out != nil {
		if err := s.out.WriteTelemetry(stats); err != nil {
			Logf("telemetry write failed: %v", err)
		}
	}

	s.herbivores.ResetCounters()
	s.predators.ResetCounters()
}

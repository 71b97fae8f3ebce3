package genetics

import (
	"math"
	"math/rand"
	"testing"
)

func testEngine(seed int64) *Engine {
	mut := MutationParams{Rate: 0.1, Magnitude: 0.25, AlleleRate: 0.05}
	return NewEngine(HerbivoreSchema(), mut, rand.New(rand.NewSource(seed)))
}

func TestRandomGenomeWithinBounds(t *testing.T) {
	e := testEngine(1)
	for trial := 0; trial < 20; trial++ {
		g := e.RandomGenome()
		for i, tr := range e.Schema().Polygenic {
			for _, l := range g.Loci[i] {
				if l.M < tr.Lo || l.M > tr.Hi || l.P < tr.Lo || l.P > tr.Hi {
					t.Fatalf("trait %s: allele out of bounds: %+v", tr.Name, l)
				}
			}
		}
		for i, tr := range e.Schema().Discrete {
			for _, a := range g.Discrete[i] {
				if int(a) >= len(tr.Alleles) {
					t.Fatalf("trait %s: allele index %d out of range", tr.Name, a)
				}
			}
		}
	}
}

func TestExpressIsPure(t *testing.T) {
	e := testEngine(2)
	g := e.RandomGenome()
	a := e.Express(g)
	b := e.Express(g)
	if a.Speed != b.Speed || a.Vision != b.Vision || a.Color != b.Color {
		t.Fatalf("expression not deterministic: %+v vs %+v", a, b)
	}
	for name, val := range a.Traits {
		if b.Traits[name] != val {
			t.Fatalf("discrete trait %s differs: %s vs %s", name, val, b.Traits[name])
		}
	}
}

func TestExpressClampsToOutputRange(t *testing.T) {
	e := testEngine(3)
	for trial := 0; trial < 50; trial++ {
		p := e.Express(e.RandomGenome())
		checks := []struct {
			name   string
			val    float64
			lo, hi float64
		}{
			{"speed", p.Speed, 0.5, 2.0},
			{"vision", p.Vision, 30, 120},
			{"awareness", p.Awareness, 0.4, 0.95},
			{"aggression", p.Aggression, 0, 0.5},
			{"attractiveness", p.Attractiveness, 0.3, 1.0},
			{"attract_threshold", p.AttractThreshold, 0.2, 1.0},
			{"gestation", p.GestationBase, 30, 60},
			{"litter", p.LitterMean, 1, 5},
			{"max_age", p.MaxAge, 120, 360},
		}
		for _, c := range checks {
			if c.val < c.lo || c.val > c.hi {
				t.Fatalf("%s = %g outside [%g, %g]", c.name, c.val, c.lo, c.hi)
			}
		}
	}
}

func TestExpressExtremeGenomes(t *testing.T) {
	e := testEngine(4)
	g := e.RandomGenome()
	// Force every allele to the locus maximum: phenotype must sit at OutHi.
	for i, tr := range e.Schema().Polygenic {
		for l := range g.Loci[i] {
			g.Loci[i][l] = Locus{M: tr.Hi, P: tr.Hi}
		}
	}
	p := e.Express(g)
	if math.Abs(p.Speed-2.0) > 1e-9 {
		t.Errorf("max genome speed = %g, want 2.0", p.Speed)
	}
	if math.Abs(p.Vision-120) > 1e-9 {
		t.Errorf("max genome vision = %g, want 120", p.Vision)
	}
	if p.Color != [3]uint8{255, 255, 255} {
		t.Errorf("max genome color = %v, want 255,255,255", p.Color)
	}
}

func TestInheritAllelesComeFromParents(t *testing.T) {
	// Zero mutation: every child allele must be one of the parent's pair.
	e := NewEngine(HerbivoreSchema(), MutationParams{}, rand.New(rand.NewSource(5)))
	mother := e.RandomGenome()
	father := e.RandomGenome()

	for trial := 0; trial < 10; trial++ {
		child := e.Inherit(mother, father)
		for i := range e.Schema().Polygenic {
			for l, locus := range child.Loci[i] {
				m := mother.Loci[i][l]
				f := father.Loci[i][l]
				if locus.M != m.M && locus.M != m.P {
					t.Fatalf("trait %d locus %d: maternal allele %g not in mother %+v", i, l, locus.M, m)
				}
				if locus.P != f.M && locus.P != f.P {
					t.Fatalf("trait %d locus %d: paternal allele %g not in father %+v", i, l, locus.P, f)
				}
			}
		}
		for i := range e.Schema().Discrete {
			m, f := mother.Discrete[i], father.Discrete[i]
			c := child.Discrete[i]
			if c[0] != m[0] && c[0] != m[1] {
				t.Fatalf("discrete %d: maternal index %d not in mother %v", i, c[0], m)
			}
			if c[1] != f[0] && c[1] != f[1] {
				t.Fatalf("discrete %d: paternal index %d not in father %v", i, c[1], f)
			}
		}
	}
}

func TestInheritMutationStaysInBounds(t *testing.T) {
	e := NewEngine(HerbivoreSchema(), MutationParams{Rate: 1, Magnitude: 1, AlleleRate: 1},
		rand.New(rand.NewSource(6)))
	mother := e.RandomGenome()
	father := e.RandomGenome()
	for trial := 0; trial < 20; trial++ {
		child := e.Inherit(mother, father)
		for i, tr := range e.Schema().Polygenic {
			for _, l := range child.Loci[i] {
				if l.M < tr.Lo || l.M > tr.Hi || l.P < tr.Lo || l.P > tr.Hi {
					t.Fatalf("trait %s: mutated allele out of bounds: %+v", tr.Name, l)
				}
			}
		}
		for i, tr := range e.Schema().Discrete {
			for _, idx := range child.Discrete[i] {
				if int(idx) >= len(tr.Alleles) {
					t.Fatalf("trait %s: allele index %d out of range", tr.Name, idx)
				}
			}
		}
	}
}

func TestDiscreteMutationShiftsOneStep(t *testing.T) {
	// Allele mutation moves a single slot by at most one dominance step.
	e := NewEngine(HerbivoreSchema(), MutationParams{AlleleRate: 1},
		rand.New(rand.NewSource(9)))
	mother := e.RandomGenome()
	father := e.RandomGenome()
	near := func(got uint8, pair [2]uint8) bool {
		for _, p := range pair {
			d := int(got) - int(p)
			if d >= -1 && d <= 1 {
				return true
			}
		}
		return false
	}
	for trial := 0; trial < 20; trial++ {
		child := e.Inherit(mother, father)
		for i := range e.Schema().Discrete {
			if !near(child.Discrete[i][0], mother.Discrete[i]) {
				t.Fatalf("discrete %d: maternal index %d more than one step from %v",
					i, child.Discrete[i][0], mother.Discrete[i])
			}
			if !near(child.Discrete[i][1], father.Discrete[i]) {
				t.Fatalf("discrete %d: paternal index %d more than one step from %v",
					i, child.Discrete[i][1], father.Discrete[i])
			}
		}
	}
}

func TestDominanceByAlleleOrder(t *testing.T) {
	e := testEngine(7)
	g := e.RandomGenome()
	idx, ok := e.Schema().DiscreteIndex("pattern")
	if !ok {
		t.Fatal("herbivore schema has no pattern trait")
	}
	cases := []struct {
		pair [2]uint8
		want string
	}{
		{[2]uint8{0, 2}, "striped"},
		{[2]uint8{2, 0}, "striped"},
		{[2]uint8{0, 1}, "spotted"},
		{[2]uint8{0, 0}, "plain"},
	}
	for _, c := range cases {
		g.Discrete[idx] = c.pair
		p := e.Express(g)
		if p.Traits["pattern"] != c.want {
			t.Errorf("pair %v: pattern = %s, want %s", c.pair, p.Traits["pattern"], c.want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	e := testEngine(8)
	g := e.RandomGenome()
	c := g.Clone()
	c.Loci[0][0].M = -99
	c.Discrete[0][0] = 9
	if g.Loci[0][0].M == -99 {
		t.Error("clone shares polygenic storage with original")
	}
	if g.Discrete[0][0] == 9 {
		t.Error("clone shares discrete storage with original")
	}
}

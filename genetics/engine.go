package genetics

import (
	"math"
	"math/rand"
)

// Canonical polygenic trait names every species schema must provide.
// Express resolves them once at engine construction.
const (
	TraitSpeed            = "speed"
	TraitVision           = "vision"
	TraitSize             = "size"
	TraitMaxHealth        = "max_health"
	TraitAttack           = "attack"
	TraitDefense          = "defense"
	TraitAccuracy         = "accuracy"
	TraitAwareness        = "awareness"
	TraitAggression       = "aggression"
	TraitIntelligence     = "intelligence"
	TraitSwim             = "swim"
	TraitMetabolism       = "metabolism"
	TraitAttractiveness   = "attractiveness"
	TraitAttractThreshold = "attract_threshold"
	TraitGestation        = "gestation"
	TraitLitter           = "litter"
	TraitMaxAge           = "max_age"
	TraitColorR           = "color_r"
	TraitColorG           = "color_g"
	TraitColorB           = "color_b"
)

// MutationParams control inheritance noise.
type MutationParams struct {
	Rate       float64 // Per-allele chance of a polygenic perturbation
	Magnitude  float64 // Perturbation size as a fraction of the locus range
	AlleleRate float64 // Per-trait chance of re-drawing one discrete allele
}

// Phenotype is the expressed form of a genome. Expression is pure: the same
// genome always yields the same phenotype.
type Phenotype struct {
	Speed            float64
	Vision           float64
	Size             float64
	MaxHealth        float64
	Attack           float64
	Defense          float64
	Accuracy         float64
	Awareness        float64
	Aggression       float64
	Intelligence     float64
	Swim             float64
	Metabolism       float64
	Attractiveness   float64
	AttractThreshold float64
	GestationBase    float64
	LitterMean       float64
	MaxAge           float64
	Color            [3]uint8
	Traits           map[string]string // discrete trait name -> dominant allele
}

// phenoIndex caches schema positions of the canonical traits.
type phenoIndex struct {
	speed, vision, size, maxHealth   int
	attack, defense, accuracy        int
	awareness, aggression            int
	intelligence, swim, metabolism   int
	attractiveness, attractThreshold int
	gestation, litter, maxAge        int
	colorR, colorG, colorB           int
}

// Engine performs genome creation, inheritance and expression for one
// species schema. All randomness comes from the injected source.
type Engine struct {
	schema *Schema
	mut    MutationParams
	rng    *rand.Rand
	idx    phenoIndex
}

// NewEngine builds an engine over the given schema. Panics if the schema is
// missing any canonical trait.
func NewEngine(schema *Schema, mut MutationParams, rng *rand.Rand) *Engine {
	return &Engine{
		schema: schema,
		mut:    mut,
		rng:    rng,
		idx: phenoIndex{
			speed:            schema.mustPolyIndex(TraitSpeed),
			vision:           schema.mustPolyIndex(TraitVision),
			size:             schema.mustPolyIndex(TraitSize),
			maxHealth:        schema.mustPolyIndex(TraitMaxHealth),
			attack:           schema.mustPolyIndex(TraitAttack),
			defense:          schema.mustPolyIndex(TraitDefense),
			accuracy:         schema.mustPolyIndex(TraitAccuracy),
			awareness:        schema.mustPolyIndex(TraitAwareness),
			aggression:       schema.mustPolyIndex(TraitAggression),
			intelligence:     schema.mustPolyIndex(TraitIntelligence),
			swim:             schema.mustPolyIndex(TraitSwim),
			metabolism:       schema.mustPolyIndex(TraitMetabolism),
			attractiveness:   schema.mustPolyIndex(TraitAttractiveness),
			attractThreshold: schema.mustPolyIndex(TraitAttractThreshold),
			gestation:        schema.mustPolyIndex(TraitGestation),
			litter:           schema.mustPolyIndex(TraitLitter),
			maxAge:           schema.mustPolyIndex(TraitMaxAge),
			colorR:           schema.mustPolyIndex(TraitColorR),
			colorG:           schema.mustPolyIndex(TraitColorG),
			colorB:           schema.mustPolyIndex(TraitColorB),
		},
	}
}

// Schema returns the engine's trait schema.
func (e *Engine) Schema() *Schema { return e.schema }

// RandomGenome draws a fresh genome with uniform alleles within each locus
// range and uniform discrete allele indices.
func (e *Engine) RandomGenome() *Genome {
	g := &Genome{
		Loci:     make([][]Locus, len(e.schema.Polygenic)),
		Discrete: make([][2]uint8, len(e.schema.Discrete)),
	}
	for i, t := range e.schema.Polygenic {
		loci := make([]Locus, t.Loci)
		for l := range loci {
			loci[l] = Locus{
				M: t.Lo + e.rng.Float64()*(t.Hi-t.Lo),
				P: t.Lo + e.rng.Float64()*(t.Hi-t.Lo),
			}
		}
		g.Loci[i] = loci
	}
	for i, t := range e.schema.Discrete {
		n := len(t.Alleles)
		g.Discrete[i] = [2]uint8{uint8(e.rng.Intn(n)), uint8(e.rng.Intn(n))}
	}
	return g
}

// Inherit produces a child genome from a mother and father. Each locus takes
// one allele from each parent (either of the parent's pair, chosen at
// random), then mutates with the configured rate. Discrete traits inherit
// one allele index from each parent and occasionally shift one a step
// along the dominance order.
func (e *Engine) Inherit(mother, father *Genome) *Genome {
	child := &Genome{
		Loci:     make([][]Locus, len(e.schema.Polygenic)),
		Discrete: make([][2]uint8, len(e.schema.Discrete)),
	}
	for i, t := range e.schema.Polygenic {
		loci := make([]Locus, t.Loci)
		for l := range loci {
			loci[l] = Locus{
				M: e.pickAllele(mother.Loci[i][l]),
				P: e.pickAllele(father.Loci[i][l]),
			}
			if e.rng.Float64() < e.mut.Rate {
				loci[l].M = e.perturb(loci[l].M, t)
			}
			if e.rng.Float64() < e.mut.Rate {
				loci[l].P = e.perturb(loci[l].P, t)
			}
		}
		child.Loci[i] = loci
	}
	for i, t := range e.schema.Discrete {
		child.Discrete[i] = [2]uint8{
			mother.Discrete[i][e.rng.Intn(2)],
			father.Discrete[i][e.rng.Intn(2)],
		}
		if e.rng.Float64() < e.mut.AlleleRate {
			slot := e.rng.Intn(2)
			idx := int(child.Discrete[i][slot])
			if e.rng.Intn(2) == 0 {
				idx--
			} else {
				idx++
			}
			if idx < 0 {
				idx = 0
			}
			if idx > len(t.Alleles)-1 {
				idx = len(t.Alleles) - 1
			}
			child.Discrete[i][slot] = uint8(idx)
		}
	}
	return child
}

func (e *Engine) pickAllele(l Locus) float64 {
	if e.rng.Intn(2) == 0 {
		return l.M
	}
	return l.P
}

func (e *Engine) perturb(v float64, t PolygenicTrait) float64 {
	span := t.Hi - t.Lo
	v += (e.rng.Float64()*2 - 1) * e.mut.Magnitude * span
	return clamp(v, t.Lo, t.Hi)
}

// Express maps a genome to its phenotype. Each polygenic value is the mean
// of all allele values at the trait's loci, mapped linearly onto the output
// range and clamped; a discrete trait expresses its more dominant allele
// (the higher index).
func (e *Engine) Express(g *Genome) Phenotype {
	p := Phenotype{
		Speed:            e.expressPoly(g, e.idx.speed),
		Vision:           e.expressPoly(g, e.idx.vision),
		Size:             e.expressPoly(g, e.idx.size),
		MaxHealth:        e.expressPoly(g, e.idx.maxHealth),
		Attack:           e.expressPoly(g, e.idx.attack),
		Defense:          e.expressPoly(g, e.idx.defense),
		Accuracy:         e.expressPoly(g, e.idx.accuracy),
		Awareness:        e.expressPoly(g, e.idx.awareness),
		Aggression:       e.expressPoly(g, e.idx.aggression),
		Intelligence:     e.expressPoly(g, e.idx.intelligence),
		Swim:             e.expressPoly(g, e.idx.swim),
		Metabolism:       e.expressPoly(g, e.idx.metabolism),
		Attractiveness:   e.expressPoly(g, e.idx.attractiveness),
		AttractThreshold: e.expressPoly(g, e.idx.attractThreshold),
		GestationBase:    e.expressPoly(g, e.idx.gestation),
		LitterMean:       e.expressPoly(g, e.idx.litter),
		MaxAge:           e.expressPoly(g, e.idx.maxAge),
	}
	p.Color[0] = uint8(math.Round(e.expressPoly(g, e.idx.colorR)))
	p.Color[1] = uint8(math.Round(e.expressPoly(g, e.idx.colorG)))
	p.Color[2] = uint8(math.Round(e.expressPoly(g, e.idx.colorB)))

	if len(e.schema.Discrete) > 0 {
		p.Traits = make(map[string]string, len(e.schema.Discrete))
		for i, t := range e.schema.Discrete {
			pair := g.Discrete[i]
			dom := pair[0]
			if pair[1] > dom {
				dom = pair[1]
			}
			p.Traits[t.Name] = t.Alleles[dom]
		}
	}
	return p
}

func (e *Engine) expressPoly(g *Genome, i int) float64 {
	t := e.schema.Polygenic[i]
	var sum float64
	for _, l := range g.Loci[i] {
		sum += l.M + l.P
	}
	mean := sum / float64(2*t.Loci)
	// Map the allele-space mean onto the output range.
	frac := (mean - t.Lo) / (t.Hi - t.Lo)
	return clamp(t.OutLo+frac*(t.OutHi-t.OutLo), t.OutLo, t.OutHi)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package genetics implements polygenic heredity: trait schemas, diploid
// genomes, inheritance with mutation, and expression into phenotypes.
package genetics

import "fmt"

// PolygenicTrait defines one continuously-valued trait built from additive loci.
type PolygenicTrait struct {
	Name  string
	Loci  int     // Number of diploid loci contributing to the trait
	Lo    float64 // Per-allele value lower bound
	Hi    float64 // Per-allele value upper bound
	OutLo float64 // Phenotype lower bound after mapping
	OutHi float64 // Phenotype upper bound after mapping
}

// MultiAlleleTrait defines a discrete trait with alleles ordered from
// recessive to dominant: the higher index wins expression.
type MultiAlleleTrait struct {
	Name    string
	Alleles []string
}

// Schema is the fixed trait layout for a species. Genome storage is
// schema-ordered, so two genomes built from the same schema are directly
// comparable locus by locus.
type Schema struct {
	Polygenic []PolygenicTrait
	Discrete  []MultiAlleleTrait

	polyIndex     map[string]int
	discreteIndex map[string]int
}

// NewSchema builds a schema from trait definitions. It panics on malformed
// definitions since those are programmer errors, not runtime conditions.
func NewSchema(polygenic []PolygenicTrait, discrete []MultiAlleleTrait) *Schema {
	s := &Schema{
		Polygenic:     polygenic,
		Discrete:      discrete,
		polyIndex:     make(map[string]int, len(polygenic)),
		discreteIndex: make(map[string]int, len(discrete)),
	}
	for i, t := range polygenic {
		if t.Loci <= 0 {
			panic(fmt.Sprintf("genetics: trait %q has %d loci", t.Name, t.Loci))
		}
		if t.Hi <= t.Lo || t.OutHi < t.OutLo {
			panic(fmt.Sprintf("genetics: trait %q has inverted bounds", t.Name))
		}
		if _, dup := s.polyIndex[t.Name]; dup {
			panic(fmt.Sprintf("genetics: duplicate trait %q", t.Name))
		}
		s.polyIndex[t.Name] = i
	}
	for i, t := range discrete {
		if len(t.Alleles) < 2 {
			panic(fmt.Sprintf("genetics: discrete trait %q needs at least 2 alleles", t.Name))
		}
		if _, dup := s.discreteIndex[t.Name]; dup {
			panic(fmt.Sprintf("genetics: duplicate trait %q", t.Name))
		}
		s.discreteIndex[t.Name] = i
	}
	return s
}

// PolyIndex returns the position of a polygenic trait in the schema order.
func (s *Schema) PolyIndex(name string) (int, bool) {
	i, ok := s.polyIndex[name]
	return i, ok
}

// DiscreteIndex returns the position of a discrete trait in the schema order.
func (s *Schema) DiscreteIndex(name string) (int, bool) {
	i, ok := s.discreteIndex[name]
	return i, ok
}

func (s *Schema) mustPolyIndex(name string) int {
	i, ok := s.polyIndex[name]
	if !ok {
		panic(fmt.Sprintf("genetics: schema is missing required trait %q", name))
	}
	return i
}

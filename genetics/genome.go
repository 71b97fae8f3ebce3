package genetics

// Locus is one diploid locus: the allele inherited from each parent.
type Locus struct {
	M float64 // maternal allele
	P float64 // paternal allele
}

// Genome is the heritable state of one creature, laid out in schema order.
// Loci[i] holds the loci for the schema's i-th polygenic trait;
// Discrete[i] holds the two allele indices for the i-th discrete trait.
type Genome struct {
	Loci     [][]Locus
	Discrete [][2]uint8
}

// Clone returns a deep copy of the genome.
func (g *Genome) Clone() *Genome {
	c := &Genome{
		Loci:     make([][]Locus, len(g.Loci)),
		Discrete: make([][2]uint8, len(g.Discrete)),
	}
	for i, loci := range g.Loci {
		c.Loci[i] = make([]Locus, len(loci))
		copy(c.Loci[i], loci)
	}
	copy(c.Discrete, g.Discrete)
	return c
}

package genetics

// colorChannels are shared by both species schemas.
func colorChannels() []PolygenicTrait {
	return []PolygenicTrait{
		{Name: TraitColorR, Loci: 3, Lo: 0, Hi: 1, OutLo: 0, OutHi: 255},
		{Name: TraitColorG, Loci: 3, Lo: 0, Hi: 1, OutLo: 0, OutHi: 255},
		{Name: TraitColorB, Loci: 3, Lo: 0, Hi: 1, OutLo: 0, OutHi: 255},
	}
}

// HerbivoreSchema is the trait layout for grazing creatures.
func HerbivoreSchema() *Schema {
	poly := []PolygenicTrait{
		{Name: TraitSpeed, Loci: 4, Lo: 0, Hi: 1, OutLo: 0.5, OutHi: 2.0},
		{Name: TraitVision, Loci: 4, Lo: 0, Hi: 1, OutLo: 30, OutHi: 120},
		{Name: TraitSize, Loci: 4, Lo: 0, Hi: 1, OutLo: 0.6, OutHi: 1.4},
		{Name: TraitMaxHealth, Loci: 3, Lo: 0, Hi: 1, OutLo: 80, OutHi: 120},
		{Name: TraitAttack, Loci: 3, Lo: 0, Hi: 1, OutLo: 2, OutHi: 10},
		{Name: TraitDefense, Loci: 3, Lo: 0, Hi: 1, OutLo: 1, OutHi: 8},
		{Name: TraitAccuracy, Loci: 3, Lo: 0, Hi: 1, OutLo: 0.4, OutHi: 0.9},
		{Name: TraitAwareness, Loci: 3, Lo: 0, Hi: 1, OutLo: 0.4, OutHi: 0.95},
		{Name: TraitAggression, Loci: 3, Lo: 0, Hi: 1, OutLo: 0, OutHi: 0.5},
		{Name: TraitIntelligence, Loci: 4, Lo: 0, Hi: 1, OutLo: 0, OutHi: 1},
		{Name: TraitSwim, Loci: 3, Lo: 0, Hi: 1, OutLo: 0, OutHi: 1},
		{Name: TraitMetabolism, Loci: 3, Lo: 0, Hi: 1, OutLo: 0.6, OutHi: 1.4},
		{Name: TraitAttractiveness, Loci: 3, Lo: 0, Hi: 1, OutLo: 0.3, OutHi: 1.0},
		{Name: TraitAttractThreshold, Loci: 2, Lo: 0, Hi: 1, OutLo: 0.2, OutHi: 1.0},
		{Name: TraitGestation, Loci: 2, Lo: 0, Hi: 1, OutLo: 30, OutHi: 60},
		{Name: TraitLitter, Loci: 2, Lo: 0, Hi: 1, OutLo: 1, OutHi: 5},
		{Name: TraitMaxAge, Loci: 3, Lo: 0, Hi: 1, OutLo: 120, OutHi: 360},
	}
	discrete := []MultiAlleleTrait{
		{Name: "pattern", Alleles: []string{"plain", "spotted", "striped"}},
		{Name: "horns", Alleles: []string{"none", "nubs", "curled"}},
		{Name: "tail", Alleles: []string{"short", "long", "tufted"}},
		{Name: "ears", Alleles: []string{"round", "pointed"}},
	}
	return NewSchema(append(poly, colorChannels()...), discrete)
}

// PredatorSchema is the trait layout for hunting creatures. Same shape as
// the herbivore schema with ranges shifted toward combat.
func PredatorSchema() *Schema {
	poly := []PolygenicTrait{
		{Name: TraitSpeed, Loci: 4, Lo: 0, Hi: 1, OutLo: 0.7, OutHi: 2.2},
		{Name: TraitVision, Loci: 4, Lo: 0, Hi: 1, OutLo: 50, OutHi: 140},
		{Name: TraitSize, Loci: 4, Lo: 0, Hi: 1, OutLo: 0.8, OutHi: 1.6},
		{Name: TraitMaxHealth, Loci: 3, Lo: 0, Hi: 1, OutLo: 90, OutHi: 140},
		{Name: TraitAttack, Loci: 3, Lo: 0, Hi: 1, OutLo: 6, OutHi: 18},
		{Name: TraitDefense, Loci: 3, Lo: 0, Hi: 1, OutLo: 2, OutHi: 10},
		{Name: TraitAccuracy, Loci: 3, Lo: 0, Hi: 1, OutLo: 0.5, OutHi: 0.95},
		{Name: TraitAwareness, Loci: 3, Lo: 0, Hi: 1, OutLo: 0.5, OutHi: 0.95},
		{Name: TraitAggression, Loci: 3, Lo: 0, Hi: 1, OutLo: 0.4, OutHi: 0.9},
		{Name: TraitIntelligence, Loci: 4, Lo: 0, Hi: 1, OutLo: 0, OutHi: 1},
		{Name: TraitSwim, Loci: 3, Lo: 0, Hi: 1, OutLo: 0, OutHi: 1},
		{Name: TraitMetabolism, Loci: 3, Lo: 0, Hi: 1, OutLo: 0.7, OutHi: 1.5},
		{Name: TraitAttractiveness, Loci: 3, Lo: 0, Hi: 1, OutLo: 0.3, OutHi: 1.0},
		{Name: TraitAttractThreshold, Loci: 2, Lo: 0, Hi: 1, OutLo: 0.2, OutHi: 1.0},
		{Name: TraitGestation, Loci: 2, Lo: 0, Hi: 1, OutLo: 35, OutHi: 70},
		{Name: TraitLitter, Loci: 2, Lo: 0, Hi: 1, OutLo: 1, OutHi: 2},
		{Name: TraitMaxAge, Loci: 3, Lo: 0, Hi: 1, OutLo: 150, OutHi: 420},
	}
	discrete := []MultiAlleleTrait{
		{Name: "pattern", Alleles: []string{"plain", "brindle", "rosette"}},
		{Name: "mane", Alleles: []string{"none", "short", "full"}},
		{Name: "tail", Alleles: []string{"short", "long", "tufted"}},
		{Name: "ears", Alleles: []string{"round", "pointed"}},
	}
	return NewSchema(append(poly, colorChannels()...), discrete)
}

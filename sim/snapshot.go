package sim

// Snapshot exports one creature's state and phenotype as plain key-value
// data for inspection tooling. The map is a copy; mutating it does not
// touch the simulation. Returns false for unknown or culled ids.
func (p *Population) Snapshot(id uint32) (map[string]any, bool) {
	e, ok := p.byID[id]
	if !ok {
		return nil, false
	}
	pos := p.st.posMap.Get(e)
	mot := p.st.motMap.Get(e)
	org := p.st.orgMap.Get(e)
	needs := p.st.needsMap.Get(e)
	life := p.st.lifeMap.Get(e)
	rep := p.st.repMap.Get(e)
	beh := p.st.behMap.Get(e)
	phen := &org.Phen

	snap := map[string]any{
		"id":       org.ID,
		"species":  org.Species.String(),
		"sex":      org.Sex.String(),
		"parent_a": org.ParentA,
		"parent_b": org.ParentB,

		"x":       pos.X,
		"y":       pos.Y,
		"heading": mot.Heading,
		"speed":   mot.Speed,

		"state":       beh.State.String(),
		"target":      beh.TargetID,
		"food_node":   beh.FoodNode,
		"wet":         beh.Wet,
		"attack_cool": beh.AttackCool,

		"age":   life.Age,
		"alive": !life.Dead,
		"cause": life.Cause.String(),

		"hunger": needs.Hunger,
		"thirst": needs.Thirst,
		"health": needs.Health,

		"pregnant":       rep.Pregnant,
		"gestation_left": rep.GestLeft,
		"partner":        rep.PartnerID,
		"cooldown":       rep.Cooldown,
		"mates":          append([]uint32(nil), rep.Mates...),

		"trait_speed":             phen.Speed,
		"trait_vision":            phen.Vision,
		"trait_size":              phen.Size,
		"effective_size":          effectiveSize(phen, life.Age),
		"trait_max_health":        phen.MaxHealth,
		"trait_attack":            phen.Attack,
		"trait_defense":           phen.Defense,
		"trait_accuracy":          phen.Accuracy,
		"trait_awareness":         phen.Awareness,
		"trait_aggression":        phen.Aggression,
		"trait_intelligence":      phen.Intelligence,
		"trait_swim":              phen.Swim,
		"trait_metabolism":        phen.Metabolism,
		"trait_attractiveness":    phen.Attractiveness,
		"trait_attract_threshold": phen.AttractThreshold,
		"trait_gestation":         phen.GestationBase,
		"trait_litter":            phen.LitterMean,
		"trait_max_age":           phen.MaxAge,
		"color_r":                 phen.Color[0],
		"color_g":                 phen.Color[1],
		"color_b":                 phen.Color[2],
	}
	for name, allele := range phen.Traits {
		snap["trait_"+name] = allele
	}
	return snap, true
}

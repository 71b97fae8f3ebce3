package sim

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wilds/components"
	"github.com/pthm-cable/wilds/genetics"
	"github.com/pthm-cable/wilds/systems"
	"github.com/pthm-cable/wilds/terrain"
)

// biteInterval is the pacing between bites while eating, in seconds.
const biteInterval = 1.0

// courtTimeout drops a suitor back to wandering if no handshake starts.
const courtTimeout = 3.0

// needFull is the meter level at which eating/drinking stops.
const needFull = 95.0

// infertilityFloor rejects herbivore pairings whose average
// attractiveness falls below it.
const infertilityFloor = 0.35

// juvenileFrac is the share of lifespan over which a newborn grows from
// half size to full adult size.
const juvenileFrac = 0.2

// noticeRate scales per-tick awareness rolls into a per-second notice
// chance.
const noticeRate = 4.0

// effectiveSize is the age-scaled body size: newborns start at half the
// adult value and reach it over the first fifth of the lifespan.
func effectiveSize(phen *genetics.Phenotype, age float64) float64 {
	grown := age / (phen.MaxAge * juvenileFrac)
	if grown > 1 {
		grown = 1
	}
	return phen.Size * (0.5 + 0.5*grown)
}

// updateCreature is the per-tick behavior step: age, timers, need drains,
// death checks, then one state machine transition and movement.
func (p *Population) updateCreature(env *Env, e ecs.Entity,
	pos *components.Position, mot *components.Motion, org *components.Organism,
	needs *components.Needs, life *components.Lifecycle,
	rep *components.Reproduction, beh *components.Behavior) {

	dt := env.DT
	phen := &org.Phen

	life.Age += dt
	if life.Age >= phen.MaxAge {
		life.Dead = true
		life.Cause = components.CauseOldAge
		return
	}

	if rep.Cooldown > 0 {
		rep.Cooldown -= dt
	}
	if beh.AttackCool > 0 {
		beh.AttackCool -= dt
	}
	if beh.Wet > 0 {
		beh.Wet -= dt
	}
	beh.StateTime += dt

	p.drainNeeds(env, pos, mot, org, needs, life, rep, beh)
	if life.Dead {
		return
	}

	if rep.Pregnant {
		rep.GestLeft -= dt
		if rep.GestLeft <= 0 {
			p.births = append(p.births, birthOrder{MotherID: org.ID})
		}
	}

	// Predator awareness overrides everything, including a handshake. A
	// noticed hunter triggers a fight-or-flight roll: most herbivores run,
	// the aggressive ones stand their ground.
	if p.species == components.Herbivore &&
		beh.State != components.StateFlee && beh.State != components.StateAttack {
		if threat, ok := p.detectThreat(env, e, pos, phen); ok {
			if beh.State == components.StateBreeding {
				p.breakOff(e)
			}
			if p.rng.Float64() < phen.Aggression {
				beh.State = components.StateAttack
			} else {
				beh.State = components.StateFlee
			}
			beh.TargetID = threat
			beh.StateTime = 0
			rep.PartnerID = 0
		}
	}

	switch beh.State {
	case components.StateWander:
		p.stepWander(env, pos, mot, org, needs, rep, beh, e, life)
	case components.StateSeekFood:
		p.stepSeekFood(env, pos, mot, org, needs, rep, beh)
	case components.StateEat:
		p.stepEat(env, pos, mot, org, needs, life, beh)
	case components.StateSeekWater:
		p.stepSeekWater(env, pos, mot, org, needs, rep, beh)
	case components.StateDrink:
		p.stepDrink(env, mot, needs, beh)
	case components.StateSeekMate:
		p.stepSeekMate(env, e, pos, mot, org, rep, beh)
	case components.StateCourting:
		p.stepCourting(mot, beh)
	case components.StateBreeding:
		p.stepBreeding(env, pos, mot, org, life, rep, beh)
	case components.StateFlee:
		p.stepFlee(env, pos, mot, org, rep, beh)
	case components.StateHunt:
		p.stepHunt(env, pos, mot, org, beh, rep)
	case components.StateAttack:
		p.stepAttack(env, pos, mot, org, needs, beh)
	case components.StateCrossing:
		p.stepCrossing(env, pos, mot, org, needs, rep, beh)
	}
}

// drainNeeds applies hunger/thirst drains with biome, pregnancy,
// metabolism and movement modifiers, then converts empty meters into
// health loss.
func (p *Population) drainNeeds(env *Env, pos *components.Position, mot *components.Motion,
	org *components.Organism, needs *components.Needs, life *components.Lifecycle,
	rep *components.Reproduction, beh *components.Behavior) {

	dt := env.DT
	hunger := p.cfg.HungerDrain * org.Phen.Metabolism
	thirst := p.cfg.ThirstDrain

	switch env.World.BiomeAtWorld(pos.X, pos.Y) {
	case terrain.Desert:
		thirst *= p.needsCfg.DesertThirstMult
	case terrain.Tundra:
		hunger *= p.needsCfg.TundraHungerMult
	}
	if rep.Pregnant {
		hunger *= p.needsCfg.PregnancyDrainMult
		thirst *= p.needsCfg.PregnancyDrainMult
	}
	if beh.State == components.StateCrossing {
		hunger *= p.waterCfg.CrossingHungerMult
	}
	if mot.Speed > 1 {
		hunger *= 1.25
	}

	needs.Hunger = clamp(needs.Hunger-hunger*dt, 0, 100)
	needs.Thirst = clamp(needs.Thirst-thirst*dt, 0, 100)

	if needs.Hunger <= 0 || needs.Thirst <= 0 {
		needs.Health = clamp(needs.Health-p.needsCfg.StarveDamage*dt, 0, org.Phen.MaxHealth)
		if needs.Health <= 0 {
			life.Dead = true
			if needs.Thirst <= 0 {
				life.Cause = components.CauseDehydration
			} else {
				life.Cause = components.CauseStarvation
			}
		}
	}
}

// detectThreat scans for predators inside vision range and rolls whether
// the creature notices the nearest one this tick. Bigger predators stalk
// better: size shrinks the radius at which prey can notice them.
func (p *Population) detectThreat(env *Env, e ecs.Entity, pos *components.Position,
	phen *genetics.Phenotype) (uint32, bool) {

	pred := env.Predators
	if pred == nil || pred.Count() == 0 {
		return 0, false
	}
	p.scratch = env.Grid.QueryRadiusInto(p.scratch[:0], pos.X, pos.Y, phen.Vision, e, p.st.posMap)
	bestSq := math.MaxFloat64
	var bestID uint32
	for _, n := range p.scratch {
		nOrg := p.st.orgMap.Get(n.E)
		if nOrg == nil || nOrg.Species != components.Predator {
			continue
		}
		nLife := p.st.lifeMap.Get(n.E)
		if nLife.Dead {
			continue
		}
		stealth := clamp(1.1-0.15*effectiveSize(&nOrg.Phen, nLife.Age), 0.5, 1.1)
		detectR := phen.Vision * stealth
		if n.DistSq <= detectR*detectR && n.DistSq < bestSq {
			bestSq = n.DistSq
			bestID = nOrg.ID
		}
	}
	if bestID == 0 {
		return 0, false
	}
	if p.rng.Float64() >= phen.Awareness*noticeRate*env.DT {
		return 0, false
	}
	return bestID, true
}

// stepWander drifts with occasional random turns and watches for a reason
// to do something else.
func (p *Population) stepWander(env *Env, pos *components.Position, mot *components.Motion,
	org *components.Organism, needs *components.Needs, rep *components.Reproduction,
	beh *components.Behavior, e ecs.Entity, life *components.Lifecycle) {

	switch {
	case needs.Thirst <= p.cfg.ThirstSeek:
		beh.State = components.StateSeekWater
		beh.StateTime = 0
		return
	case needs.Hunger <= p.cfg.HungerSeek:
		if p.species == components.Predator {
			beh.State = components.StateHunt
		} else {
			beh.State = components.StateSeekFood
		}
		beh.StateTime = 0
		beh.FoodNode = -1
		beh.TargetID = 0
		return
	case org.Sex == components.Male && p.eligible(env, e) && p.rng.Float64() < 0.02:
		beh.State = components.StateSeekMate
		beh.StateTime = 0
		return
	}

	mot.Heading += (p.rng.Float64()*2 - 1) * p.cfg.WanderTurn * env.DT
	p.advance(env, pos, mot, org, rep, beh, 0.6)
}

// stepSeekFood walks to the nearest available node within vision.
func (p *Population) stepSeekFood(env *Env, pos *components.Position, mot *components.Motion,
	org *components.Organism, needs *components.Needs, rep *components.Reproduction,
	beh *components.Behavior) {

	node := env.Food.Node(beh.FoodNode)
	if node == nil || node.Slots == 0 {
		beh.FoodNode = env.Food.NearestAvailable(pos.X, pos.Y, org.Phen.Vision, nil)
		if beh.FoodNode < 0 {
			// Nothing in sight; drift and look again.
			mot.Heading += (p.rng.Float64()*2 - 1) * p.cfg.WanderTurn * env.DT
			p.advance(env, pos, mot, org, rep, beh, 0.8)
			return
		}
		node = env.Food.Node(beh.FoodNode)
	}

	if p.moveTowards(env, pos, mot, org, rep, beh, node.X, node.Y, 1.0) {
		beh.State = components.StateEat
		beh.StateTime = biteInterval // first bite lands immediately
	}
}

// stepEat takes one bite per interval until full or the node runs out.
func (p *Population) stepEat(env *Env, pos *components.Position, mot *components.Motion,
	org *components.Organism, needs *components.Needs, life *components.Lifecycle,
	beh *components.Behavior) {

	mot.Speed = 0
	if beh.StateTime < biteInterval {
		return
	}
	beh.StateTime = 0

	meal, err := env.Food.Eat(beh.FoodNode, systems.Eater{
		Metabolism:   org.Phen.Metabolism,
		Intelligence: org.Phen.Intelligence,
	}, env.Now)
	if err != nil {
		beh.FoodNode = -1
		beh.State = components.StateSeekFood
		return
	}

	needs.Hunger = clamp(needs.Hunger+meal.Hunger, 0, 100)
	needs.Thirst = clamp(needs.Thirst+meal.Thirst, 0, 100)
	if meal.Damage > 0 {
		needs.Health = clamp(needs.Health-meal.Damage, 0, org.Phen.MaxHealth)
		Logf("creature %d pricked by cactus for %.1f", org.ID, meal.Damage)
		if needs.Health <= 0 {
			life.Dead = true
			life.Cause = components.CauseCombat
			return
		}
	}
	if needs.Hunger >= needFull {
		beh.FoodNode = -1
		beh.State = components.StateWander
	}
}

// stepSeekWater heads for the nearest shoreline. In the desert, with no
// water in sight, a cactus serves instead.
func (p *Population) stepSeekWater(env *Env, pos *components.Position, mot *components.Motion,
	org *components.Organism, needs *components.Needs, rep *components.Reproduction,
	beh *components.Behavior) {

	wx, wy, ok := env.Water.NearestWater(pos.X, pos.Y, org.Phen.Vision)
	if !ok {
		if env.World.BiomeAtWorld(pos.X, pos.Y) == terrain.Desert {
			cactus := env.Food.NearestAvailable(pos.X, pos.Y, org.Phen.Vision,
				func(n *systems.FoodNode) bool { return n.Species == systems.FoodCactus })
			if cactus >= 0 {
				beh.FoodNode = cactus
				beh.State = components.StateSeekFood
				beh.StateTime = 0
				return
			}
			// No water, no cactus: march out of the desert instead of
			// drifting in it.
			if h, found := desertExitHeading(env, pos, mot.Heading, org.Phen.Vision*2); found {
				mot.Heading = h
				p.advance(env, pos, mot, org, rep, beh, 1.0)
				return
			}
		}
		mot.Heading += (p.rng.Float64()*2 - 1) * p.cfg.WanderTurn * env.DT
		p.advance(env, pos, mot, org, rep, beh, 0.8)
		return
	}

	ts := float64(env.World.TileSize)
	dx := pos.X - wx
	dy := pos.Y - wy
	if dx*dx+dy*dy <= ts*ts*1.5 {
		beh.State = components.StateDrink
		beh.StateTime = 0
		return
	}
	p.moveTowards(env, pos, mot, org, rep, beh, wx, wy, 1.0)
}

// desertExitHeading tries rotations of the current heading and returns
// the first one whose far point leaves the desert on foot.
func desertExitHeading(env *Env, pos *components.Position, heading, dist float64) (float64, bool) {
	offsets := [...]float64{0, math.Pi / 4, -math.Pi / 4, math.Pi / 2, -math.Pi / 2,
		3 * math.Pi / 4, -3 * math.Pi / 4, math.Pi}
	for _, off := range offsets {
		h := heading + off
		b := env.World.BiomeAtWorld(pos.X+math.Cos(h)*dist, pos.Y+math.Sin(h)*dist)
		if b != terrain.Desert && b != terrain.Water {
			return h, true
		}
	}
	return 0, false
}

// stepDrink refills thirst at the shoreline.
func (p *Population) stepDrink(env *Env, mot *components.Motion, needs *components.Needs,
	beh *components.Behavior) {

	mot.Speed = 0
	needs.Thirst = clamp(needs.Thirst+p.waterCfg.DrinkRate*env.DT, 0, 100)
	if needs.Thirst >= needFull {
		beh.State = components.StateWander
		beh.StateTime = 0
	}
}

// stepSeekMate finds a suitable female in vision, approaches and proposes.
// Herbivore pairings need mutual attraction and clear the infertility
// floor; predators pair with any eligible female.
func (p *Population) stepSeekMate(env *Env, e ecs.Entity, pos *components.Position,
	mot *components.Motion, org *components.Organism, rep *components.Reproduction,
	beh *components.Behavior) {

	target, ok := p.byID[beh.TargetID]
	if !ok || !p.eligible(env, target) {
		beh.TargetID = 0
		if id, found := p.findMate(env, e, pos, org); found {
			beh.TargetID = id
		} else {
			beh.State = components.StateWander
			beh.StateTime = 0
			return
		}
		target = p.byID[beh.TargetID]
	}

	tPos := p.st.posMap.Get(target)
	if p.moveTowards(env, pos, mot, org, rep, beh, tPos.X, tPos.Y, 1.0) {
		p.proposals = append(p.proposals, proposal{
			MaleID:   org.ID,
			FemaleID: beh.TargetID,
			Attract:  org.Phen.Attractiveness,
		})
		beh.State = components.StateCourting
		beh.StateTime = 0
	}
}

// findMate scans the grid for the nearest acceptable female.
func (p *Population) findMate(env *Env, e ecs.Entity, pos *components.Position,
	org *components.Organism) (uint32, bool) {

	p.scratch = env.Grid.QueryRadiusInto(p.scratch[:0], pos.X, pos.Y, org.Phen.Vision, e, p.st.posMap)
	bestSq := math.MaxFloat64
	var bestID uint32
	for _, n := range p.scratch {
		nOrg := p.st.orgMap.Get(n.E)
		if nOrg == nil || nOrg.Species != p.species || nOrg.Sex != components.Female {
			continue
		}
		if !p.eligible(env, n.E) {
			continue
		}
		if p.species == components.Herbivore {
			if org.Phen.Attractiveness < nOrg.Phen.AttractThreshold ||
				nOrg.Phen.Attractiveness < org.Phen.AttractThreshold {
				continue
			}
			if (org.Phen.Attractiveness+nOrg.Phen.Attractiveness)/2 < infertilityFloor {
				continue
			}
		}
		if n.DistSq < bestSq {
			bestSq = n.DistSq
			bestID = nOrg.ID
		}
	}
	return bestID, bestID != 0
}

// stepCourting waits for breeding resolution; if no handshake starts, give
// up and wander.
func (p *Population) stepCourting(mot *components.Motion, beh *components.Behavior) {
	mot.Speed = 0
	if beh.StateTime >= courtTimeout {
		beh.State = components.StateWander
		beh.StateTime = 0
		beh.TargetID = 0
	}
}

// stepBreeding holds position through the handshake. Both partners tick
// their own timers down in step; completion impregnates the female.
func (p *Population) stepBreeding(env *Env, pos *components.Position, mot *components.Motion,
	org *components.Organism, life *components.Lifecycle, rep *components.Reproduction,
	beh *components.Behavior) {

	mot.Speed = 0

	partner, ok := p.byID[rep.PartnerID]
	if !ok {
		p.breakOffSelf(rep, beh)
		return
	}
	pBeh := p.st.behMap.Get(partner)
	pRep := p.st.repMap.Get(partner)
	pLife := p.st.lifeMap.Get(partner)
	if pLife.Dead || pBeh.State != components.StateBreeding || pRep.PartnerID != org.ID {
		p.breakOffSelf(rep, beh)
		return
	}

	rep.BreedTimer -= env.DT
	if rep.BreedTimer > 0 {
		return
	}

	// Whichever side's timer expires first finalizes the pair, so the
	// outcome does not depend on iteration order.
	pOrg := p.st.orgMap.Get(partner)
	mOrg, mLife, mRep := org, life, rep
	sire := pOrg
	if org.Sex != components.Female {
		mOrg, mLife, mRep = pOrg, pLife, pRep
		sire = org
	}
	mRep.Pregnant = true
	mRep.GestLeft = p.gestationFor(&mOrg.Phen, mLife.Age)
	mRep.FatherID = sire.ID
	mRep.FatherGenome = sire.Genome.Clone()
	Logf("%s %d pregnant, gestation %.1fs", p.species, mOrg.ID, mRep.GestLeft)

	rep.Mates = append(rep.Mates, pOrg.ID)
	pRep.Mates = append(pRep.Mates, org.ID)
	rep.PartnerID, pRep.PartnerID = 0, 0
	rep.Cooldown, pRep.Cooldown = p.cfg.BreedCooldown, p.cfg.BreedCooldown
	beh.State = components.StateWander
	beh.StateTime = 0
	pBeh.State = components.StateWander
	pBeh.StateTime = 0
}

func (p *Population) breakOffSelf(rep *components.Reproduction, beh *components.Behavior) {
	rep.PartnerID = 0
	rep.BreedTimer = 0
	rep.Cooldown = p.cfg.BreedCooldown * 0.5
	beh.State = components.StateWander
	beh.StateTime = 0
}

// stepFlee runs from the remembered predator until it is well out of sight.
func (p *Population) stepFlee(env *Env, pos *components.Position, mot *components.Motion,
	org *components.Organism, rep *components.Reproduction, beh *components.Behavior) {

	threat, ok := env.Predators.Lookup(beh.TargetID)
	if !ok {
		beh.State = components.StateWander
		beh.StateTime = 0
		beh.TargetID = 0
		return
	}
	tPos := p.st.posMap.Get(threat)
	dx := pos.X - tPos.X
	dy := pos.Y - tPos.Y
	if dx*dx+dy*dy > org.Phen.Vision*org.Phen.Vision*2.25 {
		beh.State = components.StateWander
		beh.StateTime = 0
		beh.TargetID = 0
		return
	}
	mot.Heading = math.Atan2(dy, dx)
	p.advance(env, pos, mot, org, rep, beh, p.cfg.FleeSpeedMult)
}

// stepHunt chases the nearest living herbivore in vision.
func (p *Population) stepHunt(env *Env, pos *components.Position, mot *components.Motion,
	org *components.Organism, beh *components.Behavior, rep *components.Reproduction) {

	prey := env.Herbivores
	target, ok := prey.Lookup(beh.TargetID)
	if !ok || prey.st.lifeMap.Get(target).Dead {
		beh.TargetID = p.findPrey(env, pos, org)
		if beh.TargetID == 0 {
			mot.Heading += (p.rng.Float64()*2 - 1) * p.cfg.WanderTurn * env.DT
			p.advance(env, pos, mot, org, rep, beh, 0.8)
			return
		}
		target, _ = prey.Lookup(beh.TargetID)
	}

	tPos := p.st.posMap.Get(target)
	if p.moveTowards(env, pos, mot, org, rep, beh, tPos.X, tPos.Y, p.cfg.FleeSpeedMult) {
		beh.State = components.StateAttack
		beh.StateTime = 0
	}
}

func (p *Population) findPrey(env *Env, pos *components.Position, org *components.Organism) uint32 {
	p.scratch = env.Grid.QueryRadiusInto(p.scratch[:0], pos.X, pos.Y, org.Phen.Vision, ecs.Entity{}, p.st.posMap)
	bestSq := math.MaxFloat64
	var bestID uint32
	for _, n := range p.scratch {
		nOrg := p.st.orgMap.Get(n.E)
		if nOrg == nil || nOrg.Species != components.Herbivore {
			continue
		}
		if p.st.lifeMap.Get(n.E).Dead {
			continue
		}
		if n.DistSq < bestSq {
			bestSq = n.DistSq
			bestID = nOrg.ID
		}
	}
	return bestID
}

// stepAttack strikes the cross-species target when in reach and off
// cooldown. Hit chance pits attacker accuracy against target speed;
// damage is attack minus defense. Predators fight prey, herbivores that
// stood their ground fight back.
func (p *Population) stepAttack(env *Env, pos *components.Position, mot *components.Motion,
	org *components.Organism, needs *components.Needs, beh *components.Behavior) {

	foe := env.Other(p.species)
	target, ok := foe.Lookup(beh.TargetID)
	if !ok || foe.st.lifeMap.Get(target).Dead {
		beh.State = components.StateWander
		beh.StateTime = 0
		beh.TargetID = 0
		return
	}

	tPos := p.st.posMap.Get(target)
	dx := tPos.X - pos.X
	dy := tPos.Y - pos.Y
	reach := p.cfg.AttackRange
	if dx*dx+dy*dy > reach*reach*2.25 {
		if p.species == components.Predator {
			beh.State = components.StateHunt
		} else {
			// The threat broke off; no pursuit.
			beh.State = components.StateWander
			beh.TargetID = 0
		}
		beh.StateTime = 0
		return
	}

	mot.Speed = 0
	mot.Heading = math.Atan2(dy, dx)
	if beh.AttackCool > 0 {
		return
	}
	beh.AttackCool = p.cfg.AttackCooldown

	tOrg := p.st.orgMap.Get(target)
	tLife := p.st.lifeMap.Get(target)
	dodge := (tOrg.Phen.Speed - 0.5) / 1.7
	hitChance := clamp(org.Phen.Accuracy-0.25*dodge, 0.1, 0.95)
	if p.rng.Float64() >= hitChance {
		Logf("%s %d missed %d", p.species, org.ID, tOrg.ID)
		return
	}

	damage := org.Phen.Attack - tOrg.Phen.Defense
	if damage < 0 {
		damage = 0
	}
	tNeeds := p.st.needsMap.Get(target)
	tNeeds.Health = clamp(tNeeds.Health-damage, 0, tOrg.Phen.MaxHealth)
	if tNeeds.Health <= 0 {
		tLife.Dead = true
		if p.species == components.Predator {
			tLife.Cause = components.CausePredation
		} else {
			tLife.Cause = components.CauseCombat
		}
		needs.Hunger = clamp(needs.Hunger+p.cfg.EatHunger*effectiveSize(&tOrg.Phen, tLife.Age), 0, 100)
		needs.Thirst = clamp(needs.Thirst+10, 0, 100)
		Logf("%s %d killed %d", p.species, org.ID, tOrg.ID)
		beh.State = components.StateWander
		beh.StateTime = 0
		beh.TargetID = 0
	}
}

// stepCrossing swims along the heading until land, refilling thirst on
// the way. Hunger drains faster while swimming (see drainNeeds).
func (p *Population) stepCrossing(env *Env, pos *components.Position, mot *components.Motion,
	org *components.Organism, needs *components.Needs, rep *components.Reproduction,
	beh *components.Behavior) {

	needs.Thirst = clamp(needs.Thirst+p.waterCfg.ThirstRefillRate*env.DT, 0, 100)

	speed := p.baseSpeed(env, pos, org, rep, beh) * clamp(org.Phen.Swim, 0.3, 1)
	p.integrate(env, pos, mot, speed)
	if !env.Water.IsWaterAt(pos.X, pos.Y) {
		beh.State = components.StateWander
		beh.StateTime = 0
		beh.Wet = p.waterCfg.WetDuration
	}
}

// moveTowards advances toward a goal; reports true once within reach.
func (p *Population) moveTowards(env *Env, pos *components.Position, mot *components.Motion,
	org *components.Organism, rep *components.Reproduction, beh *components.Behavior,
	tx, ty, speedMult float64) bool {

	dx := tx - pos.X
	dy := ty - pos.Y
	reach := p.cfg.AttackRange
	if dx*dx+dy*dy <= reach*reach {
		mot.Speed = 0
		return true
	}
	mot.Heading = math.Atan2(dy, dx)
	p.advance(env, pos, mot, org, rep, beh, speedMult)
	return false
}

// advance moves along the current heading, handling water ahead: swimmers
// start crossing, everyone else turns along the shore.
func (p *Population) advance(env *Env, pos *components.Position, mot *components.Motion,
	org *components.Organism, rep *components.Reproduction, beh *components.Behavior,
	speedMult float64) {

	speed := p.baseSpeed(env, pos, org, rep, beh) * speedMult
	ts := float64(env.World.TileSize)
	aheadX := pos.X + math.Cos(mot.Heading)*ts*0.6
	aheadY := pos.Y + math.Sin(mot.Heading)*ts*0.6

	if env.Water.IsWaterAt(aheadX, aheadY) {
		// Only commit to a crossing when a far bank exists along the
		// heading; at the map edge water never ends.
		_, _, landFound := env.Water.LandAhead(pos.X, pos.Y, mot.Heading, org.Phen.Vision*2)
		if landFound && p.rng.Float64() < p.crossChance(org, beh) {
			beh.State = components.StateCrossing
			beh.StateTime = 0
		} else {
			// Turn along the shore instead of walking in.
			if p.rng.Intn(2) == 0 {
				mot.Heading += math.Pi / 2
			} else {
				mot.Heading -= math.Pi / 2
			}
			mot.Speed = 0
			return
		}
	}

	p.integrate(env, pos, mot, speed)
}

// crossChance is the willingness to swim rather than skirt the shore:
// swim-weighted, boosted when the creature is after something, zero for
// anyone below the swim threshold.
func (p *Population) crossChance(org *components.Organism, beh *components.Behavior) float64 {
	if org.Phen.Swim < p.waterCfg.SwimThreshold {
		return 0
	}
	chance := org.Phen.Swim
	if beh.State != components.StateWander {
		chance *= 1.5
	}
	return clamp(chance, 0, 0.95)
}

// baseSpeed converts the speed trait (tiles/sec) to world units, modified
// by terrain, pregnancy, and the post-swim drying-off window.
func (p *Population) baseSpeed(env *Env, pos *components.Position, org *components.Organism,
	rep *components.Reproduction, beh *components.Behavior) float64 {

	speed := org.Phen.Speed * float64(env.World.TileSize)
	switch env.World.BiomeAtWorld(pos.X, pos.Y) {
	case terrain.Forest:
		speed *= p.needsCfg.ForestSpeedMult
	case terrain.Tundra:
		speed *= p.needsCfg.TundraSpeedMult
	}
	if beh.Wet > 0 {
		speed *= p.waterCfg.WetSpeedMult
	}
	if rep.Pregnant {
		speed /= p.needsCfg.PregnancySpeedDiv
	}
	return speed
}

// integrate applies movement and bounces off the world edges. A corrupt
// heading heals to a fresh random one instead of propagating.
func (p *Population) integrate(env *Env, pos *components.Position, mot *components.Motion, speed float64) {
	if math.IsNaN(mot.Heading) || math.IsInf(mot.Heading, 0) {
		mot.Heading = p.rng.Float64() * 2 * math.Pi
	}
	mot.Speed = speed
	pos.X += math.Cos(mot.Heading) * speed * env.DT
	pos.Y += math.Sin(mot.Heading) * speed * env.DT

	w := env.World.Width()
	h := env.World.Height()
	if pos.X < 0 {
		pos.X = 0
		mot.Heading = math.Pi - mot.Heading
	} else if pos.X >= w {
		pos.X = w - 1e-3
		mot.Heading = math.Pi - mot.Heading
	}
	if pos.Y < 0 {
		pos.Y = 0
		mot.Heading = -mot.Heading
	} else if pos.Y >= h {
		pos.Y = h - 1e-3
		mot.Heading = -mot.Heading
	}
}

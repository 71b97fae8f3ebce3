// Package components defines the ECS components shared by all creatures.
package components

import "github.com/pthm-cable/wilds/genetics"

// Species tags a creature's archetype.
type Species uint8

const (
	Herbivore Species = iota
	Predator
)

func (s Species) String() string {
	if s == Predator {
		return "predator"
	}
	return "herbivore"
}

// Sex of a creature; only females gestate.
type Sex uint8

const (
	Female Sex = iota
	Male
)

func (s Sex) String() string {
	if s == Male {
		return "male"
	}
	return "female"
}

// DeathCause records why a creature died.
type DeathCause uint8

const (
	CauseNone DeathCause = iota
	CauseStarvation
	CauseDehydration
	CauseOldAge
	CausePredation
	CauseCombat
	CauseChildbirth
)

func (c DeathCause) String() string {
	switch c {
	case CauseStarvation:
		return "starvation"
	case CauseDehydration:
		return "dehydration"
	case CauseOldAge:
		return "old_age"
	case CausePredation:
		return "predation"
	case CauseCombat:
		return "combat"
	case CauseChildbirth:
		return "childbirth"
	}
	return "none"
}

// State is a creature's behavior state.
type State uint8

const (
	StateWander State = iota
	StateSeekFood
	StateSeekWater
	StateEat
	StateDrink
	StateSeekMate
	StateCourting
	StateBreeding
	StateFlee
	StateHunt
	StateAttack
	StateCrossing
)

func (s State) String() string {
	switch s {
	case StateSeekFood:
		return "seek_food"
	case StateSeekWater:
		return "seek_water"
	case StateEat:
		return "eat"
	case StateDrink:
		return "drink"
	case StateSeekMate:
		return "seek_mate"
	case StateCourting:
		return "courting"
	case StateBreeding:
		return "breeding"
	case StateFlee:
		return "flee"
	case StateHunt:
		return "hunt"
	case StateAttack:
		return "attack"
	case StateCrossing:
		return "crossing_water"
	}
	return "wander"
}

// Position in world units.
type Position struct {
	X float64
	Y float64
}

// Motion holds heading (radians) and current speed (world units/sec).
type Motion struct {
	Heading float64
	Speed   float64
}

// Organism is the identity component: manager-scoped id, species, sex,
// lineage, and the heritable state. Phen is the cached expression of
// Genome.
type Organism struct {
	ID      uint32 // 0 is reserved for "none"
	ParentA uint32 // mother id, 0 for first-generation spawns
	ParentB uint32 // father id, 0 for first-generation spawns
	Species Species
	Sex     Sex
	Genome  *genetics.Genome
	Phen    genetics.Phenotype
}

// Needs tracks survival meters. Hunger and thirst run 0..100; health runs
// 0..MaxHealth from the phenotype.
type Needs struct {
	Hunger float64
	Thirst float64
	Health float64
}

// Lifecycle tracks age and death. Dead creatures are culled at the end of
// the population tick, never mid-update.
type Lifecycle struct {
	Age   float64
	Dead  bool
	Cause DeathCause
}

// Reproduction tracks courtship and pregnancy. All references are ids
// resolved through the population index, never entity handles.
type Reproduction struct {
	PartnerID    uint32   // courtship/breeding partner, 0 = none
	Mates        []uint32 // ids of every completed breeding partner
	Cooldown     float64  // seconds until next breeding attempt
	BreedTimer   float64  // remaining handshake seconds while breeding
	Pregnant     bool
	GestLeft     float64 // remaining gestation seconds
	FatherID     uint32
	FatherGenome *genetics.Genome
}

// Behavior holds the state machine bookkeeping.
type Behavior struct {
	State      State
	TargetID   uint32  // creature target (mate, prey, threat), 0 = none
	FoodNode   int32   // food field node id, -1 = none
	StateTime  float64 // seconds in current state
	AttackCool float64 // seconds until next strike
	Wet        float64 // seconds of post-swim slowdown left
}

package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wilds/components"
)

// store bundles the ECS world with the mapper, filter and per-component
// maps shared by both populations. Every creature carries the full
// component set.
type store struct {
	world *ecs.World

	mapper *ecs.Map7[
		components.Position,
		components.Motion,
		components.Organism,
		components.Needs,
		components.Lifecycle,
		components.Reproduction,
		components.Behavior,
	]
	filter *ecs.Filter7[
		components.Position,
		components.Motion,
		components.Organism,
		components.Needs,
		components.Lifecycle,
		components.Reproduction,
		components.Behavior,
	]

	posMap   *ecs.Map1[components.Position]
	motMap   *ecs.Map1[components.Motion]
	orgMap   *ecs.Map1[components.Organism]
	needsMap *ecs.Map1[components.Needs]
	lifeMap  *ecs.Map1[components.Lifecycle]
	repMap   *ecs.Map1[components.Reproduction]
	behMap   *ecs.Map1[components.Behavior]
}

func newStore(world *ecs.World) *store {
	return &store{
		world: world,
		mapper: ecs.NewMap7[
			components.Position,
			components.Motion,
			components.Organism,
			components.Needs,
			components.Lifecycle,
			components.Reproduction,
			components.Behavior,
		](world),
		filter: ecs.NewFilter7[
			components.Position,
			components.Motion,
			components.Organism,
			components.Needs,
			components.Lifecycle,
			components.Reproduction,
			components.Behavior,
		](world),
		posMap:   ecs.NewMap1[components.Position](world),
		motMap:   ecs.NewMap1[components.Motion](world),
		orgMap:   ecs.NewMap1[components.Organism](world),
		needsMap: ecs.NewMap1[components.Needs](world),
		lifeMap:  ecs.NewMap1[components.Lifecycle](world),
		repMap:   ecs.NewMap1[components.Reproduction](world),
		behMap:   ecs.NewMap1[components.Behavior](world),
	}
}

package tasks

import (
	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/resources"
)

type cook struct{}

func (cook) Kind() agents.ActivityKind { return agents.ActivityCook }

func (cook) Gates(c *scoreContext) bool {
	return c.here != nil && c.here.Kitchen != nil && len(c.here.Kitchen.Cookable()) > 0
}

func (cook) Base(c *scoreContext) float64 {
	missing := c.here.MaxServings - c.here.Kitchen.Servings()
	return 40 * float64(max(missing, 0))
}

type eat struct{}

func (eat) Kind() agents.ActivityKind { return agents.ActivityEat }

func (eat) Gates(c *scoreContext) bool {
	if c.here == nil || !c.agent.Condition.IsHungry() {
		return false
	}
	if c.here.Kitchen != nil && c.here.Kitchen.Servings() > 0 {
		return true
	}
	return c.here.Inventory.AmountStored(resources.Food) >= foodPortion
}

func (eat) Base(c *scoreContext) float64 {
	return c.agent.Condition.Hunger / 10
}

type sleep struct{}

func (sleep) Kind() agents.ActivityKind { return agents.ActivitySleep }

func (sleep) Gates(c *scoreContext) bool {
	return c.here != nil && c.agent.Condition.Fatigue > agents.TiredAt
}

func (sleep) Base(c *scoreContext) float64 {
	return (c.agent.Condition.Fatigue - agents.TiredAt) / 10
}

type relax struct{}

func (relax) Kind() agents.ActivityKind { return agents.ActivityRelax }

func (relax) Gates(c *scoreContext) bool {
	return c.here != nil
}

func (relax) Base(c *scoreContext) float64 {
	return c.agent.Condition.Stress * 0.5
}

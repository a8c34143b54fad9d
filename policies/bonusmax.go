package policies

import (
	"math/rand"
	"time"

	"github.com/zeu5/gridroboman/core"
	"github.com/zeu5/gridroboman/util"
)

// BonusPolicyGreedyReward learns on the task reward plus a visit-count
// bonus of 1/t, which keeps it exploring rarely tried state-action pairs
type BonusPolicyGreedyReward struct {
	qTable   *QTable
	alpha    float64
	discount float64
	visits   *QTable
	epsilon  float64
	rand     *rand.Rand
}

var _ core.Policy = &BonusPolicyGreedyReward{}

func NewBonusPolicyGreedyReward(alpha, discount, epsilon float64) *BonusPolicyGreedyReward {
	return &BonusPolicyGreedyReward{
		qTable:   NewQTable(),
		alpha:    alpha,
		discount: discount,
		visits:   NewQTable(),
		epsilon:  epsilon,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (b *BonusPolicyGreedyReward) Record(path string) error {
	return b.qTable.Record(path)
}

func (b *BonusPolicyGreedyReward) Reset() {
	b.qTable = NewQTable()
	b.visits = NewQTable()
}

func (b *BonusPolicyGreedyReward) ResetEpisode(_ *core.EpisodeContext) {
}

func (b *BonusPolicyGreedyReward) PickAction(_ *core.StepContext, state core.State, actions []core.Action) core.Action {
	if len(actions) == 0 {
		return nil
	}
	if b.rand.Float64() < b.epsilon {
		return actions[b.rand.Intn(len(actions))]
	}

	actionsMap, availableActions := actionIndex(actions)
	maxAction, _ := b.qTable.MaxAmong(state.Hash(), availableActions, 1)
	if maxAction == "" {
		return nil
	}
	return actionsMap[maxAction]
}

func (b *BonusPolicyGreedyReward) UpdateStep(_ *core.StepContext, step *core.Step) {
	stateHash := step.State.Hash()
	actionHash := step.Action.Hash()
	t := b.visits.Get(stateHash, actionHash, 0) + 1
	b.visits.Set(stateHash, actionHash, t)

	future := 1 / t
	if !step.Terminated {
		_, nextStateVal := b.qTable.Max(step.NextState.Hash(), 1)
		future = util.MaxFloat(future, b.discount*nextStateVal)
	}
	curVal := b.qTable.Get(stateHash, actionHash, 1)

	newVal := (1-b.alpha)*curVal + b.alpha*(step.Reward+future)
	b.qTable.Set(stateHash, actionHash, newVal)
}

func (b *BonusPolicyGreedyReward) UpdateEpisode(_ *core.EpisodeContext) {
}

type BonusPolicyGreedyRewardConstructor struct {
	alpha    float64
	discount float64
	epsilon  float64
}

var _ core.PolicyConstructor = &BonusPolicyGreedyRewardConstructor{}

func NewBonusPolicyGreedyRewardConstructor(alpha, discount, epsilon float64) *BonusPolicyGreedyRewardConstructor {
	return &BonusPolicyGreedyRewardConstructor{
		alpha:    alpha,
		discount: discount,
		epsilon:  epsilon,
	}
}

func (b *BonusPolicyGreedyRewardConstructor) NewPolicy() core.Policy {
	return NewBonusPolicyGreedyReward(b.alpha, b.discount, b.epsilon)
}

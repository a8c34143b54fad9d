package policies

import (
	"math/rand"
	"time"

	"github.com/zeu5/gridroboman/core"
)

// QLearningPolicy is epsilon-greedy tabular Q-learning on the
// environment reward, restricted to legal actions
type QLearningPolicy struct {
	qTable   *QTable
	alpha    float64
	discount float64
	epsilon  float64
	rand     *rand.Rand
}

var _ core.Policy = &QLearningPolicy{}

func NewQLearningPolicy(alpha, discount, epsilon float64) *QLearningPolicy {
	return &QLearningPolicy{
		qTable:   NewQTable(),
		alpha:    alpha,
		discount: discount,
		epsilon:  epsilon,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (q *QLearningPolicy) Record(path string) error {
	return q.qTable.Record(path)
}

func (q *QLearningPolicy) Reset() {
	q.qTable = NewQTable()
}

func (q *QLearningPolicy) ResetEpisode(_ *core.EpisodeContext) {}

func (q *QLearningPolicy) UpdateEpisode(_ *core.EpisodeContext) {}

func (q *QLearningPolicy) PickAction(_ *core.StepContext, state core.State, actions []core.Action) core.Action {
	if len(actions) == 0 {
		return nil
	}
	if q.rand.Float64() < q.epsilon {
		return actions[q.rand.Intn(len(actions))]
	}
	actionsMap, hashes := actionIndex(actions)
	best, _ := q.qTable.MaxAmong(state.Hash(), hashes, 0)
	if best == "" {
		return nil
	}
	return actionsMap[best]
}

func (q *QLearningPolicy) UpdateStep(_ *core.StepContext, step *core.Step) {
	stateHash := step.State.Hash()
	actionHash := step.Action.Hash()

	target := step.Reward
	if !step.Terminated {
		// bootstrap only over actions legal in the next state
		_, nextHashes := actionIndex(step.NextState.Actions())
		nextVal := 0.0
		if len(nextHashes) > 0 {
			_, nextVal = q.qTable.MaxAmong(step.NextState.Hash(), nextHashes, 0)
		}
		target += q.discount * nextVal
	}
	cur := q.qTable.Get(stateHash, actionHash, 0)
	q.qTable.Set(stateHash, actionHash, (1-q.alpha)*cur+q.alpha*target)
}

type QLearningPolicyConstructor struct {
	alpha    float64
	discount float64
	epsilon  float64
}

var _ core.PolicyConstructor = &QLearningPolicyConstructor{}

func NewQLearningPolicyConstructor(alpha, discount, epsilon float64) *QLearningPolicyConstructor {
	return &QLearningPolicyConstructor{
		alpha:    alpha,
		discount: discount,
		epsilon:  epsilon,
	}
}

func (c *QLearningPolicyConstructor) NewPolicy() core.Policy {
	return NewQLearningPolicy(c.alpha, c.discount, c.epsilon)
}

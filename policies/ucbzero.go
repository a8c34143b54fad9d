package policies

import (
	"math"
	"time"

	erand "golang.org/x/exp/rand"

	"github.com/zeu5/gridroboman/core"
)

type UCBZeroParams struct {
	StateSize   int
	ActionsSize int
	Horizon     int
	Episodes    int
	Constant    float64
	Epsilon     float64
}

// UCBZeroPolicy is optimistic Q-learning with a Hoeffding style bonus.
// Values start at the horizon and are pulled down by experience.
type UCBZeroPolicy struct {
	qTable *QTable
	visits *QTable
	rand   *erand.Rand
	params UCBZeroParams

	eta float64
}

func NewUCBZeroPolicy(params UCBZeroParams) *UCBZeroPolicy {
	eta := math.Log(
		float64(params.Horizon) * float64(params.ActionsSize) * float64(params.Episodes) * float64(params.StateSize),
	)

	return &UCBZeroPolicy{
		qTable: NewQTable(),
		visits: NewQTable(),
		rand:   erand.New(erand.NewSource(uint64(time.Now().UnixNano()))),
		params: params,

		eta: eta,
	}
}

var _ core.Policy = &UCBZeroPolicy{}

func (b *UCBZeroPolicy) ResetEpisode(_ *core.EpisodeContext) {
}

func (b *UCBZeroPolicy) UpdateEpisode(_ *core.EpisodeContext) {
}

func (b *UCBZeroPolicy) PickAction(_ *core.StepContext, state core.State, actions []core.Action) core.Action {
	if len(actions) == 0 {
		return nil
	}
	if b.rand.Float64() < b.params.Epsilon {
		return actions[b.rand.Intn(len(actions))]
	}

	actionsMap, availableActions := actionIndex(actions)
	maxAction, _ := b.qTable.MaxAmong(state.Hash(), availableActions, float64(b.params.Horizon))
	if maxAction == "" {
		return nil
	}

	return actionsMap[maxAction]
}

func (b *UCBZeroPolicy) UpdateStep(_ *core.StepContext, step *core.Step) {
	horizon := float64(b.params.Horizon)
	stateHash := step.State.Hash()
	actionHash := step.Action.Hash()
	t := b.visits.Get(stateHash, actionHash, 0) + 1
	b.visits.Set(stateHash, actionHash, t)

	nextStateVal := 0.0
	if !step.Terminated {
		_, nextStateVal = b.qTable.Max(step.NextState.Hash(), horizon)
		nextStateVal = math.Min(nextStateVal, horizon)
	}

	bonus := b.params.Constant * math.Sqrt((math.Pow(horizon, 3)+b.eta)/t)
	alphaT := (horizon + 1) / (horizon + t)
	curVal := b.qTable.Get(stateHash, actionHash, horizon)

	newVal := (1-alphaT)*curVal + alphaT*(step.Reward+nextStateVal+2*bonus)
	b.qTable.Set(stateHash, actionHash, newVal)
}

func (b *UCBZeroPolicy) Reset() {
	b.qTable = NewQTable()
	b.visits = NewQTable()
	b.rand = erand.New(erand.NewSource(uint64(time.Now().UnixNano())))
}

type UCBZeroPolicyConstructor struct {
	params UCBZeroParams
}

var _ core.PolicyConstructor = &UCBZeroPolicyConstructor{}

func NewUCBZeroPolicyConstructor(params UCBZeroParams) *UCBZeroPolicyConstructor {
	return &UCBZeroPolicyConstructor{
		params: params,
	}
}

func (b *UCBZeroPolicyConstructor) NewPolicy() core.Policy {
	return NewUCBZeroPolicy(b.params)
}

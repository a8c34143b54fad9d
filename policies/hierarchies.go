package policies

import (
	"math/rand"
	"time"

	"github.com/zeu5/gridroboman/core"
	"github.com/zeu5/gridroboman/util"
)

type PredicateFunc func(core.State) bool

type Predicate struct {
	Name  string
	Check PredicateFunc
}

// Init holds in every state and is the implicit bottom of a hierarchy
var Init = Predicate{
	Name:  "Init",
	Check: func(core.State) bool { return true },
}

type hierarchyStep struct {
	state      core.State
	action     core.Action
	reward     bool
	outOfSpace bool
	nextState  core.State
}

// HierarchyPolicy learns one Q table per level of a predicate hierarchy.
// The agent is rewarded for climbing to a higher predicate; the last
// predicate is the target.
type HierarchyPolicy struct {
	predicates []Predicate

	qTables map[int]*QTable
	visits  map[int]*QTable

	alpha    float64
	discount float64
	epsilon  float64
	oneTime  bool
	rand     *rand.Rand

	curPredicate  int
	traceSegments map[int][]*hierarchyStep
	targetReached bool
}

var _ core.Policy = &HierarchyPolicy{}

func NewHierarchyPolicy(alpha, discount, epsilon float64, oneTime bool, predicates ...Predicate) *HierarchyPolicy {
	return &HierarchyPolicy{
		predicates: append([]Predicate{Init}, predicates...),

		qTables: make(map[int]*QTable),
		visits:  make(map[int]*QTable),

		alpha:    alpha,
		discount: discount,
		epsilon:  epsilon,
		oneTime:  oneTime,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),

		traceSegments: make(map[int][]*hierarchyStep),
	}
}

func (h *HierarchyPolicy) Reset() {
	h.qTables = make(map[int]*QTable)
	h.visits = make(map[int]*QTable)
}

func (h *HierarchyPolicy) ResetEpisode(_ *core.EpisodeContext) {
	h.traceSegments = make(map[int][]*hierarchyStep)
	h.curPredicate = 0
	h.targetReached = false
}

func (h *HierarchyPolicy) tables(i int) (*QTable, *QTable) {
	if _, ok := h.qTables[i]; !ok {
		h.qTables[i] = NewQTable()
		h.visits[i] = NewQTable()
	}
	return h.qTables[i], h.visits[i]
}

// level returns the highest predicate that holds in state
func (h *HierarchyPolicy) level(state core.State) int {
	for i := len(h.predicates) - 1; i >= 0; i-- {
		if h.predicates[i].Check(state) {
			return i
		}
	}
	return 0
}

func (h *HierarchyPolicy) UpdateStep(_ *core.StepContext, step *core.Step) {
	reward := step.Terminated && step.Reward > 0
	outOfSpace := false
	curPredicate := h.curPredicate
	if !h.targetReached {
		nextPredicate := h.level(step.NextState)
		if nextPredicate != h.curPredicate {
			outOfSpace = true
		}
		if nextPredicate > h.curPredicate {
			reward = true
		}

		if h.oneTime && nextPredicate == len(h.predicates)-1 {
			h.targetReached = true
		}
		h.curPredicate = nextPredicate
	}
	h.traceSegments[curPredicate] = append(h.traceSegments[curPredicate], &hierarchyStep{
		state:      step.State,
		action:     step.Action,
		reward:     reward,
		outOfSpace: outOfSpace,
		nextState:  step.NextState,
	})
}

func (h *HierarchyPolicy) PickAction(_ *core.StepContext, state core.State, actions []core.Action) core.Action {
	if len(actions) == 0 {
		return nil
	}
	if h.rand.Float64() < h.epsilon {
		return actions[h.rand.Intn(len(actions))]
	}

	actionsMap, availableActions := actionIndex(actions)
	qTable, _ := h.tables(h.curPredicate)
	maxAction, _ := qTable.MaxAmong(state.Hash(), availableActions, 1)
	if maxAction == "" {
		return nil
	}
	return actionsMap[maxAction]
}

// CurrentLevel is the name of the predicate the agent currently sits at
func (h *HierarchyPolicy) CurrentLevel() string {
	return h.predicates[h.curPredicate].Name
}

func (h *HierarchyPolicy) UpdateEpisode(_ *core.EpisodeContext) {
	for i := range h.predicates {
		segment, ok := h.traceSegments[i]
		if !ok {
			continue
		}
		qTable, visits := h.tables(i)
		for j, step := range segment {
			stateHash := step.state.Hash()
			actionHash := step.action.Hash()

			t := visits.Get(stateHash, actionHash, 0) + 1
			visits.Set(stateHash, actionHash, t)
			q := qTable.Get(stateHash, actionHash, 0)
			nextMaxVal := 0.0
			// leaving the segment ends the bootstrap chain of this level
			if !step.outOfSpace && j != len(segment)-1 {
				_, nextMaxVal = qTable.Max(step.nextState.Hash(), 0)
			}

			reward := 1 / t
			if step.reward {
				reward += 2
			}

			q = (1-h.alpha)*q + h.alpha*util.MaxFloat(reward, h.discount*nextMaxVal)
			qTable.Set(stateHash, actionHash, q)
		}
	}
}

type HierarchyPolicyConstructor struct {
	Alpha      float64
	Discount   float64
	Epsilon    float64
	OneTime    bool
	Predicates []Predicate
}

var _ core.PolicyConstructor = &HierarchyPolicyConstructor{}

func NewHierarchyPolicyConstructor(alpha, discount, epsilon float64, oneTime bool, predicates ...Predicate) *HierarchyPolicyConstructor {
	return &HierarchyPolicyConstructor{
		Alpha:      alpha,
		Discount:   discount,
		Epsilon:    epsilon,
		OneTime:    oneTime,
		Predicates: predicates,
	}
}

func (h *HierarchyPolicyConstructor) NewPolicy() core.Policy {
	return NewHierarchyPolicy(h.Alpha, h.Discount, h.Epsilon, h.OneTime, h.Predicates...)
}

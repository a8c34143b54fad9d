package policies

import (
	"math"
	"time"

	"github.com/zeu5/gridroboman/core"
	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// SoftMaxNegPolicy charges -1 for every step on top of the task reward
// and picks the next action from a softmax over Q values
type SoftMaxNegPolicy struct {
	QTable      map[string]map[string]float64
	Alpha       float64
	Gamma       float64
	Temperature float64

	rand erand.Source
}

func NewSoftMaxNegPolicy(alpha, gamma, temperature float64) *SoftMaxNegPolicy {
	if temperature <= 0 {
		temperature = 1
	}
	return &SoftMaxNegPolicy{
		QTable:      make(map[string]map[string]float64),
		Alpha:       alpha,
		Gamma:       gamma,
		Temperature: temperature,
		rand:        erand.NewSource(uint64(time.Now().UnixNano())),
	}
}

var _ core.Policy = &SoftMaxNegPolicy{}

// Reset clears the QTable
func (s *SoftMaxNegPolicy) Reset() {
	s.QTable = make(map[string]map[string]float64)
	s.rand = erand.NewSource(uint64(time.Now().UnixNano()))
}

func (s *SoftMaxNegPolicy) ResetEpisode(_ *core.EpisodeContext) {
}

func (s *SoftMaxNegPolicy) UpdateEpisode(_ *core.EpisodeContext) {
}

func (s *SoftMaxNegPolicy) entry(stateHash, actionKey string) float64 {
	if _, ok := s.QTable[stateHash]; !ok {
		s.QTable[stateHash] = make(map[string]float64)
	}
	if _, ok := s.QTable[stateHash][actionKey]; !ok {
		s.QTable[stateHash][actionKey] = 0
	}
	return s.QTable[stateHash][actionKey]
}

func (s *SoftMaxNegPolicy) maxValue(stateHash string) float64 {
	max := float64(0)
	if _, ok := s.QTable[stateHash]; ok {
		for _, val := range s.QTable[stateHash] {
			if val > max {
				max = val
			}
		}
	}
	return max
}

func (s *SoftMaxNegPolicy) PickAction(_ *core.StepContext, state core.State, actions []core.Action) core.Action {
	if len(actions) == 0 {
		return nil
	}
	stateHash := state.Hash()

	vals := make([]float64, len(actions))
	largestValue := math.Inf(-1)
	for i, action := range actions {
		vals[i] = s.entry(stateHash, action.Hash())
		if vals[i] > largestValue {
			largestValue = vals[i]
		}
	}

	// shift by the largest value so exp never overflows
	sum := float64(0)
	for i := range vals {
		vals[i] = math.Exp((vals[i] - largestValue) / s.Temperature)
		sum += vals[i]
	}
	weights := make([]float64, len(vals))
	for i, v := range vals {
		weights[i] = v / sum
	}

	i, ok := sampleuv.NewWeighted(weights, s.rand).Take()
	if !ok {
		return nil
	}
	return actions[i]
}

func (s *SoftMaxNegPolicy) update(step *core.Step, reward float64) {
	stateHash := step.State.Hash()
	actionKey := step.Action.Hash()
	curVal := s.entry(stateHash, actionKey)
	future := 0.0
	if !step.Terminated {
		future = s.Gamma * s.maxValue(step.NextState.Hash())
	}
	s.QTable[stateHash][actionKey] = (1-s.Alpha)*curVal + s.Alpha*(reward+future)
}

func (s *SoftMaxNegPolicy) UpdateStep(_ *core.StepContext, step *core.Step) {
	s.update(step, step.Reward-1)
}

// SoftMaxNegFreqPolicy charges the visit count of the next state instead
// of a flat -1, pushing the agent towards unvisited grid configurations
type SoftMaxNegFreqPolicy struct {
	*SoftMaxNegPolicy
	Freq map[string]int
}

var _ core.Policy = &SoftMaxNegFreqPolicy{}

func NewSoftMaxNegFreqPolicy(alpha, gamma, temp float64) *SoftMaxNegFreqPolicy {
	return &SoftMaxNegFreqPolicy{
		SoftMaxNegPolicy: NewSoftMaxNegPolicy(alpha, gamma, temp),
		Freq:             make(map[string]int),
	}
}

func (t *SoftMaxNegFreqPolicy) Reset() {
	t.SoftMaxNegPolicy.Reset()
	t.Freq = make(map[string]int)
}

func (t *SoftMaxNegFreqPolicy) UpdateStep(_ *core.StepContext, step *core.Step) {
	nextStateHash := step.NextState.Hash()
	t.Freq[nextStateHash]++
	t.update(step, step.Reward-float64(t.Freq[nextStateHash]))
}

type SoftMaxNegFreqPolicyConstructor struct {
	alpha float64
	gamma float64
	temp  float64
}

var _ core.PolicyConstructor = &SoftMaxNegFreqPolicyConstructor{}

func NewSoftMaxNegFreqPolicyConstructor(alpha, gamma, temp float64) *SoftMaxNegFreqPolicyConstructor {
	return &SoftMaxNegFreqPolicyConstructor{
		alpha: alpha,
		gamma: gamma,
		temp:  temp,
	}
}

func (s *SoftMaxNegFreqPolicyConstructor) NewPolicy() core.Policy {
	return NewSoftMaxNegFreqPolicy(s.alpha, s.gamma, s.temp)
}

type SoftMaxNegPolicyConstructor struct {
	alpha float64
	gamma float64
	temp  float64
}

var _ core.PolicyConstructor = &SoftMaxNegPolicyConstructor{}

func NewSoftMaxNegPolicyConstructor(alpha, gamma, temp float64) *SoftMaxNegPolicyConstructor {
	return &SoftMaxNegPolicyConstructor{
		alpha: alpha,
		gamma: gamma,
		temp:  temp,
	}
}

func (s *SoftMaxNegPolicyConstructor) NewPolicy() core.Policy {
	return NewSoftMaxNegPolicy(s.alpha, s.gamma, s.temp)
}

package core

type Policy interface {
	ResetEpisode(*EpisodeContext)
	UpdateEpisode(*EpisodeContext)
	PickAction(*StepContext, State, []Action) Action
	// UpdateStep receives the full transition including the reward
	UpdateStep(*StepContext, *Step)
	Reset()
}

type PolicyConstructor interface {
	NewPolicy() Policy
}

// Recorder is implemented by policies that can persist what they learned
type Recorder interface {
	Record(path string) error
}

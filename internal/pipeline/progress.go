package pipeline

// ProgressEvent is one named milestone in a run. Consumers must tolerate
// step names that overlap across pipelines, but percent is strictly
// monotonic within one run.
type ProgressEvent struct {
	Step    string `json:"step"`
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

// ProgressCallback is invoked at named milestones per pipeline.
type ProgressCallback func(event ProgressEvent)

// progressTracker enforces strictly monotonic percent within one run.
type progressTracker struct {
	cb   ProgressCallback
	last int
}

func (t *progressTracker) emit(step string, percent int, message string) {
	if t.cb == nil {
		return
	}
	if percent <= t.last {
		percent = t.last + 1
	}
	if percent > 100 {
		percent = 100
	}
	t.last = percent
	t.cb(ProgressEvent{Step: step, Percent: percent, Message: message})
}

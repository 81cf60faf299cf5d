package encoder

// State names one stage of an encoder's life. Transitions only move
// forward: Idle -> Spawning -> Streaming -> Finishing -> Completed, with
// Failed reachable from any non-terminal state.
type State int

const (
	StateIdle State = iota
	StateSpawning
	StateStreaming
	StateFinishing
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpawning:
		return "spawning"
	case StateStreaming:
		return "streaming"
	case StateFinishing:
		return "finishing"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether the encoder is done, successfully or not.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

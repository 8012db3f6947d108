// internal/application/mint/state.go
package mint

import "fmt"

// State of a single claim attempt.
type State string

const (
	StateIdle             State = "IDLE"
	StateCapturing        State = "CAPTURING"
	StateUploadingLive    State = "UPLOADING_LIVE"
	StateUploadingPreview State = "UPLOADING_PREVIEW"
	StateResolvingRoyalty State = "RESOLVING_ROYALTY"
	StateMinting          State = "MINTING"
	StateDone             State = "DONE"
	StateFailed           State = "FAILED"
)

// forward edges; FAILED is reachable from every non-terminal state.
var nextState = map[State]State{
	StateIdle:             StateCapturing,
	StateCapturing:        StateUploadingLive,
	StateUploadingLive:    StateUploadingPreview,
	StateUploadingPreview: StateResolvingRoyalty,
	StateResolvingRoyalty: StateMinting,
	StateMinting:          StateDone,
}

func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// CanTransition reports whether from -> to is an edge of the claim machine.
func CanTransition(from, to State) bool {
	if from.Terminal() {
		return false
	}
	if to == StateFailed {
		return true
	}
	return nextState[from] == to
}

func mustTransition(from, to State) {
	if !CanTransition(from, to) {
		panic(fmt.Sprintf("mint: illegal transition %s -> %s", from, to))
	}
}

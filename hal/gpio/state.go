package gpio

// State is the configuration state a handle type stands for.
type State uint8

const (
	StateUndefined State = iota
	StateInput
	StateOutput
	StateAnalog
	StateAlternate

	numStates
)

func (s State) String() string {
	switch s {
	case StateUndefined:
		return "undefined"
	case StateInput:
		return "input"
	case StateOutput:
		return "output"
	case StateAnalog:
		return "analog"
	case StateAlternate:
		return "alternate"
	}
	return "invalid"
}

// MODER field codes.
const (
	ModeInput     uint32 = 0b00
	ModeOutput    uint32 = 0b01
	ModeAlternate uint32 = 0b10
	ModeAnalog    uint32 = 0b11
)

// code returns the MODER pattern for s; Undefined has none.
func (s State) code() (uint32, bool) {
	switch s {
	case StateInput:
		return ModeInput, true
	case StateOutput:
		return ModeOutput, true
	case StateAnalog:
		return ModeAnalog, true
	case StateAlternate:
		return ModeAlternate, true
	}
	return 0, false
}

// legal[from][to]: every configured state is reachable from every other
// state, never from itself, and nothing returns to Undefined.
var legal = [numStates][numStates]bool{
	StateUndefined: {StateInput: true, StateOutput: true, StateAnalog: true, StateAlternate: true},
	StateInput:     {StateOutput: true, StateAnalog: true, StateAlternate: true},
	StateOutput:    {StateInput: true, StateAnalog: true, StateAlternate: true},
	StateAnalog:    {StateInput: true, StateOutput: true, StateAlternate: true},
	StateAlternate: {StateInput: true, StateOutput: true, StateAnalog: true},
}

// Legal reports whether a handle in state from may become to.
func Legal(from, to State) bool {
	if from >= numStates || to >= numStates {
		return false
	}
	return legal[from][to]
}

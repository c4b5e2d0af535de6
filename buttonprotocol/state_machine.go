package buttonprotocol

import "fmt"

// ReaderState is the state of a LineReader.
//
// Failed is not terminal: the next NextLine call reads again and the reader
// moves back to Reading once a line arrives. Only Closed is terminal.
type ReaderState string

const (
	StateReading ReaderState = "reading"
	StateClosed  ReaderState = "closed"
	StateFailed  ReaderState = "failed"
)

type readerEvent string

const (
	eventLine  readerEvent = "line"
	eventEOF   readerEvent = "eof"
	eventError readerEvent = "error"
)

type transitionMap map[readerEvent]ReaderState

// readerTransitions holds map[state][event] = nextState.
var readerTransitions = map[ReaderState]transitionMap{
	StateReading: {
		eventLine:  StateReading,
		eventEOF:   StateClosed,
		eventError: StateFailed,
	},
	StateFailed: {
		eventLine:  StateReading,
		eventEOF:   StateClosed,
		eventError: StateFailed,
	},
	StateClosed: {},
}

type stateMachine struct {
	currentState ReaderState
	transitions  map[ReaderState]transitionMap
}

func newStateMachine(initialState ReaderState, transitions map[ReaderState]transitionMap) *stateMachine {
	return &stateMachine{
		currentState: initialState,
		transitions:  transitions,
	}
}

// Transition moves to the state registered for event in the current state.
func (sm *stateMachine) Transition(event readerEvent) (ReaderState, error) {
	next, ok := sm.transitions[sm.currentState][event]
	if !ok {
		return sm.currentState, fmt.Errorf("no transition from %s on %s", sm.currentState, event)
	}
	sm.currentState = next
	return next, nil
}

// CurrentState returns the current state.
func (sm *stateMachine) CurrentState() ReaderState {
	return sm.currentState
}

package buttonprotocol

import (
	"fmt"
	"strconv"
)

// ButtonState is the reported position of a button.
type ButtonState uint8

const (
	// Released is the resting state. It is also the fallback for every
	// state code outside stateCodes, including a missing field.
	Released ButtonState = iota
	// Pressed indicates the button is held down.
	Pressed
	// Between indicates the button is between released and pressed.
	Between
)

// stateCodes is the one authoritative mapping from state field text to
// ButtonState. Zero-padded codes are listed explicitly as equivalents.
// Anything absent from the table is Released.
var stateCodes = map[string]ButtonState{
	"1":  Pressed,
	"01": Pressed,
	"2":  Between,
	"02": Between,
}

// ParseButtonState maps state field text through the state table.
func ParseButtonState(text string) ButtonState {
	if state, ok := stateCodes[text]; ok {
		return state
	}
	return Released
}

// String returns the lowercase state name.
func (s ButtonState) String() string {
	switch s {
	case Released:
		return "released"
	case Pressed:
		return "pressed"
	case Between:
		return "between"
	default:
		return fmt.Sprintf("ButtonState(%d)", uint8(s))
	}
}

// Code returns the canonical wire code for the state.
func (s ButtonState) Code() int {
	return int(s)
}

// ButtonEvent is one decoded frame: which button, and what state it is in.
type ButtonEvent struct {
	Index uint8
	State ButtonState
}

// NewButtonEvent creates a button event.
func NewButtonEvent(index uint8, state ButtonState) ButtonEvent {
	return ButtonEvent{Index: index, State: state}
}

// Format returns the event as a frame without the line terminator.
func (e ButtonEvent) Format() string {
	return FrameOpen + strconv.Itoa(int(e.Index)) + FieldSeparator + strconv.Itoa(e.State.Code()) + FrameClose
}

// FormatLine returns the event as a complete protocol line.
func (e ButtonEvent) FormatLine() string {
	return e.Format() + LineTerminator
}

// String implements fmt.Stringer.
func (e ButtonEvent) String() string {
	return fmt.Sprintf("button %d %s", e.Index, e.State)
}

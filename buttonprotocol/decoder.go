package buttonprotocol

import (
	"regexp"
	"strconv"
	"strings"
)

// frameRE matches a whole frame once surrounding whitespace and the line
// terminator are trimmed. Field contents are deliberately loose so that the
// tolerant field policy, not the grammar, decides what a bad field means.
var frameRE = regexp.MustCompile(`^\{([^{},]*),([^{},]*)\}$`)

// DecodeResult is the classification of one line.
//
// When Matched is false, Event is the zero ButtonEvent (index 0, Released)
// and Line carries the original text for diagnostics.
type DecodeResult struct {
	Matched bool
	Event   ButtonEvent
	Line    string
}

// Decode parses one line into a ButtonEvent or classifies it as unmatched.
//
// The line may include or omit its terminator. An index field that is
// empty, non-numeric, or larger than 255 decodes as index 0; the frame is
// still matched. The state field goes through the state table, so any code
// other than 1, 01, 2 or 02 decodes as Released.
func Decode(line string) DecodeResult {
	frame := strings.TrimSpace(line)

	m := frameRE.FindStringSubmatch(frame)
	if m == nil {
		return DecodeResult{Line: line}
	}

	return DecodeResult{
		Matched: true,
		Event: ButtonEvent{
			Index: parseIndex(strings.TrimSpace(m[1])),
			State: ParseButtonState(strings.TrimSpace(m[2])),
		},
		Line: line,
	}
}

// parseIndex coerces the index field to a uint8, falling back to 0.
func parseIndex(field string) uint8 {
	n, err := strconv.ParseUint(field, 10, 8)
	if err != nil {
		return 0
	}
	return uint8(n)
}

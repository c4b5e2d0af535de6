package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stesel/hardware-tcp/buttonprotocol"
)

// translateInput turns one operator command into the protocol lines to
// broadcast, without terminators. Supported forms:
//
//	press N      {N,1}
//	release N    {N,0}
//	between N    {N,2}
//	tap N        {N,1} then {N,0}
//	raw TEXT     TEXT, verbatim
//	{...}        the frame, verbatim
//
// Anything else is an error. Blank input yields nothing.
func translateInput(line string) ([]string, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, buttonprotocol.FrameOpen) {
		return []string{trimmed}, nil
	}

	parts := strings.SplitN(trimmed, " ", 2)
	keyword := strings.ToLower(parts[0])
	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}

	switch keyword {
	case "press", "p":
		return frameFor(args, buttonprotocol.Pressed)
	case "release", "r":
		return frameFor(args, buttonprotocol.Released)
	case "between", "b":
		return frameFor(args, buttonprotocol.Between)
	case "tap", "t":
		press, err := frameFor(args, buttonprotocol.Pressed)
		if err != nil {
			return nil, err
		}
		release, _ := frameFor(args, buttonprotocol.Released)
		return append(press, release...), nil
	case "raw":
		if args == "" {
			return nil, fmt.Errorf("raw needs text to send")
		}
		return []string{args}, nil
	default:
		return nil, fmt.Errorf("unknown command %q (type .help)", keyword)
	}
}

func frameFor(arg string, state buttonprotocol.ButtonState) ([]string, error) {
	if arg == "" {
		return nil, fmt.Errorf("missing button index")
	}
	index, err := strconv.ParseUint(arg, 10, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid button index %q (want 0-255)", arg)
	}
	return []string{buttonprotocol.NewButtonEvent(uint8(index), state).Format()}, nil
}

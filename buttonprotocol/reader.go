package buttonprotocol

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// LineKind classifies the outcome of LineReader.NextLine.
type LineKind int

const (
	// LineText indicates a complete line was read.
	LineText LineKind = iota
	// LineEndOfStream indicates the peer closed the stream cleanly.
	LineEndOfStream
	// LineIOError indicates the read failed. The reader stays usable.
	LineIOError
)

// String returns a short name for the kind.
func (k LineKind) String() string {
	switch k {
	case LineText:
		return "line"
	case LineEndOfStream:
		return "end of stream"
	case LineIOError:
		return "io error"
	default:
		return fmt.Sprintf("LineKind(%d)", int(k))
	}
}

// LineResult is one outcome of LineReader.NextLine.
type LineResult struct {
	Kind LineKind
	Text string // For LineText: the line without "\n" or "\r\n"
	Err  error  // For LineIOError
}

// LineReader splits a byte stream into lines.
//
// Bytes that arrive without a delimiter are held until the rest of the line
// shows up, across any number of underlying reads and across read errors.
// Text in returned lines never includes the delimiter; a single trailing
// "\r" before the "\n" is stripped as well.
//
// A LineReader is not safe for concurrent use.
type LineReader struct {
	r  *bufio.Reader
	sm *stateMachine

	// pending holds the bytes of the line being assembled.
	pending []byte

	// discarding is set while skipping the remainder of an oversized line.
	discarding bool
}

// NewLineReader creates a LineReader over r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{
		r:  bufio.NewReaderSize(r, MaxLineLength),
		sm: newStateMachine(StateReading, readerTransitions),
	}
}

// State returns the reader's current state.
func (lr *LineReader) State() ReaderState {
	return lr.sm.CurrentState()
}

// NextLine blocks until a line, the end of the stream, or a read error.
//
// After LineIOError the caller may call NextLine again; partially received
// bytes are kept. After LineEndOfStream every call returns LineEndOfStream
// without touching the stream. A final fragment with no delimiter is
// returned as a line before LineEndOfStream is reported.
func (lr *LineReader) NextLine() LineResult {
	if lr.sm.CurrentState() == StateClosed {
		return LineResult{Kind: LineEndOfStream}
	}

	for {
		chunk, err := lr.r.ReadSlice('\n')
		if !lr.discarding {
			lr.pending = append(lr.pending, chunk...)
		}

		switch {
		case err == nil:
			if lr.discarding {
				lr.discarding = false
				continue
			}
			line := lr.takeLine()
			if len(line) > MaxLineLength {
				return lr.fail(ErrLineTooLong)
			}
			return lr.line(line)

		case errors.Is(err, bufio.ErrBufferFull):
			// Room for a trailing '\r' whose '\n' is still in flight.
			if !lr.discarding && len(lr.pending) > MaxLineLength+1 {
				lr.pending = lr.pending[:0]
				lr.discarding = true
				return lr.fail(ErrLineTooLong)
			}

		case errors.Is(err, io.EOF):
			if lr.discarding {
				lr.discarding = false
			} else if len(lr.pending) > 0 {
				line := lr.takeLine()
				if len(line) > MaxLineLength {
					return lr.fail(ErrLineTooLong)
				}
				return lr.line(line)
			}
			lr.transition(eventEOF)
			return LineResult{Kind: LineEndOfStream}

		default:
			return lr.fail(err)
		}
	}
}

// takeLine returns the pending bytes without their delimiter and resets
// the pending buffer.
func (lr *LineReader) takeLine() string {
	line := bytes.TrimSuffix(lr.pending, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	text := string(line)
	lr.pending = lr.pending[:0]
	return text
}

func (lr *LineReader) line(text string) LineResult {
	lr.transition(eventLine)
	return LineResult{Kind: LineText, Text: text}
}

func (lr *LineReader) fail(err error) LineResult {
	lr.transition(eventError)
	return LineResult{Kind: LineIOError, Err: err}
}

// transition cannot fail here: NextLine returns before reading once the
// reader is Closed, and every other state handles every event.
func (lr *LineReader) transition(event readerEvent) {
	_, _ = lr.sm.Transition(event)
}

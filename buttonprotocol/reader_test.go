package buttonprotocol

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readStep is one scripted Read call. Data larger than the caller's buffer
// is handed out over several calls and err is returned with the last part.
type readStep struct {
	data string
	err  error
}

// scriptedReader replays readSteps and then reports io.EOF forever.
type scriptedReader struct {
	steps []readStep
	reads int
}

func newScriptedReader(steps ...readStep) *scriptedReader {
	return &scriptedReader{steps: steps}
}

func (r *scriptedReader) Read(p []byte) (int, error) {
	r.reads++
	if len(r.steps) == 0 {
		return 0, io.EOF
	}

	step := r.steps[0]
	if len(step.data) > len(p) {
		n := copy(p, step.data)
		r.steps[0].data = step.data[n:]
		return n, nil
	}

	r.steps = r.steps[1:]
	n := copy(p, step.data)
	return n, step.err
}

var errBoom = errors.New("boom")

func requireLine(t *testing.T, lr *LineReader, want string) {
	t.Helper()
	got := lr.NextLine()
	require.Equal(t, LineText, got.Kind, "err: %v", got.Err)
	assert.Equal(t, want, got.Text)
	assert.NoError(t, got.Err)
}

func TestNextLineStripsTerminators(t *testing.T) {
	lr := NewLineReader(strings.NewReader("{8,1}\r\n{9,2}\nplain\r\n\r\n"))

	requireLine(t, lr, "{8,1}")
	requireLine(t, lr, "{9,2}")
	requireLine(t, lr, "plain")
	requireLine(t, lr, "")
	assert.Equal(t, LineEndOfStream, lr.NextLine().Kind)
}

func TestNextLineReassemblesSplitReads(t *testing.T) {
	lr := NewLineReader(newScriptedReader(
		readStep{data: "{8,"},
		readStep{data: "1}\r\n"},
	))

	requireLine(t, lr, "{8,1}")
	assert.Equal(t, LineEndOfStream, lr.NextLine().Kind)
}

func TestNextLineReassemblesSplitTerminator(t *testing.T) {
	lr := NewLineReader(newScriptedReader(
		readStep{data: "{8,1}\r"},
		readStep{data: "\n{"},
		readStep{data: "9"},
		readStep{data: ",02}"},
		readStep{data: "\r\n"},
	))

	requireLine(t, lr, "{8,1}")
	requireLine(t, lr, "{9,02}")
}

func TestNextLineByteAtATime(t *testing.T) {
	input := "Welcome\r\n{8,1}\r\n"
	steps := make([]readStep, 0, len(input))
	for i := 0; i < len(input); i++ {
		steps = append(steps, readStep{data: input[i : i+1]})
	}
	lr := NewLineReader(newScriptedReader(steps...))

	requireLine(t, lr, "Welcome")
	requireLine(t, lr, "{8,1}")
	assert.Equal(t, LineEndOfStream, lr.NextLine().Kind)
}

func TestNextLineEndOfStreamOnZeroBytes(t *testing.T) {
	r := newScriptedReader()
	lr := NewLineReader(r)

	got := lr.NextLine()
	assert.Equal(t, LineEndOfStream, got.Kind)
	assert.Equal(t, StateClosed, lr.State())

	reads := r.reads
	for i := 0; i < 3; i++ {
		assert.Equal(t, LineEndOfStream, lr.NextLine().Kind)
	}
	assert.Equal(t, reads, r.reads, "closed reader must not touch the stream")
}

func TestNextLineFinalFragment(t *testing.T) {
	lr := NewLineReader(newScriptedReader(readStep{data: "{8,1}", err: io.EOF}))

	requireLine(t, lr, "{8,1}")
	assert.Equal(t, StateReading, lr.State())
	assert.Equal(t, LineEndOfStream, lr.NextLine().Kind)
	assert.Equal(t, StateClosed, lr.State())
}

func TestNextLineErrorKeepsPartialLine(t *testing.T) {
	lr := NewLineReader(newScriptedReader(
		readStep{data: "{8,", err: errBoom},
		readStep{data: "1}\r\n"},
	))

	got := lr.NextLine()
	assert.Equal(t, LineIOError, got.Kind)
	assert.ErrorIs(t, got.Err, errBoom)
	assert.Equal(t, StateFailed, lr.State())

	requireLine(t, lr, "{8,1}")
	assert.Equal(t, StateReading, lr.State())
}

func TestNextLineRepeatedErrors(t *testing.T) {
	lr := NewLineReader(newScriptedReader(
		readStep{err: errBoom},
		readStep{err: errBoom},
		readStep{err: errBoom},
		readStep{data: "{1,1}\r\n"},
	))

	for i := 0; i < 3; i++ {
		got := lr.NextLine()
		assert.Equal(t, LineIOError, got.Kind)
		assert.ErrorIs(t, got.Err, errBoom)
		assert.Equal(t, StateFailed, lr.State())
	}
	requireLine(t, lr, "{1,1}")
	assert.Equal(t, LineEndOfStream, lr.NextLine().Kind)
}

func TestNextLineErrorThenEndOfStream(t *testing.T) {
	lr := NewLineReader(newScriptedReader(readStep{err: errBoom}))

	assert.Equal(t, LineIOError, lr.NextLine().Kind)
	assert.Equal(t, LineEndOfStream, lr.NextLine().Kind)
	assert.Equal(t, StateClosed, lr.State())
}

func TestNextLineMaxLength(t *testing.T) {
	exact := strings.Repeat("b", MaxLineLength)
	lr := NewLineReader(strings.NewReader(exact + "\r\n{1,1}\r\n"))

	requireLine(t, lr, exact)
	requireLine(t, lr, "{1,1}")
}

func TestNextLineTooLong(t *testing.T) {
	long := strings.Repeat("a", MaxLineLength+1)
	lr := NewLineReader(strings.NewReader(long + "\r\n{1,1}\r\n"))

	got := lr.NextLine()
	assert.Equal(t, LineIOError, got.Kind)
	assert.ErrorIs(t, got.Err, ErrLineTooLong)

	requireLine(t, lr, "{1,1}")
}

func TestNextLineDiscardsOversizedLine(t *testing.T) {
	huge := strings.Repeat("a", 10*MaxLineLength)
	lr := NewLineReader(strings.NewReader(huge + "\r\n{2,1}\r\n"))

	got := lr.NextLine()
	assert.Equal(t, LineIOError, got.Kind)
	assert.ErrorIs(t, got.Err, ErrLineTooLong)

	requireLine(t, lr, "{2,1}")
	assert.Equal(t, LineEndOfStream, lr.NextLine().Kind)
}

func TestNextLineOversizedLineAtEndOfStream(t *testing.T) {
	huge := strings.Repeat("a", 3*MaxLineLength)
	lr := NewLineReader(strings.NewReader(huge))

	assert.Equal(t, LineIOError, lr.NextLine().Kind)
	assert.Equal(t, LineEndOfStream, lr.NextLine().Kind)
}

func TestLineKindString(t *testing.T) {
	assert.Equal(t, "line", LineText.String())
	assert.Equal(t, "end of stream", LineEndOfStream.String())
	assert.Equal(t, "io error", LineIOError.String())
	assert.Equal(t, "LineKind(9)", LineKind(9).String())
}

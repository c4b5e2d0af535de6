package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestEditor creates a non-interactive LineEditor reading from a pipe.
// Callers write input to the returned writer and close it to signal EOF.
func newTestEditor(t *testing.T) (*LineEditor, *os.File, *bytes.Buffer) {
	t.Helper()

	reader, writer, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		reader.Close()
		writer.Close()
	})

	var prompts bytes.Buffer
	editor := NewLineEditor(reader, &prompts)
	t.Cleanup(editor.Close)

	return editor, writer, &prompts
}

func TestNewLineEditorNonInteractiveForPipe(t *testing.T) {
	editor, _, _ := newTestEditor(t)
	assert.False(t, editor.IsInteractive())
	assert.Nil(t, editor.rl)
	assert.NotNil(t, editor.scanner)
}

func TestGetLineReadsSuccessiveLines(t *testing.T) {
	editor, writer, prompts := newTestEditor(t)

	fmt.Fprint(writer, "press 8\n{09,02}\n\nlast")
	writer.Close()

	for _, want := range []string{"press 8", "{09,02}", "", "last"} {
		line, err := editor.GetLine("sim> ")
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}

	_, err := editor.GetLine("sim> ")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "sim> sim> sim> sim> sim> ", prompts.String())
}

func TestGetLineEOFOnEmptyPipe(t *testing.T) {
	editor, writer, _ := newTestEditor(t)
	writer.Close()

	_, err := editor.GetLine("> ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestCloseIsIdempotent(t *testing.T) {
	editor, _, _ := newTestEditor(t)
	assert.NotPanics(t, func() {
		editor.Close()
		editor.Close()
	})
}

func TestHistorySettings(t *testing.T) {
	assert.Equal(t, ".button_sim_history", historyFileName)
	assert.Positive(t, historySize)
}

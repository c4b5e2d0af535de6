// =============================================================================
// lineeditor.go - Operator Input for the Simulator
// =============================================================================
//
// The simulator reads operator commands through a dual-mode line editor:
//
//   - Interactive mode: ergochat/readline with Emacs keybindings and a
//     persistent history file, used when stdin is a terminal.
//   - Non-interactive mode: bufio.Scanner, used when input is piped (a
//     script of frames, for example). The prompt is still printed so a
//     transcript reads the same either way.
//
// =============================================================================

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	// historyFileName is the history file in the user's home directory.
	historyFileName = ".button_sim_history"

	// historySize is the maximum number of history entries to retain.
	historySize = 500
)

// LineEditor reads operator input in interactive or piped mode.
type LineEditor struct {
	// interactive is true when input is a terminal outside Emacs.
	interactive bool

	// rl is the readline instance in interactive mode, nil otherwise.
	rl *readline.Instance

	// scanner reads piped input in non-interactive mode, nil otherwise.
	scanner *bufio.Scanner

	// out receives prompts in non-interactive mode.
	out io.Writer
}

// NewLineEditor creates a line editor, picking the mode from whether in is
// a terminal. Interactive mode reads through readline, which always uses
// the process's stdin, so in should be os.Stdin outside of tests. Prompts
// in piped mode are written to out.
func NewLineEditor(in *os.File, out io.Writer) *LineEditor {
	isInteractive := term.IsTerminal(int(in.Fd())) &&
		os.Getenv("INSIDE_EMACS") == ""

	if !isInteractive {
		return newPipedEditor(in, out)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyPath(),
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
		Prompt:                 "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newPipedEditor(in, out)
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
		out:         out,
	}
}

func newPipedEditor(in io.Reader, out io.Writer) *LineEditor {
	return &LineEditor{
		interactive: false,
		scanner:     bufio.NewScanner(in),
		out:         out,
	}
}

// historyPath returns the history file location, or "" (no history) when
// the home directory is unknown.
func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFileName)
}

// GetLine displays prompt and reads one line. Ctrl-C and end of input both
// return io.EOF.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getPipedLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *LineEditor) getPipedLine(prompt string) (string, error) {
	fmt.Fprint(le.out, prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Close releases the readline instance. It is safe to call more than once.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive reports whether the editor uses readline.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}

// =============================================================================
// render.go - Terminal Output for Button Sessions
// =============================================================================
//
// Each session gets its own sessionPrinter, which implements the
// buttonprotocol.Consumer interface. All printers share one printer so
// lines from concurrent sessions never interleave mid-line.
//
// Only the content of a line is meaningful (port, index, state, raw text).
// Colors are decoration and are dropped when output is not a terminal.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/stesel/hardware-tcp/buttonprotocol"
)

// styles holds the lipgloss styles used for rendered output.
type styles struct {
	port     lipgloss.Style
	released lipgloss.Style
	pressed  lipgloss.Style
	between  lipgloss.Style
	notice   lipgloss.Style
	warning  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		port:     r.NewStyle().Foreground(lipgloss.Color("8")),
		released: r.NewStyle().Foreground(lipgloss.Color("7")),
		pressed:  r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		between:  r.NewStyle().Foreground(lipgloss.Color("11")),
		notice:   r.NewStyle().Faint(true),
		warning:  r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// stateStyle returns the style for a button state.
func (s styles) stateStyle(state buttonprotocol.ButtonState) lipgloss.Style {
	switch state {
	case buttonprotocol.Pressed:
		return s.pressed
	case buttonprotocol.Between:
		return s.between
	default:
		return s.released
	}
}

// newRenderer creates a lipgloss renderer for out honoring the color mode.
func newRenderer(out io.Writer, mode string) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(out)
	switch mode {
	case colorNever:
		r.SetColorProfile(termenv.Ascii)
	case colorAlways:
		r.SetColorProfile(termenv.ANSI256)
	default:
		if !isTerminal(out) {
			r.SetColorProfile(termenv.Ascii)
		}
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printer serializes rendered lines from every session onto one writer.
type printer struct {
	mu     sync.Mutex
	out    io.Writer
	styles styles
	raw    bool
}

func newPrinter(out io.Writer, colorMode string, raw bool) *printer {
	return &printer{
		out:    out,
		styles: newStyles(newRenderer(out, colorMode)),
		raw:    raw,
	}
}

func (p *printer) println(port int, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s %s\n", p.styles.port.Render(fmt.Sprintf("[%d]", port)), text)
}

// forSession returns the consumer for the session on port.
func (p *printer) forSession(port int) *sessionPrinter {
	return &sessionPrinter{printer: p, port: port}
}

// sessionPrinter renders one session's output.
type sessionPrinter struct {
	*printer
	port int
}

var (
	_ buttonprotocol.Consumer        = (*sessionPrinter)(nil)
	_ buttonprotocol.ConnectObserver = (*sessionPrinter)(nil)
)

func (sp *sessionPrinter) OnConnected(address string) {
	sp.println(sp.port, sp.styles.notice.Render(
		fmt.Sprintf("Successfully connected to server in port %d.", sp.port)))
}

func (sp *sessionPrinter) OnEvent(event buttonprotocol.ButtonEvent, raw string) {
	if sp.raw {
		sp.println(sp.port, fmt.Sprintf("Data reply: %q", raw))
		return
	}
	state := sp.styles.stateStyle(event.State).Render(event.State.String())
	sp.println(sp.port, fmt.Sprintf("button %d %s", event.Index, state))
}

func (sp *sessionPrinter) OnUnmatched(line string) {
	if sp.raw {
		sp.println(sp.port, fmt.Sprintf("Data reply: %q", line))
		return
	}
	sp.println(sp.port, sp.styles.notice.Render(fmt.Sprintf("Unmatched line: %q", line)))
}

func (sp *sessionPrinter) OnReadError(err error) {
	sp.println(sp.port, sp.styles.warning.Render(fmt.Sprintf("Data error: %v", err)))
}

func (sp *sessionPrinter) OnClosed() {
	sp.println(sp.port, sp.styles.notice.Render("Data is closed."))
}

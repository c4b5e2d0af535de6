package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// lineSource is the part of LineEditor the REPL needs.
type lineSource interface {
	GetLine(prompt string) (string, error)
}

// frameSink is the part of broadcaster the REPL needs.
type frameSink interface {
	Broadcast(line string) int
	ClientCount() int
}

const prompt = "sim> "

// runREPL reads operator commands and broadcasts the frames they produce
// until .quit or end of input.
func runREPL(input lineSource, sink frameSink, out io.Writer) error {
	for {
		line, err := input.GetLine(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		switch strings.TrimSpace(line) {
		case ".quit":
			return nil
		case ".help":
			printHelp(out)
			continue
		case ".clients":
			fmt.Fprintf(out, "%d client(s) connected\n", sink.ClientCount())
			continue
		}

		frames, err := translateInput(line)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		for _, frame := range frames {
			n := sink.Broadcast(frame)
			fmt.Fprintf(out, "sent %s to %d client(s)\n", frame, n)
		}
	}
}

func printHelp(out io.Writer) {
	fmt.Fprint(out, `Commands:
  press N      Send {N,1}              (alias: p)
  release N    Send {N,0}              (alias: r)
  between N    Send {N,2}              (alias: b)
  tap N        Send {N,1} then {N,0}   (alias: t)
  raw TEXT     Send TEXT verbatim
  {i,s}        Send a frame verbatim
  .clients     Show connected clients
  .help        Show this help
  .quit        Exit
`)
}

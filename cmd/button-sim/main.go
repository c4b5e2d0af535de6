// =============================================================================
// main.go - Button Sensor Simulator Entry Point
// =============================================================================
//
// button-sim stands in for a physical button sensor endpoint during
// development. It listens on the loopback address, greets every client
// with a non-frame line, and broadcasts frames typed by the operator.
//
// Usage:
//
//	button-sim                      Listen on 127.0.0.1:9992
//	button-sim --port 9993          Listen on another port
//	button-sim --greeting ""        Do not greet clients
//	echo "tap 8" | button-sim       Scripted input
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/stesel/hardware-tcp/buttonprotocol"
	"github.com/stesel/hardware-tcp/internal/logging"
)

const (
	appName = "button-sim"

	// defaultGreeting is the first line sent to each client.
	defaultGreeting = "Welcome"
)

// arguments holds the parsed command-line arguments.
type arguments struct {
	host     string
	port     int
	greeting string
	logLevel string
	showHelp bool
}

func parseArguments(argv []string) (arguments, error) {
	var a arguments
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&a.host, "host", buttonprotocol.DefaultHost, "address to listen on")
	fs.IntVarP(&a.port, "port", "p", buttonprotocol.DefaultPort, "port to listen on")
	fs.StringVar(&a.greeting, "greeting", defaultGreeting, "line sent to each new client (empty to disable)")
	fs.StringVar(&a.logLevel, "log-level", "info", "diagnostics level: debug, info, warn, error")
	fs.BoolVarP(&a.showHelp, "help", "h", false, "show this help")

	if err := fs.Parse(argv); err != nil {
		return arguments{}, err
	}
	if fs.NArg() > 0 {
		return arguments{}, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	endpoint := buttonprotocol.Config{Host: a.host, Port: a.port}
	if err := endpoint.Validate(); err != nil {
		return arguments{}, err
	}
	if err := logging.ValidateLevel(a.logLevel); err != nil {
		return arguments{}, err
	}
	return a, nil
}

func (a arguments) address() string {
	return net.JoinHostPort(a.host, strconv.Itoa(a.port))
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `USAGE: button-sim [options]

OPTIONS:
      --host <host>       Address to listen on (default 127.0.0.1)
  -p, --port <port>       Port to listen on (default 9992)
      --greeting <text>   First line sent to each client (default "Welcome")
      --log-level <l>     debug, info, warn or error (default info)
  -h, --help              Show this help

Type .help at the prompt for commands.
`)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	args, err := parseArguments(argv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printUsage(os.Stderr)
		return 1
	}
	if args.showHelp {
		printUsage(os.Stdout)
		return 0
	}

	logger, err := logging.New(args.logLevel, appName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	server, err := listen(args.address(), args.greeting, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: listen on %s: %v\n", args.address(), err)
		return 1
	}
	defer server.Close()

	fmt.Printf("Simulating sensor endpoint on %s. Type .help for commands.\n", server.Addr())

	editor := NewLineEditor(os.Stdin, os.Stdout)
	defer editor.Close()

	if err := runREPL(editor, server, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

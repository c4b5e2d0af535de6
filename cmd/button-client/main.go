// =============================================================================
// main.go - Button Client Entry Point
// =============================================================================
//
// button-client connects to one or more local sensor endpoints and prints
// every button event they report. Each configured port gets its own
// session, with its own connection and line reader.
//
// Usage:
//
//	button-client                         Read 127.0.0.1:9992
//	button-client --port 9992 --port 9993 Read two endpoints
//	button-client --raw                   Print lines verbatim
//	button-client --config client.yaml    Load settings from a file
//	button-client --help                  Show help
//
// A session ends when its endpoint closes the connection. There is no
// reconnection: when every session has ended the program exits.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/stesel/hardware-tcp/buttonprotocol"
	"github.com/stesel/hardware-tcp/internal/logging"
)

const (
	// version is the current version of the button client.
	version = "0.3.0"

	// appName is the application name.
	appName = "button-client"
)

// fullTitle returns the application name with version.
func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

// arguments holds the parsed command-line arguments.
type arguments struct {
	// configPath is the YAML config file. Empty means BUTTON_CLIENT_CONFIG,
	// and if that is unset too, no file at all.
	configPath string

	host     string
	ports    []int
	logLevel string
	raw      bool
	color    string

	showHelp    bool
	showVersion bool

	// flags is kept so overrides can ask which flags were set explicitly.
	flags *pflag.FlagSet
}

// GO CONCEPT: FlagSet instead of the global flag set
// ---------------------------------------------------
// pflag.CommandLine is process-wide state. Building a fresh FlagSet per
// call keeps parseArguments a plain function of its input, so tests can
// call it as often as they like.
func parseArguments(args []string) (arguments, error) {
	defaults := defaultClientConfig()

	var a arguments
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	fs.StringVar(&a.host, "host", defaults.Host, "sensor endpoint host")
	fs.IntSliceVarP(&a.ports, "port", "p", defaults.Ports, "sensor endpoint port (repeatable)")
	fs.StringVar(&a.logLevel, "log-level", defaults.LogLevel, "diagnostics level: debug, info, warn, error")
	fs.BoolVar(&a.raw, "raw", false, "print received lines verbatim")
	fs.StringVar(&a.color, "color", defaults.Color, "colorize output: auto, always, never")
	fs.BoolVarP(&a.showHelp, "help", "h", false, "show this help")
	fs.BoolVarP(&a.showVersion, "version", "v", false, "show version")

	if err := fs.Parse(args); err != nil {
		return arguments{}, err
	}
	if fs.NArg() > 0 {
		return arguments{}, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	a.flags = fs
	return a, nil
}

// resolveConfig layers defaults, the config file and explicit flags.
func resolveConfig(a arguments) (clientConfig, error) {
	cfg := defaultClientConfig()

	path := a.configPath
	if path == "" {
		path = os.Getenv(configEnvVar)
	}
	if path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return clientConfig{}, err
		}
	}

	if a.flags != nil {
		if a.flags.Changed("host") {
			cfg.Host = a.host
		}
		if a.flags.Changed("port") {
			cfg.Ports = a.ports
		}
		if a.flags.Changed("log-level") {
			cfg.LogLevel = a.logLevel
		}
		if a.flags.Changed("raw") {
			cfg.Raw = a.raw
		}
		if a.flags.Changed("color") {
			cfg.Color = a.color
		}
	}

	if err := cfg.validate(); err != nil {
		return clientConfig{}, err
	}
	return cfg, nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `USAGE: button-client [options]

OPTIONS:
  -c, --config <path>   YAML config file (or set BUTTON_CLIENT_CONFIG)
      --host <host>     Sensor endpoint host (default 127.0.0.1)
  -p, --port <port>     Sensor endpoint port, repeatable (default 9992)
      --raw             Print every received line verbatim
      --color <mode>    auto, always or never (default auto)
      --log-level <l>   debug, info, warn or error (default info)
  -h, --help            Show this help
  -v, --version         Show version

CONFIG FILE:
  host: 127.0.0.1
  ports: [9992, 9993]
  log_level: info
  raw: false
  color: auto

Flags override the config file, which overrides the defaults.
`)
}

func printError(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}

// startSessions starts one session per configured endpoint.
func startSessions(ctx context.Context, cfg clientConfig, out *printer, opts ...buttonprotocol.Option) []*buttonprotocol.Session {
	endpoints := cfg.sessionConfigs()
	sessions := make([]*buttonprotocol.Session, 0, len(endpoints))
	for _, endpoint := range endpoints {
		sessions = append(sessions, buttonprotocol.Start(ctx, endpoint, out.forSession(endpoint.Port), opts...))
	}
	return sessions
}

// waitSessions waits for every session and joins their errors.
func waitSessions(sessions []*buttonprotocol.Session) error {
	var errs []error
	for _, s := range sessions {
		if err := s.Wait(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// setupSignalHandler closes every session on SIGINT or SIGTERM. main then
// finishes normally once the sessions report they are done.
func setupSignalHandler(sessions []*buttonprotocol.Session) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	var once sync.Once
	go func() {
		select {
		case <-sigCh:
			for _, s := range sessions {
				s.Close()
			}
		case <-done:
		}
	}()

	return func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(done)
		})
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is main without os.Exit, returning the process exit code.
func run(argv []string) int {
	args, err := parseArguments(argv)
	if err != nil {
		printError(err.Error())
		printUsage(os.Stderr)
		return 1
	}

	if args.showHelp {
		printUsage(os.Stdout)
		return 0
	}
	if args.showVersion {
		fmt.Println(fullTitle())
		return 0
	}

	cfg, err := resolveConfig(args)
	if err != nil {
		printError(err.Error())
		return 1
	}

	logger, err := logging.New(cfg.LogLevel, appName)
	if err != nil {
		printError(err.Error())
		return 1
	}
	defer logger.Sync()

	logger.Debugw("Resolved configuration",
		"host", cfg.Host,
		"ports", cfg.Ports,
		"raw", cfg.Raw,
		"color", cfg.Color)

	out := newPrinter(os.Stdout, cfg.Color, cfg.Raw)
	sessions := startSessions(context.Background(), cfg, out, buttonprotocol.WithLogger(logger))
	stopSignals := setupSignalHandler(sessions)
	defer stopSignals()

	err = waitSessions(sessions)
	fmt.Println("Connection is terminated.")
	if err != nil {
		printError(err.Error())
		return 1
	}
	return 0
}

// gaplan - KNX group address planner
//
// gaplan turns a building project (areas, rooms and function instances)
// into a KNX group address plan and writes it in a format ETS can import.
//
// Commands:
//   - new: create a project file from a built-in template
//   - generate: build the address plan and export it
//   - validate: check a project for export problems
//   - template: edit the name template interactively
//   - publish: send the plan to the MQTT broker
//   - check: compare an ETS export with the plan
//   - cache: list or prune memoised plans
//   - version: print build information
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/infrastructure/config"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

var (
	errNoCommand      = errors.New("no command given")
	errUnknownCommand = errors.New("unknown command")
	errUsage          = errors.New("invalid arguments")
)

// command runs one subcommand with its remaining arguments.
type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"new":      {"create a project file from a template", cmdNew},
	"generate": {"generate and export the group address plan", cmdGenerate},
	"validate": {"check a project for export problems", cmdValidate},
	"template": {"edit the name template interactively", cmdTemplate},
	"publish":  {"publish the plan over MQTT", cmdPublish},
	"check":    {"compare an ETS export with the plan", cmdCheck},
	"cache":    {"list or prune cached plans", cmdCache},
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// run parses global flags, loads configuration and dispatches to the
// requested command.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - args: Command line arguments without the program name
//   - stdout: Destination for command output
//
// Returns:
//   - error: nil on success, or error describing failure
func run(ctx context.Context, args []string, stdout io.Writer) error {
	global := flag.NewFlagSet("gaplan", flag.ContinueOnError)
	configPath := global.String("config", getConfigPath(), "path to the configuration file")
	global.Usage = func() { usage(global.Output()) }
	if err := global.Parse(args); err != nil {
		return err
	}

	rest := global.Args()
	if len(rest) == 0 {
		usage(global.Output())
		return errNoCommand
	}
	name, cmdArgs := rest[0], rest[1:]

	if name == "version" {
		fmt.Fprintf(stdout, "gaplan %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}

	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownCommand, name)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.Logging, version)
	defer func() {
		if closeErr := log.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "closing log: %v\n", closeErr)
		}
	}()
	log.Debug("configuration loaded", "path", *configPath, "command", name)

	return cmd.run(ctx, &app{cfg: cfg, log: log, out: stdout}, cmdArgs)
}

// getConfigPath returns the configuration file path.
// Uses GAPLAN_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GAPLAN_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// loadConfig reads the configuration. Only the default path may be absent;
// a path the operator named must exist.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		return config.LoadOrDefault(path)
	}
	return config.Load(path)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gaplan [-config file] <command> [flags] [project]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(w, "  %-10s %s\n", "version", "print build information")
}

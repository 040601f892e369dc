package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"parley/internal/backend"
	"parley/internal/config"
	"parley/internal/monitor"
	"parley/internal/ui/plainout"
)

// runWatch builds the handler for the watch command.
func runWatch(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", defaultConfigPath, "Path to .parley.yml")
		uiMode := fs.String("ui", "", "Output mode override: auto|live|plain")
		noColor := fs.Bool("no-color", false, "Disable color output")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		jobID := fs.Arg(0)
		if jobID == "" {
			fmt.Fprintln(stderr, "Missing <job-id>")
			return ExitUsage
		}
		if fs.NArg() > 1 {
			fmt.Fprintln(stderr, "Too many arguments")
			return ExitUsage
		}

		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		decision, err := resolveUIMode(firstNonEmpty(*uiMode, cfg.UI), stdout)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		client, err := backend.NewClient(cfg.Backend.BaseURL, nil)
		if err != nil {
			fmt.Fprintf(stderr, "Invalid backend: %v\n", err)
			return ExitError
		}

		opts := monitor.Options{Estimates: cfg.PhaseEstimates()}
		if !decision.useLive {
			opts.Observer = plainout.NewObserver(stdout)
		}
		session := monitor.NewSession(client, opts)

		if err := session.Attach(context.Background(), jobID, cfg.ScoutEnabled(), cfg.FragilityEnabled()); err != nil {
			fmt.Fprintf(stderr, "Failed to attach: %v\n", err)
			return ExitError
		}

		return monitorSession(session, decision.useLive, *noColor, stdout)
	}
}

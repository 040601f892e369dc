package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"parley/internal/backend"
	"parley/internal/config"
	"parley/internal/monitor"
	"parley/internal/ui/live"
	"parley/internal/ui/plainout"
)

// runRun builds the handler for the run command.
func runRun(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", defaultConfigPath, "Path to .parley.yml")
		uiMode := fs.String("ui", "", "Output mode override: auto|live|plain")
		mode := fs.String("mode", "", "Routing mode override")
		noColor := fs.Bool("no-color", false, "Disable color output")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		question := strings.TrimSpace(strings.Join(fs.Args(), " "))
		if question == "" {
			fmt.Fprintln(stderr, "Missing <question>")
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

		req, err := buildStartRequest(&cfg, question, *mode, config.BaseDirFromConfigPath(*configPath))
		if err != nil {
			fmt.Fprintf(stderr, "Failed to build request: %v\n", err)
			return ExitError
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

		jobID, err := session.Start(context.Background(), req)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to start conference: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stderr, "Conference %s started\n", jobID)

		return monitorSession(session, decision.useLive, *noColor, stdout)
	}
}

// monitorSession follows a session to its end in the selected mode.
func monitorSession(session *monitor.Session, useLive, noColor bool, stdout io.Writer) int {
	if useLive {
		controller := live.Start(stdout, session, live.Options{NoColor: noColor})
		controller.Wait()
		// A quit before the terminal event is a user-initiated stop.
		select {
		case <-session.Done():
		default:
			session.Stop()
		}
	} else {
		<-session.Done()
	}
	return printOutcome(session, stdout)
}

// printOutcome renders the terminal state and maps it to an exit code.
func printOutcome(session *monitor.Session, stdout io.Writer) int {
	snap := session.Snapshot()
	switch {
	case snap.State.Result != nil:
		fmt.Fprintf(stdout, "Result (confidence %.2f):\n%s\n", snap.State.Result.Confidence, snap.State.Result.Answer)
		return ExitOK
	case snap.State.Err != "":
		fmt.Fprintf(stdout, "Conference failed: %s\n", snap.State.Err)
		return ExitError
	default:
		fmt.Fprintln(stdout, "Conference stopped")
		return ExitOK
	}
}

// buildStartRequest assembles the backend request from config and flags.
func buildStartRequest(cfg *config.Config, question, modeOverride, baseDir string) (backend.StartRequest, error) {
	req := backend.StartRequest{
		Question: question,
		Mode:     firstNonEmpty(modeOverride, cfg.Mode),
		Scout:    cfg.ScoutEnabled(),
		Fragility: backend.FragilityRequest{
			Enabled: cfg.FragilityEnabled(),
			Tests:   cfg.Fragility.Tests,
		},
	}
	for _, participant := range cfg.Participants {
		if participant.Enabled != nil && !*participant.Enabled {
			continue
		}
		req.Participants = append(req.Participants, backend.Participant{
			Role:    participant.Role,
			Model:   participant.Model,
			Enabled: true,
		})
	}
	for _, doc := range cfg.Documents {
		path := doc
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return backend.StartRequest{}, fmt.Errorf("read document %s: %w", doc, err)
		}
		req.Documents = append(req.Documents, backend.Document{
			Name:    filepath.Base(doc),
			Content: string(content),
		})
	}
	return req, nil
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

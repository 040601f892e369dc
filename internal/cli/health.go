package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"parley/internal/backend"
	"parley/internal/config"
)

// runHealth builds the handler for the health command.
func runHealth(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", defaultConfigPath, "Path to .parley.yml")
		baseURL := fs.String("base-url", "", "Backend base URL override")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		cfg := config.Config{}
		config.Normalize(&cfg)
		if *baseURL == "" {
			if _, err := os.Stat(*configPath); err == nil {
				loaded, err := config.Load(*configPath)
				if err != nil {
					fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
					return ExitError
				}
				cfg = loaded
			}
		} else {
			cfg.Backend.BaseURL = *baseURL
		}

		client, err := backend.NewClient(cfg.Backend.BaseURL, nil)
		if err != nil {
			fmt.Fprintf(stderr, "Invalid backend: %v\n", err)
			return ExitError
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
		defer cancel()
		if err := client.Health(ctx); err != nil {
			fmt.Fprintf(stderr, "Backend unreachable: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Backend reachable at %s\n", cfg.Backend.BaseURL)
		return ExitOK
	}
}

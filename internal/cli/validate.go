package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"parley/internal/config"
)

// runValidate builds the handler for the validate command.
func runValidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", defaultConfigPath, "Path to .parley.yml")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		if _, err := config.Load(*configPath); err != nil {
			var verr *config.ValidationError
			if errors.As(err, &verr) {
				for _, issue := range verr.Issues {
					fmt.Fprintf(stderr, "%s: %s\n", issue.Field, issue.Message)
				}
				return ExitError
			}
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "%s is valid\n", *configPath)
		return ExitOK
	}
}

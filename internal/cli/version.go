package cli

import (
	"fmt"
	"io"
	"runtime/debug"
)

// Version is the release string, overridden at build time via -ldflags.
var Version = "dev"

// runVersion builds the handler for the version command.
func runVersion(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fmt.Fprintf(stdout, "parley %s\n", resolveVersion())
		return ExitOK
	}
}

// resolveVersion falls back to module build info for go-installed binaries.
func resolveVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

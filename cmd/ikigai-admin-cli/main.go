// Command ikigai-admin-cli inspects the dashboard registry and the backend it reads from.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/ai-ikigai/admin-dashboard/config"
	"github.com/ai-ikigai/admin-dashboard/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	// needsConfig commands read the environment configuration first.
	needsConfig bool
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
}

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stderr); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Out:    os.Stdout,
	}
	if cmd.needsConfig {
		cfg, err := bootstrap.LoadConfig()
		if err != nil {
			logger.ErrorContext(cmdCtx.Ctx, "load config", "error", err)
			os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
		}
		cmdCtx.Config = cfg
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"sections": {
			name:        "sections",
			description: "List registered sections with their titles and resources",
			run:         runSections,
		},
		"probe": {
			name:        "probe",
			description: "Fetch every backend resource and report live data versus fallback",
			needsConfig: true,
			run:         runProbe,
		},
		"render": {
			name:        "render",
			description: "Print the fallback view model of a section as JSON",
			run:         runRender,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: ikigai-admin-cli <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-12s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, args...)
	return err
}

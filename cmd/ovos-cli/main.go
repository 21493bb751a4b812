package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/OpenVoiceOS/ovos-cli-client/internal/app"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/render"
)

func main() {
	os.Exit(run())
}

func run() int {
	// SIGINT is left to the app: the dashboard treats it like ctrl+x.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ovos-cli: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		opts     app.Options
		debugLog string
	)

	cmd := &cobra.Command{
		Use:   "ovos-cli",
		Short: "Terminal dashboard for a running OpenVoiceOS assistant",
		Long: `ovos-cli tails the assistant's log files and microphone level, shows the
conversation and lets you type utterances or ':' commands.

Type :help inside the dashboard for the list of commands.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			closeLog, err := setupLogging(debugLog, opts.Simple)
			if err != nil {
				return err
			}
			defer closeLog()
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.Simple, "simple", false, "line-oriented client without the dashboard")
	flags.StringVar(&opts.ConfigPath, "config", "", "core config file (default: system and user mycroft.conf)")
	flags.StringVar(&opts.SettingsPath, "settings", "", "CLI settings file (default: ~/.config/mycroft/mycroft_cli.conf)")
	flags.StringVar(&opts.LogDir, "log-dir", "", "directory of *.log files to tail (overrides log_dir)")
	flags.StringVar(&opts.BusURL, "bus", "", "messagebus websocket URL (overrides the websocket config)")
	flags.IntVar(&opts.Backfill, "backfill", 0, "show the last N lines of each log file at startup")
	flags.StringVar(&opts.Theme, "theme", render.ThemeNames()[0], "colour theme: "+strings.Join(render.ThemeNames(), ", "))
	flags.StringVar(&debugLog, "debug-log", "", "write diagnostics to this file")

	_ = cmd.RegisterFlagCompletionFunc("theme", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return render.ThemeNames(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// setupLogging keeps log output off the terminal while the dashboard owns
// it. Simple mode logs to stderr unless a file is given.
func setupLogging(path string, simple bool) (func(), error) {
	if path != "" {
		f, err := tea.LogToFile(path, "ovos-cli")
		if err != nil {
			return nil, fmt.Errorf("open debug log: %w", err)
		}
		return func() { _ = f.Close() }, nil
	}
	if !simple {
		log.SetOutput(io.Discard)
	}
	return func() {}, nil
}

// Package cli implements the claudelens command line: browsing, searching
// and watching the local Claude Code conversation archive.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"claudelens/internal/archive"
	"claudelens/internal/history"
	"claudelens/internal/logging"
	"claudelens/internal/sessions"
	"claudelens/internal/settings"
)

var Version = "dev"

// env holds what every subcommand needs once flags and the settings file
// have been resolved.
type env struct {
	claudeDir string
	configDir string
	logLevel  string
	output    string
	pretty    bool

	settings settings.Settings
	layout   archive.Layout
	store    *history.Store
	tracker  *sessions.Tracker
	names    *settings.SessionManager
}

func (e *env) load(cmd *cobra.Command) error {
	if err := validateOutput(e.output); err != nil {
		return err
	}

	manager, err := settings.NewManager(e.configDir)
	if err != nil {
		return err
	}
	e.configDir = manager.GetConfigPath()
	e.settings = manager.GetSettings()

	if e.claudeDir != "" {
		e.settings.ClaudeDir = e.claudeDir
	}
	if e.logLevel != "" {
		e.settings.LogLevel = e.logLevel
	}
	logging.Setup(e.settings.LogLevel, e.pretty, cmd.ErrOrStderr())

	e.layout = archive.NewLayout(e.settings.ClaudeDir)
	e.store = history.NewStore(e.layout)
	e.tracker = sessions.NewTracker(e.layout)

	e.names, err = settings.NewSessionManager(e.configDir)
	return err
}

func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:          "claudelens",
		Short:        "Browse and watch local Claude Code conversations",
		Long:         "claudelens reads the Claude Code session archive so past conversations can be listed and searched and live sessions followed.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&e.claudeDir, "claude-dir", "", "Claude data directory (default ~/.claude)")
	flags.StringVar(&e.configDir, "config-dir", "", "claudelens config directory (default ~/.claudelens)")
	flags.StringVar(&e.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	flags.StringVarP(&e.output, "output", "o", outputText, "Output format: text, json, yaml")
	flags.BoolVar(&e.pretty, "pretty-logs", true, "Human-readable log output on stderr")

	root.AddCommand(
		newListCmd(e),
		newShowCmd(e),
		newSearchCmd(e),
		newDeleteCmd(e),
		newClearCmd(e),
		newRenameCmd(e),
		newAttachmentsCmd(e),
		newActiveCmd(e),
		newTailCmd(e),
		newHistoryCmd(e),
		newWatchCmd(e),
		newCompletedCmd(e),
		newMCPCmd(e),
	)

	root.Version = Version
	root.SetVersionTemplate(fmt.Sprintf("claudelens %s\n", Version))

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

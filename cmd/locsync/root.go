package main

import (
	"fmt"
	"os"

	"github.com/oukeidos/locsync/internal/cleanup"
	"github.com/oukeidos/locsync/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func execute() {
	cmd := newRootCmd()
	err := cmd.Execute()
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		fmt.Fprintln(os.Stderr, cleanupErr)
		if err == nil {
			err = cleanupErr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

// globalOptions are persistent flags shared by every command.
type globalOptions struct {
	configPath  string
	database    string
	provider    string
	allowEnv    bool
	envOnly     bool
	debug       bool
	logFilePath string
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "locsync",
		Short: "Machine translation sync for localized content",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 || hasAnyFlagSet(cmd) {
				_ = cmd.Usage()
				if len(args) == 0 {
					return fmt.Errorf("a command is required")
				}
				return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return cmd.Help()
		},
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetUsageTemplate(rootUsageTemplate)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "locsync.yaml", "Path to the configuration file")
	pf.StringVar(&g.database, "db", "", "SQLite database path (overrides config)")
	pf.StringVar(&g.provider, "provider", "", "Translation provider: deepl, gemini or echo (overrides config)")
	pf.BoolVar(&g.allowEnv, "allow-env", false, "Allow reading API keys from environment variables")
	pf.BoolVar(&g.envOnly, "env-only", false, "Use only environment variables for API keys")
	pf.BoolVar(&g.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&g.logFilePath, "log-file", "", "Path to append machine-readable JSONL logs")

	cmd.AddGroup(commandGroups...)
	cmd.AddCommand(setGroup("sync", newTranslateCmd(g), newEstimateCmd(g))...)
	cmd.AddCommand(setGroup("content", newImportCmd(g), newExportCmd(g), newRunsCmd(g))...)
	cmd.AddCommand(setGroup("provider", newLanguagesCmd(g), newUsageCmd(g), newTestConnectionCmd(g), newEnvCmd())...)
	cmd.AddCommand(newVersionCmd())

	cmd.InitDefaultCompletionCmd()
	for _, sub := range cmd.Commands() {
		if sub.Name() == "completion" {
			sub.SetUsageTemplate(leafUsageTemplate)
			break
		}
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	return cmd
}

func hasAnyFlagSet(cmd *cobra.Command) bool {
	changed := false
	cmd.Flags().Visit(func(_ *pflag.Flag) {
		changed = true
	})
	return changed
}

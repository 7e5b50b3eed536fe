package commands

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/conciliador/internal/buildinfo"
	"github.com/cleared-dev/conciliador/internal/config"
	"github.com/cleared-dev/conciliador/internal/logger"
)

// globalFlags are shared by every subcommand that reads configuration.
type globalFlags struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "conciliador",
		Short:   "Reconcile bank statements against community bills",
		Version: buildinfo.Summary(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", config.FileName, "path to conciliador.yaml")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newExtractCommand(g))
	rootCmd.AddCommand(newReconcileCommand(g))
	rootCmd.AddCommand(newServeCommand(g))

	return rootCmd
}

// load reads configuration (file, .env, environment) and builds a logger on
// the command's stderr.
func (g *globalFlags) load(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadOrDefault(g.configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	cfg.ResolvePaths(filepath.Dir(g.configPath))
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	log, err := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}

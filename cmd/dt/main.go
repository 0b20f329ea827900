package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/zulandar/doctrail/internal/config"
	"github.com/zulandar/doctrail/internal/db"
	"github.com/zulandar/doctrail/internal/lifecycle"
	"gorm.io/gorm"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dt",
		Short: "Doctrail — document lifecycle tracking",
		Long:  "Doctrail tracks documents through their lifecycle: deadline-driven statuses, validated transitions, and team performance metrics.",
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newDocCmd())
	cmd.AddCommand(newMetricsCmd())
	cmd.AddCommand(newServeCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dt %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

// connectFromConfig loads the config file and opens the database it names.
func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return cfg, gormDB, nil
}

// newService builds a lifecycle service over the given database. CLI commands
// run without a notifier; completion notices are the server's job.
func newService(gormDB *gorm.DB) *lifecycle.Service {
	store := lifecycle.NewGormStore(gormDB)
	return lifecycle.NewService(lifecycle.Opts{
		Store: store,
		Dir:   store,
		Log:   cliLogger(),
	})
}

func cliLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}

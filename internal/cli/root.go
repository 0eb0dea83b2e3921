package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkiryanov/pland/internal/storage"
	"github.com/mkiryanov/pland/internal/update"
)

var (
	flagDB   string
	flagChat string
)

var rootCmd = &cobra.Command{
	Use:     "pland",
	Short:   "Day and week planner with automatic time allocation",
	Long:    `Pland keeps a task list and packs flexible work into the free slots of the day, around meals, meetings and recurring blocks. Run without arguments for the interactive interface.`,
	Version: "0.1.0",
}

func init() {
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", cfg.DBPath, "Path to the sqlite database")
	rootCmd.PersistentFlags().StringVar(&flagChat, "chat", cfg.Chat, "Task list to operate on")
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(sweepCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func openRepo() (*storage.SQLiteRepository, error) {
	repo, err := storage.OpenSQLite(flagDB)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", flagDB, err)
	}
	if err := storage.MigrateUp(repo.DB()); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return repo, nil
}

package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkiryanov/pland/internal/cli"
	"github.com/mkiryanov/pland/internal/quotes"
	"github.com/mkiryanov/pland/internal/scheduler"
	"github.com/mkiryanov/pland/internal/storage"
	"github.com/mkiryanov/pland/internal/update"
)

func main() {
	// No args launches the interactive planner, otherwise route to the CLI.
	if len(os.Args) == 1 {
		if err := runTUI(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if err := cli.Execute(); err != nil {
			os.Exit(1)
		}
	}
}

func runTUI() error {
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()
	if err := update.ScheduleTriggers(engine, cfg, time.Now()); err != nil {
		return fmt.Errorf("schedule triggers: %w", err)
	}

	book := quotes.Load(cfg.QuotesPath)
	model := update.NewModel(repo, engine, book, cfg)

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

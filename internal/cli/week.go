package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkiryanov/pland/internal/storage"
	"github.com/mkiryanov/pland/internal/update"
	"github.com/mkiryanov/pland/internal/views"
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Print the week outlook",
	Long:  `Plan the next seven days. Each flexible task is assigned to the earliest day with room for it before its deadline. The outlook is a preview and does not change the database.`,
	Args:  cobra.NoArgs,
	RunE:  runWeek,
}

func runWeek(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer repo.Close()

	now := time.Now()
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig()).PlanConfig()

	tasks, err := repo.ListTasks(cmd.Context(), storage.TaskFilter{Chat: flagChat})
	if err != nil {
		return err
	}

	days, _ := cfg.PlanWeek(now, now, tasks)
	for i, day := range days {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(day.Label)
		for _, line := range views.FormatPlanLines(itemsData(day.Items)) {
			fmt.Println("  " + line)
		}
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkiryanov/pland/internal/alerts"
	"github.com/mkiryanov/pland/internal/model"
	"github.com/mkiryanov/pland/internal/plan"
	"github.com/mkiryanov/pland/internal/storage"
	"github.com/mkiryanov/pland/internal/update"
	"github.com/mkiryanov/pland/internal/views"
)

var todayPersist bool

func init() {
	todayCmd.Flags().BoolVar(&todayPersist, "persist", false, "Record day assignments and overdue moves in the database")
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Print today's schedule",
	Long:  `Build and print the schedule for the rest of today. With --persist, flexible tasks are stamped with today's date so later runs keep the same assignment, and tasks past their deadline are moved to overdue.`,
	Args:  cobra.NoArgs,
	RunE:  runToday,
}

func runToday(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer repo.Close()

	ctx := cmd.Context()
	now := time.Now()
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig()).PlanConfig()

	tasks, err := repo.ListTasks(ctx, storage.TaskFilter{Chat: flagChat})
	if err != nil {
		return err
	}

	moved, notices := alerts.SweepOverdue(now, tasks)
	if todayPersist {
		if err := persistMoves(ctx, repo, moved); err != nil {
			return err
		}
	}
	tasks = mergeMoved(tasks, moved)

	items, delta := cfg.PlanDay(now, now, tasks, todayPersist)
	if todayPersist {
		if err := persistPlannedFor(ctx, repo, tasks, delta); err != nil {
			return err
		}
	}

	fmt.Printf("Schedule for %s\n", now.Format("Mon 02.01"))
	for _, line := range views.FormatPlanLines(itemsData(items)) {
		fmt.Println(line)
	}
	for _, n := range notices {
		fmt.Printf("overdue: %s (deadline %s)\n", n.Title, n.Anchor.Format("2006-01-02 15:04"))
	}
	return nil
}

func itemsData(items []plan.PlanItem) []views.PlanItemData {
	out := make([]views.PlanItemData, len(items))
	for i, item := range items {
		out[i] = views.PlanItemData{
			Start: item.Start.Format("15:04"),
			End:   item.End.Format("15:04"),
			Label: item.Label,
		}
	}
	return out
}

func persistMoves(ctx context.Context, repo storage.Repository, moved []model.Task) error {
	for _, t := range moved {
		if err := repo.UpdateTask(ctx, flagChat, t); err != nil {
			return fmt.Errorf("update task %s: %w", t.ID, err)
		}
	}
	return nil
}

func persistPlannedFor(ctx context.Context, repo storage.Repository, tasks []model.Task, delta map[string]string) error {
	for id, day := range delta {
		for _, t := range tasks {
			if t.ID != id {
				continue
			}
			t.PlannedFor = day
			if err := repo.UpdateTask(ctx, flagChat, t); err != nil {
				return fmt.Errorf("update task %s: %w", t.ID, err)
			}
			break
		}
	}
	return nil
}

func mergeMoved(tasks, moved []model.Task) []model.Task {
	if len(moved) == 0 {
		return tasks
	}
	byID := make(map[string]model.Task, len(moved))
	for _, t := range moved {
		byID[t.ID] = t
	}
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		if m, ok := byID[t.ID]; ok {
			out[i] = m
		} else {
			out[i] = t
		}
	}
	return out
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkiryanov/pland/internal/alerts"
	"github.com/mkiryanov/pland/internal/storage"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Move tasks past their deadline to overdue",
	Args:  cobra.NoArgs,
	RunE:  runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer repo.Close()

	tasks, err := repo.ListTasks(cmd.Context(), storage.TaskFilter{Chat: flagChat})
	if err != nil {
		return err
	}

	moved, notices := alerts.SweepOverdue(time.Now(), tasks)
	if err := persistMoves(cmd.Context(), repo, moved); err != nil {
		return err
	}

	if len(notices) == 0 {
		fmt.Println("nothing overdue")
		return nil
	}
	for _, n := range notices {
		fmt.Printf("moved to overdue: %s (deadline %s)\n", n.Title, n.Anchor.Format("2006-01-02 15:04"))
	}
	return nil
}

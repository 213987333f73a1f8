package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moyu-x/file-organizer/pkg/database"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "查看最近的整理记录",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	batches, err := db.RecentBatches(limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(batches) == 0 {
		faintColor.Fprintln(out, "还没有任何整理记录")
		return nil
	}

	for _, b := range batches {
		state := ""
		switch {
		case b.Undone:
			state = " [已撤销]"
		case b.DryRun:
			state = " [预览]"
		}
		headerColor.Fprintf(out, "批次 %d  %s%s\n", b.ID, b.CreatedAt.Format("2006-01-02 15:04:05"), state)

		entries, err := db.Entries(b.ID)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.Succeeded {
				fmt.Fprintf(out, "  %s %s → %s\n", successColor.Sprint("✓"), e.MovedFrom, e.MovedTo)
			} else {
				fmt.Fprintf(out, "  %s %s → %s: %s\n", errorColor.Sprint("✗"), e.MovedFrom, e.MovedTo, e.Error)
			}
		}
	}
	return nil
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 5, "显示的批次数量")

	rootCmd.AddCommand(historyCmd)
}

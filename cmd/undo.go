package cmd

import (
	"github.com/spf13/cobra"

	"github.com/moyu-x/file-organizer/pkg/undo"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "撤销最近一次整理",
	Long: `按执行的逆序把最近一次整理中成功移动的文件移回原位置。
只能撤销最近一次，撤销后再次执行不会回退更早的整理。`,
	Args: cobra.NoArgs,
	RunE: runUndo,
}

func runUndo(cmd *cobra.Command, args []string) error {
	org, db, err := openOrganizer(nil)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := org.UndoLast()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch report.Status {
	case undo.Success:
		successColor.Fprintf(out, "%s (%d 个文件)\n", report.Message, report.Reverted)
	case undo.PartialSuccess:
		warnColor.Fprintln(out, report.Message)
	default:
		faintColor.Fprintln(out, report.Message)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(undoCmd)
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/moyu-x/file-organizer/internal/app"
)

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "预览目录的整理方案，不移动任何文件",
	Long: `扫描目录中的所有文件，按配置的规则分类，输出每个文件将被移动到的分类目录。
同时检测内容相同的重复文件。`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	org, err := app.New(app.Options{Config: cfg, Notifier: consoleNotifier(cmd.OutOrStdout())})
	if err != nil {
		return err
	}

	root := args[0]
	proposals, err := org.Scan(root)
	if err != nil {
		return err
	}

	printProposals(cmd.OutOrStdout(), root, proposals)
	return nil
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

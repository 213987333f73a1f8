package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/internal/app"
	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/pkg/notify"
	"github.com/moyu-x/file-organizer/pkg/progress"
	"github.com/moyu-x/file-organizer/tui"
)

var organizeCmd = &cobra.Command{
	Use:   "organize <directory>",
	Short: "按分类整理目录中的文件",
	Long: `扫描目录并把文件移动到对应的分类子目录。
使用 --category 只整理指定分类，使用 --interactive 在终端界面中逐个勾选。
每次整理都会记录到操作日志，可以用 undo 命令撤销。`,
	Args: cobra.ExactArgs(1),
	RunE: runOrganize,
}

func runOrganize(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	categories, _ := cmd.Flags().GetStringSlice("category")
	interactive, _ := cmd.Flags().GetBool("interactive")

	if interactive && !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		logger.Get().Warn().Msg("标准输出不是终端，忽略 --interactive")
		interactive = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := args[0]
	if dryRun {
		logger.Get().Info().Msg("=== 预览模式，不会实际修改文件 ===")
	}

	if interactive {
		return organizeInteractive(ctx, root, categories, dryRun)
	}

	org, db, err := openOrganizer(consoleNotifier(cmd.OutOrStdout()))
	if err != nil {
		return err
	}
	defer db.Close()

	onProgress := progress.NewLogReporter(50, "整理进度").Func()
	stats, err := org.Organize(ctx, root, categories, onProgress, dryRun)
	if err != nil {
		return err
	}

	if stats.Total == 0 {
		printProposals(cmd.OutOrStdout(), root, nil)
		return nil
	}
	printStats(cmd.OutOrStdout(), stats)
	if !stats.AllSucceeded() {
		return fmt.Errorf("%d 个文件未能处理", stats.Total-stats.Succeeded)
	}
	return nil
}

func organizeInteractive(ctx context.Context, root string, categories []string, dryRun bool) error {
	if err := quietLogger(); err != nil {
		return err
	}

	events := &notify.Recorder{}
	org, db, err := openOrganizer(notify.Multi(notify.LogNotifier{}, events))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := org.CheckCategories(categories); err != nil {
		return err
	}
	proposals, err := org.Scan(root)
	if err != nil {
		return err
	}
	proposals = app.FilterByCategory(root, proposals, categories)
	if len(proposals) == 0 {
		printProposals(os.Stdout, root, proposals)
		return nil
	}

	// 扫描阶段的通知（如重复文件）也一并展示
	result, err := tui.Run(ctx, org, &tui.Config{
		Root:      root,
		Proposals: proposals,
		DryRun:    dryRun,
		Events:    events,
	})
	if err != nil {
		return err
	}

	if result.Selected == 0 {
		faintColor.Fprintln(os.Stdout, "未执行任何移动")
		return nil
	}
	printStats(os.Stdout, internal.ProcessStats{
		Total:     result.Selected,
		Succeeded: result.Succeeded,
		Failed:    result.Selected - result.Succeeded,
		DryRun:    dryRun,
	})
	return nil
}

func init() {
	organizeCmd.Flags().Bool("dry-run", false, "预览模式，只检查不移动")
	organizeCmd.Flags().StringSliceP("category", "c", nil, "只整理指定的分类，可重复")
	organizeCmd.Flags().BoolP("interactive", "i", false, "在终端界面中勾选要移动的文件")

	rootCmd.AddCommand(organizeCmd)
}

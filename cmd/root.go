package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/moyu-x/file-organizer/config"
	"github.com/moyu-x/file-organizer/internal/app"
	"github.com/moyu-x/file-organizer/pkg/database"
	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/pkg/notify"
)

var (
	cfgFile  string
	logLevel string
	dbPath   string

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "file-organizer",
	Short: "按扩展名和文件名规则整理目录中的文件",
	Long: `File Organizer 是一个命令行工具，用于把目录中的文件整理到分类子目录。

主要功能:
- 按扩展名和文件名正则规则对文件分类
- 基于内容哈希检测重复文件
- 预览移动方案，只执行选中的部分
- 撤销最近一次整理`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			c.Logging.Level = logLevel
		}
		if dbPath != "" {
			c.Database.Path = dbPath
		}
		cfg = c

		if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
			return fmt.Errorf("初始化日志失败: %w", err)
		}
		logger.Get().Debug().Msgf("数据库路径: %s", cfg.Database.Path)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径 (默认 $HOME/.file-organizer/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "操作日志数据库路径")
}

// openOrganizer 打开持久化的操作日志并组装核心组件，调用方负责 close
func openOrganizer(notifier notify.Notifier) (*app.Organizer, *database.Database, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("打开操作日志失败: %w", err)
	}

	org, err := app.New(app.Options{
		Config:   cfg,
		Store:    db,
		Notifier: notifier,
	})
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return org, db, nil
}

// quietLogger 在全屏界面运行期间关闭控制台日志，只保留日志文件
func quietLogger() error {
	return logger.InitWithWriter(cfg.Logging.Level, cfg.Logging.File, io.Discard)
}

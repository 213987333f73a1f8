package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/moyu-x/file-organizer/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "管理配置文件",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "生成默认配置文件",
	Args:  cobra.MaximumNArgs(1),
	// 配置文件可能尚不存在或无效，跳过全局的加载
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			path = filepath.Join(home, ".file-organizer", "config.yaml")
		}

		if err := config.WriteDefault(path); err != nil {
			return err
		}
		successColor.Fprintf(cmd.OutOrStdout(), "已生成配置文件: %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

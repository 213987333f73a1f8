package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/classifier"
	"github.com/moyu-x/file-organizer/pkg/hasher"
)

type Config struct {
	Database struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"database" yaml:"database"`
	Logging struct {
		Level string `mapstructure:"level" yaml:"level"`
		File  string `mapstructure:"file" yaml:"file,omitempty"`
	} `mapstructure:"logging" yaml:"logging"`
	Scanner struct {
		IncludeHidden    bool `mapstructure:"include_hidden" yaml:"include_hidden"`
		DetectDuplicates bool `mapstructure:"detect_duplicates" yaml:"detect_duplicates"`
	} `mapstructure:"scanner" yaml:"scanner"`
	Hasher struct {
		Algorithm string `mapstructure:"algorithm" yaml:"algorithm"`
	} `mapstructure:"hasher" yaml:"hasher"`
	Sniff struct {
		Enabled    bool              `mapstructure:"enabled" yaml:"enabled"`
		Categories map[string]string `mapstructure:"categories" yaml:"categories"`
	} `mapstructure:"sniff" yaml:"sniff"`

	// 规则使用列表保存，声明顺序即匹配顺序
	ExtensionRules []classifier.ExtensionRule `mapstructure:"extension_rules" yaml:"extension_rules"`
	PatternRules   []classifier.PatternRule   `mapstructure:"pattern_rules" yaml:"pattern_rules"`
}

// Load 读取配置。path 为空时在默认位置查找 config.yaml，找不到则使用默认值
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("$HOME/.file-organizer")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/file-organizer")
	}

	// FILE_ORGANIZER_DATABASE_PATH 覆盖 database.path
	v.SetEnvPrefix("FILE_ORGANIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if len(c.ExtensionRules) == 0 && len(c.PatternRules) == 0 {
		c.ExtensionRules = classifier.DefaultExtensionRules()
		c.PatternRules = classifier.DefaultPatternRules()
	}
	if len(c.Sniff.Categories) == 0 {
		c.Sniff.Categories = classifier.DefaultSniffCategories()
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", internal.DefaultDatabasePath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("scanner.include_hidden", true)
	v.SetDefault("scanner.detect_duplicates", true)
	v.SetDefault("hasher.algorithm", string(hasher.SHA256))
	v.SetDefault("sniff.enabled", false)
}

// Validate 检查哈希算法与分类规则，正则在这里就会被编译一次
func (c *Config) Validate() error {
	if _, err := hasher.ParseAlgorithm(c.Hasher.Algorithm); err != nil {
		return err
	}
	if _, err := c.Classifier(); err != nil {
		return err
	}
	return nil
}

// Classifier 按配置的规则构建分类器
func (c *Config) Classifier() (*classifier.Classifier, error) {
	cls, err := classifier.New(c.ExtensionRules, c.PatternRules)
	if err != nil {
		return nil, fmt.Errorf("分类规则无效: %w", err)
	}
	return cls, nil
}

// Default 返回全部使用默认值的配置
func Default() *Config {
	c := &Config{}
	c.Database.Path = internal.DefaultDatabasePath
	c.Logging.Level = "info"
	c.Scanner.IncludeHidden = true
	c.Scanner.DetectDuplicates = true
	c.Hasher.Algorithm = string(hasher.SHA256)
	c.Sniff.Categories = classifier.DefaultSniffCategories()
	c.ExtensionRules = classifier.DefaultExtensionRules()
	c.PatternRules = classifier.DefaultPatternRules()
	return c
}

// WriteDefault 将默认配置写入 path，文件已存在时返回错误
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("配置文件已存在: %s", path)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("序列化默认配置失败: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

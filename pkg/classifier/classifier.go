package classifier

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/moyu-x/file-organizer/internal"
)

// ExtensionRule 按扩展名归类的规则，顺序即优先级
type ExtensionRule struct {
	Category   string   `mapstructure:"category" yaml:"category"`
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
}

// PatternRule 按文件名正则归类的规则，仅在扩展名规则未命中时使用
type PatternRule struct {
	Category string   `mapstructure:"category" yaml:"category"`
	Patterns []string `mapstructure:"patterns" yaml:"patterns"`
}

type compiledPattern struct {
	category string
	re       *regexp.Regexp
}

type extensionSet struct {
	category   string
	extensions map[string]struct{}
}

// Classifier 根据文件名返回分类，不做任何 I/O
type Classifier struct {
	extensions []extensionSet
	patterns   []compiledPattern
	fallback   string
}

// DefaultExtensionRules 内置的扩展名规则
func DefaultExtensionRules() []ExtensionRule {
	return []ExtensionRule{
		{Category: "Images", Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"}},
		{Category: "Documents", Extensions: []string{".pdf", ".docx", ".txt", ".xlsx", ".pptx"}},
		{Category: "Audio", Extensions: []string{".mp3", ".wav", ".aac", ".flac"}},
	}
}

// DefaultPatternRules 内置的文件名规则：类似日期的文件名通常是文档或备份
func DefaultPatternRules() []PatternRule {
	return []PatternRule{
		{Category: "Documents", Patterns: []string{`\b\d{4}[-_]\d{2}[-_]\d{2}\b`, `\b\d{2}[-_]\d{2}[-_]\d{4}\b`}},
	}
}

// NewDefault 使用内置规则创建分类器
func NewDefault() *Classifier {
	c, err := New(DefaultExtensionRules(), DefaultPatternRules())
	if err != nil {
		panic(err)
	}
	return c
}

// New 创建分类器，正则表达式在此处编译，无效的表达式直接返回错误
func New(extRules []ExtensionRule, patternRules []PatternRule) (*Classifier, error) {
	c := &Classifier{fallback: internal.FallbackCategory}

	for _, rule := range extRules {
		if rule.Category == "" {
			return nil, fmt.Errorf("扩展名规则缺少分类名称")
		}
		set := extensionSet{category: rule.Category, extensions: make(map[string]struct{}, len(rule.Extensions))}
		for _, ext := range rule.Extensions {
			set.extensions[normalizeExt(ext)] = struct{}{}
		}
		c.extensions = append(c.extensions, set)
	}

	for _, rule := range patternRules {
		if rule.Category == "" {
			return nil, fmt.Errorf("正则规则缺少分类名称")
		}
		for _, p := range rule.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("编译分类 %s 的正则 %q: %w", rule.Category, p, err)
			}
			c.patterns = append(c.patterns, compiledPattern{category: rule.Category, re: re})
		}
	}

	return c, nil
}

// Classify 返回文件名对应的分类，未命中任何规则时返回 Others
func (c *Classifier) Classify(filename string) string {
	name := filepath.Base(filename)
	ext := Extension(name)

	for _, set := range c.extensions {
		if _, ok := set.extensions[ext]; ok {
			return set.category
		}
	}

	for _, p := range c.patterns {
		if p.re.MatchString(name) {
			return p.category
		}
	}

	return c.fallback
}

// Fallback 返回兜底分类名称
func (c *Classifier) Fallback() string {
	return c.fallback
}

// Categories 按声明顺序返回所有出现过的分类（含兜底分类）
func (c *Classifier) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, set := range c.extensions {
		add(set.category)
	}
	for _, p := range c.patterns {
		add(p.category)
	}
	add(c.fallback)
	return out
}

// Extension 返回最后一个 "." 之后的小写扩展名，没有则返回空串
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

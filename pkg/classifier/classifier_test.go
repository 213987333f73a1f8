package classifier

import (
	"testing"

	"github.com/spf13/afero"
)

func TestClassifier_ByExtension(t *testing.T) {
	c := NewDefault()

	cases := map[string]string{
		"photo.jpg":            "Images",
		"PHOTO.JPEG":           "Images",
		"/some/dir/scan.PNG":   "Images",
		"report.pdf":           "Documents",
		"notes.txt":            "Documents",
		"song.flac":            "Audio",
		"archive.tar.gz":       "Others",
		"Makefile":             "Others",
		"backup 2024-01-15.gz": "Documents",
		"backup_2024-01-15.gz": "Others",
		"minutes 12-31-2023":   "Documents",
		"track-2024-01-15.mp3": "Audio",
	}

	for name, want := range cases {
		if got := c.Classify(name); got != want {
			t.Errorf("Classify(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestClassifier_PatternUsesBaseName(t *testing.T) {
	c, err := New(nil, []PatternRule{{Category: "Backups", Patterns: []string{`^backup`}}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := c.Classify("/backup/data.bin"); got != "Others" {
		t.Errorf("pattern should not match directory components, got %q", got)
	}
	if got := c.Classify("/data/backup-01.bin"); got != "Backups" {
		t.Errorf("Classify() = %q, want Backups", got)
	}
}

func TestClassifier_FirstDeclaredRuleWins(t *testing.T) {
	c, err := New([]ExtensionRule{
		{Category: "First", Extensions: []string{".foo"}},
		{Category: "Second", Extensions: []string{"foo"}},
	}, []PatternRule{
		{Category: "PatternA", Patterns: []string{`data`}},
		{Category: "PatternB", Patterns: []string{`data`}},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 20; i++ {
		if got := c.Classify("x.foo"); got != "First" {
			t.Fatalf("Classify() = %q, want First", got)
		}
		if got := c.Classify("data.bin"); got != "PatternA" {
			t.Fatalf("Classify() = %q, want PatternA", got)
		}
	}
}

func TestClassifier_ExtensionBeatsPattern(t *testing.T) {
	c, err := New(
		[]ExtensionRule{{Category: "Images", Extensions: []string{"png"}}},
		[]PatternRule{{Category: "Screens", Patterns: []string{`^screen`}}},
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := c.Classify("screenshot.png"); got != "Images" {
		t.Errorf("Classify() = %q, want Images", got)
	}
	if got := c.Classify("screenshot.webp"); got != "Screens" {
		t.Errorf("Classify() = %q, want Screens", got)
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New(nil, []PatternRule{{Category: "Bad", Patterns: []string{`(unclosed`}}})
	if err == nil {
		t.Error("Expected error for invalid regular expression")
	}
}

func TestNew_MissingCategory(t *testing.T) {
	if _, err := New([]ExtensionRule{{Extensions: []string{"txt"}}}, nil); err == nil {
		t.Error("Expected error for extension rule without category")
	}
}

func TestExtension(t *testing.T) {
	cases := map[string]string{
		"a.TXT":     "txt",
		"a.tar.gz":  "gz",
		"noext":     "",
		".bashrc":   "bashrc",
		"trailing.": "",
	}
	for in, want := range cases {
		if got := Extension(in); got != want {
			t.Errorf("Extension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClassifier_Categories(t *testing.T) {
	got := NewDefault().Categories()
	want := []string{"Images", "Documents", "Audio", "Others"}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSniffer(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/data/picture": "\xff\xd8\xff\xe0\x00\x10JFIF",
		"/data/graphic": "\x89PNG\r\n\x1a\n",
		"/data/mystery": "random content",
	}
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
			t.Fatalf("创建测试文件失败: %v", err)
		}
	}

	s := NewSniffer(fs, DefaultSniffCategories())

	if got, ok := s.Sniff("/data/picture"); !ok || got != "Images" {
		t.Errorf("Sniff(picture) = %q, %v; want Images, true", got, ok)
	}
	if got, ok := s.Sniff("/data/graphic"); !ok || got != "Images" {
		t.Errorf("Sniff(graphic) = %q, %v; want Images, true", got, ok)
	}
	if _, ok := s.Sniff("/data/mystery"); ok {
		t.Error("unknown content should not be classified")
	}
	if _, ok := s.Sniff("/data/missing"); ok {
		t.Error("missing file should not be classified")
	}
}

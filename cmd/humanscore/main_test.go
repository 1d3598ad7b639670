package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var stockPost = strings.Repeat("결론적으로 다양한 방법을 효과적으로 활용하는 것이 중요합니다. ", 6)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin), &out)
	root.SetErr(&bytes.Buffer{})
	base := []string{"--cache.dir", filepath.Join(t.TempDir(), "cache"), "--env-file", filepath.Join(t.TempDir(), "none.env")}
	root.SetArgs(append(args[:1:1], append(base, args[1:]...)...))
	err := root.Execute()
	return out.String(), err
}

func TestAnalyze_StdinJSON(t *testing.T) {
	out, err := run(t, "<p>"+stockPost+"</p>", "analyze", "--json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var docs []struct {
		Result struct {
			Score int    `json:"score"`
			Grade string `json:"grade"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &docs); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(docs) != 1 || docs[0].Result.Grade == "" || docs[0].Result.Grade == "-" {
		t.Fatalf("unexpected output %+v", docs)
	}
}

func TestAnalyze_FilesWriteMarkdownReport(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "post.txt")
	if err := os.WriteFile(in, []byte(stockPost), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	report := filepath.Join(dir, "report.md")
	out, err := run(t, "", "analyze", in, "--out", report, "--tone", "professional")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "점수:") || !strings.Contains(out, "post.txt") {
		t.Fatalf("terminal summary missing:\n%s", out)
	}
	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(b), "사람다움 분석") {
		t.Fatalf("unexpected report:\n%s", b)
	}
}

func TestAnalyze_NoMatchesFails(t *testing.T) {
	if _, err := run(t, "", "analyze", filepath.Join(t.TempDir(), "*.md")); err == nil {
		t.Fatalf("expected error when nothing matches")
	}
}

func TestRewrite_LexiconFallback(t *testing.T) {
	in := filepath.Join(t.TempDir(), "post.txt")
	if err := os.WriteFile(in, []byte(stockPost), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := run(t, "", "rewrite", in)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if !strings.Contains(out, "결국") {
		t.Fatalf("expected a lexicon rewrite:\n%s", out)
	}
}

func TestFlagBeatsEnv(t *testing.T) {
	t.Setenv("HUMANSCORE_FORMAT", "docx")
	if _, err := run(t, stockPost, "analyze"); err == nil {
		t.Fatalf("invalid env format should fail validation")
	}
	if _, err := run(t, stockPost, "analyze", "--format", "text"); err != nil {
		t.Fatalf("flag should override env: %v", err)
	}
}

func TestTones_ListsPresets(t *testing.T) {
	out, err := run(t, "", "tones")
	if err != nil {
		t.Fatalf("tones: %v", err)
	}
	for _, id := range []string{"default", "casual", "professional", "academic", "sns"} {
		if !strings.Contains(out, id) {
			t.Fatalf("missing %s in:\n%s", id, out)
		}
	}
}

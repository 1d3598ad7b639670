package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyperifyio/humanscore/internal/rewrite"
	"github.com/hyperifyio/humanscore/internal/score"
)

// Options controls what the Markdown report includes.
type Options struct {
	// Title defaults to the source path or a generic heading.
	Title  string
	Source string
	// Top limits listed suggestions; 0 lists all of them.
	Top      int
	Rewrites []rewrite.Suggestion
}

// Document pairs one analysed input with its optional rewrites. It is the
// unit of JSON output for batch runs.
type Document struct {
	Path     string               `json:"path,omitempty"`
	Result   score.Result         `json:"result"`
	Rewrites []rewrite.Suggestion `json:"rewrites,omitempty"`
}

// JSON renders a single result as indented JSON.
func JSON(res score.Result) ([]byte, error) {
	return json.MarshalIndent(res, "", "  ")
}

// JSONDocuments renders a batch as an indented JSON array.
func JSONDocuments(docs []Document) ([]byte, error) {
	if docs == nil {
		docs = []Document{}
	}
	return json.MarshalIndent(docs, "", "  ")
}

// Markdown renders a result as a self-contained Markdown report.
func Markdown(res score.Result, opt Options) string {
	var b strings.Builder
	title := opt.Title
	if title == "" {
		title = "사람다움 분석"
		if opt.Source != "" {
			title += ": " + opt.Source
		}
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if res.IsEmpty {
		fmt.Fprintf(&b, "점수: - (분석할 내용이 부족합니다)\n\n")
	} else {
		fmt.Fprintf(&b, "점수: **%d/100** (등급 %s, 톤 %s)\n\n", res.Score, res.Grade, res.Tone)
		b.WriteString("| 항목 | 점수 | 만점 |\n|---|---:|---:|\n")
		for _, m := range res.Metrics {
			fmt.Fprintf(&b, "| %s | %d | %d |\n", m.Label, m.Score, m.MaxScore)
		}
		b.WriteString("\n")
	}

	if list := res.Top(opt.Top); len(list) > 0 {
		b.WriteString("## 개선 제안\n\n")
		for i, s := range list {
			fmt.Fprintf(&b, "%d. %s %s\n", i+1, kindTag(s.Kind), s.Text)
		}
		b.WriteString("\n")
	}

	if len(opt.Rewrites) > 0 {
		b.WriteString("## 수정 예시\n\n")
		for _, r := range opt.Rewrites {
			fmt.Fprintf(&b, "- 원문: %s\n  - 수정: %s\n", r.Original, r.Revised)
			if r.Reason != "" {
				fmt.Fprintf(&b, "  - 이유: %s\n", r.Reason)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func kindTag(k score.SuggestionKind) string {
	if k == score.Warning {
		return "[경고]"
	}
	return "[참고]"
}

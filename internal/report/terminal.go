package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hyperifyio/humanscore/internal/rewrite"
	"github.com/hyperifyio/humanscore/internal/score"
)

const barWidth = 20

// Terminal writes a compact summary of res: headline score, one bar per
// metric and the top suggestions.
func Terminal(w io.Writer, source string, res score.Result, top int, s *Styles) error {
	if s == nil {
		s = NewStyles(false)
	}
	var b strings.Builder
	if source != "" {
		b.WriteString(s.Muted.Render(source))
		b.WriteString("\n")
	}
	if res.IsEmpty {
		b.WriteString(s.Header.Render("점수: -"))
		b.WriteString("\n")
	} else {
		headline := fmt.Sprintf("점수: %d/100  등급 %s  (%s)", res.Score, res.Grade, res.Tone)
		b.WriteString(s.ForRatio(float64(res.Score) / 100).Bold(s.Enabled()).Render(headline))
		b.WriteString("\n")
		for _, m := range res.Metrics {
			ratio := 0.0
			if m.MaxScore > 0 {
				ratio = float64(m.Score) / float64(m.MaxScore)
			}
			fmt.Fprintf(&b, "  %s %s %2d/%-2d\n", s.ForRatio(ratio).Render(bar(ratio, s)), padLabel(m.Label), m.Score, m.MaxScore)
		}
	}
	for _, sg := range res.Top(top) {
		icon, style := s.IconInfo, s.Info
		if sg.Kind == score.Warning {
			icon, style = s.IconWarning, s.Warning
		}
		fmt.Fprintf(&b, "%s %s\n", style.Render(icon), sg.Text)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// TerminalRewrites prints rewrite triples as before/after pairs.
func TerminalRewrites(w io.Writer, list []rewrite.Suggestion, s *Styles) error {
	if s == nil {
		s = NewStyles(false)
	}
	if len(list) == 0 {
		_, err := io.WriteString(w, s.Muted.Render("수정 제안이 없습니다.")+"\n")
		return err
	}
	var b strings.Builder
	for i, r := range list {
		fmt.Fprintf(&b, "%d. %s\n   %s %s\n", i+1, s.Poor.Render("- "+r.Original), s.Good.Render("+"), s.Good.Render(r.Revised))
		if r.Reason != "" {
			fmt.Fprintf(&b, "   %s\n", s.Muted.Render(r.Reason))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func bar(ratio float64, s *Styles) string {
	n := int(ratio*barWidth + 0.5)
	if n < 0 {
		n = 0
	}
	if n > barWidth {
		n = barWidth
	}
	return strings.Repeat(s.BarFull, n) + strings.Repeat(s.BarEmpty, barWidth-n)
}

const labelWidth = 20

// padLabel pads to a fixed display width.
func padLabel(label string) string {
	w := lipgloss.Width(label)
	if w >= labelWidth {
		return label
	}
	return label + strings.Repeat(" ", labelWidth-w)
}

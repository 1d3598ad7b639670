package score

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperifyio/humanscore/internal/extract"
	"github.com/hyperifyio/humanscore/internal/lexicon"
)

// Minimum sample sizes for the variability measures.
const (
	minSentences  = 3
	minParagraphs = 3
)

var (
	terminatorRun = regexp.MustCompile(`[.!?…]+`)
	questionRun   = regexp.MustCompile(`\?+`)
	exclaimRun    = regexp.MustCompile(`!+`)
)

// view is the per-call state shared read-only by all measures.
type view struct {
	text      extract.Text
	lex       *lexicon.Lexicon
	nonSpace  int
	sentences int // terminator-run estimate, at least 1
}

func newView(t extract.Text, lex *lexicon.Lexicon) view {
	n := len(terminatorRun.FindAllStringIndex(t.Plain, -1))
	if n < 1 {
		n = 1
	}
	return view{text: t, lex: lex, nonSpace: nonSpaceRunes(t.Plain), sentences: n}
}

func nonSpaceRunes(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

func per1000(count, chars int) float64 {
	if chars <= 0 {
		return 0
	}
	return float64(count) / float64(chars) * 1000
}

// spread returns mean, population standard deviation and coefficient of
// variation of rune lengths.
func spread(texts []string) (mean, stddev, cv float64) {
	if len(texts) == 0 {
		return 0, 0, 0
	}
	lengths := make([]float64, len(texts))
	for i, s := range texts {
		lengths[i] = float64(utf8.RuneCountInString(s))
		mean += lengths[i]
	}
	mean /= float64(len(lengths))
	for _, l := range lengths {
		d := l - mean
		stddev += d * d
	}
	stddev = math.Sqrt(stddev / float64(len(lengths)))
	if mean > 0 {
		cv = stddev / mean
	}
	return mean, stddev, cv
}

func (v view) metric(kind Kind, weight int) Metric {
	return Metric{Kind: kind, Label: v.lex.Label(string(kind)), MaxScore: weight, Suggestions: []Suggestion{}}
}

func (m *Metric) suggest(kind SuggestionKind, priority int, text string) {
	m.Suggestions = append(m.Suggestions, Suggestion{Kind: kind, Text: text, Priority: priority, Metric: m.Kind})
}

func measureSentence(v view, weight int) Metric {
	m := v.metric(KindSentence, weight)
	sentences := v.text.Sentences
	m.Stats = map[string]float64{"count": float64(len(sentences))}
	if len(sentences) < minSentences {
		return m
	}
	mean, stddev, cv := spread(sentences)
	m.Stats["mean"], m.Stats["stddev"], m.Stats["cv"] = mean, stddev, cv
	m.Score = weighted(weight, sentenceBands.Ratio(cv))
	switch {
	case cv < 0.20:
		m.suggest(Warning, prioritySentenceWarning, v.lex.Message("sentence_uniform", cv))
	case cv < 0.30:
		m.suggest(Info, prioritySentenceInfo, v.lex.Message("sentence_low", cv))
	}
	return m
}

func measurePersonal(v view, weight int) Metric {
	m := v.metric(KindPersonal, weight)
	matches := v.lex.CountPersonal(v.text.Plain)
	density := float64(matches) / float64(v.sentences)
	m.Stats = map[string]float64{"matches": float64(matches), "sentences": float64(v.sentences), "density": density}
	m.Score = weighted(weight, personalBands.Ratio(density))
	switch {
	case density < 0.05:
		m.suggest(Warning, priorityPersonalWarning, v.lex.Message("personal_missing"))
	case density < 0.15:
		m.suggest(Info, priorityPersonalInfo, v.lex.Message("personal_low"))
	}
	return m
}

func measurePattern(v view, weight int) Metric {
	m := v.metric(KindPattern, weight)
	hits, found := v.lex.StockHits(v.text.Plain)
	rate := per1000(hits, v.nonSpace)
	m.Stats = map[string]float64{"matches": float64(hits), "charPer1000": rate}
	m.Score = weighted(weight, patternBands.Ratio(rate))
	switch {
	case rate > 6:
		m.suggest(Warning, priorityPatternWarning, v.lex.Message("pattern_high", quoteList(found, 3)))
	case rate > 3:
		m.suggest(Info, priorityPatternInfo, v.lex.Message("pattern_some", quoteList(found, 2)))
	}
	return m
}

func measureParagraph(v view, weight int) Metric {
	m := v.metric(KindParagraph, weight)
	paragraphs := v.text.Paragraphs
	m.Stats = map[string]float64{"count": float64(len(paragraphs))}
	if len(paragraphs) < minParagraphs {
		return m
	}
	mean, stddev, cv := spread(paragraphs)
	m.Stats["mean"], m.Stats["stddev"], m.Stats["cv"] = mean, stddev, cv
	m.Score = weighted(weight, paragraphBands.Ratio(cv))
	if cv < 0.15 {
		m.suggest(Info, priorityParagraphInfo, v.lex.Message("paragraph_uniform"))
	}
	return m
}

func measureColloquial(v view, weight int) Metric {
	m := v.metric(KindColloquial, weight)
	plain := v.text.Plain
	lexemes := v.lex.CountColloquial(plain)
	questions := len(questionRun.FindAllStringIndex(plain, -1))
	exclaims := len(exclaimRun.FindAllStringIndex(plain, -1))
	density := float64(lexemes+questions+exclaims) / float64(v.sentences)
	m.Stats = map[string]float64{
		"lexemes":   float64(lexemes),
		"questions": float64(questions),
		"exclaims":  float64(exclaims),
		"density":   density,
	}
	m.Score = weighted(weight, colloquialBands.Ratio(density))
	switch {
	case density < 0.10:
		m.suggest(Warning, priorityColloquialWarning, v.lex.Message("colloquial_missing"))
	case density < 0.20:
		m.suggest(Info, priorityColloquialInfo, v.lex.Message("colloquial_low"))
	}
	return m
}

func measureInformal(v view, weight int) Metric {
	m := v.metric(KindInformal, weight)
	count := v.lex.CountInformal(v.text.Plain)
	rate := per1000(count, v.nonSpace)
	m.Stats = map[string]float64{"matches": float64(count), "charPer1000": rate}
	m.Score = weighted(weight, informalBands.Ratio(rate))
	if rate < 0.5 {
		m.suggest(Info, priorityInformalInfo, v.lex.Message("informal_low"))
	}
	return m
}

func quoteList(items []string, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, ", ")
}

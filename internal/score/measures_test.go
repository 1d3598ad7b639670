package score

import (
	"strings"
	"testing"

	"github.com/hyperifyio/humanscore/internal/extract"
	"github.com/hyperifyio/humanscore/internal/lexicon"
)

func viewOf(t extract.Text) view { return newView(t, lexicon.Default()) }

func sentencesOfLengths(lengths ...int) []string {
	out := make([]string, len(lengths))
	for i, n := range lengths {
		out[i] = strings.Repeat("가", n)
	}
	return out
}

func hasKind(m Metric, k SuggestionKind) bool {
	for _, s := range m.Suggestions {
		if s.Kind == k {
			return true
		}
	}
	return false
}

func TestBands(t *testing.T) {
	tests := []struct {
		name  string
		bands Bands
		in    float64
		want  float64
	}{
		{"sentence ideal upper edge", sentenceBands, 0.70, 1.00},
		{"sentence very uneven", sentenceBands, 0.7001, 0.85},
		{"sentence ideal lower edge", sentenceBands, 0.35, 1.00},
		{"sentence modest", sentenceBands, 0.3499, 0.70},
		{"sentence modest edge", sentenceBands, 0.20, 0.70},
		{"sentence uniform", sentenceBands, 0.1999, 0.40},
		{"pattern clean", patternBands, 1, 1.00},
		{"pattern some", patternBands, 1.01, 0.75},
		{"pattern edge", patternBands, 3, 0.75},
		{"pattern more", patternBands, 6, 0.45},
		{"pattern heavy", patternBands, 6.01, 0.20},
		{"personal edge", personalBands, 0.30, 1.00},
		{"personal none", personalBands, 0, 0.20},
		{"paragraph edge", paragraphBands, 0.15, 0.45},
		{"paragraph flat", paragraphBands, 0.1, 0.20},
		{"colloquial edge", colloquialBands, 0.10, 0.40},
		{"colloquial none", colloquialBands, 0, 0.15},
		{"informal edge", informalBands, 1.5, 0.70},
		{"informal none", informalBands, 0, 0.15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bands.Ratio(tt.in); got != tt.want {
				t.Fatalf("Ratio(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWeightedStaysInRange(t *testing.T) {
	if got := weighted(25, 0.45); got != 11 {
		t.Fatalf("weighted(25,0.45) = %d, want 11", got)
	}
	if got := weighted(20, 0.45); got != 9 {
		t.Fatalf("weighted(20,0.45) = %d, want 9", got)
	}
	if got := weighted(0, 1); got != 0 {
		t.Fatalf("zero weight must score zero")
	}
}

func TestSentenceMeasure_UniformLengthsWarn(t *testing.T) {
	v := viewOf(extract.Text{Sentences: sentencesOfLengths(12, 12, 12, 12, 12, 12)})
	m := measureSentence(v, 20)
	if m.Score > 8 {
		t.Fatalf("uniform sentences scored %d, want at most 40%% of 20", m.Score)
	}
	if !hasKind(m, Warning) {
		t.Fatalf("expected a warning for uniform sentences")
	}
}

func TestSentenceMeasure_NaturalVariationScoresFull(t *testing.T) {
	// mean 20, population stddev 10: cv = 0.5
	v := viewOf(extract.Text{Sentences: sentencesOfLengths(10, 10, 30, 30)})
	m := measureSentence(v, 20)
	if m.Score != 20 {
		t.Fatalf("cv 0.5 scored %d, want 20", m.Score)
	}
	if got := m.Stats["cv"]; got < 0.499 || got > 0.501 {
		t.Fatalf("cv = %v, want 0.5", got)
	}
	if len(m.Suggestions) != 0 {
		t.Fatalf("no suggestion expected at ideal variation")
	}
}

func TestSentenceMeasure_LowVariationInfo(t *testing.T) {
	// mean 20, stddev 5: cv = 0.25
	v := viewOf(extract.Text{Sentences: sentencesOfLengths(15, 15, 25, 25)})
	m := measureSentence(v, 20)
	if m.Score != 14 || !hasKind(m, Info) {
		t.Fatalf("cv 0.25: score %d suggestions %+v", m.Score, m.Suggestions)
	}
}

func TestVariabilityMeasures_InsufficientSample(t *testing.T) {
	v := viewOf(extract.Text{Sentences: sentencesOfLengths(10, 40), Paragraphs: []string{"가나다라마바", "가나"}})
	if m := measureSentence(v, 20); m.Score != 0 || len(m.Suggestions) != 0 {
		t.Fatalf("two sentences should score 0 without suggestions, got %+v", m)
	}
	if m := measureParagraph(v, 10); m.Score != 0 || len(m.Suggestions) != 0 {
		t.Fatalf("two paragraphs should score 0 without suggestions, got %+v", m)
	}
}

func TestParagraphMeasure(t *testing.T) {
	flat := viewOf(extract.Text{Paragraphs: sentencesOfLengths(50, 50, 50)})
	if m := measureParagraph(flat, 10); m.Score != 2 || !hasKind(m, Info) {
		t.Fatalf("flat paragraphs: %+v", m)
	}
	varied := viewOf(extract.Text{Paragraphs: sentencesOfLengths(10, 10, 30, 30)})
	if m := measureParagraph(varied, 10); m.Score != 10 || len(m.Suggestions) != 0 {
		t.Fatalf("varied paragraphs: %+v", m)
	}
}

func TestPatternMeasure_InjectedPhraseSurfaces(t *testing.T) {
	unit := "하늘이 맑고 바람이 분다. "
	clean := viewOf(extract.Text{Plain: strings.Repeat(unit, 70)})
	dirty := viewOf(extract.Text{Plain: strings.Repeat("효과적으로 "+unit, 5) + strings.Repeat(unit, 65)})

	a, b := measurePattern(clean, 25), measurePattern(dirty, 25)
	if a.Score != 25 || len(a.Suggestions) != 0 {
		t.Fatalf("clean text: %+v", a)
	}
	if b.Score >= a.Score {
		t.Fatalf("injected score %d not below clean %d", b.Score, a.Score)
	}
	if len(b.Suggestions) != 1 || !strings.Contains(b.Suggestions[0].Text, "'효과적으로'") {
		t.Fatalf("expected the phrase quoted verbatim, got %+v", b.Suggestions)
	}
}

func TestPatternMeasure_ListsAtMostThreePhrases(t *testing.T) {
	text := strings.Repeat("결론적으로 또한 따라서 다양한 하늘. ", 10)
	m := measurePattern(viewOf(extract.Text{Plain: text}), 25)
	if m.Suggestions[0].Kind != Warning {
		t.Fatalf("dense stock phrasing should warn")
	}
	if strings.Count(m.Suggestions[0].Text, "'") != 6 {
		t.Fatalf("expected three quoted phrases, got %q", m.Suggestions[0].Text)
	}
}

func TestPersonalMeasure(t *testing.T) {
	rich := viewOf(extract.Text{Plain: "저는 오늘 걸었다. 제가 본 하늘은 맑았다. 나는 좋았다."})
	if m := measurePersonal(rich, 20); m.Score != 20 || len(m.Suggestions) != 0 {
		t.Fatalf("first-person text: %+v", m)
	}
	none := viewOf(extract.Text{Plain: strings.Repeat("하늘이 맑다. ", 30)})
	if m := measurePersonal(none, 20); m.Score != 4 || !hasKind(m, Warning) {
		t.Fatalf("impersonal text: %+v", m)
	}
}

func TestColloquialMeasure(t *testing.T) {
	v := viewOf(extract.Text{Plain: "진짜 좋았어요? 정말 좋았다!"})
	m := measureColloquial(v, 20)
	if m.Stats["lexemes"] != 2 || m.Stats["questions"] != 1 || m.Stats["exclaims"] != 1 {
		t.Fatalf("unexpected counts %+v", m.Stats)
	}
	if m.Score != 20 {
		t.Fatalf("score = %d, want 20", m.Score)
	}
}

func TestInformalMeasure(t *testing.T) {
	plain := strings.Repeat("오늘 날씨 좋다 ㅎㅎ 😊 ", 10)
	m := measureInformal(viewOf(extract.Text{Plain: plain}), 10)
	if m.Score != 10 {
		t.Fatalf("emoji-rich text scored %d, want 10", m.Score)
	}
	bare := measureInformal(viewOf(extract.Text{Plain: strings.Repeat("오늘 날씨 좋다. ", 20)}), 10)
	if bare.Score > 2 || !hasKind(bare, Info) {
		t.Fatalf("bare text: %+v", bare)
	}
}

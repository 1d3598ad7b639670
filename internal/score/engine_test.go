package score

import (
	"context"
	"math"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/hyperifyio/humanscore/internal/extract"
	"github.com/hyperifyio/humanscore/internal/lexicon"
	"github.com/hyperifyio/humanscore/internal/tone"
)

const humanPost = `<h2>주말 캠핑 후기</h2>
<p>저는 지난 주말에 처음으로 혼자 캠핑을 다녀왔어요. 솔직히 좀 무서웠거든요! 근데 막상 가 보니까 진짜 괜찮더라고요 ㅋㅋ</p>
<p>텐트 치는 데만 한 시간이 걸렸다. 바람이 불어서 폴대가 자꾸 넘어갔고, 옆 사이트 아저씨가 보다 못해 도와주셨다. 감사했다.</p>
<p>밤에는 불멍을 했어요~ 장작 타는 소리가 이렇게 좋은 줄 몰랐네요...</p>
<p>다음엔 누구랑 같이 갈까? 아니면 또 혼자 갈까? 아직 모르겠다. 그래도 제가 직접 해 봤다는 게 뿌듯해요 😊</p>`

func TestAnalyze_EmptyAndShortInputs(t *testing.T) {
	for _, in := range []string{"", "<p></p>", "<p>   </p>", "<p>짧은 글입니다.</p>"} {
		res := Analyze(in, "default")
		if !res.IsEmpty || res.Score != 0 || res.Grade != "-" {
			t.Fatalf("input %q: expected empty result, got empty=%v score=%d grade=%q", in, res.IsEmpty, res.Score, res.Grade)
		}
		if len(res.Metrics) != 0 {
			t.Fatalf("empty result should carry no metrics")
		}
		if len(res.Suggestions) != 1 || res.Suggestions[0].Kind != Info || !strings.Contains(res.Suggestions[0].Text, "100") {
			t.Fatalf("expected a single info suggestion naming the threshold, got %+v", res.Suggestions)
		}
	}
}

func TestAnalyze_ThresholdCountsNonWhitespaceRunes(t *testing.T) {
	// 99 visible runes spread over lots of whitespace
	in := "<p>" + strings.Repeat("가 ", 99) + "</p>"
	if res := Analyze(in, ""); !res.IsEmpty {
		t.Fatalf("99 visible runes should be empty")
	}
	in = "<p>" + strings.Repeat("가 ", 100) + "</p>"
	if res := Analyze(in, ""); res.IsEmpty {
		t.Fatalf("100 visible runes should be analyzed")
	}
}

func TestAnalyze_NeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"<p></p>",
		strings.Repeat("가", 10000),
		strings.Repeat("😀", 300),
		"<<<p>>>" + strings.Repeat("</div>", 50) + strings.Repeat("!?.", 100),
	}
	for _, in := range inputs {
		res := Analyze(in, "sns")
		if res.Score < 0 || res.Score > 100 {
			t.Fatalf("score out of range: %d", res.Score)
		}
	}
}

func TestAnalyze_ScoreIsClampedSumOfMetrics(t *testing.T) {
	for _, p := range tone.All() {
		res := Analyze(humanPost, string(p.ID))
		if res.IsEmpty {
			t.Fatalf("sample should not be empty")
		}
		if len(res.Metrics) != len(Kinds) {
			t.Fatalf("expected %d metrics, got %d", len(Kinds), len(res.Metrics))
		}
		sum := 0
		weights := map[Kind]int{
			KindSentence: p.Weights.Sentence, KindPersonal: p.Weights.Personal, KindPattern: p.Weights.Pattern,
			KindParagraph: p.Weights.Paragraph, KindColloquial: p.Weights.Colloquial, KindInformal: p.Weights.Informal,
		}
		for i, m := range res.Metrics {
			if m.Kind != Kinds[i] {
				t.Fatalf("metric %d is %s, want %s", i, m.Kind, Kinds[i])
			}
			if m.MaxScore != weights[m.Kind] {
				t.Fatalf("%s max = %d, want tone weight %d", m.Kind, m.MaxScore, weights[m.Kind])
			}
			if m.Score < 0 || m.Score > m.MaxScore {
				t.Fatalf("%s score %d outside [0,%d]", m.Kind, m.Score, m.MaxScore)
			}
			sum += m.Score
		}
		want := int(math.Min(100, math.Max(0, float64(sum))))
		if res.Score != want {
			t.Fatalf("tone %s: score %d, want %d", p.ID, res.Score, want)
		}
		if res.Grade != Grade(res.Score) {
			t.Fatalf("grade mismatch")
		}
	}
}

func TestAnalyze_HumanPostScoresWell(t *testing.T) {
	res := Analyze(humanPost, "casual")
	if res.Score < 75 {
		t.Fatalf("expected a conversational post to score at least B, got %d (%+v)", res.Score, res.Metrics)
	}
}

func TestAnalyze_UnknownToneFallsBackToDefault(t *testing.T) {
	res := Analyze(humanPost, "poetry")
	if res.Tone != string(tone.Default) {
		t.Fatalf("tone = %q, want default", res.Tone)
	}
	m, _ := res.Metric(KindPattern)
	if m.MaxScore != tone.Get("").Weights.Pattern {
		t.Fatalf("pattern weight = %d, want default preset", m.MaxScore)
	}
}

func TestGradeBoundaries(t *testing.T) {
	tests := map[int]string{100: "A", 90: "A", 89: "B", 75: "B", 74: "C", 55: "C", 54: "D", 0: "D"}
	for s, want := range tests {
		if got := Grade(s); got != want {
			t.Fatalf("Grade(%d) = %s, want %s", s, got, want)
		}
	}
}

func TestAggregate_StableSortByPriority(t *testing.T) {
	metrics := []Metric{
		{Kind: KindSentence, Score: 10, Suggestions: []Suggestion{{Text: "a", Priority: 5}}},
		{Kind: KindPersonal, Score: 10, Suggestions: []Suggestion{{Text: "b", Priority: 5}}},
		{Kind: KindPattern, Score: 10, Suggestions: []Suggestion{{Text: "c", Priority: 10}}},
		{Kind: KindParagraph, Score: 10},
		{Kind: KindColloquial, Score: 10, Suggestions: []Suggestion{{Text: "d", Priority: 1}, {Text: "e", Priority: 5}}},
		{Kind: KindInformal, Score: 10},
	}
	res := aggregate(tone.Default, metrics)
	var got []string
	for _, s := range res.Suggestions {
		got = append(got, s.Text)
	}
	if strings.Join(got, "") != "cabed" {
		t.Fatalf("order = %v, want [c a b e d]", got)
	}
	if res.Score != 60 || res.Grade != "C" {
		t.Fatalf("score/grade = %d/%s, want 60/C", res.Score, res.Grade)
	}
}

func TestAnalyze_SuggestionsNonIncreasing(t *testing.T) {
	flat := "<p>" + strings.Repeat("하늘이 맑고 바람이 분다. ", 40) + "</p>"
	res := Analyze(flat, "default")
	if len(res.Suggestions) < 3 {
		t.Fatalf("expected several suggestions for flat text, got %d", len(res.Suggestions))
	}
	order := map[Kind]int{}
	for i, k := range Kinds {
		order[k] = i
	}
	for i := 1; i < len(res.Suggestions); i++ {
		prev, cur := res.Suggestions[i-1], res.Suggestions[i]
		if cur.Priority > prev.Priority {
			t.Fatalf("suggestions not sorted: %d then %d", prev.Priority, cur.Priority)
		}
		if cur.Priority == prev.Priority && order[cur.Metric] < order[prev.Metric] {
			t.Fatalf("tie broke metric order: %s before %s", prev.Metric, cur.Metric)
		}
	}
	if top := res.Top(2); len(top) != 2 || top[0] != res.Suggestions[0] {
		t.Fatalf("Top(2) should be the ranked prefix")
	}
	if all := res.Top(0); len(all) != len(res.Suggestions) {
		t.Fatalf("Top(0) should return everything")
	}
}

func TestAnalyze_StockPhraseInjectionLowersScore(t *testing.T) {
	unit := "하늘이 맑고 바람이 분다. "
	clean := "<p>" + strings.Repeat(unit, 70) + "</p>"
	injected := "<p>" + strings.Repeat("효과적으로 "+unit, 5) + strings.Repeat(unit, 65) + "</p>"

	a, b := Analyze(clean, "default"), Analyze(injected, "default")
	if b.Score >= a.Score {
		t.Fatalf("injected score %d should be below clean score %d", b.Score, a.Score)
	}
	found := false
	for _, s := range b.Suggestions {
		if s.Metric == KindPattern && strings.Contains(s.Text, "효과적으로") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected pattern suggestion quoting the phrase, got %+v", b.Suggestions)
	}
}

func TestEngine_UsesCache(t *testing.T) {
	c := &memCache{data: map[string][]byte{}}
	e := &Engine{Cache: c}
	first := e.Analyze(context.Background(), Input{Content: humanPost, Tone: "blog"})
	second := e.Analyze(context.Background(), Input{Content: humanPost, Tone: "casual"})
	if c.saves != 1 || c.hits != 1 {
		t.Fatalf("expected one save and one hit (aliases share a key), got saves=%d hits=%d", c.saves, c.hits)
	}
	if first.Score != second.Score || first.Grade != second.Grade || len(second.Metrics) != 6 {
		t.Fatalf("cached result differs")
	}
}

func TestEngine_PanickingExtractorYieldsEmpty(t *testing.T) {
	e := &Engine{Extractor: panicky{}}
	res := e.Analyze(context.Background(), Input{Content: humanPost})
	if !res.IsEmpty {
		t.Fatalf("expected empty result after extractor panic")
	}
}

func TestEngine_CustomLexicon(t *testing.T) {
	lex, err := lexicon.Parse([]byte(strings.Replace(string(mustDefaultYAML(t)), "  - phrase: 효과적으로\n    plain: 잘\n", "  - phrase: 하늘이\n    plain: 하늘\n", 1)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	e := &Engine{Lexicon: lex}
	res := e.Analyze(context.Background(), Input{Content: "<p>" + strings.Repeat("하늘이 맑고 바람이 분다. ", 40) + "</p>"})
	m, _ := res.Metric(KindPattern)
	if m.Stats["matches"] != 40 {
		t.Fatalf("custom phrase should match 40 times, got %v", m.Stats["matches"])
	}
}

func TestEngine_CacheKeyDependsOnLexiconContents(t *testing.T) {
	custom, err := lexicon.Parse([]byte(strings.Replace(string(mustDefaultYAML(t)), "  - phrase: 효과적으로\n    plain: 잘\n", "  - phrase: 하늘이\n    plain: 하늘\n", 1)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if custom.Locale != lexicon.Default().Locale || custom.Version != lexicon.Default().Version {
		t.Fatalf("edited copy should keep locale and version")
	}
	c := &memCache{data: map[string][]byte{}}
	in := Input{Content: "<p>" + strings.Repeat("하늘이 맑고 바람이 분다. ", 40) + "</p>"}

	before := (&Engine{Cache: c}).Analyze(context.Background(), in)
	after := (&Engine{Cache: c, Lexicon: custom}).Analyze(context.Background(), in)
	if c.hits != 0 || c.saves != 2 {
		t.Fatalf("a different lexicon must not hit the cache, hits=%d saves=%d", c.hits, c.saves)
	}
	mb, _ := before.Metric(KindPattern)
	ma, _ := after.Metric(KindPattern)
	if mb.Stats["matches"] != 0 || ma.Stats["matches"] != 40 {
		t.Fatalf("matches default=%v custom=%v", mb.Stats["matches"], ma.Stats["matches"])
	}
}

func mustDefaultYAML(t *testing.T) []byte {
	t.Helper()
	b, err := os.ReadFile("../lexicon/ko.yaml")
	if err != nil {
		t.Fatalf("read lexicon: %v", err)
	}
	return b
}

type memCache struct {
	mu    sync.Mutex
	data  map[string][]byte
	hits  int
	saves int
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if ok {
		m.hits++
	}
	return b, ok, nil
}

func (m *memCache) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.data[key] = data
	return nil
}

type panicky struct{}

func (panicky) Extract(string) extract.Text { panic("boom") }

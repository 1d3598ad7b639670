package score

// Kind names one of the six measures.
type Kind string

const (
	KindSentence   Kind = "sentence"
	KindPersonal   Kind = "personal"
	KindPattern    Kind = "pattern"
	KindParagraph  Kind = "paragraph"
	KindColloquial Kind = "colloquial"
	KindInformal   Kind = "informal"
)

// Kinds lists the measures in their fixed reporting order. Suggestion ties
// keep this order.
var Kinds = []Kind{KindSentence, KindPersonal, KindPattern, KindParagraph, KindColloquial, KindInformal}

// SuggestionKind is the severity class of a suggestion.
type SuggestionKind string

const (
	Info    SuggestionKind = "info"
	Warning SuggestionKind = "warning"
)

// Suggestion is one improvement hint. Priority is a static rank chosen by
// the metric that produced it and only orders display.
type Suggestion struct {
	Kind     SuggestionKind `json:"kind"`
	Text     string         `json:"text"`
	Priority int            `json:"priority"`
	Metric   Kind           `json:"metric,omitempty"`
}

// Metric is the outcome of one measure. Score never exceeds MaxScore.
type Metric struct {
	Kind        Kind               `json:"kind"`
	Label       string             `json:"label"`
	Score       int                `json:"score"`
	MaxScore    int                `json:"maxScore"`
	Stats       map[string]float64 `json:"stats,omitempty"`
	Suggestions []Suggestion       `json:"suggestions"`
}

// Result is the full analysis of one document.
type Result struct {
	Score       int          `json:"score"`
	Grade       string       `json:"grade"`
	Tone        string       `json:"tone"`
	Metrics     []Metric     `json:"metrics"`
	Suggestions []Suggestion `json:"suggestions"`
	IsEmpty     bool         `json:"isEmpty"`
}

// Top returns at most n suggestions from the head of the ranked list.
func (r Result) Top(n int) []Suggestion {
	if n <= 0 || n >= len(r.Suggestions) {
		return r.Suggestions
	}
	return r.Suggestions[:n]
}

// Metric returns the metric of the given kind, if present.
func (r Result) Metric(k Kind) (Metric, bool) {
	for _, m := range r.Metrics {
		if m.Kind == k {
			return m, true
		}
	}
	return Metric{}, false
}

// Input is one analysis request.
type Input struct {
	Content string
	Tone    string
	// Format selects the extractor: "html" (default), "markdown" or "text".
	Format string
}

// Suggestion priorities. Higher ranks display first.
const (
	priorityEmpty             = 10
	priorityPatternWarning    = 10
	prioritySentenceWarning   = 9
	priorityPersonalWarning   = 8
	priorityColloquialWarning = 7
	priorityPatternInfo       = 6
	prioritySentenceInfo      = 5
	priorityPersonalInfo      = 4
	priorityColloquialInfo    = 3
	priorityParagraphInfo     = 2
	priorityInformalInfo      = 1
)

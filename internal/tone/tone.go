package tone

import "strings"

// ID identifies a writing-style preset.
type ID string

const (
	// Default is the baseline preset used for unknown tone names.
	Default ID = "default"
	// Casual fits blogs and personal posts.
	Casual ID = "casual"
	// Professional fits business and product writing.
	Professional ID = "professional"
	// Academic fits essays and reports.
	Academic ID = "academic"
	// SNS fits short social posts.
	SNS ID = "sns"
)

// Weights is the maximum contribution of each metric. Every preset sums to 100.
type Weights struct {
	Sentence   int `json:"sentence" yaml:"sentence"`
	Personal   int `json:"personal" yaml:"personal"`
	Pattern    int `json:"pattern" yaml:"pattern"`
	Paragraph  int `json:"paragraph" yaml:"paragraph"`
	Colloquial int `json:"colloquial" yaml:"colloquial"`
	Informal   int `json:"informal" yaml:"informal"`
}

// Sum returns the total of all six weights.
func (w Weights) Sum() int {
	return w.Sentence + w.Personal + w.Pattern + w.Paragraph + w.Colloquial + w.Informal
}

// Preset is a named weight table.
type Preset struct {
	ID          ID
	Name        string
	Description string
	Weights     Weights
}

var presets = map[ID]Preset{
	Default: {
		ID:          Default,
		Name:        "기본",
		Description: "Balanced weighting for general prose",
		Weights:     Weights{Sentence: 20, Personal: 20, Pattern: 25, Paragraph: 10, Colloquial: 15, Informal: 10},
	},
	Casual: {
		ID:          Casual,
		Name:        "블로그",
		Description: "Personal blog posts; rewards voice and colloquial markers",
		Weights:     Weights{Sentence: 15, Personal: 20, Pattern: 20, Paragraph: 10, Colloquial: 20, Informal: 15},
	},
	Professional: {
		ID:          Professional,
		Name:        "비즈니스",
		Description: "Business writing; stock phrasing and rhythm matter most",
		Weights:     Weights{Sentence: 25, Personal: 20, Pattern: 30, Paragraph: 15, Colloquial: 5, Informal: 5},
	},
	Academic: {
		ID:          Academic,
		Name:        "에세이",
		Description: "Essays and reports; informal markers barely count",
		Weights:     Weights{Sentence: 25, Personal: 15, Pattern: 35, Paragraph: 15, Colloquial: 5, Informal: 5},
	},
	SNS: {
		ID:          SNS,
		Name:        "SNS",
		Description: "Short social posts; paralinguistic elements weigh heavily",
		Weights:     Weights{Sentence: 10, Personal: 20, Pattern: 15, Paragraph: 5, Colloquial: 25, Informal: 25},
	},
}

var order = []ID{Default, Casual, Professional, Academic, SNS}

// Get returns the preset for a tone name, accepting a few aliases.
// Unknown names resolve to Default.
func Get(name string) Preset {
	return presets[normalize(name)]
}

// Known reports whether name resolves to a preset other than by fallback.
func Known(name string) bool {
	_, ok := lookup(name)
	return ok
}

// All returns every preset in display order.
func All() []Preset {
	out := make([]Preset, 0, len(order))
	for _, id := range order {
		out = append(out, presets[id])
	}
	return out
}

func normalize(s string) ID {
	id, _ := lookup(s)
	return id
}

// lookup resolves ids, aliases and display names; ok is false when name
// fell through to Default.
func lookup(s string) (ID, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "default", "general", "기본", "일반":
		return Default, true
	case "casual", "blog", "personal", "블로그", "일상":
		return Casual, true
	case "professional", "business", "formal", "비즈니스", "업무":
		return Professional, true
	case "academic", "essay", "report", "에세이", "보고서":
		return Academic, true
	case "sns", "social", "twitter", "instagram":
		return SNS, true
	default:
		return Default, false
	}
}

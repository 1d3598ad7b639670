package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

type suggestion struct {
	Original string `json:"original"`
	Revised  string `json:"revised"`
	Reason   string `json:"reason"`
}

// Canned replacements applied to the first matching sentence.
var replacements = [][2]string{
	{"결론적으로 ", ""},
	{"다양한", "여러"},
	{"효과적으로 ", ""},
	{"활용하는 것이", "쓰는 게"},
	{"중요합니다", "중요해요"},
	{"또한", "그리고"},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}

	log.Info().Str("addr", addr).Str("model", model).Msg("rewrite-stub listening")
	if err := http.ListenAndServe(addr, newMux(model)); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}

func newMux(model string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) < 2 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if !strings.Contains(req.Messages[0].Content, "copy editor") {
			http.Error(w, "unexpected system", http.StatusBadRequest)
			return
		}
		b, _ := json.Marshal(map[string]any{"suggestions": suggest(req.Messages[1].Content)})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": model,
			"choices": []map[string]any{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": string(b)}},
			},
		})
	})
	return mux
}

// suggest rewrites the first sentence of the prompt text that any canned
// replacement changes.
func suggest(user string) []suggestion {
	text := user
	if i := strings.Index(user, "Text:\n\n"); i >= 0 {
		text = user[i+len("Text:\n\n"):]
	}
	out := []suggestion{}
	for _, s := range sentences(text) {
		revised := s
		for _, r := range replacements {
			revised = strings.ReplaceAll(revised, r[0], r[1])
		}
		if revised != s {
			out = append(out, suggestion{Original: s, Revised: revised, Reason: "상투적인 연결어와 명사형 표현을 덜어냈습니다."})
			break
		}
	}
	return out
}

func sentences(text string) []string {
	var out []string
	start := 0
	rs := []rune(text)
	for i, r := range rs {
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if s := strings.TrimSpace(string(rs[start : i+1])); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(string(rs[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

package llm

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    openai "github.com/sashabaranov/go-openai"
)

type fakeChat struct {
    got     openai.ChatCompletionRequest
    content string
    err     error
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
    f.got = req
    if f.err != nil {
        return openai.ChatCompletionResponse{}, f.err
    }
    return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.content}}}}, nil
}

func TestOpenAIProvider_SendsSystemAndUser(t *testing.T) {
    f := &fakeChat{content: "  {\"suggestions\":[]}\n"}
    p := &OpenAIProvider{Client: f, ModelName: "m1"}
    out, err := p.Complete(context.Background(), "sys", "usr")
    if err != nil {
        t.Fatalf("complete: %v", err)
    }
    if out != `{"suggestions":[]}` {
        t.Fatalf("unexpected output %q", out)
    }
    if len(f.got.Messages) != 2 || f.got.Messages[0].Role != openai.ChatMessageRoleSystem || f.got.Messages[1].Content != "usr" {
        t.Fatalf("unexpected request %+v", f.got.Messages)
    }
    if p.Model() != "openai:m1" {
        t.Fatalf("model = %q", p.Model())
    }
}

func TestOpenAIProvider_EmptyAndError(t *testing.T) {
    p := &OpenAIProvider{Client: &fakeChat{content: "  "}, ModelName: "m"}
    if _, err := p.Complete(context.Background(), "s", "u"); !errors.Is(err, ErrEmptyResponse) {
        t.Fatalf("expected ErrEmptyResponse, got %v", err)
    }
    p = &OpenAIProvider{Client: &fakeChat{err: errors.New("down")}, ModelName: "m"}
    if _, err := p.Complete(context.Background(), "s", "u"); err == nil || !strings.Contains(err.Error(), "down") {
        t.Fatalf("expected wrapped error, got %v", err)
    }
}

func TestNewOpenAI_TalksToCompatibleServer(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/v1/chat/completions" {
            http.NotFound(w, r)
            return
        }
        w.Header().Set("Content-Type", "application/json")
        _ = json.NewEncoder(w).Encode(map[string]any{
            "choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": "ok"}}},
        })
    }))
    defer srv.Close()

    p := NewOpenAI(srv.URL+"/v1/", "k", "local", srv.Client())
    out, err := p.Complete(context.Background(), "s", "u")
    if err != nil || out != "ok" {
        t.Fatalf("got %q, %v", out, err)
    }
}

func TestAnthropicProvider_ReadsFirstTextBlock(t *testing.T) {
    var body map[string]any
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
            http.NotFound(w, r)
            return
        }
        _ = json.NewDecoder(r.Body).Decode(&body)
        w.Header().Set("Content-Type", "application/json")
        _ = json.NewEncoder(w).Encode(map[string]any{
            "id":          "msg_1",
            "type":        "message",
            "role":        "assistant",
            "model":       "claude-test",
            "stop_reason": "end_turn",
            "content":     []map[string]any{{"type": "text", "text": "안녕하세요"}},
            "usage":       map[string]any{"input_tokens": 3, "output_tokens": 2},
        })
    }))
    defer srv.Close()

    p := NewAnthropic(srv.URL, "k", "claude-test", srv.Client())
    out, err := p.Complete(context.Background(), "sys", "usr")
    if err != nil {
        t.Fatalf("complete: %v", err)
    }
    if out != "안녕하세요" {
        t.Fatalf("out = %q", out)
    }
    if body["model"] != "claude-test" {
        t.Fatalf("request model = %v", body["model"])
    }
    if p.Model() != "anthropic:claude-test" {
        t.Fatalf("model = %q", p.Model())
    }
}

func TestNewAnthropic_DefaultsModel(t *testing.T) {
    if p := NewAnthropic("", "k", " ", nil); p.ModelName != DefaultAnthropicModel {
        t.Fatalf("model = %q", p.ModelName)
    }
}

package llm

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "strings"

    "github.com/anthropics/anthropic-sdk-go"
    "github.com/anthropics/anthropic-sdk-go/option"
    openai "github.com/sashabaranov/go-openai"
)

// ErrEmptyResponse is returned when a backend answers without any text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Completer is the minimal interface the rewrite client needs: one system
// message, one user message, one text answer. Model names the backend model
// and scopes cache keys.
type Completer interface {
    Complete(ctx context.Context, system, user string) (string, error)
    Model() string
}

// ChatClient mirrors the CreateChatCompletion method of *openai.Client so
// tests and OpenAI-compatible local servers can stand in for it.
type ChatClient interface {
    CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider adapts any OpenAI-compatible chat endpoint to Completer.
type OpenAIProvider struct {
    Client    ChatClient
    ModelName string
}

// NewOpenAI builds a provider for baseURL (empty means the public API).
func NewOpenAI(baseURL, apiKey, model string, hc *http.Client) *OpenAIProvider {
    cfg := openai.DefaultConfig(apiKey)
    if strings.TrimSpace(baseURL) != "" {
        cfg.BaseURL = strings.TrimRight(baseURL, "/")
    }
    if hc != nil {
        cfg.HTTPClient = hc
    }
    return &OpenAIProvider{Client: openai.NewClientWithConfig(cfg), ModelName: model}
}

func (p *OpenAIProvider) Model() string { return "openai:" + p.ModelName }

func (p *OpenAIProvider) Complete(ctx context.Context, system, user string) (string, error) {
    req := openai.ChatCompletionRequest{
        Model: p.ModelName,
        Messages: []openai.ChatCompletionMessage{
            {Role: openai.ChatMessageRoleSystem, Content: system},
            {Role: openai.ChatMessageRoleUser, Content: user},
        },
        Temperature: 0.0,
        N:           1,
    }
    resp, err := p.Client.CreateChatCompletion(ctx, req)
    if err != nil {
        return "", fmt.Errorf("chat completion: %w", err)
    }
    if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
        return "", ErrEmptyResponse
    }
    return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-3-5-haiku-20241022"

// AnthropicProvider adapts the Anthropic Messages API to Completer.
type AnthropicProvider struct {
    client    anthropic.Client
    ModelName string
    MaxTokens int64
}

// NewAnthropic builds a provider. baseURL is optional and mostly useful for
// tests and proxies.
func NewAnthropic(baseURL, apiKey, model string, hc *http.Client) *AnthropicProvider {
    opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(1)}
    if strings.TrimSpace(baseURL) != "" {
        opts = append(opts, option.WithBaseURL(baseURL))
    }
    if hc != nil {
        opts = append(opts, option.WithHTTPClient(hc))
    }
    if strings.TrimSpace(model) == "" {
        model = DefaultAnthropicModel
    }
    return &AnthropicProvider{client: anthropic.NewClient(opts...), ModelName: model, MaxTokens: 2000}
}

func (p *AnthropicProvider) Model() string { return "anthropic:" + p.ModelName }

func (p *AnthropicProvider) Complete(ctx context.Context, system, user string) (string, error) {
    resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
        Model:     anthropic.Model(p.ModelName),
        MaxTokens: p.MaxTokens,
        System:    []anthropic.TextBlockParam{{Text: system}},
        Messages: []anthropic.MessageParam{
            anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
        },
    })
    if err != nil {
        return "", fmt.Errorf("anthropic messages: %w", err)
    }
    for _, block := range resp.Content {
        if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
            return strings.TrimSpace(block.Text), nil
        }
    }
    return "", ErrEmptyResponse
}

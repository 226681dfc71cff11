package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"hrcore/internal/config"
	"hrcore/pkg/domain"
)

const defaultInstruction = "You draft internal human resources documents. Answer with the document only."

// OpenAIGenerator calls the chat completions API. System instructions are
// chosen per kind from configuration.
type OpenAIGenerator struct {
	client       *openai.Client
	model        string
	maxTokens    int
	instructions map[domain.Kind]string
	logger       *zap.Logger
}

var _ Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator builds a client from cfg. An API key is required.
func NewOpenAIGenerator(cfg config.OpenAI, logger *zap.Logger) (*OpenAIGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai api key required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	instructions := make(map[domain.Kind]string, len(cfg.Instructions))
	for kind, text := range cfg.Instructions {
		instructions[domain.Kind(kind)] = text
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIGenerator{
		client:       openai.NewClientWithConfig(clientCfg),
		model:        cfg.Model,
		maxTokens:    cfg.MaxTokens,
		instructions: instructions,
		logger:       logger,
	}, nil
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	system, ok := g.instructions[req.Kind]
	if !ok {
		system = defaultInstruction
	}
	chat := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(req)},
		},
	}
	if g.maxTokens > 0 {
		chat.MaxCompletionTokens = g.maxTokens
	}
	g.logger.Debug("requesting completion", zap.String("model", g.model), zap.String("kind", string(req.Kind)))
	resp, err := g.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	g.logger.Debug("completion received",
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return resp.Choices[0].Message.Content, nil
}

func userPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\nSubject: %s\n", req.Kind, req.SubjectKey)
	if req.Description != "" {
		b.WriteString("\n")
		b.WriteString(req.Description)
	}
	return b.String()
}

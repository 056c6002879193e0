package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/evolvinutri/backend/pkg/configuration"
)

var ErrEmptyPlan = errors.New("generator returned an empty plan")

type OpenAIPlanGenerator struct {
	client      openai.Client
	model       string
	temperature float64
}

func NewOpenAIPlanGenerator(opts configuration.OpenAIOptions) *OpenAIPlanGenerator {
	var client openai.Client
	if opts.BaseURL != "" {
		client = openai.NewClient(
			option.WithAPIKey(opts.Key),
			option.WithBaseURL(opts.BaseURL),
		)
	} else {
		client = openai.NewClient(
			option.WithAPIKey(opts.Key),
		)
	}
	return &OpenAIPlanGenerator{
		client:      client,
		model:       opts.Model,
		temperature: opts.Temperature,
	}
}

// Generate produces the plan text for the given intake document. The returned
// string is an opaque block following the prompt's layout; callers forward it
// as-is to the delivery channels.
func (g *OpenAIPlanGenerator) Generate(ctx context.Context, intake json.RawMessage) (string, error) {
	pretty, err := json.MarshalIndent(intake, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing intake data: %w", err)
	}

	response, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(nutritionistPrompt),
			openai.UserMessage("Aqui estão os dados do cliente para preencher o template: " + string(pretty)),
		},
		Temperature: openai.Float(g.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", ErrEmptyPlan
	}
	content := response.Choices[0].Message.Content
	if content == "" {
		return "", ErrEmptyPlan
	}
	return content, nil
}

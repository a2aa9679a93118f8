// Package advisor подбирает категории образа под текстовый запрос пользователя.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/vansh-khaneja/WearWhat-backend/internal/cfg"
	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
)

const (
	defaultModel   = "gpt-4o-2024-08-06"
	defaultTimeout = 30 * time.Second
	maxPromptLen   = 500
)

const systemPrompt = `You are a fashion assistant. The user has the following clothing categories in their wardrobe:
%s

Based on the user's request, select the most appropriate categories for an outfit.
Only select from the available categories listed above.
Select categories that would make a complete, appropriate outfit for the occasion.
Answer with a JSON object: {"selected_categories": [string], "reasoning": string}.`

// Advisor выбирает категории через chat completion с JSON-ответом.
type Advisor struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  logger.Logger
}

func NewAdvisor(cfg *cfg.OpenAICfg, logger logger.Logger) *Advisor {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Advisor{
		client:  openai.NewClientWithConfig(config),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

type adviceResponse struct {
	SelectedCategories []string `json:"selected_categories"`
	Reasoning          string   `json:"reasoning"`
}

func (a *Advisor) SelectCategories(ctx context.Context, req *usecase.AdviceReq) (*usecase.AdviceRes, error) {
	const op = "Advisor.SelectCategories"

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt := req.Prompt
	if runes := []rune(prompt); len(runes) > maxPromptLen {
		prompt = string(runes[:maxPromptLen])
	}

	start := time.Now()
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0.4,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(systemPrompt, strings.Join(flatten(req.Available), ", ")),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(resp.Choices) == 0 {
		return nil, e.Wrap(op, fmt.Errorf("empty response from LLM"))
	}

	var parsed adviceResponse
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		a.logger.Warnf("advisor response is not valid JSON: %q", resp.Choices[0].Message.Content)
		return nil, e.Wrap(op, fmt.Errorf("parse response: %w", err))
	}

	a.logger.Debugf("advisor selected %v in %s (tokens: %d)", parsed.SelectedCategories, time.Since(start), resp.Usage.TotalTokens)

	return &usecase.AdviceRes{
		Categories: parsed.SelectedCategories,
		Reasoning:  parsed.Reasoning,
	}, nil
}

// flatten перечисляет категории в фиксированном порядке групп.
func flatten(available map[domain.CategoryGroup][]string) []string {
	var res []string
	for _, g := range domain.AllCategoryGroups() {
		res = append(res, available[g]...)
	}
	return res
}

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"DraftFlow/internal/config"
	"DraftFlow/internal/domain"
	"DraftFlow/internal/ports"
)

// OpenAIClient generates weekly blog drafts via the chat completions API.
type OpenAIClient struct {
	client      *openai.Client
	model       openai.ChatModel
	temperature float64
}

var _ ports.DraftGenerator = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	return &OpenAIClient{
		client:      &client,
		model:       openai.ChatModel(cfg.Model),
		temperature: cfg.Temperature,
	}
}

// Generate asks the model for count drafts tailored to the customer profile,
// steering away from usedTitles. Drafts missing a title or body are dropped;
// ending up with zero usable drafts is an error the caller treats as a soft
// per-customer failure.
func (c *OpenAIClient) Generate(ctx context.Context, customer domain.Customer, usedTitles []string, count int) ([]domain.GeneratedDraft, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buildPrompt(customer, usedTitles, count)),
		},
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(6000),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	content := cleanJSONResponse(resp.Choices[0].Message.Content)

	var parsed struct {
		Drafts []struct {
			Title       string `json:"title"`
			Content     string `json:"content"`
			MainKeyword string `json:"main_keyword"`
		} `json:"drafts"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse draft response: %w", err)
	}

	drafts := make([]domain.GeneratedDraft, 0, len(parsed.Drafts))
	for _, d := range parsed.Drafts {
		if d.Title == "" || d.Content == "" {
			continue
		}
		drafts = append(drafts, domain.GeneratedDraft{
			Title:       d.Title,
			Content:     d.Content,
			MainKeyword: d.MainKeyword,
		})
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("openai returned no usable drafts")
	}

	return drafts, nil
}

const maxExcludedTitles = 20

func buildPrompt(customer domain.Customer, usedTitles []string, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a veteran brand-blog writer. Write %d blog drafts for %q.\n\n", count, customer.Name)

	b.WriteString("[Business profile]\n")
	writeField(&b, "Business type", customer.BusinessType)
	writeField(&b, "Specialty", customer.Specialty)
	writeField(&b, "Target audience", customer.TargetAudience)
	writeField(&b, "Brand concept", customer.BrandConcept)
	writeField(&b, "Main services", strings.Join(customer.MainServices, ", "))
	writeField(&b, "Price range", customer.PriceRange)
	writeField(&b, "Location", customer.LocationInfo)
	writeField(&b, "Tone", customer.Tone)
	writeField(&b, "Target keywords", strings.Join(customer.Keywords, ", "))
	writeField(&b, "Preferred phrases", strings.Join(customer.PreferredExpressions, ", "))
	writeField(&b, "Phrases to avoid", strings.Join(customer.AvoidedExpressions, ", "))
	b.WriteString("\n")

	if len(usedTitles) > 0 {
		if len(usedTitles) > maxExcludedTitles {
			usedTitles = usedTitles[len(usedTitles)-maxExcludedTitles:]
		}
		b.WriteString("[Already covered topics - avoid anything similar]\n")
		for _, title := range usedTitles {
			fmt.Fprintf(&b, "- %s\n", title)
		}
		b.WriteString("\n")
	}

	b.WriteString("[Rules]\n")
	b.WriteString("- Each draft is informative content, not an advertisement; mention the business once, near the end.\n")
	b.WriteString("- Start each title with one of the target keywords, naturally phrased.\n")
	b.WriteString("- Each body must be at least 1500 characters, with a hooking intro, three connected subsections, and a short wrap-up.\n")
	b.WriteString("- No markdown formatting, no numbered lists, no exaggerated claims.\n\n")

	fmt.Fprintf(&b, "Output JSON only, in this exact shape:\n")
	b.WriteString(`{"drafts": [{"title": "...", "content": "...", "main_keyword": "..."}]}`)

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, value)
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

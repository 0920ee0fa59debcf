package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/namrata251104/AI-FinancePilot/internal/domain"
	"github.com/namrata251104/AI-FinancePilot/internal/logger"
)

// DefaultModelName is the Gemini model used for conversational answers.
const DefaultModelName = "gemini-2.5-flash"

const systemPrompt = `You are a knowledgeable personal finance assistant.
Analyze the provided financial data and answer the user's question accurately.
Provide specific numbers, dates, and actionable insights.
Format your response in a clear, conversational manner.
If calculations are needed, show the math.
Always be helpful and encouraging about financial management.`

// Model generates a free-form answer for a prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiModel calls the Gemini API. The client reads its API key from
// the environment.
type GeminiModel struct {
	client *genai.Client
	model  string
}

// NewGeminiModel creates a Gemini-backed model.
func NewGeminiModel(ctx context.Context) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiModel: create genai client: %w", err)
	}
	return &GeminiModel{client: client, model: DefaultModelName}, nil
}

// Generate sends the prompt and returns the model's text.
func (m *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}
	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GeminiModel.Generate: generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("GeminiModel.Generate: empty response from model")
	}
	return text, nil
}

// Responder answers user queries, dropping to the rule-based fallback
// when the model is nil or fails.
type Responder struct {
	model Model
}

// NewResponder creates a responder. A nil model is allowed; every
// query then gets the fallback answer.
func NewResponder(model Model) *Responder {
	return &Responder{model: model}
}

// Respond analyzes the query, builds a data context, and asks the
// model for an answer.
func (r *Responder) Respond(ctx context.Context, query string, txs []domain.Transaction, now time.Time) string {
	analysis := AnalyzeQuery(query)

	if r.model == nil {
		return FallbackResponse(analysis, txs, now)
	}

	prompt := buildPrompt(query, analysis, txs, now)
	answer, err := r.model.Generate(ctx, prompt)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Msg("model call failed, using fallback response")
		return FallbackResponse(analysis, txs, now)
	}
	return answer
}

func buildPrompt(query string, analysis Analysis, txs []domain.Transaction, now time.Time) string {
	var context []string
	switch analysis.Intent {
	case IntentSpending:
		context = append(context, SpendingSummary(txs, analysis, now))
	case IntentCategory:
		context = append(context, CategorySummary(txs))
	case IntentTrend:
		context = append(context, TrendSummary(txs))
	default:
		context = append(context, SpendingSummary(txs, analysis, now), CategorySummary(txs))
	}

	return fmt.Sprintf("%s\n\nUser Question: %s\n\nFinancial Data Context:\n%s\n\nPlease provide a comprehensive answer based on the data provided.",
		systemPrompt, query, strings.Join(context, "\n\n"))
}

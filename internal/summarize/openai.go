package summarize

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/traceprint/traceprint/internal/model"
)

const maxTokens = 512

const systemPrompt = "You are a privacy analyst. Given a digital footprint scan, " +
	"write a concise plain-text assessment: one-sentence threat summary, the key " +
	"exposure vectors, and the two most urgent actions. No markdown, no lists " +
	"longer than three items."

// OpenAI renders the summary through a chat-completion model. When the
// API call fails the deterministic fallback text is returned instead,
// so callers always get usable prose.
type OpenAI struct {
	client   *openai.Client
	model    string
	fallback *Static
}

// NewOpenAI creates an LLM-backed summarizer. An empty model selects
// gpt-4o-mini.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{
		client:   openai.NewClient(apiKey),
		model:    model,
		fallback: NewStatic(),
	}
}

// Summarize asks the model for prose built from the structured scores.
func (o *OpenAI) Summarize(ctx context.Context, exposure model.NormalizedExposure, assessment model.RiskAssessment, anomalies model.AnomalyReport) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(exposure, assessment, anomalies)},
		},
	}
	// Reasoning models reject MaxTokens in favor of MaxCompletionTokens.
	if strings.HasPrefix(o.model, "o1") || strings.HasPrefix(o.model, "o3") || strings.HasPrefix(o.model, "o4") || strings.HasPrefix(o.model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil || len(resp.Choices) == 0 {
		return o.fallback.Summarize(ctx, exposure, assessment, anomalies)
	}
	return resp.Choices[0].Message.Content, nil
}

// buildPrompt serializes the structured results for the model. Only
// derived fields go in; the raw handle appears once so the model can
// refer to it.
func buildPrompt(exposure model.NormalizedExposure, assessment model.RiskAssessment, anomalies model.AnomalyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Handle: %s\n", exposure.Handle)
	fmt.Fprintf(&b, "Platforms found (%d of %d checked): %s\n",
		len(exposure.PlatformsFound), len(exposure.AllPlatformsChecked),
		strings.Join(exposure.PlatformsFound, ", "))
	fmt.Fprintf(&b, "Risk: %s, score %.1f/100, confidence %.0f%%\n",
		assessment.Level, assessment.Score, assessment.Confidence)
	fmt.Fprintf(&b, "Contact exposures: %d\n", len(exposure.EmailsFound))
	if len(anomalies.Anomalies) > 0 {
		fmt.Fprintf(&b, "Anomalies (%s): %s\n", anomalies.Severity, strings.Join(anomalies.Anomalies, "; "))
	}
	fmt.Fprintf(&b, "Impersonation risk %.0f, bot likelihood %.0f, coordination %.1f\n",
		anomalies.Indicators.ImpersonationRisk,
		anomalies.Indicators.BotLikelihood,
		anomalies.Indicators.AccountCoordination)
	if len(assessment.Recommendations) > 0 {
		fmt.Fprintf(&b, "Planned recommendations: %s\n", strings.Join(assessment.Recommendations, "; "))
	}

	return b.String()
}

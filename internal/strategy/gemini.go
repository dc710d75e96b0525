package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"aramcoach/internal/types"
)

const geminiSystemPrompt = `You are an ARAM strategy assistant for League of Legends.
Return ONE valid JSON object only, no prose and no markdown, with keys:
- role: one of [peel, engage, poke, zone, front_to_back, anti_dive]
- summary: array of at most 3 short sentences
- build: array of {trigger, items: [{id, name}], why, phase}
- evidence_ids: array of snippet ids you relied on
- assumptions: array of strings
- stat_claims: array of {item_id, stat, value} for any numbers you quote
Cite only item ids and snippet ids that appear in the input. Never mention
Summoner's Rift objectives; this is ARAM.`

// Gemini generates drafts through the Gemini API. Timeouts and malformed
// output map onto the attempt-scoped sentinels so a flaky call burns one
// attempt instead of the whole run.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewGemini builds a Gemini generator.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration, logger *zap.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Gemini{client: client, model: model, timeout: timeout, logger: logger}, nil
}

// Generate asks the model for a draft. Prior violations ride along in the
// prompt so a regeneration can correct them.
func (g *Gemini) Generate(ctx context.Context, in types.GenerateInput) (*types.StrategyDraft, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt, err := buildPrompt(in)
	if err != nil {
		return nil, fmt.Errorf("building prompt: %w", err)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			ResponseMIMEType:  "application/json",
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: geminiSystemPrompt}}},
		},
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrGenerationTimeout, err)
		}
		return nil, fmt.Errorf("gemini call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrGenerationSchema)
	}

	text := resp.Candidates[0].Content.Parts[0].Text
	draft, err := ParseDraft(text)
	if err != nil {
		g.logger.Warn("gemini returned undecodable draft", zap.Error(err))
		return nil, err
	}
	return draft, nil
}

// buildPrompt serializes the generation input the way the model expects:
// request, item facts, ranked evidence, threat scores, and any violations
// from the rejected attempt.
func buildPrompt(in types.GenerateInput) (string, error) {
	type promptItem struct {
		ID    int                `json:"id"`
		Name  string             `json:"name"`
		Tags  []string           `json:"tags,omitempty"`
		Stats map[string]float64 `json:"stats,omitempty"`
	}
	payload := struct {
		Request  types.RequestContext `json:"request"`
		Items    []promptItem         `json:"items"`
		Evidence []types.Snippet      `json:"evidence"`
		Threats  []types.ThreatScore  `json:"threats"`
		Feedback []types.Violation    `json:"feedback,omitempty"`
	}{
		Request:  in.Request,
		Evidence: in.Evidence,
		Threats:  in.Threats,
		Feedback: in.Feedback,
	}
	for _, item := range in.Facts.Items {
		payload.Items = append(payload.Items, promptItem{ID: item.ID, Name: item.Name, Tags: item.Tags, Stats: item.Stats})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Produce a strategy draft for the following request.\n")
	if len(in.Feedback) > 0 {
		b.WriteString("Your previous draft was rejected; fix every violation listed under \"feedback\".\n")
	}
	b.WriteString("[INPUT JSON]\n")
	b.Write(body)
	return b.String(), nil
}

// ParseDraft decodes model output into a draft, tolerating the markdown
// code fences models wrap JSON in despite instructions.
func ParseDraft(text string) (*types.StrategyDraft, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var draft types.StrategyDraft
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationSchema, err)
	}
	return &draft, nil
}

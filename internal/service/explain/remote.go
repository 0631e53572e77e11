package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/maithilyrajpure/trend-decline-gen/internal/config"
	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

const (
	maxTokens   = 300
	temperature = 0.7
	topP        = 0.9
)

const systemPrompt = `You are an expert social media analytics explainer. Your job is to analyze PRECOMPUTED trend decline signals and explain them in clear, concise language.

RULES:
1. You are NOT predicting - you are EXPLAINING already-calculated signals
2. Base ALL statements on the provided numeric data
3. Cite specific percentages and scores from the signals
4. Explain WHY the trend is declining (causality, not just correlation)
5. Keep explanations to 2-4 sentences maximum
6. Use professional, confident tone
7. Provide ONE actionable recommendation for marketers

OUTPUT FORMAT:
- Sentence 1: State the trend status and primary cause
- Sentence 2: Support with specific signal data (cite numbers)
- Sentence 3-4: Explain the mechanism and provide strategic recommendation

AVOID:
- Speculation beyond the data
- Vague statements
- Overly technical jargon
- Lengthy explanations`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// RemoteExplainer asks an OpenAI-compatible chat-completions endpoint to
// explain the analysis. Any failure falls back to the wrapped explainer.
type RemoteExplainer struct {
	apiKey   string
	url      string
	model    string
	client   *http.Client
	fallback trend.Explainer
	logger   *slog.Logger
}

// NewRemoteExplainer creates a remote explainer from the LLM settings
func NewRemoteExplainer(cfg config.LLMConfig, client *http.Client, fallback trend.Explainer, logger *slog.Logger) *RemoteExplainer {
	if client == nil {
		client = &http.Client{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	client.Timeout = cfg.Timeout
	if fallback == nil {
		fallback = RuleExplainer{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RemoteExplainer{
		apiKey:   cfg.APIKey,
		url:      cfg.URL,
		model:    cfg.Model,
		client:   client,
		fallback: fallback,
		logger:   logger.With("component", "remote_explainer", "model", cfg.Model),
	}
}

// Explain implements trend.Explainer
func (e *RemoteExplainer) Explain(ctx context.Context, r trend.AnalysisResult) string {
	insight, err := e.complete(ctx, r)
	if err != nil {
		e.logger.WarnContext(ctx, "remote explanation failed, using rules",
			"keyword", r.Query.Keyword,
			"error", err,
		)
		return e.fallback.Explain(ctx, r)
	}
	return insight
}

func (e *RemoteExplainer) complete(ctx context.Context, r trend.AnalysisResult) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(r)},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	})
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Add("Authorization", "Bearer "+e.apiKey)
	req.Header.Add("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("API returned status code %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("error decoding response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("response has no choices")
	}

	insight := strings.TrimSpace(out.Choices[0].Message.Content)
	if insight == "" {
		return "", errors.New("empty completion")
	}

	e.logger.DebugContext(ctx, "generated remote insight", "keyword", r.Query.Keyword)
	return insight, nil
}

func userPrompt(r trend.AnalysisResult) string {
	s := r.Signals

	var factors strings.Builder
	for i, f := range r.Importance.Ranked() {
		if i > 0 {
			factors.WriteByte('\n')
		}
		fmt.Fprintf(&factors, "  - %s: %.0f%% contribution", f.Name, f.Weight*100)
	}

	return fmt.Sprintf(`Analyze this social media trend decline and provide a clear explanation:

TREND STATUS: %s
DATA SOURCE: %s

DECLINE SIGNALS (Precomputed):
  - Engagement Drop: %d%%
  - Engagement Velocity: %s (negative = declining)
  - Post Frequency Decline: %d%%
  - Content Saturation Score: %s (0-1 scale)
  - Sentiment Score: %s (-1 to +1 scale)
  - Influencer Activity: %.0f%% still active

CONTRIBUTING FACTORS:
%s

DATA-DRIVEN OBSERVATION:
%s

Based on these PRECOMPUTED signals, explain in 3-4 sentences:
1. What is happening to this trend?
2. WHY is it happening (cite specific signals)?
3. What should marketers do?`,
		r.Classification.Status,
		r.DataSource,
		s.EngagementDropPct,
		formatScore(s.EngagementVelocity),
		s.PostFreqDeclinePct,
		formatScore(s.ContentSaturationScore),
		formatScore(s.SentimentScore),
		s.InfluencerActivityRatio*100,
		factors.String(),
		r.Reasoning,
	)
}

// New returns the remote explainer when an API key is configured and the
// rule explainer otherwise
func New(cfg config.LLMConfig, logger *slog.Logger) trend.Explainer {
	if cfg.APIKey == "" {
		return RuleExplainer{}
	}
	return NewRemoteExplainer(cfg, nil, RuleExplainer{}, logger)
}

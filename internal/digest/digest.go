package digest

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/marketbrief/marketbrief/config"
	"github.com/marketbrief/marketbrief/internal/logx"
	"github.com/marketbrief/marketbrief/models"
)

// Mode selects the prompt framing for a digest run.
type Mode string

const (
	PreMarket Mode = "PRE_MARKET"
	PostClose Mode = "POST_CLOSE"
)

const maxAttempts = 3

// Analyzer turns raw market context into a structured narrative digest
// through a chat model. The model is treated as an unreliable JSON
// producer: output is fence-stripped, parsed and validated, with
// retries on malformed responses.
type Analyzer struct {
	chatModel model.BaseChatModel
	sleep     func(time.Duration)
}

func NewAnalyzer(ctx context.Context, cfg *config.Config) (*Analyzer, error) {
	cm, err := newChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Analyzer{chatModel: cm, sleep: time.Sleep}, nil
}

// NewAnalyzerWithModel injects a prebuilt model, for tests.
func NewAnalyzerWithModel(cm model.BaseChatModel) *Analyzer {
	return &Analyzer{chatModel: cm, sleep: func(time.Duration) {}}
}

func newChatModel(ctx context.Context, cfg *config.Config) (model.BaseChatModel, error) {
	switch cfg.LLMProvider {
	case "deepseek":
		cm, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    cfg.DeepSeekAPIKey,
			Model:     "deepseek-chat",
			MaxTokens: 2000,
		})
		if err != nil {
			return nil, fmt.Errorf("create deepseek model: %w", err)
		}
		return cm, nil
	default:
		maxTokens := 2000
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   cfg.XAIBaseURL,
			APIKey:    cfg.XAIAPIKey,
			Model:     cfg.LLMModel,
			MaxTokens: &maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("create chat model: %w", err)
		}
		return cm, nil
	}
}

// GenerateDigest asks the model for a digest of marketContext and
// parses the reply. Malformed replies are retried with exponential
// backoff; after the final attempt the error is returned so the caller
// can drop the digest section from the report.
func (a *Analyzer) GenerateDigest(ctx context.Context, mode Mode, marketContext string) (*models.SignalDigest, error) {
	prompt := buildPrompt(mode, marketContext)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			a.sleep(time.Duration(1<<(attempt-2)) * time.Second)
		}

		msg, err := a.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
		if err != nil {
			lastErr = fmt.Errorf("model call: %w", err)
			logx.Warn("digest generation failed", "attempt", attempt, "error", err)
			continue
		}

		digest, err := parseDigest(msg.Content)
		if err != nil {
			lastErr = err
			logx.Warn("digest parse failed", "attempt", attempt, "error", err)
			continue
		}
		return digest, nil
	}
	return nil, fmt.Errorf("digest failed after %d attempts: %w", maxAttempts, lastErr)
}

func buildPrompt(mode Mode, marketContext string) string {
	var b strings.Builder
	if mode == PreMarket {
		b.WriteString("You are preparing a pre-market signal digest for a retail investor's watchlist briefing.\n")
	} else {
		b.WriteString("You are preparing a post-close signal digest for a retail investor's daily recap.\n")
	}
	b.WriteString("Given the market context below, identify notable market voices, synthesize the day's theme, and list any cross-asset signals.\n\n")
	b.WriteString("Market context:\n")
	b.WriteString(marketContext)
	b.WriteString("\n\nReply with ONLY a JSON object, no prose, in this shape:\n")
	b.WriteString(`{
  "voices": [{"name": "", "source": "", "date": "", "insight": "", "regime": "", "tone": "", "watch_or_result": ""}],
  "synthesis": {"key_risk_or_confirmed": "", "key_theme_or_weakened": "", "invalidation_or_question": ""},
  "cross_signals": [""]
}`)
	return b.String()
}

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// stripCodeFences removes a wrapping markdown code fence if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

func parseDigest(raw string) (*models.SignalDigest, error) {
	cleaned := stripCodeFences(raw)

	var digest models.SignalDigest
	if err := json.Unmarshal([]byte(cleaned), &digest); err != nil {
		return nil, fmt.Errorf("parse digest json: %w", err)
	}
	if err := validateDigest(&digest); err != nil {
		return nil, err
	}
	return &digest, nil
}

func validateDigest(d *models.SignalDigest) error {
	if len(d.Voices) == 0 {
		return fmt.Errorf("digest has no voices")
	}
	for i, v := range d.Voices {
		if v.Name == "" || v.Insight == "" {
			return fmt.Errorf("voice %d missing name or insight", i)
		}
	}
	if d.Synthesis.KeyRiskOrConfirmed == "" && d.Synthesis.KeyThemeOrWeakened == "" {
		return fmt.Errorf("digest synthesis is empty")
	}
	if d.CrossSignals == nil {
		d.CrossSignals = []string{}
	}
	return nil
}

// Package generate turns extracted deck text into guide markup through
// the Gemini API. Quota errors (429 / RESOURCE_EXHAUSTED) are retried
// with doubling backoff, honoring any retry delay the API suggests.
package generate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/nmalhotra/guidepress/core"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash-lite"

// Default quota retry policy, overridable through the config file.
const (
	DefaultAttempts  = 4
	DefaultBaseDelay = 10 * time.Second
)

// ErrQuotaExhausted is returned once every attempt hit the API quota.
// Its text is shown to end users as-is.
var ErrQuotaExhausted = errors.New(
	"Gemini API daily quota exhausted for this API key. " +
		"Please set a new GEMINI_API_KEY in your environment or enable billing at " +
		"https://aistudio.google.com/apikey")

// textModel is the one call the generator needs from the Gemini SDK,
// kept narrow so tests can script responses.
type textModel interface {
	generateText(ctx context.Context, model, prompt string) (string, error)
}

type geminiModel struct {
	client *genai.Client
}

func (g geminiModel) generateText(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Generator produces guides from deck text. Attempts and BaseDelay
// govern the quota backoff; New fills in the defaults and callers
// override them from configuration.
type Generator struct {
	Attempts  int
	BaseDelay time.Duration

	model     textModel
	modelName string
	log       *zap.Logger
}

// New creates a Generator backed by the Gemini API.
func New(ctx context.Context, apiKey, model string, log *zap.Logger) (*Generator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &Generator{
		Attempts:  DefaultAttempts,
		BaseDelay: DefaultBaseDelay,
		model:     geminiModel{client: client},
		modelName: model,
		log:       log,
	}, nil
}

// Generate asks the model for a guide and postprocesses the response.
// Non-quota errors fail immediately; quota errors back off and retry
// up to the attempt limit.
func (g *Generator) Generate(ctx context.Context, deck core.DeckText) (core.Guide, error) {
	prompt := buildPrompt(deck)
	delay := g.BaseDelay

	for attempt := 0; attempt < g.Attempts; attempt++ {
		raw, err := g.model.generateText(ctx, g.modelName, prompt)
		if err == nil {
			return core.Guide{Name: deck.Name, HTML: Postprocess(raw)}, nil
		}
		if !isQuotaError(err) {
			return core.Guide{}, fmt.Errorf("generating guide: %w", err)
		}

		wait := delay
		if suggested, ok := suggestedRetryDelay(err); ok && suggested > wait {
			wait = suggested
		}
		if attempt == g.Attempts-1 {
			g.log.Warn("giving up after repeated quota errors",
				zap.Int("attempts", g.Attempts),
				zap.Error(err))
			return core.Guide{}, ErrQuotaExhausted
		}
		g.log.Warn("quota exceeded, backing off",
			zap.Duration("wait", wait),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
		if err := sleep(ctx, wait); err != nil {
			return core.Guide{}, err
		}
		delay = wait * 2
	}
	return core.Guide{}, ErrQuotaExhausted
}

// isQuotaError matches the API's quota failures, which surface as
// wrapped HTTP 429s with RESOURCE_EXHAUSTED status.
func isQuotaError(err error) bool {
	s := err.Error()
	return strings.Contains(s, "429") || strings.Contains(s, "RESOURCE_EXHAUSTED")
}

var retryDelayRe = regexp.MustCompile(`(?i)retry[\s_-]?(?:in|delay)[:\s]+([0-9.]+)s`)

// suggestedRetryDelay extracts the wait the API asks for from a quota
// error message, when present.
func suggestedRetryDelay(err error) (time.Duration, bool) {
	m := retryDelayRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0, false
	}
	secs, perr := strconv.ParseFloat(m[1], 64)
	if perr != nil {
		return 0, false
	}
	return time.Duration(secs * float64(time.Second)), true
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

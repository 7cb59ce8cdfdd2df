package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rgoncalves/smartcut/internal/domain/decisions"
	"github.com/rgoncalves/smartcut/internal/types"
)

// Adapter calls an OpenRouter-compatible chat-completions endpoint to
// obtain per-segment editing decisions. Every advisory-level failure is
// classified into the returned Advice kind; only caller cancellation
// surfaces as an error.
type Adapter struct {
	key     string
	model   string
	baseURL string
	timeout time.Duration
	client  *http.Client
	log     zerolog.Logger
}

const defaultRequestTimeout = 90 * time.Second

func New(apiKey, model, baseURL string, timeout time.Duration, log zerolog.Logger) *Adapter {
	if model == "" {
		model = "anthropic/claude-3.5-sonnet"
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	baseURL = normalizeBaseURL(baseURL)
	return &Adapter{
		key:     apiKey,
		model:   model,
		baseURL: baseURL,
		timeout: timeout,
		client:  &http.Client{Timeout: 5 * time.Minute},
		log:     log,
	}
}

func (a *Adapter) Review(
	ctx context.Context,
	chunk []types.Segment,
	rules decisions.Rules,
	ectx decisions.Context,
) (types.Advice, error) {
	if len(chunk) == 0 {
		return types.Advice{Kind: types.AdviceEmpty}, nil
	}

	prompt, err := buildPrompt(chunk, rules, ectx)
	if err != nil {
		return types.Advice{Kind: types.AdviceMalformed}, nil
	}

	payload := map[string]any{
		"model":  a.model,
		"stream": false,
		"messages": []map[string]any{
			{"role": "system", "content": "You are a video editor specialized in intelligent cuts."},
			{"role": "user", "content": prompt},
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name": "smartcut_decisions",
				"schema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"decisions": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"segment_id":    map[string]any{"type": "string"},
									"decision_type": map[string]any{"type": "string"},
									"function":      map[string]any{"type": "string"},
									"score":         map[string]any{"type": "number"},
									"reasoning":     map[string]any{"type": "string"},
									"confidence":    map[string]any{"type": "number"},
								},
								"required": []string{"segment_id", "decision_type", "function", "score", "reasoning", "confidence"},
							},
						},
					},
					"required": []string{"decisions"},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return types.Advice{Kind: types.AdviceMalformed}, nil
	}
	url := a.baseURL + "/api/v1/chat/completions"

	reqCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return types.Advice{Kind: types.AdviceMalformed}, nil
	}
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return types.Advice{}, ctx.Err()
		}
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			a.log.Warn().Dur("timeout", a.timeout).Str("model", a.model).Msg("advisory call timed out")
			return types.Advice{Kind: types.AdviceTimedOut}, nil
		}
		a.log.Warn().Err(err).Msg("advisory call failed")
		return types.Advice{Kind: types.AdviceTimedOut}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		a.log.Warn().
			Int("status", resp.StatusCode).
			Str("body", truncate(redactSecrets(string(rb), a.key), 400)).
			Msg("advisory call returned non-success status")
		return types.Advice{Kind: types.AdviceMalformed}, nil
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content any `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return types.Advice{Kind: types.AdviceMalformed}, nil
	}
	if len(raw.Choices) == 0 {
		return types.Advice{Kind: types.AdviceEmpty}, nil
	}

	content, err := messageContentToString(raw.Choices[0].Message.Content)
	if err != nil {
		return types.Advice{Kind: types.AdviceEmpty}, nil
	}

	clean, err := extractJSONObject(content)
	if err != nil {
		a.log.Warn().Err(err).Msg("advisory response had no JSON payload")
		return types.Advice{Kind: types.AdviceMalformed}, nil
	}

	var out struct {
		Decisions []types.RawDecision `json:"decisions"`
	}
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		a.log.Warn().Err(err).Msg("advisory response JSON did not match schema")
		return types.Advice{Kind: types.AdviceMalformed}, nil
	}
	if len(out.Decisions) == 0 {
		return types.Advice{Kind: types.AdviceEmpty}, nil
	}
	return types.Advice{Kind: types.AdviceParsed, Items: out.Decisions}, nil
}

func buildPrompt(chunk []types.Segment, rules decisions.Rules, ectx decisions.Context) (string, error) {
	var transcript strings.Builder
	for _, s := range chunk {
		fmt.Fprintf(&transcript, "ID: %s | [%.1f-%.1fs] %s\n", s.ID, s.Start, s.End, s.Text)
	}

	rulesJSON, err := json.MarshalIndent(map[string]any{
		"video_type":               rules.VideoType,
		"content_focus":            rules.ContentFocus,
		"suggested_duration_range": []float64{rules.SuggestedMinDuration, rules.SuggestedMaxDuration},
		"required_functions":       rules.RequiredFunctions,
		"important_keywords":       rules.ImportantKeywords,
	}, "", "  ")
	if err != nil {
		return "", err
	}

	instructions := ectx.CustomInstructions
	if instructions == "" {
		instructions = "None"
	}
	language := ectx.DetectedLanguage
	if language == "" {
		language = "unknown"
	}

	return fmt.Sprintf(`Analyze the transcript below and decide which segments to keep, remove, or modify.

VIDEO CONTEXT:
- Type: %s
- Original duration: %.1f seconds
- Language: %s
- Custom instructions: %s

EDITING RULES:
%s

TRANSCRIPT:
%s
INSTRUCTIONS:
1. Evaluate every segment of the transcript.
2. Identify hooks, important information, and noise.
3. Assign each segment a score from 0 to 10 and a confidence from 0 to 1.
4. Decide keep, remove, or modify for each segment and explain the reasoning.
5. IMPORTANT: use exactly the ID shown (e.g. segment_1) in the segment_id field.

Respond ONLY with JSON matching the provided schema, no markdown, no code fences.`,
		ectx.VideoType, ectx.OriginalDuration, language, instructions, rulesJSON, transcript.String()), nil
}

func messageContentToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []any:
		// Some providers return an array of {type,text} parts.
		var b strings.Builder
		for _, it := range x {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if t, ok := m["text"].(string); ok {
				b.WriteString(t)
			}
		}
		s := b.String()
		if strings.TrimSpace(s) == "" {
			return "", errors.New("openrouter: empty content")
		}
		return s, nil
	default:
		return "", fmt.Errorf("openrouter: unexpected content type %T", v)
	}
}

func extractJSONObject(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.New("openrouter: empty content")
	}

	// Strip markdown code fences.
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}

	// Best-effort: take the first JSON object found.
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}

	return "", fmt.Errorf("openrouter: could not locate JSON object in: %q", truncate(t, 200))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	authHeaderRE  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)([^\n\r,;]+)`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = authHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}

package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const model = "gemini-1.5-flash"

// FallbackReply is what the shopper sees whenever the upstream API is down,
// slow, or answers something we cannot parse. The relay never surfaces
// upstream failures.
const FallbackReply = "Sorry, I'm running into a small technical issue right now."

const systemPromptFormat = "You are the assistant of 'MaBoutique'. Here are our products: %s. Answer politely and briefly."

// GeminiClient relays chat prompts to the Gemini generateContent API. All
// calls run through a circuit breaker so a struggling upstream degrades to
// the fallback reply instead of tying up request handlers.
type GeminiClient struct {
	http    *http.Client
	apiKey  string
	baseURL string
	breaker *gobreaker.CircuitBreaker[string]
	log     *zap.Logger
}

func NewGeminiClient(apiKey string, log *zap.Logger) *GeminiClient {
	c := &GeminiClient{
		http:    &http.Client{Timeout: 15 * time.Second},
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		log:     log,
	}

	c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "gemini",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return c
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Reply sends the user prompt, prefixed with the shop context, and returns
// the generated answer. Any failure degrades to FallbackReply.
func (c *GeminiClient) Reply(ctx context.Context, userPrompt, catalogContext string) string {
	reply, err := c.breaker.Execute(func() (string, error) {
		return c.generate(ctx, userPrompt, catalogContext)
	})
	if err != nil {
		c.log.Warn("chat relay failed", zap.Error(err))
		return FallbackReply
	}
	return reply
}

func (c *GeminiClient) generate(ctx context.Context, userPrompt, catalogContext string) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)

	body := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: fmt.Sprintf(systemPromptFormat, catalogContext)}}},
			{Parts: []geminiPart{{Text: userPrompt}}},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response failed: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty reply")
	}
	return text, nil
}

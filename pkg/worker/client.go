// Package worker calls the remote code-generation model via OpenRouter.
//
// The zero-data-retention flag is a request-time option forwarded to the
// provider-selection object; grove cannot verify the provider honored it.
// That trust boundary rests entirely on the upstream provider.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/grove-ai/grove/pkg/config"
	"github.com/grove-ai/grove/pkg/models"
)

// DefaultBaseURL is the OpenRouter API root.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Max input sizes to prevent abuse and runaway costs.
const (
	maxCodeLength        = 100_000
	maxDescriptionLength = 10_000
)

// DeepSeek V3.2 pricing via OpenRouter, USD per million tokens.
const (
	inputRatePerMTok  = 0.25
	outputRatePerMTok = 0.38
)

var (
	// ErrUpstream covers transport failures and non-success HTTP statuses.
	ErrUpstream = errors.New("upstream request failed")
	// ErrMalformedResponse means the response body did not have the
	// expected JSON shape.
	ErrMalformedResponse = errors.New("malformed upstream response")
	// ErrInputTooLarge means a tool argument exceeded its size cap.
	ErrInputTooLarge = errors.New("input exceeds maximum length")
)

// Client is a synchronous client for the worker model.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	zdr        bool
	providers  []string
	httpClient *http.Client
}

// New creates a Client from the loaded configuration.
func New(cfg *config.Config) *Client {
	log.Printf("worker: model=%s require_zdr=%v providers=%v", cfg.WorkerModel, cfg.ZDREnabled, cfg.PreferredProviders)
	return &Client{
		baseURL:   DefaultBaseURL,
		apiKey:    cfg.APIKey,
		model:     cfg.WorkerModel,
		zdr:       cfg.ZDREnabled,
		providers: cfg.PreferredProviders,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Generate asks the worker model to write new code.
func (c *Client) Generate(ctx context.Context, args models.GenerateArgs) (*models.GenerationResult, error) {
	if err := checkSize("task_description", args.TaskDescription, maxDescriptionLength); err != nil {
		return nil, err
	}
	if err := checkSize("context", args.Context, maxCodeLength); err != nil {
		return nil, err
	}
	system, user := generatePrompts(args)
	return c.complete(ctx, system, user, false)
}

// Edit asks the worker model to modify existing code.
func (c *Client) Edit(ctx context.Context, args models.EditArgs) (*models.GenerationResult, error) {
	if err := checkSize("original_code", args.OriginalCode, maxCodeLength); err != nil {
		return nil, err
	}
	if err := checkSize("change_request", args.ChangeRequest, maxDescriptionLength); err != nil {
		return nil, err
	}
	system, user := editPrompts(args)
	return c.complete(ctx, system, user, false)
}

// Review asks the worker model to analyze code, with reasoning enabled.
func (c *Client) Review(ctx context.Context, args models.ReviewArgs) (*models.GenerationResult, error) {
	if err := checkSize("code", args.Code, maxCodeLength); err != nil {
		return nil, err
	}
	system, user := reviewPrompts(args)
	return c.complete(ctx, system, user, true)
}

func checkSize(name, value string, max int) error {
	if len(value) > max {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrInputTooLarge, name, max)
	}
	return nil
}

// complete issues one blocking chat-completion request and parses the
// structured JSON result out of the single choice.
func (c *Client) complete(ctx context.Context, system, user string, reasoning bool) (*models.GenerationResult, error) {
	payload := models.ChatCompletionRequest{
		Model: c.model,
		Messages: []models.ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: &models.ResponseFormat{Type: "json_object"},
		Provider: &models.ProviderPrefs{
			Order:      c.providers,
			RequireZDR: c.zdr,
		},
		Reasoning: reasoning,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Title", "grove")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := respBody
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		log.Printf("worker: openrouter returned %d: %s", resp.StatusCode, snippet)
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	return parseResult(respBody)
}

// parseResult extracts the structured content and usage from a response body.
func parseResult(body []byte) (*models.GenerationResult, error) {
	var resp models.ChatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}

	var content struct {
		Code        string   `json:"code"`
		Explanation string   `json:"explanation"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &content); err != nil {
		return nil, fmt.Errorf("%w: choice content is not JSON: %v", ErrMalformedResponse, err)
	}
	if content.Suggestions == nil {
		content.Suggestions = []string{}
	}

	// Missing usage counters default to zero cost rather than failing.
	usage := models.Usage{}
	if resp.Usage != nil {
		usage = *resp.Usage
	}

	return &models.GenerationResult{
		Code:        content.Code,
		Explanation: content.Explanation,
		Suggestions: content.Suggestions,
		CostUSD:     cost(usage.PromptTokens, usage.CompletionTokens),
		TokensUsed: models.TokenUsage{
			Input:  usage.PromptTokens,
			Output: usage.CompletionTokens,
		},
	}, nil
}

// cost prices a request in USD, rounded to 6 decimal places.
func cost(inputTokens, outputTokens int) float64 {
	raw := float64(inputTokens)/1_000_000*inputRatePerMTok +
		float64(outputTokens)/1_000_000*outputRatePerMTok
	return math.Round(raw*1e6) / 1e6
}

package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mfreitas/podex/internal/common"
)

// Config holds configuration for the OpenAI-backed oracle client.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
}

// openAIClient implements the Client interface against the OpenAI
// chat completions API.
type openAIClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
}

// NewOpenAIClient creates a new OpenAI oracle client.
func NewOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", common.ErrMissingConfig)
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4.1"
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.1
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &openAIClient{
		apiKey:      cfg.APIKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: temperature,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Extract sends one extraction request to OpenAI.
func (c *openAIClient) Extract(ctx context.Context, req Request) (Response, error) {
	requestBody := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": promptFor(req.Policy)},
			{"role": "user", "content": req.DocumentText},
		},
		"response_format": map[string]string{"type": "json_object"},
		"temperature":     c.temperature,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return Response{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", strings.NewReader(string(jsonBody)))
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", common.ErrOracleConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return Response{}, common.ErrRateLimit
	}
	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return Response{}, fmt.Errorf("failed to parse API response: %w", err)
	}
	if completion.Error != nil {
		return Response{}, fmt.Errorf("API error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return Response{}, fmt.Errorf("no completion choices returned")
	}

	return parseResponse(completion.Choices[0].Message.Content)
}

// parseResponse decodes the oracle's JSON answer, tolerating code
// fences and clamping confidence to [0, 1].
func parseResponse(content string) (Response, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var out Response
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return Response{}, fmt.Errorf("invalid JSON in oracle response: %w", err)
	}

	if out.Confidence < 0 {
		out.Confidence = 0
	}
	if out.Confidence > 1 {
		out.Confidence = 1
	}
	if out.Codes == nil {
		out.Codes = []string{}
	}
	if out.MatchedKeywords == nil {
		out.MatchedKeywords = []string{}
	}
	return out, nil
}

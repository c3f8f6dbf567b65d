package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ClientConfig configures the generative-language client.
type ClientConfig struct {
	BaseURL     string        // e.g. "https://generativelanguage.googleapis.com/v1beta"
	APIKey      string        // credential passthrough, supplied via environment
	ChatModel   string        // primary conversation model
	RecallModel string        // smaller model for memory recall
	TTSModel    string        // speech synthesis model
	Voice       string        // prebuilt synthesis voice name
	Timeout     time.Duration // HTTP request timeout
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
		ChatModel:   "gemini-3-pro-preview",
		RecallModel: "gemini-3-flash-preview",
		TTSModel:    "gemini-2.5-flash-preview-tts",
		Voice:       "Zephyr",
		Timeout:     120 * time.Second,
	}
}

// Client talks to the hosted generative API.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new API client.
func NewClient(cfg *ClientConfig, logger zerolog.Logger) *Client {
	if cfg == nil {
		cfg = DefaultClientConfig()
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With().Str("component", "genai-client").Logger(),
	}
}

// ChatModel returns the configured conversation model.
func (c *Client) ChatModel() string { return c.config.ChatModel }

// RecallModel returns the configured memory-recall model.
func (c *Client) RecallModel() string { return c.config.RecallModel }

// Generate sends a generateContent request against the given model.
func (c *Client) Generate(ctx context.Context, model string, req *GenerateRequest) (*GenerateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.config.BaseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.config.APIKey)

	c.logger.Debug().
		Str("model", model).
		Int("contents", len(req.Contents)).
		Int("bodyLen", len(body)).
		Msg("Sending generateContent request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", truncateForLog(string(respBody), 500)).
			Msg("generateContent request failed")
		return nil, fmt.Errorf("generateContent error %d: %s", resp.StatusCode, truncateForLog(string(respBody), 500))
	}

	var genResp GenerateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if genResp.Error != nil {
		return nil, fmt.Errorf("API error %d: %s", genResp.Error.Code, genResp.Error.Message)
	}

	c.logger.Debug().
		Int("candidates", len(genResp.Candidates)).
		Msg("generateContent response received")

	return &genResp, nil
}

// Synthesize converts text to speech, returning a base64 PCM16 mono payload
// at 24 kHz.
func (c *Client) Synthesize(ctx context.Context, text string) (string, error) {
	cfg := &GenerationConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig:       &SpeechConfig{},
	}
	cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName = c.config.Voice

	req := &GenerateRequest{
		Contents: []Content{
			{Parts: []Part{{Text: text}}},
		},
		GenerationConfig: cfg,
	}

	resp, err := c.Generate(ctx, c.config.TTSModel, req)
	if err != nil {
		return "", fmt.Errorf("synthesis request failed: %w", err)
	}

	payload := resp.InlineAudio()
	if payload == "" {
		return "", fmt.Errorf("no audio payload in response")
	}
	return payload, nil
}

// truncateForLog truncates a string for logging purposes.
func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

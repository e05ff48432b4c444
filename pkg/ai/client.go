package ai

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
)

// Format is the response-format hint passed to the generation service.
type Format string

const (
	FormatJSON Format = "json_object"
	FormatText Format = "text"
)

// Request is a single, stateless completion request.
type Request struct {
	Model       string
	Temperature float32
	System      string
	User        string
	Format      Format
}

// Generator produces one text completion per call. Implementations make
// exactly one attempt; callers bound the call with a context deadline.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

var ErrEmptyCompletion = errors.New("empty completion")

// ServiceClient calls an internal ai-service chat endpoint that fronts
// the actual model.
type ServiceClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewServiceClient(baseURL string, timeout time.Duration) *ServiceClient {
	if baseURL == "" {
		baseURL = "http://ai-service:8000"
	}
	return &ServiceClient{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: &http.Client{Timeout: timeout}}
}

type chatRequest struct {
	Agent          string  `json:"agent"`
	Model          string  `json:"model,omitempty"`
	System         string  `json:"system"`
	Input          string  `json:"input"`
	Temperature    float32 `json:"temperature"`
	ResponseFormat string  `json:"response_format"`
}

type chatResponse struct {
	Agent  string `json:"agent"`
	Output string `json:"output"`
}

func (c *ServiceClient) Generate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(chatRequest{
		Agent:          "auto",
		Model:          req.Model,
		System:         req.System,
		Input:          req.User,
		Temperature:    req.Temperature,
		ResponseFormat: string(req.Format),
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	slog.Debug("ai.client: POST chat", "url", c.BaseURL+"/v1/chat", "format", req.Format, "input_len", len(req.User))
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ai-service request: %w", err)
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai-service returned non-200 status: %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.Unmarshal(rb, &out); err != nil {
		return "", fmt.Errorf("ai-service response: %w", err)
	}
	if strings.TrimSpace(out.Output) == "" {
		return "", ErrEmptyCompletion
	}
	return out.Output, nil
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// retryDelay is the pause between generation attempts. Doubled per retry so
// a briefly overloaded model server gets room to recover.
const retryDelay = 200 * time.Millisecond

// GenerateRequest holds the parameters for one generation call. Temperature
// and MaxTokens override the per-task defaults from Config when set.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64
	MaxTokens    *int
}

// GenerateResponse holds the model's reply.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// Client provides access to a language model for text generation.
type Client interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the model server is reachable.
	Available(ctx context.Context) bool
}

type ollamaClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewOllamaClient creates a Client that talks to an Ollama-compatible
// server. Request deadlines come from the per-task timeout configuration,
// so the underlying http.Client carries only a dial timeout.
func NewOllamaClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &ollamaClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			},
		},
		observer: observer,
	}
}

// generatePayload is the body for POST /api/generate. Stream is always
// false; the services need complete replies to validate.
type generatePayload struct {
	Model   string          `json:"model"`
	System  string          `json:"system,omitempty"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type generateResult struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx,
		time.Duration(c.cfg.TaskTimeout(req.Task))*time.Millisecond)
	defer cancel()

	temp, maxTokens := c.resolveOptions(req)
	payload := generatePayload{
		Model:  c.cfg.Model,
		System: req.SystemPrompt,
		Prompt: req.UserPrompt,
		Options: generateOptions{
			Temperature: temp,
			NumPredict:  maxTokens,
		},
	}

	var lastErr error
	attempts := 0
	delay := retryDelay
	for attempts <= c.cfg.MaxRetries {
		attempts++
		result, err := c.post(ctx, payload)
		if err == nil {
			c.report(req.Task, start, attempts, nil)
			return &GenerateResponse{
				Text:      result.Response,
				Model:     result.Model,
				LatencyMs: time.Since(start).Milliseconds(),
			}, nil
		}
		lastErr = err
		if ctx.Err() != nil || attempts > c.cfg.MaxRetries {
			break
		}

		select {
		case <-time.After(delay):
			delay *= 2
		case <-ctx.Done():
		}
	}

	err := classify(ctx, lastErr)
	c.report(req.Task, start, attempts, err)
	return nil, err
}

// resolveOptions applies per-call overrides on top of the task defaults.
func (c *ollamaClient) resolveOptions(req GenerateRequest) (float64, int) {
	taskCfg := c.cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTokens := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	return temp, maxTokens
}

func (c *ollamaClient) post(ctx context.Context, payload generatePayload) (*generateResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.Endpoint+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	switch {
	case httpResp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("model %q not found on server: %s", c.cfg.Model, string(body))
	case httpResp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("server returned status %d: %s", httpResp.StatusCode, string(body))
	}

	var result generateResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &result, nil
}

func (c *ollamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *ollamaClient) report(task TaskType, start time.Time, attempts int, err error) {
	c.observer.OnCallComplete(CallEvent{
		Task:      task,
		Model:     c.cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  attempts,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
}

// classify maps a failed attempt sequence onto the package's sentinel
// errors. Deadline expiry wins over whatever the last attempt reported.
func classify(ctx context.Context, lastErr error) error {
	if ctx.Err() != nil {
		return ErrTimeout
	}
	var opErr *net.OpError
	if errors.As(lastErr, &opErr) {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}

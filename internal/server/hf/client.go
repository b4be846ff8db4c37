// Package hf is the client for the hosted inference API that rewrites
// feedback text. Calls are retried on transient upstream statuses with
// exponential backoff and jitter; non-transient upstream failures are passed
// through to the caller with the upstream status and body.
package hf

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/newwork/core-api/internal/server/httperr"
)

// RetryConfig controls the backoff loop around the inference call.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	Multiplier    float64
	MaxDelay      time.Duration
	Jitter        time.Duration
	RetryOnStatus map[int]bool
}

// DefaultRetryConfig matches the transient failure modes of the hosted API:
// model cold starts answer 503, rate limiting 429.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     2 * time.Second,
		Jitter:       100 * time.Millisecond,
		RetryOnStatus: map[int]bool{
			http.StatusRequestTimeout:      true,
			http.StatusTooManyRequests:     true,
			http.StatusInternalServerError: true,
			http.StatusBadGateway:          true,
			http.StatusServiceUnavailable:  true,
			http.StatusGatewayTimeout:      true,
		},
	}
}

// Client calls a text2text-generation model on the hosted inference API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	token      string
	retry      RetryConfig
}

func NewClient(baseURL, model, token string, retry RetryConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		model:      model,
		token:      token,
		retry:      retry,
	}
}

// ModelID returns the model identifier recorded next to polished text.
func (c *Client) ModelID() string { return c.model }

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

type inferenceResult struct {
	GeneratedText string `json:"generated_text"`
}

var errUnavailable = httperr.New(http.StatusBadGateway, "hf_unavailable")

// Polish sends the text through the grammar-correction model and returns the
// rewritten variant, trimmed. Transient upstream statuses, transport
// failures and unshaped payloads (including a blank generated_text) are
// retried up to MaxAttempts. A
// non-transient upstream status (and the last transient one once attempts
// are exhausted) is passed through unchanged; exhausted transport/shape
// failures map to 502 hf_unavailable.
func (c *Client) Polish(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(inferenceRequest{Inputs: "grammar: " + text})
	if err != nil {
		return "", fmt.Errorf("encoding inference request: %w", err)
	}

	delay := c.retry.InitialDelay
	for attempt := 1; ; attempt++ {
		status, body, callErr := c.call(ctx, payload)

		var attemptErr error
		switch {
		case callErr != nil:
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			attemptErr = errUnavailable
		case status == http.StatusOK:
			out, parseErr := parseGeneratedText(body)
			if parseErr == nil {
				return out, nil
			}
			attemptErr = errUnavailable
		case c.retry.RetryOnStatus[status]:
			attemptErr = &httperr.UpstreamError{Status: status, Body: string(body)}
		default:
			return "", &httperr.UpstreamError{Status: status, Body: string(body)}
		}

		if attempt >= c.retry.MaxAttempts {
			return "", attemptErr
		}
		if err := sleep(ctx, delay+randomJitter(c.retry.Jitter)); err != nil {
			return "", err
		}
		delay = time.Duration(float64(delay) * c.retry.Multiplier)
		if delay > c.retry.MaxDelay {
			delay = c.retry.MaxDelay
		}
	}
}

func (c *Client) call(ctx context.Context, payload []byte) (int, []byte, error) {
	url := c.baseURL + "/models/" + c.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func parseGeneratedText(body []byte) (string, error) {
	var results []inferenceResult
	if err := json.Unmarshal(body, &results); err != nil || len(results) == 0 {
		return "", errUnavailable
	}
	out := strings.TrimSpace(results[0].GeneratedText)
	if out == "" {
		return "", errUnavailable
	}
	return out, nil
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

func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return time.Duration(n.Int64())
}

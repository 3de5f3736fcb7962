package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mockpay/internal/adapter/http/dto"
	"mockpay/internal/core/domain"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// ClientOptions tunes the control-plane client.
type ClientOptions struct {
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Timeout      time.Duration
}

// Client talks to the control plane of a running mockpay server.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

// NewClient creates a Client for the server at baseURL.
func NewClient(baseURL string, opts ClientOptions, log zerolog.Logger) *Client {
	c := retryablehttp.NewClient()
	c.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		c.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		c.RetryWaitMax = opts.RetryWaitMax
	}
	if opts.Timeout > 0 {
		c.HTTPClient.Timeout = opts.Timeout
	}
	c.Logger = leveledLogger{log: log}
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: c}
}

// BaseURL returns the server address the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health reports whether the server answers GET /__health with 200.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/__health", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

// SetOutcome arms the next payment outcome and returns its canonical name.
func (c *Client) SetOutcome(ctx context.Context, result string) (string, error) {
	var out dto.OutcomeResponse
	if err := c.call(ctx, http.MethodPost, "/__control/outcome", dto.OutcomeRequest{Result: result}, &out); err != nil {
		return "", err
	}
	return out.Result, nil
}

// SetFault arms the next transport fault and returns its canonical name.
func (c *Client) SetFault(ctx context.Context, fault string) (string, error) {
	var out dto.FaultResponse
	if err := c.call(ctx, http.MethodPost, "/__control/fault", dto.FaultRequest{Error: fault}, &out); err != nil {
		return "", err
	}
	return out.Error, nil
}

func (c *Client) WebhookConfig(ctx context.Context) (domain.WebhookPolicy, error) {
	var out domain.WebhookPolicy
	err := c.call(ctx, http.MethodGet, "/__control/webhook-config", nil, &out)
	return out, err
}

func (c *Client) UpdateWebhookConfig(ctx context.Context, patch dto.WebhookConfigRequest) (domain.WebhookPolicy, error) {
	var out domain.WebhookPolicy
	err := c.call(ctx, http.MethodPatch, "/__control/webhook-config", patch, &out)
	return out, err
}

// ResendWebhook asks the server to re-dispatch the last webhook.
func (c *Client) ResendWebhook(ctx context.Context) (bool, error) {
	var out dto.ResendResponse
	if err := c.call(ctx, http.MethodPost, "/__control/webhook/resend", nil, &out); err != nil {
		return false, err
	}
	return out.Resent, nil
}

func (c *Client) Reset(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/__control/reset", nil, nil)
}

func (c *Client) Shutdown(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/__shutdown", nil, nil)
}

// StreamLogs follows GET /__logs and calls fn for every entry until ctx is
// done or the server closes the stream.
func (c *Client) StreamLogs(ctx context.Context, history int, fn func(domain.LogEntry)) error {
	path := "/__logs"
	if history > 0 {
		path += "?history=" + strconv.Itoa(history)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	// the stream is long-lived, so the retrying client's timeout must not apply
	stream := &http.Client{Transport: c.http.HTTPClient.Transport}
	resp, err := stream.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("log stream returned %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		var entry domain.LogEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(line, "data:"))), &entry); err != nil {
			continue
		}
		fn(entry)
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// envelope covers both the success and error bodies of the control plane.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	ErrorCode string          `json:"error_code"`
	Message   string          `json:"message"`
}

// APIError is a control-plane error response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (c *Client) call(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = b
	}

	resp, err := c.do(ctx, method, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && err != io.EOF {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Code: env.ErrorCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var body interface{}
	if payload != nil {
		body = payload
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

var _ retryablehttp.LeveledLogger = leveledLogger{}

// leveledLogger routes retryablehttp logging into zerolog.
type leveledLogger struct {
	log zerolog.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.log.Error().Fields(kv).Msg(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.log.Info().Fields(kv).Msg(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.log.Debug().Fields(kv).Msg(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.log.Warn().Fields(kv).Msg(msg) }

package ankiconnect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/phrazzld/scry-sync/internal/config"
	"github.com/phrazzld/scry-sync/internal/domain"
	"github.com/phrazzld/scry-sync/internal/redact"
)

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 512

// Client talks to one AnkiConnect endpoint.
type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
	version    int
	maxRetries int
	retryDelay time.Duration
	frontField string
	backField  string
	batchSize  int
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a Client for the endpoint in cfg.
// Returns an error if the configuration cannot describe a usable endpoint.
func NewClient(cfg config.AnkiConfig, logger *slog.Logger, opts ...Option) (*Client, error) {
	if logger == nil {
		return nil, domain.NewValidationError("logger", "cannot be nil", domain.ErrValidation)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		version:    cfg.Version,
		maxRetries: cfg.MaxRetries,
		retryDelay: time.Duration(cfg.RetryDelayMS) * time.Millisecond,
		frontField: cfg.FrontField,
		backField:  cfg.BackField,
		batchSize:  cfg.BatchSize,
		logger:     logger.With(slog.String("component", "ankiconnect")),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// validateConfig checks the settings the client cannot work without.
func validateConfig(cfg config.AnkiConfig) error {
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return domain.NewValidationError("url", "must be an absolute URL", domain.ErrValidation)
	}
	if cfg.Version <= 0 {
		return domain.NewValidationError("version", "must be positive", domain.ErrValidation)
	}
	if cfg.MaxRetries < 0 {
		return domain.NewValidationError("max_retries", "cannot be negative", domain.ErrValidation)
	}
	if cfg.BatchSize <= 0 {
		return domain.NewValidationError("batch_size", "must be positive", domain.ErrValidation)
	}
	if cfg.FrontField == "" || cfg.BackField == "" {
		return domain.NewValidationError("fields", "front and back field names are required", domain.ErrValidation)
	}
	return nil
}

// Version returns the AnkiConnect API version reported by the endpoint.
func (c *Client) Version(ctx context.Context) (int, error) {
	var version int
	if err := c.invoke(ctx, ActionVersion, nil, &version); err != nil {
		return 0, err
	}
	return version, nil
}

// FindNotes returns the IDs of the notes matching an Anki search query.
func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	if err := c.invoke(ctx, ActionFindNotes, findNotesParams{Query: query}, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// NotesInfo returns the records for the given note IDs, fetched in batches.
// Records for IDs that no longer exist are dropped.
func (c *Client) NotesInfo(ctx context.Context, ids []int64) ([]NoteInfo, error) {
	notes := make([]NoteInfo, 0, len(ids))

	for start := 0; start < len(ids); start += c.batchSize {
		end := min(start+c.batchSize, len(ids))

		var batch []NoteInfo
		if err := c.invoke(ctx, ActionNotesInfo, notesInfoParams{Notes: ids[start:end]}, &batch); err != nil {
			return nil, err
		}

		for _, note := range batch {
			if note.NoteID == 0 {
				continue
			}
			notes = append(notes, note)
		}
	}

	return notes, nil
}

// invoke sends one action and decodes its result into out.
func (c *Client) invoke(ctx context.Context, action string, params any, out any) error {
	body, err := json.Marshal(request{
		Action:  action,
		Version: c.version,
		Params:  params,
		Key:     c.apiKey,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to encode %s request: %v", domain.ErrRemoteUnavailable, action, err)
	}

	raw, err := c.postWithRetry(ctx, action, body)
	if err != nil {
		return err
	}

	var resp response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %v", domain.ErrRemoteUnavailable, action, err)
	}
	if resp.Error != nil {
		return &APIError{Action: action, Message: *resp.Error}
	}

	if out != nil && len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("%w: unexpected %s result: %v", domain.ErrRemoteUnavailable, action, err)
		}
	}

	return nil
}

// postWithRetry posts body, retrying transport errors and 5xx responses
// with exponential backoff and jitter.
func (c *Client) postWithRetry(ctx context.Context, action string, body []byte) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		raw, err := c.post(ctx, action, body)
		if err == nil {
			return raw, nil
		}

		var statusErr *StatusError
		retryable := !errors.As(err, &statusErr) || statusErr.retryable()
		if ctx.Err() != nil || !retryable || attempt >= c.maxRetries {
			c.logger.ErrorContext(ctx, "ankiconnect request failed",
				"action", action,
				"attempt", attempt+1,
				"error", redact.Error(err))
			if statusErr != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %s after %d attempts: %v",
				domain.ErrRemoteUnavailable, action, attempt+1, err)
		}

		// delay = base * 2^attempt * (0.5 + rand(0, 0.5))
		backoff := float64(c.retryDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rand.Float64()*0.5))

		c.logger.WarnContext(ctx, "retrying ankiconnect request",
			"action", action,
			"attempt", attempt+1,
			"delay_ms", delay.Milliseconds(),
			"error", redact.Error(err))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s cancelled: %v", domain.ErrRemoteUnavailable, action, ctx.Err())
		}
	}
}

func (c *Client) post(ctx context.Context, action string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		return nil, &StatusError{Action: action, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	c.logger.DebugContext(ctx, "ankiconnect request succeeded",
		"action", action,
		"status", resp.StatusCode,
		"bytes", len(raw))

	return raw, nil
}

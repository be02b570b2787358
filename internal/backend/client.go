// Package backend provides the HTTP client for the extraction and
// requirement store collaborator. It is the only component that talks to
// the upstream API; everything else consumes it through the interfaces
// defined in the meetings and reconcile packages.
package backend

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

	"github.com/google/uuid"

	"github.com/planloom/minutes/internal/meetings"
)

const maxErrorBodyBytes = 2048

// Client talks to the extraction backend over HTTP.
type Client struct {
	http            *http.Client
	baseURL         string
	token           string
	statusTimeout   time.Duration
	classifyTimeout time.Duration
	resolveTimeout  time.Duration
	logger          *slog.Logger
}

// New creates a backend client from the given configuration.
func New(cfg *Config, logger *slog.Logger) *Client {
	return &Client{
		http:            &http.Client{},
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		token:           cfg.Token,
		statusTimeout:   cfg.StatusTimeoutDuration(),
		classifyTimeout: cfg.ClassifyTimeoutDuration(),
		resolveTimeout:  cfg.ResolveTimeoutDuration(),
		logger:          logger.With("system", "backend"),
	}
}

// Meeting fetches the status record for a meeting.
func (c *Client) Meeting(ctx context.Context, id uuid.UUID) (*meetings.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, c.statusTimeout)
	defer cancel()

	var meeting meetings.Meeting
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/meetings/%s", id), nil, &meeting); err != nil {
		if isNotFound(err) {
			return nil, meetings.ErrNotFound
		}
		return nil, err
	}

	return &meeting, nil
}

// Classify triggers the idempotent classification step for a ready meeting
// and returns the three-way partition. The timeout is configured separately
// because the comparison step can run long.
func (c *Client) Classify(ctx context.Context, id uuid.UUID) (*meetings.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.classifyTimeout)
	defer cancel()

	var classification meetings.Classification
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/meetings/%s/apply", id), nil, &classification); err != nil {
		if isNotFound(err) {
			return nil, meetings.ErrNotFound
		}
		return nil, err
	}

	return &classification, nil
}

// Resolve submits the full decision list for a meeting in a single request.
// The backend commits atomically; any error here means nothing was applied.
func (c *Client) Resolve(ctx context.Context, id uuid.UUID, decisions []meetings.ApplyDecision) error {
	ctx, cancel := context.WithTimeout(ctx, c.resolveTimeout)
	defer cancel()

	body := struct {
		Decisions []meetings.ApplyDecision `json:"decisions"`
	}{Decisions: decisions}

	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/meetings/%s/resolve", id), body, nil); err != nil {
		return err
	}

	c.logger.Info("decisions committed", "meeting_id", id, "count", len(decisions))
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func isNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound
}

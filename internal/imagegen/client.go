// Package imagegen generates the moodboard image: it submits a text-to-image
// job and polls the provider until the job completes, fails or runs out of
// attempts.
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the Freepik API host.
	DefaultBaseURL = "https://api.freepik.com"

	submitPath = "/v1/ai/text-to-image/seedream-v4-5"

	maxBodyBytes = 1 << 20
)

// Config holds the client settings.
type Config struct {
	BaseURL      string
	APIKey       string
	PollInterval time.Duration
	MaxAttempts  int
	AspectRatio  string
	Roles        RoleTable
}

// DefaultConfig returns the product defaults: a poll every 2s, 15 polls.
func DefaultConfig() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		PollInterval: 2 * time.Second,
		MaxAttempts:  15,
		AspectRatio:  "square_1_1",
		Roles:        DefaultRoleTable(),
	}
}

// Client submits and tracks image jobs.
type Client struct {
	http     *http.Client
	cfg      Config
	logger   zerolog.Logger
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithObserver registers a callback for job status changes.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates an image client.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 15
	}
	if cfg.AspectRatio == "" {
		cfg.AspectRatio = "square_1_1"
	}
	c := &Client{
		http:   &http.Client{Timeout: 30 * time.Second},
		cfg:    cfg,
		logger: zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With().Str("component", "imagegen").Logger()
	return c
}

type submitRequest struct {
	Prompt              string `json:"prompt"`
	NumImages           int    `json:"num_images"`
	AspectRatio         string `json:"aspect_ratio"`
	EnableSafetyChecker bool   `json:"enable_safety_checker"`
}

type taskReply struct {
	Data struct {
		TaskID    string   `json:"task_id"`
		Status    string   `json:"status"`
		Generated []string `json:"generated"`
	} `json:"data"`
}

// Generate submits a board for the given per-step projections and returns
// the image URL.
func (c *Client) Generate(ctx context.Context, styleKeywords, labels, visuals []string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", &Error{Code: CodeSubmitFailed, Body: "freepik API key is not configured"}
	}

	prompt, err := BuildPrompt(c.cfg.Roles, styleKeywords, labels, visuals)
	if err != nil {
		return "", fmt.Errorf("build image prompt: %w", err)
	}

	reply, err := c.submit(ctx, prompt)
	if err != nil {
		return "", err
	}

	job := &Job{Status: StatusSubmitted}
	if reply.Data.TaskID == "" {
		if len(reply.Data.Generated) > 0 {
			job.ResultURL = reply.Data.Generated[0]
			c.move(job, StatusCompleted)
			return job.ResultURL, nil
		}
		return "", &Error{Code: CodeNoTaskID}
	}

	job.TaskID = reply.Data.TaskID
	c.notify(job)
	return c.poll(ctx, job)
}

func (c *Client) submit(ctx context.Context, prompt string) (*taskReply, error) {
	body, err := json.Marshal(submitRequest{
		Prompt:              prompt,
		NumImages:           1,
		AspectRatio:         c.cfg.AspectRatio,
		EnableSafetyChecker: false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal submit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.submitURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Code: CodeSubmitFailed, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Code: CodeSubmitFailed, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().Int("status", resp.StatusCode).Str("body", string(data)).Msg("image submit rejected")
		return nil, &Error{Code: CodeSubmitFailed, Status: resp.StatusCode, Body: string(data)}
	}

	var reply taskReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, &Error{Code: CodeSubmitFailed, Status: resp.StatusCode, Body: string(data), Err: err}
	}
	c.logger.Debug().Str("task_id", reply.Data.TaskID).Int("generated", len(reply.Data.Generated)).Msg("image job submitted")
	return &reply, nil
}

// errNotReady marks a poll that did not reach a terminal state.
var errNotReady = errors.New("image task not ready")

// poll waits one interval, then checks the job up to MaxAttempts times,
// one interval apart. Polls are strictly sequential.
func (c *Client) poll(ctx context.Context, job *Job) (string, error) {
	timer := time.NewTimer(c.cfg.PollInterval)
	select {
	case <-ctx.Done():
		timer.Stop()
		return "", ctx.Err()
	case <-timer.C:
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.cfg.PollInterval), uint64(c.cfg.MaxAttempts-1)),
		ctx,
	)

	op := func() (string, error) {
		job.Polls++
		log := c.logger.With().Str("task_id", job.TaskID).Int("attempt", job.Polls).Logger()

		status, generated, err := c.fetchStatus(ctx, job.TaskID)
		if err != nil {
			log.Warn().Err(err).Msg("image status poll failed")
			return "", err
		}
		log.Debug().Str("status", status).Msg("image status polled")

		switch Status(status) {
		case StatusCompleted:
			if len(generated) > 0 {
				return generated[0], nil
			}
		case StatusFailed:
			return "", backoff.Permanent(ErrTaskFailed)
		}
		if job.Status == StatusSubmitted {
			c.move(job, StatusPending)
		} else {
			c.notify(job)
		}
		return "", errNotReady
	}

	url, err := backoff.RetryWithData(op, policy)
	switch {
	case err == nil:
		job.ResultURL = url
		c.move(job, StatusCompleted)
		return url, nil
	case errors.Is(err, ErrTaskFailed):
		c.move(job, StatusFailed)
		return "", &Error{Code: CodeTaskFailed, TaskID: job.TaskID}
	case ctx.Err() != nil:
		return "", ctx.Err()
	default:
		c.move(job, StatusTimedOut)
		c.logger.Error().Str("task_id", job.TaskID).Int("polls", job.Polls).Msg("image job timed out")
		return "", &Error{Code: CodeTaskTimeout, TaskID: job.TaskID, Body: fmt.Sprintf("no result after %d polls", job.Polls)}
	}
}

func (c *Client) fetchStatus(ctx context.Context, taskID string) (string, []string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.submitURL()+"/"+taskID, nil)
	if err != nil {
		return "", nil, err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return "", nil, fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}

	var reply taskReply
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&reply); err != nil {
		return "", nil, fmt.Errorf("decode status: %w", err)
	}
	return reply.Data.Status, reply.Data.Generated, nil
}

func (c *Client) submitURL() string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + submitPath
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("x-freepik-api-key", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
}

func (c *Client) move(job *Job, to Status) {
	if err := job.transition(to); err != nil {
		c.logger.Error().Err(err).Msg("illegal image job transition")
		return
	}
	c.notify(job)
}

func (c *Client) notify(job *Job) {
	if c.observer != nil {
		c.observer(*job)
	}
}

// Package notify posts completed-quiz notifications to an automation
// webhook. Delivery is best effort: one attempt, failures are logged.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/generation"
)

const notificationType = "quiz_completed"

// Report is the data sent for a completed quiz.
type Report struct {
	UserName string
	Result   generation.Result
	Answers  []string
	Date     time.Time
}

type payload struct {
	UserName         string            `json:"userName"`
	Result           generation.Result `json:"result"`
	Answers          []string          `json:"answers"`
	Date             string            `json:"date"`
	NotificationType string            `json:"notificationType"`
	Timestamp        string            `json:"timestamp"`
}

// Notifier posts reports to a webhook.
type Notifier struct {
	url     string
	timeout time.Duration
	http    *http.Client
	logger  zerolog.Logger
	now     func() time.Time
}

// New creates a Notifier. An empty url disables delivery.
func New(url string, timeout time.Duration, logger zerolog.Logger) *Notifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{
		url:     url,
		timeout: timeout,
		http:    &http.Client{},
		logger:  logger.With().Str("component", "notify").Logger(),
		now:     time.Now,
	}
}

// Notify posts r once and reports whether the webhook accepted it. A
// disabled notifier logs a warning and reports true so callers never block
// on it.
func (n *Notifier) Notify(ctx context.Context, r Report) bool {
	if n.url == "" {
		n.logger.Warn().Msg("webhook URL not configured, skipping notification")
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.post(ctx, r); err != nil {
		n.logger.Error().Err(err).Str("user", r.UserName).Msg("webhook notification failed")
		return false
	}
	n.logger.Info().Str("user", r.UserName).Msg("webhook notified")
	return true
}

// Dispatch calls Notify on a detached goroutine. The returned channel
// receives the outcome and is closed; callers may ignore it.
func (n *Notifier) Dispatch(r Report) <-chan bool {
	done := make(chan bool, 1)
	go func() {
		defer close(done)
		done <- n.Notify(context.Background(), r)
	}()
	return done
}

func (n *Notifier) post(ctx context.Context, r Report) error {
	date := r.Date
	if date.IsZero() {
		date = n.now()
	}
	body, err := json.Marshal(payload{
		UserName:         r.UserName,
		Result:           r.Result,
		Answers:          r.Answers,
		Date:             date.Format("02/01/2006 15:04:05"),
		NotificationType: notificationType,
		Timestamp:        n.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}

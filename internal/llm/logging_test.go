package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/store"
)

type recordingRepo struct {
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"profileName":"X"}`),
		Usage:   Usage{InputTokens: 11, OutputTokens: 7},
	})
	p := WithLogging(mock, "openrouter", repo, zerolog.Nop())

	ctx := WithPurpose(context.Background(), "design-analysis")
	if _, err := p.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "hi"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Provider != "openrouter" || ev.Purpose != "design-analysis" || !ev.Success {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.InputTokens != 11 || ev.OutputTokens != 7 {
		t.Errorf("tokens = %d/%d, want 11/7", ev.InputTokens, ev.OutputTokens)
	}
	if ev.ResponseBody != `{"profileName":"X"}` {
		t.Errorf("response body = %q", ev.ResponseBody)
	}
	if ev.RequestBody == "" {
		t.Error("request body should be recorded")
	}
}

func TestLoggingProvider_RecordsFailureAndIgnoresRepoError(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Status: 502}})
	p := WithLogging(mock, "openrouter", repo, zerolog.Nop())

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected provider error to pass through, got %v", err)
	}
	if len(repo.events) != 1 || repo.events[0].Success {
		t.Fatalf("expected one failed event, got %+v", repo.events)
	}
	if repo.events[0].ErrorMessage == "" {
		t.Error("error message should be recorded")
	}
}

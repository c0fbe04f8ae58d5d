package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{tableSnapshots, tableLLMEvents} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestMigrationIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		s.Close()
	}
}

func TestSnapshotLoadMissingKey(t *testing.T) {
	s := openTestStore(t)
	data, err := s.SnapshotRepo().Load(context.Background(), "nope")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil data for missing key, got %q", data)
	}
}

func TestSnapshotSaveReplaces(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	if err := repo.Save(ctx, "k", []byte(`[1]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, "k", []byte(`[2,1]`)); err != nil {
		t.Fatalf("save again: %v", err)
	}

	data, err := repo.Load(ctx, "k")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != `[2,1]` {
		t.Errorf("data = %q, want %q", data, `[2,1]`)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}
}

func TestSnapshotDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	if err := repo.Save(ctx, "k", []byte(`{}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete absent key: %v", err)
	}
	data, err := repo.Load(ctx, "k")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil after delete, got %q", data)
	}
}

func TestLLMEventsAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openrouter", Model: "deepseek/deepseek-chat", Purpose: "design-analysis", InputTokens: 100, OutputTokens: 50, LatencyMs: 1200, Success: true, RequestBody: "[user]\nhi", ResponseBody: `{"a":1}`},
		{Provider: "openrouter", Model: "deepseek/deepseek-chat", Purpose: "design-analysis", InputTokens: 80, OutputTokens: 0, LatencyMs: 800, Success: false, ErrorMessage: "boom"},
		{Provider: "mock", Model: "mock", Purpose: "other", InputTokens: 1, OutputTokens: 1, LatencyMs: 2, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Purpose != "other" {
		t.Errorf("first event purpose = %q, want newest first", all[0].Purpose)
	}

	filtered, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "design-analysis", Limit: 1})
	if err != nil {
		t.Fatalf("query filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Success {
		t.Fatalf("expected the failed design-analysis event, got %+v", filtered)
	}

	got, err := repo.GetLLMEvent(ctx, all[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ResponseBody != `{"a":1}` || !got.Success {
		t.Fatalf("unexpected event: %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing event")
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Provider: "p", Model: "m1", Purpose: "design-analysis", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true},
		{Provider: "p", Model: "m1", Purpose: "design-analysis", InputTokens: 20, OutputTokens: 5, LatencyMs: 300, Success: true},
		{Provider: "p", Model: "m2", Purpose: "other", InputTokens: 1, OutputTokens: 2, LatencyMs: 10, Success: true},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	da := byPurpose[0]
	if da.Purpose != "design-analysis" || da.Calls != 2 || da.InputTokens != 30 || da.OutputTokens != 10 || da.AvgLatencyMs != 200 {
		t.Errorf("unexpected design-analysis usage: %+v", da)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[1].Model != "m2" || byModel[1].OutputTokens != 2 {
		t.Errorf("unexpected model usage: %+v", byModel)
	}
}

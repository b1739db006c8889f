package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := Open("file:" + name + "?mode=memory&cache=shared")
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
		// WAL mode falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
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

	for _, table := range []string{"kv", "llm_request_events", "session_events", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eduspark.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.KVRepo().Put(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, ok, err := s.KVRepo().Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get after reopen: ok=%v err=%v", ok, err)
	}
	if string(got) != "v1" {
		t.Errorf("value = %q, want v1", got)
	}
}

func TestKVPutGetOverwrite(t *testing.T) {
	s := openTestStore(t)
	repo := s.KVRepo()
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "eduspark_stats")
	if err != nil {
		t.Fatalf("get (empty): %v", err)
	}
	if ok {
		t.Fatal("expected missing key")
	}

	if err := repo.Put(ctx, "eduspark_stats", []byte(`{"points":100}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, "eduspark_stats", []byte(`{"points":200}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, ok, err := repo.Get(ctx, "eduspark_stats")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"points":200}` {
		t.Errorf("value = %s, want overwritten record", got)
	}

	var rows int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM kv").Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Errorf("kv rows = %d, want 1", rows)
	}
}

func TestKVDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.KVRepo()
	ctx := context.Background()

	if err := repo.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if err := repo.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, "k"); ok {
		t.Error("key still present after delete")
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestLLMEventsAppendQueryGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, purpose := range []string{"study-pack", "study-pack", "grounding"} {
		errMsg := ""
		if i == 2 {
			errMsg = "boom"
		}
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "gemini",
			Model:        "gemini-3-flash-preview",
			Purpose:      purpose,
			InputTokens:  100 * (i + 1),
			OutputTokens: 10 * (i + 1),
			LatencyMs:    int64(200 * (i + 1)),
			Success:      i != 2,
			ErrorMessage: errMsg,
			RequestBody:  "[user]\nphotosynthesis",
			ResponseBody: `{"title":"x"}`,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].Purpose != "grounding" || events[0].Success {
		t.Errorf("newest event = %+v, want failed grounding", events[0])
	}
	if events[0].Sequence <= events[1].Sequence {
		t.Errorf("events not newest first: %d then %d", events[0].Sequence, events[1].Sequence)
	}
	if time.Since(events[0].Timestamp) > time.Minute {
		t.Errorf("timestamp %v not recent", events[0].Timestamp)
	}

	e, err := repo.GetLLMEvent(ctx, events[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil || e.RequestBody != "[user]\nphotosynthesis" || e.ResponseBody != `{"title":"x"}` {
		t.Errorf("get returned %+v", e)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing event")
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	add := func(purpose, model string, in, out int, ms int64) {
		t.Helper()
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider: "p", Model: model, Purpose: purpose,
			InputTokens: in, OutputTokens: out, LatencyMs: ms, Success: true,
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	add("study-pack", "m1", 100, 50, 100)
	add("study-pack", "m1", 300, 150, 300)
	add("grounding", "m2", 10, 5, 50)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("groups = %d, want 2", len(byPurpose))
	}
	top := byPurpose[0]
	if top.Purpose != "study-pack" || top.Calls != 2 || top.InputTokens != 400 || top.OutputTokens != 200 || top.AvgLatencyMs != 200 {
		t.Errorf("study-pack usage = %+v", top)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "m1" {
		t.Errorf("by model = %+v", byModel)
	}
}

func TestSessionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendSessionEvent(ctx, SessionEventData{Action: SessionGenerated}); err == nil {
		t.Error("expected error for missing session ID")
	}

	err := repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", Action: SessionGenerated, Title: "Cells",
	})
	if err != nil {
		t.Fatalf("append generated: %v", err)
	}
	err = repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", Action: SessionCompleted, Title: "Cells",
		QuizTotal: 5, QuizCorrect: 4, PointsAwarded: 100,
	})
	if err != nil {
		t.Fatalf("append completed: %v", err)
	}

	events, err := repo.QuerySessionEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	done := events[0]
	if done.Action != SessionCompleted || done.QuizCorrect != 4 || done.QuizTotal != 5 || done.PointsAwarded != 100 {
		t.Errorf("completed event = %+v", done)
	}

	after, err := repo.QuerySessionEvents(ctx, QueryOpts{After: events[1].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 || after[0].Action != SessionCompleted {
		t.Errorf("after filter = %+v", after)
	}
}

func TestLLMAndSessionEventsShareSequence(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "p", Model: "m", Purpose: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s", Action: SessionGenerated}); err != nil {
		t.Fatal(err)
	}

	llmEvents, _ := repo.QueryLLMEvents(ctx, QueryOpts{})
	sessEvents, _ := repo.QuerySessionEvents(ctx, QueryOpts{})
	if len(llmEvents) != 1 || len(sessEvents) != 1 {
		t.Fatalf("unexpected counts %d/%d", len(llmEvents), len(sessEvents))
	}
	if sessEvents[0].Sequence != llmEvents[0].Sequence+1 {
		t.Errorf("sequences %d then %d, want consecutive", llmEvents[0].Sequence, sessEvents[0].Sequence)
	}
}

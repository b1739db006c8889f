package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/eduspark/internal/store"
)

type fakeRecorder struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (f *fakeRecorder) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, data)
	return f.err
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	rec := &fakeRecorder{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"title":"Cells"}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 34},
	})
	p := WithLogging(mock, rec, nil)

	ctx := WithPurpose(context.Background(), PurposeStudyPack)
	_, err := p.Generate(ctx, Request{
		System: "sys",
		Messages: []Message{{
			Role:        RoleUser,
			Content:     "notes",
			Attachments: []Attachment{{MIMEType: "image/png", Data: make([]byte, 42)}},
		}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(rec.events))
	}
	e := rec.events[0]
	if e.Purpose != PurposeStudyPack || !e.Success || e.InputTokens != 12 || e.OutputTokens != 34 {
		t.Fatalf("unexpected event %+v", e)
	}
	if !strings.Contains(e.RequestBody, "<attachment image/png, 42 bytes>") {
		t.Fatalf("attachment not summarized: %q", e.RequestBody)
	}
	if e.ResponseBody != `{"title":"Cells"}` {
		t.Fatalf("response body = %q", e.ResponseBody)
	}
}

func TestLoggingProvider_RecordsFailureAndWarns(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rec := &fakeRecorder{}
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}})
	p := WithLogging(mock, rec, zap.New(core))

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(rec.events) != 1 || rec.events[0].Success || rec.events[0].ErrorMessage == "" {
		t.Fatalf("unexpected events %+v", rec.events)
	}
	if logs.FilterMessage("llm request failed").Len() != 1 {
		t.Fatalf("expected a warning, got %v", logs.All())
	}
}

func TestLoggingProvider_RecorderErrorDoesNotFailRequest(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rec := &fakeRecorder{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, rec, zap.New(core))

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logs.FilterMessage("failed to record llm request event").Len() != 1 {
		t.Fatal("expected recorder failure to be logged")
	}
}

func TestLoggingProvider_NilRecorder(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSerializeRequest_Grounding(t *testing.T) {
	out := serializeRequest(Request{
		Messages:        []Message{{Role: RoleUser, Content: "Find context about: mitosis"}},
		SearchGrounding: true,
	})
	if !strings.Contains(out, "[user]\nFind context about: mitosis") || !strings.Contains(out, "google_search") {
		t.Fatalf("unexpected serialization %q", out)
	}
}

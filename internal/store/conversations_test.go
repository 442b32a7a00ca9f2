package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/taskpilot/tasklist/internal/store"
)

func TestAppendAndWindow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	conv := store.NewConversationID()

	turns := []struct {
		role    store.Role
		content string
	}{
		{store.RoleSystem, "you manage tasks"},
		{store.RoleUser, "add buy milk"},
		{store.RoleAssistant, "done"},
		{store.RoleUser, "list my tasks"},
	}
	for _, turn := range turns {
		if _, err := s.AppendMessage(ctx, conv, 7, turn.role, turn.content, nil); err != nil {
			t.Fatalf("append %q: %v", turn.content, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	all, err := s.Window(ctx, conv, 0, 0)
	if err != nil {
		t.Fatalf("full window: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(all))
	}
	if all[0].Role != store.RoleSystem || all[3].Content != "list my tasks" {
		t.Fatalf("window not chronological: first=%q last=%q", all[0].Content, all[3].Content)
	}

	last2, err := s.Window(ctx, conv, 0, 2)
	if err != nil {
		t.Fatalf("window 2: %v", err)
	}
	if len(last2) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(last2))
	}
	if last2[0].Content != "done" || last2[1].Content != "list my tasks" {
		t.Fatalf("window must keep the newest turns in order, got %q, %q", last2[0].Content, last2[1].Content)
	}
}

func TestAppendMessageStoresToolCalls(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	conv := store.NewConversationID()

	calls := json.RawMessage(`[{"tool":"add_task","arguments":{"title":"Buy milk"}}]`)
	msg, err := s.AppendMessage(ctx, conv, 7, store.RoleAssistant, "adding it", calls)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if string(msg.ToolCalls) != string(calls) {
		t.Fatalf("tool calls not echoed back: %s", msg.ToolCalls)
	}

	window, err := s.Window(ctx, conv, 0, 0)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(window[0].ToolCalls, &decoded); err != nil {
		t.Fatalf("stored tool calls not valid JSON: %v", err)
	}
	if decoded[0]["tool"] != "add_task" {
		t.Fatalf("unexpected tool call payload: %v", decoded)
	}
}

func TestWindowIsolatesConversations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	convA := store.NewConversationID()
	convB := store.NewConversationID()

	if _, err := s.AppendMessage(ctx, convA, 7, store.RoleUser, "in A", nil); err != nil {
		t.Fatalf("append A: %v", err)
	}
	if _, err := s.AppendMessage(ctx, convB, 7, store.RoleUser, "in B", nil); err != nil {
		t.Fatalf("append B: %v", err)
	}

	window, err := s.Window(ctx, convA, 0, 0)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if len(window) != 1 || window[0].Content != "in A" {
		t.Fatalf("conversation A leaked other turns: %+v", window)
	}
}

func TestWindowScopedToOwner(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	conv := store.NewConversationID()

	if _, err := s.AppendMessage(ctx, conv, 7, store.RoleUser, "mine", nil); err != nil {
		t.Fatalf("append owner 7: %v", err)
	}
	if _, err := s.AppendMessage(ctx, conv, 9, store.RoleUser, "theirs", nil); err != nil {
		t.Fatalf("append owner 9: %v", err)
	}

	window, err := s.Window(ctx, conv, 7, 0)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if len(window) != 1 || window[0].Content != "mine" {
		t.Fatalf("owner filter leaked other owners' turns: %+v", window)
	}
}

func TestConversationIDValidation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.AppendMessage(ctx, "not-a-uuid", 7, store.RoleUser, "x", nil); err == nil {
		t.Fatal("expected malformed conversation id to be rejected")
	}
	if _, err := s.Window(ctx, "'; DROP TABLE messages; --", 0, 0); err == nil {
		t.Fatal("expected malformed conversation id to be rejected")
	}
}

func TestParseRole(t *testing.T) {
	if _, err := store.ParseRole("Assistant"); err != nil {
		t.Fatalf("role parse should be case-insensitive: %v", err)
	}
	if _, err := store.ParseRole("tool"); err == nil {
		t.Fatal("unknown role must be rejected")
	}
}

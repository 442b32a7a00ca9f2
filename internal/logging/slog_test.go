package logging

import (
	"errors"
	"log/slog"
	"testing"
)

func TestWithOperation(t *testing.T) {
	logger := slog.Default()
	result := WithOperation(logger, "test_operation")
	if result == nil {
		t.Error("WithOperation returned nil")
	}
}

func TestWithTool(t *testing.T) {
	logger := slog.Default()
	result := WithTool(logger, "test_tool")
	if result == nil {
		t.Error("WithTool returned nil")
	}
}

func TestWithService(t *testing.T) {
	logger := slog.Default()
	result := WithService(logger, "tasklist")
	if result == nil {
		t.Error("WithService returned nil")
	}
}

func TestWithOwner(t *testing.T) {
	logger := slog.Default()
	result := WithOwner(logger, 7)
	if result == nil {
		t.Error("WithOwner returned nil")
	}
}

func TestOperationAttr(t *testing.T) {
	attr := Operation("test_op")
	if attr.Key != KeyOperation {
		t.Errorf("Operation key = %q, want %q", attr.Key, KeyOperation)
	}
	if attr.Value.String() != "test_op" {
		t.Errorf("Operation value = %q, want %q", attr.Value.String(), "test_op")
	}
}

func TestServiceAttr(t *testing.T) {
	attr := Service("tasklist")
	if attr.Key != KeyService {
		t.Errorf("Service key = %q, want %q", attr.Key, KeyService)
	}
	if attr.Value.String() != "tasklist" {
		t.Errorf("Service value = %q, want %q", attr.Value.String(), "tasklist")
	}
}

func TestToolAttr(t *testing.T) {
	attr := Tool("add_task")
	if attr.Key != KeyTool {
		t.Errorf("Tool key = %q, want %q", attr.Key, KeyTool)
	}
	if attr.Value.String() != "add_task" {
		t.Errorf("Tool value = %q, want %q", attr.Value.String(), "add_task")
	}
}

func TestStatusAttr(t *testing.T) {
	attr := Status(StatusSuccess)
	if attr.Key != KeyStatus {
		t.Errorf("Status key = %q, want %q", attr.Key, KeyStatus)
	}
	if attr.Value.String() != StatusSuccess {
		t.Errorf("Status value = %q, want %q", attr.Value.String(), StatusSuccess)
	}
}

func TestTaskIDAttr(t *testing.T) {
	attr := TaskID(101)
	if attr.Key != KeyTaskID {
		t.Errorf("TaskID key = %q, want %q", attr.Key, KeyTaskID)
	}
	if attr.Value.Int64() != 101 {
		t.Errorf("TaskID value = %d, want 101", attr.Value.Int64())
	}
}

func TestConversationAttr(t *testing.T) {
	attr := Conversation("abc-123")
	if attr.Key != KeyConversation {
		t.Errorf("Conversation key = %q, want %q", attr.Key, KeyConversation)
	}
	if attr.Value.String() != "abc-123" {
		t.Errorf("Conversation value = %q, want %q", attr.Value.String(), "abc-123")
	}
}

func TestErr(t *testing.T) {
	// Test with error
	err := errors.New("test error")
	attr := Err(err)
	if attr.Key != KeyError {
		t.Errorf("Err key = %q, want %q", attr.Key, KeyError)
	}
	if attr.Value.String() != "test error" {
		t.Errorf("Err value = %q, want %q", attr.Value.String(), "test error")
	}

	// Test with nil - should return an empty group that slog will omit
	attr = Err(nil)
	// Empty Group has empty key
	if attr.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty string (empty group)", attr.Key)
	}
}

func TestAnonymizeOwner(t *testing.T) {
	result := AnonymizeOwner(7)
	// "owner:" + 16 hex chars
	if len(result) != 22 {
		t.Errorf("AnonymizeOwner(7) length = %d, want 22", len(result))
	}
	if result[:6] != "owner:" {
		t.Errorf("AnonymizeOwner(7) should start with 'owner:', got %q", result)
	}

	if AnonymizeOwner(0) != "" {
		t.Error("AnonymizeOwner(0) should be empty")
	}
	if AnonymizeOwner(-1) != "" {
		t.Error("AnonymizeOwner(-1) should be empty")
	}

	// Test deterministic hashing
	if AnonymizeOwner(7) != AnonymizeOwner(7) {
		t.Error("AnonymizeOwner should return deterministic results")
	}

	// Test different owners produce different hashes
	if AnonymizeOwner(7) == AnonymizeOwner(8) {
		t.Error("Different owners should produce different hashes")
	}
}

func TestOwnerHash(t *testing.T) {
	attr := OwnerHash(7)
	if attr.Key != KeyOwnerHash {
		t.Errorf("OwnerHash key = %q, want %q", attr.Key, KeyOwnerHash)
	}
	if len(attr.Value.String()) != 22 {
		t.Errorf("OwnerHash value length = %d, want 22", len(attr.Value.String()))
	}
}

func TestStatusConstants(t *testing.T) {
	if StatusSuccess != "success" {
		t.Errorf("StatusSuccess = %q, want %q", StatusSuccess, "success")
	}
	if StatusError != "error" {
		t.Errorf("StatusError = %q, want %q", StatusError, "error")
	}
}

package instrumentation

import "testing"

func TestBucketOwner(t *testing.T) {
	tests := []struct {
		owner    int64
		expected string
	}{
		{7, "bucket-7"},
		{23, "bucket-7"},
		{16, "bucket-0"},
		{1, "bucket-1"},
		{0, "unknown"},
		{-3, "unknown"},
	}

	for _, tt := range tests {
		result := BucketOwner(tt.owner)
		if result != tt.expected {
			t.Errorf("BucketOwner(%d) = %q, want %q", tt.owner, result, tt.expected)
		}
	}
}

func TestOperationConstants(t *testing.T) {
	operations := map[string]string{
		OperationAdd:      "add",
		OperationList:     "list",
		OperationComplete: "complete",
		OperationDelete:   "delete",
		OperationUpdate:   "update",
		OperationGet:      "get",
		OperationQuery:    "query",
		OperationAppend:   "append",
		OperationWindow:   "window",
	}

	for constant, expected := range operations {
		if constant != expected {
			t.Errorf("Operation constant = %q, want %q", constant, expected)
		}
	}
}

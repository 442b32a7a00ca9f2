package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestParseIDOrArray(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		paramName string
		want      []int64
		wantErr   bool
	}{
		{
			name:      "single number",
			input:     float64(42),
			paramName: "taskIds",
			want:      []int64{42},
			wantErr:   false,
		},
		{
			name:      "numeric string",
			input:     "42",
			paramName: "taskIds",
			want:      []int64{42},
			wantErr:   false,
		},
		{
			name:      "array of numbers",
			input:     []interface{}{float64(1), float64(2), float64(3)},
			paramName: "taskIds",
			want:      []int64{1, 2, 3},
			wantErr:   false,
		},
		{
			name:      "array of numeric strings",
			input:     []interface{}{"1", "2"},
			paramName: "taskIds",
			want:      []int64{1, 2},
			wantErr:   false,
		},
		{
			name:      "JSON string array",
			input:     `[1, 2, 3]`,
			paramName: "taskIds",
			want:      []int64{1, 2, 3},
			wantErr:   false,
		},
		{
			name:      "nil input",
			input:     nil,
			paramName: "taskIds",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "empty string",
			input:     "",
			paramName: "taskIds",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "empty array",
			input:     []interface{}{},
			paramName: "taskIds",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "JSON string empty array",
			input:     `[]`,
			paramName: "taskIds",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "array with non-id",
			input:     []interface{}{float64(1), true},
			paramName: "taskIds",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "non-numeric string",
			input:     "abc",
			paramName: "taskIds",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "invalid type",
			input:     true,
			paramName: "taskIds",
			want:      nil,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIDOrArray(tt.input, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseIDOrArray() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !int64SliceEqual(got, tt.want) {
				t.Errorf("ParseIDOrArray() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatResults(t *testing.T) {
	results := []Result{
		{ID: 1, Status: "success", Result: "Operation successful"},
		{ID: 2, Status: "success", Result: "Operation successful"},
		{ID: 3, Status: "error", Error: "Something went wrong"},
	}

	output := FormatResults(results)

	var br BatchResult
	if err := json.Unmarshal([]byte(output), &br); err != nil {
		t.Fatalf("Failed to parse output JSON: %v", err)
	}

	if br.Total != 3 {
		t.Errorf("Total = %d, want 3", br.Total)
	}
	if br.Successful != 2 {
		t.Errorf("Successful = %d, want 2", br.Successful)
	}
	if br.Failed != 1 {
		t.Errorf("Failed = %d, want 1", br.Failed)
	}
	if len(br.Results) != 3 {
		t.Errorf("len(Results) = %d, want 3", len(br.Results))
	}
}

func TestProcessBatch(t *testing.T) {
	ids := []int64{1, 2, 3}

	// Mock function that fails on id 2
	fn := func(id int64) (string, error) {
		if id == 2 {
			return "", errors.New("failed to process task 2")
		}
		return fmt.Sprintf("processed %d", id), nil
	}

	results := ProcessBatch(ids, fn)

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	if results[0].Status != "success" {
		t.Errorf("results[0].Status = %s, want success", results[0].Status)
	}
	if results[0].Result != "processed 1" {
		t.Errorf("results[0].Result = %s, want 'processed 1'", results[0].Result)
	}

	if results[1].Status != "error" {
		t.Errorf("results[1].Status = %s, want error", results[1].Status)
	}
	if results[1].Error != "failed to process task 2" {
		t.Errorf("results[1].Error = %s, want 'failed to process task 2'", results[1].Error)
	}

	if results[2].Status != "success" {
		t.Errorf("results[2].Status = %s, want success", results[2].Status)
	}
}

func TestNewSuccessResult(t *testing.T) {
	result := NewSuccessResult(7, "test message")

	if result.ID != 7 {
		t.Errorf("ID = %d, want 7", result.ID)
	}
	if result.Status != "success" {
		t.Errorf("Status = %s, want success", result.Status)
	}
	if result.Result != "test message" {
		t.Errorf("Result = %s, want 'test message'", result.Result)
	}
	if result.Error != "" {
		t.Errorf("Error should be empty, got %s", result.Error)
	}
}

func TestNewErrorResult(t *testing.T) {
	err := errors.New("test error")
	result := NewErrorResult(7, err)

	if result.ID != 7 {
		t.Errorf("ID = %d, want 7", result.ID)
	}
	if result.Status != "error" {
		t.Errorf("Status = %s, want error", result.Status)
	}
	if result.Error != "test error" {
		t.Errorf("Error = %s, want 'test error'", result.Error)
	}
	if result.Result != "" {
		t.Errorf("Result should be empty, got %s", result.Result)
	}
}

func int64SliceEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package batch

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Result represents the result of a single operation in a batch
type Result struct {
	ID     int64  `json:"id"`
	Status string `json:"status"` // "success" or "error"
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchResult represents the aggregated results of a batch operation
type BatchResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// ParseIDOrArray parses a parameter that can be a single task id or an
// array of task ids. Ids arrive as JSON numbers (float64), as numeric
// strings, or as a JSON-encoded array in a string, depending on the
// client.
func ParseIDOrArray(param interface{}, paramName string) ([]int64, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	switch v := param.(type) {
	case float64:
		return []int64{int64(v)}, nil
	case int64:
		return []int64{v}, nil
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		// Some clients send arrays as a JSON string
		if strings.HasPrefix(strings.TrimSpace(v), "[") {
			var raw []interface{}
			if err := json.Unmarshal([]byte(v), &raw); err == nil {
				return parseIDSlice(raw, paramName)
			}
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a task id or array of task ids", paramName)
		}
		return []int64{id}, nil
	case []interface{}:
		return parseIDSlice(v, paramName)
	default:
		return nil, fmt.Errorf("%s must be a task id or array of task ids", paramName)
	}
}

func parseIDSlice(items []interface{}, paramName string) ([]int64, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%s cannot be empty", paramName)
	}

	result := make([]int64, 0, len(items))
	for i, item := range items {
		switch id := item.(type) {
		case float64:
			result = append(result, int64(id))
		case string:
			parsed, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s[%d] must be a task id", paramName, i)
			}
			result = append(result, parsed)
		default:
			return nil, fmt.Errorf("%s[%d] must be a task id", paramName, i)
		}
	}

	return result, nil
}

// FormatResults creates a formatted JSON string from batch results
func FormatResults(results []Result) string {
	br := BatchResult{
		Total:   len(results),
		Results: results,
	}

	for _, r := range results {
		if r.Status == "success" {
			br.Successful++
		} else {
			br.Failed++
		}
	}

	jsonBytes, _ := json.MarshalIndent(br, "", "  ")
	return string(jsonBytes)
}

// ProcessBatch executes a function on each task id and collects results
// fn should return (result string, error) for each id
func ProcessBatch(ids []int64, fn func(id int64) (string, error)) []Result {
	results := make([]Result, 0, len(ids))

	for _, id := range ids {
		result := Result{ID: id}
		res, err := fn(id)
		if err != nil {
			result.Status = "error"
			result.Error = err.Error()
		} else {
			result.Status = "success"
			result.Result = res
		}
		results = append(results, result)
	}

	return results
}

// NewSuccessResult creates a success result
func NewSuccessResult(id int64, message string) Result {
	return Result{
		ID:     id,
		Status: "success",
		Result: message,
	}
}

// NewErrorResult creates an error result
func NewErrorResult(id int64, err error) Result {
	return Result{
		ID:     id,
		Status: "error",
		Error:  err.Error(),
	}
}

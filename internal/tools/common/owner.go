package common

import (
	"encoding/json"
	"strconv"
)

// OwnerFromArgs extracts the acting user's id from request arguments.
// Returns 0 when the argument is missing or unparseable; validation of
// the value itself happens in the dispatcher.
func OwnerFromArgs(args map[string]interface{}) int64 {
	return Int64FromArgs(args, "user_id")
}

// Int64FromArgs extracts an int64 argument by name. JSON numbers
// arrive as float64, but clients sometimes send ids as strings, so
// both are accepted. Returns 0 when absent or unparseable.
func Int64FromArgs(args map[string]interface{}, name string) int64 {
	switch v := args[name].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		id, err := v.Int64()
		if err != nil {
			return 0
		}
		return id
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return id
	default:
		return 0
	}
}

// StringListFromArgs extracts a string-array argument by name.
// Accepts a JSON array of strings or a single string. Returns nil when
// the argument is absent, so callers can distinguish "not provided"
// from an explicit empty list.
func StringListFromArgs(args map[string]interface{}, name string) []string {
	switch v := args[name].(type) {
	case string:
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	default:
		return nil
	}
}

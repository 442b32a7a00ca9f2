package dispatch

import "fmt"

// Result is the uniform envelope every operation returns. Callers
// branch on Success; failed results always carry a Code.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Code    Code   `json:"code,omitempty"`
}

func success(data any, format string, args ...any) *Result {
	return &Result{
		Success: true,
		Data:    data,
		Message: fmt.Sprintf(format, args...),
	}
}

func failure(code Code, format string, args ...any) *Result {
	return &Result{
		Success: false,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	}
}

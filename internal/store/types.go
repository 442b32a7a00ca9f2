package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Priority is the three-valued task priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is applied when a caller omits the priority.
const DefaultPriority = PriorityMedium

// ParsePriority validates and normalizes a priority string.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("invalid priority %q (must be low, medium or high)", s)
	}
}

// rank maps a priority to its sort rank (low < medium < high).
func (p Priority) rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	default:
		return -1
	}
}

// Task is a persisted unit of work belonging to a single owner.
type Task struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Priority     Priority  `json:"priority"`
	Tags         []string  `json:"tags"`
	Completed    bool      `json:"completed"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TaskFields is the full set of mutable task fields, used by CreateTask
// and ReplaceTask. Validation of titles and priorities happens in the
// dispatch layer before these reach the store.
type TaskFields struct {
	Title        string
	Description  string
	Priority     Priority
	Tags         []string
	Completed    bool
	DisplayOrder int
}

// TaskPatch carries only the fields to change; nil pointers (and a nil
// Tags slice) leave the stored value untouched.
type TaskPatch struct {
	Title        *string
	Description  *string
	Priority     *Priority
	Tags         []string
	Completed    *bool
	DisplayOrder *int
}

// IsEmpty reports whether the patch would change nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.Tags == nil && p.Completed == nil && p.DisplayOrder == nil
}

// NormalizeTags trims whitespace, drops empties and collapses duplicates.
// The result is sorted so tag sets compare deterministically.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ParseRole validates and normalizes a role string.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAssistant:
		return RoleAssistant, nil
	case RoleSystem:
		return RoleSystem, nil
	default:
		return "", fmt.Errorf("invalid role %q (must be user, assistant or system)", s)
	}
}

// Message is one turn in a conversation. Messages are append-only:
// this package never mutates or deletes them.
type Message struct {
	ID             int64           `json:"id"`
	ConversationID string          `json:"conversation_id"`
	OwnerID        int64           `json:"owner_id"`
	Role           Role            `json:"role"`
	Content        string          `json:"content"`
	ToolCalls      json.RawMessage `json:"tool_calls,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

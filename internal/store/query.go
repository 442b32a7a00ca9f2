package store

import (
	"context"
	"fmt"
	"strings"
)

// Pagination bounds. Limits outside the window are clamped, never
// rejected, so callers can pass whatever an LLM produced.
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// SortField names a column tasks may be ordered by.
type SortField string

const (
	SortCreatedAt SortField = "created_at"
	SortUpdatedAt SortField = "updated_at"
	SortPriority  SortField = "priority"
	SortTitle     SortField = "title"
)

// ParseSortField validates a sort field against the allow-list.
func ParseSortField(s string) (SortField, error) {
	switch SortField(strings.ToLower(strings.TrimSpace(s))) {
	case SortCreatedAt:
		return SortCreatedAt, nil
	case SortUpdatedAt:
		return SortUpdatedAt, nil
	case SortPriority:
		return SortPriority, nil
	case SortTitle:
		return SortTitle, nil
	default:
		return "", fmt.Errorf("invalid sort field %q (must be created_at, updated_at, priority or title)", s)
	}
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder validates a sort order string.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	default:
		return "", fmt.Errorf("invalid sort order %q (must be asc or desc)", s)
	}
}

// TaskFilter describes a list query. OwnerID is mandatory; every other
// field narrows the result when set.
type TaskFilter struct {
	OwnerID   int64
	Search    string
	Completed *bool
	Priority  *Priority
	Tags      []string
	SortBy    SortField
	SortOrder SortOrder
	Limit     int
	Offset    int
}

// QueryResult is a page of tasks plus the total match count before
// pagination was applied.
type QueryResult struct {
	Tasks []*Task `json:"tasks"`
	Total int     `json:"total"`
}

// QueryTasks runs a filtered, sorted, paginated list for one owner. The
// total is counted against the same predicates before limit and offset
// apply, so total >= len(Tasks) always holds.
func (s *Store) QueryTasks(ctx context.Context, filter TaskFilter) (*QueryResult, error) {
	where, args := buildWhere(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM tasks t " + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT t.id, t.owner_id, t.title, t.description, t.priority, t.completed, t.display_order, t.created_at, t.updated_at
		FROM tasks t ` + where + orderClause(filter.SortBy, filter.SortOrder) + " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	for _, task := range tasks {
		task.Tags, err = s.tagsFor(ctx, task.ID)
		if err != nil {
			return nil, err
		}
	}
	return &QueryResult{Tasks: tasks, Total: total}, nil
}

func buildWhere(filter TaskFilter) (string, []any) {
	conds := []string{"t.owner_id = ?"}
	args := []any{filter.OwnerID}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		conds = append(conds, `(LOWER(t.title) LIKE ? ESCAPE '\' OR LOWER(t.description) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if filter.Completed != nil {
		conds = append(conds, "t.completed = ?")
		args = append(args, *filter.Completed)
	}
	if filter.Priority != nil {
		conds = append(conds, "t.priority = ?")
		args = append(args, string(*filter.Priority))
	}
	for _, tag := range NormalizeTags(filter.Tags) {
		conds = append(conds, "EXISTS (SELECT 1 FROM task_tags tt WHERE tt.task_id = t.id AND tt.tag = ?)")
		args = append(args, tag)
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// escapeLike neutralizes LIKE metacharacters in user search text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func orderClause(field SortField, order SortOrder) string {
	dir := "DESC"
	if order == SortAsc {
		dir = "ASC"
	}
	switch field {
	case SortPriority:
		// Rank low < medium < high instead of sorting alphabetically.
		return fmt.Sprintf(" ORDER BY CASE t.priority WHEN 'low' THEN 0 WHEN 'medium' THEN 1 WHEN 'high' THEN 2 END %s, t.id ASC", dir)
	case SortUpdatedAt:
		return fmt.Sprintf(" ORDER BY t.updated_at %s, t.id ASC", dir)
	case SortTitle:
		return fmt.Sprintf(" ORDER BY t.title %s, t.id ASC", dir)
	default:
		return fmt.Sprintf(" ORDER BY t.created_at %s, t.id ASC", dir)
	}
}

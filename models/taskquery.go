package models

import "strings"

const (
	SortCreatedAtAsc  = "createdAtAsc"
	SortCreatedAtDesc = "createdAtDesc"
	SortDueDateAsc    = "dueDateAsc"
	SortDueDateDesc   = "dueDateDesc"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// TaskListQuery describes one page of a filtered, searched, sorted view
// over a project's tasks.
type TaskListQuery struct {
	Page     int
	PageSize int
	Status   *TaskStatus
	Search   string
	Sort     string
}

// Normalized clamps the page to at least 1 and the page size to
// [1, MaxPageSize] (defaulting to DefaultPageSize), trims the search term
// and falls back to createdAtDesc for unrecognized sort keys. The page
// size cap is enforced here regardless of client input.
func (q TaskListQuery) Normalized() TaskListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	q.Search = strings.TrimSpace(q.Search)
	switch q.Sort {
	case SortCreatedAtAsc, SortCreatedAtDesc, SortDueDateAsc, SortDueDateDesc:
	default:
		q.Sort = SortCreatedAtDesc
	}
	return q
}

type TaskPage struct {
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	Total      int64      `json:"total"`
	TotalPages int64      `json:"totalPages"`
	Items      []TaskItem `json:"items"`
}

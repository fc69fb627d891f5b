package domain

import (
	"strings"

	"todomaster/internal/errors"
)

// StatusFilter selects todos by completion state.
type StatusFilter string

const (
	StatusAll        StatusFilter = "all"
	StatusComplete   StatusFilter = "complete"
	StatusIncomplete StatusFilter = "incomplete"
)

// StatusFilters lists the filters in display order.
func StatusFilters() []StatusFilter {
	return []StatusFilter{StatusAll, StatusComplete, StatusIncomplete}
}

// ParseStatusFilter parses a filter name. The empty string means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusComplete:
		return StatusComplete, nil
	case StatusIncomplete:
		return StatusIncomplete, nil
	}
	return "", errors.NewInvalidInputError("status", s, "must be one of all, complete, incomplete")
}

// Matches reports whether a todo passes the filter.
func (f StatusFilter) Matches(t Todo) bool {
	switch f {
	case StatusComplete:
		return t.Completed
	case StatusIncomplete:
		return !t.Completed
	default:
		return true
	}
}

// Next cycles to the following filter.
func (f StatusFilter) Next() StatusFilter {
	switch f {
	case StatusAll:
		return StatusComplete
	case StatusComplete:
		return StatusIncomplete
	default:
		return StatusAll
	}
}

func (f StatusFilter) String() string {
	if f == "" {
		return string(StatusAll)
	}
	return string(f)
}

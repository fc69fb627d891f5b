package domain

import "strings"

// PageSize is the fixed number of todos per page.
const PageSize = 10

// ViewOptions are the list view inputs. Page is 1-based.
type ViewOptions struct {
	Search string
	Status StatusFilter
	Page   int
}

// PageView is one rendered page of the filtered list.
type PageView struct {
	Items      []Todo
	Page       int
	TotalPages int
	MatchCount int
	Search     string
	Status     StatusFilter
}

// MatchesSearch is a case-insensitive substring match against the title.
func MatchesSearch(t Todo, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), strings.ToLower(search))
}

// FilterTodos keeps the todos matching both the search text and the status.
func FilterTodos(list []Todo, search string, status StatusFilter) []Todo {
	matches := make([]Todo, 0, len(list))
	for _, t := range list {
		if MatchesSearch(t, search) && status.Matches(t) {
			matches = append(matches, t)
		}
	}
	return matches
}

// TotalPages is ceil(matches/PageSize), never less than one.
func TotalPages(matches int) int {
	pages := (matches + PageSize - 1) / PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// BuildPage filters list and slices out the requested page. The page is not
// reset when it exceeds the total; the result is then an empty page.
func BuildPage(list []Todo, opts ViewOptions) PageView {
	status := opts.Status
	if status == "" {
		status = StatusAll
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}

	matches := FilterTodos(list, opts.Search, status)
	view := PageView{
		Items:      []Todo{},
		Page:       page,
		TotalPages: TotalPages(len(matches)),
		MatchCount: len(matches),
		Search:     opts.Search,
		Status:     status,
	}

	// Compared before multiplying so a huge page cannot overflow
	if page > view.TotalPages || len(matches) == 0 {
		return view
	}
	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(matches) {
		end = len(matches)
	}
	view.Items = matches[start:end]
	return view
}

// NoResults reports whether the page has nothing to show.
func (p PageView) NoResults() bool {
	return len(p.Items) == 0
}

// HasPrevious reports whether the Previous control is enabled.
func (p PageView) HasPrevious() bool {
	return p.Page > 1
}

// HasNext reports whether the Next control is enabled.
func (p PageView) HasNext() bool {
	return p.Page < p.TotalPages
}

// PreviousPage is the page the Previous control leads to, within [1, TotalPages].
func (p PageView) PreviousPage() int {
	return clampPage(p.Page-1, p.TotalPages)
}

// NextPage is the page the Next control leads to, within [1, TotalPages].
func (p PageView) NextPage() int {
	if p.Page >= p.TotalPages {
		return clampPage(p.Page, p.TotalPages)
	}
	return clampPage(p.Page+1, p.TotalPages)
}

func clampPage(page, total int) int {
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Package pager exposes a growing prefix of an ordered result list.
//
// Window tracks how many items are displayed. Trigger turns a stream of
// "item i was rendered" observations into at most one load per crossing of
// the end of the list, with a guard against overlapping loads.
package pager

// DefaultPageSize is the number of items added per page.
const DefaultPageSize = 100

// Window is the visible prefix of an ordered list of Total items.
// Displayed never exceeds Total.
type Window struct {
	PageSize  int `json:"page_size"`
	Displayed int `json:"displayed"`
	Total     int `json:"total"`
}

// New creates a window over total items showing the first page.
// A non-positive page size selects DefaultPageSize.
func New(pageSize, total int) Window {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	return Window{
		PageSize:  pageSize,
		Displayed: min(pageSize, total),
		Total:     total,
	}
}

// Reset returns a window over a new total showing the first page again.
func (w Window) Reset(total int) Window {
	return New(w.PageSize, total)
}

// HasMore reports whether items beyond the displayed prefix exist.
func (w Window) HasMore() bool {
	return w.Displayed < w.Total
}

// LoadMore returns the window grown by one page, capped at Total.
// Once HasMore is false it returns w unchanged.
func (w Window) LoadMore() Window {
	if !w.HasMore() {
		return w
	}
	w.Displayed = min(w.Displayed+w.PageSize, w.Total)
	return w
}

// Remaining returns the number of items not yet displayed.
func (w Window) Remaining() int {
	return w.Total - w.Displayed
}

// Visible returns the displayed prefix of items. The result shares the
// backing array of items.
func Visible[T any](w Window, items []T) []T {
	n := min(w.Displayed, len(items))
	if n < 0 {
		n = 0
	}
	return items[:n]
}

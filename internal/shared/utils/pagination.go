package utils

const DefaultPageSize = 50

// MaxPageSize caps every page size. Overridden from config at startup.
var MaxPageSize = 100

// Page is a normalized pagination request. All returns every row as a
// single page.
type Page struct {
	Number int
	Size   int
	All    bool
}

// NewPage clamps number to >= 1 and size to [1, MaxPageSize].
// A size of 0 means defaultSize.
func NewPage(number, size, defaultSize int, all bool) Page {
	if number < 1 {
		number = 1
	}
	if size == 0 {
		size = defaultSize
	}
	if size < 1 {
		size = 1
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size, All: all}
}

// Offset of the first row of the page.
func (p Page) Offset() int {
	if p.All {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// LimitClause renders LIMIT/OFFSET using ph, or "" when All is set.
func (p Page) LimitClause(ph *Placeholder) string {
	if p.All {
		return ""
	}
	return " LIMIT " + ph.Add(p.Size) + " OFFSET " + ph.Add(p.Offset())
}

// TotalPages never returns 0; an empty result is one empty page.
func (p Page) TotalPages(total int64) int {
	if p.All || total == 0 {
		return 1
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

// Effective returns the page number and size to report back to the client.
func (p Page) Effective(total int64) (number, size int) {
	if p.All {
		return 1, int(total)
	}
	return p.Number, p.Size
}

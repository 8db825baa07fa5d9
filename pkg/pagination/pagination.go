package pagination

// DefaultPageSize is the standard page size when one is not provided.
const DefaultPageSize = 12

// MaxPageSize caps how many rows any listing query can request.
const MaxPageSize = 60

// Params holds page-based pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Normalize clamps the page to >= 1 and the page size into [1, MaxPageSize].
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Limit returns the normalized page size.
func (p Params) Limit() int {
	return p.Normalize().PageSize
}

// TotalPages derives the page count for a total row count.
func (p Params) TotalPages(total int64) int {
	size := int64(p.Normalize().PageSize)
	if total <= 0 {
		return 0
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return int(pages)
}

package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Page is the list envelope returned by every collection endpoint.
type Page[T any] struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	HasNext  bool  `json:"has_next"`
	Results  []T   `json:"results"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage clamps the page number to 1 or more.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	return (NormalizePage(p.Page) - 1) * NormalizeLimit(p.Limit)
}

// NewPage assembles a page from the current slice and the total row count.
func NewPage[T any](items []T, total int64, params Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	limit := NormalizeLimit(params.Limit)
	page := NormalizePage(params.Page)
	return Page[T]{
		Count:    total,
		Page:     page,
		PageSize: limit,
		HasNext:  int64(page*limit) < total,
		Results:  items,
	}
}

// Map converts page results while keeping the counters.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Results))
	for _, item := range p.Results {
		out = append(out, fn(item))
	}
	return Page[U]{Count: p.Count, Page: p.Page, PageSize: p.PageSize, HasNext: p.HasNext, Results: out}
}

package dto

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageQuery binds ?page= and ?page_size=
type PageQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
}

// Normalize clamps the query to sane bounds
func (q *PageQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
}

// Paginated is the envelope of every list endpoint
type Paginated[T any] struct {
	Count      int64 `json:"count"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	Results    []T   `json:"results"`
}

// NewPaginated builds the envelope, mapping each item with conv
func NewPaginated[M any, T any](items []M, total int64, page, pageSize int, conv func(*M) T) Paginated[T] {
	results := make([]T, 0, len(items))
	for i := range items {
		results = append(results, conv(&items[i]))
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Paginated[T]{
		Count:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Results:    results,
	}
}

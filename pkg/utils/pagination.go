package utils

// Pagination описывает одну страницу списка.
type Pagination struct {
	Page       int   `json:"page"` // 1-based
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

const (
	DefaultPageSize = 12
	MaxPageSize     = 1000
)

// NewPagination приводит page и pageSize к допустимым значениям.
func NewPagination(page, pageSize int) *Pagination {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return &Pagination{
		Page:     page,
		PageSize: pageSize,
	}
}

// FromStartLimit преобразует пару start/limit admin API. start округляется
// вниз до страницы, в которую он попадает.
func FromStartLimit(start, limit int) *Pagination {
	p := NewPagination(1, limit)
	if start > 0 {
		p.Page = start/p.PageSize + 1
	}
	return p
}

// SetTotal сохраняет общее количество и пересчитывает производные поля.
func (p *Pagination) SetTotal(totalItems int64) {
	p.TotalItems = totalItems
	p.TotalPages = int((totalItems + int64(p.PageSize) - 1) / int64(p.PageSize))
	p.HasNext = p.Page < p.TotalPages
	p.HasPrev = p.Page > 1
}

func (p *Pagination) GetOffset() int {
	return (p.Page - 1) * p.PageSize
}

func (p *Pagination) GetLimit() int {
	return p.PageSize
}

package domain

// SortOrder is one (field, direction) pair of a page request ordering.
// Field carries the DTO field name; repositories map it to a column.
type SortOrder struct {
	Field string
	Desc  bool
}

// PageSpec describes one page of a sorted listing.
type PageSpec struct {
	Page int
	Size int
	Sort []SortOrder
}

// Page is one slice of a listing plus the total row count, which is computed
// independently of the slice.
type Page[T any] struct {
	Items      []T
	TotalCount int64
	Page       int
	Size       int
}

// MapPage projects a page of entities into a page of transfer shapes, keeping
// the paging metadata intact.
func MapPage[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	items := make([]U, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, fn(it))
	}
	return &Page[U]{
		Items:      items,
		TotalCount: p.TotalCount,
		Page:       p.Page,
		Size:       p.Size,
	}
}

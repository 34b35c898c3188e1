package domain

// PaginationParams carries offset-based pagination for list queries. The
// delivery layer is responsible for clamping Page and PageSize before they
// reach a repository.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the 0-based row offset for the current page.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

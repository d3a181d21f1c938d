package models

// Pagination describes the page window of a list response.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// NewPagination computes the page window for a 1-indexed page of the given
// size over total records.
func NewPagination(page, size int, total int64) Pagination {
	totalPages := int((total + int64(size) - 1) / int64(size))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

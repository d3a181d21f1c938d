package services

import "inkwell/internal/common"

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PageInfo reports the window a listing query actually ran with, after
// defaults were applied, plus the total match count. Handlers build the
// response pagination from it rather than re-deriving the defaults.
type PageInfo struct {
	Page  int
	Size  int
	Total int64
}

// normalizePage applies 1-indexed pagination defaults and validates the
// bounds. Zero values mean "not provided" and take the defaults; anything
// else out of range is a common.ErrorBadRequest.
func normalizePage(page, size int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if size == 0 {
		size = defaultPageSize
	}
	if page < 1 || size < 1 || size > maxPageSize {
		return 0, 0, common.ErrorBadRequest
	}
	return page, size, nil
}

package services

import "math"

// Pagination defaults shared by all composer operations.
const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// NormalizePage clamps page and limit to the platform convention:
// page >= 1, limit in [1, MaxLimit] with DefaultLimit as fallback.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return page, limit
}

// TotalPages returns ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

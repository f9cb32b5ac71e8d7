package services

// Pagination describes one page of a listing.
type Pagination struct {
	Offset     int   `json:"offset"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"total_count"`
	Page       int64 `json:"page"`
	TotalPages int64 `json:"total_pages"`
}

// NewPagination derives page = offset/limit + 1 and total_pages = ceil(total/limit).
func NewPagination(offset, limit int, total int64) Pagination {
	if limit < 1 {
		limit = 1
	}
	return Pagination{
		Offset:     offset,
		Limit:      limit,
		TotalCount: total,
		Page:       int64(offset/limit) + 1,
		TotalPages: calculateTotalPages(total, limit),
	}
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

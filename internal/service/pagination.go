package service

// Page is the envelope for paginated listings.
type Page struct {
	Content    interface{} `json:"content"`
	Page       int         `json:"page"`
	Size       int         `json:"size"`
	TotalPages int         `json:"totalPages"`
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// normalizePaging clamps page and size to sane bounds.
func normalizePaging(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

func totalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

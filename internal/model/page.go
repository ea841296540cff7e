package model

// Page is one slice of a sorted, paginated listing. Page numbers start at 0.
type Page[T any] struct {
	Content       []T    `json:"content"`
	Page          int    `json:"page"`
	Size          int    `json:"size"`
	TotalElements int64  `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
	Sort          string `json:"sort"`
	Direction     string `json:"direction"`
}

// NewPage computes TotalPages from the total and page size.
func NewPage[T any](content []T, page, size int, total int64, sort, direction string) *Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return &Page[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		Sort:          sort,
		Direction:     direction,
	}
}

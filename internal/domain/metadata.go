package domain

type PageMetadata struct {
	PageNumber    int
	PageSize      int
	TotalElements int
	TotalPages    int
	IsLast        bool
}

func NewPageMetadata(totalElements, page, pageSize int) *PageMetadata {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalElements + pageSize - 1) / pageSize
	}

	return &PageMetadata{
		PageNumber:    page,
		PageSize:      pageSize,
		TotalElements: totalElements,
		TotalPages:    totalPages,
		IsLast:        page == totalPages-1,
	}
}

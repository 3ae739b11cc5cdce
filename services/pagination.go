package services

import "socialnet/models"

// NewPagination строго валидирует параметры страницы. Дефолты (page=1,
// page_size=5) подставляет вызывающая сторона для отсутствующих значений,
// здесь ноль и отрицательные числа - всегда ошибка.
func NewPagination(page, perPage int) (models.Pagination, error) {
	if page <= 0 || perPage <= 0 {
		return models.Pagination{}, ErrInvalidPagination
	}
	return models.Pagination{Page: page, PerPage: perPage}, nil
}

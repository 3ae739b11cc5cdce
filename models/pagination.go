package models

// Pagination - проверенные параметры страницы. Конструируется один раз
// на границе через services.NewPagination, дальше передается по значению.
type Pagination struct {
	Page    int
	PerPage int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p Pagination) Limit() int {
	return p.PerPage
}

package models

import (
	"math"
	"strings"
)

// SortDirection задаёт направление сортировки.
type SortDirection string

const (
	// SortAsc — сортировка по возрастанию.
	SortAsc SortDirection = "asc"
	// SortDesc — сортировка по убыванию.
	SortDesc SortDirection = "desc"
)

const (
	// DefaultPageSize — размер страницы, если он не указан в запросе.
	DefaultPageSize = 10
	// DefaultSortField — поле сортировки по умолчанию.
	DefaultSortField = "id"
	// MaxPageSize — наибольший допустимый размер страницы.
	MaxPageSize = 2000
)

// sortColumns сопоставляет имена полей API с колонками таблицы users.
var sortColumns = map[string]string{
	"id":          "id",
	"username":    "username",
	"email":       "email",
	"fullName":    "full_name",
	"phoneNumber": "phone_number",
	"active":      "active",
}

// ParseSortDirection возвращает SortDesc только для "desc" без учёта регистра,
// во всех остальных случаях SortAsc.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// SortColumn возвращает колонку таблицы для поля сортировки.
func SortColumn(field string) (string, bool) {
	col, ok := sortColumns[field]
	return col, ok
}

// PageRequest описывает запрошенную страницу.
type PageRequest struct {
	Page      int
	Size      int
	SortField string
	Direction SortDirection
}

// Validate проверяет параметры пагинации и сортировки.
func (p PageRequest) Validate() error {
	if p.Page < 0 {
		return InvalidInput("Page index must not be less than zero")
	}
	if p.Size < 1 {
		return InvalidInput("Page size must not be less than one")
	}
	if p.Size > MaxPageSize {
		return InvalidInput("Page size must not be greater than %d", MaxPageSize)
	}
	if _, ok := SortColumn(p.SortField); !ok {
		return InvalidInput("Unknown sort field: %s", p.SortField)
	}
	return nil
}

// Offset возвращает смещение первой записи страницы.
// При переполнении int64 возвращается math.MaxInt64: такая страница всегда пуста.
func (p PageRequest) Offset() int64 {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}
	if int64(p.Page) > math.MaxInt64/int64(p.Size) {
		return math.MaxInt64
	}
	return int64(p.Page) * int64(p.Size)
}

// Page — страница пользователей вместе с метаданными пагинации.
type Page struct {
	Users       []User `json:"users"`
	CurrentPage int    `json:"currentPage"`
	TotalItems  int64  `json:"totalItems"`
	TotalPages  int    `json:"totalPages"`
	HasNext     bool   `json:"hasNext"`
	HasPrevious bool   `json:"hasPrevious"`
}

// NewPage собирает страницу из найденных записей и общего количества.
func NewPage(users []User, req PageRequest, total int64) Page {
	if users == nil {
		users = []User{}
	}
	var totalPages int64
	if req.Size > 0 && total > 0 {
		size := int64(req.Size)
		totalPages = total / size
		if total%size != 0 {
			totalPages++
		}
	}
	return Page{
		Users:       users,
		CurrentPage: req.Page,
		TotalItems:  total,
		TotalPages:  int(totalPages),
		HasNext:     int64(req.Page) < totalPages-1,
		HasPrevious: req.Page > 0,
	}
}

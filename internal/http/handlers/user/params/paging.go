// Package params разбирает параметры запроса к ресурсу пользователей:
// идентификатор из пути, пагинацию и сортировку из строки запроса.
package params

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/user-api/internal/models"
)

// Page возвращает PageRequest из параметров page (по умолчанию 0), size (10)
// и sort в формате "поле,направление" (по умолчанию "id,asc").
// Некорректные значения возвращают ошибку вида models.ErrInvalidInput.
func Page(r *http.Request) (models.PageRequest, error) {
	q := r.URL.Query()
	req := models.PageRequest{
		Page:      0,
		Size:      models.DefaultPageSize,
		SortField: models.DefaultSortField,
		Direction: models.SortAsc,
	}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return req, models.InvalidInput("Invalid page parameter: %s", v)
		}
		req.Page = page
	}
	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return req, models.InvalidInput("Invalid size parameter: %s", v)
		}
		req.Size = size
	}

	// sort может прийти одним значением "field,dir" или двумя: sort=field&sort=dir.
	if parts := sortParts(q["sort"]); len(parts) > 0 {
		if parts[0] != "" {
			req.SortField = parts[0]
		}
		if len(parts) > 1 {
			req.Direction = models.ParseSortDirection(parts[1])
		}
	}

	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

func sortParts(values []string) []string {
	var parts []string
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return parts
}

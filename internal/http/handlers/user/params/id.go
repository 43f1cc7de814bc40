package params

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/user-api/internal/models"
)

// ID возвращает идентификатор пользователя из параметра пути {id}.
func ID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, models.InvalidInput("Invalid user ID: %s", raw)
	}
	return id, nil
}

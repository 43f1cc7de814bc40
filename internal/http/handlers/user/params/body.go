package params

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/user-api/internal/http/response"
	"github.com/magabrotheeeer/user-api/internal/models"
)

var validate = validator.New()

// User декодирует тело запроса в пользователя и проверяет обязательные поля.
// Отсутствующее поле active трактуется как true.
func User(r *http.Request) (models.User, error) {
	var req models.UserRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		return models.User{}, models.InvalidInput("Invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		var validateErr validator.ValidationErrors
		if errors.As(err, &validateErr) {
			return models.User{}, models.InvalidInput("%s", response.ValidationError(validateErr).Error)
		}
		return models.User{}, models.InvalidInput("Invalid request")
	}
	return req.ToUser(), nil
}

package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"api/internal/helpers"

	"github.com/go-playground/validator/v10"
)

// ValidatedBodyKey carries the decoded and validated request body.
type ValidatedBodyKey struct{}

var validate = validator.New()

// Validate decodes the JSON body into T, validates its tags, and stores it
// in the request context for the handler layer.
func Validate[T any](next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body T

		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&body); err != nil {
			helpers.RespondWithError(w, 400, []string{"BAD_REQUEST"})
			return
		}

		if err := validate.Struct(body); err != nil {
			var fields []string
			var validationErrors validator.ValidationErrors
			if errors.As(err, &validationErrors) {
				for _, fieldErr := range validationErrors {
					fields = append(fields, "INVALID_"+strings.ToUpper(fieldErr.Field()))
				}
			} else {
				fields = []string{"BAD_REQUEST"}
			}
			helpers.RespondWithError(w, 400, fields)
			return
		}

		ctx := context.WithValue(r.Context(), ValidatedBodyKey{}, body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

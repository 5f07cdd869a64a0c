package handlers

import (
	"errors"
	"fmt"
	"net/http"

	apierrors "api/internal/errors"
	"api/internal/helpers"
	"api/internal/middlewares"
	"api/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service functions receive a request-scoped logger, the caller's claims,
// the uuid path parameters (id0, id1, ...) in order, and, for body
// handlers, the validated request body.

type GetOneFunc[T any] func(*zap.Logger, models.UserClaims, uuid.UUIDs) (T, error)
type CreateFunc[B any, T any] func(*zap.Logger, models.UserClaims, uuid.UUIDs, B) (T, error)
type BodyFunc[B any] func(*zap.Logger, models.UserClaims, uuid.UUIDs, B) error

func requestContext(r *http.Request) (*zap.Logger, models.UserClaims, uuid.UUIDs, error) {
	logger := zap.L().With(
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	claims, _ := r.Context().Value(models.UserClaimKey{}).(models.UserClaims)

	var ids uuid.UUIDs
	for i := 0; ; i++ {
		raw := chi.URLParam(r, fmt.Sprintf("id%d", i))
		if raw == "" {
			break
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return logger, claims, nil, apierrors.NewAPIError(400, "BAD_REQUEST")
		}
		ids = append(ids, id)
	}
	return logger, claims, ids, nil
}

func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		messages := append([]string{apiErr.Message}, apiErr.Details...)
		helpers.RespondWithError(w, apiErr.Code, messages)
		return
	}
	logger.Error("Unhandled service error", zap.Error(err))
	helpers.RespondWithError(w, 500, []string{"INTERNAL_SERVER_ERROR"})
}

// GetOneHandler wraps a read operation; responds 200 with the result.
func GetOneHandler[T any](fn GetOneFunc[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger, claims, ids, err := requestContext(r)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		result, err := fn(logger, claims, ids)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		helpers.RespondWithJSON(w, 200, result)
	}
}

// CreateHandler wraps an operation with a body and a result; responds 200.
func CreateHandler[B any, T any](fn CreateFunc[B, T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger, claims, ids, err := requestContext(r)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		body, ok := r.Context().Value(middlewares.ValidatedBodyKey{}).(B)
		if !ok {
			writeError(w, logger, apierrors.NewAPIError(400, "BAD_REQUEST"))
			return
		}

		result, err := fn(logger, claims, ids, body)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		helpers.RespondWithJSON(w, 200, result)
	}
}

// BodyHandler wraps an operation with a body and no result; responds 204.
func BodyHandler[B any](fn BodyFunc[B]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger, claims, ids, err := requestContext(r)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		body, ok := r.Context().Value(middlewares.ValidatedBodyKey{}).(B)
		if !ok {
			writeError(w, logger, apierrors.NewAPIError(400, "BAD_REQUEST"))
			return
		}

		if err := fn(logger, claims, ids, body); err != nil {
			writeError(w, logger, err)
			return
		}
		helpers.RespondWithJSON(w, 204, nil)
	}
}

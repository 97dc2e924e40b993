package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/marketplace-pricer/internal/ratetable"
	"github.com/anyulbade/marketplace-pricer/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func MapError(err error) (int, ErrorResponse) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ve.Error()}
	}

	switch {
	case errors.Is(err, ratetable.ErrUnknownCategory), errors.Is(err, ratetable.ErrUnknownTier):
		return http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: err.Error()}
	case errors.Is(err, ratetable.ErrMissingRate):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: "no commission rate configured", Details: err.Error()}
	case errors.Is(err, pgx.ErrNoRows):
		return http.StatusNotFound, ErrorResponse{Error: "resource not found"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorResponse{Error: "request timed out"}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23514": // check_violation
			return http.StatusBadRequest, ErrorResponse{
				Error:   "constraint violation",
				Details: pgErr.Detail,
			}
		}
	}

	log.Error().Err(err).Msg("unhandled error")
	return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err
			status, resp := MapError(err)
			c.JSON(status, resp)
		}
	}
}

package middleware

import (
	"net/http"

	"school-library-backend/internal/shared/apperr"
	"school-library-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("error", err).
					Msg("Panic recovered")

				response.ErrorResponse(c, http.StatusInternalServerError, apperr.CodeInternal, "Internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}

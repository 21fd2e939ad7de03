package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"videoflix/repository"
)

const principalKey = "principal"

// requestLogger puts a request scoped logger into the request context and
// logs one line per request.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLogger := logger.With().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Logger()
		c.Request = c.Request.WithContext(reqLogger.WithContext(c.Request.Context()))

		c.Next()

		reqLogger.Info().
			Int("status", c.Writer.Status()).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// authenticate resolves "Authorization: Token <key>" to a user id. Requests
// without the header continue anonymously; an unknown token is rejected.
func authenticate(tokens repository.TokenRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		scheme, key, ok := strings.Cut(header, " ")
		key = strings.TrimSpace(key)
		if !ok || !strings.EqualFold(scheme, "Token") || key == "" {
			abortDetail(c, http.StatusForbidden, "Invalid token header.")
			return
		}

		token, err := tokens.FindToken(c.Request.Context(), key)
		if errors.Is(err, repository.ErrNotFound) {
			abortDetail(c, http.StatusForbidden, "Invalid token.")
			return
		}
		if err != nil {
			writeError(c, err)
			return
		}

		logger := zerolog.Ctx(c.Request.Context()).With().Uint("user_id", token.UserID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Set(principalKey, token.UserID)
		c.Next()
	}
}

func requireAuth(c *gin.Context) {
	if _, ok := principal(c); !ok {
		abortDetail(c, http.StatusForbidden, "Authentication credentials were not provided.")
		return
	}
	c.Next()
}

func principal(c *gin.Context) (uint, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

package middleware

import (
	appErrors "github.com/1Zamuken1/GastuApp/internal/errors"
	"github.com/1Zamuken1/GastuApp/internal/pkg"

	"github.com/gin-gonic/gin"
)

const (
	UserIDHeader  = "X-User-Id"
	UserIDContext = "user_id"
)

// RequireOwner lê o dono da requisição do cabeçalho X-User-Id, preenchido
// pelo gateway de autenticação, e o guarda no contexto como string.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			abortWithError(c, appErrors.ErrUnauthorized)
			return
		}

		id, err := pkg.ParseULID(raw)
		if err != nil {
			abortWithError(c, appErrors.ErrUnauthorized.WithError(err))
			return
		}

		c.Set(UserIDContext, id.String())
		c.Next()
	}
}

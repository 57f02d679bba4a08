package middleware

import (
	"context"
	"net/http"

	appErrors "github.com/1Zamuken1/GastuApp/internal/errors"
	"github.com/1Zamuken1/GastuApp/internal/logger"

	"github.com/gin-gonic/gin"
)

type GoalCounter interface {
	CountGoals(ctx context.Context, ownerID string) (int64, error)
}

// LimitGoals barra a criação de metas quando o dono já tem max metas.
// max igual a 0 desliga o limite.
func LimitGoals(counter GoalCounter, max int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if max <= 0 {
			c.Next()
			return
		}

		ownerID := c.GetString(UserIDContext)
		if ownerID == "" {
			c.Next()
			return
		}

		count, err := counter.CountGoals(c.Request.Context(), ownerID)
		if err != nil {
			// Falha na contagem não bloqueia a requisição.
			logger.Warn().Err(err).Str("user_id", ownerID).Msg("Falha ao contar metas do usuário")
			c.Next()
			return
		}

		if int(count) >= max {
			appErr := appErrors.WrapError(nil, "GOAL_LIMIT_REACHED",
				"Limite de metas de economia atingido", http.StatusForbidden)
			appErr.Details = map[string]interface{}{
				"current": count,
				"limit":   max,
			}
			abortWithError(c, appErr)
			return
		}

		c.Next()
	}
}

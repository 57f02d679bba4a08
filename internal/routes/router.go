package routes

import (
	"net/http"
	"time"

	"github.com/1Zamuken1/GastuApp/internal/contracts"
	"github.com/1Zamuken1/GastuApp/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Register monta as rotas da API em router. goalLimit protege apenas a
// criação de metas.
func Register(router *gin.Engine, h *Handler, limiter *middleware.RateLimiter, goalLimit gin.HandlerFunc) {
	router.GET("/health", Health)

	api := router.Group("/api")
	api.Use(middleware.RequireOwner())
	api.Use(middleware.RateLimit(limiter))
	{
		goals := api.Group("/savings")
		{
			goals.POST("", goalLimit, h.CreateSavingsGoal)
			goals.GET("", h.ListSavingsGoals)
			goals.GET("/search", h.SearchSavingsGoals)
			goals.GET("/:id", h.GetSavingsGoal)
			goals.GET("/:id/progress", h.GetSavingsGoalProgress)
			goals.PATCH("/:id", h.UpdateSavingsGoal)
			goals.DELETE("/:id", h.DeleteSavingsGoal)
			goals.GET("/:id/installments", h.ListSavingsInstallments)
			goals.GET("/:id/installments/next", h.GetNextPayableInstallment)
			goals.GET("/:id/installments/:installmentId", h.GetSavingsInstallment)
			goals.POST("/:id/contributions", h.ContributeToSavingsGoal)
			goals.POST("/:id/installments/:installmentId/contributions", h.ContributeToSavingsInstallment)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", h.ListCategories)
			categories.POST("", h.CreateCategory)
		}
	}
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, contracts.HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

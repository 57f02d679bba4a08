package fx

import (
	"context"

	"github.com/1Zamuken1/GastuApp/config"
	"github.com/1Zamuken1/GastuApp/internal/infrastructure"
	"github.com/1Zamuken1/GastuApp/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

type goalLimitHandler gin.HandlerFunc

var MiddlewareModule = fx.Module("middleware",
	fx.Provide(
		newRateLimiter,
		newGoalLimit,
	),
)

func newRateLimiter(lc fx.Lifecycle, cfg *config.Config) *middleware.RateLimiter {
	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			limiter.Stop()
			return nil
		},
	})
	return limiter
}

func newGoalLimit(cfg *config.Config, counter *infrastructure.ResourceCounter) goalLimitHandler {
	return goalLimitHandler(middleware.LimitGoals(counter, cfg.Savings.MaxGoalsPerUser))
}

package fx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/1Zamuken1/GastuApp/config"
	"github.com/1Zamuken1/GastuApp/internal/logger"
	"github.com/1Zamuken1/GastuApp/internal/middleware"
	"github.com/1Zamuken1/GastuApp/internal/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// ServerModule fornece a configuração do servidor HTTP
var ServerModule = fx.Module("server",
	fx.Provide(
		newRouter,
	),
	fx.Invoke(
		startServer,
	),
)

func newRouter(cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	return router
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	router *gin.Engine,
	handler *routes.Handler,
	limiter *middleware.RateLimiter,
	goalLimit goalLimitHandler,
) {
	routes.Register(router, handler, limiter, gin.HandlerFunc(goalLimit))

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				logger.Error().Err(err).Str("address", server.Addr).Msg("Falha ao iniciar servidor")
				return err
			}
			logger.Info().
				Str("address", server.Addr).
				Str("environment", cfg.App.Environment).
				Msg("Servidor iniciando")

			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal().Err(err).Msg("Servidor encerrado com erro")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Servidor parando...")
			return server.Shutdown(ctx)
		},
	})
}

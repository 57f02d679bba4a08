package fx

import (
	"log"

	"github.com/1Zamuken1/GastuApp/config"
	"github.com/1Zamuken1/GastuApp/internal/logger"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		loadConfig,
	),
	fx.Invoke(
		initLogger,
	),
)

// loadConfig carrega os arquivos .env antes de ler o ambiente. Variáveis já
// definidas no processo têm precedência.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: não foi possível carregar .env do diretório atual: %v", err)
	}
	if err := godotenv.Load("../../.env"); err != nil {
		log.Printf("Aviso: não foi possível carregar ../../.env: %v", err)
	}
	return config.Load()
}

func initLogger(cfg *config.Config) {
	logger.Init(cfg)
}

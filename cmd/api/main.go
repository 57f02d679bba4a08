package main

import (
	appfx "github.com/1Zamuken1/GastuApp/internal/fx"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		appfx.AppModule,
	).Run()
}

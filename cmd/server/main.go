package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/eclinic/internal/buildinfo"
	"github.com/dmitrijs2005/eclinic/internal/logging"
	"github.com/dmitrijs2005/eclinic/internal/server"
	"github.com/dmitrijs2005/eclinic/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}

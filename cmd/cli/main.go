package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/credkeeper/internal/app"
	"github.com/dmitrijs2005/credkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/credkeeper/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	c, err := app.NewCLI(ctx, cfg, os.Stdin, os.Stdout)

	if err != nil {
		log.Fatalf("%v", err)
	}
	defer c.Close()

	if err := c.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pointsbot/cmd"

	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cmd.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.WithError(err).Error("pointsbot failed")
		os.Exit(1)
	}
}

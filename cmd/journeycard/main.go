// Package main renders a journey completion card from the command line.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	journeycardcmd "github.com/asceticjourney/journey/internal/cmd/journeycard"
	"go.uber.org/zap"
)

func main() {
	cfg, err := journeycardcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[JOURNEYCARD] ")

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := journeycardcmd.Run(ctx, cfg, os.Stdout, nil, logger); err != nil {
		log.Fatalf("journeycard: %v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/catering/cmd/utils/internal/commands"
)

const (
	appName    = "catering-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	config, err := apt.LoadConfig("UTILS", os.Args[2:])
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel, _ := config.GetString("log.level")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := os.Args[1]

	switch command {
	case "watch-changes":
		if err := commands.WatchChanges(ctx, config, os.Stdout, logger); err != nil {
			log.Fatalf("Watching changes failed: %v", err)
		}

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - Catering utility commands

Usage:
  %s <command> [options]

Commands:
  watch-changes  Print catering change events published on NATS until interrupted
  version        Print version information
  help           Show this help message

Environment Variables:
  UTILS_NATS_URL    NATS server URL (default: nats://localhost:4222)
  UTILS_LOG_LEVEL   Log level: debug, info, warn, error (default: info)

Examples:
  %s watch-changes
  UTILS_NATS_URL=nats://nats:4222 %s watch-changes

`, appName, appName, appName, appName)
}

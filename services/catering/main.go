package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/middleware"
	"github.com/appetiteclub/catering/pkg"
	"github.com/appetiteclub/catering/services/catering/internal/catering"
)

const (
	appNamespace = "CATERING"
	appName      = "catering"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup with error: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	notifier := catering.NewNotifier()
	registry := catering.NewRegistry(catering.NewIDGenerator(), notifier, logger)
	notifier.Subscribe(catering.NewLogSubscriber(logger))

	var lifecycles []interface{}

	natsEnabled := config.GetStringOrDef("nats.enabled", "false") == "true"
	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	if natsEnabled {
		pub, err := pkg.NewNATSPublisher(natsURL)
		if err != nil {
			log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
		}
		notifier.Subscribe(catering.NewBroadcaster(pub, logger))
		lifecycles = append(lifecycles, apt.LifecycleHooks{
			OnStop: func(context.Context) error {
				return pub.Close()
			},
		})
	}

	capacity, err := strconv.Atoi(config.GetStringOrDef("changes.capacity", "100"))
	if err != nil {
		log.Fatalf("%s(%s) invalid changes.capacity: %v", appName, appVersion, err)
	}

	var feedSub events.Subscriber
	if config.GetStringOrDef("changes.source", "local") == "nats" {
		if !natsEnabled {
			log.Fatalf("%s(%s) changes.source=nats requires nats.enabled=true", appName, appVersion)
		}
		sub, err := pkg.NewNATSSubscriber(natsURL, logger)
		if err != nil {
			log.Fatalf("%s(%s) cannot connect to NATS subscriber: %v", appName, appVersion, err)
		}
		feedSub = sub
	}

	feed := catering.NewChangeFeed(capacity, feedSub, logger)
	if feedSub == nil {
		notifier.Subscribe(feed)
	}
	lifecycles = append(lifecycles, feed)

	hd := catering.HandlerDeps{
		Registry: registry,
		Links:    catering.NewLinks(config.GetStringOrDef("catering.export.base_url", catering.DefaultExportBaseURL)),
		Exporter: catering.NewTextExporter(config.GetStringOrDef("catering.export.dir", catering.DefaultExportDir), logger),
		Feed:     feed,
	}

	handler := catering.NewHandler(hd, config, logger)

	lifecycles = append(lifecycles, apt.LifecycleHooks{
		OnStart: catering.SeedingFunc(registry, config, logger),
	})

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true,
	})
	stack = append(stack, middleware.InternalOnly())

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", handler),
		apt.WithLifecycle(lifecycles...),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		log.Fatalf("%s(%s) stopped with error: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"

	"github.com/appetiteclub/bistro/internal/cart"
	"github.com/appetiteclub/bistro/internal/menu"
	"github.com/appetiteclub/bistro/internal/order"
)

const (
	appNamespace = "BISTRO"
	appName      = "bistro"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
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

	seedCtx, cancelSeeds := context.WithCancel(ctx)
	defer cancelSeeds()

	catalog := menu.DefaultCatalog()
	store := order.NewStore(logger)
	aggregator := order.NewAggregator(store)
	ids := order.NewIDSource()

	var scheduler *order.Scheduler
	if config.GetStringOrDef("simulation.enabled", "true") == "true" {
		scheduler = order.NewScheduler(store, order.SchedulerOptions{
			MinStepDelay: durationSetting(config, "simulation.step.min", order.DefaultMinStepDelay),
			MaxStepDelay: durationSetting(config, "simulation.step.max", order.DefaultMaxStepDelay),
		}, logger)
	}

	sessionCart := cart.New(ids, cart.Options{
		CheckoutLatency: durationSetting(config, "checkout.latency", time.Second),
	})

	menuHandler := menu.NewHandler(catalog, config, logger)

	cartHandler := cart.NewHandler(cart.HandlerDeps{
		Cart:      sessionCart,
		Catalog:   catalog,
		Store:     store,
		Scheduler: scheduler,
	}, config, logger)

	orderHandler := order.NewHandler(order.HandlerDeps{
		Store:      store,
		Scheduler:  scheduler,
		Aggregator: aggregator,
	}, config, logger)

	var lifecycles []interface{}

	if config.GetStringOrDef("seeding.demo", "true") == "true" {
		logger.Info("Demo seeding enabled")
		seed := order.DemoSeedingFunc(seedCtx, store, catalog, logger)
		lifecycles = append(lifecycles, apt.LifecycleHooks{
			OnStart: func(c context.Context) error {
				if err := seed(c); err != nil {
					return err
				}
				if scheduler == nil {
					return nil
				}
				// Seeded orders join the progression like checked-out ones
				for _, o := range store.ListActive() {
					if err := scheduler.Track(o.ID); err != nil {
						logger.Errorf("cannot track order %s: %v", o.ID, err)
					}
				}
				return nil
			},
			OnStop: func(context.Context) error {
				cancelSeeds()
				return nil
			},
		})
	}

	if scheduler != nil {
		lifecycles = append(lifecycles, apt.LifecycleHooks{
			OnStop: func(context.Context) error {
				scheduler.Stop()
				return nil
			},
		})
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger: logger,
	})

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", menuHandler, cartHandler, orderHandler),
		apt.WithLifecycle(lifecycles...),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}

func durationSetting(config *apt.Config, key string, def time.Duration) time.Duration {
	raw := config.GetStringOrDef(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

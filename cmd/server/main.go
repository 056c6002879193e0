package main

import (
	"context"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evolvinutri/backend/internal/server"
	"github.com/evolvinutri/backend/modules"
	"github.com/evolvinutri/backend/modules/dietplan"
	"github.com/evolvinutri/backend/pkg/application"
	"github.com/evolvinutri/backend/pkg/composables"
	"github.com/evolvinutri/backend/pkg/configuration"
	"github.com/evolvinutri/backend/pkg/eventbus"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})

	dietplanModule := dietplan.NewModule()
	if err := modules.Load(app, dietplanModule); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}
	if err := dietplanModule.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	// Fulfillment runs detached from request handling; the worker context
	// carries the pool and logger the repositories and services expect.
	workerCtx := composables.WithPool(context.Background(), pool)
	workerCtx = composables.WithLogger(workerCtx, logger.WithField("component", "fulfillment"))
	go func() {
		if err := dietplanModule.Dispatcher().Run(workerCtx); err != nil && err != context.Canceled {
			logger.WithError(err).Error("fulfillment dispatcher stopped")
		}
	}()

	options := &server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	}
	serverInstance, err := server.Default(options)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	log.Printf("Listening on: %s\n", conf.Origin)
	if err := serverInstance.Start(conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

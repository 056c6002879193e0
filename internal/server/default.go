package server

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/evolvinutri/backend/pkg/application"
	"github.com/evolvinutri/backend/pkg/configuration"
	"github.com/evolvinutri/backend/pkg/middleware"
	"github.com/evolvinutri/backend/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{options.Configuration.FrontendURL},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", options.Configuration.RequestIDHeader},
	})

	app.RegisterMiddleware(
		middleware.WithLogger(options.Logger),
		middleware.WithPool(options.Pool),
		corsHandler.Handler,
	)

	return server.NewHTTPServer(app), nil
}

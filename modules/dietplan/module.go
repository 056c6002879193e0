package dietplan

import (
	"context"
	_ "embed"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evolvinutri/backend/modules/dietplan/handlers"
	"github.com/evolvinutri/backend/modules/dietplan/infrastructure/ai"
	"github.com/evolvinutri/backend/modules/dietplan/infrastructure/delivery"
	"github.com/evolvinutri/backend/modules/dietplan/infrastructure/payments"
	"github.com/evolvinutri/backend/modules/dietplan/infrastructure/persistence"
	"github.com/evolvinutri/backend/modules/dietplan/presentation/controllers"
	"github.com/evolvinutri/backend/modules/dietplan/services"
	"github.com/evolvinutri/backend/pkg/application"
	"github.com/evolvinutri/backend/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/dietplan-schema.sql
var schemaSQL string

func NewModule() *Module {
	return &Module{}
}

type Module struct {
	dispatcher *services.FulfillmentDispatcher
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	repo := persistence.NewDietRequestRepository()
	provider := payments.NewMercadoPagoClient(conf.MercadoPago)
	generator := ai.NewOpenAIPlanGenerator(conf.OpenAI)
	whatsapp := delivery.NewZAPIClient(conf.ZAPI)
	email := delivery.NewResendClient(conf.Resend)

	fulfillmentService := services.NewFulfillmentService(services.FulfillmentServiceConfig{
		Repo:       repo,
		Payments:   provider,
		Generator:  generator,
		Whatsapp:   whatsapp,
		Email:      email,
		Publisher:  app.EventPublisher(),
		PlanFrom:   conf.Resend.PlanFrom,
		AlertFrom:  conf.Resend.AlertFrom,
		AdminEmail: conf.Resend.AdminEmail,
	})
	checkoutService := services.NewCheckoutService(services.CheckoutServiceConfig{
		Repo:            repo,
		Payments:        provider,
		Publisher:       app.EventPublisher(),
		NotificationURL: conf.WebhookURL(),
		FrontendURL:     conf.FrontendURL,
	})
	app.RegisterServices(fulfillmentService, checkoutService)

	m.dispatcher = services.NewFulfillmentDispatcher(
		fulfillmentService,
		conf.FulfillmentQueueSize,
		app.Logger(),
	)

	app.RegisterControllers(
		controllers.NewWebhookController(m.dispatcher),
		controllers.NewCheckoutController(app),
		controllers.NewHealthController(),
	)

	handlers.RegisterFulfillmentEventHandlers(app)
	return nil
}

func (m *Module) Name() string {
	return "dietplan"
}

// Dispatcher exposes the background worker so main can run it with the
// process-lifetime context.
func (m *Module) Dispatcher() *services.FulfillmentDispatcher {
	return m.dispatcher
}

// EnsureSchema applies the module's embedded schema. The statements are
// idempotent, so running on every start is safe.
func (m *Module) EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}

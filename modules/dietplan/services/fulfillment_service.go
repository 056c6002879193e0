package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/evolvinutri/backend/modules/dietplan/domain/entities/dietrequest"
	"github.com/evolvinutri/backend/modules/dietplan/infrastructure/delivery"
	"github.com/evolvinutri/backend/modules/dietplan/infrastructure/payments"
	"github.com/evolvinutri/backend/pkg/composables"
	"github.com/evolvinutri/backend/pkg/eventbus"
)

const notificationTypePayment = "payment"

const planEmailSubject = "Seu Plano Alimentar Personalizado está Pronto! 🥗"

type PaymentNotificationData struct {
	ID string `json:"id"`
}

// PaymentNotification is the provider's webhook payload. Anything beyond the
// notification kind and the payment id is ignored; the payment lookup is the
// authoritative source of state.
type PaymentNotification struct {
	Type string                  `json:"type"`
	Data PaymentNotificationData `json:"data"`
}

type FulfillmentServiceConfig struct {
	Repo      dietrequest.Repository
	Payments  PaymentProvider
	Generator PlanGenerator
	Whatsapp  MessageSender
	Email     EmailSender
	Publisher eventbus.EventBus

	PlanFrom   string
	AlertFrom  string
	AdminEmail string
}

// FulfillmentService is the sole entry point for inbound payment
// notifications and the only writer of a diet request after checkout.
type FulfillmentService struct {
	repo      dietrequest.Repository
	payments  PaymentProvider
	generator PlanGenerator
	whatsapp  MessageSender
	email     EmailSender
	publisher eventbus.EventBus

	planFrom   string
	alertFrom  string
	adminEmail string
}

func NewFulfillmentService(cfg FulfillmentServiceConfig) *FulfillmentService {
	return &FulfillmentService{
		repo:       cfg.Repo,
		payments:   cfg.Payments,
		generator:  cfg.Generator,
		whatsapp:   cfg.Whatsapp,
		email:      cfg.Email,
		publisher:  cfg.Publisher,
		planFrom:   cfg.PlanFrom,
		alertFrom:  cfg.AlertFrom,
		adminEmail: cfg.AdminEmail,
	}
}

// ProcessPaymentNotification drives one notification through the request
// lifecycle. It never returns an error: the webhook boundary always
// acknowledges the provider, and failures end up as the record's terminal
// `error` status plus structured logs.
func (s *FulfillmentService) ProcessPaymentNotification(ctx context.Context, notification PaymentNotification) {
	logger := composables.UseLogger(ctx)

	if notification.Type != notificationTypePayment || notification.Data.ID == "" {
		logger.Debug("Ignoring webhook: not a payment notification")
		return
	}
	logger = logger.WithField("payment_id", notification.Data.ID)

	info, err := s.payments.LookupPayment(ctx, notification.Data.ID)
	if err != nil {
		logger.WithError(err).Error("Failed to look up payment")
		return
	}

	if info.Status != payments.StatusApproved {
		logger.WithField("payment_status", info.Status).Info("Payment not approved yet, ignoring notification")
		return
	}

	requestID, err := uuid.Parse(info.ExternalReference)
	if err != nil {
		logger.WithError(err).WithField("external_reference", info.ExternalReference).
			Error("Approved payment carries an invalid external reference")
		return
	}
	logger = logger.WithField("request_id", requestID)

	record, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		// An approved payment with no matching record is a consistency
		// fault, not a retryable condition.
		logger.WithError(err).Error("No diet request found for approved payment")
		return
	}

	moved, err := s.repo.TransitionStatus(ctx, requestID, dietrequest.StatusPendingPayment, dietrequest.StatusPaymentReceived)
	if err != nil {
		logger.WithError(err).Error("Failed to mark payment as received")
		return
	}
	if !moved {
		logger.WithField("status", record.Status).Info("Request already processed, ignoring duplicate notification")
		return
	}
	record.Status = dietrequest.StatusPaymentReceived
	logger.Info("Payment approved, starting fulfillment")

	switch record.PlanTier {
	case dietrequest.TierBasic:
		s.fulfillBasicPlan(ctx, logger, record)
	case dietrequest.TierPremium:
		s.fulfillPremiumPlan(ctx, logger, record)
	default:
		s.failRecord(ctx, logger, record, "dispatch", fmt.Errorf("%w: %q", dietrequest.ErrInvalidTier, record.PlanTier))
	}
}

func (s *FulfillmentService) fulfillBasicPlan(ctx context.Context, logger *logrus.Entry, record *dietrequest.DietRequest) {
	if err := s.persistTransition(ctx, record, dietrequest.StatusGeneratingPlan); err != nil {
		s.failRecord(ctx, logger, record, "start_generation", err)
		return
	}

	plan, err := s.generator.Generate(ctx, record.IntakeData)
	if err != nil {
		s.failRecord(ctx, logger, record, "generate_plan", err)
		return
	}

	record.GeneratedPlan = &plan
	if err := s.repo.Update(ctx, record); err != nil {
		s.failRecord(ctx, logger, record, "persist_plan", err)
		return
	}

	// Both channels must succeed before the record is terminal; a failure on
	// either marks the whole delivery as failed.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.whatsapp.Send(gctx, record.ClientWhatsapp, plan)
	})
	g.Go(func() error {
		return s.email.Send(gctx, delivery.Email{
			From:    s.planFrom,
			To:      record.ClientEmail,
			Subject: planEmailSubject,
			HTML:    planEmailHTML(record.ClientName, plan),
		})
	})
	if err := g.Wait(); err != nil {
		s.failRecord(ctx, logger, record, "deliver_plan", err)
		return
	}

	if err := s.persistTransition(ctx, record, dietrequest.StatusPlanSent); err != nil {
		s.failRecord(ctx, logger, record, "finish_basic", err)
		return
	}
	s.publish(dietrequest.PlanSentEvent{RequestID: record.ID})
	logger.Info("Basic plan generated and delivered")
}

func (s *FulfillmentService) fulfillPremiumPlan(ctx context.Context, logger *logrus.Entry, record *dietrequest.DietRequest) {
	if err := s.email.Send(ctx, delivery.Email{
		From:    s.alertFrom,
		To:      s.adminEmail,
		Subject: "🚀 Novo Cliente Premium - " + record.ClientName,
		HTML:    adminNotificationHTML(record.IntakeData),
	}); err != nil {
		s.failRecord(ctx, logger, record, "notify_admin", err)
		return
	}

	if err := s.whatsapp.Send(ctx, record.ClientWhatsapp, premiumConfirmationMessage(record.ClientName)); err != nil {
		s.failRecord(ctx, logger, record, "confirm_client", err)
		return
	}

	if err := s.persistTransition(ctx, record, dietrequest.StatusAwaitingManualReview); err != nil {
		s.failRecord(ctx, logger, record, "finish_premium", err)
		return
	}
	s.publish(dietrequest.ManualReviewRequestedEvent{RequestID: record.ID})
	logger.Info("Premium request escalated for manual review")
}

func (s *FulfillmentService) persistTransition(ctx context.Context, record *dietrequest.DietRequest, next dietrequest.Status) error {
	if err := record.Transition(next); err != nil {
		return err
	}
	return s.repo.Update(ctx, record)
}

// failRecord is the single terminal-error path: the status field is the
// durable failure log, the step only goes to the structured log.
func (s *FulfillmentService) failRecord(ctx context.Context, logger *logrus.Entry, record *dietrequest.DietRequest, step string, cause error) {
	logger.WithError(cause).WithFields(logrus.Fields{
		"step": step,
		"tier": record.PlanTier,
	}).Error("Fulfillment failed")

	record.Status = dietrequest.StatusError
	if err := s.repo.Update(ctx, record); err != nil {
		logger.WithError(err).Error("Failed to persist error status")
	}
	s.publish(dietrequest.FulfillmentFailedEvent{RequestID: record.ID, Step: step})
}

func (s *FulfillmentService) publish(event interface{}) {
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}

func planEmailHTML(name, plan string) string {
	return fmt.Sprintf(
		`<h1>Olá, %s!</h1><p>Aqui está o seu plano gerado por nossa IA. Bons treinos e boa dieta!</p><div style="white-space: pre-wrap; background-color: #f4f4f4; padding: 15px; border-radius: 5px;">%s</div>`,
		name, plan,
	)
}

func adminNotificationHTML(intake json.RawMessage) string {
	pretty, err := json.MarshalIndent(intake, "", "  ")
	if err != nil {
		pretty = intake
	}
	return fmt.Sprintf(
		`<h1>Novo Cliente Premium</h1><p>Um novo cliente contratou o plano premium. Por favor, analise os dados abaixo e entre em contato:</p><pre style="background-color: #f4f4f4; padding: 15px; border-radius: 5px;">%s</pre>`,
		pretty,
	)
}

func premiumConfirmationMessage(name string) string {
	return fmt.Sprintf(
		"Olá, %s! ✅ Recebemos sua solicitação do Plano Premium. Um de nossos especialistas analisará seu formulário e entrará em contato em até 24h para iniciar sua consultoria personalizada. Bem-vindo(a) à Evolvi Nutri!",
		name,
	)
}

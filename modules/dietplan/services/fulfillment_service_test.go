package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/evolvinutri/backend/modules/dietplan/domain/entities/dietrequest"
	"github.com/evolvinutri/backend/modules/dietplan/infrastructure/delivery"
	"github.com/evolvinutri/backend/modules/dietplan/infrastructure/payments"
)

type mockRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*dietrequest.DietRequest

	getCalls        int
	updateCalls     int
	transitionCalls int
}

func newMockRepo(records ...*dietrequest.DietRequest) *mockRepo {
	m := &mockRepo{records: map[uuid.UUID]*dietrequest.DietRequest{}}
	for _, r := range records {
		clone := *r
		m.records[r.ID] = &clone
	}
	return m
}

func (m *mockRepo) Create(ctx context.Context, r *dietrequest.DietRequest) (*dietrequest.DietRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *r
	if clone.ID == uuid.Nil {
		clone.ID = uuid.New()
	}
	m.records[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*dietrequest.DietRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	r, ok := m.records[id]
	if !ok {
		return nil, dietrequest.ErrNotFound
	}
	clone := *r
	return &clone, nil
}

func (m *mockRepo) Update(ctx context.Context, r *dietrequest.DietRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	stored, ok := m.records[r.ID]
	if !ok {
		return dietrequest.ErrNotFound
	}
	*stored = *r
	return nil
}

func (m *mockRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to dietrequest.Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitionCalls++
	stored, ok := m.records[id]
	if !ok || stored.Status != from {
		return false, nil
	}
	stored.Status = to
	return true, nil
}

func (m *mockRepo) stored(id uuid.UUID) *dietrequest.DietRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[id]
}

type mockPayments struct {
	mu   sync.Mutex
	info payments.PaymentInfo
	err  error

	lookups []string
}

func (m *mockPayments) LookupPayment(ctx context.Context, paymentID string) (payments.PaymentInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = append(m.lookups, paymentID)
	return m.info, m.err
}

func (m *mockPayments) CreatePreference(ctx context.Context, params payments.PreferenceParams) (payments.Checkout, error) {
	return payments.Checkout{}, errors.New("not implemented")
}

type mockGenerator struct {
	plan  string
	err   error
	calls int
}

func (m *mockGenerator) Generate(ctx context.Context, intake json.RawMessage) (string, error) {
	m.calls++
	return m.plan, m.err
}

type mockMessenger struct {
	mu       sync.Mutex
	err      error
	messages []string
	phones   []string
}

func (m *mockMessenger) Send(ctx context.Context, phone, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.phones = append(m.phones, phone)
	m.messages = append(m.messages, message)
	return nil
}

type mockEmailer struct {
	mu     sync.Mutex
	err    error
	emails []delivery.Email
}

func (m *mockEmailer) Send(ctx context.Context, email delivery.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.emails = append(m.emails, email)
	return nil
}

type fixture struct {
	repo      *mockRepo
	payments  *mockPayments
	generator *mockGenerator
	whatsapp  *mockMessenger
	email     *mockEmailer
	svc       *FulfillmentService
}

func newFixture(records ...*dietrequest.DietRequest) *fixture {
	f := &fixture{
		repo:      newMockRepo(records...),
		payments:  &mockPayments{},
		generator: &mockGenerator{plan: "PLAN_TEXT"},
		whatsapp:  &mockMessenger{},
		email:     &mockEmailer{},
	}
	f.svc = NewFulfillmentService(FulfillmentServiceConfig{
		Repo:       f.repo,
		Payments:   f.payments,
		Generator:  f.generator,
		Whatsapp:   f.whatsapp,
		Email:      f.email,
		PlanFrom:   "Evolvi Nutri <contato@evolvinutri.com.br>",
		AlertFrom:  "Alerta de Novo Cliente Premium <alerta@evolvinutri.com.br>",
		AdminEmail: "admin@evolvinutri.com.br",
	})
	return f
}

func pendingRequest(tier dietrequest.PlanTier) *dietrequest.DietRequest {
	r := dietrequest.New(
		"Maria",
		"maria@example.com",
		"11999998888",
		tier,
		json.RawMessage(`{"goal":"cutting","weight":68}`),
	)
	r.ID = uuid.New()
	return r
}

func approvedNotification(paymentID string) PaymentNotification {
	return PaymentNotification{
		Type: notificationTypePayment,
		Data: PaymentNotificationData{ID: paymentID},
	}
}

func TestProcessPaymentNotification_IgnoresNonPaymentKind(t *testing.T) {
	f := newFixture()

	f.svc.ProcessPaymentNotification(context.Background(), PaymentNotification{
		Type: "merchant_order",
		Data: PaymentNotificationData{ID: "9001"},
	})

	require.Empty(t, f.payments.lookups, "payment lookup must not happen")
	require.Zero(t, f.repo.getCalls)
	require.Zero(t, f.repo.updateCalls)
}

func TestProcessPaymentNotification_IgnoresMissingPaymentID(t *testing.T) {
	f := newFixture()

	f.svc.ProcessPaymentNotification(context.Background(), PaymentNotification{Type: notificationTypePayment})

	require.Empty(t, f.payments.lookups)
	require.Zero(t, f.repo.getCalls)
}

func TestProcessPaymentNotification_IgnoresUnapprovedPayment(t *testing.T) {
	record := pendingRequest(dietrequest.TierBasic)
	f := newFixture(record)
	f.payments.info = payments.PaymentInfo{Status: "pending", ExternalReference: record.ID.String()}

	f.svc.ProcessPaymentNotification(context.Background(), approvedNotification("9001"))

	require.Zero(t, f.repo.getCalls, "record must not be loaded for unapproved payments")
	require.Equal(t, dietrequest.StatusPendingPayment, f.repo.stored(record.ID).Status)
}

func TestProcessPaymentNotification_UnknownCorrelationID(t *testing.T) {
	f := newFixture()
	f.payments.info = payments.PaymentInfo{Status: payments.StatusApproved, ExternalReference: uuid.New().String()}

	f.svc.ProcessPaymentNotification(context.Background(), approvedNotification("9001"))

	require.Zero(t, f.repo.updateCalls, "no mutation on consistency fault")
	require.Zero(t, f.generator.calls)
}

func TestProcessPaymentNotification_MalformedCorrelationID(t *testing.T) {
	f := newFixture()
	f.payments.info = payments.PaymentInfo{Status: payments.StatusApproved, ExternalReference: "42-not-a-uuid"}

	f.svc.ProcessPaymentNotification(context.Background(), approvedNotification("9001"))

	require.Zero(t, f.repo.getCalls)
	require.Zero(t, f.repo.updateCalls)
}

func TestProcessPaymentNotification_BasicTierSuccess(t *testing.T) {
	record := pendingRequest(dietrequest.TierBasic)
	f := newFixture(record)
	f.payments.info = payments.PaymentInfo{Status: payments.StatusApproved, ExternalReference: record.ID.String()}
	f.generator.plan = "PLAN_TEXT"

	f.svc.ProcessPaymentNotification(context.Background(), approvedNotification("9001"))

	stored := f.repo.stored(record.ID)
	require.Equal(t, dietrequest.StatusPlanSent, stored.Status)
	require.NotNil(t, stored.GeneratedPlan)
	require.Equal(t, "PLAN_TEXT", *stored.GeneratedPlan)

	require.Equal(t, []string{"11999998888"}, f.whatsapp.phones)
	require.Equal(t, []string{"PLAN_TEXT"}, f.whatsapp.messages)
	require.Len(t, f.email.emails, 1)
	require.Equal(t, "maria@example.com", f.email.emails[0].To)
	require.Equal(t, planEmailSubject, f.email.emails[0].Subject)
	require.Contains(t, f.email.emails[0].HTML, "Olá, Maria!")
	require.Contains(t, f.email.emails[0].HTML, "PLAN_TEXT")
}

func TestProcessPaymentNotification_DuplicateSequential(t *testing.T) {
	record := pendingRequest(dietrequest.TierBasic)
	f := newFixture(record)
	f.payments.info = payments.PaymentInfo{Status: payments.StatusApproved, ExternalReference: record.ID.String()}

	f.svc.ProcessPaymentNotification(context.Background(), approvedNotification("9001"))
	f.svc.ProcessPaymentNotification(context.Background(), approvedNotification("9001"))

	require.Equal(t, 1, f.generator.calls, "fulfillment must run exactly once")
	require.Len(t, f.whatsapp.messages, 1)
	require.Len(t, f.email.emails, 1)
	require.Equal(t, dietrequest.StatusPlanSent, f.repo.stored(record.ID).Status)
}

func TestProcessPaymentNotification_DuplicateConcurrent(t *testing.T) {
	record := pendingRequest(dietrequest.TierBasic)
	f := newFixture(record)
	f.payments.info = payments.PaymentInfo{Status: payments.StatusApproved, ExternalReference: record.ID.String()}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.svc.ProcessPaymentNotification(context.Background(), approvedNotification("9001"))
		}()
	}
	wg.Wait()

	// The conditional update lets exactly one delivery win the race.
	require.Equal(t, 1, f.generator.calls)
	require.Len(t, f.whatsapp.messages, 1)
	require.Equal(t, dietrequest.StatusPlanSent, f.repo.stored(record.ID).Status)
}

func TestProcessPaymentNotification_GeneratorFailure(t *testing.T) {
	record := pendingRequest(dietrequest.TierBasic)
	f := newFixture(record)
	f.payments.info = payments.PaymentInfo{Status: payments.StatusApproved, ExternalReference: record.ID.String()}
	f.generator.err = errors.New("model overloaded")

	f.svc.ProcessPaymentNotification(context.Background(), approvedNotification("9001"))

	stored := f.repo.stored(record.ID)
	require.Equal(t, dietrequest.StatusError, stored.Status)
	require.Nil(t, stored.GeneratedPlan, "plan must stay unset on generation failure")
	require.Empty(t, f.whatsapp.messages, "no delivery after generation failure")
	require.Empty(t, f.email.emails)
}

func TestProcessPaymentNotification_BasicDeliveryFailure(t *testing.T) {
	record := pendingRequest(dietrequest.TierBasic)
	f := newFixture(record)
	f.payments.info = payments.PaymentInfo{Status: payments.StatusApproved, ExternalReference: record.ID.String()}
	f.whatsapp.err = errors.New("instance disconnected")

	f.svc.ProcessPaymentNotification(context.Background(), approvedNotification("9001"))

	stored := f.repo.stored(record.ID)
	require.Equal(t, dietrequest.StatusError, stored.Status)
	// The plan was generated and persisted before delivery failed.
	require.NotNil(t, stored.GeneratedPlan)
}

func TestProcessPaymentNotification_PremiumTierSuccess(t *testing.T) {
	record := pendingRequest(dietrequest.TierPremium)
	f := newFixture(record)
	f.payments.info = payments.PaymentInfo{Status: payments.StatusApproved, ExternalReference: record.ID.String()}

	f.svc.ProcessPaymentNotification(context.Background(), approvedNotification("9001"))

	stored := f.repo.stored(record.ID)
	require.Equal(t, dietrequest.StatusAwaitingManualReview, stored.Status)
	require.Zero(t, f.generator.calls, "premium tier never calls the generator")

	require.Len(t, f.email.emails, 1)
	require.Equal(t, "admin@evolvinutri.com.br", f.email.emails[0].To)
	require.Contains(t, f.email.emails[0].Subject, "Novo Cliente Premium")
	require.Contains(t, f.email.emails[0].HTML, "cutting")

	require.Len(t, f.whatsapp.messages, 1)
	require.Contains(t, f.whatsapp.messages[0], "Olá, Maria!")
	require.Contains(t, f.whatsapp.messages[0], "Plano Premium")
}

func TestProcessPaymentNotification_PremiumAdminEmailFailure(t *testing.T) {
	record := pendingRequest(dietrequest.TierPremium)
	f := newFixture(record)
	f.payments.info = payments.PaymentInfo{Status: payments.StatusApproved, ExternalReference: record.ID.String()}
	f.email.err = errors.New("resend down")

	f.svc.ProcessPaymentNotification(context.Background(), approvedNotification("9001"))

	require.Equal(t, dietrequest.StatusError, f.repo.stored(record.ID).Status)
	require.Empty(t, f.whatsapp.messages, "confirmation must not go out after admin notification fails")
}

func TestProcessPaymentNotification_PaymentLookupFailure(t *testing.T) {
	record := pendingRequest(dietrequest.TierBasic)
	f := newFixture(record)
	f.payments.err = errors.New("gateway timeout")

	f.svc.ProcessPaymentNotification(context.Background(), approvedNotification("9001"))

	require.Equal(t, dietrequest.StatusPendingPayment, f.repo.stored(record.ID).Status, "no mutation when the lookup fails")
}

package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/lcorp/storefront/pkg/errors"
	"github.com/lcorp/storefront/pkg/events"
	"github.com/lcorp/storefront/pkg/logger"
	"github.com/lcorp/storefront/pkg/metrics"
	"github.com/lcorp/storefront/pkg/models"
)

// Submission steps, in order.
const (
	StepCreateOrder     = "create_order"
	StepCreatePayment   = "create_payment"
	StepCompletePayment = "complete_payment"
)

type orderBackend interface {
	GetCustomerByUserID(ctx context.Context, userID int) (*models.Customer, error)
	CreateCustomerOrder(ctx context.Context, in models.CustomerOrderCreate) (*models.CustomerOrder, error)
	CreatePayment(ctx context.Context, in models.PaymentCreate) (*models.Payment, error)
	CompletePayment(ctx context.Context, id int) (*models.PaymentCompletion, error)
}

// StepError reports which step failed and what had already been created on
// the backend when it did. Nothing created is rolled back.
type StepError struct {
	Step      string
	OrderID   *int
	PaymentID *int
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("checkout step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Receipt describes a fully placed order.
type Receipt struct {
	OrderID              int                   `json:"order_id"`
	PaymentID            int                   `json:"payment_id"`
	CustomerID           int                   `json:"customer_id"`
	TransactionReference string                `json:"transaction_reference"`
	Totals               Totals                `json:"totals"`
	Items                []models.CheckoutItem `json:"items"`
	Order                *models.CustomerOrder `json:"order"`
	Message              string                `json:"message"`
}

// attempt is one submission's input once staging has been read.
type attempt struct {
	SessionID string
	UserID    int
	Items     []models.CheckoutItem
	Origin    Origin
	Form      Form
}

// Sequencer runs create_order, create_payment and complete_payment against
// the backend. A session may only have one sequence outstanding.
type Sequencer struct {
	backend   orderBackend
	pricing   Pricing
	metrics   *metrics.CheckoutMetrics
	publisher events.Publisher
	logg      *logger.Logger
	now       func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewSequencer(backend orderBackend, pricing Pricing, m *metrics.CheckoutMetrics, publisher events.Publisher, logg *logger.Logger) *Sequencer {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Sequencer{
		backend:   backend,
		pricing:   pricing,
		metrics:   m,
		publisher: publisher,
		logg:      logg,
		now:       time.Now,
		inflight:  map[string]struct{}{},
	}
}

// begin marks sessionID as submitting. The returned func clears the mark.
func (s *Sequencer) begin(sessionID string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[sessionID]; busy {
		s.metrics.IncRejected("in_flight")
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "an order is already being placed for this session")
	}
	s.inflight[sessionID] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.inflight, sessionID)
			s.mu.Unlock()
		})
	}, nil
}

// InFlight reports whether sessionID currently has a submission running.
func (s *Sequencer) InFlight(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inflight[sessionID]
	return busy
}

func (s *Sequencer) run(ctx context.Context, a attempt) (*Receipt, error) {
	started := s.now()
	ctx = s.logg.WithFields(ctx, map[string]any{"session_id": a.SessionID, "user_id": a.UserID})

	customer, err := s.backend.GetCustomerByUserID(ctx, a.UserID)
	if err != nil {
		s.metrics.IncRejected("customer_lookup")
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "no customer profile is linked to this account")
		}
		return nil, err
	}

	totals := s.pricing.Quote(a.Items)
	lines := make([]models.CustomerOrderItemCreate, 0, len(a.Items))
	for _, item := range a.Items {
		lines = append(lines, models.CustomerOrderItemCreate{ProductID: item.Product.ID, Quantity: item.Quantity})
	}
	var notes *string
	if trimmed := strings.TrimSpace(a.Form.Notes); trimmed != "" {
		notes = &trimmed
	}

	order, err := s.backend.CreateCustomerOrder(ctx, models.CustomerOrderCreate{
		CustomerID: customer.ID,
		Items:      lines,
		Notes:      notes,
	})
	if err != nil {
		return nil, s.fail(ctx, started, &StepError{Step: StepCreateOrder, Err: err})
	}
	s.metrics.ObserveStep(StepCreateOrder, metrics.OutcomeSuccess)

	ref := s.transactionReference()
	payment, err := s.backend.CreatePayment(ctx, models.PaymentCreate{
		CustomerOrderID:      order.ID,
		Amount:               totals.Total,
		PaymentMethod:        a.Form.Payment.Method,
		TransactionReference: ref,
	})
	if err != nil {
		return nil, s.fail(ctx, started, &StepError{Step: StepCreatePayment, OrderID: &order.ID, Err: err})
	}
	s.metrics.ObserveStep(StepCreatePayment, metrics.OutcomeSuccess)

	if _, err := s.backend.CompletePayment(ctx, payment.ID); err != nil {
		return nil, s.fail(ctx, started, &StepError{Step: StepCompletePayment, OrderID: &order.ID, PaymentID: &payment.ID, Err: err})
	}
	s.metrics.ObserveStep(StepCompletePayment, metrics.OutcomeSuccess)
	s.metrics.ObserveSequence(metrics.OutcomeSuccess, s.now().Sub(started))

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":   order.ID,
		"payment_id": payment.ID,
		"total":      totals.Total.StringFixed(2),
	}), "order placed")

	return &Receipt{
		OrderID:              order.ID,
		PaymentID:            payment.ID,
		CustomerID:           customer.ID,
		TransactionReference: ref,
		Totals:               totals,
		Items:                a.Items,
		Order:                order,
		Message:              fmt.Sprintf("Order #%d placed successfully", order.ID),
	}, nil
}

// fail records the failed step and converts it to a typed error that keeps
// the backend's code and exposes the created ids.
func (s *Sequencer) fail(ctx context.Context, started time.Time, stepErr *StepError) error {
	s.metrics.ObserveStep(stepErr.Step, metrics.OutcomeFailure)
	s.metrics.ObserveSequence(metrics.OutcomeFailure, s.now().Sub(started))
	s.logg.Error(s.logg.WithField(ctx, "step", stepErr.Step), "checkout step failed", stepErr)

	code := pkgerrors.CodeDependency
	message := fmt.Sprintf("order placement failed at %s", stepErr.Step)
	if typed := pkgerrors.As(stepErr.Err); typed != nil {
		code = typed.Code()
		message = typed.Message()
	}
	out := pkgerrors.Wrap(code, stepErr, message).WithDetail("step", stepErr.Step)
	if stepErr.OrderID != nil {
		out = out.WithDetail("order_id", *stepErr.OrderID)
	}
	if stepErr.PaymentID != nil {
		out = out.WithDetail("payment_id", *stepErr.PaymentID)
	}
	return out
}

func (s *Sequencer) publish(ctx context.Context, a attempt, r *Receipt) {
	evt := events.OrderPlaced{
		EventID:              uuid.NewString(),
		OccurredAt:           s.now().UTC(),
		SessionID:            a.SessionID,
		CustomerID:           r.CustomerID,
		OrderID:              r.OrderID,
		PaymentID:            r.PaymentID,
		PaymentMethod:        a.Form.Payment.Method.String(),
		TransactionReference: r.TransactionReference,
		Total:                r.Totals.Total,
		ItemCount:            r.Totals.ItemCount,
		FromCart:             a.Origin.FromCart,
		ShipTo:               a.Form.Shipping.contact(),
		BillTo:               a.Form.BillingAddress().contact(),
	}
	if err := s.publisher.PublishOrderPlaced(ctx, evt); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "order_id", r.OrderID), "order.placed publish failed", err)
	}
}

// transactionReference builds TXN-<unix millis>-<RANDOM>.
func (s *Sequencer) transactionReference() string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("TXN-%d-%s", s.now().UnixMilli(), random)
}

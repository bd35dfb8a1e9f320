package checkout

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/lcorp/storefront/internal/cart"
	"github.com/lcorp/storefront/internal/selection"
	"github.com/lcorp/storefront/internal/session"
	"github.com/lcorp/storefront/pkg/enums"
	pkgerrors "github.com/lcorp/storefront/pkg/errors"
	"github.com/lcorp/storefront/pkg/events"
	"github.com/lcorp/storefront/pkg/kvstore"
	"github.com/lcorp/storefront/pkg/metrics"
	"github.com/lcorp/storefront/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog map[int]models.Product

func (c stubCatalog) GetProduct(_ context.Context, id int) (*models.Product, error) {
	p, ok := c[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	return &p, nil
}

type stubBackend struct {
	mu           sync.Mutex
	calls        []string
	failStep     string
	orders       []models.CustomerOrderCreate
	payments     []models.PaymentCreate
	blockOrder   chan struct{}
	orderStarted chan struct{}
}

func (b *stubBackend) record(step string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, step)
	if b.failStep == step {
		return pkgerrors.New(pkgerrors.CodeDependency, step+" exploded")
	}
	return nil
}

func (b *stubBackend) GetCustomerByUserID(_ context.Context, userID int) (*models.Customer, error) {
	if userID == 404 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Customer not found")
	}
	return &models.Customer{ID: userID + 1000, UserID: &userID}, nil
}

func (b *stubBackend) CreateCustomerOrder(_ context.Context, in models.CustomerOrderCreate) (*models.CustomerOrder, error) {
	if b.orderStarted != nil {
		close(b.orderStarted)
	}
	if b.blockOrder != nil {
		<-b.blockOrder
	}
	if err := b.record(StepCreateOrder); err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.orders = append(b.orders, in)
	b.mu.Unlock()
	return &models.CustomerOrder{ID: 77, CustomerID: in.CustomerID, Status: enums.CustomerOrderStatusPending}, nil
}

func (b *stubBackend) CreatePayment(_ context.Context, in models.PaymentCreate) (*models.Payment, error) {
	if err := b.record(StepCreatePayment); err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.payments = append(b.payments, in)
	b.mu.Unlock()
	return &models.Payment{ID: 88, CustomerOrderID: in.CustomerOrderID, Amount: in.Amount}, nil
}

func (b *stubBackend) CompletePayment(_ context.Context, id int) (*models.PaymentCompletion, error) {
	if err := b.record(StepCompletePayment); err != nil {
		return nil, err
	}
	return &models.PaymentCompletion{Message: "Payment completed", PaymentID: id}, nil
}

type recordingPublisher struct {
	events []events.OrderPlaced
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, evt events.OrderPlaced) error {
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	store     *kvstore.Memory
	backend   *stubBackend
	publisher *recordingPublisher
	carts     *cart.Service
	checkout  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := kvstore.NewMemory(0)
	locks := session.NewLocks()
	catalog := stubCatalog{
		1: {ID: 1, Name: "Lamp", SellingPrice: decimal.RequireFromString("40.00")},
		2: {ID: 2, Name: "Rug", SellingPrice: decimal.RequireFromString("20.00")},
		3: {ID: 3, Name: "Sofa", SellingPrice: decimal.RequireFromString("150.00")},
	}
	backend := &stubBackend{}
	publisher := &recordingPublisher{}
	seq := NewSequencer(backend, DefaultPricing(), metrics.NewCheckoutMetrics(prometheus.NewRegistry()), publisher, nil)

	carts, err := cart.NewService(store, catalog, locks, nil)
	require.NoError(t, err)
	svc, err := NewService(store, catalog, locks, seq, nil)
	require.NoError(t, err)
	return &fixture{store: store, backend: backend, publisher: publisher, carts: carts, checkout: svc}
}

func validForm() Form {
	addr := Address{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Phone:    "(555) 123-4567",
		Address:  "1 Analytical Way",
		City:     "London",
		State:    "Greater London",
		ZipCode:  "N1",
		Country:  "UK",
	}
	return Form{Shipping: addr, SameAsShipping: true, Payment: PaymentDetails{Method: enums.PaymentMethodCash}}
}

func intPtr(v int) *int { return &v }

func TestPricingExamples(t *testing.T) {
	p := DefaultPricing()

	low := p.QuoteSubtotal(decimal.RequireFromString("80"), 1)
	assert.Equal(t, "9.60", low.Tax.StringFixed(2))
	assert.Equal(t, "9.99", low.Shipping.StringFixed(2))
	assert.Equal(t, "99.59", low.Total.StringFixed(2))

	high := p.QuoteSubtotal(decimal.RequireFromString("150"), 1)
	assert.True(t, high.Shipping.IsZero())
	assert.Equal(t, "168.00", high.Total.StringFixed(2))

	// exactly at the threshold still pays shipping
	edge := p.QuoteSubtotal(decimal.RequireFromString("100"), 1)
	assert.Equal(t, "9.99", edge.Shipping.StringFixed(2))
}

func TestFormValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Form)
		fields []string
	}{
		{"valid cash", func(*Form) {}, nil},
		{"blank name", func(f *Form) { f.Shipping.FullName = "  " }, []string{"shipping.full_name"}},
		{"bad email", func(f *Form) { f.Shipping.Email = "ada@example" }, []string{"shipping.email"}},
		{"short phone", func(f *Form) { f.Shipping.Phone = "555-1234" }, []string{"shipping.phone"}},
		{"billing required", func(f *Form) { f.SameAsShipping = false }, []string{"billing"}},
		{"billing checked", func(f *Form) {
			f.SameAsShipping = false
			b := f.Shipping
			b.City = ""
			f.Billing = &b
		}, []string{"billing.city"}},
		{"bank transfer", func(f *Form) { f.Payment.Method = enums.PaymentMethodBankTransfer }, []string{"payment.bank_name", "payment.account_number"}},
		{"e-wallet number", func(f *Form) {
			f.Payment.Method = enums.PaymentMethodEWallet
			f.Payment.WalletID = "12345"
		}, []string{"payment.wallet_id"}},
		{"unknown method", func(f *Form) { f.Payment.Method = "barter" }, []string{"payment.method"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.mutate(&form)
			err := form.Validate()
			if len(tc.fields) == 0 {
				require.NoError(t, err)
				return
			}
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			details, ok := typed.Details().(map[string]string)
			require.True(t, ok)
			for _, field := range tc.fields {
				assert.Contains(t, details, field)
			}
			assert.Len(t, details, len(tc.fields))
		})
	}
}

func TestBuyNowLeavesCartAndSelectionAlone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.carts.Add(ctx, "s", 1)
	require.NoError(t, err)
	_, err = f.carts.ToggleSelected(ctx, "s", 1)
	require.NoError(t, err)
	before := snapshot(t, f.store, "s", cartKeys...)

	staged, err := f.checkout.BuyNow(ctx, "s", 3)
	require.NoError(t, err)
	require.Len(t, staged.Items, 1)
	assert.Equal(t, 3, staged.Items[0].Product.ID)
	assert.Equal(t, 1, staged.Items[0].Quantity)
	assert.False(t, staged.FromCart)

	assert.Equal(t, before, snapshot(t, f.store, "s", cartKeys...))
}

func TestStageFromCartRequiresSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.carts.Add(ctx, "s", 1)
	require.NoError(t, err)
	_, err = f.carts.ToggleSelectAll(ctx, "s") // all selected -> none
	require.NoError(t, err)

	_, err = f.checkout.StageFromCart(ctx, "s")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSubmitFromCartPrunesOrderedItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, id := range []int{1, 2, 2} {
		_, err := f.carts.Add(ctx, "s", id)
		require.NoError(t, err)
	}
	_, err := f.carts.ToggleSelected(ctx, "s", 2)
	require.NoError(t, err)

	staged, err := f.checkout.StageFromCart(ctx, "s")
	require.NoError(t, err)
	require.Len(t, staged.Items, 1)
	assert.Equal(t, "54.79", staged.Totals.Total.StringFixed(2))

	form := validForm()
	form.Notes = "  leave at door "
	receipt, err := f.checkout.Submit(ctx, "s", intPtr(5), form)
	require.NoError(t, err)
	assert.Equal(t, 77, receipt.OrderID)
	assert.Equal(t, 88, receipt.PaymentID)
	assert.Regexp(t, regexp.MustCompile(`^TXN-\d+-[A-Z0-9]{6}$`), receipt.TransactionReference)

	assert.Equal(t, []string{StepCreateOrder, StepCreatePayment, StepCompletePayment}, f.backend.calls)
	require.Len(t, f.backend.orders, 1)
	assert.Equal(t, 1005, f.backend.orders[0].CustomerID)
	require.NotNil(t, f.backend.orders[0].Notes)
	assert.Equal(t, "leave at door", *f.backend.orders[0].Notes)
	assert.Equal(t, "54.79", f.backend.payments[0].Amount.StringFixed(2))

	view, err := f.carts.View(ctx, "s")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Product.ID)
	assert.Empty(t, view.Selected)

	left, err := f.checkout.Staged(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, left.Items)
	_, ok, _ := f.store.GetItem(ctx, "s", kvstore.KeyCheckoutSelectedIDs)
	assert.False(t, ok)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, 77, f.publisher.events[0].OrderID)
	assert.True(t, f.publisher.events[0].FromCart)
	assert.Equal(t, "Ada Lovelace", f.publisher.events[0].ShipTo.FullName)
	assert.Equal(t, f.publisher.events[0].ShipTo, f.publisher.events[0].BillTo)
}

func TestSubmitPublishesSeparateBillingContact(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.checkout.BuyNow(ctx, "s", 1)
	require.NoError(t, err)

	form := validForm()
	form.SameAsShipping = false
	billing := form.Shipping
	billing.FullName = "  Lovelace Holdings "
	billing.City = "Cambridge"
	form.Billing = &billing
	_, err = f.checkout.Submit(ctx, "s", intPtr(5), form)
	require.NoError(t, err)

	require.Len(t, f.publisher.events, 1)
	evt := f.publisher.events[0]
	assert.Equal(t, "London", evt.ShipTo.City)
	assert.Equal(t, "Lovelace Holdings", evt.BillTo.FullName)
	assert.Equal(t, "Cambridge", evt.BillTo.City)
}

func TestBillingAddressFallsBackToShipping(t *testing.T) {
	form := validForm()
	assert.Equal(t, form.Shipping, form.BillingAddress())

	form.SameAsShipping = false
	assert.Equal(t, form.Shipping, form.BillingAddress(), "missing billing falls back")

	other := form.Shipping
	other.ZipCode = "CB2"
	form.Billing = &other
	assert.Equal(t, "CB2", form.BillingAddress().ZipCode)

	form.SameAsShipping = true
	assert.Equal(t, form.Shipping, form.BillingAddress(), "same_as_shipping wins")
}

func TestSubmitBuyNowKeepsCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.carts.Add(ctx, "s", 1)
	require.NoError(t, err)
	_, err = f.checkout.BuyNow(ctx, "s", 1)
	require.NoError(t, err)

	_, err = f.checkout.Submit(ctx, "s", intPtr(5), validForm())
	require.NoError(t, err)

	view, err := f.carts.View(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)
}

func TestFailureAtPaymentCreationLeavesState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.backend.failStep = StepCreatePayment

	_, err := f.carts.Add(ctx, "s", 1)
	require.NoError(t, err)
	_, err = f.checkout.StageFromCart(ctx, "s")
	require.NoError(t, err)
	before := snapshot(t, f.store, "s", allKeys...)

	_, err = f.checkout.Submit(ctx, "s", intPtr(5), validForm())
	require.Error(t, err)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepCreatePayment, stepErr.Step)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details := typed.Details().(map[string]any)
	assert.Equal(t, StepCreatePayment, details["step"])
	assert.Equal(t, 77, details["order_id"])
	assert.NotContains(t, details, "payment_id")

	assert.Equal(t, before, snapshot(t, f.store, "s", allKeys...))
	assert.Empty(t, f.publisher.events)
	assert.False(t, f.checkout.sequencer.InFlight("s"))
}

func TestSubmitRejectsConcurrentAttempt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.backend.blockOrder = make(chan struct{})
	f.backend.orderStarted = make(chan struct{})

	_, err := f.checkout.BuyNow(ctx, "s", 2)
	require.NoError(t, err)

	firstErr := make(chan error, 1)
	go func() {
		_, err := f.checkout.Submit(ctx, "s", intPtr(5), validForm())
		firstErr <- err
	}()
	<-f.backend.orderStarted

	_, err = f.checkout.Submit(ctx, "s", intPtr(5), validForm())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	close(f.backend.blockOrder)
	require.NoError(t, <-firstErr)
	assert.False(t, f.checkout.sequencer.InFlight("s"))
}

func TestStagingFrozenWhileSubmitting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.backend.blockOrder = make(chan struct{})
	f.backend.orderStarted = make(chan struct{})

	_, err := f.carts.Add(ctx, "s", 2)
	require.NoError(t, err)
	_, err = f.checkout.BuyNow(ctx, "s", 1)
	require.NoError(t, err)

	firstErr := make(chan error, 1)
	go func() {
		_, err := f.checkout.Submit(ctx, "s", intPtr(5), validForm())
		firstErr <- err
	}()
	<-f.backend.orderStarted

	view, err := f.checkout.Staged(ctx, "s")
	require.NoError(t, err)
	assert.True(t, view.Submitting)

	_, err = f.checkout.BuyNow(ctx, "s", 3)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict), "buy now during submit")
	_, err = f.checkout.StageFromCart(ctx, "s")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict), "stage from cart during submit")
	assert.True(t, pkgerrors.IsCode(f.checkout.Cancel(ctx, "s"), pkgerrors.CodeStateConflict), "cancel during submit")

	close(f.backend.blockOrder)
	require.NoError(t, <-firstErr)

	// Once the order is placed a new attempt can be staged and survives.
	staged, err := f.checkout.BuyNow(ctx, "s", 3)
	require.NoError(t, err)
	require.Len(t, staged.Items, 1)
	left, err := f.checkout.Staged(ctx, "s")
	require.NoError(t, err)
	require.Len(t, left.Items, 1)
	assert.Equal(t, 3, left.Items[0].Product.ID)
	assert.False(t, left.Submitting)

	view2, err := f.carts.View(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, view2.Items, 1, "buy now never touches the cart")
}

func TestSubmitPreconditions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.checkout.Submit(ctx, "s", nil, validForm())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.checkout.Submit(ctx, "s", intPtr(5), validForm())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "empty staging")

	_, err = f.checkout.BuyNow(ctx, "s", 1)
	require.NoError(t, err)
	_, err = f.checkout.Submit(ctx, "s", intPtr(404), validForm())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "no customer profile")
	assert.Empty(t, f.backend.calls)
}

func TestPublishFailureDoesNotFailSubmit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.publisher.err = errors.New("nats down")

	_, err := f.checkout.BuyNow(ctx, "s", 1)
	require.NoError(t, err)
	_, err = f.checkout.Submit(ctx, "s", intPtr(5), validForm())
	require.NoError(t, err)
	assert.Len(t, f.publisher.events, 1)
}

func TestCancelClearsStagingOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.carts.Add(ctx, "s", 1)
	require.NoError(t, err)
	_, err = f.checkout.StageFromCart(ctx, "s")
	require.NoError(t, err)

	require.NoError(t, f.checkout.Cancel(ctx, "s"))
	staged, err := f.checkout.Staged(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, staged.Items)
	assert.False(t, staged.FromCart)

	state, err := selection.Load(ctx, f.store, "s")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, state.Selected)
}

var (
	cartKeys = []string{kvstore.KeyCart, kvstore.KeyCartSelectedItems, kvstore.KeyCartObservedIDs}
	allKeys  = append(append([]string{}, cartKeys...),
		kvstore.KeyCheckoutItems, kvstore.KeyCheckoutSelectedIDs, kvstore.KeyCheckoutFromCart)
)

func snapshot(t *testing.T, store kvstore.Store, sessionID string, keys ...string) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, key := range keys {
		value, ok, err := store.GetItem(context.Background(), sessionID, key)
		require.NoError(t, err)
		if ok {
			out[key] = value
		}
	}
	return out
}

package checkout

import (
	"context"
	"fmt"

	"github.com/lcorp/storefront/internal/cart"
	"github.com/lcorp/storefront/internal/selection"
	pkgerrors "github.com/lcorp/storefront/pkg/errors"
	"github.com/lcorp/storefront/pkg/kvstore"
	"github.com/lcorp/storefront/pkg/logger"
	"github.com/lcorp/storefront/pkg/models"
)

type productLoader interface {
	GetProduct(ctx context.Context, id int) (*models.Product, error)
}

// Locker serializes work on one session.
type Locker interface {
	Lock(sessionID string) (unlock func())
}

// Staged is the checkout page's view of the staging slot.
type Staged struct {
	Items      []models.CheckoutItem `json:"items"`
	FromCart   bool                  `json:"from_cart"`
	Totals     Totals                `json:"totals"`
	Submitting bool                  `json:"submitting"`
}

// Service stages checkout attempts and submits them.
type Service struct {
	store     kvstore.Store
	products  productLoader
	locks     Locker
	sequencer *Sequencer
	logg      *logger.Logger
}

func NewService(store kvstore.Store, products productLoader, locks Locker, sequencer *Sequencer, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if locks == nil {
		return nil, fmt.Errorf("session locker required")
	}
	if sequencer == nil {
		return nil, fmt.Errorf("sequencer required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{store: store, products: products, locks: locks, sequencer: sequencer, logg: logg}, nil
}

// BuyNow stages one unit of productID. The cart and the selection are left
// alone.
func (s *Service) BuyNow(ctx context.Context, sessionID string, productID int) (*Staged, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()
	if err := s.ensureIdle(sessionID); err != nil {
		return nil, err
	}

	items := BuyNowItems(*product)
	if err := StageItems(ctx, s.store, sessionID, items); err != nil {
		return nil, storageError(err)
	}
	if err := saveOrigin(ctx, s.store, sessionID, Origin{}); err != nil {
		return nil, storageError(err)
	}
	return s.staged(items, false), nil
}

// StageFromCart snapshots the selected cart lines into staging.
func (s *Service) StageFromCart(ctx context.Context, sessionID string) (*Staged, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()
	if err := s.ensureIdle(sessionID); err != nil {
		return nil, err
	}

	c, err := cart.Load(ctx, s.store, sessionID)
	if err != nil {
		return nil, storageError(err)
	}
	state, err := selection.Sync(ctx, s.store, sessionID, c.IDs())
	if err != nil {
		return nil, storageError(err)
	}
	items, ids := SelectedItems(c.Items(), state.Selected)
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "select at least one item to check out")
	}
	if err := StageItems(ctx, s.store, sessionID, items); err != nil {
		return nil, storageError(err)
	}
	if err := saveOrigin(ctx, s.store, sessionID, Origin{FromCart: true, SelectedIDs: ids}); err != nil {
		return nil, storageError(err)
	}
	return s.staged(items, true), nil
}

// Staged returns the current staging slot priced for display.
func (s *Service) Staged(ctx context.Context, sessionID string) (*Staged, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	items, origin, err := s.readStaging(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view := s.staged(items, origin.FromCart)
	view.Submitting = s.sequencer.InFlight(sessionID)
	return view, nil
}

// Cancel abandons the checkout attempt. The cart is not touched.
func (s *Service) Cancel(ctx context.Context, sessionID string) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()
	if err := s.ensureIdle(sessionID); err != nil {
		return err
	}

	if err := ClearStaged(ctx, s.store, sessionID); err != nil {
		return storageError(err)
	}
	if err := clearOrigin(ctx, s.store, sessionID); err != nil {
		return storageError(err)
	}
	return nil
}

// Submit validates the form and places the staged order for userID. On
// failure staging and the cart are left exactly as they were. Staging cannot
// be replaced while the sequence runs, so the cleanup in finish only ever
// removes what was submitted.
func (s *Service) Submit(ctx context.Context, sessionID string, userID *int, form Form) (*Receipt, error) {
	if userID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a customer account is required to place an order")
	}
	if err := form.Validate(); err != nil {
		s.sequencer.metrics.IncRejected("invalid_form")
		return nil, err
	}

	done, err := s.sequencer.begin(sessionID)
	if err != nil {
		return nil, err
	}
	defer done()

	unlock := s.locks.Lock(sessionID)
	items, origin, err := s.readStaging(ctx, sessionID)
	unlock()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		s.sequencer.metrics.IncRejected("empty")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "there is nothing to check out")
	}

	a := attempt{SessionID: sessionID, UserID: *userID, Items: items, Origin: origin, Form: form}
	receipt, err := s.sequencer.run(ctx, a)
	if err != nil {
		return nil, err
	}

	if err := s.finish(ctx, sessionID, origin); err != nil {
		// The order exists; report it and let the client clean up on reload.
		s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "post-checkout cleanup failed", err)
	}
	s.sequencer.publish(ctx, a, receipt)
	return receipt, nil
}

func (s *Service) finish(ctx context.Context, sessionID string, origin Origin) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	if err := ClearStaged(ctx, s.store, sessionID); err != nil {
		return err
	}
	if origin.FromCart && len(origin.SelectedIDs) > 0 {
		if err := cart.PruneOrdered(ctx, s.store, sessionID, origin.SelectedIDs); err != nil {
			return err
		}
	}
	return clearOrigin(ctx, s.store, sessionID)
}

// ensureIdle rejects staging changes while an order is being placed. Callers
// hold the session lock.
func (s *Service) ensureIdle(sessionID string) error {
	if s.sequencer.InFlight(sessionID) {
		s.sequencer.metrics.IncRejected("restage_in_flight")
		return pkgerrors.New(pkgerrors.CodeStateConflict, "an order is already being placed for this session")
	}
	return nil
}

func (s *Service) readStaging(ctx context.Context, sessionID string) ([]models.CheckoutItem, Origin, error) {
	items, err := GetStagedItems(ctx, s.store, sessionID)
	if err != nil {
		return nil, Origin{}, storageError(err)
	}
	origin, err := LoadOrigin(ctx, s.store, sessionID)
	if err != nil {
		return nil, Origin{}, storageError(err)
	}
	return items, origin, nil
}

func (s *Service) staged(items []models.CheckoutItem, fromCart bool) *Staged {
	return &Staged{Items: items, FromCart: fromCart, Totals: s.sequencer.pricing.Quote(items)}
}

func storageError(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session storage unavailable")
}

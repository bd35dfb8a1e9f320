package cart

import (
	"context"
	"fmt"

	"github.com/lcorp/storefront/internal/selection"
	pkgerrors "github.com/lcorp/storefront/pkg/errors"
	"github.com/lcorp/storefront/pkg/kvstore"
	"github.com/lcorp/storefront/pkg/logger"
	"github.com/lcorp/storefront/pkg/models"
	"github.com/shopspring/decimal"
)

type productLoader interface {
	GetProduct(ctx context.Context, id int) (*models.Product, error)
}

// Locker serializes work on one session.
type Locker interface {
	Lock(sessionID string) (unlock func())
}

// View is the cart as the storefront renders it.
type View struct {
	Items         []models.CartItem `json:"items"`
	Selected      []int             `json:"selected_ids"`
	AllSelected   bool              `json:"all_selected"`
	TotalItems    int               `json:"total_items"`
	TotalPrice    decimal.Decimal   `json:"total_price"`
	SelectedCount int               `json:"selected_count"`
	SelectedTotal decimal.Decimal   `json:"selected_total"`
}

// Service applies cart and selection mutations for a session.
type Service struct {
	store    kvstore.Store
	products productLoader
	locks    Locker
	logg     *logger.Logger
}

func NewService(store kvstore.Store, products productLoader, locks Locker, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if locks == nil {
		return nil, fmt.Errorf("session locker required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{store: store, products: products, locks: locks, logg: logg}, nil
}

// View loads the cart and runs one reconciliation pass.
func (s *Service) View(ctx context.Context, sessionID string) (*View, error) {
	return s.mutate(ctx, sessionID, nil)
}

// Add puts one unit of productID in the cart, fetching the current product
// record from the backend.
func (s *Service) Add(ctx context.Context, sessionID string, productID int) (*View, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		return c.Add(ctx, *product)
	})
}

func (s *Service) Remove(ctx context.Context, sessionID string, productID int) (*View, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		return c.Remove(ctx, productID)
	})
}

func (s *Service) RemoveItems(ctx context.Context, sessionID string, productIDs []int) (*View, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		return c.RemoveItems(ctx, productIDs)
	})
}

// UpdateQuantity sets a line's quantity. Lines not in the cart are ignored,
// the same way Remove ignores them.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, productID, quantity int) (*View, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		return c.UpdateQuantity(ctx, productID, quantity)
	})
}

func (s *Service) Clear(ctx context.Context, sessionID string) (*View, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		return c.Clear(ctx)
	})
}

// ToggleSelected flips productID in the checkout selection.
func (s *Service) ToggleSelected(ctx context.Context, sessionID string, productID int) (*View, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	c, state, err := s.loadReconciled(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, ok := c.Find(productID); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart").
			WithDetail("product_id", productID)
	}
	state.Selected = selection.Toggle(state.Selected, productID)
	if err := s.saveSelection(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return buildView(c, state.Selected), nil
}

// ToggleSelectAll selects the whole cart, or clears the selection when the
// whole cart is already selected.
func (s *Service) ToggleSelectAll(ctx context.Context, sessionID string) (*View, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	c, state, err := s.loadReconciled(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state.Selected = selection.ToggleSelectAll(state.Selected, c.IDs())
	if err := s.saveSelection(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return buildView(c, state.Selected), nil
}

// PruneOrdered removes ordered product ids and reconciles the selection. The
// caller must already hold the session lock.
func PruneOrdered(ctx context.Context, store kvstore.Store, sessionID string, productIDs []int) error {
	c, err := Load(ctx, store, sessionID)
	if err != nil {
		return err
	}
	if err := c.RemoveItems(ctx, productIDs); err != nil {
		return err
	}
	_, err = selection.Sync(ctx, store, sessionID, c.IDs())
	return err
}

func (s *Service) mutate(ctx context.Context, sessionID string, fn func(*Cart) error) (*View, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	c, err := Load(ctx, s.store, sessionID)
	if err != nil {
		return nil, storageError(err)
	}
	if fn != nil {
		if err := fn(c); err != nil {
			if pkgerrors.As(err) != nil {
				return nil, err
			}
			return nil, storageError(err)
		}
	}
	state, err := selection.Sync(ctx, s.store, sessionID, c.IDs())
	if err != nil {
		return nil, storageError(err)
	}
	return buildView(c, state.Selected), nil
}

func (s *Service) loadReconciled(ctx context.Context, sessionID string) (*Cart, selection.State, error) {
	c, err := Load(ctx, s.store, sessionID)
	if err != nil {
		return nil, selection.State{}, storageError(err)
	}
	state, err := selection.Sync(ctx, s.store, sessionID, c.IDs())
	if err != nil {
		return nil, selection.State{}, storageError(err)
	}
	return c, state, nil
}

func (s *Service) saveSelection(ctx context.Context, sessionID string, state selection.State) error {
	if err := selection.Save(ctx, s.store, sessionID, state); err != nil {
		return storageError(err)
	}
	return nil
}

func buildView(c *Cart, selected []int) *View {
	view := &View{
		Items:         c.Items(),
		Selected:      selected,
		AllSelected:   selection.AllSelected(selected, c.IDs()),
		TotalItems:    c.TotalItems(),
		TotalPrice:    c.TotalPrice(),
		SelectedTotal: decimal.Zero,
	}
	for _, item := range view.Items {
		if selection.Contains(selected, item.Product.ID) {
			view.SelectedCount += item.Quantity
			view.SelectedTotal = view.SelectedTotal.Add(item.LineTotal())
		}
	}
	return view
}

func storageError(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session storage unavailable")
}

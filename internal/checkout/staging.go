package checkout

import (
	"context"
	"strconv"

	"github.com/lcorp/storefront/internal/selection"
	"github.com/lcorp/storefront/pkg/kvstore"
	"github.com/lcorp/storefront/pkg/models"
)

// StageItems overwrites the staging slot with items.
func StageItems(ctx context.Context, store kvstore.Store, sessionID string, items []models.CheckoutItem) error {
	if items == nil {
		items = []models.CheckoutItem{}
	}
	return kvstore.SaveJSON(ctx, store, sessionID, kvstore.KeyCheckoutItems, items)
}

// GetStagedItems returns the staged snapshot, or an empty list when nothing
// (or nothing readable) is staged.
func GetStagedItems(ctx context.Context, store kvstore.Store, sessionID string) ([]models.CheckoutItem, error) {
	var items []models.CheckoutItem
	if _, err := kvstore.LoadJSON(ctx, store, sessionID, kvstore.KeyCheckoutItems, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CheckoutItem{}
	}
	return items, nil
}

// ClearStaged empties the staging slot.
func ClearStaged(ctx context.Context, store kvstore.Store, sessionID string) error {
	if store == nil {
		return nil
	}
	return store.RemoveItem(ctx, sessionID, kvstore.KeyCheckoutItems)
}

// Origin records where the staged items came from.
type Origin struct {
	FromCart    bool  `json:"from_cart"`
	SelectedIDs []int `json:"selected_ids,omitempty"`
}

// LoadOrigin reads the origin metadata. Absent metadata means "not from cart".
func LoadOrigin(ctx context.Context, store kvstore.Store, sessionID string) (Origin, error) {
	var origin Origin
	if store == nil {
		return origin, nil
	}
	raw, ok, err := store.GetItem(ctx, sessionID, kvstore.KeyCheckoutFromCart)
	if err != nil {
		return origin, err
	}
	if ok {
		origin.FromCart, _ = strconv.ParseBool(raw)
	}
	if _, err := kvstore.LoadJSON(ctx, store, sessionID, kvstore.KeyCheckoutSelectedIDs, &origin.SelectedIDs); err != nil {
		return origin, err
	}
	return origin, nil
}

func saveOrigin(ctx context.Context, store kvstore.Store, sessionID string, origin Origin) error {
	if store == nil {
		return nil
	}
	if err := store.SetItem(ctx, sessionID, kvstore.KeyCheckoutFromCart, strconv.FormatBool(origin.FromCart)); err != nil {
		return err
	}
	if origin.FromCart {
		return kvstore.SaveJSON(ctx, store, sessionID, kvstore.KeyCheckoutSelectedIDs, origin.SelectedIDs)
	}
	return store.RemoveItem(ctx, sessionID, kvstore.KeyCheckoutSelectedIDs)
}

func clearOrigin(ctx context.Context, store kvstore.Store, sessionID string) error {
	if store == nil {
		return nil
	}
	if err := store.RemoveItem(ctx, sessionID, kvstore.KeyCheckoutSelectedIDs); err != nil {
		return err
	}
	return store.RemoveItem(ctx, sessionID, kvstore.KeyCheckoutFromCart)
}

// BuyNowItems is the staging payload for a direct purchase: one unit of one
// product.
func BuyNowItems(product models.Product) []models.CheckoutItem {
	return []models.CheckoutItem{{Product: product, Quantity: 1}}
}

// SelectedItems snapshots the selected cart lines in cart order, along with
// their product ids.
func SelectedItems(cartItems []models.CartItem, selected []int) ([]models.CheckoutItem, []int) {
	items := make([]models.CheckoutItem, 0, len(selected))
	ids := make([]int, 0, len(selected))
	for _, line := range cartItems {
		if !selection.Contains(selected, line.Product.ID) {
			continue
		}
		items = append(items, models.CheckoutItem{Product: line.Product, Quantity: line.Quantity})
		ids = append(ids, line.Product.ID)
	}
	return items, ids
}

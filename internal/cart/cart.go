// Package cart is the per-session shopping cart. Every mutation is written
// through to the session store before it returns.
package cart

import (
	"context"

	"github.com/lcorp/storefront/pkg/kvstore"
	"github.com/lcorp/storefront/pkg/models"
	"github.com/shopspring/decimal"
)

// Cart holds the items of one session. It is not safe for concurrent use;
// callers serialize access per session.
type Cart struct {
	store     kvstore.Store
	sessionID string
	items     []models.CartItem
}

// Load reads the cart of sessionID. An absent or unreadable value yields an
// empty cart; a nil store yields an empty cart that is never persisted.
func Load(ctx context.Context, store kvstore.Store, sessionID string) (*Cart, error) {
	c := &Cart{store: store, sessionID: sessionID, items: []models.CartItem{}}
	var items []models.CartItem
	ok, err := kvstore.LoadJSON(ctx, store, sessionID, kvstore.KeyCart, &items)
	if err != nil {
		return nil, err
	}
	if ok {
		c.items = sanitize(items)
	}
	return c, nil
}

// drop lines a foreign writer may have left behind with a bad quantity or a
// duplicate product id
func sanitize(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		if _, dup := seen[item.Product.ID]; dup {
			continue
		}
		seen[item.Product.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Items returns a copy of the current lines.
func (c *Cart) Items() []models.CartItem {
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// IDs returns the product ids in cart order.
func (c *Cart) IDs() []int {
	ids := make([]int, len(c.items))
	for i, item := range c.items {
		ids[i] = item.Product.ID
	}
	return ids
}

// Find returns the line for productID.
func (c *Cart) Find(productID int) (models.CartItem, bool) {
	if i := c.index(productID); i >= 0 {
		return c.items[i], true
	}
	return models.CartItem{}, false
}

// Add increments an existing line by one or appends the product at quantity 1.
// The stored product snapshot is refreshed with the supplied one.
func (c *Cart) Add(ctx context.Context, product models.Product) error {
	if i := c.index(product.ID); i >= 0 {
		c.items[i].Quantity++
		c.items[i].Product = product
	} else {
		c.items = append(c.items, models.CartItem{Product: product, Quantity: 1})
	}
	return c.persist(ctx)
}

// Remove deletes the line for productID. Absent ids are a no-op.
func (c *Cart) Remove(ctx context.Context, productID int) error {
	i := c.index(productID)
	if i < 0 {
		return nil
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return c.persist(ctx)
}

// RemoveItems bulk-deletes every listed product id.
func (c *Cart) RemoveItems(ctx context.Context, productIDs []int) error {
	if len(productIDs) == 0 {
		return nil
	}
	drop := make(map[int]struct{}, len(productIDs))
	for _, id := range productIDs {
		drop[id] = struct{}{}
	}
	kept := c.items[:0]
	for _, item := range c.items {
		if _, ok := drop[item.Product.ID]; ok {
			continue
		}
		kept = append(kept, item)
	}
	c.items = kept
	return c.persist(ctx)
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes it. There is no upper bound and no stock check.
func (c *Cart) UpdateQuantity(ctx context.Context, productID, quantity int) error {
	if quantity <= 0 {
		return c.Remove(ctx, productID)
	}
	i := c.index(productID)
	if i < 0 {
		return nil
	}
	c.items[i].Quantity = quantity
	return c.persist(ctx)
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) error {
	c.items = []models.CartItem{}
	return c.persist(ctx)
}

// TotalItems sums the quantities of all lines.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums selling price times quantity over all lines.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (c *Cart) index(productID int) int {
	for i, item := range c.items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) persist(ctx context.Context) error {
	return kvstore.SaveJSON(ctx, c.store, c.sessionID, kvstore.KeyCart, c.items)
}

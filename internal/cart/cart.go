package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// LineItem is one product entry in a cart. Name and UnitPrice are snapshots
// taken when the item is first added; later catalog renames or price changes
// do not touch items already in the cart.
type LineItem struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is an ordered list of line items with at most one entry per product
// id. A cart is a plain value: every operation takes the current cart and
// returns the next one, the input is never mutated.
type Cart []LineItem

// Change reports what a mutation did to the cart, so callers can raise the
// matching user notification without inspecting the cart themselves.
type Change int

const (
	NoChange Change = iota
	ItemAdded
	ItemMerged
	ItemUpdated
	ItemRemoved
)

// Summary is the result of a successful checkout. ItemCount counts units,
// not distinct lines.
type Summary struct {
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

func (c Cart) clone() Cart {
	next := make(Cart, len(c))
	copy(next, c)
	return next
}

func (c Cart) indexOf(productID int64) int {
	for i := range c {
		if c[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Find returns the line item for productID, if any.
func (c Cart) Find(productID int64) (LineItem, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c[i], true
	}
	return LineItem{}, false
}

// Total sums the line totals. No rounding happens here, round at the
// presentation layer only.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, li := range c {
		total = total.Add(li.LineTotal())
	}
	return total
}

// Add puts quantity units of a product into the cart. If the product is
// already present its quantity accumulates and the stored name/price snapshot
// wins over the arguments. A quantity <= 0 is a no-op, negative-quantity
// items are never created.
func Add(c Cart, productID int64, name string, unitPrice decimal.Decimal, quantity int) (Cart, Change) {
	if quantity <= 0 {
		return c, NoChange
	}

	next := c.clone()
	if i := next.indexOf(productID); i >= 0 {
		next[i].Quantity += quantity
		return next, ItemMerged
	}

	next = append(next, LineItem{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
	})
	return next, ItemAdded
}

// SetQuantity overwrites the quantity of an existing line item. A quantity
// <= 0 removes the item, a cart never stores a non-positive quantity. An
// absent product id is a no-op.
func SetQuantity(c Cart, productID int64, quantity int) (Cart, Change) {
	i := c.indexOf(productID)
	if i < 0 {
		return c, NoChange
	}

	if quantity <= 0 {
		return Remove(c, productID)
	}

	next := c.clone()
	next[i].Quantity = quantity
	return next, ItemUpdated
}

// Remove deletes the line item for productID. Removing an absent product is
// a no-op, so Remove is idempotent.
func Remove(c Cart, productID int64) (Cart, Change) {
	i := c.indexOf(productID)
	if i < 0 {
		return c, NoChange
	}

	next := make(Cart, 0, len(c)-1)
	next = append(next, c[:i]...)
	next = append(next, c[i+1:]...)
	return next, ItemRemoved
}

// Clear returns an empty cart unconditionally.
func Clear(Cart) Cart {
	return Cart{}
}

// Checkout computes the order summary and empties the cart in one step. An
// empty cart fails with ErrEmptyCart and is returned unchanged; a caller can
// never observe a non-empty cart after a summary was produced.
func Checkout(c Cart) (Summary, Cart, error) {
	if len(c) == 0 {
		return Summary{}, c, ErrEmptyCart
	}

	count := 0
	for _, li := range c {
		count += li.Quantity
	}

	return Summary{Total: c.Total(), ItemCount: count}, Clear(c), nil
}

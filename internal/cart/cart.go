package cart

import "errors"

var (
	ErrInvalidAction  = errors.New("unknown cart action")
	ErrInvalidPayload = errors.New("invalid cart payload")
)

// Action is a cart mutation token accepted by the update endpoint.
type Action string

const (
	ActionInc    Action = "inc"
	ActionDec    Action = "dec"
	ActionSet    Action = "set"
	ActionRemove Action = "remove"
)

// ParseAction validates an action token from the wire.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionInc, ActionDec, ActionSet, ActionRemove:
		return Action(s), nil
	default:
		return "", ErrInvalidAction
	}
}

// Entry is a single cart line: a weak reference to a product plus the
// desired quantity. Quantity is always >= 1 for a stored entry.
type Entry struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Cart is the session-scoped cart. It is a slice rather than a map because
// line order is part of the contract: reconciliation must preserve the order
// in which products were first added.
type Cart []Entry

// Quantity returns the stored quantity for a product, 0 when absent.
func (c Cart) Quantity(productID int64) int {
	for _, e := range c {
		if e.ProductID == productID {
			return e.Quantity
		}
	}
	return 0
}

// TotalQuantity returns the sum of all line quantities.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, e := range c {
		total += e.Quantity
	}
	return total
}

// clone returns an independent copy so callers never observe hidden mutation.
func (c Cart) clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// withQuantity returns a copy with the product's quantity overwritten, or
// appended when the product is not yet in the cart.
func (c Cart) withQuantity(productID int64, qty int) Cart {
	out := c.clone()
	for i, e := range out {
		if e.ProductID == productID {
			out[i].Quantity = qty
			return out
		}
	}
	return append(out, Entry{ProductID: productID, Quantity: qty})
}

// without returns a copy with the product's entry removed.
func (c Cart) without(productID int64) Cart {
	out := make(Cart, 0, len(c))
	for _, e := range c {
		if e.ProductID != productID {
			out = append(out, e)
		}
	}
	return out
}

// Add increments the product's quantity by qty, inserting the entry when
// absent. Quantities below 1 are clamped to 1, matching the storefront's
// add-to-cart button semantics.
func Add(c Cart, productID int64, qty int) Cart {
	if qty < 1 {
		qty = 1
	}
	return c.withQuantity(productID, c.Quantity(productID)+qty)
}

// Apply returns the cart after applying a single action. The input cart is
// never mutated; persisting the result back to the session is the caller's
// responsibility. An entry whose quantity would drop to zero or below is
// removed entirely, so a stored cart never holds a non-positive quantity.
func Apply(c Cart, action Action, productID int64, qty int) (Cart, error) {
	switch action {
	case ActionInc:
		return c.withQuantity(productID, c.Quantity(productID)+1), nil
	case ActionDec:
		if current := c.Quantity(productID); current > 1 {
			return c.withQuantity(productID, current-1), nil
		}
		return c.without(productID), nil
	case ActionSet:
		if qty > 0 {
			return c.withQuantity(productID, qty), nil
		}
		return c.without(productID), nil
	case ActionRemove:
		return c.without(productID), nil
	default:
		return nil, ErrInvalidAction
	}
}

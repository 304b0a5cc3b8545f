package domain

import "fmt"

// Side is the direction of a market order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Valid reports whether s is BUY or SELL.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// OrderIntent is a trade request from the user. It carries no id: the
// protocol correlates acknowledgments only by arrival order.
type OrderIntent struct {
	Asset string
	Side  Side
	Qty   int
}

// Validate checks the intent before anything is transmitted.
func (o OrderIntent) Validate() error {
	if !o.Side.Valid() {
		return NewValidationError("side", fmt.Errorf("%w: %q", ErrInvalidSide, o.Side))
	}
	if o.Qty <= 0 {
		return NewValidationError("qty", fmt.Errorf("%w: %d", ErrInvalidQuantity, o.Qty))
	}
	return nil
}

// OrderFill is the server acknowledgment of an executed order.
type OrderFill struct {
	Side  Side    `json:"side"`
	Asset string  `json:"asset"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

// String renders the fill as a log line.
func (f OrderFill) String() string {
	return fmt.Sprintf("%s %d %s @ %.2f", f.Side, f.Qty, f.Asset, f.Price)
}

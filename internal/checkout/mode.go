package checkout

import (
	"net/url"
	"strconv"

	"github.com/kadeksinduarta/selat-frontend/internal/cart"
)

const checkoutPath = "/checkout"

// Mode is decided once from the request query and never re-derived.
type Mode interface {
	Name() string
	// Path is the checkout URL that reproduces this mode.
	Path() string
	isMode()
}

// DirectBuy buys a single product without touching the cart.
type DirectBuy struct {
	ProductID int64
	Quantity  int
}

func (DirectBuy) isMode() {}
func (DirectBuy) Name() string { return "direct" }

func (m DirectBuy) Path() string {
	q := url.Values{}
	q.Set("mode", "direct")
	q.Set("product_id", strconv.FormatInt(m.ProductID, 10))
	q.Set("qty", strconv.Itoa(m.Quantity))
	return checkoutPath + "?" + q.Encode()
}

// CartCheckout buys the selected cart lines. Provided is false when the
// request carried no items parameter at all.
type CartCheckout struct {
	Selection cart.Selection
	Provided  bool
}

func (CartCheckout) isMode() {}
func (CartCheckout) Name() string { return "cart" }

func (m CartCheckout) Path() string {
	if !m.Provided {
		return checkoutPath
	}
	return checkoutPath + "?items=" + url.QueryEscape(m.Selection.String())
}

// ParseMode reads mode, product_id, qty and items.
func ParseMode(q url.Values) Mode {
	if q.Get("mode") == "direct" && q.Get("product_id") != "" {
		id, err := strconv.ParseInt(q.Get("product_id"), 10, 64)
		if err != nil {
			id = 0
		}
		qty, err := strconv.Atoi(q.Get("qty"))
		if err != nil || qty < 1 {
			qty = 1
		}
		return DirectBuy{ProductID: id, Quantity: qty}
	}

	raw := q.Get("items")
	return CartCheckout{
		Selection: cart.ParseSelection(raw),
		Provided:  raw != "",
	}
}

package checkout

import (
	"errors"
	"net/url"
)

var (
	ErrUnauthenticated     = errors.New("please log in before checking out")
	ErrEmptyCart           = errors.New("cart is empty, nothing to checkout")
	ErrSelectionMissing    = errors.New("select the cart items to checkout first")
	ErrNothingSelected     = errors.New("no items selected for checkout")
	ErrNoAddress           = errors.New("add a shipping address to your profile before checking out")
	ErrProductNotFound     = errors.New("product not found")
	ErrOutOfStock          = errors.New("product is out of stock")
	ErrPickupDateRequired  = errors.New("pickup date is required")
	ErrInvalidPickupDate   = errors.New("pickup date must use the YYYY-MM-DD format")
	ErrPickupDateInPast    = errors.New("pickup date cannot be in the past")
	ErrIdentityUnavailable = errors.New("failed to load profile")
	ErrOrderFailed         = errors.New("failed to process order")
	ErrNoTransaction       = errors.New("order was not created")
	IllegalTransitionError = errors.New("illegal transition of checkout state")
)

type Kind int

const (
	KindPrecondition Kind = iota + 1
	KindNotFound
	KindRemote
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindPrecondition:
		return "PRECONDITION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindRemote:
		return "REMOTE"
	case KindValidation:
		return "VALIDATION"
	}
	return "UNKNOWN"
}

// Error is a user-facing checkout outcome. Redirect is set when the user has
// to go somewhere else to resolve it.
type Error struct {
	Kind     Kind
	Redirect string
	Err      error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

const (
	RedirectProducts  = "/products"
	RedirectCart      = "/cart"
	RedirectAddresses = "/profile/addresses"
	successPath       = "/checkout/success"
)

func LoginRedirect(returnTo string) string {
	return "/auth/login?redirect=" + url.QueryEscape(returnTo)
}

func precondition(err error, redirect string) *Error {
	return &Error{Kind: KindPrecondition, Redirect: redirect, Err: err}
}

func notFound(err error) *Error {
	return &Error{Kind: KindNotFound, Redirect: RedirectProducts, Err: err}
}

func validation(err error) *Error {
	return &Error{Kind: KindValidation, Err: err}
}

func remote(err error) *Error {
	return &Error{Kind: KindRemote, Err: err}
}

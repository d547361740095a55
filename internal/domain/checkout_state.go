package domain

type CheckoutState string

const (
	CheckoutStateInit                 CheckoutState = "INIT"
	CheckoutStateResolvingMode        CheckoutState = "RESOLVING_MODE"
	CheckoutStateLoadingDirectProduct CheckoutState = "LOADING_DIRECT_PRODUCT"
	CheckoutStateLoadingCartSelection CheckoutState = "LOADING_CART_SELECTION"
	CheckoutStateLoadingIdentity      CheckoutState = "LOADING_IDENTITY"
	CheckoutStateReady                CheckoutState = "READY"
	CheckoutStateSubmitting           CheckoutState = "SUBMITTING"
	CheckoutStateSucceeded            CheckoutState = "SUCCEEDED"
	CheckoutStateFailed               CheckoutState = "FAILED"
)

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutStateInit:                 {CheckoutStateResolvingMode, CheckoutStateFailed},
	CheckoutStateResolvingMode:        {CheckoutStateLoadingDirectProduct, CheckoutStateLoadingCartSelection, CheckoutStateFailed},
	CheckoutStateLoadingDirectProduct: {CheckoutStateLoadingIdentity, CheckoutStateFailed},
	CheckoutStateLoadingCartSelection: {CheckoutStateLoadingIdentity, CheckoutStateFailed},
	CheckoutStateLoadingIdentity:      {CheckoutStateReady, CheckoutStateFailed},
	CheckoutStateReady:                {CheckoutStateSubmitting},
	// a failed submission is recoverable: the page stays interactive
	CheckoutStateSubmitting: {CheckoutStateSucceeded, CheckoutStateReady, CheckoutStateFailed},
}

func CanTransitionTo(from, to CheckoutState) bool {
	for _, next := range checkoutTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateSucceeded || s == CheckoutStateFailed
}

// String representation (for logging)
func (s CheckoutState) String() string {
	return string(s)
}

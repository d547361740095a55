package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kadeksinduarta/selat-frontend/internal/api"
	"github.com/kadeksinduarta/selat-frontend/internal/domain"
	"github.com/kadeksinduarta/selat-frontend/internal/events"
	"github.com/sirupsen/logrus"
)

// Remote is the part of the API client checkout depends on.
type Remote interface {
	Product(ctx context.Context, id int64) (*domain.Product, error)
	Profile(ctx context.Context, token string) (*domain.Profile, error)
	Addresses(ctx context.Context, token string) ([]domain.Address, error)
	Checkout(ctx context.Context, token string, draft domain.OrderDraft) (*api.CheckoutResult, error)
}

// Cart is the session cart a checkout reads from and cleans up after success.
type Cart interface {
	Session() string
	Items(ctx context.Context) []domain.CartItem
	Remove(ctx context.Context, productID int64) []domain.CartItem
}

type Orchestrator struct {
	remote    Remote
	publisher events.Publisher
	loc       *time.Location
	now       func() time.Time
	log       logrus.FieldLogger
}

type Option func(*Orchestrator)

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(o *Orchestrator) { o.loc = loc }
}

func NewOrchestrator(remote Remote, publisher events.Publisher, log logrus.FieldLogger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		remote:    remote,
		publisher: publisher,
		loc:       time.Local,
		now:       time.Now,
		log:       log,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.publisher == nil {
		o.publisher = events.Noop{}
	}
	return o
}

// Flow is one checkout attempt. Lines are the resolved items that will be
// submitted; their prices are the ones captured while loading.
type Flow struct {
	Mode    Mode
	State   domain.CheckoutState
	Lines   []domain.CartItem
	Profile *domain.Profile
	Address *domain.Address

	token string
	cart  Cart
}

func (f *Flow) Total() int64 {
	return domain.SumTotal(f.Lines)
}

func (f *Flow) transition(to domain.CheckoutState) error {
	if !domain.CanTransitionTo(f.State, to) {
		return fmt.Errorf("%w: %s -> %s", IllegalTransitionError, f.State, to)
	}
	f.State = to
	return nil
}

// Confirmation is returned by a successful submission.
type Confirmation struct {
	OrderID  domain.TransactionID
	Redirect string
}

// Begin resolves the mode, loads the lines to buy and the buyer's identity.
// On success the flow is READY; any returned error leaves it FAILED.
func (o *Orchestrator) Begin(ctx context.Context, token string, mode Mode, c Cart) (*Flow, error) {
	flow := &Flow{Mode: mode, State: domain.CheckoutStateInit, token: token, cart: c}
	log := o.log.WithField("mode", mode.Name())

	if token == "" {
		return flow, o.fail(flow, precondition(ErrUnauthenticated, LoginRedirect(mode.Path())))
	}
	if err := flow.transition(domain.CheckoutStateResolvingMode); err != nil {
		return flow, err
	}

	switch m := mode.(type) {
	case DirectBuy:
		if err := flow.transition(domain.CheckoutStateLoadingDirectProduct); err != nil {
			return flow, err
		}
		line, err := o.loadDirect(ctx, m)
		if err != nil {
			log.WithError(err).WithField("product_id", m.ProductID).Warn("direct buy product unavailable")
			return flow, o.fail(flow, err)
		}
		flow.Lines = []domain.CartItem{line}
	case CartCheckout:
		if err := flow.transition(domain.CheckoutStateLoadingCartSelection); err != nil {
			return flow, err
		}
		lines, err := o.loadSelection(ctx, m, c)
		if err != nil {
			return flow, o.fail(flow, err)
		}
		flow.Lines = lines
	default:
		return flow, o.fail(flow, fmt.Errorf("unknown checkout mode %T", mode))
	}

	if err := flow.transition(domain.CheckoutStateLoadingIdentity); err != nil {
		return flow, err
	}
	if err := o.loadIdentity(ctx, flow); err != nil {
		log.WithError(err).Warn("checkout identity unavailable")
		return flow, o.fail(flow, err)
	}
	if err := flow.transition(domain.CheckoutStateReady); err != nil {
		return flow, err
	}
	return flow, nil
}

func (o *Orchestrator) loadDirect(ctx context.Context, m DirectBuy) (domain.CartItem, error) {
	if m.ProductID < 1 {
		return domain.CartItem{}, notFound(ErrProductNotFound)
	}
	product, err := o.remote.Product(ctx, m.ProductID)
	if err != nil {
		o.log.WithError(err).WithField("product_id", m.ProductID).Error("fetch product for direct buy")
		return domain.CartItem{}, notFound(ErrProductNotFound)
	}
	if !product.InStock() {
		return domain.CartItem{}, notFound(ErrOutOfStock)
	}
	return domain.NewCartItem(*product, m.Quantity), nil
}

func (o *Orchestrator) loadSelection(ctx context.Context, m CartCheckout, c Cart) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if c != nil {
		items = c.Items(ctx)
	}
	if len(items) == 0 {
		return nil, precondition(ErrEmptyCart, RedirectProducts)
	}
	if !m.Provided {
		return nil, precondition(ErrSelectionMissing, RedirectCart)
	}
	lines := m.Selection.Filter(items)
	if len(lines) == 0 {
		return nil, precondition(ErrNothingSelected, RedirectCart)
	}
	return lines, nil
}

func (o *Orchestrator) loadIdentity(ctx context.Context, flow *Flow) error {
	profile, err := o.remote.Profile(ctx, flow.token)
	if err != nil {
		return o.identityError(flow, err)
	}
	addresses, err := o.remote.Addresses(ctx, flow.token)
	if err != nil {
		return o.identityError(flow, err)
	}
	address := domain.DefaultAddress(addresses)
	if address == nil {
		return precondition(ErrNoAddress, RedirectAddresses)
	}
	flow.Profile = profile
	flow.Address = address
	return nil
}

// identityError sends expired credentials back to login; anything else is
// shown on the checkout page.
func (o *Orchestrator) identityError(flow *Flow, err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return precondition(ErrUnauthenticated, LoginRedirect(flow.Mode.Path()))
	}
	return remote(fmt.Errorf("%w: %w", ErrIdentityUnavailable, err))
}

func (o *Orchestrator) fail(flow *Flow, err error) error {
	flow.State = domain.CheckoutStateFailed
	return err
}

// Submit places the order for a READY flow. Validation and remote failures
// keep the flow READY so the user can correct and retry.
func (o *Orchestrator) Submit(ctx context.Context, flow *Flow, pickupDate string) (*Confirmation, error) {
	if flow.State != domain.CheckoutStateReady {
		return nil, fmt.Errorf("%w: submit from %s", IllegalTransitionError, flow.State)
	}
	pickup, err := o.ValidatePickupDate(pickupDate)
	if err != nil {
		return nil, err
	}

	if err := flow.transition(domain.CheckoutStateSubmitting); err != nil {
		return nil, err
	}
	draft := domain.NewOrderDraft(flow.Lines, flow.Address.ID, pickup)
	log := o.log.WithFields(logrus.Fields{"mode": flow.Mode.Name(), "items": len(draft.Items), "total": draft.TotalAmount})

	result, err := o.remote.Checkout(ctx, flow.token, draft)
	if err != nil {
		log.WithError(err).Error("checkout submission failed")
		flow.State = domain.CheckoutStateReady
		return nil, remote(fmt.Errorf("%w: %w", ErrOrderFailed, err))
	}
	if result.TransactionID == "" {
		msg := result.Message
		if msg == "" {
			msg = ErrNoTransaction.Error()
		}
		log.WithField("message", result.Message).Error("checkout response without transaction id")
		flow.State = domain.CheckoutStateReady
		return nil, remote(fmt.Errorf("%w: %w: %s", ErrOrderFailed, ErrNoTransaction, msg))
	}
	if err := flow.transition(domain.CheckoutStateSucceeded); err != nil {
		return nil, err
	}

	if _, ok := flow.Mode.(CartCheckout); ok && flow.cart != nil {
		for _, line := range flow.Lines {
			flow.cart.Remove(ctx, line.ID)
		}
	}

	o.publish(ctx, flow, draft, result.TransactionID)
	log.WithField("order_id", result.TransactionID).Info("order placed")

	return &Confirmation{
		OrderID:  result.TransactionID,
		Redirect: successPath + "?orderId=" + result.TransactionID.String(),
	}, nil
}

// ValidatePickupDate parses a yyyy-MM-dd pickup date in the store location
// and rejects dates before today. It makes no remote call, so callers check
// it before Begin.
func (o *Orchestrator) ValidatePickupDate(raw string) (time.Time, error) {
	date, err := o.parsePickupDate(raw)
	if err != nil {
		return time.Time{}, validation(err)
	}
	return date, nil
}

func (o *Orchestrator) parsePickupDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrPickupDateRequired
	}
	date, err := time.ParseInLocation(domain.PickupDateLayout, raw, o.loc)
	if err != nil {
		return time.Time{}, ErrInvalidPickupDate
	}
	now := o.now().In(o.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, o.loc)
	if date.Before(today) {
		return time.Time{}, ErrPickupDateInPast
	}
	return date, nil
}

func (o *Orchestrator) publish(ctx context.Context, flow *Flow, draft domain.OrderDraft, id domain.TransactionID) {
	event := events.OrderPlaced{
		OrderID:     id.String(),
		Mode:        flow.Mode.Name(),
		Items:       draft.Items,
		TotalAmount: draft.TotalAmount,
		PickupDate:  draft.PickupDate,
		PlacedAt:    o.now().UTC(),
	}
	if flow.cart != nil {
		event.SessionID = flow.cart.Session()
	}
	if flow.Profile != nil {
		event.UserID = flow.Profile.ID
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := o.publisher.OrderPlaced(ctx, event); err != nil {
		o.log.WithError(err).WithField("order_id", event.OrderID).Warn("publish order placed event")
	}
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kadeksinduarta/selat-frontend/internal/cart"
	"github.com/kadeksinduarta/selat-frontend/internal/checkout"
	"github.com/kadeksinduarta/selat-frontend/internal/domain"
	"github.com/kadeksinduarta/selat-frontend/internal/session"
)

type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
	carts        *cart.Service
	images       ImageResolver
	timeout      time.Duration
}

func NewCheckoutHandler(orchestrator *checkout.Orchestrator, carts *cart.Service, images ImageResolver, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: orchestrator,
		carts:        carts,
		images:       images,
		timeout:      timeout,
	}
}

type CheckoutViewDTO struct {
	Mode           string          `json:"mode"`
	State          string          `json:"state"`
	Items          []CartItemDTO   `json:"items"`
	Total          int64           `json:"total"`
	TotalFormatted string          `json:"total_formatted"`
	Profile        *domain.Profile `json:"profile"`
	Address        *domain.Address `json:"address"`
	PaymentMethod  string          `json:"payment_method"`
}

type SubmitCheckoutRequestDTO struct {
	PickupDate string `json:"pickup_date"`
}

type SubmitCheckoutResponseDTO struct {
	OrderID  string `json:"order_id"`
	Redirect string `json:"redirect"`
}

func (h *CheckoutHandler) begin(ctx context.Context, r *http.Request) (*checkout.Flow, error) {
	claims := session.FromContext(r.Context())
	mode := checkout.ParseMode(r.URL.Query())
	return h.orchestrator.Begin(ctx, claims.Token, mode, h.carts.Session(claims.SessionID))
}

// GET /api/v1/checkout?mode=&product_id=&qty=&items=
func (h *CheckoutHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	flow, err := h.begin(ctx, r)
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	total := flow.Total()
	respondJSON(w, http.StatusOK, CheckoutViewDTO{
		Mode:           flow.Mode.Name(),
		State:          flow.State.String(),
		Items:          h.images.cartItems(flow.Lines),
		Total:          total,
		TotalFormatted: domain.FormatRupiah(total),
		Profile:        flow.Profile,
		Address:        flow.Address,
		PaymentMethod:  domain.PaymentMethodTransfer,
	})
}

// POST /api/v1/checkout?mode=&product_id=&qty=&items=
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SubmitCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if _, err := h.orchestrator.ValidatePickupDate(req.PickupDate); err != nil {
		handleCheckoutError(w, err)
		return
	}

	flow, err := h.begin(ctx, r)
	if err != nil {
		handleCheckoutError(w, err)
		return
	}
	confirmation, err := h.orchestrator.Submit(ctx, flow, req.PickupDate)
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, SubmitCheckoutResponseDTO{
		OrderID:  confirmation.OrderID.String(),
		Redirect: confirmation.Redirect,
	})
}

var checkoutErrorCodes = []struct {
	err  error
	code string
}{
	{checkout.ErrUnauthenticated, "unauthenticated"},
	{checkout.ErrEmptyCart, "empty_cart"},
	{checkout.ErrSelectionMissing, "selection_missing"},
	{checkout.ErrNothingSelected, "nothing_selected"},
	{checkout.ErrNoAddress, "no_address"},
	{checkout.ErrProductNotFound, "product_not_found"},
	{checkout.ErrOutOfStock, "out_of_stock"},
	{checkout.ErrPickupDateRequired, "pickup_date_required"},
	{checkout.ErrInvalidPickupDate, "invalid_pickup_date"},
	{checkout.ErrPickupDateInPast, "pickup_date_in_past"},
	{checkout.ErrNoTransaction, "no_transaction"},
	{checkout.ErrIdentityUnavailable, "identity_unavailable"},
	{checkout.ErrOrderFailed, "order_failed"},
}

func checkoutErrorCode(err error) string {
	for _, c := range checkoutErrorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "checkout_failed"
}

func handleCheckoutError(w http.ResponseWriter, err error) {
	var cErr *checkout.Error
	if !errors.As(err, &cErr) {
		if errors.Is(err, checkout.IllegalTransitionError) {
			respondError(w, http.StatusConflict, "illegal_transition", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	var status int
	switch cErr.Kind {
	case checkout.KindPrecondition:
		status = http.StatusConflict
		if errors.Is(cErr, checkout.ErrUnauthenticated) {
			status = http.StatusUnauthorized
		}
	case checkout.KindNotFound:
		status = http.StatusNotFound
	case checkout.KindValidation:
		status = http.StatusUnprocessableEntity
	case checkout.KindRemote:
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	respondJSON(w, status, ErrorResponse{
		Error:    cErr.Error(),
		Code:     checkoutErrorCode(cErr),
		Details:  cErr.Kind.String(),
		Redirect: cErr.Redirect,
	})
}

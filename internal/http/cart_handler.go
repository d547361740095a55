package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kadeksinduarta/selat-frontend/internal/cart"
	"github.com/kadeksinduarta/selat-frontend/internal/checkout"
	"github.com/kadeksinduarta/selat-frontend/internal/session"
	"github.com/sirupsen/logrus"
)

const sseHeartbeat = 25 * time.Second

type CartHandler struct {
	carts   *cart.Service
	catalog Catalog
	events  cart.Subscriber
	images  ImageResolver
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewCartHandler(carts *cart.Service, catalog Catalog, events cart.Subscriber, images ImageResolver, timeout time.Duration, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
		events:  events,
		images:  images,
		timeout: timeout,
		log:     log,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type SelectionRequestDTO struct {
	IDs []int64 `json:"ids"`
}

type SelectionResponseDTO struct {
	Items          []CartItemDTO `json:"items"`
	Total          int64         `json:"total"`
	TotalFormatted string        `json:"total_formatted"`
	CheckoutURL    string        `json:"checkout_url"`
}

func (h *CartHandler) store(r *http.Request) *cart.Store {
	return h.carts.Session(session.FromContext(r.Context()).SessionID)
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	items := h.store(r).Items(r.Context())
	resp := h.images.cart(items)
	if len(items) > 0 {
		resp.CheckoutURL = checkout.CartCheckout{Selection: cart.SelectAll(items), Provided: true}.Path()
	}
	respondJSON(w, http.StatusOK, resp)
}

// GET /api/v1/cart/summary
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	store := h.store(r)
	respondJSON(w, http.StatusOK, summary(store.Count(r.Context()), store.Total(r.Context())))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	product, err := h.catalog.Fresh(ctx, req.ProductID)
	if err != nil {
		handleRemoteError(w, err)
		return
	}
	if !product.InStock() {
		respondError(w, http.StatusConflict, "out_of_stock", fmt.Sprintf("%s is out of stock", product.Name))
		return
	}

	items := h.store(r).Add(ctx, *product, req.Quantity)
	respondJSON(w, http.StatusCreated, h.images.cart(items))
}

// PUT /api/v1/cart/items/{product_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	items := h.store(r).UpdateQuantity(r.Context(), productID, req.Quantity)
	respondJSON(w, http.StatusOK, h.images.cart(items))
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	items := h.store(r).Remove(r.Context(), productID)
	respondJSON(w, http.StatusOK, h.images.cart(items))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	items := h.store(r).Clear(r.Context())
	respondJSON(w, http.StatusOK, h.images.cart(items))
}

// POST /api/v1/cart/selection
func (h *CartHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	items := h.store(r).Items(r.Context())
	selection := cart.NewSelection(req.IDs...).Prune(items)
	if selection.Len() == 0 {
		respondError(w, http.StatusUnprocessableEntity, "nothing_selected", checkout.ErrNothingSelected.Error())
		return
	}

	selected := selection.Filter(items)
	resp := h.images.cart(selected)
	respondJSON(w, http.StatusOK, SelectionResponseDTO{
		Items:          resp.Items,
		Total:          resp.Total,
		TotalFormatted: resp.TotalFormatted,
		CheckoutURL:    checkout.CartCheckout{Selection: selection, Provided: true}.Path(),
	})
}

// GET /api/v1/cart/events
func (h *CartHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming unsupported")
		return
	}
	ctx := r.Context()
	store := h.store(r)

	events, cancel := h.events.Subscribe(ctx, store.Session())
	defer cancel()
	h.log.WithField("session", store.Session()).Debug("cart event stream opened")

	// long-lived stream; the server write timeout must not cut it
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, summary(store.Count(ctx), store.Total(ctx))); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, summary(event.Count, event.Total)); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, data CartSummaryDTO) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: cart\ndata: %s\n\n", payload)
	return err
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}

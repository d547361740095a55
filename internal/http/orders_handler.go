package http

import (
	"context"
	"net/http"
	"time"

	"github.com/kadeksinduarta/selat-frontend/internal/checkout"
	"github.com/kadeksinduarta/selat-frontend/internal/domain"
	"github.com/kadeksinduarta/selat-frontend/internal/session"
)

type TransactionLister interface {
	Transactions(ctx context.Context, token, status string) ([]domain.Transaction, error)
}

type OrdersHandler struct {
	transactions TransactionLister
	timeout      time.Duration
}

func NewOrdersHandler(transactions TransactionLister, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		transactions: transactions,
		timeout:      timeout,
	}
}

type OrderResponseDTO struct {
	domain.Transaction
	TotalFormatted string `json:"total_formatted"`
}

// GET /api/v1/orders?status=
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	claims := session.FromContext(r.Context())
	if !claims.Authenticated() {
		respondJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:    "missing user authentication",
			Code:     "unauthenticated",
			Redirect: checkout.LoginRedirect("/profile/orders"),
		})
		return
	}

	txs, err := h.transactions.Transactions(ctx, claims.Token, r.URL.Query().Get("status"))
	if err != nil {
		handleRemoteError(w, err)
		return
	}

	out := make([]OrderResponseDTO, 0, len(txs))
	for _, tx := range txs {
		out = append(out, OrderResponseDTO{Transaction: tx, TotalFormatted: domain.FormatRupiah(tx.TotalAmount)})
	}
	respondJSON(w, http.StatusOK, out)
}

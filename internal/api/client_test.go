package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kadeksinduarta/selat-frontend/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL}, testLogger())
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "http://localhost:8000/api"},
		{"http://api.example.com", "http://api.example.com/api"},
		{"http://api.example.com/", "http://api.example.com/api"},
		{"http://api.example.com/api", "http://api.example.com/api"},
		{"http://api.example.com/api/", "http://api.example.com/api"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBaseURL(tt.in))
		})
	}
}

func TestStorageURL(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://api.example.com/api"}, testLogger())

	assert.Equal(t, "", c.StorageURL(""))
	assert.Equal(t, "https://cdn.example.com/a.jpg", c.StorageURL("https://cdn.example.com/a.jpg"))
	assert.Equal(t, "http://api.example.com/storage/products/a.jpg", c.StorageURL("products/a.jpg"))
	assert.Equal(t, "http://api.example.com/storage/products/a.jpg", c.StorageURL("storage/products/a.jpg"))
}

func TestProducts_UnwrapsDataEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = io.WriteString(w, `{"data":[{"id":1,"name":"Beras","price":"15000.00","stock":4},{"id":2,"name":"Madu","price":5000,"stock":0}]}`)
	})

	products, err := c.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(15000), products[0].Price)
	assert.Equal(t, 4, products[0].Stock)
	assert.Equal(t, int64(5000), products[1].Price)
}

func TestProduct_BareObject(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/7", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":7,"name":"Kopi","price":20000,"stock":2,"image":"products/kopi.jpg"}`)
	})

	p, err := c.Product(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, domain.Product{ID: 7, Name: "Kopi", Price: 20000, Stock: 2, Image: "products/kopi.jpg"}, *p)
}

func TestProduct_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Product not found"}`)
	})

	_, err := c.Product(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Product not found", err.Error())
}

func TestError_FallbackMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	_, err := c.Products(context.Background())
	require.Error(t, err)
	assert.Equal(t, "API Error: 422", err.Error())
}

func TestError_PayloadTooLarge(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	})

	_, err := c.Products(context.Background())
	require.Error(t, err)
	assert.Equal(t, "file too large (max 10MB)", err.Error())
}

func TestProfile_SendsBearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"id":3,"name":"Wayan","email":"wayan@example.com","phone":"0812"}}`)
	})

	p, err := c.Profile(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "Wayan", p.Name)

	_, err = c.Profile(context.Background(), "other")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestAddresses_FlexibleDefaultFlag(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"id":1,"is_default":0,"recipient_name":"A","phone_number":"1","full_address":"Jl. Satu"},
			{"id":2,"is_default":"1","recipient_name":"B","phone_number":"2","full_address":"Jl. Dua","district":"Kuta","village":"Selat","postal_code":"80361"}
		]`)
	})

	addrs, err := c.Addresses(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.False(t, addrs[0].IsDefault)
	assert.True(t, addrs[1].IsDefault)
	assert.Equal(t, int64(2), domain.DefaultAddress(addrs).ID)
}

func TestCheckout_PostsDraft(t *testing.T) {
	var got domain.OrderDraft
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/checkout", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"ok","transaction":{"id":42}}`)
	})

	draft := domain.OrderDraft{
		Items:             []domain.OrderLine{{ProductID: 1, Qty: 3, Price: 15000}},
		TotalAmount:       45000,
		ShippingAddressID: 2,
		PaymentMethod:     domain.PaymentMethodTransfer,
		PickupDate:        "2026-11-01",
	}
	res, err := c.Checkout(context.Background(), "tok", draft)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionID("42"), res.TransactionID)
	assert.Equal(t, draft, got)
}

func TestCheckout_MissingTransaction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"message":"queued"}`)
	})

	res, err := c.Checkout(context.Background(), "tok", domain.OrderDraft{})
	require.NoError(t, err)
	assert.Empty(t, res.TransactionID)
	assert.Equal(t, "queued", res.Message)
}

func TestTransactions_StatusFilter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transactions", r.URL.Path)
		assert.Equal(t, "pending", r.URL.Query().Get("status"))
		_, _ = io.WriteString(w, `{"data":[{"id":"TRX-1","status":"pending","total_amount":"45000.00","items":[{"product_id":1,"qty":3,"price":"15000.00","product":{"name":"Beras"}}]}]}`)
	})

	txs, err := c.Transactions(context.Background(), "tok", "pending")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, domain.TransactionID("TRX-1"), txs[0].ID)
	assert.Equal(t, int64(45000), txs[0].TotalAmount)
	assert.Equal(t, "Beras", txs[0].Items[0].ProductName)
}

func TestLogin_ReturnsToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"token":"tok-9","user":{"id":1,"name":"Made","email":"made@example.com"}}`)
	})

	res, err := c.Login(context.Background(), Credentials{Email: "made@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok-9", res.Token)
	assert.Equal(t, "Made", res.User.Name)

	_, err = c.Login(context.Background(), Credentials{Email: "made@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		_, err := c.Products(context.Background())
		require.Error(t, err)
	}
	_, err := c.Products(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
	assert.Equal(t, 5, calls)
}

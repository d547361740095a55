package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const (
	PaymentMethodTransfer = "transfer"
	PickupDateLayout      = "2006-01-02"
)

type OrderLine struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
	Price     int64 `json:"price"`
}

// OrderDraft is the payload submitted to create a remote transaction.
type OrderDraft struct {
	Items             []OrderLine `json:"items"`
	TotalAmount       int64       `json:"total_amount"`
	ShippingAddressID int64       `json:"shipping_address_id"`
	PaymentMethod     string      `json:"payment_method"`
	PickupDate        string      `json:"pickup_date"`
}

// NewOrderDraft captures prices from the resolved lines and derives the total
// from them.
func NewOrderDraft(lines []CartItem, addressID int64, pickup time.Time) OrderDraft {
	draft := OrderDraft{
		Items:             make([]OrderLine, 0, len(lines)),
		ShippingAddressID: addressID,
		PaymentMethod:     PaymentMethodTransfer,
		PickupDate:        pickup.Format(PickupDateLayout),
	}
	for _, line := range lines {
		draft.Items = append(draft.Items, OrderLine{
			ProductID: line.ID,
			Qty:       line.Quantity,
			Price:     line.Price,
		})
		draft.TotalAmount += line.Subtotal()
	}
	return draft
}

// TransactionID accepts both numeric and string identifiers from the API.
type TransactionID string

func (id *TransactionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TransactionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("transaction id: %w", err)
	}
	*id = TransactionID(n.String())
	return nil
}

func (id TransactionID) String() string {
	return string(id)
}

type TransactionItem struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Qty         int    `json:"qty"`
	Price       int64  `json:"price"`
}

type Transaction struct {
	ID          TransactionID     `json:"id"`
	Status      string            `json:"status"`
	TotalAmount int64             `json:"total_amount"`
	PickupDate  string            `json:"pickup_date,omitempty"`
	CreatedAt   string            `json:"created_at,omitempty"`
	Items       []TransactionItem `json:"items,omitempty"`
}

package domain

// CartItem is a product snapshot extended with a quantity.
type CartItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Image       string `json:"image,omitempty"`
	Quantity    int    `json:"quantity"`
}

func NewCartItem(p Product, quantity int) CartItem {
	return CartItem{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Image:       p.Image,
		Quantity:    ClampQuantity(quantity, p.Stock),
	}
}

func (i CartItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// ClampQuantity bounds q to [1, stock]. A stock below one still yields one;
// callers that care about availability check stock first.
func ClampQuantity(q, stock int) int {
	if q > stock {
		q = stock
	}
	if q < 1 {
		q = 1
	}
	return q
}

func SumTotal(items []CartItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

func SumQuantity(items []CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

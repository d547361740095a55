package domain

type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Image       string `json:"image,omitempty"`
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

type Article struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Excerpt     string `json:"excerpt,omitempty"`
	Content     string `json:"content,omitempty"`
	Image       string `json:"image,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

type Profile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Address is owned by the remote API; the storefront only reads it.
type Address struct {
	ID            int64  `json:"id"`
	IsDefault     bool   `json:"is_default"`
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone_number"`
	FullAddress   string `json:"full_address"`
	District      string `json:"district"`
	Village       string `json:"village"`
	PostalCode    string `json:"postal_code"`
}

// DefaultAddress returns the address flagged as default, falling back to the
// first one. It returns nil when the list is empty.
func DefaultAddress(addresses []Address) *Address {
	for i := range addresses {
		if addresses[i].IsDefault {
			return &addresses[i]
		}
	}
	if len(addresses) == 0 {
		return nil
	}
	return &addresses[0]
}

package api

import (
	"fmt"
	"strings"

	"github.com/kadeksinduarta/selat-frontend/internal/domain"
	"github.com/shopspring/decimal"
)

// flexBool accepts true/false as well as the 0/1 flags some backends emit.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "true", "1":
		*b = true
	case "false", "0", "", "null":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}

type productDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Image       string          `json:"image"`
}

func (p productDTO) toDomain() domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.IntPart(),
		Stock:       p.Stock,
		Image:       p.Image,
	}
}

type articleDTO struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Excerpt     string `json:"excerpt"`
	Content     string `json:"content"`
	Image       string `json:"image"`
	PublishedAt string `json:"published_at"`
	CreatedAt   string `json:"created_at"`
}

func (a articleDTO) toDomain() domain.Article {
	published := a.PublishedAt
	if published == "" {
		published = a.CreatedAt
	}
	return domain.Article{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Excerpt:     a.Excerpt,
		Content:     a.Content,
		Image:       a.Image,
		PublishedAt: published,
	}
}

type profileDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type addressDTO struct {
	ID            int64    `json:"id"`
	IsDefault     flexBool `json:"is_default"`
	RecipientName string   `json:"recipient_name"`
	PhoneNumber   string   `json:"phone_number"`
	Phone         string   `json:"phone"`
	FullAddress   string   `json:"full_address"`
	Address       string   `json:"address"`
	District      string   `json:"district"`
	City          string   `json:"city"`
	Village       string   `json:"village"`
	Province      string   `json:"province"`
	PostalCode    string   `json:"postal_code"`
}

func (a addressDTO) toDomain() domain.Address {
	return domain.Address{
		ID:            a.ID,
		IsDefault:     bool(a.IsDefault),
		RecipientName: a.RecipientName,
		Phone:         firstNonEmpty(a.PhoneNumber, a.Phone),
		FullAddress:   firstNonEmpty(a.FullAddress, a.Address),
		District:      firstNonEmpty(a.District, a.City),
		Village:       firstNonEmpty(a.Village, a.Province),
		PostalCode:    a.PostalCode,
	}
}

type transactionItemDTO struct {
	ProductID int64           `json:"product_id"`
	Qty       int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	Product   *struct {
		Name string `json:"name"`
	} `json:"product"`
}

type transactionDTO struct {
	ID          domain.TransactionID `json:"id"`
	Status      string               `json:"status"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
	PickupDate  string               `json:"pickup_date"`
	CreatedAt   string               `json:"created_at"`
	Items       []transactionItemDTO `json:"items"`
}

func (t transactionDTO) toDomain() domain.Transaction {
	tx := domain.Transaction{
		ID:          t.ID,
		Status:      t.Status,
		TotalAmount: t.TotalAmount.IntPart(),
		PickupDate:  t.PickupDate,
		CreatedAt:   t.CreatedAt,
		Items:       make([]domain.TransactionItem, 0, len(t.Items)),
	}
	for _, item := range t.Items {
		ti := domain.TransactionItem{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			Price:     item.Price.IntPart(),
		}
		if item.Product != nil {
			ti.ProductName = item.Product.Name
		}
		tx.Items = append(tx.Items, ti)
	}
	return tx
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

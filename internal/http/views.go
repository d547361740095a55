package http

import (
	"github.com/kadeksinduarta/selat-frontend/internal/domain"
)

// ImageResolver turns a stored file path into a public URL.
type ImageResolver func(path string) string

type ProductDTO struct {
	domain.Product
	ImageURL       string `json:"image_url,omitempty"`
	PriceFormatted string `json:"price_formatted"`
}

type ArticleDTO struct {
	domain.Article
	ImageURL string `json:"image_url,omitempty"`
}

type CartItemDTO struct {
	domain.CartItem
	ImageURL          string `json:"image_url,omitempty"`
	Subtotal          int64  `json:"subtotal"`
	SubtotalFormatted string `json:"subtotal_formatted"`
}

type CartResponseDTO struct {
	Items          []CartItemDTO `json:"items"`
	Count          int           `json:"count"`
	Total          int64         `json:"total"`
	TotalFormatted string        `json:"total_formatted"`
	CheckoutURL    string        `json:"checkout_url,omitempty"`
}

type CartSummaryDTO struct {
	Count          int    `json:"count"`
	Total          int64  `json:"total"`
	TotalFormatted string `json:"total_formatted"`
}

func (resolve ImageResolver) url(path string) string {
	if resolve == nil {
		return path
	}
	return resolve(path)
}

func (resolve ImageResolver) product(p domain.Product) ProductDTO {
	return ProductDTO{
		Product:        p,
		ImageURL:       resolve.url(p.Image),
		PriceFormatted: domain.FormatRupiah(p.Price),
	}
}

func (resolve ImageResolver) products(ps []domain.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, resolve.product(p))
	}
	return out
}

func (resolve ImageResolver) article(a domain.Article) ArticleDTO {
	return ArticleDTO{Article: a, ImageURL: resolve.url(a.Image)}
}

func (resolve ImageResolver) cartItems(items []domain.CartItem) []CartItemDTO {
	out := make([]CartItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, CartItemDTO{
			CartItem:          item,
			ImageURL:          resolve.url(item.Image),
			Subtotal:          item.Subtotal(),
			SubtotalFormatted: domain.FormatRupiah(item.Subtotal()),
		})
	}
	return out
}

func (resolve ImageResolver) cart(items []domain.CartItem) CartResponseDTO {
	total := domain.SumTotal(items)
	return CartResponseDTO{
		Items:          resolve.cartItems(items),
		Count:          domain.SumQuantity(items),
		Total:          total,
		TotalFormatted: domain.FormatRupiah(total),
	}
}

func summary(count int, total int64) CartSummaryDTO {
	return CartSummaryDTO{Count: count, Total: total, TotalFormatted: domain.FormatRupiah(total)}
}

package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/kadeksinduarta/selat-frontend/internal/domain"
)

func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var dtos []productDTO
	if err := c.get(ctx, "products", "", &dtos); err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(dtos))
	for _, p := range dtos {
		products = append(products, p.toDomain())
	}
	return products, nil
}

func (c *Client) Product(ctx context.Context, id int64) (*domain.Product, error) {
	var dto productDTO
	if err := c.get(ctx, fmt.Sprintf("products/%d", id), "", &dto); err != nil {
		return nil, err
	}
	if dto.ID == 0 {
		return nil, ErrNotFound
	}
	p := dto.toDomain()
	return &p, nil
}

func (c *Client) Articles(ctx context.Context) ([]domain.Article, error) {
	var dtos []articleDTO
	if err := c.get(ctx, "articles", "", &dtos); err != nil {
		return nil, err
	}
	articles := make([]domain.Article, 0, len(dtos))
	for _, a := range dtos {
		articles = append(articles, a.toDomain())
	}
	return articles, nil
}

func (c *Client) Article(ctx context.Context, slug string) (*domain.Article, error) {
	var dto articleDTO
	if err := c.get(ctx, "articles/"+url.PathEscape(slug), "", &dto); err != nil {
		return nil, err
	}
	if dto.ID == 0 && dto.Slug == "" {
		return nil, ErrNotFound
	}
	a := dto.toDomain()
	return &a, nil
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Phone                string `json:"phone,omitempty"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type AuthResult struct {
	Token string         `json:"token"`
	User  domain.Profile `json:"user"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	return c.authenticate(ctx, "login", creds)
}

func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResult, error) {
	return c.authenticate(ctx, "register", reg)
}

func (c *Client) authenticate(ctx context.Context, path string, in any) (*AuthResult, error) {
	var out struct {
		Token   string     `json:"token"`
		User    profileDTO `json:"user"`
		Message string     `json:"message"`
	}
	if err := c.post(ctx, path, "", in, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &Error{Status: 401, Message: out.Message}
	}
	return &AuthResult{
		Token: out.Token,
		User:  domain.Profile(out.User),
	}, nil
}

func (c *Client) Profile(ctx context.Context, token string) (*domain.Profile, error) {
	var dto profileDTO
	if err := c.get(ctx, "profile", token, &dto); err != nil {
		return nil, err
	}
	p := domain.Profile(dto)
	return &p, nil
}

func (c *Client) Addresses(ctx context.Context, token string) ([]domain.Address, error) {
	var dtos []addressDTO
	if err := c.get(ctx, "addresses", token, &dtos); err != nil {
		return nil, err
	}
	addresses := make([]domain.Address, 0, len(dtos))
	for _, a := range dtos {
		addresses = append(addresses, a.toDomain())
	}
	return addresses, nil
}

type CheckoutResult struct {
	TransactionID domain.TransactionID
	Message       string
}

// Checkout submits the draft. A 2xx answer without a transaction id comes
// back with an empty TransactionID; callers decide what that means.
func (c *Client) Checkout(ctx context.Context, token string, draft domain.OrderDraft) (*CheckoutResult, error) {
	var out struct {
		Transaction *struct {
			ID domain.TransactionID `json:"id"`
		} `json:"transaction"`
		Message string `json:"message"`
	}
	if err := c.post(ctx, "checkout", token, draft, &out); err != nil {
		return nil, err
	}
	result := &CheckoutResult{Message: out.Message}
	if out.Transaction != nil {
		result.TransactionID = out.Transaction.ID
	}
	return result, nil
}

func (c *Client) Transactions(ctx context.Context, token, status string) ([]domain.Transaction, error) {
	path := "transactions"
	if status != "" && status != "all" {
		path += "?status=" + url.QueryEscape(status)
	}
	var dtos []transactionDTO
	if err := c.get(ctx, path, token, &dtos); err != nil {
		return nil, err
	}
	txs := make([]domain.Transaction, 0, len(dtos))
	for _, t := range dtos {
		txs = append(txs, t.toDomain())
	}
	return txs, nil
}

package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kadeksinduarta/selat-frontend/internal/domain"
)

type Catalog interface {
	Products(ctx context.Context, search, sortBy string) ([]domain.Product, error)
	Product(ctx context.Context, id int64) (*domain.Product, error)
	Related(ctx context.Context, id int64) ([]domain.Product, error)
	Fresh(ctx context.Context, id int64) (*domain.Product, error)
	Articles(ctx context.Context, search string) ([]domain.Article, error)
	Article(ctx context.Context, slug string) (*domain.Article, error)
}

type CatalogHandler struct {
	catalog Catalog
	images  ImageResolver
	timeout time.Duration
}

func NewCatalogHandler(catalog Catalog, images ImageResolver, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		images:  images,
		timeout: timeout,
	}
}

type ProductDetailDTO struct {
	Product ProductDTO   `json:"product"`
	Related []ProductDTO `json:"related"`
}

// GET /api/v1/products?search=&sort=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	products, err := h.catalog.Products(ctx, q.Get("search"), q.Get("sort"))
	if err != nil {
		handleRemoteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.images.products(products))
}

// GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	product, err := h.catalog.Product(ctx, id)
	if err != nil {
		handleRemoteError(w, err)
		return
	}
	related, err := h.catalog.Related(ctx, id)
	if err != nil {
		related = nil
	}

	respondJSON(w, http.StatusOK, ProductDetailDTO{
		Product: h.images.product(*product),
		Related: h.images.products(related),
	})
}

// GET /api/v1/articles?search=
func (h *CatalogHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	articles, err := h.catalog.Articles(ctx, r.URL.Query().Get("search"))
	if err != nil {
		handleRemoteError(w, err)
		return
	}

	out := make([]ArticleDTO, 0, len(articles))
	for _, a := range articles {
		out = append(out, h.images.article(a))
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /api/v1/articles/{slug}
func (h *CatalogHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	article, err := h.catalog.Article(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		handleRemoteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.images.article(*article))
}

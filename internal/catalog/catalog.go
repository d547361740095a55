package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kadeksinduarta/selat-frontend/internal/domain"
	"github.com/kadeksinduarta/selat-frontend/internal/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	SortLowHigh = "low-high"
	SortHighLow = "high-low"

	relatedLimit = 4
)

// Remote is the subset of the API client the catalog reads from.
type Remote interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id int64) (*domain.Product, error)
	Articles(ctx context.Context) ([]domain.Article, error)
	Article(ctx context.Context, slug string) (*domain.Article, error)
}

// Service serves products and articles through a read-through cache.
// Checkout never reads stock from here; it asks the remote directly.
type Service struct {
	remote Remote
	cache  storage.Storage
	sfg    singleflight.Group
	log    logrus.FieldLogger
}

func NewService(remote Remote, cache storage.Storage, log logrus.FieldLogger) *Service {
	return &Service{
		remote: remote,
		cache:  cache,
		log:    log,
	}
}

// Products lists the catalog filtered by name/description and ordered by
// price when sortBy is one of SortLowHigh or SortHighLow.
func (s *Service) Products(ctx context.Context, search, sortBy string) ([]domain.Product, error) {
	var all []domain.Product
	err := s.readThrough(ctx, "products", &all, func() (any, error) {
		return s.remote.Products(ctx)
	})
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}

	switch sortBy {
	case SortLowHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortHighLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out, nil
}

func (s *Service) Product(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := s.readThrough(ctx, fmt.Sprintf("product:%d", id), &p, func() (any, error) {
		return s.remote.Product(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Related returns up to four other products from the catalog.
func (s *Service) Related(ctx context.Context, id int64) ([]domain.Product, error) {
	all, err := s.Products(ctx, "", "")
	if err != nil {
		return nil, err
	}
	related := make([]domain.Product, 0, relatedLimit)
	for _, p := range all {
		if p.ID == id {
			continue
		}
		related = append(related, p)
		if len(related) == relatedLimit {
			break
		}
	}
	return related, nil
}

// Fresh bypasses the cache and refreshes the cached copy. Used before
// adding to the cart so the stored snapshot carries current stock.
func (s *Service) Fresh(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.remote.Product(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store(fmt.Sprintf("product:%d", id), p)
	return p, nil
}

func (s *Service) Articles(ctx context.Context, search string) ([]domain.Article, error) {
	var all []domain.Article
	err := s.readThrough(ctx, "articles", &all, func() (any, error) {
		return s.remote.Articles(ctx)
	})
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return all, nil
	}
	out := make([]domain.Article, 0, len(all))
	for _, a := range all {
		if strings.Contains(strings.ToLower(a.Title), q) || strings.Contains(strings.ToLower(a.Content), q) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Service) Article(ctx context.Context, slug string) (*domain.Article, error) {
	var a domain.Article
	err := s.readThrough(ctx, "article:"+slug, &a, func() (any, error) {
		return s.remote.Article(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// readThrough decodes key from the cache into out, falling back to load on a
// miss. Concurrent misses for the same key share one load.
func (s *Service) readThrough(ctx context.Context, key string, out any, load func() (any, error)) error {
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		if s.cache != nil {
			data, err := s.cache.Get(ctx, key)
			if err == nil {
				return data, nil
			}
			if !errors.Is(err, storage.ErrNotFound) {
				s.log.WithError(err).WithField("key", key).Warn("catalog cache get failed")
			}
		}

		fresh, err := load()
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(fresh)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}

		go s.set(key, data)

		return data, nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(v.([]byte), out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *Service) store(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("catalog cache encode failed")
		return
	}
	s.set(key, data)
}

func (s *Service) set(key string, data []byte) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, key, data); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("catalog cache set failed")
	}
}

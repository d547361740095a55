package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/kadeksinduarta/selat-frontend/internal/domain"
	"github.com/kadeksinduarta/selat-frontend/internal/storage"
	"github.com/sirupsen/logrus"
)

// StorageKey is the fixed key the cart blob lives under inside a session.
const StorageKey = "shopping_cart"

// Store is the cart of one browser session. Its operations never fail:
// storage problems are logged and degrade to an empty cart or a dropped write.
type Store struct {
	session  string
	storage  storage.Storage
	notifier Notifier
	mu       *sync.Mutex
	log      logrus.FieldLogger
}

// Items returns the persisted cart in insertion order.
func (s *Store) Items(ctx context.Context) []domain.CartItem {
	if s.storage == nil {
		return []domain.CartItem{}
	}

	data, err := s.storage.Get(ctx, s.key())
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.WithError(err).Warn("cart read failed, treating as empty")
		}
		return []domain.CartItem{}
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.log.WithError(err).Warn("cart blob corrupt, treating as empty")
		return []domain.CartItem{}
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items
}

// Add puts quantity units of product in the cart, merging with an existing
// line. The supplied snapshot is authoritative for stock, so the merged
// quantity is clamped to it. Out of stock products are not added, and an
// existing line for a product that has sold out is dropped.
func (s *Store) Add(ctx context.Context, product domain.Product, quantity int) []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.Items(ctx)
	if !product.InStock() {
		kept := items[:0]
		for _, item := range items {
			if item.ID != product.ID {
				kept = append(kept, item)
			}
		}
		if len(kept) == len(items) {
			return items
		}
		s.save(ctx, kept)
		s.notify(ctx, kept)
		return kept
	}
	if quantity < 1 {
		quantity = 1
	}

	found := false
	for i := range items {
		if items[i].ID != product.ID {
			continue
		}
		merged := domain.NewCartItem(product, items[i].Quantity+quantity)
		items[i] = merged
		found = true
		break
	}
	if !found {
		items = append(items, domain.NewCartItem(product, quantity))
	}

	s.save(ctx, items)
	s.notify(ctx, items)
	return items
}

// UpdateQuantity sets the quantity of an existing line. Values below one are
// ignored; values above the line's stock are clamped.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.Items(ctx)
	if quantity < 1 {
		return items
	}

	for i := range items {
		if items[i].ID != productID {
			continue
		}
		items[i].Quantity = domain.ClampQuantity(quantity, items[i].Stock)
		s.save(ctx, items)
		s.notify(ctx, items)
		return items
	}
	return items
}

func (s *Store) Remove(ctx context.Context, productID int64) []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.Items(ctx)
	kept := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID != productID {
			kept = append(kept, item)
		}
	}

	s.save(ctx, kept)
	s.notify(ctx, kept)
	return kept
}

func (s *Store) Clear(ctx context.Context) []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.storage != nil {
		if err := s.storage.Delete(ctx, s.key()); err != nil {
			s.log.WithError(err).Warn("cart clear failed")
		}
	}

	empty := []domain.CartItem{}
	s.notify(ctx, empty)
	return empty
}

func (s *Store) Total(ctx context.Context) int64 {
	return domain.SumTotal(s.Items(ctx))
}

func (s *Store) Count(ctx context.Context) int {
	return domain.SumQuantity(s.Items(ctx))
}

func (s *Store) Session() string {
	return s.session
}

func (s *Store) save(ctx context.Context, items []domain.CartItem) {
	if s.storage == nil {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		s.log.WithError(err).Error("marshal cart failed")
		return
	}
	if err := s.storage.Set(ctx, s.key(), data); err != nil {
		s.log.WithError(err).Warn("cart write failed")
	}
}

func (s *Store) notify(ctx context.Context, items []domain.CartItem) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(ctx, Event{
		Session: s.session,
		Count:   domain.SumQuantity(items),
		Total:   domain.SumTotal(items),
	})
}

func (s *Store) key() string {
	return fmt.Sprintf("%s:%s", s.session, StorageKey)
}

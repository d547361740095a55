package cart

import (
	"strconv"
	"strings"

	"github.com/kadeksinduarta/selat-frontend/internal/domain"
)

// Selection is the ordered set of cart ids marked for checkout. It travels as
// the comma-separated "items" parameter and is never persisted.
type Selection struct {
	ids []int64
}

func NewSelection(ids ...int64) Selection {
	var s Selection
	for _, id := range ids {
		if !s.Contains(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// ParseSelection reads "1,3". Entries that are not integers are skipped since
// they can never name a cart line.
func ParseSelection(raw string) Selection {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return NewSelection(ids...)
}

// SelectAll selects every line, in cart order. The cart view offers it as the
// default checkout link.
func SelectAll(items []domain.CartItem) Selection {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return NewSelection(ids...)
}

func (s Selection) Contains(id int64) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

func (s Selection) Len() int {
	return len(s.ids)
}

func (s Selection) IDs() []int64 {
	out := make([]int64, len(s.ids))
	copy(out, s.ids)
	return out
}

// Prune drops ids that no longer reference a line of items.
func (s Selection) Prune(items []domain.CartItem) Selection {
	var kept []int64
	for _, id := range s.ids {
		for _, item := range items {
			if item.ID == id {
				kept = append(kept, id)
				break
			}
		}
	}
	return Selection{ids: kept}
}

// Filter returns the selected lines in cart order.
func (s Selection) Filter(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(s.ids))
	for _, item := range items {
		if s.Contains(item.ID) {
			out = append(out, item)
		}
	}
	return out
}

func (s Selection) String() string {
	parts := make([]string, len(s.ids))
	for i, id := range s.ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

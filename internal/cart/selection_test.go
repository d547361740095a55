package cart

import (
	"testing"

	"github.com/kadeksinduarta/selat-frontend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseSelection(t *testing.T) {
	s := ParseSelection("1, 3,abc,,3")
	assert.Equal(t, []int64{1, 3}, s.IDs())
	assert.Equal(t, "1,3", s.String())
	assert.Equal(t, 0, ParseSelection("").Len())
}

func TestSelection_PruneAndFilter(t *testing.T) {
	items := []domain.CartItem{{ID: 1}, {ID: 2}, {ID: 3}}

	s := NewSelection(3, 1, 7)
	assert.Equal(t, []int64{3, 1}, s.Prune(items).IDs())

	filtered := s.Filter(items)
	assert.Len(t, filtered, 2)
	assert.Equal(t, int64(1), filtered[0].ID)
	assert.Equal(t, int64(3), filtered[1].ID)

	assert.Equal(t, "1,2,3", SelectAll(items).String())
}

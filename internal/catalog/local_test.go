package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokoline/tokochat/internal/chat"
)

func TestLocalCatalog_SearchByName(t *testing.T) {
	c := NewLocalCatalog()

	products, err := c.Search(context.Background(), "gamis", chat.SearchFilters{}, 1, 10, nil)
	require.NoError(t, err)
	require.NotEmpty(t, products)
	for _, p := range products {
		assert.Contains(t, []string{"gamis"}, p.Category)
	}
}

func TestLocalCatalog_Filters(t *testing.T) {
	c := NewLocalCatalog()

	products, err := c.Search(context.Background(), "gamis", chat.SearchFilters{Color: "hitam", Size: "m"}, 1, 10, nil)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Gamis Zahra Premium", products[0].Name)
}

func TestLocalCatalog_CategoryQuery(t *testing.T) {
	c := NewLocalCatalog()

	// Query matches category even when no product name contains it.
	products, err := c.Search(context.Background(), "hijab", chat.SearchFilters{}, 1, 10, nil)
	require.NoError(t, err)
	require.NotEmpty(t, products)
}

func TestLocalCatalog_NoMatch(t *testing.T) {
	c := NewLocalCatalog()

	products, err := c.Search(context.Background(), "jaket kulit", chat.SearchFilters{}, 1, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestLocalCatalog_Pagination(t *testing.T) {
	c := NewLocalCatalogWith([]chat.Product{
		{ID: "1", Name: "Gamis A", Category: "gamis"},
		{ID: "2", Name: "Gamis B", Category: "gamis"},
		{ID: "3", Name: "Gamis C", Category: "gamis"},
	})

	page1, err := c.Search(context.Background(), "gamis", chat.SearchFilters{}, 1, 2, nil)
	require.NoError(t, err)
	require.Len(t, page1, 2)

	page2, err := c.Search(context.Background(), "gamis", chat.SearchFilters{}, 2, 2, nil)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "3", page2[0].ID)

	page3, err := c.Search(context.Background(), "gamis", chat.SearchFilters{}, 3, 2, nil)
	require.NoError(t, err)
	assert.Empty(t, page3)
}

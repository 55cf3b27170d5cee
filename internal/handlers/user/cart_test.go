package user

import (
	"context"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/models"
)

func catalogLookup(products map[gocql.UUID]models.Product) func(context.Context, gocql.UUID) (*models.Product, error) {
	return func(_ context.Context, id gocql.UUID) (*models.Product, error) {
		p, ok := products[id]
		if !ok {
			return nil, apperrors.ErrNotFound
		}
		return &p, nil
	}
}

func TestBuildCartViewEnrichesLines(t *testing.T) {
	sac := models.Product{ID: gocql.TimeUUID(), Name: "Sac en toile", Price: "10.00"}
	gourde := models.Product{ID: gocql.TimeUUID(), Name: "Gourde", Price: "7.50"}
	lines := []models.CartLine{
		{DocID: gocql.TimeUUID(), ProductID: sac.ID, Quantity: 1},
		{DocID: gocql.TimeUUID(), ProductID: gourde.ID, Quantity: 2},
	}

	items, total := buildCartView(context.Background(), lines,
		catalogLookup(map[gocql.UUID]models.Product{sac.ID: sac, gourde.ID: gourde}))

	require.Len(t, items, 2)
	assert.Equal(t, "Sac en toile", items[0].ProductName)
	assert.InDelta(t, 10.0, items[0].Price, 1e-9)
	assert.InDelta(t, 25.0, total, 1e-9)
}

func TestBuildCartViewDropsLinesWhoseProductIsGone(t *testing.T) {
	sac := models.Product{ID: gocql.TimeUUID(), Name: "Sac en toile", Price: "10.00"}
	supprime := gocql.TimeUUID() // produit retiré du catalogue depuis l'ajout
	lines := []models.CartLine{
		{DocID: gocql.TimeUUID(), ProductID: sac.ID, Quantity: 1},
		{DocID: gocql.TimeUUID(), ProductID: supprime, Quantity: 3},
	}

	items, total := buildCartView(context.Background(), lines,
		catalogLookup(map[gocql.UUID]models.Product{sac.ID: sac}))

	// La ligne orpheline disparaît de la vue, elle n'apparaît pas avec un
	// nom vide et un prix à zéro.
	require.Len(t, items, 1)
	assert.Equal(t, sac.ID, items[0].ProductID)
	assert.InDelta(t, 10.0, total, 1e-9)
}

func TestBuildCartViewEmptyCart(t *testing.T) {
	items, total := buildCartView(context.Background(), nil,
		catalogLookup(nil))
	assert.Empty(t, items)
	assert.Zero(t, total)
}

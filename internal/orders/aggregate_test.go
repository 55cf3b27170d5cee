package orders

import (
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenbag_back_end/internal/models"
)

var (
	prodA = gocql.TimeUUID() // boutique A
	prodB = gocql.TimeUUID() // boutique B
)

func owners() map[gocql.UUID]string {
	return map[gocql.UUID]string{
		prodA: "a@store.com",
		prodB: "b@store.com",
	}
}

func line(orderID string, productID gocql.UUID, price float64, qty int, ts time.Time) models.OrderLine {
	return models.OrderLine{
		LineID:           gocql.TimeUUID(),
		OrderID:          orderID,
		UserEmail:        "client@example.com",
		ProductID:        productID,
		ProductName:      "produit",
		Quantity:         qty,
		Price:            price,
		Status:           models.StatusPending,
		Timestamp:        ts,
		PaymentMethod:    models.PaymentCashOnDelivery,
		TotalOrderAmount: 99.99,
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	assert.Empty(t, Aggregate(nil, owners(), ""))
	assert.Empty(t, Aggregate([]models.OrderLine{}, owners(), "a@store.com"))
}

func TestAggregateGroupsByOrderID(t *testing.T) {
	now := time.Now()
	lines := []models.OrderLine{
		line("ord-1", prodA, 10, 1, now),
		line("ord-1", prodB, 5, 2, now),
		line("ord-1", prodA, 2.5, 4, now),
	}

	groups := Aggregate(lines, owners(), "")
	require.Len(t, groups, 1)
	g := groups[0]
	assert.Equal(t, "ord-1", g.OrderID)
	assert.Len(t, g.Lines, 3)
	// 10×1 + 5×2 + 2.5×4
	assert.InDelta(t, 30.0, g.StoreTotalAmount, 1e-9)
	// L'entête vient de la première ligne.
	assert.Equal(t, models.StatusPending, g.Status)
	assert.InDelta(t, 99.99, g.TotalOrderAmount, 1e-9)
}

func TestAggregateStoreFilterRecomputesTotal(t *testing.T) {
	now := time.Now()
	lines := []models.OrderLine{
		line("ord-1", prodA, 10, 1, now),
		line("ord-1", prodB, 5, 2, now),
	}

	groups := Aggregate(lines, owners(), "a@store.com")
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Lines, 1)
	assert.Equal(t, prodA, groups[0].Lines[0].ProductID)
	// Seules les lignes de la boutique comptent dans son total.
	assert.InDelta(t, 10.0, groups[0].StoreTotalAmount, 1e-9)
	// Le total panier complet reste celui porté par les lignes.
	assert.InDelta(t, 99.99, groups[0].TotalOrderAmount, 1e-9)
}

func TestAggregateDropsOrdersWithNoRetainedLines(t *testing.T) {
	now := time.Now()
	lines := []models.OrderLine{
		line("ord-1", prodA, 10, 1, now),
		line("ord-2", prodB, 5, 1, now.Add(-time.Minute)),
	}

	groups := Aggregate(lines, owners(), "a@store.com")
	require.Len(t, groups, 1)
	assert.Equal(t, "ord-1", groups[0].OrderID)
}

func TestAggregateSortsNewestFirst(t *testing.T) {
	now := time.Now()
	lines := []models.OrderLine{
		line("vieux", prodA, 1, 1, now.Add(-time.Hour)),
		line("recent", prodA, 1, 1, now),
		line("moyen", prodA, 1, 1, now.Add(-time.Minute)),
	}

	groups := Aggregate(lines, owners(), "")
	require.Len(t, groups, 3)
	assert.Equal(t, "recent", groups[0].OrderID)
	assert.Equal(t, "moyen", groups[1].OrderID)
	assert.Equal(t, "vieux", groups[2].OrderID)
}

func TestAggregateIgnoresMalformedLines(t *testing.T) {
	now := time.Now()
	bad := line("", prodA, 10, 1, now)
	good := line("ord-1", prodA, 10, 1, now)

	groups := Aggregate([]models.OrderLine{bad, good}, owners(), "")
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Lines, 1)
}

func TestAggregateUnknownProductExcludedByFilter(t *testing.T) {
	// Un produit supprimé du catalogue n'appartient à aucune boutique :
	// sa ligne disparaît des vues filtrées mais reste dans la vue globale.
	now := time.Now()
	orphan := line("ord-1", gocql.TimeUUID(), 10, 1, now)

	assert.Empty(t, Aggregate([]models.OrderLine{orphan}, owners(), "a@store.com"))
	assert.Len(t, Aggregate([]models.OrderLine{orphan}, owners(), ""), 1)
}

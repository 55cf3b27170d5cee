package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/models"
)

type fakeOrderLines struct {
	lines         []models.OrderLine
	statusUpdates map[string]string
}

func (f *fakeOrderLines) ListAll(_ context.Context) ([]models.OrderLine, error) {
	return f.lines, nil
}

func (f *fakeOrderLines) ListByUser(_ context.Context, email string) ([]models.OrderLine, error) {
	var out []models.OrderLine
	for _, l := range f.lines {
		if l.UserEmail == email {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeOrderLines) UpdateStatus(_ context.Context, orderID, newStatus string) error {
	if f.statusUpdates == nil {
		f.statusUpdates = map[string]string{}
	}
	f.statusUpdates[orderID] = newStatus
	return nil
}

type fakeCatalog struct {
	products []models.Product
}

func (f *fakeCatalog) ListAll(_ context.Context) ([]models.Product, error) {
	return f.products, nil
}

func TestStoreOrdersFiltersByProductOwner(t *testing.T) {
	now := time.Now()
	catalog := &fakeCatalog{products: []models.Product{
		{ID: prodA, StoreEmail: "a@store.com"},
		{ID: prodB, StoreEmail: "b@store.com"},
	}}
	store := &fakeOrderLines{lines: []models.OrderLine{
		line("ord-1", prodA, 10, 1, now),
		line("ord-1", prodB, 5, 1, now),
		line("ord-2", prodB, 5, 1, now.Add(-time.Minute)),
	}}
	svc := &Service{Orders: store, Products: catalog}

	groups, err := svc.StoreOrders(context.Background(), "a@store.com")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "ord-1", groups[0].OrderID)
	assert.Len(t, groups[0].Lines, 1)
}

func TestStoreOrdersSortsLinesBeforeGrouping(t *testing.T) {
	// L'entête du groupe vient de la ligne la plus récente, quel que soit
	// l'ordre de lecture en base.
	now := time.Now()
	older := line("ord-1", prodA, 10, 1, now.Add(-time.Hour))
	older.Status = models.StatusPending
	newer := line("ord-1", prodA, 10, 1, now)
	newer.Status = models.StatusInProgress

	catalog := &fakeCatalog{products: []models.Product{{ID: prodA, StoreEmail: "a@store.com"}}}
	store := &fakeOrderLines{lines: []models.OrderLine{older, newer}}
	svc := &Service{Orders: store, Products: catalog}

	groups, err := svc.StoreOrders(context.Background(), "a@store.com")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, models.StatusInProgress, groups[0].Status)
}

func TestUpdateStatusValidatesStatus(t *testing.T) {
	store := &fakeOrderLines{}
	svc := &Service{Orders: store}

	err := svc.UpdateStatus(context.Background(), "ord-1", "expédiée")
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Empty(t, store.statusUpdates)
}

func TestUpdateStatusDelegatesToStore(t *testing.T) {
	store := &fakeOrderLines{}
	svc := &Service{Orders: store}

	require.NoError(t, svc.UpdateStatus(context.Background(), "ord-1", models.StatusCompleted))
	assert.Equal(t, models.StatusCompleted, store.statusUpdates["ord-1"])
}

func TestUserOrdersOnlyOwnOrders(t *testing.T) {
	now := time.Now()
	mine := line("ord-1", prodA, 10, 1, now)
	other := line("ord-2", prodA, 10, 1, now)
	other.UserEmail = "autre@example.com"

	store := &fakeOrderLines{lines: []models.OrderLine{mine, other}}
	svc := &Service{Orders: store}

	groups, err := svc.UserOrders(context.Background(), "client@example.com")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "ord-1", groups[0].OrderID)
}

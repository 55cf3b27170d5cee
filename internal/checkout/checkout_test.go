package checkout

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/models"
)

type fakeCatalog struct {
	products       map[gocql.UUID]models.Product
	decrements     map[gocql.UUID]int
	failDecrements bool
}

func (f *fakeCatalog) Get(_ context.Context, id gocql.UUID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (f *fakeCatalog) DecrementStock(_ context.Context, id gocql.UUID, _ string, n int) (int, error) {
	if f.failDecrements {
		return 0, apperrors.ErrRemoteWrite
	}
	p := f.products[id]
	next := p.QuantityValue() - n
	if next < 0 {
		next = 0
	}
	p.Quantity = strconv.Itoa(next)
	f.products[id] = p
	if f.decrements == nil {
		f.decrements = map[gocql.UUID]int{}
	}
	f.decrements[id] += n
	return next, nil
}

type fakeCache struct {
	invalidated []gocql.UUID
}

func (f *fakeCache) InvalidateProduct(_ context.Context, id gocql.UUID) {
	f.invalidated = append(f.invalidated, id)
}

type fakeCart struct {
	lines []models.CartLine
}

func (f *fakeCart) ListByUser(_ context.Context, _ string) ([]models.CartLine, error) {
	return f.lines, nil
}

type fakeOrders struct {
	placed      []models.OrderLine
	clearedCart []models.CartLine
	fail        bool
}

func (f *fakeOrders) PlaceBatch(_ context.Context, lines []models.OrderLine, cart []models.CartLine) error {
	if f.fail {
		return apperrors.ErrRemoteWrite
	}
	f.placed = lines
	f.clearedCart = cart
	return nil
}

type fakeCards struct {
	saved []models.StoredCard
}

func (f *fakeCards) Save(_ context.Context, c models.StoredCard) error {
	f.saved = append(f.saved, c)
	return nil
}

type fakePayments struct {
	calls  int
	amount int64
	fail   bool
}

func (f *fakePayments) CreateIntent(_ context.Context, amountCents int64, _, _ string) (string, string, error) {
	f.calls++
	f.amount = amountCents
	if f.fail {
		return "", "", apperrors.ErrRemoteWrite
	}
	return "pi_test", "secret_test", nil
}

func fixture() (*Service, *fakeCatalog, *fakeOrders, *fakePayments, *fakeCards) {
	p1 := models.Product{ID: gocql.TimeUUID(), Name: "Sac", Category: "Accessoires",
		Price: "10.00", Quantity: "5", StoreEmail: "store@example.com"}
	p2 := models.Product{ID: gocql.TimeUUID(), Name: "Gourde", Category: "Cuisine",
		Price: "7.50", Quantity: "1", StoreEmail: "store@example.com"}

	catalog := &fakeCatalog{products: map[gocql.UUID]models.Product{p1.ID: p1, p2.ID: p2}}
	cart := &fakeCart{lines: []models.CartLine{
		{DocID: gocql.TimeUUID(), UserEmail: "client@example.com", ProductID: p1.ID, Quantity: 1, CreatedAt: time.Now()},
		{DocID: gocql.TimeUUID(), UserEmail: "client@example.com", ProductID: p2.ID, Quantity: 2, CreatedAt: time.Now()},
	}}
	orders := &fakeOrders{}
	payments := &fakePayments{}
	cards := &fakeCards{}

	svc := &Service{Catalog: catalog, Cart: cart, Orders: orders, Cards: cards, Payments: payments}
	return svc, catalog, orders, payments, cards
}

func TestPlaceOrderComputesTotalAndRepeatsItOnEveryLine(t *testing.T) {
	svc, _, orders, _, _ := fixture()

	receipt, err := svc.PlaceOrder(context.Background(),
		Request{UserEmail: "client@example.com", PaymentMethod: models.PaymentCashOnDelivery})
	require.NoError(t, err)

	// 10.00×1 + 7.50×2 = 25.00
	assert.InDelta(t, 25.0, receipt.TotalOrderAmount, 1e-9)
	require.Len(t, orders.placed, 2)
	for _, l := range orders.placed {
		assert.Equal(t, receipt.OrderID, l.OrderID)
		assert.InDelta(t, 25.0, l.TotalOrderAmount, 1e-9)
		assert.Equal(t, models.StatusPending, l.Status)
	}
	// Le batch vide aussi le panier.
	assert.Len(t, orders.clearedCart, 2)
}

func TestPlaceOrderPreservesCartOrder(t *testing.T) {
	svc, _, orders, _, _ := fixture()

	_, err := svc.PlaceOrder(context.Background(),
		Request{UserEmail: "client@example.com", PaymentMethod: models.PaymentCashOnDelivery})
	require.NoError(t, err)

	require.Len(t, orders.placed, 2)
	assert.Equal(t, "Sac", orders.placed[0].ProductName)
	assert.Equal(t, "Gourde", orders.placed[1].ProductName)
}

func TestPlaceOrderDecrementsStockWithFloorAtZero(t *testing.T) {
	svc, catalog, _, _, _ := fixture()

	_, err := svc.PlaceOrder(context.Background(),
		Request{UserEmail: "client@example.com", PaymentMethod: models.PaymentCashOnDelivery})
	require.NoError(t, err)

	for id, p := range catalog.products {
		switch p.Name {
		case "Sac":
			assert.Equal(t, 4, p.QuantityValue(), "id %s", id)
		case "Gourde":
			// 1 en stock, 2 commandés : plancher à zéro, jamais négatif.
			assert.Equal(t, 0, p.QuantityValue(), "id %s", id)
		}
	}
}

func TestPlaceOrderInvalidatesProductCacheAfterDecrement(t *testing.T) {
	svc, catalog, _, _, _ := fixture()
	productCache := &fakeCache{}
	svc.Cache = productCache

	_, err := svc.PlaceOrder(context.Background(),
		Request{UserEmail: "client@example.com", PaymentMethod: models.PaymentCashOnDelivery})
	require.NoError(t, err)

	// Une invalidation par produit décrémenté, sinon l'ajout au panier
	// verrait l'ancien stock jusqu'à expiration du TTL.
	require.Len(t, productCache.invalidated, 2)
	for _, id := range productCache.invalidated {
		assert.Contains(t, catalog.products, id)
	}
}

func TestPlaceOrderFailedDecrementSkipsCacheInvalidation(t *testing.T) {
	svc, catalog, _, _, _ := fixture()
	catalog.failDecrements = true
	productCache := &fakeCache{}
	svc.Cache = productCache

	_, err := svc.PlaceOrder(context.Background(),
		Request{UserEmail: "client@example.com", PaymentMethod: models.PaymentCashOnDelivery})
	require.NoError(t, err)

	assert.Empty(t, productCache.invalidated)
}

func TestPlaceOrderCardPathChargesBeforeWriting(t *testing.T) {
	svc, catalog, orders, payments, _ := fixture()
	payments.fail = true

	_, err := svc.PlaceOrder(context.Background(),
		Request{UserEmail: "client@example.com", PaymentMethod: models.PaymentCard})
	require.Error(t, err)

	// Paiement refusé : ni commande, ni panier vidé, ni stock touché.
	assert.Empty(t, orders.placed)
	assert.Empty(t, orders.clearedCart)
	assert.Empty(t, catalog.decrements)
}

func TestPlaceOrderCardPathReturnsClientSecret(t *testing.T) {
	svc, _, _, payments, _ := fixture()

	receipt, err := svc.PlaceOrder(context.Background(),
		Request{UserEmail: "client@example.com", PaymentMethod: models.PaymentCard})
	require.NoError(t, err)

	assert.Equal(t, "secret_test", receipt.ClientSecret)
	assert.Equal(t, 1, payments.calls)
	assert.Equal(t, int64(2500), payments.amount)
}

func TestPlaceOrderCashPathNeverTouchesStripe(t *testing.T) {
	svc, _, _, payments, _ := fixture()

	receipt, err := svc.PlaceOrder(context.Background(),
		Request{UserEmail: "client@example.com", PaymentMethod: models.PaymentCashOnDelivery})
	require.NoError(t, err)

	assert.Empty(t, receipt.ClientSecret)
	assert.Zero(t, payments.calls)
}

func TestPlaceOrderBatchFailureLeavesStockUntouched(t *testing.T) {
	svc, catalog, orders, _, _ := fixture()
	orders.fail = true

	_, err := svc.PlaceOrder(context.Background(),
		Request{UserEmail: "client@example.com", PaymentMethod: models.PaymentCashOnDelivery})
	require.ErrorIs(t, err, apperrors.ErrRemoteWrite)
	assert.Empty(t, catalog.decrements)
}

func TestPlaceOrderEmptyCartIsValidationError(t *testing.T) {
	svc, _, _, _, _ := fixture()
	svc.Cart = &fakeCart{}

	_, err := svc.PlaceOrder(context.Background(),
		Request{UserEmail: "client@example.com", PaymentMethod: models.PaymentCashOnDelivery})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPlaceOrderRejectsUnknownPaymentMethod(t *testing.T) {
	svc, _, _, _, _ := fixture()

	_, err := svc.PlaceOrder(context.Background(),
		Request{UserEmail: "client@example.com", PaymentMethod: "chèque"})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPlaceOrderSavesCardWhenRequested(t *testing.T) {
	svc, _, _, _, cards := fixture()

	_, err := svc.PlaceOrder(context.Background(), Request{
		UserEmail:     "client@example.com",
		PaymentMethod: models.PaymentCard,
		SaveCard:      &models.StoredCard{CardNumber: "4242424242424242", ExpiryDate: "12/27"},
	})
	require.NoError(t, err)

	require.Len(t, cards.saved, 1)
	assert.Equal(t, "client@example.com", cards.saved[0].UserEmail)
	assert.NotEqual(t, gocql.UUID{}, cards.saved[0].CardID)
}

func TestNewOrderIDFormat(t *testing.T) {
	now := time.Unix(1700000000, 0)
	id := NewOrderID(now)

	require.Len(t, id, len("1700000000")+1+8)
	assert.Equal(t, "1700000000-", id[:11])
}

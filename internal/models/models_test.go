package models

import (
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenbag_back_end/internal/apperrors"
)

func TestDecodeProductRejectsMissingRequiredFields(t *testing.T) {
	cases := map[string]string{
		"id manquant":         `{"name":"Sac","price":"10","storeEmail":"s@x.com"}`,
		"nom manquant":        `{"id":"c7b1e6a0-0000-1000-8000-000000000000","price":"10","storeEmail":"s@x.com"}`,
		"prix manquant":       `{"id":"c7b1e6a0-0000-1000-8000-000000000000","name":"Sac","storeEmail":"s@x.com"}`,
		"boutique manquante":  `{"id":"c7b1e6a0-0000-1000-8000-000000000000","name":"Sac","price":"10"}`,
		"JSON illisible":      `{pas du json`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeProduct([]byte(raw))
			assert.ErrorIs(t, err, apperrors.ErrDeserialization)
		})
	}
}

func TestEncodeDecodeProductRoundTrip(t *testing.T) {
	p := Product{
		ID:         gocql.TimeUUID(),
		Name:       "Sac en toile",
		Category:   "Accessoires",
		Price:      "12.50",
		Quantity:   "8",
		StoreEmail: "store@example.com",
		IsOrganic:  true,
	}

	data, err := EncodeProduct(p)
	require.NoError(t, err)

	got, err := DecodeProduct(data)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "12.50", got.Price)
	assert.True(t, got.IsOrganic)
}

func TestEncodeUserKeepsPasswordHashLocally(t *testing.T) {
	u := User{
		Email:       "alice@example.com",
		Password:    "$argon2id$hash",
		Name:        "Alice",
		PhoneNumber: "0470000000",
		Role:        RoleUser,
	}

	data, err := EncodeUser(u)
	require.NoError(t, err)
	// Le hash doit survivre au round-trip du miroir local...
	got, err := DecodeUser(data)
	require.NoError(t, err)
	assert.Equal(t, u.Password, got.Password)
}

func TestDecodeUserRejectsUnknownRole(t *testing.T) {
	_, err := DecodeUser([]byte(`{"email":"a@x.com","role":"superuser"}`))
	assert.ErrorIs(t, err, apperrors.ErrDeserialization)
}

func TestProductValidateRejectsNonNumericPriceAndQuantity(t *testing.T) {
	p := Product{Name: "Sac", Category: "Accessoires", Price: "gratuit", Quantity: "8",
		StoreEmail: "s@x.com"}
	assert.ErrorIs(t, p.Validate(), apperrors.ErrValidation)

	p.Price = "10"
	p.Quantity = "beaucoup"
	assert.ErrorIs(t, p.Validate(), apperrors.ErrValidation)

	p.Quantity = "8"
	assert.NoError(t, p.Validate())
}

func TestOrderStatusSet(t *testing.T) {
	assert.True(t, ValidOrderStatus(StatusPending))
	assert.True(t, ValidOrderStatus(StatusOutForDelivery))
	assert.False(t, ValidOrderStatus("expédiée"))
}

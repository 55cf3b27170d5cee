package localstore

import (
	"path/filepath"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUserRoundTrip(t *testing.T) {
	s := openTestStore(t)

	u := models.User{
		Email:       "alice@example.com",
		Password:    "$argon2id$hash",
		Name:        "Alice",
		PhoneNumber: "0470000000",
		Role:        models.RoleUser,
	}
	require.NoError(t, s.PutUser(u))

	got, err := s.GetUser(u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.Name, got.Name)
	assert.Equal(t, u.Password, got.Password)

	require.NoError(t, s.DeleteUser(u.Email))
	_, err = s.GetUser(u.Email)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductRoundTrip(t *testing.T) {
	s := openTestStore(t)

	p := models.Product{
		ID:         gocql.TimeUUID(),
		Name:       "Sac en toile",
		Category:   "Accessoires",
		Price:      "12.50",
		Quantity:   "8",
		StoreEmail: "store@example.com",
	}
	require.NoError(t, s.PutProduct(p))

	got, err := s.GetProduct(p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)

	require.NoError(t, s.DeleteProduct(p.ID.String()))
	_, err = s.GetProduct(p.ID.String())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetMissingIsNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetUser("inconnu@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

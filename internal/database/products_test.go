package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemainingStock(t *testing.T) {
	next, err := remainingStock("8", 3)
	require.NoError(t, err)
	assert.Equal(t, 5, next)
}

func TestRemainingStockFloorsAtZero(t *testing.T) {
	next, err := remainingStock("1", 4)
	require.NoError(t, err)
	assert.Equal(t, 0, next)
}

func TestRemainingStockRejectsUnreadableQuantity(t *testing.T) {
	// Une ligne corrompue doit remonter une erreur, pas être écrasée par
	// un zéro au prochain checkout.
	_, err := remainingStock("beaucoup", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock illisible")

	_, err = remainingStock("", 1)
	assert.Error(t, err)
}

package service

import (
	"testing"

	"printfarm-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleCart(t *testing.T) {
	productMap := map[int64]*models.Product{
		1: {ID: 1, AverageCost: 5.30},
		2: {ID: 2, AverageCost: 1.25},
	}

	cart, err := assembleCart([]OrderItemRequest{
		{ProductID: 1, Quantity: 2, UnitPrice: 12.00},
		{ProductID: 2, Quantity: 1, UnitPrice: 4.50},
	}, productMap)
	require.NoError(t, err)
	require.Len(t, cart, 2)
	assert.Equal(t, 5.30, cart[0].UnitCost)
	assert.Equal(t, 1.25, cart[1].UnitCost)
}

func TestAssembleCartDuplicateProduct(t *testing.T) {
	productMap := map[int64]*models.Product{
		1: {ID: 1, AverageCost: 5.30},
	}

	// The same product on two lines is a valid order
	cart, err := assembleCart([]OrderItemRequest{
		{ProductID: 1, Quantity: 2, UnitPrice: 12.00},
		{ProductID: 1, Quantity: 3, UnitPrice: 10.00},
	}, productMap)
	require.NoError(t, err)
	require.Len(t, cart, 2)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, 3, cart[1].Quantity)
}

func TestAssembleCartUnknownProduct(t *testing.T) {
	productMap := map[int64]*models.Product{
		1: {ID: 1},
	}

	_, err := assembleCart([]OrderItemRequest{
		{ProductID: 1, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	}, productMap)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEnsureNotShipped(t *testing.T) {
	assert.NoError(t, ensureNotShipped(&models.Order{Status: models.OrderStatusDraft}))
	assert.NoError(t, ensureNotShipped(&models.Order{Status: models.OrderStatusConfirmed}))

	err := ensureNotShipped(&models.Order{Status: models.OrderStatusShipped})
	assert.ErrorIs(t, err, ErrAlreadyShipped)
}

package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/pkg/errs"
)

func TestDeliveryStatusValidate(t *testing.T) {
	assert.NoError(t, Preparing.Validate())
	assert.NoError(t, OutForDelivery.Validate())
	assert.NoError(t, Delivered.Validate())

	assert.ErrorIs(t, DeliveryStatusUnknown.Validate(), errs.ErrValueIsInvalid)
	assert.ErrorIs(t, DeliveryStatus(42).Validate(), errs.ErrValueIsInvalid)
}

func TestDeliveryStatusString(t *testing.T) {
	assert.Equal(t, "Preparing", Preparing.String())
	assert.Equal(t, "OutForDelivery", OutForDelivery.String())
	assert.Equal(t, "Delivered", Delivered.String())
	assert.Equal(t, "Unknown", DeliveryStatusUnknown.String())
}

func TestDeliveryStatusFromString(t *testing.T) {
	for _, name := range []string{"Preparing", "OutForDelivery", "Delivered"} {
		status, err := DeliveryStatusFromString(name)
		require.NoError(t, err)
		assert.Equal(t, name, status.String())
	}

	_, err := DeliveryStatusFromString("Shipped")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestDeliveryStatusTransitions(t *testing.T) {
	next, err := Preparing.OutForDelivery()
	require.NoError(t, err)
	assert.Equal(t, OutForDelivery, next)

	next, err = next.Deliver()
	require.NoError(t, err)
	assert.Equal(t, Delivered, next)

	_, err = Delivered.OutForDelivery()
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = Preparing.Deliver()
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = Delivered.Deliver()
	assert.ErrorIs(t, err, errs.ErrConflict)
}

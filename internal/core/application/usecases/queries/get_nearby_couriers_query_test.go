package queries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
)

func TestNewGetNearbyCouriersQuery(t *testing.T) {
	subOrderID := kernel.NewUUID()
	callerID := kernel.NewUUID()

	query, err := queries.NewGetNearbyCouriersQuery(subOrderID, callerID)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.True(t, query.SubOrderID().IsEqual(subOrderID))
	assert.True(t, query.CallerID().IsEqual(callerID))

	_, err = queries.NewGetNearbyCouriersQuery(kernel.UUID{}, callerID)
	require.Error(t, err)

	_, err = queries.NewGetNearbyCouriersQuery(subOrderID, kernel.UUID{})
	require.Error(t, err)

	var zero queries.GetNearbyCouriersQuery
	require.ErrorIs(t, zero.Validate(), queries.ErrGetNearbyCouriersQueryIsNotConstructed)
}

func TestNewGetCourierAssignmentsQuery(t *testing.T) {
	courierID := kernel.NewUUID()

	query, err := queries.NewGetCourierAssignmentsQuery(courierID)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.True(t, query.CourierID().IsEqual(courierID))

	_, err = queries.NewGetCourierAssignmentsQuery(kernel.UUID{})
	require.Error(t, err)
}

func TestNewGetCourierEarningsQuery(t *testing.T) {
	query, err := queries.NewGetCourierEarningsQuery(kernel.NewUUID())
	require.NoError(t, err)
	require.NoError(t, query.Validate())

	_, err = queries.NewGetCourierEarningsQuery(kernel.UUID{})
	require.Error(t, err)
}

func TestNewGetDeliveryStatsQuery(t *testing.T) {
	query, err := queries.NewGetDeliveryStatsQuery(kernel.NewUUID(), 7)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, 7, query.Days())

	_, err = queries.NewGetDeliveryStatsQuery(kernel.NewUUID(), 0)
	require.ErrorIs(t, err, queries.ErrStatsDaysIsInvalid)

	_, err = queries.NewGetDeliveryStatsQuery(kernel.UUID{}, 7)
	require.Error(t, err)
}

func TestNewGetLiveLocationQuery(t *testing.T) {
	query, err := queries.NewGetLiveLocationQuery(kernel.NewUUID())
	require.NoError(t, err)
	require.NoError(t, query.Validate())

	_, err = queries.NewGetLiveLocationQuery(kernel.UUID{})
	require.Error(t, err)
}

package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
)

func newRankerCourier(t *testing.T, lat, lon float64) *courier.Courier {
	t.Helper()

	location, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)

	c, err := courier.NewCourier(kernel.NewUUID(), "rider", location, time.Now(), courier.NewWallet(time.Now()))
	require.NoError(t, err)
	return c
}

func TestCourierRanker_Rank(t *testing.T) {
	from, err := kernel.NewGeoPoint(28.6139, 77.2090)
	require.NoError(t, err)

	t.Run("should order couriers by distance ascending", func(t *testing.T) {
		near := newRankerCourier(t, 28.62, 77.21)
		mid := newRankerCourier(t, 28.70, 77.30)
		far := newRankerCourier(t, 29.00, 77.80)

		ranker := services.NewCourierRanker()
		ranked, err := ranker.Rank(from, []*courier.Courier{far, near, mid})

		require.NoError(t, err)
		require.Len(t, ranked, 3)
		assert.True(t, ranked[0].Courier.IsEqual(near))
		assert.True(t, ranked[1].Courier.IsEqual(mid))
		assert.True(t, ranked[2].Courier.IsEqual(far))
		assert.Less(t, ranked[0].DistanceKm, ranked[1].DistanceKm)
		assert.Less(t, ranked[1].DistanceKm, ranked[2].DistanceKm)
	})

	t.Run("should break distance ties by courier id", func(t *testing.T) {
		first := newRankerCourier(t, 28.62, 77.21)
		second := newRankerCourier(t, 28.62, 77.21)

		ranker := services.NewCourierRanker()
		ranked, err := ranker.Rank(from, []*courier.Courier{first, second})
		require.NoError(t, err)
		require.Len(t, ranked, 2)
		assert.Less(t, ranked[0].Courier.ID().String(), ranked[1].Courier.ID().String())

		// Reversed input must yield the same order.
		reranked, err := ranker.Rank(from, []*courier.Courier{second, first})
		require.NoError(t, err)
		assert.True(t, ranked[0].Courier.IsEqual(reranked[0].Courier))
		assert.True(t, ranked[1].Courier.IsEqual(reranked[1].Courier))
	})

	t.Run("should return empty result for no candidates", func(t *testing.T) {
		ranker := services.NewCourierRanker()

		ranked, err := ranker.Rank(from, nil)
		require.NoError(t, err)
		assert.Empty(t, ranked)

		ranked, err = ranker.Rank(from, []*courier.Courier{})
		require.NoError(t, err)
		assert.Empty(t, ranked)
	})

	t.Run("should reject invalid reference point", func(t *testing.T) {
		ranker := services.NewCourierRanker()

		_, err := ranker.Rank(kernel.GeoPoint{}, nil)
		assert.Error(t, err)
	})

	t.Run("should reject invalid courier in candidates", func(t *testing.T) {
		valid := newRankerCourier(t, 28.62, 77.21)
		var invalid courier.Courier

		ranker := services.NewCourierRanker()
		_, err := ranker.Rank(from, []*courier.Courier{valid, &invalid, nil})

		require.Error(t, err)
		assert.ErrorIs(t, err, courier.ErrCourierIsNotConstructed)
	})

	t.Run("should handle courier at the reference point", func(t *testing.T) {
		same := newRankerCourier(t, 28.6139, 77.2090)

		ranker := services.NewCourierRanker()
		ranked, err := ranker.Rank(from, []*courier.Courier{same})

		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.Zero(t, ranked[0].DistanceKm)
	})
}

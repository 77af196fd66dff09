package services

import (
	"sort"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// RankedCourier pairs a courier with its great-circle distance from a
// reference point, produced by CourierRanker.
type RankedCourier struct {
	Courier    *courier.Courier
	DistanceKm float64
}

// CourierRanker is a domain service that orders candidate couriers by their
// distance from a delivery point.
//
// Key responsibilities:
//   - Validating every candidate courier before ranking
//   - Computing great-circle distances in kilometers
//   - Producing a deterministic ordering
//
// Business rules:
//   - Couriers are sorted by distance ascending
//   - Ties are broken by courier id so repeated calls return the same order
//   - Ranking never mutates the couriers
//
// Example usage:
//
//	ranker := services.NewCourierRanker()
//	ranked, err := ranker.Rank(deliveryPoint, candidates)
//	if err != nil {
//	    // A candidate failed validation
//	    return
//	}
//	// ranked[0] is the nearest courier
type CourierRanker struct{}

// NewCourierRanker creates a new CourierRanker instance.
func NewCourierRanker() CourierRanker {
	return CourierRanker{}
}

// Rank validates the candidates and returns them ordered by distance from the
// given point, nearest first, with courier id as a stable tie-break. An empty
// or nil candidate slice yields an empty result.
func (r CourierRanker) Rank(from kernel.GeoPoint, couriers []*courier.Courier) ([]RankedCourier, error) {
	if err := from.Validate(); err != nil {
		return nil, err
	}

	ranked := make([]RankedCourier, 0, len(couriers))
	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, err
		}

		distanceKm, err := c.DistanceKmTo(from)
		if err != nil {
			return nil, err
		}

		ranked = append(ranked, RankedCourier{
			Courier:    c,
			DistanceKm: distanceKm,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].DistanceKm != ranked[j].DistanceKm {
			return ranked[i].DistanceKm < ranked[j].DistanceKm
		}
		return ranked[i].Courier.ID().String() < ranked[j].Courier.ID().String()
	})

	return ranked, nil
}

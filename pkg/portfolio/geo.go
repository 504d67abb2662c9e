package portfolio

import (
	"math"
	"sort"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in
// kilometers.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// NearestBusinesses ranks geocoded businesses by distance from the query
// point, ascending, and returns at most limit results. Businesses without
// coordinates are skipped. Ties keep the incoming order.
func NearestBusinesses(lat, lng float64, businesses []*Business, limit int) []BusinessDistance {
	if limit <= 0 {
		return nil
	}

	var ranked []BusinessDistance
	for _, b := range businesses {
		if b == nil || b.Latitude == nil || b.Longitude == nil {
			continue
		}
		ranked = append(ranked, BusinessDistance{
			Business: b,
			Km:       HaversineKm(lat, lng, *b.Latitude, *b.Longitude),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Km < ranked[j].Km
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}

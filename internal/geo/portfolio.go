package geo

import (
	"github.com/paulmach/orb"

	"rentsafe/server/internal/models"
)

// PortfolioBounds computes the geographic envelope and centroid of the
// properties that carry coordinates. Returns nil when none do.
func PortfolioBounds(properties []models.Property) *models.PortfolioBounds {
	var points orb.MultiPoint
	for _, p := range properties {
		if p.Latitude == nil || p.Longitude == nil {
			continue
		}
		points = append(points, orb.Point{*p.Longitude, *p.Latitude})
	}
	if len(points) == 0 {
		return nil
	}

	bound := points.Bound()

	var sumLon, sumLat float64
	for _, pt := range points {
		sumLon += pt[0]
		sumLat += pt[1]
	}
	n := float64(len(points))

	return &models.PortfolioBounds{
		MinLat:      bound.Min[1],
		MinLon:      bound.Min[0],
		MaxLat:      bound.Max[1],
		MaxLon:      bound.Max[0],
		CentroidLat: sumLat / n,
		CentroidLon: sumLon / n,
	}
}

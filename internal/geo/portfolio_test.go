package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentsafe/server/internal/models"
)

func coord(lat, lon float64) models.Property {
	return models.Property{Latitude: &lat, Longitude: &lon}
}

func TestPortfolioBounds(t *testing.T) {
	properties := []models.Property{
		coord(53.38, -1.47), // Sheffield
		coord(53.80, -1.55), // Leeds
		{},                  // no coordinates, skipped
	}

	bounds := PortfolioBounds(properties)
	require.NotNil(t, bounds)

	assert.Equal(t, 53.38, bounds.MinLat)
	assert.Equal(t, 53.80, bounds.MaxLat)
	assert.Equal(t, -1.55, bounds.MinLon)
	assert.Equal(t, -1.47, bounds.MaxLon)
	assert.InDelta(t, 53.59, bounds.CentroidLat, 0.001)
	assert.InDelta(t, -1.51, bounds.CentroidLon, 0.001)
}

func TestPortfolioBounds_NoCoordinates(t *testing.T) {
	assert.Nil(t, PortfolioBounds(nil))
	assert.Nil(t, PortfolioBounds([]models.Property{{}, {}}))
}

package routing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPseudoGeocode_Deterministic(t *testing.T) {
	first := PseudoGeocode("12 Kirkgate, Leeds LS1 6BY")
	second := PseudoGeocode("12 Kirkgate, Leeds LS1 6BY")
	assert.Equal(t, first, second)

	other := PseudoGeocode("44 Boar Lane, Leeds LS1 5EL")
	assert.NotEqual(t, first, other)
}

func TestPseudoGeocode_OffsetBounded(t *testing.T) {
	for _, address := range []string{"", "a", "Some Very Long Address With Many Characters, Town"} {
		coords := PseudoGeocode(address)
		assert.GreaterOrEqual(t, coords.Lat, pseudoRefLat)
		assert.Less(t, coords.Lat, pseudoRefLat+0.1)
		assert.GreaterOrEqual(t, coords.Lng, pseudoRefLng)
		assert.Less(t, coords.Lng, pseudoRefLng+0.1)
	}
}

func TestHaversineMiles(t *testing.T) {
	assert.Zero(t, HaversineMiles(51.5074, -0.1278, 51.5074, -0.1278))

	// London to Leeds is roughly 170 miles great-circle
	distance := HaversineMiles(51.5074, -0.1278, 53.8008, -1.5491)
	assert.InDelta(t, 170, distance, 10)

	// Symmetric
	reverse := HaversineMiles(53.8008, -1.5491, 51.5074, -0.1278)
	assert.InDelta(t, distance, reverse, 1e-9)
}

func TestGeometricMatrix_NoCredential(t *testing.T) {
	backend := NewGeometricBackend(NewMemoryGeoCache())
	origins := []string{"Depot A", "Depot B"}
	destinations := []string{"Depot A", "Stop C"}

	matrix := backend.Matrix(context.Background(), origins, destinations, "", WarningNoCredential)

	assert.Len(t, matrix.Cells, 2)
	assert.Len(t, matrix.Cells[0], 2)
	assert.False(t, matrix.Reliable)
	assert.Equal(t, WarningNoCredential, matrix.Warning)
	// Same address both sides pseudo-geocodes to the same point
	assert.Zero(t, matrix.Cells[0][0])
	assert.Greater(t, matrix.Cells[0][1], 0.0)
}

func TestGeometricMatrix_UsesCache(t *testing.T) {
	cache := NewMemoryGeoCache()
	backend := NewGeometricBackend(cache)

	backend.Matrix(context.Background(), []string{"Depot A"}, []string{"Stop C"}, "", WarningNoCredential)

	cached, found := cache.Get("Depot A")
	assert.True(t, found)
	assert.Equal(t, PseudoGeocode("Depot A"), cached)
}

func TestMemoryGeoCache(t *testing.T) {
	cache := NewMemoryGeoCache()

	_, found := cache.Get("nowhere")
	assert.False(t, found)

	coords := PseudoGeocode("somewhere")
	cache.Set("somewhere", coords)
	got, found := cache.Get("somewhere")
	assert.True(t, found)
	assert.Equal(t, coords, got)
}

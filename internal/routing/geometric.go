package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"time"

	"fleetdesk-backend/internal/models"
)

// EarthRadiusMiles is the radius used for great-circle distances
const EarthRadiusMiles = 3959.0

// Reference point for the deterministic pseudo-geocoder (central London).
// Pseudo coordinates are NOT real locations; they only need to be stable
// so distance estimates are reproducible within and across runs.
const (
	pseudoRefLat = 51.5074
	pseudoRefLng = -0.1278
)

// GoogleGeocoder calls the Google Maps Geocoding API
type GoogleGeocoder struct {
	baseURL string
	client  *http.Client
}

func NewGoogleGeocoder() *GoogleGeocoder {
	return &GoogleGeocoder{
		baseURL: "https://maps.googleapis.com/maps/api/geocode/json",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type googleGeocodeResponse struct {
	Results []struct {
		Geometry struct {
			Location models.Coordinates `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status string `json:"status"`
}

func (g *GoogleGeocoder) geocodeWithKey(ctx context.Context, address, apiKey string) (*models.Coordinates, error) {
	params := url.Values{}
	params.Add("address", address)
	params.Add("key", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding API returned status code %d", resp.StatusCode)
	}

	var result googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if result.Status != "OK" || len(result.Results) == 0 {
		return nil, fmt.Errorf("geocoding API returned status %s for %q", result.Status, address)
	}

	location := result.Results[0].Geometry.Location
	return &location, nil
}

// PseudoGeocode derives deterministic coordinates from an address string:
// the sum of its character codes modulo 100 offsets a fixed reference
// point. The same string always maps to the same coordinates.
func PseudoGeocode(address string) models.Coordinates {
	sum := 0
	for _, r := range address {
		sum += int(r)
	}
	offset := float64(sum%100) / 1000.0
	return models.Coordinates{
		Lat: pseudoRefLat + offset,
		Lng: pseudoRefLng + offset,
	}
}

// GeometricBackend computes a haversine distance matrix from geocoded
// (or pseudo-geocoded) addresses. Always reports reliable=false.
type GeometricBackend struct {
	geocoder *GoogleGeocoder
	cache    GeoCache
}

func NewGeometricBackend(cache GeoCache) *GeometricBackend {
	return &GeometricBackend{geocoder: NewGoogleGeocoder(), cache: cache}
}

// Matrix geocodes each unique address and fills cell [i][j] with the
// great-circle distance in miles from origins[i] to destinations[j].
// When apiKey is empty, or the live geocoder fails for an address, the
// deterministic pseudo-geocoder is used for that address instead.
func (b *GeometricBackend) Matrix(ctx context.Context, origins, destinations []string, apiKey, warning string) *models.DistanceMatrix {
	coords := map[string]models.Coordinates{}
	for _, address := range append(append([]string{}, origins...), destinations...) {
		if _, done := coords[address]; done {
			continue
		}
		coords[address] = b.locate(ctx, address, apiKey)
	}

	cells := make([][]float64, len(origins))
	for i, origin := range origins {
		cells[i] = make([]float64, len(destinations))
		from := coords[origin]
		for j, destination := range destinations {
			to := coords[destination]
			cells[i][j] = HaversineMiles(from.Lat, from.Lng, to.Lat, to.Lng)
		}
	}

	return &models.DistanceMatrix{
		Cells:    cells,
		Provider: models.MatrixProviderGeometric,
		Reliable: false,
		Warning:  warning,
	}
}

func (b *GeometricBackend) locate(ctx context.Context, address, apiKey string) models.Coordinates {
	if b.cache != nil {
		if cached, found := b.cache.Get(address); found {
			return cached
		}
	}

	var coords models.Coordinates
	if apiKey != "" {
		if located, err := b.geocoder.geocodeWithKey(ctx, address, apiKey); err == nil {
			coords = *located
		} else {
			log.Printf("⚠️  Geocoding failed for %q: %v - using offline estimate", address, err)
			coords = PseudoGeocode(address)
		}
	} else {
		coords = PseudoGeocode(address)
	}

	if b.cache != nil {
		b.cache.Set(address, coords)
	}
	return coords
}

// HaversineMiles calculates the great-circle distance between two points
func HaversineMiles(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMiles * c
}

package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleetdesk-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func fixedKeyProvider(key, remoteURL string) *Provider {
	remote := NewRemoteMatrixClient()
	remote.baseURL = remoteURL
	geometric := NewGeometricBackend(NewMemoryGeoCache())
	// Keep fallback geocoding offline so it lands on the pseudo-geocoder
	geometric.geocoder.baseURL = "http://127.0.0.1:0"
	return &Provider{
		remote:    remote,
		geometric: geometric,
		apiKey:    func() string { return key },
	}
}

func TestCredentialConfigured(t *testing.T) {
	assert.False(t, credentialConfigured(""))
	assert.False(t, credentialConfigured("   "))
	assert.False(t, credentialConfigured("changeme"))
	assert.False(t, credentialConfigured("PLACEHOLDER"))
	assert.False(t, credentialConfigured("your-api-key"))
	assert.False(t, credentialConfigured("YOUR_API_KEY_HERE"))
	assert.True(t, credentialConfigured("AIzaSyExample123"))
}

func TestProvider_NoCredentialUsesGeometric(t *testing.T) {
	provider := fixedKeyProvider("", "http://unreachable.invalid")

	matrix := provider.Matrix(context.Background(), []string{"A"}, []string{"B"})
	assert.Equal(t, models.MatrixProviderGeometric, matrix.Provider)
	assert.False(t, matrix.Reliable)
	assert.Equal(t, WarningNoCredential, matrix.Warning)
}

func TestProvider_PlaceholderCredentialUsesGeometric(t *testing.T) {
	provider := fixedKeyProvider("changeme", "http://unreachable.invalid")

	matrix := provider.Matrix(context.Background(), []string{"A"}, []string{"B"})
	assert.Equal(t, models.MatrixProviderGeometric, matrix.Provider)
	assert.Equal(t, WarningNoCredential, matrix.Warning)
}

func TestProvider_RemoteSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "imperial", r.URL.Query().Get("units"))
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		w.Write([]byte(`{
			"status": "OK",
			"rows": [
				{"elements": [{"status": "OK", "distance": {"value": 1609.34}}]}
			]
		}`))
	}))
	defer server.Close()

	provider := fixedKeyProvider("k", server.URL)
	matrix := provider.Matrix(context.Background(), []string{"A"}, []string{"B"})

	assert.Equal(t, models.MatrixProviderRemote, matrix.Provider)
	assert.True(t, matrix.Reliable)
	assert.Empty(t, matrix.Warning)
	assert.InDelta(t, 1.0, matrix.Cells[0][0], 1e-9)
}

func TestProvider_RemoteFailureFallsBack(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := fixedKeyProvider("k", server.URL)
	matrix := provider.Matrix(context.Background(), []string{"A"}, []string{"B"})

	assert.Equal(t, models.MatrixProviderGeometric, matrix.Provider)
	assert.False(t, matrix.Reliable)
	assert.Equal(t, WarningRemoteUnavailable, matrix.Warning)
	// Single attempt, no retries
	assert.Equal(t, 1, calls)
}

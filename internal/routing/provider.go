package routing

import (
	"context"
	"log"
	"os"
	"strings"

	"fleetdesk-backend/internal/models"
)

// Fixed degraded-mode warnings, chosen by whether a mapping credential
// was configured at all for the call.
const (
	WarningRemoteUnavailable = "Live distance data unavailable; distances estimated from straight-line geometry"
	WarningNoCredential      = "No mapping credential configured; distances are deterministic offline estimates"
)

// MatrixSource obtains a travel-distance matrix between locations
type MatrixSource interface {
	Matrix(ctx context.Context, origins, destinations []string) *models.DistanceMatrix
}

// Provider selects between the remote matrix backend and the geometric
// fallback. The credential is re-read on every call, so fixing
// configuration takes effect without a restart. Degraded (geometric)
// operation is a success outcome, reported via reliable=false plus a
// warning, never an error.
type Provider struct {
	remote    *RemoteMatrixClient
	geometric *GeometricBackend
	apiKey    func() string
}

func NewProvider(cache GeoCache) *Provider {
	return &Provider{
		remote:    NewRemoteMatrixClient(),
		geometric: NewGeometricBackend(cache),
		apiKey:    func() string { return os.Getenv("MAPS_API_KEY") },
	}
}

func (p *Provider) Matrix(ctx context.Context, origins, destinations []string) *models.DistanceMatrix {
	key := p.apiKey()

	if !credentialConfigured(key) {
		return p.geometric.Matrix(ctx, origins, destinations, "", WarningNoCredential)
	}

	matrix, err := p.remote.Matrix(ctx, origins, destinations, key)
	if err == nil {
		return matrix
	}

	// Single attempt only; the same logical call falls straight through
	log.Printf("⚠️  Remote distance matrix failed: %v - falling back to geometric", err)
	return p.geometric.Matrix(ctx, origins, destinations, key, WarningRemoteUnavailable)
}

// credentialConfigured rejects empty and obvious placeholder keys
func credentialConfigured(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	lower := strings.ToLower(key)
	switch lower {
	case "changeme", "placeholder", "your-api-key", "your_api_key", "your_api_key_here":
		return false
	}
	return !strings.HasPrefix(lower, "your-")
}

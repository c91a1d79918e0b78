package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fleetdesk-backend/internal/models"
)

const metersPerMile = 1609.34

// RemoteMatrixClient calls the Google Distance Matrix API with a single
// batched request. Any transport error, non-OK top-level status, or
// malformed element aborts the whole call; partial responses are never
// reused and calls are never retried.
type RemoteMatrixClient struct {
	baseURL string
	client  *http.Client
}

func NewRemoteMatrixClient() *RemoteMatrixClient {
	return &RemoteMatrixClient{
		baseURL: "https://maps.googleapis.com/maps/api/distancematrix/json",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type distanceMatrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance *struct {
				Value float64 `json:"value"` // meters
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// Matrix fetches distances for every origin/destination pair in one call.
// A failed individual element within an otherwise-OK response maps to
// distance 0.
func (c *RemoteMatrixClient) Matrix(ctx context.Context, origins, destinations []string, apiKey string) (*models.DistanceMatrix, error) {
	params := url.Values{}
	params.Add("origins", strings.Join(origins, "|"))
	params.Add("destinations", strings.Join(destinations, "|"))
	params.Add("units", "imperial")
	params.Add("key", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("distance matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("distance matrix API returned status code %d", resp.StatusCode)
	}

	var result distanceMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode distance matrix response: %w", err)
	}

	if result.Status != "OK" {
		return nil, fmt.Errorf("distance matrix API returned status %s", result.Status)
	}
	if len(result.Rows) != len(origins) {
		return nil, fmt.Errorf("distance matrix returned %d rows, expected %d", len(result.Rows), len(origins))
	}

	cells := make([][]float64, len(origins))
	for i, row := range result.Rows {
		if len(row.Elements) != len(destinations) {
			return nil, fmt.Errorf("distance matrix row %d has %d elements, expected %d", i, len(row.Elements), len(destinations))
		}
		cells[i] = make([]float64, len(destinations))
		for j, element := range row.Elements {
			if element.Status != "OK" {
				// Known imprecision: an unroutable pair counts as zero distance
				cells[i][j] = 0
				continue
			}
			if element.Distance == nil {
				return nil, fmt.Errorf("distance matrix element [%d][%d] malformed", i, j)
			}
			cells[i][j] = element.Distance.Value / metersPerMile
		}
	}

	return &models.DistanceMatrix{
		Cells:    cells,
		Provider: models.MatrixProviderRemote,
		Reliable: true,
	}, nil
}

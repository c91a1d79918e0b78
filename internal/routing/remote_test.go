package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleetdesk-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func matrixServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
}

func remoteClient(serverURL string) *RemoteMatrixClient {
	client := NewRemoteMatrixClient()
	client.baseURL = serverURL
	return client
}

func TestRemoteMatrix_Success(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"origins":      r.URL.Query().Get("origins"),
			"destinations": r.URL.Query().Get("destinations"),
			"units":        r.URL.Query().Get("units"),
		}
		w.Write([]byte(`{
			"status": "OK",
			"rows": [
				{"elements": [
					{"status": "OK", "distance": {"value": 3218.68}},
					{"status": "OK", "distance": {"value": 0}}
				]},
				{"elements": [
					{"status": "OK", "distance": {"value": 1609.34}},
					{"status": "OK", "distance": {"value": 8046.7}}
				]}
			]
		}`))
	}))
	defer server.Close()

	matrix, err := remoteClient(server.URL).Matrix(
		context.Background(), []string{"A", "B"}, []string{"C", "D"}, "key")
	assert.NoError(t, err)

	// Batched pipe-joined addresses, imperial units
	assert.Equal(t, "A|B", gotQuery["origins"])
	assert.Equal(t, "C|D", gotQuery["destinations"])
	assert.Equal(t, "imperial", gotQuery["units"])

	assert.Equal(t, models.MatrixProviderRemote, matrix.Provider)
	assert.True(t, matrix.Reliable)
	assert.InDelta(t, 2.0, matrix.Cells[0][0], 1e-9)
	assert.InDelta(t, 1.0, matrix.Cells[1][0], 1e-9)
	assert.InDelta(t, 5.0, matrix.Cells[1][1], 1e-9)
}

func TestRemoteMatrix_TopLevelStatusError(t *testing.T) {
	server := matrixServer(t, `{"status": "REQUEST_DENIED", "rows": []}`)
	defer server.Close()

	_, err := remoteClient(server.URL).Matrix(
		context.Background(), []string{"A"}, []string{"B"}, "key")
	assert.ErrorContains(t, err, "REQUEST_DENIED")
}

func TestRemoteMatrix_UnroutableElementIsZero(t *testing.T) {
	server := matrixServer(t, `{
		"status": "OK",
		"rows": [{"elements": [
			{"status": "ZERO_RESULTS"},
			{"status": "OK", "distance": {"value": 1609.34}}
		]}]
	}`)
	defer server.Close()

	matrix, err := remoteClient(server.URL).Matrix(
		context.Background(), []string{"A"}, []string{"B", "C"}, "key")
	assert.NoError(t, err)
	assert.Zero(t, matrix.Cells[0][0])
	assert.InDelta(t, 1.0, matrix.Cells[0][1], 1e-9)
}

func TestRemoteMatrix_RowCountMismatch(t *testing.T) {
	server := matrixServer(t, `{
		"status": "OK",
		"rows": [{"elements": [{"status": "OK", "distance": {"value": 100}}]}]
	}`)
	defer server.Close()

	_, err := remoteClient(server.URL).Matrix(
		context.Background(), []string{"A", "B"}, []string{"C"}, "key")
	assert.ErrorContains(t, err, "rows")
}

func TestRemoteMatrix_MissingDistanceAborts(t *testing.T) {
	server := matrixServer(t, `{
		"status": "OK",
		"rows": [{"elements": [{"status": "OK"}]}]
	}`)
	defer server.Close()

	_, err := remoteClient(server.URL).Matrix(
		context.Background(), []string{"A"}, []string{"B"}, "key")
	assert.ErrorContains(t, err, "malformed")
}

func TestRemoteMatrix_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := remoteClient(server.URL).Matrix(
		context.Background(), []string{"A"}, []string{"B"}, "key")
	assert.Error(t, err)
}

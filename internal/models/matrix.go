package models

// MatrixProvider identifies which backend produced a distance matrix
type MatrixProvider string

const (
	MatrixProviderRemote    MatrixProvider = "remote"
	MatrixProviderGeometric MatrixProvider = "geometric"
)

// DistanceMatrix is a directed N×N table of travel distances in miles.
// Cell [i][j] is the distance from trip i's destination to trip j's pickup.
// Matrices are computed on demand and never persisted.
type DistanceMatrix struct {
	Cells    [][]float64    `json:"cells"`
	Provider MatrixProvider `json:"provider"`
	Reliable bool           `json:"reliable"`
	Warning  string         `json:"warning,omitempty"`
}

// Size returns the number of rows (and columns) in the matrix
func (m *DistanceMatrix) Size() int {
	return len(m.Cells)
}

// Coordinates represents latitude and longitude
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

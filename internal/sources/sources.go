// Package sources defines the identifiers for the upstream data
// sources of the countries pipeline. Each source lives in its own
// subpackage and is responsible for fetching one remote document and
// converting it into typed rows.
package sources

import "slices"

// ID represents the identifier of a data source.
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// Common source IDs.
const (
	// CentroidsID identifies the country-centroid CSV source.
	CentroidsID ID = "centroids"

	// M49ID identifies the UN M49 classification table source.
	M49ID ID = "m49"
)

// IDs returns all available source IDs.
func IDs() []ID {
	return []ID{
		CentroidsID,
		M49ID,
	}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

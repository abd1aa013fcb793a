package reconcile

import (
	"embed"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/countries/pkg/errors"
	"github.com/agentstation/countries/pkg/regions"
)

// dataFS embeds the curated reconciliation tables at build time.
//
//go:embed data/curated.yaml
var dataFS embed.FS

// ExclusionPair identifies a centroid row to remove. Both fields must
// match the row exactly for it to be excluded.
type ExclusionPair struct {
	ISO2    string `yaml:"iso2"`
	Country string `yaml:"country"`
}

// ManualCentroid is a hand-maintained centroid for a territory missing
// from the centroid source.
type ManualCentroid struct {
	Country   string  `yaml:"country"`
	ISO2      string  `yaml:"iso2"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// ComtradeOverride maps a country name to the alternate M49 code the
// UN Comtrade database uses for it.
type ComtradeOverride struct {
	M49     int    `yaml:"m49"`
	Country string `yaml:"country"`
}

// NonCountryRegion describes a synthetic aggregate row: an M49 code and
// label without a corresponding territory. Region may be empty.
type NonCountryRegion struct {
	M49     int    `yaml:"m49"`
	Region  string `yaml:"region"`
	Country string `yaml:"country"`
}

// Curated bundles the static tables the reconciler applies: exclusion
// pairs, manual centroids, Comtrade code overrides, and synthetic
// non-country rows. Alternate tables can be injected for tests through
// WithCurated.
type Curated struct {
	ExcludedCentroids []ExclusionPair    `yaml:"excluded_centroids"`
	ManualCentroids   []ManualCentroid   `yaml:"manual_centroids"`
	ComtradeOverrides []ComtradeOverride `yaml:"comtrade_overrides"`
	NonCountryRegions []NonCountryRegion `yaml:"non_country_regions"`
}

// DefaultCurated loads the embedded curated tables.
func DefaultCurated() (Curated, error) {
	data, err := dataFS.ReadFile("data/curated.yaml")
	if err != nil {
		return Curated{}, errors.WrapIO("read", "data/curated.yaml", err)
	}

	var curated Curated
	if err := yaml.Unmarshal(data, &curated); err != nil {
		return Curated{}, errors.WrapParse("yaml", "data/curated.yaml", err)
	}
	return curated, nil
}

// Centroid converts the manual centroid to a regions.Centroid.
func (m ManualCentroid) Centroid() regions.Centroid {
	return regions.Centroid{
		Country:   m.Country,
		ISO2:      m.ISO2,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
	}
}

package regions

import "sort"

// Table is the reconciled reference table, one Record per country,
// territory, or synthetic aggregate region.
type Table []Record

// Columns is the exact output column order of the serialized table.
var Columns = []string{
	"region", "subregion",
	"country",
	"iso2", "iso3",
	"m49", "m49_comtrade",
	"latitude", "longitude",
	"ldc", "non_country_region",
}

// SortByCountry sorts the table in place by country name ascending.
// Ordering is plain code-point comparison, which keeps reruns on
// identical inputs byte-identical.
func (t Table) SortByCountry() {
	sort.SliceStable(t, func(i, j int) bool {
		return t[i].Country < t[j].Country
	})
}

// Find returns the first record with the given country name, or nil.
func (t Table) Find(country string) *Record {
	for i := range t {
		if t[i].Country == country {
			return &t[i]
		}
	}
	return nil
}

// FindISO2 returns the first record with the given ISO alpha-2 code,
// or nil. Synthetic rows and classification-only aggregates have no
// ISO codes and are never returned for a non-empty code.
func (t Table) FindISO2(iso2 string) *Record {
	if iso2 == "" {
		return nil
	}
	for i := range t {
		if t[i].ISO2 == iso2 {
			return &t[i]
		}
	}
	return nil
}

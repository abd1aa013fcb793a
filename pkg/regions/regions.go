// Package regions defines the domain types for the country reference
// table: raw centroid rows, raw UN classification rows, and the
// reconciled records the pipeline emits.
//
// String fields use the empty string for "absent" because both upstream
// documents use empty cells, never sentinel values. Numeric fields that
// can be absent after the outer join (M49 codes, coordinates) are
// pointers so that absence survives into the serialized output as an
// empty cell rather than a zero.
package regions

// Centroid is one cleaned row of the centroid source: a country or
// territory with its ISO 3166 alpha-2 code and geographic center.
type Centroid struct {
	Country   string
	ISO2      string
	Latitude  float64
	Longitude float64
}

// RawClassification is one row of the UN M49 classification source as
// extracted from the HTML table, before normalization. LDCMarker holds
// the raw cell of the "Least Developed Countries (LDC)" column: the
// sentinel character for designated countries, empty otherwise.
type RawClassification struct {
	Country   string
	Region    string
	Subregion string
	M49       int
	ISO2      string
	ISO3      string
	LDCMarker string
}

// Classification is one cleaned row of the UN M49 classification
// source. Regional and global aggregate rows legitimately carry empty
// ISO codes; they are classifications without a corresponding country.
type Classification struct {
	Country        string
	Region         string
	Subregion      string
	M49            int
	ISO2           string
	ISO3           string
	LeastDeveloped bool
}

// Record is one reconciled row of the final reference table.
//
// M49 and M49Comtrade are nil for rows that exist only in the centroid
// source; Latitude and Longitude are nil for rows that exist only in
// the classification source and for synthetic non-country rows.
type Record struct {
	Region           string
	Subregion        string
	Country          string
	ISO2             string
	ISO3             string
	M49              *int
	M49Comtrade      *int
	Latitude         *float64
	Longitude        *float64
	LeastDeveloped   bool
	NonCountryRegion bool
}

// Int returns a pointer to v. Convenience for building records with
// optional integer fields.
func Int(v int) *int {
	return &v
}

// Float returns a pointer to v. Convenience for building records with
// optional coordinate fields.
func Float(v float64) *float64 {
	return &v
}

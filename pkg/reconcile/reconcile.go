// Package reconcile implements the core of the countries pipeline: it
// cleans the two source tables, merges them with a full outer join on
// the ISO alpha-2 code, applies Comtrade code overrides, injects the
// synthetic non-country aggregate rows, and produces the final sorted
// reference table.
package reconcile

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/countries/pkg/constants"
	"github.com/agentstation/countries/pkg/errors"
	"github.com/agentstation/countries/pkg/logging"
	"github.com/agentstation/countries/pkg/regions"
)

// Reconciler merges the centroid and classification tables into the
// final reference table. The zero value is not usable; construct with
// New.
type Reconciler struct {
	curated Curated
	logger  *zerolog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithCurated replaces the embedded curated tables. Used by tests to
// exercise the reconciliation rules with alternate data.
func WithCurated(curated Curated) Option {
	return func(r *Reconciler) {
		r.curated = curated
	}
}

// WithLogger sets the logger used for reconciliation diagnostics.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// New creates a Reconciler with the embedded curated tables unless
// overridden by options.
func New(opts ...Option) (*Reconciler, error) {
	curated, err := DefaultCurated()
	if err != nil {
		return nil, err
	}

	r := &Reconciler{
		curated: curated,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Reconcile produces the reference table from the raw source rows.
// Cleaning failures are fatal; the only non-fatal condition is a
// Comtrade override naming a country absent from the merged table,
// which is logged and skipped.
func (r *Reconciler) Reconcile(rawClassifications []regions.RawClassification, rawCentroids []regions.Centroid) (regions.Table, error) {
	centroids, err := r.CleanCentroids(rawCentroids)
	if err != nil {
		return nil, err
	}

	classifications := r.CleanClassifications(rawClassifications)

	table, centroidNames := r.merge(classifications, centroids)
	r.applyComtradeOverrides(table, centroidNames)
	table = r.appendNonCountryRegions(table)

	table.SortByCountry()
	return table, nil
}

// CleanCentroids trims, filters, augments, and sorts the raw centroid
// rows. It fails with a validation error if two cleaned rows share an
// ISO2 code: a duplicate key would silently fan out the outer join.
func (r *Reconciler) CleanCentroids(raw []regions.Centroid) ([]regions.Centroid, error) {
	cleaned := make([]regions.Centroid, 0, len(raw)+len(r.curated.ManualCentroids))

	for _, c := range raw {
		c.ISO2 = strings.TrimSpace(c.ISO2)
		c.Country = strings.TrimSpace(c.Country)
		if r.excluded(c) {
			r.logger.Debug().
				Str("iso2", c.ISO2).
				Str("country", c.Country).
				Msg("Excluding duplicate territory centroid")
			continue
		}
		cleaned = append(cleaned, c)
	}

	for _, m := range r.curated.ManualCentroids {
		cleaned = append(cleaned, m.Centroid())
	}

	sort.SliceStable(cleaned, func(i, j int) bool {
		return cleaned[i].ISO2 < cleaned[j].ISO2
	})

	seen := make(map[string]string, len(cleaned))
	for _, c := range cleaned {
		if prev, dup := seen[c.ISO2]; dup {
			return nil, errors.NewValidationError("iso2", c.ISO2,
				"duplicate centroid rows for "+prev+" and "+c.Country)
		}
		seen[c.ISO2] = c.Country
	}

	return cleaned, nil
}

// excluded reports whether the centroid matches an exclusion pair.
// Both fields must match simultaneously.
func (r *Reconciler) excluded(c regions.Centroid) bool {
	for _, e := range r.curated.ExcludedCentroids {
		if e.ISO2 == c.ISO2 && e.Country == c.Country {
			return true
		}
	}
	return false
}

// CleanClassifications normalizes the raw classification rows,
// deriving the least-developed flag from the LDC marker cell.
func (r *Reconciler) CleanClassifications(raw []regions.RawClassification) []regions.Classification {
	cleaned := make([]regions.Classification, 0, len(raw))
	for _, c := range raw {
		cleaned = append(cleaned, regions.Classification{
			Country:        c.Country,
			Region:         c.Region,
			Subregion:      c.Subregion,
			M49:            c.M49,
			ISO2:           c.ISO2,
			ISO3:           c.ISO3,
			LeastDeveloped: c.LDCMarker == constants.LDCSentinel,
		})
	}
	return cleaned
}

// merge outer-joins classifications against centroids on ISO2 and
// builds the combined records. Rows present on only one side survive
// with the other side's fields absent. When both sides matched, the
// classification's country name wins in the output; the centroid-side
// name is returned alongside the table (one entry per row, empty when
// there is no distinct centroid name) so that overrides can still
// match it. The two sources spell some countries differently: the UN
// table says "United States of America" where the centroid table and
// the override table say "United States".
func (r *Reconciler) merge(classifications []regions.Classification, centroids []regions.Centroid) (regions.Table, []string) {
	rows := outerJoin(classifications, centroids)

	table := make(regions.Table, 0, len(rows))
	centroidNames := make([]string, 0, len(rows))
	for _, row := range rows {
		var rec regions.Record
		centroidName := ""

		if cl := row.classification; cl != nil {
			rec.Region = cl.Region
			rec.Subregion = cl.Subregion
			rec.Country = cl.Country
			rec.ISO2 = cl.ISO2
			rec.ISO3 = cl.ISO3
			rec.M49 = regions.Int(cl.M49)
			rec.LeastDeveloped = cl.LeastDeveloped
		}

		if ct := row.centroid; ct != nil {
			rec.Latitude = regions.Float(ct.Latitude)
			rec.Longitude = regions.Float(ct.Longitude)
			if row.classification == nil {
				rec.Country = ct.Country
				rec.ISO2 = ct.ISO2
			} else if ct.Country != rec.Country {
				centroidName = ct.Country
			}
		}

		table = append(table, rec)
		centroidNames = append(centroidNames, centroidName)
	}
	return table, centroidNames
}

// applyComtradeOverrides initializes every record's Comtrade code to
// its M49 code, then rewrites the code for each override whose country
// name is present. An override matches a row by its output name or by
// its centroid-side name. An override matching no row is logged and
// skipped: the absence may reflect intentional scope narrowing
// upstream, so it is a warning, not an error.
func (r *Reconciler) applyComtradeOverrides(table regions.Table, centroidNames []string) {
	for i := range table {
		if table[i].M49 != nil {
			table[i].M49Comtrade = regions.Int(*table[i].M49)
		}
	}

	for _, o := range r.curated.ComtradeOverrides {
		found := false
		for i := range table {
			if table[i].Country == o.Country || (i < len(centroidNames) && centroidNames[i] == o.Country) {
				table[i].M49Comtrade = regions.Int(o.M49)
				found = true
			}
		}
		if !found {
			r.logger.Warn().
				Str("country", o.Country).
				Int("m49_comtrade", o.M49).
				Msg("Comtrade override country not found in merged table")
		}
	}
}

// appendNonCountryRegions appends the synthetic aggregate rows. Each
// carries its M49 code as the Comtrade code, no ISO codes, no
// coordinates, and is never a least developed country.
func (r *Reconciler) appendNonCountryRegions(table regions.Table) regions.Table {
	for _, n := range r.curated.NonCountryRegions {
		table = append(table, regions.Record{
			Region:           n.Region,
			Country:          n.Country,
			M49:              regions.Int(n.M49),
			M49Comtrade:      regions.Int(n.M49),
			NonCountryRegion: true,
		})
	}
	return table
}

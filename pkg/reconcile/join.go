package reconcile

import "github.com/agentstation/countries/pkg/regions"

// joinRow is one row of the full outer join between the classification
// and centroid tables. Exactly one side may be nil.
type joinRow struct {
	classification *regions.Classification
	centroid       *regions.Centroid
}

// outerJoin performs a full outer join of classifications against
// centroids on the ISO alpha-2 code. Classification rows with an empty
// ISO2 never match anything; they are aggregate regions, not countries.
//
// Output order is deterministic: classification rows in input order,
// followed by unmatched centroid rows in input order. The caller is
// responsible for ensuring centroid ISO2 uniqueness; with unique keys
// the join never fans out and every input row appears exactly once.
func outerJoin(classifications []regions.Classification, centroids []regions.Centroid) []joinRow {
	byISO2 := make(map[string]int, len(centroids))
	for i := range centroids {
		byISO2[centroids[i].ISO2] = i
	}

	rows := make([]joinRow, 0, len(classifications)+len(centroids))
	matched := make([]bool, len(centroids))

	for i := range classifications {
		row := joinRow{classification: &classifications[i]}
		if iso2 := classifications[i].ISO2; iso2 != "" {
			if j, ok := byISO2[iso2]; ok {
				row.centroid = &centroids[j]
				matched[j] = true
			}
		}
		rows = append(rows, row)
	}

	for i := range centroids {
		if !matched[i] {
			rows = append(rows, joinRow{centroid: &centroids[i]})
		}
	}

	return rows
}

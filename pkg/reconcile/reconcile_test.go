package reconcile

import (
	"testing"

	"github.com/agentstation/countries/pkg/errors"
	"github.com/agentstation/countries/pkg/logging"
	"github.com/agentstation/countries/pkg/regions"
)

// testCurated returns a small curated set exercising every
// reconciliation rule.
func testCurated() Curated {
	return Curated{
		ExcludedCentroids: []ExclusionPair{
			{ISO2: "TF", Country: "Juan De Nova Island"},
		},
		ManualCentroids: []ManualCentroid{
			{Country: "Hong Kong", ISO2: "HK", Latitude: 22.3964, Longitude: 114.1095},
		},
		ComtradeOverrides: []ComtradeOverride{
			{M49: 251, Country: "France"},
		},
		NonCountryRegions: []NonCountryRegion{
			{M49: 899, Country: "NES"},
			{M49: 837, Country: "Bunkers"},
		},
	}
}

func newTestReconciler(t *testing.T, curated Curated) (*Reconciler, *logging.TestLogger) {
	t.Helper()
	tl := logging.NewTestLogger(t)
	r, err := New(WithCurated(curated), WithLogger(tl.Logger))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return r, tl
}

func TestCleanCentroidsTrimsFields(t *testing.T) {
	r, _ := newTestReconciler(t, Curated{})

	cleaned, err := r.CleanCentroids([]regions.Centroid{
		{Country: "  France ", ISO2: " FR ", Latitude: 46.2, Longitude: 2.2},
	})
	if err != nil {
		t.Fatalf("CleanCentroids() failed: %v", err)
	}

	if len(cleaned) != 1 {
		t.Fatalf("Expected 1 cleaned row, got %d", len(cleaned))
	}
	if cleaned[0].ISO2 != "FR" {
		t.Errorf("Expected trimmed ISO2 %q, got %q", "FR", cleaned[0].ISO2)
	}
	if cleaned[0].Country != "France" {
		t.Errorf("Expected trimmed country %q, got %q", "France", cleaned[0].Country)
	}
}

func TestCleanCentroidsExclusionRequiresBothFields(t *testing.T) {
	r, _ := newTestReconciler(t, testCurated())

	cleaned, err := r.CleanCentroids([]regions.Centroid{
		// Exact match on both fields: removed.
		{Country: "Juan De Nova Island", ISO2: "TF", Latitude: -17.05, Longitude: 42.72},
		// ISO2 matches but country does not: survives.
		{Country: "Fr. S. Antarctic Lands", ISO2: "TF", Latitude: -49.25, Longitude: 69.25},
		// Country matches but ISO2 does not: survives.
		{Country: "Juan De Nova Island", ISO2: "XX", Latitude: 0, Longitude: 0},
	})
	if err != nil {
		t.Fatalf("CleanCentroids() failed: %v", err)
	}

	// 2 survivors + 1 manual centroid
	if len(cleaned) != 3 {
		t.Fatalf("Expected 3 cleaned rows, got %d", len(cleaned))
	}
	for _, c := range cleaned {
		if c.Country == "Juan De Nova Island" && c.ISO2 == "TF" {
			t.Error("Excluded (TF, Juan De Nova Island) pair survived cleaning")
		}
	}
}

func TestCleanCentroidsAppendsManualRows(t *testing.T) {
	r, _ := newTestReconciler(t, testCurated())

	cleaned, err := r.CleanCentroids([]regions.Centroid{
		{Country: "France", ISO2: "FR", Latitude: 46.2, Longitude: 2.2},
	})
	if err != nil {
		t.Fatalf("CleanCentroids() failed: %v", err)
	}

	var hongKong *regions.Centroid
	for i := range cleaned {
		if cleaned[i].ISO2 == "HK" {
			hongKong = &cleaned[i]
		}
	}
	if hongKong == nil {
		t.Fatal("Expected manual Hong Kong centroid to be appended")
	}
	if hongKong.Latitude != 22.3964 || hongKong.Longitude != 114.1095 {
		t.Errorf("Hong Kong centroid has wrong coordinates: (%v, %v)", hongKong.Latitude, hongKong.Longitude)
	}
}

func TestCleanCentroidsSortsByISO2(t *testing.T) {
	r, _ := newTestReconciler(t, Curated{})

	cleaned, err := r.CleanCentroids([]regions.Centroid{
		{Country: "Zimbabwe", ISO2: "ZW"},
		{Country: "Albania", ISO2: "AL"},
		{Country: "France", ISO2: "FR"},
	})
	if err != nil {
		t.Fatalf("CleanCentroids() failed: %v", err)
	}

	for i := 1; i < len(cleaned); i++ {
		if cleaned[i-1].ISO2 > cleaned[i].ISO2 {
			t.Errorf("Cleaned centroids not sorted by ISO2: %q before %q", cleaned[i-1].ISO2, cleaned[i].ISO2)
		}
	}
}

func TestCleanCentroidsRejectsDuplicateISO2(t *testing.T) {
	r, _ := newTestReconciler(t, Curated{})

	_, err := r.CleanCentroids([]regions.Centroid{
		{Country: "France", ISO2: "FR"},
		{Country: "French Republic", ISO2: "FR"},
	})
	if err == nil {
		t.Fatal("Expected error for duplicate ISO2 rows, got nil")
	}
	if !errors.IsValidationError(err) {
		t.Errorf("Expected validation error for duplicate ISO2, got %v", err)
	}
}

func TestCleanCentroidsUniqueISO2AfterExclusions(t *testing.T) {
	// The exclusion list is exactly what makes the raw table unique:
	// the duplicate (TF, Juan De Nova Island) row is removed and the
	// remaining TF row keeps the code.
	r, _ := newTestReconciler(t, testCurated())

	cleaned, err := r.CleanCentroids([]regions.Centroid{
		{Country: "Juan De Nova Island", ISO2: "TF"},
		{Country: "Fr. S. Antarctic Lands", ISO2: "TF"},
	})
	if err != nil {
		t.Fatalf("CleanCentroids() failed: %v", err)
	}

	seen := map[string]bool{}
	for _, c := range cleaned {
		if seen[c.ISO2] {
			t.Errorf("Duplicate ISO2 %q after exclusion filtering", c.ISO2)
		}
		seen[c.ISO2] = true
	}
}

func TestCleanClassificationsDerivesLDC(t *testing.T) {
	r, _ := newTestReconciler(t, Curated{})

	cleaned := r.CleanClassifications([]regions.RawClassification{
		{Country: "Angola", M49: 24, LDCMarker: "x"},
		{Country: "France", M49: 250, LDCMarker: ""},
		{Country: "Weird", M49: 1, LDCMarker: "X"}, // wrong case is not the sentinel
	})

	if !cleaned[0].LeastDeveloped {
		t.Error("Expected Angola to be least developed (marker \"x\")")
	}
	if cleaned[1].LeastDeveloped {
		t.Error("Expected France to not be least developed (empty marker)")
	}
	if cleaned[2].LeastDeveloped {
		t.Error("Expected uppercase marker to not count as the sentinel")
	}
}

func reconcileFixture(t *testing.T) regions.Table {
	t.Helper()
	r, _ := newTestReconciler(t, testCurated())

	classifications := []regions.RawClassification{
		{Country: "France", Region: "Europe", Subregion: "Western Europe", M49: 250, ISO2: "FR", ISO3: "FRA"},
		{Country: "Angola", Region: "Africa", Subregion: "Middle Africa", M49: 24, ISO2: "AO", ISO3: "AGO", LDCMarker: "x"},
		// Aggregate row without ISO codes.
		{Country: "Africa", Region: "", Subregion: "", M49: 2},
	}
	centroids := []regions.Centroid{
		{Country: "France", ISO2: "FR", Latitude: 46.2, Longitude: 2.2},
		// Centroid-only territory with no classification match.
		{Country: "Somewhere", ISO2: "XX", Latitude: 1.5, Longitude: -3.25},
	}

	table, err := r.Reconcile(classifications, centroids)
	if err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}
	return table
}

func TestReconcileMatchedRow(t *testing.T) {
	table := reconcileFixture(t)

	france := table.Find("France")
	if france == nil {
		t.Fatal("Expected France in reconciled table")
	}
	if france.M49 == nil || *france.M49 != 250 {
		t.Errorf("Expected France m49=250, got %v", france.M49)
	}
	if france.M49Comtrade == nil || *france.M49Comtrade != 251 {
		t.Errorf("Expected France m49_comtrade=251 (override), got %v", france.M49Comtrade)
	}
	if france.ISO2 != "FR" || france.ISO3 != "FRA" {
		t.Errorf("Expected France ISO codes FR/FRA, got %s/%s", france.ISO2, france.ISO3)
	}
	if france.Latitude == nil || *france.Latitude != 46.2 {
		t.Errorf("Expected France latitude 46.2, got %v", france.Latitude)
	}
}

func TestReconcileCentroidOnlyRow(t *testing.T) {
	table := reconcileFixture(t)

	somewhere := table.Find("Somewhere")
	if somewhere == nil {
		t.Fatal("Expected centroid-only territory in reconciled table")
	}
	if somewhere.Region != "" || somewhere.Subregion != "" {
		t.Errorf("Expected absent region/subregion, got %q/%q", somewhere.Region, somewhere.Subregion)
	}
	if somewhere.M49 != nil {
		t.Errorf("Expected absent m49, got %d", *somewhere.M49)
	}
	if somewhere.M49Comtrade != nil {
		t.Errorf("Expected absent m49_comtrade, got %d", *somewhere.M49Comtrade)
	}
	if somewhere.ISO3 != "" {
		t.Errorf("Expected absent iso3, got %q", somewhere.ISO3)
	}
	if somewhere.Latitude == nil || *somewhere.Latitude != 1.5 {
		t.Errorf("Expected latitude 1.5, got %v", somewhere.Latitude)
	}
	if somewhere.Longitude == nil || *somewhere.Longitude != -3.25 {
		t.Errorf("Expected longitude -3.25, got %v", somewhere.Longitude)
	}
}

func TestReconcileClassificationOnlyRow(t *testing.T) {
	table := reconcileFixture(t)

	africa := table.Find("Africa")
	if africa == nil {
		t.Fatal("Expected aggregate classification row in reconciled table")
	}
	if africa.Latitude != nil || africa.Longitude != nil {
		t.Error("Expected aggregate row to have no coordinates")
	}
	if africa.M49 == nil || *africa.M49 != 2 {
		t.Errorf("Expected Africa m49=2, got %v", africa.M49)
	}
}

func TestReconcileOuterJoinCompleteness(t *testing.T) {
	table := reconcileFixture(t)

	// 3 classifications, 2 centroids (1 matched) + 1 manual centroid,
	// + 2 synthetic rows. Every input row must appear exactly once.
	counted := 0
	for _, country := range []string{"France", "Angola", "Africa", "Somewhere", "Hong Kong", "NES", "Bunkers"} {
		if table.Find(country) != nil {
			counted++
		}
	}
	if counted != 7 {
		t.Errorf("Expected all 7 logical rows present, found %d", counted)
	}
	if len(table) != 7 {
		t.Errorf("Expected 7 rows total (no fan-out, no drops), got %d", len(table))
	}
}

func TestReconcileComtradeDefaultsToM49(t *testing.T) {
	table := reconcileFixture(t)

	for _, rec := range table {
		if rec.Country == "France" {
			continue // overridden
		}
		if rec.M49 == nil {
			if rec.M49Comtrade != nil {
				t.Errorf("%s: m49_comtrade set with absent m49", rec.Country)
			}
			continue
		}
		if rec.M49Comtrade == nil || *rec.M49Comtrade != *rec.M49 {
			t.Errorf("%s: expected m49_comtrade=%d, got %v", rec.Country, *rec.M49, rec.M49Comtrade)
		}
	}
}

func TestReconcileSyntheticRows(t *testing.T) {
	table := reconcileFixture(t)

	nonCountry := 0
	for _, rec := range table {
		if rec.NonCountryRegion {
			nonCountry++
			if rec.ISO2 != "" || rec.ISO3 != "" {
				t.Errorf("Synthetic row %s carries ISO codes %q/%q", rec.Country, rec.ISO2, rec.ISO3)
			}
			if rec.LeastDeveloped {
				t.Errorf("Synthetic row %s flagged as least developed", rec.Country)
			}
			if rec.Latitude != nil || rec.Longitude != nil {
				t.Errorf("Synthetic row %s has coordinates", rec.Country)
			}
		}
	}
	if nonCountry != 2 {
		t.Errorf("Expected exactly 2 synthetic non-country rows, got %d", nonCountry)
	}

	bunkers := table.Find("Bunkers")
	if bunkers == nil {
		t.Fatal("Expected Bunkers synthetic row")
	}
	if bunkers.M49 == nil || *bunkers.M49 != 837 {
		t.Errorf("Expected Bunkers m49=837, got %v", bunkers.M49)
	}
	if bunkers.M49Comtrade == nil || *bunkers.M49Comtrade != 837 {
		t.Errorf("Expected Bunkers m49_comtrade=837, got %v", bunkers.M49Comtrade)
	}
	if bunkers.Region != "" {
		t.Errorf("Expected Bunkers region absent, got %q", bunkers.Region)
	}
	if !bunkers.NonCountryRegion {
		t.Error("Expected Bunkers to be a non-country region")
	}
}

func TestReconcileSortedByCountry(t *testing.T) {
	table := reconcileFixture(t)

	for i := 1; i < len(table); i++ {
		if table[i-1].Country > table[i].Country {
			t.Errorf("Table not sorted by country: %q before %q", table[i-1].Country, table[i].Country)
		}
	}
}

func TestReconcileDeterministic(t *testing.T) {
	first := reconcileFixture(t)
	second := reconcileFixture(t)

	if len(first) != len(second) {
		t.Fatalf("Rerun changed row count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Country != second[i].Country {
			t.Errorf("Row %d differs between reruns: %q vs %q", i, first[i].Country, second[i].Country)
		}
	}
}

func TestReconcileUnknownOverrideWarnsAndContinues(t *testing.T) {
	curated := testCurated()
	curated.ComtradeOverrides = append(curated.ComtradeOverrides,
		ComtradeOverride{M49: 999, Country: "Atlantis"})
	r, tl := newTestReconciler(t, curated)

	table, err := r.Reconcile(
		[]regions.RawClassification{
			{Country: "France", M49: 250, ISO2: "FR", ISO3: "FRA"},
		},
		nil,
	)
	if err != nil {
		t.Fatalf("Reconcile() failed on unknown override: %v", err)
	}
	if len(table) == 0 {
		t.Fatal("Expected table output despite unknown override")
	}

	if !tl.Contains("Atlantis") {
		t.Error("Expected warning naming the missing override country")
	}

	// The known override still applies.
	france := table.Find("France")
	if france.M49Comtrade == nil || *france.M49Comtrade != 251 {
		t.Errorf("Expected France override to apply, got %v", france.M49Comtrade)
	}
}

func TestReconcileOverrideMatchesCentroidName(t *testing.T) {
	// The two sources spell some countries differently: the UN table
	// says "United States of America" while the centroid table and
	// the override table say "United States". The override must fire
	// even though the UN spelling wins in the output.
	tl := logging.NewTestLogger(t)
	r, err := New(WithLogger(tl.Logger))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	table, err := r.Reconcile(
		[]regions.RawClassification{
			{Country: "United States of America", Region: "Americas", Subregion: "Northern America", M49: 840, ISO2: "US", ISO3: "USA"},
		},
		[]regions.Centroid{
			{Country: "United States", ISO2: "US", Latitude: 39.8, Longitude: -98.6},
		},
	)
	if err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}

	us := table.Find("United States of America")
	if us == nil {
		t.Fatal("Expected United States of America in reconciled table")
	}
	if us.M49 == nil || *us.M49 != 840 {
		t.Errorf("Expected m49=840, got %v", us.M49)
	}
	if us.M49Comtrade == nil || *us.M49Comtrade != 842 {
		t.Errorf("Expected m49_comtrade=842 via centroid-name override, got %v", us.M49Comtrade)
	}

	if tl.Contains("United States") {
		t.Error("Override fired but a missing-override warning was still logged")
	}
}

func TestReconcileWithEmbeddedCurated(t *testing.T) {
	tl := logging.NewTestLogger(t)
	r, err := New(WithLogger(tl.Logger))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	table, err := r.Reconcile(
		[]regions.RawClassification{
			{Country: "France", Region: "Europe", Subregion: "Western Europe", M49: 250, ISO2: "FR", ISO3: "FRA"},
		},
		[]regions.Centroid{
			{Country: "France", ISO2: "FR", Latitude: 46.2, Longitude: 2.2},
		},
	)
	if err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}

	// 1 merged row + 4 manual centroids + 7 synthetic rows.
	if len(table) != 12 {
		t.Errorf("Expected 12 rows with embedded curated data, got %d", len(table))
	}

	nonCountry := 0
	for _, rec := range table {
		if rec.NonCountryRegion {
			nonCountry++
		}
	}
	if nonCountry != 7 {
		t.Errorf("Expected exactly 7 synthetic rows from embedded data, got %d", nonCountry)
	}

	aland := table.Find("Åland Islands")
	if aland == nil {
		t.Fatal("Expected manual Åland Islands centroid in table")
	}
	if aland.Latitude == nil || *aland.Latitude != 60.25 {
		t.Errorf("Expected Åland latitude 60.25, got %v", aland.Latitude)
	}
}

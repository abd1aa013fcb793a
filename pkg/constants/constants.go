// Package constants provides shared constants used throughout the countries codebase.
// This includes source URLs, timeouts, file permissions, and other configuration
// values that should be consistent across the application.
package constants

import "time"

// Source URLs identify the two upstream documents the pipeline consumes.
const (
	// CentroidsURL is the country-centroid CSV published by the
	// world-countries-centroids project, pinned to its v1 release.
	CentroidsURL = "https://cdn.jsdelivr.net/gh/gavinr/world-countries-centroids@v1/dist/countries.csv"

	// M49OverviewURL is the UN Statistics Division M49 overview page
	// containing the downloadable classification table.
	M49OverviewURL = "https://unstats.un.org/unsd/methodology/m49/overview/"

	// M49TableID is the HTML id of the classification table within the
	// M49 overview page.
	M49TableID = "downloadTableEN"
)

// Output constants define where and how the reference table is written.
const (
	// DefaultOutputPath is the path of the generated reference table,
	// relative to the working directory of the run.
	DefaultOutputPath = "countries.csv"
)

// Timeout constants define various timeout durations used in the application.
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the
	// upstream sources.
	DefaultHTTPTimeout = 30 * time.Second

	// PipelineTimeout bounds a full fetch-reconcile-write run.
	PipelineTimeout = 5 * time.Minute
)

// File permission constants define standard Unix file permissions.
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x).
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--).
	FilePermissions = 0644
)

// LDCSentinel is the marker character the UN table uses in the
// "Least Developed Countries (LDC)" column for countries that carry
// the designation. Any other cell value, including empty, means false.
const LDCSentinel = "x"

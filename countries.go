// Package countries builds a reference table mapping countries and
// territories to geographic centroids, UN M49 statistical codes, ISO
// codes, and region membership. It combines two upstream documents --
// a centroid CSV and the UN M49 classification table -- into one
// reconciled dataset and writes it as a flat CSV artifact.
//
// The pipeline is a one-shot sequential batch: fetch centroids, fetch
// classifications, reconcile, write. A failure at any stage aborts the
// run with no partial output; reruns on identical inputs produce
// byte-identical output.
//
// Example usage:
//
//	pipeline, err := countries.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := pipeline.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package countries

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/agentstation/countries/internal/sources/centroids"
	"github.com/agentstation/countries/internal/sources/m49"
	"github.com/agentstation/countries/internal/transport"
	"github.com/agentstation/countries/pkg/constants"
	"github.com/agentstation/countries/pkg/logging"
	"github.com/agentstation/countries/pkg/reconcile"
	"github.com/agentstation/countries/pkg/regions"
	"github.com/agentstation/countries/pkg/save"
)

// Pipeline orchestrates the fetch-reconcile-write run. Construct with
// New; the zero value is not usable.
type Pipeline struct {
	httpClient   *http.Client
	centroidsURL string
	m49URL       string
	outputPath   string
	curated      *reconcile.Curated
	logger       *zerolog.Logger
}

// New creates a Pipeline with defaults: the pinned source URLs, the
// countries.csv output path, and the embedded curated tables.
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		centroidsURL: constants.CentroidsURL,
		m49URL:       constants.M49OverviewURL,
		outputPath:   constants.DefaultOutputPath,
		logger:       logging.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// OutputPath returns the path the pipeline writes to.
func (p *Pipeline) OutputPath() string {
	return p.outputPath
}

// Build fetches both sources and reconciles them, returning the final
// table without writing it. Stages run strictly in sequence; the first
// error aborts.
func (p *Pipeline) Build(ctx context.Context) (regions.Table, error) {
	tc := transport.NewWithHTTPClient(p.httpClient)

	centroidSource := centroids.New(
		centroids.WithURL(p.centroidsURL),
		centroids.WithTransport(tc),
	)
	classificationSource := m49.New(
		m49.WithURL(p.m49URL),
		m49.WithTransport(tc),
	)

	p.logger.Info().Str("url", p.centroidsURL).Msg("Fetching country centroids")
	rawCentroids, err := centroidSource.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	p.logger.Debug().Int("rows", len(rawCentroids)).Msg("Fetched centroid rows")

	p.logger.Info().Str("url", p.m49URL).Msg("Fetching UN M49 classifications")
	rawClassifications, err := classificationSource.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	p.logger.Debug().Int("rows", len(rawClassifications)).Msg("Fetched classification rows")

	reconcilerOpts := []reconcile.Option{reconcile.WithLogger(p.logger)}
	if p.curated != nil {
		reconcilerOpts = append(reconcilerOpts, reconcile.WithCurated(*p.curated))
	}
	reconciler, err := reconcile.New(reconcilerOpts...)
	if err != nil {
		return nil, err
	}

	table, err := reconciler.Reconcile(rawClassifications, rawCentroids)
	if err != nil {
		return nil, err
	}
	p.logger.Debug().Int("rows", len(table)).Msg("Reconciled reference table")

	return table, nil
}

// Run executes the full pipeline and writes the reference table. On
// success it logs the output location.
func (p *Pipeline) Run(ctx context.Context) error {
	table, err := p.Build(ctx)
	if err != nil {
		return err
	}

	if err := save.Table(table, p.outputPath); err != nil {
		return err
	}

	p.logger.Info().
		Int("rows", len(table)).
		Str("path", p.outputPath).
		Msg("Country reference table written")
	return nil
}

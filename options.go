package countries

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/agentstation/countries/pkg/errors"
	"github.com/agentstation/countries/pkg/reconcile"
)

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithHTTPClient sets the HTTP client used for both source fetches.
// Used by tests to point the pipeline at fake servers.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Pipeline) error {
		if client == nil {
			return errors.NewValidationError("http_client", nil, "must not be nil")
		}
		p.httpClient = client
		return nil
	}
}

// WithCentroidsURL overrides the centroid source URL.
func WithCentroidsURL(url string) Option {
	return func(p *Pipeline) error {
		if url == "" {
			return errors.NewValidationError("centroids_url", url, "must not be empty")
		}
		p.centroidsURL = url
		return nil
	}
}

// WithM49URL overrides the UN M49 source URL.
func WithM49URL(url string) Option {
	return func(p *Pipeline) error {
		if url == "" {
			return errors.NewValidationError("m49_url", url, "must not be empty")
		}
		p.m49URL = url
		return nil
	}
}

// WithOutputPath overrides the output file path.
func WithOutputPath(path string) Option {
	return func(p *Pipeline) error {
		if path == "" {
			return errors.NewValidationError("output_path", path, "must not be empty")
		}
		p.outputPath = path
		return nil
	}
}

// WithCurated replaces the embedded curated reconciliation tables.
func WithCurated(curated reconcile.Curated) Option {
	return func(p *Pipeline) error {
		p.curated = &curated
		return nil
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			return errors.NewValidationError("logger", nil, "must not be nil")
		}
		p.logger = logger
		return nil
	}
}

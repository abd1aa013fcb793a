// Package transport provides the HTTP client used to fetch the
// upstream source documents.
package transport

import (
	"context"
	"fmt"
	"net/http"

	"github.com/agentstation/countries/pkg/constants"
	"github.com/agentstation/countries/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality for the source fetchers.
// Both upstream documents are public, so there is no authentication.
type Client struct {
	http *http.Client
}

// New creates a new transport client.
func New() *Client {
	return &Client{
		http: &http.Client{Timeout: DefaultHTTPTimeout},
	}
}

// NewWithHTTPClient creates a transport client backed by the given
// http.Client. Used by tests to point sources at fake servers.
func NewWithHTTPClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		return New()
	}
	return &Client{http: httpClient}
}

// Get performs a GET request against url on behalf of the named
// source and verifies the response status. The caller owns the
// response body on success.
func (c *Client) Get(ctx context.Context, source, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapFetch(source, url, 0, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapFetch(source, url, 0, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, errors.NewFetchError(source, url, resp.StatusCode,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	return resp, nil
}

// Package centroids provides a client for the world-countries-centroids
// CSV source.
package centroids

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/agentstation/countries/internal/sources"
	"github.com/agentstation/countries/internal/transport"
	"github.com/agentstation/countries/pkg/constants"
	"github.com/agentstation/countries/pkg/errors"
	"github.com/agentstation/countries/pkg/regions"
)

// Column names in the upstream CSV. The aggregate columns COUNTRYAFF
// and AFF_ISO are present in the document but discarded here.
const (
	colISO       = "ISO"
	colCountry   = "COUNTRY"
	colLatitude  = "latitude"
	colLongitude = "longitude"
)

// Client fetches and parses the centroid CSV.
type Client struct {
	transport *transport.Client
	url       string
}

// Option configures a Client.
type Option func(*Client)

// WithURL overrides the source URL. Used by tests to target a fake
// server.
func WithURL(url string) Option {
	return func(c *Client) {
		c.url = url
	}
}

// WithTransport overrides the transport client.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// New creates a centroid source client with the default URL and
// transport.
func New(opts ...Option) *Client {
	c := &Client{
		transport: transport.New(),
		url:       constants.CentroidsURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the source identifier.
func (c *Client) ID() sources.ID {
	return sources.CentroidsID
}

// Fetch retrieves the centroid CSV and converts it into raw centroid
// rows. The rows are returned as-is: trimming, exclusion filtering,
// and manual additions are the reconciler's responsibility.
func (c *Client) Fetch(ctx context.Context) ([]regions.Centroid, error) {
	resp, err := c.transport.Get(ctx, c.ID().String(), c.url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	reader := csv.NewReader(resp.Body)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.WrapParse("csv", c.url, err)
	}

	cols, err := columnIndexes(header, c.url)
	if err != nil {
		return nil, err
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", c.url, err)
	}

	centroids := make([]regions.Centroid, 0, len(records))
	for i, record := range records {
		lat, err := strconv.ParseFloat(record[cols.latitude], 64)
		if err != nil {
			return nil, errors.NewParseError("csv", c.url,
				fmt.Sprintf("row %d: invalid latitude %q", i+1, record[cols.latitude]), err)
		}
		lon, err := strconv.ParseFloat(record[cols.longitude], 64)
		if err != nil {
			return nil, errors.NewParseError("csv", c.url,
				fmt.Sprintf("row %d: invalid longitude %q", i+1, record[cols.longitude]), err)
		}

		centroids = append(centroids, regions.Centroid{
			Country:   record[cols.country],
			ISO2:      record[cols.iso],
			Latitude:  lat,
			Longitude: lon,
		})
	}

	return centroids, nil
}

// columns holds the indexes of the fields we keep.
type columns struct {
	iso       int
	country   int
	latitude  int
	longitude int
}

// columnIndexes locates the required columns in the CSV header. A
// missing column is fatal: downstream cleaning assumes this schema.
func columnIndexes(header []string, url string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	cols := columns{}
	for _, want := range []struct {
		name string
		dst  *int
	}{
		{colISO, &cols.iso},
		{colCountry, &cols.country},
		{colLatitude, &cols.latitude},
		{colLongitude, &cols.longitude},
	} {
		i, ok := index[want.name]
		if !ok {
			return columns{}, errors.NewParseError("csv", url,
				fmt.Sprintf("missing expected column %q", want.name), nil)
		}
		*want.dst = i
	}

	return cols, nil
}

// Package m49 provides a client for the UN Statistics Division M49
// classification table, extracted from the methodology overview page.
package m49

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/agentstation/countries/internal/sources"
	"github.com/agentstation/countries/internal/transport"
	"github.com/agentstation/countries/pkg/constants"
	"github.com/agentstation/countries/pkg/errors"
	"github.com/agentstation/countries/pkg/regions"
)

// Column headers of the classification table.
const (
	colCountry   = "Country or Area"
	colM49       = "M49 Code"
	colRegion    = "Region Name"
	colSubregion = "Sub-region Name"
	colISO3      = "ISO-alpha3 Code"
	colISO2      = "ISO-alpha2 Code"
	colLDC       = "Least Developed Countries (LDC)"
)

// Client fetches the M49 overview page and extracts the classification
// table.
type Client struct {
	transport *transport.Client
	url       string
	tableID   string
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

// New creates an M49 source client with the default URL, table id, and
// transport.
func New(opts ...Option) *Client {
	c := &Client{
		transport: transport.New(),
		url:       constants.M49OverviewURL,
		tableID:   constants.M49TableID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the source identifier.
func (c *Client) ID() sources.ID {
	return sources.M49ID
}

// Fetch retrieves the overview page, locates the classification table
// by its element id, and converts it into raw classification rows.
// The LDC marker cell is carried through verbatim; deriving the
// boolean is the reconciler's responsibility.
func (c *Client) Fetch(ctx context.Context) ([]regions.RawClassification, error) {
	resp, err := c.transport.Get(ctx, c.ID().String(), c.url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, errors.WrapParse("html", c.url, err)
	}

	table := findTable(doc, c.tableID)
	if table == nil {
		return nil, errors.NewParseError("html", c.url,
			fmt.Sprintf("table #%s not found in document", c.tableID), nil)
	}

	return c.parseTable(table)
}

// parseTable converts the located table element into rows. The first
// table row is the header; every required column must be present.
func (c *Client) parseTable(table *html.Node) ([]regions.RawClassification, error) {
	trs := collectRows(table)
	if len(trs) == 0 {
		return nil, errors.NewParseError("html", c.url,
			fmt.Sprintf("table #%s has no rows", c.tableID), nil)
	}

	header := cellTexts(trs[0])
	cols, err := columnIndexes(header, c.url)
	if err != nil {
		return nil, err
	}

	classifications := make([]regions.RawClassification, 0, len(trs)-1)
	for i, tr := range trs[1:] {
		cells := cellTexts(tr)
		if len(cells) == 0 {
			continue // spacer row
		}
		if len(cells) < len(header) {
			return nil, errors.NewParseError("html", c.url,
				fmt.Sprintf("row %d has %d cells, want %d", i+1, len(cells), len(header)), nil)
		}

		m49, err := strconv.Atoi(cells[cols.m49])
		if err != nil {
			return nil, errors.NewParseError("html", c.url,
				fmt.Sprintf("row %d: invalid M49 code %q", i+1, cells[cols.m49]), err)
		}

		classifications = append(classifications, regions.RawClassification{
			Country:   cells[cols.country],
			Region:    cells[cols.region],
			Subregion: cells[cols.subregion],
			M49:       m49,
			ISO2:      cells[cols.iso2],
			ISO3:      cells[cols.iso3],
			LDCMarker: cells[cols.ldc],
		})
	}

	return classifications, nil
}

// columns holds the indexes of the fields we keep.
type columns struct {
	country   int
	m49       int
	region    int
	subregion int
	iso3      int
	iso2      int
	ldc       int
}

// columnIndexes locates the required columns in the table header. A
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
		{colCountry, &cols.country},
		{colM49, &cols.m49},
		{colRegion, &cols.region},
		{colSubregion, &cols.subregion},
		{colISO3, &cols.iso3},
		{colISO2, &cols.iso2},
		{colLDC, &cols.ldc},
	} {
		i, ok := index[want.name]
		if !ok {
			return columns{}, errors.NewParseError("html", url,
				fmt.Sprintf("missing expected column %q", want.name), nil)
		}
		*want.dst = i
	}

	return cols, nil
}

// findTable returns the first <table> element with the given id, or
// nil if the document has none.
func findTable(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && n.Data == "table" {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if table := findTable(child, id); table != nil {
			return table
		}
	}
	return nil
}

// collectRows returns all <tr> elements within the table, in document
// order, whether or not they are wrapped in thead/tbody.
func collectRows(table *html.Node) []*html.Node {
	var trs []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			trs = append(trs, n)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for child := table.FirstChild; child != nil; child = child.NextSibling {
		walk(child)
	}
	return trs
}

// cellTexts returns the text of each <th> or <td> cell in the row,
// with inner whitespace collapsed.
func cellTexts(tr *html.Node) []string {
	var cells []string
	for n := tr.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && (n.Data == "th" || n.Data == "td") {
			cells = append(cells, collapseWhitespace(textContent(n)))
		}
	}
	return cells
}

// textContent concatenates all descendant text nodes.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}

// collapseWhitespace trims the string and collapses runs of interior
// whitespace into single spaces, matching how browsers render cells.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Package kegg provides a client for the KEGG REST API, covering the
// two reference tables the pipeline needs: pathway↔gene links and
// pathway names for one organism.
package kegg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ostrowski-lab/covid19-dge/internal/tabio"
)

// DefaultBaseURL is the default KEGG REST endpoint.
const DefaultBaseURL = "https://rest.kegg.jp"

// PathwayLink is one gene→pathway edge from /link/pathway/{org}.
type PathwayLink struct {
	GeneID    string
	PathwayID string
}

// PathwayName pairs a pathway identifier with its human-readable name
// from /list/pathway/{org}.
type PathwayName struct {
	PathwayID string
	Name      string
}

// Client provides access to the KEGG REST API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the KEGG client.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.HTTPClient = httpClient
	}
}

// NewClient creates a new KEGG client with the given options.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GeneLinks fetches the gene→pathway edges for an organism. KEGG
// returns lines of the form "hsa:10327\tpath:hsa00010"; the organism
// and database prefixes are stripped.
func (c *Client) GeneLinks(ctx context.Context, organism string) ([]PathwayLink, error) {
	rows, err := c.get(ctx, fmt.Sprintf("%s/link/pathway/%s", c.BaseURL, organism))
	if err != nil {
		return nil, err
	}

	links := make([]PathwayLink, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("malformed link row: %q", strings.Join(row, "\t"))
		}
		links = append(links, PathwayLink{
			GeneID:    stripPrefix(row[0]),
			PathwayID: stripPrefix(row[1]),
		})
	}
	return links, nil
}

// PathwayNames fetches the pathway identifier → name table for an
// organism. The organism suffix KEGG appends to every name (for hsa,
// " - Homo sapiens (human)") is trimmed.
func (c *Client) PathwayNames(ctx context.Context, organism string) ([]PathwayName, error) {
	rows, err := c.get(ctx, fmt.Sprintf("%s/list/pathway/%s", c.BaseURL, organism))
	if err != nil {
		return nil, err
	}

	names := make([]PathwayName, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("malformed list row: %q", strings.Join(row, "\t"))
		}
		name := row[1]
		if i := strings.LastIndex(name, " - "); i >= 0 {
			name = name[:i]
		}
		names = append(names, PathwayName{
			PathwayID: stripPrefix(row[0]),
			Name:      name,
		})
	}
	return names, nil
}

// get executes a GET request and parses the flat tab-delimited body.
func (c *Client) get(ctx context.Context, url string) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("KEGG API error: %s - %s", resp.Status, string(bodyBytes))
	}

	rows, err := tabio.NewTabReader(resp.Body, false).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return rows, nil
}

// stripPrefix removes a "db:" style prefix ("hsa:10327" → "10327",
// "path:hsa00010" → "hsa00010").
func stripPrefix(s string) string {
	if i := strings.Index(s, ":"); i >= 0 {
		return s[i+1:]
	}
	return s
}

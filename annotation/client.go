// Package annotation provides a client for the MyGene.info gene
// annotation service, used to bridge gene symbols to stable Entrez
// gene identifiers.
package annotation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the default MyGene.info API endpoint.
	DefaultBaseURL = "https://mygene.info/v3"
	// DefaultBatchSize is the number of symbols sent per query request,
	// matching the service's per-request limit.
	DefaultBatchSize = 1000
)

// Gene pairs a symbol with its external stable identifier.
type Gene struct {
	Symbol string
	GeneID string
}

// Client provides access to the MyGene.info query API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	BatchSize  int
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the annotation client.
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

// WithBatchSize sets the number of symbols per query request.
func WithBatchSize(n int) ClientOption {
	return func(c *Client) {
		c.BatchSize = n
	}
}

// NewClient creates a new annotation client with the given options.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		BatchSize:  DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// queryHit is one element of the batch-query response. A symbol absent
// from the annotation universe comes back with NotFound set, and some
// hits carry no Entrez ID at all.
type queryHit struct {
	Query      string      `json:"query"`
	Entrezgene json.Number `json:"entrezgene"`
	NotFound   bool        `json:"notfound"`
}

// MapSymbols resolves gene symbols to Entrez gene IDs for one species.
// Symbols the service does not know are silently excluded from the
// result; callers joining against the returned set lose those genes
// without a warning.
func (c *Client) MapSymbols(ctx context.Context, symbols []string, species string) ([]Gene, error) {
	var genes []Gene

	for start := 0; start < len(symbols); start += c.BatchSize {
		end := start + c.BatchSize
		if end > len(symbols) {
			end = len(symbols)
		}

		batch, err := c.queryBatch(ctx, symbols[start:end], species)
		if err != nil {
			return nil, err
		}
		genes = append(genes, batch...)
	}
	return genes, nil
}

// queryBatch executes one POST /query request.
func (c *Client) queryBatch(ctx context.Context, symbols []string, species string) ([]Gene, error) {
	form := url.Values{}
	form.Set("q", strings.Join(symbols, ","))
	form.Set("scopes", "symbol")
	form.Set("fields", "entrezgene")
	form.Set("species", species)

	reqURL := c.BaseURL + "/query"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("annotation API error: %s - %s", resp.Status, string(bodyBytes))
	}

	var hits []queryHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	genes := make([]Gene, 0, len(hits))
	seen := make(map[string]bool, len(hits))
	for _, hit := range hits {
		if hit.NotFound || hit.Entrezgene.String() == "" {
			continue
		}
		// The service may return several hits per symbol; the first wins.
		if seen[hit.Query] {
			continue
		}
		seen[hit.Query] = true
		genes = append(genes, Gene{Symbol: hit.Query, GeneID: hit.Entrezgene.String()})
	}
	return genes, nil
}

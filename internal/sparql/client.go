// Package sparql is a minimal client for SPARQL 1.1 query endpoints that
// return JSON results, such as the Wikidata query service.
package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

// ResultsMediaType is requested through the Accept header.
const ResultsMediaType = "application/sparql-results+json"

// previewLen bounds the body excerpt kept in a ParseError.
const previewLen = 500

// Client sends queries to a single endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
}

// NewClient creates a client for endpoint. A zero timeout means requests
// never time out on their own.
func NewClient(endpoint, userAgent string, timeout time.Duration) *Client {
	return NewClientWithHTTP(endpoint, userAgent, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a client using a custom HTTP client.
func NewClientWithHTTP(endpoint, userAgent string, httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		userAgent:  userAgent,
	}
}

// StatusError is returned when the endpoint answers with a non-200 status.
type StatusError struct {
	Body string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("query service returned HTTP %d", e.Code)
}

// ParseError is returned when the response body is not a SPARQL results
// document: invalid JSON or no results.bindings member.
type ParseError struct {
	Err     error
	Preview string // first 500 bytes of the body
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("response is not a valid results document: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Query runs query with a single GET request and decodes the results.
// There is no retry: any failure is returned to the caller.
func (c *Client) Query(ctx context.Context, query string) (*Results, error) {
	requestURL := c.endpoint + "?" + url.Values{"query": {query}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "build request")
	}
	req.Header.Set("Accept", ResultsMediaType)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	log.Debug().
		Str("endpoint", c.endpoint).
		Int("query_len", len(query)).
		Msg("Sending SPARQL query")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "query request")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "read response")
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("Query response received")

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var res Results
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &ParseError{Err: err, Preview: preview(body)}
	}
	if res.Results.Bindings == nil {
		return nil, &ParseError{Err: eris.New("missing results.bindings"), Preview: preview(body)}
	}

	return &res, nil
}

func preview(body []byte) string {
	if len(body) > previewLen {
		body = body[:previewLen]
	}
	return string(body)
}

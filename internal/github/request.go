package github

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const (
	acceptHeader    = "application/vnd.github.v3+json"
	contentEncoding = "gzip, deflate, br"
)

var (
	// ErrRateLimited is returned when the API responds with 403, meaning the
	// shared request budget for this credential is exhausted.
	ErrRateLimited = errors.New("github: rate limit exceeded")
	// ErrQueryRejected is returned when the Search API refuses the query (422).
	ErrQueryRejected = errors.New("github: search query rejected")
)

type SearchResponse struct {
	TotalCount        int    `json:"total_count"`
	IncompleteResults bool   `json:"incomplete_results"`
	Items             []Item `json:"items"`
}

type Item interface{}

// GetItems makes a GET request to the GitHub Search API and returns the raw
// items of a single result page.
func (c *Client) GetItems(endpoint string, q url.Values) ([]Item, error) {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	req.URL.RawQuery = q.Encode()

	resp, err := c.request(req)
	if err != nil {
		return nil, fmt.Errorf("github: transport: %w", err)
	}

	response, err := c.parseSearchResponse(resp)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("got response from github",
		zap.Int("total_count", response.TotalCount),
		zap.Int("items", len(response.Items)),
		zap.Bool("incomplete_results", response.IncompleteResults),
	)

	return response.Items, nil
}

func (c *Client) parseSearchResponse(resp *http.Response) (*SearchResponse, error) {
	body, err := responseBody(resp)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var response *SearchResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, err
	}

	return response, nil
}

// checkStatus maps API status codes to the client error taxonomy.
func checkStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusForbidden:
		return ErrRateLimited
	case http.StatusUnprocessableEntity:
		return ErrQueryRejected
	default:
		return fmt.Errorf("github: bad status: %s", resp.Status)
	}
}

func responseBody(resp *http.Response) (io.ReadCloser, error) {
	if resp.Header.Get("Content-Encoding") == "gzip" {
		return gzip.NewReader(resp.Body)
	}
	return resp.Body, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

func (c *Client) getJSON(endpoint string, q url.Values, target interface{}) error {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.request(req)
	if err != nil {
		return fmt.Errorf("github: transport: %w", err)
	}

	body, err := responseBody(resp)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if target == nil {
		return nil
	}

	return json.NewDecoder(body).Decode(target)
}

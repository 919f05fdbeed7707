package github

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	SearchPath = "/search/issues"

	searchSort  = "updated"
	searchOrder = "desc"
)

func (c *Client) search(query Query) (*RawIssues, error) {
	perPage := query.PerPage
	if perPage <= 0 || perPage > maxPerPage {
		perPage = maxPerPage
	}

	q := url.Values{}
	q.Set("q", query.Text)
	q.Set("sort", searchSort)
	q.Set("order", searchOrder)
	q.Set("per_page", strconv.Itoa(perPage))

	endpoint := fmt.Sprintf("%s%s", c.APIURL, SearchPath)

	items, err := c.GetItems(endpoint, q)
	if err != nil {
		return nil, err
	}

	var decoded []*RawIssue
	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &decoded,
		TagName:  "json",
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode search items: %w", err)
	}

	issues := make([]*RawIssue, 0, len(decoded))
	dropped := 0
	for _, item := range decoded {
		if item == nil {
			continue
		}
		if item.IsPullRequest() {
			dropped++
			continue
		}
		issues = append(issues, item)
	}

	if dropped > 0 {
		c.logger.Debug("dropped pull request records from search results",
			zap.String("query", query.Text),
			zap.Int("dropped", dropped),
		)
	}

	return &RawIssues{Items: issues}, nil
}

// RateLimit describes the current state of the API request budget.
type RateLimit struct {
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
	Reset     int `json:"reset"`
}

type rateLimitResponse struct {
	Rate RateLimit `json:"rate"`
}

func (c *Client) getRateLimit() (*RateLimit, error) {
	var response rateLimitResponse
	endpoint := fmt.Sprintf("%s/rate_limit", c.APIURL)
	if err := c.getJSON(endpoint, nil, &response); err != nil {
		return nil, err
	}

	return &response.Rate, nil
}

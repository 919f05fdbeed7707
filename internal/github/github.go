package github

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.github.com"
	userAgent = "oss-mentor/issue-scout (issue discovery)"
	// Max value for search per page allowed by the API.
	maxPerPage = 100

	// Hourly request budgets documented by GitHub. Informational for the
	// caller's pacing decisions, not enforced here.
	RateBudgetUnauthenticated = 60
	RateBudgetAuthenticated   = 5000
)

type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(ctx context.Context, logger *zap.Logger, token string) *Client {
	return &Client{
		ctx:    ctx,
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// RateBudget returns the hourly request budget for the client's credential.
func (c *Client) RateBudget() int {
	if c.token != "" {
		return RateBudgetAuthenticated
	}
	return RateBudgetUnauthenticated
}

func (c *Client) Search(query Query) (*RawIssues, error) {
	return c.search(query)
}

func (c *Client) CheckRateLimit() (*RateLimit, error) {
	return c.getRateLimit()
}

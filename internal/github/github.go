package github

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.github.com"
	userAgent = "jatinkmr/ai-candidate-analysis"
	// Max value for list requests per page.
	perPage = 100
	// Commit enumeration per repository is capped to keep fetch latency bounded.
	defaultMaxCommitsPerRepo = 200
)

// ErrUserNotFound is returned when the requested username does not exist.
var ErrUserNotFound = errors.New("github user not found")

// ErrUnauthorized is returned when the configured token is rejected by the API.
var ErrUnauthorized = errors.New("github authentication failed")

type Client struct {
	token  string
	logger *zap.Logger

	HTTPClient        *http.Client
	UserAgent         string
	APIURL            string
	MaxCommitsPerRepo int
}

func New(token string, logger *zap.Logger) *Client {
	return &Client{
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:            logger,
		UserAgent:         userAgent,
		MaxCommitsPerRepo: defaultMaxCommitsPerRepo,
	}
}

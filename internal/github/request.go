package github

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

const (
	acceptHeader    = "application/vnd.github+json"
	contentEncoding = "gzip, deflate, br"
)

// getJSON makes a GET request against the GitHub API and decodes the response
// body into target. A nil target discards the body.
func (c *Client) getJSON(ctx context.Context, url string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.request(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if err := checkStatus(resp); err != nil {
		return err
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decoding github response from %s: %w", req.URL.Path, err)
	}

	return nil
}

// getPaged repeatedly decodes pages of url into slices of T until a short page
// signals the end of the collection or the optional max cap is reached.
func getPaged[T any](ctx context.Context, c *Client, url string, q url.Values, max int) ([]T, error) {
	var items []T

	if q == nil {
		q = make(map[string][]string)
	}
	q.Set("per_page", strconv.Itoa(perPage))

	for page := 1; ; page++ {
		q.Set("page", strconv.Itoa(page))

		var batch []T
		if err := c.getJSON(ctx, url, q, &batch); err != nil {
			return nil, err
		}

		items = append(items, batch...)

		if max > 0 && len(items) >= max {
			return items[:max], nil
		}

		if len(batch) < perPage {
			return items, nil
		}
	}
}

// StatusError reports a non-success HTTP status from the GitHub API.
type StatusError struct {
	Code   int
	Status string
	Path   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status from %s: %s", e.Path, e.Status)
}

func checkStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrUserNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, resp.Status)
	default:
		return &StatusError{
			Code:   resp.StatusCode,
			Status: resp.Status,
			Path:   resp.Request.URL.Path,
		}
	}
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

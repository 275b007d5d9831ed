package scm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultWebURL = "https://github.com"

// FeedstockChecker probes the public GitHub pages of feedstock repositories.
// It sends no credentials.
type FeedstockChecker struct {
	client  *http.Client
	owner   string
	baseURL string
}

func NewFeedstockChecker(client *http.Client, owner string) *FeedstockChecker {
	return &FeedstockChecker{
		client:  client,
		owner:   owner,
		baseURL: defaultWebURL,
	}
}

// URL returns the page probed for feedstock.
func (c *FeedstockChecker) URL(feedstock string) string {
	return fmt.Sprintf("%s/%s/%s-feedstock", strings.TrimSuffix(c.baseURL, "/"), c.owner, feedstock)
}

// Exists reports whether the feedstock page answers 200 OK.
func (c *FeedstockChecker) Exists(ctx context.Context, feedstock string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(feedstock), nil)
	if err != nil {
		return false, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("probing %s-feedstock: %w", feedstock, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK, nil
}

// Package travis talks to the Travis CI v3 API. Only the calls needed to
// confirm that the API token works for a repository are implemented.
package travis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const DefaultEndpoint = "https://api.travis-ci.com"

var (
	// ErrMissingToken is returned when no Travis CI token is configured.
	ErrMissingToken = errors.New("no Travis CI token configured")

	// ErrRepoNotFound is returned when the API does not return the repository.
	ErrRepoNotFound = errors.New("repository not found on Travis CI")
)

// Repo is the subset of the Travis repository resource we read.
type Repo struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Active bool   `json:"active"`
}

type Client struct {
	client   *http.Client
	token    string
	endpoint string
}

func NewClient(client *http.Client, token string) *Client {
	return &Client{
		client:   client,
		token:    token,
		endpoint: DefaultEndpoint,
	}
}

// RepoInfo fetches owner/repo. A non-2xx answer is reported as ErrRepoNotFound,
// which for an existing feedstock means the token is not working.
func (c *Client) RepoInfo(ctx context.Context, owner, repo string) (*Repo, error) {
	if c.token == "" {
		return nil, ErrMissingToken
	}

	slug := url.PathEscape(owner + "/" + repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/repo/"+slug, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "conda-smithy")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Travis-API-Version", "3")
	req.Header.Set("Authorization", "token "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s/%s from Travis CI: %w", owner, repo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s/%s (status %d): %w", owner, repo, resp.StatusCode, ErrRepoNotFound)
	}

	var r Repo
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decoding Travis CI repo %s/%s: %w", owner, repo, err)
	}
	return &r, nil
}

// TokenFromFile reads the token conda-smithy stores in
// ~/.conda-smithy/travis.token. A missing file yields an empty token.
func TokenFromFile(home string) (string, error) {
	b, err := os.ReadFile(filepath.Join(home, ".conda-smithy", "travis.token"))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

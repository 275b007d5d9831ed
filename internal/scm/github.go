package scm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v72/github"
)

const (
	tokensRepo = "feedstock-tokens"

	deleteMessage = "[ci skip] [skip ci] [cf admin skip] ***NO_CI*** removing token for %s"
)

var (
	// ErrMissingToken is returned when no GitHub token is available.
	ErrMissingToken = errors.New("cannot manage feedstock tokens without a GitHub token")

	// ErrTokenNotFound is returned when a feedstock has no token record.
	ErrTokenNotFound = errors.New("feedstock token not found")
)

// TokenStore manages the token records kept in <owner>/feedstock-tokens.
type TokenStore struct {
	client *github.Client
	owner  string
}

// NewTokenStore returns a store authenticated with token. The same store is
// meant to be shared by every operation in a process.
func NewTokenStore(client *http.Client, token, owner string) (*TokenStore, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	return &TokenStore{
		client: github.NewClient(client).WithAuthToken(token),
		owner:  owner,
	}, nil
}

// Repo returns the full name of the token repository.
func (s *TokenStore) Repo() string {
	return s.owner + "/" + tokensRepo
}

// Verify checks that the token can read the token repository.
func (s *TokenStore) Verify(ctx context.Context) error {
	if _, _, err := s.client.Repositories.Get(ctx, s.owner, tokensRepo); err != nil {
		return fmt.Errorf("accessing %s: %w", s.Repo(), err)
	}
	return nil
}

func tokenPath(name string) string {
	return fmt.Sprintf("tokens/%s.json", name)
}

// TokenExists reports whether a token record exists for name, where name is
// the full feedstock name (e.g. "numpy-feedstock").
func (s *TokenStore) TokenExists(ctx context.Context, name string) (bool, error) {
	_, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, tokensRepo, tokenPath(name), nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("looking up token for %s: %w", name, err)
	}
	return true, nil
}

// DeleteToken removes the token record for name with a commit that skips CI.
func (s *TokenStore) DeleteToken(ctx context.Context, name string) error {
	path := tokenPath(name)

	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, tokensRepo, path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s: %w", name, ErrTokenNotFound)
		}
		return fmt.Errorf("fetching token for %s: %w", name, err)
	}
	if file == nil {
		// path resolved to a directory
		return fmt.Errorf("%s: %w", name, ErrTokenNotFound)
	}

	_, _, err = s.client.Repositories.DeleteFile(ctx, s.owner, tokensRepo, path, &github.RepositoryContentFileOptions{
		Message: github.Ptr(fmt.Sprintf(deleteMessage, name)),
		SHA:     github.Ptr(file.GetSHA()),
	})
	if err != nil {
		return fmt.Errorf("deleting token for %s: %w", name, err)
	}
	return nil
}

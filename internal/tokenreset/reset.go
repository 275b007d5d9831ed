// Package tokenreset rotates conda-forge feedstock tokens and checks that
// feedstocks exist.
package tokenreset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/conda-forge/tokenreset/internal/smithy"
	"github.com/conda-forge/tokenreset/internal/travis"
)

// TokenStore holds the feedstock token records.
type TokenStore interface {
	TokenExists(ctx context.Context, name string) (bool, error)
	DeleteToken(ctx context.Context, name string) error
}

// RepoProber confirms that a CI provider can see a repository.
type RepoProber interface {
	RepoInfo(ctx context.Context, owner, repo string) (*travis.Repo, error)
}

var errTravisToken = errors.New("the Travis CI API token is not working")

// Resetter resets feedstock tokens one package at a time.
type Resetter struct {
	Store        TokenStore
	Travis       RepoProber
	Smithy       smithy.Runner
	Organization string
	// TempDir is the parent for per-package work directories. Empty means
	// os.TempDir.
	TempDir string
}

// Reset deletes the token of name's feedstock if there is one, generates a
// new one, registers it with every provider not excluded, and rotates the
// staging binstar token.
func (r *Resetter) Reset(ctx context.Context, name string, skips []string) error {
	feedstock := name + "-feedstock"

	if !smithy.Skipped(smithy.Travis, skips) {
		repo, err := r.Travis.RepoInfo(ctx, r.Organization, feedstock)
		if err != nil {
			return fmt.Errorf("%w: %w", errTravisToken, err)
		}
		if repo == nil {
			return errTravisToken
		}
	}

	tmp, err := os.MkdirTemp(r.TempDir, "tokenreset-")
	if err != nil {
		return fmt.Errorf("creating work directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	dir := filepath.Join(tmp, feedstock)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating work directory: %w", err)
	}

	exists, err := r.Store.TokenExists(ctx, feedstock)
	if err != nil {
		return err
	}
	if exists {
		slog.Info("Deleting existing token", "feedstock", feedstock)
		if err := r.Store.DeleteToken(ctx, feedstock); err != nil {
			return err
		}
	}

	invocations := []smithy.Invocation{
		smithy.GenerateToken{
			FeedstockDir: dir,
			Organization: r.Organization,
		}.Invocation(),
		smithy.RegisterToken{
			FeedstockDir: dir,
			Organization: r.Organization,
			TokenRepo:    fmt.Sprintf(smithy.TokenRepoURL, r.Organization),
			Skips:        skips,
		}.Invocation(),
		smithy.RotateBinstarToken{
			FeedstockDir: dir,
			TokenName:    smithy.StagingTokenName,
			Skips:        skips,
		}.Invocation(),
	}
	for _, inv := range invocations {
		if err := r.Smithy.Run(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}

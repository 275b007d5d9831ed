package tokenreset

import (
	"context"
	"errors"
	"os"
	"slices"

	"github.com/conda-forge/tokenreset/internal/smithy"
	"github.com/conda-forge/tokenreset/internal/travis"
)

// calls is shared by the fakes so tests can assert on ordering across them.
type calls struct {
	log []string
}

func (c *calls) add(s string) {
	c.log = append(c.log, s)
}

type fakeStore struct {
	calls     *calls
	tokens    map[string]bool
	deleteErr error
}

func (s *fakeStore) TokenExists(_ context.Context, name string) (bool, error) {
	s.calls.add("exists " + name)
	return s.tokens[name], nil
}

func (s *fakeStore) DeleteToken(_ context.Context, name string) error {
	s.calls.add("delete " + name)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.tokens, name)
	return nil
}

type fakeTravis struct {
	calls  *calls
	broken []string
}

func (f *fakeTravis) RepoInfo(_ context.Context, owner, repo string) (*travis.Repo, error) {
	f.calls.add("travis " + repo)
	if slices.Contains(f.broken, repo) {
		return nil, travis.ErrRepoNotFound
	}
	return &travis.Repo{Slug: owner + "/" + repo, Active: true}, nil
}

type fakeSmithy struct {
	calls       *calls
	invocations []smithy.Invocation
	// failOn names a subcommand that fails.
	failOn string
	// dirSeen records whether each invocation's feedstock directory existed.
	dirSeen []bool
}

func (f *fakeSmithy) Run(_ context.Context, inv smithy.Invocation) error {
	f.calls.add("smithy " + inv.Subcommand)
	f.invocations = append(f.invocations, inv)

	dir := inv.Dir
	if i := slices.Index(inv.Args, "--feedstock_directory"); i >= 0 {
		dir = inv.Args[i+1]
	}
	_, err := os.Stat(dir)
	f.dirSeen = append(f.dirSeen, err == nil)

	if inv.Subcommand == f.failOn {
		return errors.New("exit status 1")
	}
	return nil
}

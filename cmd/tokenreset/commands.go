package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conda-forge/tokenreset/internal/scm"
	"github.com/conda-forge/tokenreset/internal/smithy"
	"github.com/conda-forge/tokenreset/internal/tokenreset"
	"github.com/conda-forge/tokenreset/internal/travis"
)

var (
	runCmd = &cobra.Command{
		Use:   "run [package...]",
		Short: "Reset the feedstock tokens of packages",
		Long: `Reset the feedstock tokens of the given packages.

Packages are read from the arguments or from a request file given with
--file, which holds a 'packages' list and an optional 'skip_providers' list.

Packages are processed one at a time. A package that fails does not stop the
others. When some fail, a request holding only the failed packages is written
to --output (or stdout) so it can be run again later.`,
		RunE: runRun,
	}

	checkCmd = &cobra.Command{
		Use:   "check [feedstock...]",
		Short: "Check that feedstocks exist",
		Long: `Check that a feedstock repository exists for every name given.

Names are read from the arguments or from a request file given with --file,
which holds a 'feedstocks' list. Names are given without the -feedstock
suffix. Every name is checked, and the command fails listing all missing ones.`,
		RunE: runCheck,
	}
)

// tokenStore is the part of scm.TokenStore the run command needs.
type tokenStore interface {
	tokenreset.TokenStore
	Verify(ctx context.Context) error
}

// Clients are built through these so tests can swap them.
var (
	newTokenStore = func(token, org string) (tokenStore, error) {
		return scm.NewTokenStore(http.DefaultClient, token, org)
	}
	newRepoProber = func(token string) tokenreset.RepoProber {
		return travis.NewClient(http.DefaultClient, token)
	}
	newFeedstockProber = func(org string) tokenreset.FeedstockProber {
		return scm.NewFeedstockChecker(http.DefaultClient, org)
	}
)

func init() {
	runCmd.Flags().StringP("file", "f", "", "request file (YAML or JSON)")
	runCmd.Flags().StringP("output", "o", "", "write the retry request here instead of stdout")
	runCmd.Flags().StringSlice("skip-providers", []string{}, "CI providers to leave alone (e.g. travis,azure)")

	checkCmd.Flags().StringP("file", "f", "", "request file (YAML or JSON)")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	req, err := loadRequest(cmd, args)
	if err != nil {
		return err
	}
	skips, _ := cmd.Flags().GetStringSlice("skip-providers")
	req.SkipProviders = append(req.SkipProviders, skips...)

	githubToken := viper.GetString("github-token")
	store, err := newTokenStore(githubToken, organization())
	if err != nil {
		return fmt.Errorf("%w. Use --github-token flag or set GITHUB_TOKEN environment variable", err)
	}
	if err := store.Verify(ctx); err != nil {
		return err
	}

	travisToken, err := travisToken()
	if err != nil {
		return err
	}

	resetter := &tokenreset.Resetter{
		Store:        store,
		Travis:       newRepoProber(travisToken),
		Smithy:       newSmithyRunner(cmd, githubToken),
		Organization: organization(),
	}

	retry, err := resetter.Run(ctx, req)
	if err != nil {
		return err
	}
	if retry == nil {
		slog.Info("Reset all feedstock tokens", "count", len(req.Packages))
		return nil
	}

	slog.Warn("Some feedstock tokens were not reset", "failed", retry.Packages)
	out, err := retry.Marshal()
	if err != nil {
		return err
	}
	return writeOutput(cmd, out)
}

func runCheck(cmd *cobra.Command, args []string) error {
	req, err := loadCheckRequest(cmd, args)
	if err != nil {
		return err
	}

	if err := tokenreset.Check(cmd.Context(), newFeedstockProber(organization()), req); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "All %d feedstocks found\n", len(req.Feedstocks))
	return nil
}

// Helper functions

func organization() string {
	if org := viper.GetString("organization"); org != "" {
		return org
	}
	return "conda-forge"
}

// newSmithyRunner hands smithy the configured GitHub token, which it expands
// into the token repo URL, and keeps its output off stdout so that stdout
// carries only the retry request.
func newSmithyRunner(cmd *cobra.Command, githubToken string) *smithy.ExecRunner {
	r := smithy.NewExecRunner(strings.Fields(viper.GetString("smithy")))
	r.Env = []string{"GITHUB_TOKEN=" + githubToken}
	r.Stdout = cmd.ErrOrStderr()
	r.Stderr = cmd.ErrOrStderr()
	return r
}

func travisToken() (string, error) {
	if token := viper.GetString("travis-token"); token != "" {
		return token, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return travis.TokenFromFile(home)
}

func readFileFlag(cmd *cobra.Command) ([]byte, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		return nil, nil
	}
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func loadRequest(cmd *cobra.Command, args []string) (*tokenreset.Request, error) {
	b, err := readFileFlag(cmd)
	if err != nil {
		return nil, err
	}
	if b == nil {
		if len(args) == 0 {
			return nil, fmt.Errorf("no packages specified. Use command-line arguments or --file")
		}
		return &tokenreset.Request{Packages: args}, nil
	}

	req, err := tokenreset.ParseRequest(b)
	if err != nil {
		return nil, err
	}
	req.Packages = append(req.Packages, args...)
	return req, nil
}

func loadCheckRequest(cmd *cobra.Command, args []string) (*tokenreset.CheckRequest, error) {
	b, err := readFileFlag(cmd)
	if err != nil {
		return nil, err
	}
	if b == nil {
		if len(args) == 0 {
			return nil, fmt.Errorf("no feedstocks specified. Use command-line arguments or --file")
		}
		return &tokenreset.CheckRequest{Feedstocks: args}, nil
	}

	req, err := tokenreset.ParseCheckRequest(b)
	if err != nil {
		return nil, err
	}
	req.Feedstocks = append(req.Feedstocks, args...)
	return req, nil
}

func writeOutput(cmd *cobra.Command, b []byte) error {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		_, err := cmd.OutOrStdout().Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

package smithy

import "strings"

// Provider names a CI or secret store that smithy can register tokens with.
type Provider string

const (
	Travis        Provider = "travis"
	Circle        Provider = "circle"
	Drone         Provider = "drone"
	GitHubActions Provider = "github_actions"
	Appveyor      Provider = "appveyor"
	Azure         Provider = "azure"
)

var (
	// RegisterExclusions are never registered with a feedstock token.
	RegisterExclusions = []Provider{Circle, Drone, GitHubActions}

	// RotateExclusions never receive the staging binstar token.
	RotateExclusions = []Provider{Appveyor, Azure, Circle, Drone, GitHubActions}
)

// ParseProvider normalizes a provider name: case and surrounding space are
// ignored and hyphens are read as underscores.
func ParseProvider(s string) Provider {
	s = strings.ToLower(strings.TrimSpace(s))
	return Provider(strings.ReplaceAll(s, "-", "_"))
}

// Flag renders the smithy option that disables p.
func (p Provider) Flag() string {
	return "--without-" + strings.ReplaceAll(string(p), "_", "-")
}

// Exclusions returns defaults followed by skips, in order, without
// duplicates. Empty names are dropped.
func Exclusions(defaults []Provider, skips []string) []Provider {
	seen := make(map[Provider]bool)
	result := []Provider{}

	add := func(p Provider) {
		if p != "" && !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}
	for _, p := range defaults {
		add(p)
	}
	for _, s := range skips {
		add(ParseProvider(s))
	}
	return result
}

// Skipped reports whether p is named in skips.
func Skipped(p Provider, skips []string) bool {
	for _, s := range skips {
		if ParseProvider(s) == p {
			return true
		}
	}
	return false
}

// WithoutFlags renders one --without-<provider> flag per provider.
func WithoutFlags(providers []Provider) []string {
	flags := make([]string, 0, len(providers))
	for _, p := range providers {
		flags = append(flags, p.Flag())
	}
	return flags
}

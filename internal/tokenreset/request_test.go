package tokenreset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`
action: token_reset
packages:
  - pkg_a
  - pkg_b
skip_providers:
  - travis
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg_a", "pkg_b"}, req.Packages)
	assert.Equal(t, []string{"travis"}, req.SkipProviders)
	assert.Equal(t, "token_reset", req.Extra["action"])
}

func TestParseRequestJSON(t *testing.T) {
	req, err := ParseRequest([]byte(`{"action": "token_reset", "packages": ["pkg_a"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg_a"}, req.Packages)
	assert.Nil(t, req.SkipProviders)
}

func TestParseRequestWithoutPackages(t *testing.T) {
	_, err := ParseRequest([]byte(`action: token_reset`))
	require.ErrorIs(t, err, ErrNoPackages)
}

func TestParseCheckRequest(t *testing.T) {
	req, err := ParseCheckRequest([]byte(`feedstocks: [numpy, scipy]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"numpy", "scipy"}, req.Feedstocks)

	_, err = ParseCheckRequest([]byte(`packages: [numpy]`))
	require.ErrorIs(t, err, ErrNoFeedstocks)
}

func TestRequestCloneIsDeep(t *testing.T) {
	req := &Request{
		Packages:      []string{"a"},
		SkipProviders: []string{"travis"},
		Extra: map[string]any{
			"meta": map[string]any{"tags": []any{"x"}},
		},
	}

	c := req.Clone()
	c.Packages[0] = "changed"
	c.SkipProviders[0] = "changed"
	c.Extra["meta"].(map[string]any)["tags"].([]any)[0] = "changed"

	assert.Equal(t, "a", req.Packages[0])
	assert.Equal(t, "travis", req.SkipProviders[0])
	assert.Equal(t, "x", req.Extra["meta"].(map[string]any)["tags"].([]any)[0])
}

func TestRequestMarshalRoundTrip(t *testing.T) {
	req := &Request{
		Packages: []string{"pkg_b"},
		Extra:    map[string]any{"action": "token_reset"},
	}

	b, err := req.Marshal()
	require.NoError(t, err)

	back, err := ParseRequest(b)
	require.NoError(t, err)
	assert.Equal(t, req.Packages, back.Packages)
	assert.Equal(t, "token_reset", back.Extra["action"])
	assert.NotContains(t, string(b), "skip_providers")
}

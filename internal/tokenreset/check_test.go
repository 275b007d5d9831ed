package tokenreset

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	existing []string
	failing  []string
	probed   []string
}

func (p *fakeProber) Exists(_ context.Context, feedstock string) (bool, error) {
	p.probed = append(p.probed, feedstock)
	if slices.Contains(p.failing, feedstock) {
		return false, errors.New("connection reset")
	}
	return slices.Contains(p.existing, feedstock), nil
}

func TestCheckAllPresent(t *testing.T) {
	p := &fakeProber{existing: []string{"real-one", "numpy"}}

	require.NoError(t, Check(t.Context(), p, &CheckRequest{Feedstocks: []string{"real-one", "numpy"}}))
}

func TestCheckMissing(t *testing.T) {
	p := &fakeProber{existing: []string{"numpy"}}

	err := Check(t.Context(), p, &CheckRequest{Feedstocks: []string{"gone", "numpy", "also-gone"}})

	var missing *MissingFeedstocksError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"gone", "also-gone"}, missing.Feedstocks)
	assert.Equal(t, "feedstocks [gone, also-gone] could not be found", err.Error())
	assert.Equal(t, []string{"gone", "numpy", "also-gone"}, p.probed)
}

func TestCheckTransportError(t *testing.T) {
	p := &fakeProber{existing: []string{"numpy"}, failing: []string{"flaky"}}

	err := Check(t.Context(), p, &CheckRequest{Feedstocks: []string{"flaky", "gone", "numpy"}})

	var missing *MissingFeedstocksError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"gone"}, missing.Feedstocks)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, []string{"flaky", "gone", "numpy"}, p.probed)
}

func TestCheckTransportErrorOnly(t *testing.T) {
	p := &fakeProber{existing: []string{"numpy"}, failing: []string{"flaky"}}

	err := Check(t.Context(), p, &CheckRequest{Feedstocks: []string{"flaky", "numpy"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	var missing *MissingFeedstocksError
	assert.False(t, errors.As(err, &missing))
}

func TestCheckRequiresFeedstocks(t *testing.T) {
	require.ErrorIs(t, Check(t.Context(), &fakeProber{}, &CheckRequest{}), ErrNoFeedstocks)
}

package tokenreset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// FeedstockProber reports whether a feedstock repository exists.
type FeedstockProber interface {
	Exists(ctx context.Context, feedstock string) (bool, error)
}

// MissingFeedstocksError lists every feedstock that could not be found.
type MissingFeedstocksError struct {
	Feedstocks []string
}

func (e *MissingFeedstocksError) Error() string {
	return fmt.Sprintf("feedstocks [%s] could not be found", strings.Join(e.Feedstocks, ", "))
}

// Check probes every feedstock of req. All of them are probed even after a
// miss. A lookup that fails proves nothing about its feedstock: the name is
// not reported missing, but its error is joined to the result.
func Check(ctx context.Context, prober FeedstockProber, req *CheckRequest) error {
	if req == nil || req.Feedstocks == nil {
		return ErrNoFeedstocks
	}

	var (
		missing []string
		errs    []error
	)
	for _, f := range req.Feedstocks {
		ok, err := prober.Exists(ctx, f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			slog.Debug("Feedstock not found", "feedstock", f)
			missing = append(missing, f)
		}
	}

	if len(missing) > 0 {
		errs = append([]error{&MissingFeedstocksError{Feedstocks: missing}}, errs...)
	}
	return errors.Join(errs...)
}

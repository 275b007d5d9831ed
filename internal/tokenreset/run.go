package tokenreset

import (
	"context"
	"log/slog"
)

// Outcome is the result of resetting one package. Err is nil on success.
type Outcome struct {
	Package string
	Err     error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// Result holds one Outcome per requested package, in request order.
type Result struct {
	Outcomes []Outcome
}

func (r Result) Succeeded() []string {
	return r.partition(true)
}

func (r Result) Failed() []string {
	return r.partition(false)
}

func (r Result) partition(ok bool) []string {
	var names []string
	for _, o := range r.Outcomes {
		if o.OK() == ok {
			names = append(names, o.Package)
		}
	}
	return names
}

// Process resets every package of req in order. Failures are logged and
// recorded, never returned. Once ctx is done the remaining packages fail
// with the context error without being attempted.
func (r *Resetter) Process(ctx context.Context, req *Request) Result {
	var res Result
	for _, pkg := range req.Packages {
		err := ctx.Err()
		if err == nil {
			err = r.Reset(ctx, pkg, req.SkipProviders)
		}
		if err != nil {
			slog.Error("Failed to reset token", "package", pkg, "error", err)
		} else {
			slog.Info("Reset token", "package", pkg)
		}
		res.Outcomes = append(res.Outcomes, Outcome{Package: pkg, Err: err})
	}
	return res
}

// Run resets the tokens of req. It returns nil when every package succeeded,
// and otherwise a copy of req whose packages are exactly the failed ones, to
// be retried later. The only error is ErrNoPackages.
func (r *Resetter) Run(ctx context.Context, req *Request) (*Request, error) {
	if req == nil || req.Packages == nil {
		return nil, ErrNoPackages
	}

	failed := r.Process(ctx, req).Failed()
	if len(failed) == 0 {
		return nil, nil
	}

	retry := req.Clone()
	retry.Packages = failed
	return retry, nil
}

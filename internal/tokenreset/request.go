package tokenreset

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoPackages   = errors.New("request has no packages")
	ErrNoFeedstocks = errors.New("request has no feedstocks")
)

// Request asks for the tokens of Packages to be reset. Keys other than
// packages and skip_providers are carried in Extra and survive a round trip.
type Request struct {
	Packages      []string       `yaml:"packages"`
	SkipProviders []string       `yaml:"skip_providers,omitempty"`
	Extra         map[string]any `yaml:",inline"`
}

// CheckRequest lists feedstocks, without the -feedstock suffix, that must exist.
type CheckRequest struct {
	Feedstocks []string `yaml:"feedstocks"`
}

// ParseRequest decodes a YAML or JSON token reset request.
func ParseRequest(b []byte) (*Request, error) {
	var req Request
	if err := yaml.Unmarshal(b, &req); err != nil {
		return nil, fmt.Errorf("parsing request: %w", err)
	}
	if req.Packages == nil {
		return nil, ErrNoPackages
	}
	return &req, nil
}

// ParseCheckRequest decodes a YAML or JSON check request.
func ParseCheckRequest(b []byte) (*CheckRequest, error) {
	var req CheckRequest
	if err := yaml.Unmarshal(b, &req); err != nil {
		return nil, fmt.Errorf("parsing request: %w", err)
	}
	if req.Feedstocks == nil {
		return nil, ErrNoFeedstocks
	}
	return &req, nil
}

// Marshal encodes the request as YAML.
func (r *Request) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}

// Clone returns a deep copy of r.
func (r *Request) Clone() *Request {
	c := &Request{
		Packages:      cloneStrings(r.Packages),
		SkipProviders: cloneStrings(r.SkipProviders),
	}
	if r.Extra != nil {
		c.Extra = cloneValue(r.Extra).(map[string]any)
	}
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[k] = cloneValue(e)
		}
		return m
	case map[any]any:
		m := make(map[any]any, len(v))
		for k, e := range v {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(v))
		for i, e := range v {
			s[i] = cloneValue(e)
		}
		return s
	case []string:
		return cloneStrings(v)
	default:
		return v
	}
}

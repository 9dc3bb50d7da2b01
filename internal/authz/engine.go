package authz

import (
	"context"
	"fmt"
	"time"
)

// Decision is the verdict for one policy evaluation. Failed names the first
// requirement that did not succeed when the decision is a deny.
type Decision struct {
	Allowed bool
	Policy  string
	Failed  Requirement
	Outcome Outcome
}

func (d Decision) Reason() string {
	if d.Allowed {
		return "all requirements succeeded"
	}
	if d.Failed == nil {
		return "denied"
	}
	return d.Failed.String() + " " + d.Outcome.String()
}

// Engine evaluates policies as a flat conjunction of requirements.
type Engine struct {
	policies Policies
	counter  OwnershipCounter
	now      func() time.Time
	observe  func(Decision)
}

type Option func(*Engine)

// WithOwnershipCounter supplies the live store used by MinimumResourceCount.
func WithOwnershipCounter(c OwnershipCounter) Option {
	return func(e *Engine) { e.counter = c }
}

// WithClock overrides the clock used for age checks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithObserver registers a callback invoked for every decision reached.
func WithObserver(fn func(Decision)) Option {
	return func(e *Engine) { e.observe = fn }
}

func NewEngine(policies Policies, opts ...Option) *Engine {
	e := &Engine{policies: policies, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Authorize evaluates the named policy for identity against res, which may be
// nil. An unknown policy yields a *ConfigurationError, not a deny.
func (e *Engine) Authorize(ctx context.Context, id Identity, res Resource, policy string) (Decision, error) {
	p, ok := e.policies.Lookup(policy)
	if !ok {
		return Decision{Policy: policy}, &ConfigurationError{Policy: policy, Msg: "not registered"}
	}
	d, err := e.evaluateAll(ctx, id, res, p.Requirements)
	d.Policy = policy
	if err != nil {
		return d, err
	}
	if e.observe != nil {
		e.observe(d)
	}
	return d, nil
}

// AuthorizeRequirements evaluates an ad-hoc requirement set.
func (e *Engine) AuthorizeRequirements(ctx context.Context, id Identity, res Resource, reqs ...Requirement) (Decision, error) {
	if len(reqs) == 0 {
		return Decision{}, &ConfigurationError{Msg: "no requirements given"}
	}
	d, err := e.evaluateAll(ctx, id, res, reqs)
	if err == nil && e.observe != nil {
		e.observe(d)
	}
	return d, err
}

func (e *Engine) evaluateAll(ctx context.Context, id Identity, res Resource, reqs []Requirement) (Decision, error) {
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return Decision{}, err
		}
		outcome, err := e.evaluate(ctx, id, res, req)
		if err != nil {
			return Decision{}, err
		}
		if outcome != Succeeded {
			return Decision{Allowed: false, Failed: req, Outcome: outcome}, nil
		}
	}
	return Decision{Allowed: true, Outcome: Succeeded}, nil
}

func (e *Engine) evaluate(ctx context.Context, id Identity, res Resource, req Requirement) (Outcome, error) {
	switch r := req.(type) {
	case ClaimPresent:
		return evaluateClaimPresent(id, r), nil
	case MinimumAge:
		return evaluateMinimumAge(id, r, e.now()), nil
	case ResourceOperation:
		return evaluateResourceOperation(id, res, r), nil
	case MinimumResourceCount:
		return evaluateMinimumResourceCount(ctx, id, e.counter, r)
	}
	return NotApplicable, &ConfigurationError{Msg: fmt.Sprintf("unsupported requirement %T", req)}
}

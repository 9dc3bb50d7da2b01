package authz

import (
	"fmt"
	"sort"
	"strings"
)

// Policy names referenced by routes and services.
const (
	PolicyHasNationality             = "HasNationality"
	PolicyAtLeast20                  = "Atleast20"
	PolicyCreatedAtLeast2Restaurants = "CreatedAtleast2Restaurants"

	PolicyRestaurantCreate = "RestaurantCreate"
	PolicyRestaurantRead   = "RestaurantRead"
	PolicyRestaurantUpdate = "RestaurantUpdate"
	PolicyRestaurantDelete = "RestaurantDelete"
)

type Policy struct {
	Name         string
	Requirements []Requirement
}

// Policies is an immutable set of named policies.
type Policies struct {
	byName map[string]Policy
}

// NewPolicies validates and freezes a policy set. Names must be unique and
// every policy needs at least one requirement.
func NewPolicies(policies ...Policy) (Policies, error) {
	byName := make(map[string]Policy, len(policies))
	for _, p := range policies {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return Policies{}, &ConfigurationError{Msg: "policy name is empty"}
		}
		if _, dup := byName[name]; dup {
			return Policies{}, &ConfigurationError{Policy: name, Msg: "registered twice"}
		}
		if len(p.Requirements) == 0 {
			return Policies{}, &ConfigurationError{Policy: name, Msg: "has no requirements"}
		}
		for i, r := range p.Requirements {
			if r == nil {
				return Policies{}, &ConfigurationError{Policy: name, Msg: fmt.Sprintf("requirement %d is nil", i)}
			}
		}
		reqs := make([]Requirement, len(p.Requirements))
		copy(reqs, p.Requirements)
		byName[name] = Policy{Name: name, Requirements: reqs}
	}
	return Policies{byName: byName}, nil
}

// DefaultPolicies returns the policy set the API runs with.
func DefaultPolicies() Policies {
	p, err := NewPolicies(
		Policy{Name: PolicyHasNationality, Requirements: []Requirement{ClaimPresent{Claim: ClaimNationality}}},
		Policy{Name: PolicyAtLeast20, Requirements: []Requirement{MinimumAge{Years: 20}}},
		Policy{Name: PolicyCreatedAtLeast2Restaurants, Requirements: []Requirement{MinimumResourceCount{Count: 2}}},
		Policy{Name: PolicyRestaurantCreate, Requirements: []Requirement{ResourceOperation{Operation: OperationCreate}}},
		Policy{Name: PolicyRestaurantRead, Requirements: []Requirement{ResourceOperation{Operation: OperationRead}}},
		Policy{Name: PolicyRestaurantUpdate, Requirements: []Requirement{ResourceOperation{Operation: OperationUpdate}}},
		Policy{Name: PolicyRestaurantDelete, Requirements: []Requirement{ResourceOperation{Operation: OperationDelete}}},
	)
	if err != nil {
		panic(err)
	}
	return p
}

// Lookup returns a copy of the named policy.
func (p Policies) Lookup(name string) (Policy, bool) {
	pol, ok := p.byName[name]
	if !ok {
		return Policy{}, false
	}
	reqs := make([]Requirement, len(pol.Requirements))
	copy(reqs, pol.Requirements)
	return Policy{Name: pol.Name, Requirements: reqs}, true
}

func (p Policies) Names() []string {
	names := make([]string, 0, len(p.byName))
	for n := range p.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Package authz decides whether an authenticated caller may perform an action,
// optionally against a specific resource, by evaluating named policies.
package authz

import (
	"sort"
	"strconv"
	"strings"
)

// Well-known claim names carried in access tokens.
const (
	ClaimUserID      = "user_id"
	ClaimName        = "name"
	ClaimRole        = "role"
	ClaimDateOfBirth = "date_of_birth"
	ClaimNationality = "nationality"
)

type Claim struct {
	Name  string
	Value string
}

// Identity is the immutable claim set of an authenticated caller.
type Identity struct {
	claims map[string]string
}

// NewIdentity builds an identity; a later claim with the same name wins.
func NewIdentity(claims ...Claim) Identity {
	m := make(map[string]string, len(claims))
	for _, c := range claims {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		m[name] = c.Value
	}
	return Identity{claims: m}
}

func (i Identity) Claim(name string) (string, bool) {
	v, ok := i.claims[name]
	return v, ok
}

// HasClaim reports whether the claim is present with a non-blank value.
func (i Identity) HasClaim(name string) bool {
	v, ok := i.claims[name]
	return ok && strings.TrimSpace(v) != ""
}

// UserID parses the user id claim. It is false when missing or not numeric.
func (i Identity) UserID() (int64, bool) {
	raw, ok := i.claims[ClaimUserID]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (i Identity) Role() string {
	return i.claims[ClaimRole]
}

// IsAuthenticated is true for identities carrying a valid user id.
func (i Identity) IsAuthenticated() bool {
	_, ok := i.UserID()
	return ok
}

// Claims returns a copy of the claim set sorted by name.
func (i Identity) Claims() []Claim {
	out := make([]Claim, 0, len(i.claims))
	for k, v := range i.claims {
		out = append(out, Claim{Name: k, Value: v})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

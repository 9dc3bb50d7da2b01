package authz

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Operation int

const (
	OperationCreate Operation = iota + 1
	OperationRead
	OperationUpdate
	OperationDelete
)

func (o Operation) String() string {
	switch o {
	case OperationCreate:
		return "Create"
	case OperationRead:
		return "Read"
	case OperationUpdate:
		return "Update"
	case OperationDelete:
		return "Delete"
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// Resource is anything with an owning user.
type Resource interface {
	OwnerID() int64
}

// OwnershipCounter counts the resources a user owns. Implementations read
// live storage and must honour ctx cancellation.
type OwnershipCounter interface {
	CountOwnedBy(ctx context.Context, userID int64) (int, error)
}

// Requirement is one parameterized predicate. The set of kinds is closed:
// only types in this package implement it.
type Requirement interface {
	fmt.Stringer
	requirement()
}

// ClaimPresent requires a non-empty claim.
type ClaimPresent struct {
	Claim string
}

// MinimumAge requires the date-of-birth claim to be at least Years old.
type MinimumAge struct {
	Years int
}

// MinimumResourceCount requires the caller to own at least Count resources.
type MinimumResourceCount struct {
	Count int
}

// ResourceOperation gates an operation on a specific resource.
type ResourceOperation struct {
	Operation Operation
}

func (ClaimPresent) requirement()         {}
func (MinimumAge) requirement()           {}
func (MinimumResourceCount) requirement() {}
func (ResourceOperation) requirement()    {}

func (r ClaimPresent) String() string { return "ClaimPresent(" + r.Claim + ")" }
func (r MinimumAge) String() string   { return fmt.Sprintf("MinimumAge(%d)", r.Years) }
func (r MinimumResourceCount) String() string {
	return fmt.Sprintf("MinimumResourceCount(%d)", r.Count)
}
func (r ResourceOperation) String() string { return "ResourceOperation(" + r.Operation.String() + ")" }

type Outcome int

const (
	NotApplicable Outcome = iota
	Succeeded
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "not_applicable"
}

var dateOfBirthLayouts = []string{"2006-01-02", time.RFC3339}

func parseDateOfBirth(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateOfBirthLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ageOn returns the number of whole years between dob and today.
func ageOn(dob, today time.Time) int {
	years := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		years--
	}
	return years
}

func evaluateClaimPresent(id Identity, r ClaimPresent) Outcome {
	if id.HasClaim(r.Claim) {
		return Succeeded
	}
	return Failed
}

func evaluateMinimumAge(id Identity, r MinimumAge, now time.Time) Outcome {
	raw, ok := id.Claim(ClaimDateOfBirth)
	if !ok {
		return Failed
	}
	dob, ok := parseDateOfBirth(raw)
	if !ok {
		return Failed
	}
	if ageOn(dob, now) >= r.Years {
		return Succeeded
	}
	return Failed
}

func evaluateResourceOperation(id Identity, res Resource, r ResourceOperation) Outcome {
	if res == nil {
		return Failed
	}
	switch r.Operation {
	case OperationCreate, OperationRead:
		return Succeeded
	case OperationUpdate, OperationDelete:
		userID, ok := id.UserID()
		if !ok {
			return Failed
		}
		if res.OwnerID() == userID {
			return Succeeded
		}
		return Failed
	}
	return NotApplicable
}

func evaluateMinimumResourceCount(ctx context.Context, id Identity, counter OwnershipCounter, r MinimumResourceCount) (Outcome, error) {
	userID, ok := id.UserID()
	if !ok {
		return Failed, nil
	}
	if counter == nil {
		return NotApplicable, ErrCounterUnavailable
	}
	n, err := counter.CountOwnedBy(ctx, userID)
	if err != nil {
		return NotApplicable, fmt.Errorf("count resources owned by user %d: %w", userID, err)
	}
	if n >= r.Count {
		return Succeeded, nil
	}
	return Failed, nil
}

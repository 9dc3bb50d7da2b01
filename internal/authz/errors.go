package authz

import (
	"errors"
	"fmt"
)

// ErrCounterUnavailable is returned when a policy needs ownership counts but
// the engine was built without an OwnershipCounter.
var ErrCounterUnavailable = errors.New("ownership counter is not configured")

// ConfigurationError is a programming error in policy setup, such as an
// unknown policy name. It is never a Deny.
type ConfigurationError struct {
	Policy string
	Msg    string
}

func (e *ConfigurationError) Error() string {
	if e.Policy == "" {
		return "authz configuration: " + e.Msg
	}
	return fmt.Sprintf("authz configuration: policy %q: %s", e.Policy, e.Msg)
}

func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

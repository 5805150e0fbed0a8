package secpolicy

import "errors"

// ErrInvalidPolicy is returned when the security configuration fails
// validation at startup.
var ErrInvalidPolicy = errors.New("invalid security policy")

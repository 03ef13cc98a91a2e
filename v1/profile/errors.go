package profile

import "errors"

var (
	// ErrProfileNotFound reports a lookup or delete of a profile id the
	// store does not hold.
	ErrProfileNotFound = errors.New("profile: profile not found")

	// ErrOverrideNotFound reports a lookup of an override that was never
	// saved or has been cleared.
	ErrOverrideNotFound = errors.New("profile: override not found")
)

// IsProfileNotFoundError reports whether err means the profile does not
// exist.
func IsProfileNotFoundError(err error) bool {
	return errors.Is(err, ErrProfileNotFound)
}

// IsOverrideNotFoundError reports whether err means no override is saved.
func IsOverrideNotFoundError(err error) bool {
	return errors.Is(err, ErrOverrideNotFound)
}

package ldap

import (
	"fmt"

	"github.com/go-ldap/ldap/v3"
)

// ValidateFilter checks a search filter against the RFC 4515 grammar. The
// filter is only compiled, never evaluated.
func ValidateFilter(filter string) error {
	if _, err := ldap.CompileFilter(filter); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidFilter, filter, err)
	}
	return nil
}

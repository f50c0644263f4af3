package ldap

import (
	"fmt"
	"strings"
)

// Components describes an LDAP URL by its parts. The zero value builds
// "ldap:///".
type Components struct {
	// Scheme accepts "ldap", "ldaps" or the full "ldap://" / "ldaps://" form,
	// case-insensitively. Empty selects DefaultScheme.
	Scheme        string
	DefaultScheme string

	Host string

	// Port is 0 for "no explicit port".
	Port int

	// DN is nil for a URL without a DN. A non-nil empty string is the root DSE.
	DN *string

	Attributes []string

	// Scope is a URL scope token; empty means base.
	Scope string

	// Filter is an RFC 4515 filter; empty means no filter.
	Filter string

	Extensions []Extension

	ForceScopeRendering bool
}

// hasQuery reports whether any part after the DN is set.
func (c Components) hasQuery() bool {
	return len(c.Attributes) > 0 || c.Scope != "" || c.Filter != "" || len(c.Extensions) > 0
}

// Build validates the components and assembles a URL. Unlike the URL
// setters, Build rejects out-of-range values instead of falling back to
// defaults. When attributes, scope, filter or extensions are given without
// a DN, the empty DN is used so they survive serialization.
func (c Components) Build() (*URL, error) {
	u := NewURL()

	scheme := c.Scheme
	if strings.TrimSpace(scheme) == "" {
		scheme = c.DefaultScheme
	}
	if strings.TrimSpace(scheme) != "" {
		s := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(scheme)), "://")
		if s != "ldap" && s != "ldaps" {
			return nil, NewEncodingError(ComponentScheme, 0, fmt.Sprintf("unsupported scheme %q, expected ldap or ldaps", scheme))
		}
		u.SetScheme(NormalizeScheme(s))
	}

	if c.Port != 0 && c.Host == "" {
		return nil, NewEncodingError(ComponentHostPort, 0, "port requires a host")
	}
	if c.Port < 0 || c.Port > maxPort {
		return nil, NewEncodingError(ComponentHostPort, 0, fmt.Sprintf("port %d out of range [1, %d]", c.Port, maxPort))
	}
	if err := validateHostComponent(c.Host); err != nil {
		return nil, err
	}
	u.SetHost(c.Host)
	u.SetPort(c.Port)

	switch {
	case c.DN != nil:
		if err := u.SetDN(*c.DN); err != nil {
			return nil, WrapError(ComponentDN, 0, err)
		}
	case c.hasQuery():
		if err := u.SetDN(""); err != nil {
			return nil, WrapError(ComponentDN, 0, err)
		}
	}

	for i, attr := range c.Attributes {
		if strings.TrimSpace(attr) == "" {
			return nil, NewEncodingError(ComponentAttributes, i, "empty attribute description")
		}
	}
	u.SetAttributes(c.Attributes)

	if c.Scope != "" {
		scope, err := ParseScope(strings.TrimSpace(c.Scope))
		if err != nil {
			return nil, WrapError(ComponentScope, 0, err)
		}
		u.SetScope(scope)
	}

	if err := u.SetFilter(c.Filter); err != nil {
		return nil, WrapError(ComponentFilter, 0, err)
	}

	if err := u.SetExtensions(c.Extensions); err != nil {
		return nil, WrapError(ComponentExtensions, 0, err)
	}

	u.SetForceScopeRendering(c.ForceScopeRendering)

	// Reject anything the parser would not read back identically.
	if _, err := Parse(u.String()); err != nil {
		return nil, err
	}

	return u, nil
}

// validateHostComponent applies the URL host grammar to a bare host.
func validateHostComponent(host string) error {
	if host == "" {
		return nil
	}
	p := &urlParser{input: SchemeLDAP + host + "/", url: NewURL()}
	end, err := p.parseHost(len(SchemeLDAP))
	if err != nil {
		return NewEncodingError(ComponentHostPort, 0, fmt.Sprintf("invalid host %q", host))
	}
	if end != len(SchemeLDAP)+len(host) {
		return NewEncodingError(ComponentHostPort, end-len(SchemeLDAP), fmt.Sprintf("invalid host %q", host))
	}
	return nil
}

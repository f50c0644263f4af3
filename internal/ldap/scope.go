package ldap

import (
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// Scope is the search scope carried by an LDAP URL.
type Scope int

const (
	ScopeBase     Scope = ldap.ScopeBaseObject
	ScopeOneLevel Scope = ldap.ScopeSingleLevel
	ScopeSubtree  Scope = ldap.ScopeWholeSubtree
)

// scopeTokens maps each scope to its RFC 2255 URL token.
var scopeTokens = map[Scope]string{
	ScopeBase:     "base",
	ScopeOneLevel: "one",
	ScopeSubtree:  "sub",
}

// String returns the URL token for the scope ("base", "one" or "sub").
func (s Scope) String() string {
	if token, ok := scopeTokens[s]; ok {
		return token
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

// IsValid reports whether s is one of the scopes an LDAP URL can carry.
func (s Scope) IsValid() bool {
	_, ok := scopeTokens[s]
	return ok
}

// LDAPScope returns the scope as the integer go-ldap expects in a SearchRequest.
func (s Scope) LDAPScope() int {
	return int(s)
}

// Description returns go-ldap's human-readable scope name.
func (s Scope) Description() string {
	if name, ok := ldap.ScopeMap[int(s)]; ok {
		return name
	}
	return s.String()
}

// ParseScope parses a scope token case-insensitively.
func ParseScope(token string) (Scope, error) {
	switch strings.ToLower(token) {
	case "base":
		return ScopeBase, nil
	case "one":
		return ScopeOneLevel, nil
	case "sub":
		return ScopeSubtree, nil
	default:
		return ScopeBase, fmt.Errorf("unknown scope %q, expected one of base, one, sub", token)
	}
}

// ScopeTokens returns the accepted scope tokens in declaration order.
func ScopeTokens() []string {
	return []string{"base", "one", "sub"}
}

/*
Package ldap parses and serializes RFC 2255 LDAP URLs for the Terraform
ldapurl provider.

# URL Model

A URL holds the scheme, host, port, distinguished name, attribute list,
search scope, filter and extensions of an LDAP URL:

	ldap://ldap.example.com:389/dc=example,dc=com?cn,mail?sub?(objectClass=person)?!x-ext=1

URLs are created either by Parse / ParseBytes or by NewURL followed by the
setters. Parsing is all-or-nothing: a malformed URL yields a nil *URL and an
error.

# Collaborators

DN and filter syntax are delegated to github.com/go-ldap/ldap/v3:

  - ParseDN wraps ldap.ParseDN (RFC 4514)
  - ValidateFilter wraps ldap.CompileFilter (RFC 4515)
  - Scope values are go-ldap's ScopeBaseObject, ScopeSingleLevel and ScopeWholeSubtree

# Encoding

String emits the shortest form that preserves every non-default element.
Characters outside the RFC 3986 reserved and unreserved sets are written as
%XX using uppercase hex. Commas inside list elements are written as %2c.

# Referrals

EncodeReferral, EncodeSearchResultReference and DecodeReferral convert
lists of URLs to and from their BER wire form using
github.com/go-asn1-ber/asn1-ber.

# Error Handling

Grammar violations are reported as *EncodingError carrying the failing
URLComponent and byte position. Malformed percent-escapes surface as a
*DecodingError inside the EncodingError chain, and DN or filter failures
wrap ErrInvalidDN or ErrInvalidFilter.

# Thread Safety

Parsing has no shared state. A URL may be read concurrently; setters must
not run concurrently with other methods.

# Example Usage

	u, err := ldap.Parse("ldap://ldap.example.com/dc=example,dc=com?cn?one")
	if err != nil {
		return err
	}

	req := goldap.NewSearchRequest(
		u.DNString(), u.Scope().LDAPScope(), goldap.NeverDerefAliases,
		0, 0, false, u.Filter(), u.Attributes(), nil,
	)
*/
package ldap

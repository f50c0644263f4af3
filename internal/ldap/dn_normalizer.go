package ldap

import (
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// ParseDN parses the decoded DN element of an LDAP URL. An empty or
// all-whitespace string yields the zero-length root DN.
func ParseDN(text string) (*ldap.DN, error) {
	dn, err := ldap.ParseDN(text)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidDN, text, err)
	}
	return dn, nil
}

// NormalizeDNCase rewrites the attribute type descriptors of a DN in uppercase,
// keeping values as written and re-escaping them per RFC 4514.
//
// Input:  "cn=john\, doe,ou=users,dc=example,dc=com"
// Output: "CN=john\, doe,OU=users,DC=example,DC=com"
func NormalizeDNCase(dn string) (string, error) {
	dn = strings.TrimSpace(dn)
	if dn == "" {
		return "", nil
	}

	parsedDN, err := ldap.ParseDN(dn)
	if err != nil {
		return "", fmt.Errorf("invalid DN syntax: %w", err)
	}

	rdnStrings := make([]string, 0, len(parsedDN.RDNs))
	for _, rdn := range parsedDN.RDNs {
		attrStrings := make([]string, 0, len(rdn.Attributes))
		for _, attr := range rdn.Attributes {
			attrStrings = append(attrStrings, strings.ToUpper(attr.Type)+"="+escapeDNValue(attr.Value))
		}
		rdnStrings = append(rdnStrings, strings.Join(attrStrings, "+"))
	}

	return strings.Join(rdnStrings, ","), nil
}

// EqualDN reports whether two DN strings name the same entry, comparing
// attribute types and values case-insensitively.
func EqualDN(a, b string) bool {
	dnA, err := ldap.ParseDN(a)
	if err != nil {
		return false
	}
	dnB, err := ldap.ParseDN(b)
	if err != nil {
		return false
	}
	return dnA.EqualFold(dnB)
}

// escapeDNValue escapes a DN attribute value according to RFC 4514 section 2.4.
func escapeDNValue(value string) string {
	if value == "" {
		return value
	}

	var b strings.Builder
	b.Grow(len(value) + 4)

	last := len(value) - 1
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == ',' || c == '+' || c == '"' || c == '\\' || c == '<' || c == '>' || c == ';':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '#' && i == 0:
			b.WriteString(`\#`)
		case c == ' ' && (i == 0 || i == last):
			b.WriteString(`\ `)
		case c == 0:
			b.WriteString(`\00`)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

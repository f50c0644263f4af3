package ldap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewURL(t *testing.T) {
	u := NewURL()

	assert.Equal(t, SchemeLDAP, u.Scheme())
	assert.Equal(t, "", u.Host())
	assert.Equal(t, PortUnset, u.Port())
	assert.False(t, u.HasDN())
	assert.Nil(t, u.DN())
	assert.Empty(t, u.Attributes())
	assert.Equal(t, ScopeBase, u.Scope())
	assert.False(t, u.HasFilter())
	assert.Empty(t, u.Extensions())
	assert.Equal(t, "ldap:///", u.String())
}

func TestURL_String(t *testing.T) {
	tests := []struct {
		name     string
		build    func(t *testing.T) *URL
		expected string
	}{
		{
			name: "host and port only",
			build: func(t *testing.T) *URL {
				u := NewURL()
				u.SetHost("ldap.example.com")
				u.SetPort(389)
				return u
			},
			expected: "ldap://ldap.example.com:389/",
		},
		{
			name: "DN only",
			build: func(t *testing.T) *URL {
				u := NewURL()
				require.NoError(t, u.SetDN("dc=example,dc=com"))
				return u
			},
			expected: "ldap:///dc=example,dc=com",
		},
		{
			name: "attributes without a DN are not emitted",
			build: func(t *testing.T) *URL {
				u := NewURL()
				u.SetHost("host")
				u.SetAttributes([]string{"cn"})
				return u
			},
			expected: "ldap://host/",
		},
		{
			name: "secure URL with encoded DN and subtree scope",
			build: func(t *testing.T) *URL {
				u := NewURL()
				u.SetScheme(SchemeLDAPS)
				u.SetHost("h")
				u.SetPort(636)
				require.NoError(t, u.SetDN("cn=John Doe,dc=x"))
				u.SetScope(ScopeSubtree)
				return u
			},
			expected: "ldaps://h:636/cn=John%20Doe,dc=x??sub",
		},
		{
			name: "attributes only",
			build: func(t *testing.T) *URL {
				u := NewURL()
				require.NoError(t, u.SetDN("dc=x"))
				u.SetAttributes([]string{"cn", "mail"})
				return u
			},
			expected: "ldap:///dc=x?cn,mail",
		},
		{
			name: "base scope with filter leaves the scope empty",
			build: func(t *testing.T) *URL {
				u := NewURL()
				require.NoError(t, u.SetDN("dc=x"))
				require.NoError(t, u.SetFilter("(cn=*)"))
				return u
			},
			expected: "ldap:///dc=x???(cn=*)",
		},
		{
			name: "forced scope rendering",
			build: func(t *testing.T) *URL {
				u := NewURL()
				require.NoError(t, u.SetDN("dc=x"))
				u.SetForceScopeRendering(true)
				return u
			},
			expected: "ldap:///dc=x??base",
		},
		{
			name: "forced scope rendering keeps filter and extensions",
			build: func(t *testing.T) *URL {
				u := NewURL()
				require.NoError(t, u.SetDN("dc=x"))
				require.NoError(t, u.SetFilter("(cn=*)"))
				require.NoError(t, u.AddExtension(Extension{Type: "e"}))
				u.SetForceScopeRendering(true)
				return u
			},
			expected: "ldap:///dc=x??base?(cn=*)?e",
		},
		{
			name: "extensions only",
			build: func(t *testing.T) *URL {
				u := NewURL()
				require.NoError(t, u.SetDN("dc=x"))
				require.NoError(t, u.SetExtensions([]Extension{
					NewExtension(true, "bindname", "cn=Manager,dc=example"),
					{Type: "x-opt"},
				}))
				return u
			},
			expected: "ldap:///dc=x????!bindname=cn=Manager%2cdc=example,x-opt",
		},
		{
			name: "filter with question mark",
			build: func(t *testing.T) *URL {
				u := NewURL()
				require.NoError(t, u.SetDN("dc=x"))
				require.NoError(t, u.SetFilter("(cn=what?)"))
				return u
			},
			expected: "ldap:///dc=x???(cn=what%3F)",
		},
		{
			name: "attribute with comma and space",
			build: func(t *testing.T) *URL {
				u := NewURL()
				require.NoError(t, u.SetDN(""))
				u.SetAttributes([]string{"a b", "c,d"})
				return u
			},
			expected: "ldap:///?a%20b,c%2cd",
		},
		{
			name: "non-ASCII DN",
			build: func(t *testing.T) *URL {
				u := NewURL()
				require.NoError(t, u.SetDN("cn=José,dc=example"))
				return u
			},
			expected: "ldap:///cn=Jos%C3%A9,dc=example",
		},
		{
			name: "extension type that looks like syntax",
			build: func(t *testing.T) *URL {
				u := NewURL()
				require.NoError(t, u.SetDN("dc=x"))
				require.NoError(t, u.AddExtension(NewExtension(false, "!a=b", "v")))
				return u
			},
			expected: "ldap:///dc=x????%21a%3Db=v",
		},
		{
			name: "extension type with inner bang",
			build: func(t *testing.T) *URL {
				u := NewURL()
				require.NoError(t, u.SetDN("dc=x"))
				require.NoError(t, u.AddExtension(NewExtension(true, "a!b", "v!")))
				return u
			},
			expected: "ldap:///dc=x????!a%21b=v!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.build(t)
			assert.Equal(t, tt.expected, u.String())
		})
	}
}

func TestURL_ExtensionTypeRoundTrip(t *testing.T) {
	u := NewURL()
	require.NoError(t, u.SetDN("dc=x"))
	require.NoError(t, u.AddExtension(NewExtension(false, "!a=b", "v")))

	parsed, err := Parse(u.String())
	require.NoError(t, err)
	assert.Equal(t, u.Extensions(), parsed.Extensions())
}

func TestURL_SetScheme(t *testing.T) {
	u := NewURL()

	u.SetScheme(SchemeLDAPS)
	assert.Equal(t, SchemeLDAPS, u.Scheme())
	assert.True(t, u.IsSecure())

	u.SetScheme("http://")
	assert.Equal(t, SchemeLDAP, u.Scheme())
	assert.False(t, u.IsSecure())

	u.SetScheme("")
	assert.Equal(t, SchemeLDAP, u.Scheme())
}

func TestURL_SetPort(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{input: 389, expected: 389},
		{input: 1, expected: 1},
		{input: 65535, expected: 65535},
		{input: 0, expected: PortUnset},
		{input: -5, expected: PortUnset},
		{input: 65536, expected: PortUnset},
	}

	for _, tt := range tests {
		u := NewURL()
		u.SetPort(tt.input)
		assert.Equal(t, tt.expected, u.Port(), "SetPort(%d)", tt.input)
	}
}

func TestURL_HostPort(t *testing.T) {
	u := NewURL()
	assert.Equal(t, "", u.HostPort())

	u.SetHost("ldap.example.com")
	assert.Equal(t, "ldap.example.com:389", u.HostPort())

	u.SetScheme(SchemeLDAPS)
	assert.Equal(t, 636, u.DefaultPort())
	assert.Equal(t, "ldap.example.com:636", u.HostPort())

	u.SetPort(3269)
	assert.Equal(t, "ldap.example.com:3269", u.HostPort())
}

func TestURL_SetDN(t *testing.T) {
	u := NewURL()

	require.NoError(t, u.SetDN("CN=John,DC=Example,DC=Com"))
	assert.True(t, u.HasDN())
	assert.Equal(t, "CN=John,DC=Example,DC=Com", u.DNString())
	require.NotNil(t, u.DN())
	assert.Len(t, u.DN().RDNs, 3)

	err := u.SetDN("not a dn")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDN)
	assert.Equal(t, "CN=John,DC=Example,DC=Com", u.DNString(), "failed SetDN must not change the DN")

	require.NoError(t, u.SetDN(""))
	assert.True(t, u.HasDN())
	assert.Empty(t, u.DN().RDNs)

	u.ClearDN()
	assert.False(t, u.HasDN())
	assert.Equal(t, "", u.DNString())
}

func TestURL_SetAttributes(t *testing.T) {
	u := NewURL()

	u.SetAttributes([]string{"cn", "mail", "cn", "sn"})
	assert.Equal(t, []string{"cn", "mail", "sn"}, u.Attributes())

	attrs := u.Attributes()
	attrs[0] = "changed"
	assert.Equal(t, "cn", u.Attributes()[0], "Attributes must return a copy")

	u.SetAttributes(nil)
	assert.Empty(t, u.Attributes())

	u.SetAttributes([]string{"", "cn", ""})
	assert.Equal(t, []string{"cn"}, u.Attributes(), "empty attributes cannot be written out")
}

func TestURL_SetScope(t *testing.T) {
	u := NewURL()

	u.SetScope(ScopeOneLevel)
	assert.Equal(t, ScopeOneLevel, u.Scope())

	u.SetScope(Scope(42))
	assert.Equal(t, ScopeBase, u.Scope())
}

func TestURL_SetFilter(t *testing.T) {
	u := NewURL()

	require.NoError(t, u.SetFilter("(&(objectClass=person)(cn=J*))"))
	assert.True(t, u.HasFilter())
	assert.Equal(t, "(&(objectClass=person)(cn=J*))", u.Filter())

	err := u.SetFilter("objectClass=person")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFilter)
	assert.Equal(t, "(&(objectClass=person)(cn=J*))", u.Filter())

	require.NoError(t, u.SetFilter(""))
	assert.False(t, u.HasFilter())
}

func TestURL_Extensions(t *testing.T) {
	u := NewURL()

	require.NoError(t, u.AddExtension(NewExtension(true, "bindname", "cn=Manager")))
	require.NoError(t, u.AddExtension(Extension{Type: "x-flag"}))
	require.NoError(t, u.AddExtension(NewExtension(false, "BINDNAME", "second")))

	ext, ok := u.Extension("BindName")
	require.True(t, ok)
	assert.True(t, ext.Critical)
	assert.True(t, ext.HasValue())

	value, ok := u.ExtensionValue("bindname")
	assert.True(t, ok)
	assert.Equal(t, "cn=Manager", value)

	_, ok = u.ExtensionValue("x-flag")
	assert.False(t, ok, "extension without value")

	_, ok = u.Extension("missing")
	assert.False(t, ok)

	assert.Error(t, u.AddExtension(Extension{Type: "  "}))
	assert.Error(t, u.SetExtensions([]Extension{{Type: "ok"}, {Type: ""}}))
	assert.Len(t, u.Extensions(), 3, "failed SetExtensions must not change the list")

	require.NoError(t, u.SetExtensions(nil))
	assert.Empty(t, u.Extensions())
}

func TestURL_ExtensionsAreTrimmed(t *testing.T) {
	u := NewURL()
	require.NoError(t, u.SetDN("dc=x"))

	require.NoError(t, u.SetExtensions([]Extension{NewExtension(false, " e ", " v ")}))
	require.NoError(t, u.AddExtension(Extension{Critical: true, Type: "\tflag "}))
	assert.Equal(t, []Extension{
		NewExtension(false, "e", "v"),
		{Critical: true, Type: "flag"},
	}, u.Extensions())

	parsed, err := Parse(u.String())
	require.NoError(t, err)
	assert.Equal(t, u.Extensions(), parsed.Extensions())
}

func TestURL_Equal(t *testing.T) {
	a := MustParse("ldap://host/dc=x??base")
	b := MustParse("ldap://host/dc=x")
	c := MustParse("ldap://host/dc=y")

	assert.True(t, a.Equal(b), "default scope is not significant")
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))

	var nilURL *URL
	assert.True(t, nilURL.Equal(nil))
}

func TestExtension_String(t *testing.T) {
	assert.Equal(t, "e", Extension{Type: "e"}.String())
	assert.Equal(t, "!e", Extension{Critical: true, Type: "e"}.String())
	assert.Equal(t, "e=", NewExtension(false, "e", "").String())
	assert.Equal(t, "!e=a%2cb", NewExtension(true, "e", "a,b").String())
}

package ldap

import (
	"slices"
	"strconv"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// LDAP URL schemes.
const (
	SchemeLDAP  = "ldap://"
	SchemeLDAPS = "ldaps://"
)

const (
	// PortUnset marks a URL without an explicit port.
	PortUnset = -1

	DefaultLDAPPort  = 389
	DefaultLDAPSPort = 636

	maxPort = 65535
)

// Extension is a single RFC 2255 extension element: ["!"] type ["=" value].
type Extension struct {
	Critical bool
	Type     string
	Value    *string // nil when the extension carries no value
}

// NewExtension creates an extension with a value.
func NewExtension(critical bool, extType, value string) Extension {
	return Extension{Critical: critical, Type: extType, Value: &value}
}

// HasValue reports whether the extension carries a value.
func (e Extension) HasValue() bool {
	return e.Value != nil
}

// String renders the extension in its percent-encoded URL form.
func (e Extension) String() string {
	var b strings.Builder
	if e.Critical {
		b.WriteByte('!')
	}
	b.WriteString(encodeExtensionType(e.Type))
	if e.Value != nil {
		b.WriteByte('=')
		b.WriteString(EncodeURLComponent(*e.Value, true))
	}
	return b.String()
}

// URL is a parsed LDAP URL.
//
// A URL is safe for concurrent reads. Setters must not run concurrently with
// any other method.
type URL struct {
	scheme     string
	host       string
	port       int
	dn         *ldap.DN
	dnText     string
	attributes []string
	scope      Scope
	filter     *string
	extensions []Extension

	forceScopeRendering bool

	raw string
}

// NewURL returns an empty URL: scheme "ldap://", no host, no port, no DN,
// base scope.
func NewURL() *URL {
	return &URL{
		scheme: SchemeLDAP,
		port:   PortUnset,
		scope:  ScopeBase,
	}
}

// Scheme returns "ldap://" or "ldaps://".
func (u *URL) Scheme() string {
	return u.scheme
}

// SetScheme sets the scheme. Anything other than "ldap://" or "ldaps://"
// resets it to "ldap://".
func (u *URL) SetScheme(scheme string) {
	switch scheme {
	case SchemeLDAP, SchemeLDAPS:
		u.scheme = scheme
	default:
		u.scheme = SchemeLDAP
	}
}

// IsSecure reports whether the URL uses the ldaps:// scheme.
func (u *URL) IsSecure() bool {
	return u.scheme == SchemeLDAPS
}

// Host returns the host, or "" when none was given.
func (u *URL) Host() string {
	return u.host
}

// SetHost sets the host verbatim.
func (u *URL) SetHost(host string) {
	u.host = host
}

// Port returns the explicit port, or PortUnset.
func (u *URL) Port() int {
	return u.port
}

// SetPort sets the port. Values outside [1, 65535] unset it.
func (u *URL) SetPort(port int) {
	if port < 1 || port > maxPort {
		u.port = PortUnset
		return
	}
	u.port = port
}

// DefaultPort returns the well-known port for the URL's scheme.
func (u *URL) DefaultPort() int {
	if u.IsSecure() {
		return DefaultLDAPSPort
	}
	return DefaultLDAPPort
}

// HostPort returns "host:port" using the explicit port when set and the
// scheme's default port otherwise. It returns "" when the URL has no host.
func (u *URL) HostPort() string {
	if u.host == "" {
		return ""
	}
	port := u.port
	if port == PortUnset {
		port = u.DefaultPort()
	}
	return u.host + ":" + strconv.Itoa(port)
}

// HasDN reports whether the URL carries a DN element, possibly empty.
//
// An empty DN with nothing after it is not serialized: "ldap:///?" parses
// with HasDN true, but String returns "ldap:///", which parses with HasDN
// false. Both forms name the same search.
func (u *URL) HasDN() bool {
	return u.dn != nil
}

// DN returns the parsed DN, or nil when absent.
func (u *URL) DN() *ldap.DN {
	return u.dn
}

// DNString returns the DN as written (after percent-decoding).
func (u *URL) DNString() string {
	return u.dnText
}

// SetDN parses dn and stores it. The empty string sets the root DN.
func (u *URL) SetDN(dn string) error {
	parsed, err := ParseDN(dn)
	if err != nil {
		return err
	}
	u.dn = parsed
	u.dnText = dn
	return nil
}

// ClearDN removes the DN element.
func (u *URL) ClearDN() {
	u.dn = nil
	u.dnText = ""
}

// Attributes returns a copy of the attribute list.
func (u *URL) Attributes() []string {
	return slices.Clone(u.attributes)
}

// SetAttributes replaces the attribute list, dropping repeated and empty
// entries. A nil slice clears the list.
func (u *URL) SetAttributes(attributes []string) {
	u.attributes = nil
	for _, attr := range attributes {
		if attr == "" {
			continue
		}
		u.addAttribute(attr)
	}
}

func (u *URL) addAttribute(attr string) {
	if !slices.Contains(u.attributes, attr) {
		u.attributes = append(u.attributes, attr)
	}
}

// Scope returns the search scope.
func (u *URL) Scope() Scope {
	return u.scope
}

// SetScope sets the search scope. Unknown scopes fall back to ScopeBase.
func (u *URL) SetScope(scope Scope) {
	if !scope.IsValid() {
		u.scope = ScopeBase
		return
	}
	u.scope = scope
}

// HasFilter reports whether a filter is present.
func (u *URL) HasFilter() bool {
	return u.filter != nil
}

// Filter returns the raw filter text, or "" when absent.
func (u *URL) Filter() string {
	if u.filter == nil {
		return ""
	}
	return *u.filter
}

// SetFilter validates and stores filter. The empty string removes it.
func (u *URL) SetFilter(filter string) error {
	if filter == "" {
		u.filter = nil
		return nil
	}
	if err := ValidateFilter(filter); err != nil {
		return err
	}
	u.filter = &filter
	return nil
}

// Extensions returns a copy of the extension list.
func (u *URL) Extensions() []Extension {
	return slices.Clone(u.extensions)
}

// SetExtensions replaces the extension list. Types and values are stored
// trimmed of surrounding whitespace, as the parser reads them back.
// Extensions with an empty type are rejected and leave the list unchanged.
func (u *URL) SetExtensions(extensions []Extension) error {
	trimmed := make([]Extension, 0, len(extensions))
	for _, ext := range extensions {
		ext, err := trimExtension(ext)
		if err != nil {
			return err
		}
		trimmed = append(trimmed, ext)
	}
	if len(trimmed) == 0 {
		trimmed = nil
	}
	u.extensions = trimmed
	return nil
}

// AddExtension appends an extension, trimming it like SetExtensions.
func (u *URL) AddExtension(ext Extension) error {
	ext, err := trimExtension(ext)
	if err != nil {
		return err
	}
	u.extensions = append(u.extensions, ext)
	return nil
}

func trimExtension(ext Extension) (Extension, error) {
	ext.Type = strings.TrimSpace(ext.Type)
	if ext.Type == "" {
		return Extension{}, NewEncodingError(ComponentExtensions, 0, "extension type must not be empty")
	}
	if ext.Value != nil {
		value := strings.TrimSpace(*ext.Value)
		ext.Value = &value
	}
	return ext, nil
}

// Extension returns the first extension whose type matches extType
// case-insensitively.
func (u *URL) Extension(extType string) (Extension, bool) {
	for _, ext := range u.extensions {
		if strings.EqualFold(ext.Type, extType) {
			return ext, true
		}
	}
	return Extension{}, false
}

// ExtensionValue returns the value of the first extension whose type matches
// extType case-insensitively. The second result is false when there is no
// such extension or it has no value.
func (u *URL) ExtensionValue(extType string) (string, bool) {
	ext, ok := u.Extension(extType)
	if !ok || ext.Value == nil {
		return "", false
	}
	return *ext.Value, true
}

// SetForceScopeRendering makes String emit the scope element even when it
// is the default base scope.
func (u *URL) SetForceScopeRendering(force bool) {
	u.forceScopeRendering = force
}

// ForceScopeRendering reports whether the scope element is always emitted.
func (u *URL) ForceScopeRendering() bool {
	return u.forceScopeRendering
}

// Raw returns the string the URL was parsed from, or "" for a URL built
// with NewURL.
func (u *URL) Raw() string {
	return u.raw
}

// Bytes returns a copy of the UTF-8 bytes the URL was parsed from.
func (u *URL) Bytes() []byte {
	return []byte(u.raw)
}

// Equal reports whether two URLs serialize identically.
func (u *URL) Equal(other *URL) bool {
	if u == nil || other == nil {
		return u == other
	}
	return u.String() == other.String()
}

// String serializes the URL. Optional elements are emitted only when they,
// or an element after them, differ from the default.
func (u *URL) String() string {
	var b strings.Builder

	b.WriteString(u.scheme)
	b.WriteString(u.host)

	if u.port != PortUnset {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(u.port))
	}

	b.WriteByte('/')
	if u.dn == nil {
		return b.String()
	}

	b.WriteString(EncodeURLComponent(u.dnText, false))

	hasExtensions := len(u.extensions) > 0
	hasFilter := u.filter != nil
	hasScope := u.scope != ScopeBase || u.forceScopeRendering

	if len(u.attributes) == 0 && !hasScope && !hasFilter && !hasExtensions {
		return b.String()
	}

	b.WriteByte('?')
	for i, attr := range u.attributes {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(EncodeURLComponent(attr, true))
	}

	if !hasScope && !hasFilter && !hasExtensions {
		return b.String()
	}

	b.WriteByte('?')
	if u.scope != ScopeBase || u.forceScopeRendering {
		b.WriteString(u.scope.String())
	}

	if !hasFilter && !hasExtensions {
		return b.String()
	}

	b.WriteByte('?')
	if hasFilter {
		b.WriteString(EncodeURLComponent(*u.filter, false))
	}

	if !hasExtensions {
		return b.String()
	}

	b.WriteByte('?')
	for i, ext := range u.extensions {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(ext.String())
	}

	return b.String()
}

// encodeExtensionType encodes an extension type so that it cannot be read
// back as a separator, a value delimiter or a criticality marker. The parser
// rejects '!' anywhere in a type, not only in front of it.
func encodeExtensionType(extType string) string {
	encoded := EncodeURLComponent(extType, true)
	encoded = strings.ReplaceAll(encoded, "=", "%3D")
	return strings.ReplaceAll(encoded, "!", "%21")
}

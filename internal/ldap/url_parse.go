package ldap

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse parses an RFC 2255 LDAP URL:
//
//	ldapurl    = scheme "://" [hostport] ["/" [dn ["?" [attributes]
//	                 ["?" [scope] ["?" [filter] ["?" extensions]]]]]]
//	hostport   = host [":" port]
//	attributes = attrdesc *( "," attrdesc )
//	scope      = "base" | "one" | "sub"
//	extensions = extension *( "," extension )
//	extension  = ["!"] type ["=" value]
//
// Every trailing element is optional. The empty string parses to the same
// value as NewURL. On failure Parse returns a nil URL and an error that
// unwraps to *EncodingError.
func Parse(s string) (*URL, error) {
	u := NewURL()
	u.raw = s

	if s == "" {
		return u, nil
	}

	p := &urlParser{input: s, url: u}
	if err := p.parse(); err != nil {
		var encErr *EncodingError
		if errors.As(err, &encErr) {
			encErr.Input = s
		}
		return nil, err
	}

	return u, nil
}

// ParseBytes parses an LDAP URL from UTF-8 bytes. Unlike Parse, an empty
// buffer is an error.
func ParseBytes(b []byte) (*URL, error) {
	if len(b) == 0 {
		return nil, ErrEmptyInput
	}
	if !utf8.Valid(b) {
		return nil, &EncodingError{
			Component: ComponentUnknown,
			Position:  invalidUTF8Offset(b),
			Message:   "input is not valid UTF-8",
		}
	}
	return Parse(string(b))
}

// MustParse is like Parse but panics on error. It is intended for URLs
// known at compile time.
func MustParse(s string) *URL {
	u, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("ldap: MustParse(%q): %v", s, err))
	}
	return u
}

// urlParser is a cursor-based scanner. Each parseX method consumes its
// production starting at pos and returns the position after it. Results are
// written into url, which is only handed to the caller on success.
type urlParser struct {
	input string
	url   *URL
}

func (p *urlParser) atEnd(pos int) bool {
	return pos >= len(p.input)
}

func (p *urlParser) fail(component URLComponent, pos int, format string, args ...any) error {
	return NewEncodingError(component, pos, fmt.Sprintf(format, args...))
}

// expectSeparator checks that pos holds the '?' that closes component.
func (p *urlParser) expectSeparator(component URLComponent, pos int) error {
	if p.input[pos] != '?' {
		return p.fail(component, pos, "unexpected character %s, expected '?'", quoteByte(p.input[pos]))
	}
	return nil
}

func (p *urlParser) parse() error {
	pos, err := p.parseScheme(0)
	if err != nil {
		return err
	}
	if p.atEnd(pos) {
		return nil
	}

	if pos, err = p.parseHostPort(pos); err != nil {
		return err
	}
	if p.atEnd(pos) {
		return nil
	}

	if p.input[pos] != '/' {
		return p.fail(ComponentHostPort, pos, "unexpected character %s, expected '/'", quoteByte(p.input[pos]))
	}
	pos++
	if p.atEnd(pos) {
		return nil
	}

	if pos, err = p.parseDN(pos); err != nil {
		return err
	}
	if p.atEnd(pos) {
		return nil
	}
	if err := p.expectSeparator(ComponentDN, pos); err != nil {
		return err
	}
	pos++

	if pos, err = p.parseAttributes(pos); err != nil {
		return err
	}
	if p.atEnd(pos) {
		return nil
	}
	if err := p.expectSeparator(ComponentAttributes, pos); err != nil {
		return err
	}
	pos++

	if pos, err = p.parseScope(pos); err != nil {
		return err
	}
	if p.atEnd(pos) {
		return nil
	}
	if err := p.expectSeparator(ComponentScope, pos); err != nil {
		return err
	}
	pos++

	if pos, err = p.parseFilter(pos); err != nil {
		return err
	}
	if p.atEnd(pos) {
		return nil
	}
	if err := p.expectSeparator(ComponentFilter, pos); err != nil {
		return err
	}
	pos++

	if pos, err = p.parseExtensions(pos); err != nil {
		return err
	}
	if !p.atEnd(pos) {
		return p.fail(ComponentTrailing, pos, "unexpected trailing input %q", p.input[pos:])
	}

	return nil
}

func (p *urlParser) parseScheme(pos int) (int, error) {
	switch {
	case strings.HasPrefix(p.input[pos:], SchemeLDAP):
		p.url.scheme = SchemeLDAP
		return pos + len(SchemeLDAP), nil
	case strings.HasPrefix(p.input[pos:], SchemeLDAPS):
		p.url.scheme = SchemeLDAPS
		return pos + len(SchemeLDAPS), nil
	default:
		return pos, p.fail(ComponentScheme, pos, "expected %q or %q", SchemeLDAP, SchemeLDAPS)
	}
}

func (p *urlParser) parseHostPort(pos int) (int, error) {
	hostStart := pos

	pos, err := p.parseHost(pos)
	if err != nil {
		return pos, err
	}

	if p.atEnd(pos) || p.input[pos] != ':' {
		return pos, nil
	}
	if pos == hostStart {
		return pos, p.fail(ComponentHostPort, pos, "port given without a host")
	}

	return p.parsePort(pos + 1)
}

// parseHost scans a host name or dotted numeric literal up to ':', '/' or
// the end of input. A run made only of digits and dots must have exactly
// three dots, and each numeric group must not exceed 65535.
func (p *urlParser) parseHost(pos int) (int, error) {
	start := pos

	if !p.atEnd(pos) && p.input[pos] == '-' {
		return pos, p.fail(ComponentHostPort, pos, "host must not start with '-'")
	}

	var (
		hadDot       bool
		hadMinus     bool
		isHostNumber = true
		invalidIP    bool
		nbDots       int
		ipElem       [4]int
	)

	for ; !p.atEnd(pos); pos++ {
		c := p.input[pos]
		if c == ':' || c == '/' {
			break
		}

		if c == '.' {
			if hadDot || hadMinus {
				return pos, p.fail(ComponentHostPort, pos, "unexpected '.' after '.' or '-'")
			}
			hadDot = true
			nbDots++
			continue
		}

		if hadDot && c == '-' {
			return pos, p.fail(ComponentHostPort, pos, "unexpected '-' after '.'")
		}
		hadDot = false

		switch {
		case isDigit(c):
			if isHostNumber && nbDots < len(ipElem) {
				ipElem[nbDots] = ipElem[nbDots]*10 + int(c-'0')
				if ipElem[nbDots] > maxPort {
					invalidIP = true
				}
			}
			hadMinus = false
		case isAlpha(c) || c == '-':
			isHostNumber = false
			hadMinus = c == '-'
		default:
			return pos, p.fail(ComponentHostPort, pos, "invalid host character %s", quoteByte(c))
		}
	}

	if pos == start {
		return pos, nil
	}

	if isHostNumber {
		if nbDots != 3 {
			return pos, p.fail(ComponentHostPort, start, "numeric host must have four dot-separated groups")
		}
		if invalidIP {
			return pos, p.fail(ComponentHostPort, start, "numeric host group exceeds %d", maxPort)
		}
	}

	if hadDot || hadMinus {
		return pos, p.fail(ComponentHostPort, pos-1, "host must not end with '.' or '-'")
	}

	p.url.host = p.input[start:pos]
	return pos, nil
}

func (p *urlParser) parsePort(pos int) (int, error) {
	if p.atEnd(pos) || !isDigit(p.input[pos]) {
		return pos, p.fail(ComponentHostPort, pos, "port must have at least one digit")
	}

	port := 0
	for ; !p.atEnd(pos) && isDigit(p.input[pos]); pos++ {
		port = port*10 + int(p.input[pos]-'0')
		if port > maxPort {
			return pos, p.fail(ComponentHostPort, pos, "port exceeds %d", maxPort)
		}
	}

	// A literal ":0" is kept as written.
	p.url.port = port
	return pos, nil
}

// segmentEnd returns the index of the next '?' at or after pos, or the end
// of input.
func (p *urlParser) segmentEnd(pos int) int {
	if i := strings.IndexByte(p.input[pos:], '?'); i >= 0 {
		return pos + i
	}
	return len(p.input)
}

func (p *urlParser) parseDN(pos int) (int, error) {
	end := p.segmentEnd(pos)

	text, err := DecodeURLComponent(p.input[pos:end])
	if err != nil {
		return pos, WrapError(ComponentDN, pos, err)
	}

	dn, err := ParseDN(text)
	if err != nil {
		return pos, WrapError(ComponentDN, pos, err)
	}

	p.url.dn = dn
	p.url.dnText = text
	return end, nil
}

func (p *urlParser) parseAttributes(pos int) (int, error) {
	end := p.segmentEnd(pos)
	if pos == end {
		return end, nil
	}

	start := pos
	for i := pos; i <= end; i++ {
		if i < end && p.input[i] != ',' {
			continue
		}

		token := strings.TrimSpace(p.input[start:i])
		if token == "" {
			return i, p.fail(ComponentAttributes, start, "empty attribute description")
		}

		attr, err := DecodeURLComponent(token)
		if err != nil {
			return start, WrapError(ComponentAttributes, start, err)
		}
		p.url.addAttribute(attr)

		start = i + 1
	}

	return end, nil
}

func (p *urlParser) parseScope(pos int) (int, error) {
	end := p.segmentEnd(pos)
	if pos == end {
		return end, nil
	}

	scope, err := ParseScope(p.input[pos:end])
	if err != nil {
		return pos, WrapError(ComponentScope, pos, err)
	}

	p.url.scope = scope
	return end, nil
}

func (p *urlParser) parseFilter(pos int) (int, error) {
	end := p.segmentEnd(pos)
	if pos == end {
		return end, nil
	}

	filter, err := DecodeURLComponent(p.input[pos:end])
	if err != nil {
		return pos, WrapError(ComponentFilter, pos, err)
	}

	if err := ValidateFilter(filter); err != nil {
		return pos, WrapError(ComponentFilter, pos, err)
	}

	p.url.filter = &filter
	return end, nil
}

// parseExtensions consumes comma-separated extensions up to the next '?' or
// the end of input. A '!' is only allowed as the first character of an
// extension; '=' and '!' after the first '=' belong to the value.
func (p *urlParser) parseExtensions(pos int) (int, error) {
	end := p.segmentEnd(pos)
	if pos == end {
		return end, nil
	}

	var (
		start        = pos
		critical     bool
		newExtension = true
		hasValue     bool
		extType      string
	)

	emit := func(i int) error {
		raw := p.input[start:i]
		decoded, err := DecodeURLComponent(raw)
		if err != nil {
			return WrapError(ComponentExtensions, start, err)
		}
		decoded = strings.TrimSpace(decoded)

		ext := Extension{Critical: critical}
		if hasValue {
			ext.Type = extType
			ext.Value = &decoded
		} else {
			ext.Type = decoded
		}
		if ext.Type == "" {
			return p.fail(ComponentExtensions, start, "extension type must not be empty")
		}

		p.url.extensions = append(p.url.extensions, ext)
		return nil
	}

	for i := pos; i < end; i++ {
		switch c := p.input[i]; {
		case c == ',':
			if newExtension {
				return i, p.fail(ComponentExtensions, i, "empty extension before ','")
			}
			if err := emit(i); err != nil {
				return i, err
			}
			start = i + 1
			critical = false
			newExtension = true
			hasValue = false
			extType = ""

		case c == '=' && !hasValue:
			decoded, err := DecodeURLComponent(p.input[start:i])
			if err != nil {
				return i, WrapError(ComponentExtensions, start, err)
			}
			extType = strings.TrimSpace(decoded)
			if extType == "" {
				return i, p.fail(ComponentExtensions, start, "extension type must not be empty")
			}
			hasValue = true
			newExtension = false
			start = i + 1

		case c == '!' && !hasValue:
			if !newExtension {
				return i, p.fail(ComponentExtensions, i, "'!' must be the first character of an extension")
			}
			critical = true
			newExtension = false
			start = i + 1

		default:
			newExtension = false
		}
	}

	if newExtension {
		return end, p.fail(ComponentExtensions, end-1, "extension list must not end with ','")
	}
	if err := emit(end); err != nil {
		return end, err
	}

	return end, nil
}

package ldap

import (
	"strings"
	"unicode/utf8"
)

const upperhex = "0123456789ABCDEF"

// urlSafe marks the RFC 3986 reserved and unreserved characters that may
// appear literally inside an LDAP URL element. '?' separates elements and
// is never safe.
var urlSafe [256]bool

func init() {
	for c := 'a'; c <= 'z'; c++ {
		urlSafe[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		urlSafe[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		urlSafe[c] = true
	}
	for _, c := range []byte("-._~:/#[]@!$&'()*+,;=") {
		urlSafe[c] = true
	}
}

// EncodeURLComponent percent-encodes s for use as an LDAP URL element.
// Reserved and unreserved characters pass through; every other byte of the
// UTF-8 encoding is written as %XX. With doubleEncode set, ',' is written as
// "%2c" so it cannot be confused with the extension separator.
func EncodeURLComponent(s string, doubleEncode bool) string {
	if !needsEncoding(s, doubleEncode) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ',' && doubleEncode:
			b.WriteString("%2c")
		case urlSafe[c]:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0x0f])
		}
	}

	return b.String()
}

func needsEncoding(s string, doubleEncode bool) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !urlSafe[c] || (c == ',' && doubleEncode) {
			return true
		}
	}
	return false
}

// DecodeURLComponent reverses percent-encoding. Every '%' must be followed
// by two hex digits, and the decoded bytes must be valid UTF-8.
func DecodeURLComponent(s string) (string, error) {
	if strings.IndexByte(s, '%') < 0 {
		if !utf8.ValidString(s) {
			return "", &DecodingError{Position: invalidUTF8Offset([]byte(s)), Message: "not valid UTF-8"}
		}
		return s, nil
	}

	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			buf = append(buf, c)
			continue
		}

		if i+2 >= len(s) {
			return "", &DecodingError{Position: i, Message: "truncated escape sequence"}
		}

		hi, ok := unhex(s[i+1])
		if !ok {
			return "", &DecodingError{Position: i, Message: "invalid hex digit " + quoteByte(s[i+1])}
		}
		lo, ok := unhex(s[i+2])
		if !ok {
			return "", &DecodingError{Position: i, Message: "invalid hex digit " + quoteByte(s[i+2])}
		}

		buf = append(buf, hi<<4|lo)
		i += 2
	}

	if !utf8.Valid(buf) {
		return "", &DecodingError{Position: invalidUTF8Offset(buf), Message: "decoded bytes are not valid UTF-8"}
	}

	return string(buf), nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isAlpha(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func quoteByte(c byte) string {
	if c < 0x20 || c >= 0x7f {
		return "0x" + string(upperhex[c>>4]) + string(upperhex[c&0x0f])
	}
	return "'" + string(c) + "'"
}

// invalidUTF8Offset returns the offset of the first byte that does not start
// a valid UTF-8 sequence. For decoded input the offset refers to the decoded
// bytes.
func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return 0
}

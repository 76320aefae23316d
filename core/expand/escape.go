package expand

import (
	"strconv"
	"strings"
)

var simpleEscapes = map[byte]byte{
	'n':  '\n', // newline
	'r':  '\r', // carriage return
	't':  '\t', // horizontal tab
	'\\': '\\', // backslash literal
	'b':  '\b', // backspace
	'a':  '\a', // alert
	'f':  '\f', // form feed
	'v':  '\v', // vertical tab
	'"':  '"',
	'`':  '`',
	'$':  '$',
}

// Unescape decodes backslash escape sequences in a single pass. Octal values
// are written \0NNN and hex values \xHH. Unknown sequences are kept as-is.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			out.WriteByte(s[i])
			continue
		}

		next := s[i+1]
		if r, ok := simpleEscapes[next]; ok {
			out.WriteByte(r)
			i++
			continue
		}

		switch next {
		case '0':
			digits := prefixLen(s[i+2:], 3, isOctal)
			if digits == 0 {
				out.WriteByte(0)
				i++
				continue
			}
			val, _ := strconv.ParseUint(s[i+2:i+2+digits], 8, 16)
			out.WriteByte(byte(val))
			i += 1 + digits
		case 'x':
			digits := prefixLen(s[i+2:], 2, isHex)
			if digits == 0 {
				out.WriteString(`\x`)
				i++
				continue
			}
			val, _ := strconv.ParseUint(s[i+2:i+2+digits], 16, 8)
			out.WriteByte(byte(val))
			i += 1 + digits
		default:
			out.WriteByte('\\')
			out.WriteByte(next)
			i++
		}
	}

	return out.String()
}

// escapeBackslashes makes s survive a trip through Unescape unchanged.
func escapeBackslashes(s string) string {
	return strings.ReplaceAll(s, `\`, `\\`)
}

func prefixLen(s string, max int, pred func(byte) bool) int {
	n := 0
	for n < len(s) && n < max && pred(s[n]) {
		n++
	}
	return n
}

func isOctal(c byte) bool {
	return '0' <= c && c <= '7'
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

package expand

import (
	"strconv"
	"strings"

	"github.com/josephlewis42/elvi/core/vars"
)

// Variables is the read-only view of the variable store expansion needs.
type Variables interface {
	Lookup(name string) (vars.Variable, bool)
	Params() []string
}

var _ Variables = (*vars.Store)(nil)

// Parameters substitutes $name, ${name} and the special parameters in text.
//
// Escaped dollar signs and other backslash pairs are copied through and the
// backslashes of substituted values are doubled, so the result must still be
// passed through Unescape.
//
// Bare names end at a space, backslash, colon or hyphen. Other characters
// such as '/' are read as part of the name.
func Parameters(text string, v Variables, pid int) string {
	if !strings.Contains(text, "$") {
		return text
	}

	var out strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\\' && i+1 < len(text):
			out.WriteByte(c)
			out.WriteByte(text[i+1])
			i++
			continue
		case c != '$':
			out.WriteByte(c)
			continue
		}

		rest := text[i+1:]
		var name string
		switch {
		case strings.HasPrefix(rest, "{"):
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				name = rest[1:]
				i += len(rest)
			} else {
				name = rest[1:end]
				i += end + 1
			}
		case len(rest) > 0 && strings.IndexByte("@*#$?", rest[0]) >= 0:
			name = rest[:1]
			i++
		default:
			end := strings.IndexAny(rest, ` \:-`)
			if end < 0 {
				end = len(rest)
			}
			name = rest[:end]
			i += end
		}

		if name == "" {
			out.WriteByte('$')
			continue
		}
		out.WriteString(escapeBackslashes(lookupParameter(name, v, pid)))
	}

	return out.String()
}

func lookupParameter(name string, v Variables, pid int) string {
	switch name {
	case "@", "*":
		params := v.Params()
		if len(params) < 2 {
			return ""
		}
		return strings.Join(params[1:], fieldSeparator(v))
	case "#":
		count := len(v.Params()) - 1
		if count < 0 {
			count = 0
		}
		return strconv.Itoa(count)
	case "$":
		return strconv.Itoa(pid)
	}

	variable, ok := v.Lookup(name)
	if !ok {
		return ""
	}
	return variable.String()
}

// fieldSeparator returns the first character of IFS, or nothing if IFS is
// unset or empty.
func fieldSeparator(v Variables) string {
	ifs, ok := v.Lookup(vars.EnvIFS)
	if !ok {
		return ""
	}
	s := ifs.String()
	if s == "" {
		return ""
	}
	return s[:1]
}

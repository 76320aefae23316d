package parse

import (
	"strings"

	"github.com/josephlewis42/elvi/core/vars"
	"mvdan.cc/sh/v3/syntax"
)

// escapeSubstitution protects literal text embedded in a parameter
// substitution from the expansions run on it later.
var escapeSubstitution = strings.NewReplacer(`\`, `\\`, `$`, `\$`)

func (c *converter) words(words []*syntax.Word) ([]vars.Value, error) {
	out := make([]vars.Value, 0, len(words))
	for _, word := range words {
		value, err := c.word(word)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

// word converts a word to the value it represents before expansion.
//
// Plain unquoted words become BareWords, single quoted text becomes a
// PlainString, a word that is entirely a command substitution becomes a
// CommandSubstitution and anything with double quotes or variable references
// becomes a ParameterSubstitution holding its raw text.
func (c *converter) word(word *syntax.Word) (vars.Value, error) {
	if len(word.Parts) == 1 {
		switch part := word.Parts[0].(type) {
		case *syntax.Lit:
			if text, escaped := unquoteLit(part.Value); escaped {
				return vars.PlainString(text), nil
			}
			return vars.BareWord(part.Value), nil

		case *syntax.SglQuoted:
			if part.Dollar {
				return nil, c.unsupported(part, "$'' strings")
			}
			return vars.PlainString(part.Value), nil

		case *syntax.CmdSubst:
			return c.cmdSubst(part), nil

		case *syntax.DblQuoted:
			if len(part.Parts) == 1 {
				if sub, ok := part.Parts[0].(*syntax.CmdSubst); ok {
					return c.cmdSubst(sub), nil
				}
			}
		}
	}

	var raw strings.Builder
	substitute := false
	for _, part := range word.Parts {
		switch part := part.(type) {
		case *syntax.Lit:
			text, _ := unquoteLit(part.Value)
			raw.WriteString(escapeSubstitution.Replace(text))

		case *syntax.SglQuoted:
			if part.Dollar {
				return nil, c.unsupported(part, "$'' strings")
			}
			raw.WriteString(escapeSubstitution.Replace(part.Value))

		case *syntax.DblQuoted:
			if err := c.quoted(&raw, part); err != nil {
				return nil, err
			}
			substitute = true

		case *syntax.ParamExp:
			if err := c.paramExp(&raw, part); err != nil {
				return nil, err
			}
			substitute = true

		case *syntax.CmdSubst:
			return nil, c.unsupported(part, "command substitutions inside words")
		case *syntax.ArithmExp:
			return nil, c.unsupported(part, "arithmetic expansions")
		default:
			return nil, c.unsupported(part, "word expansions of this kind")
		}
	}

	if !substitute {
		return vars.PlainString(unescapeSubstitution(raw.String())), nil
	}
	return vars.ParameterSubstitution(raw.String()), nil
}

func (c *converter) cmdSubst(sub *syntax.CmdSubst) vars.Value {
	start := sub.Left.Offset() + 2
	if sub.Backquotes {
		start = sub.Left.Offset() + 1
	}
	return vars.CommandSubstitution(c.src[start:sub.Right.Offset()])
}

// quoted writes the contents of a double quoted string. Literal text is kept
// as written so escapes can be decoded later.
func (c *converter) quoted(raw *strings.Builder, quoted *syntax.DblQuoted) error {
	for _, part := range quoted.Parts {
		switch part := part.(type) {
		case *syntax.Lit:
			raw.WriteString(part.Value)
		case *syntax.ParamExp:
			if err := c.paramExp(raw, part); err != nil {
				return err
			}
		case *syntax.CmdSubst:
			return c.unsupported(part, "command substitutions inside strings")
		case *syntax.ArithmExp:
			return c.unsupported(part, "arithmetic expansions")
		default:
			return c.unsupported(part, "expansions of this kind")
		}
	}
	return nil
}

// paramExp writes a parameter reference in its braced form so it can't run
// into the text that follows it.
func (c *converter) paramExp(raw *strings.Builder, exp *syntax.ParamExp) error {
	switch {
	case exp.Param == nil:
		return c.unsupported(exp, "empty parameters")
	case exp.Excl, exp.Length, exp.Width, exp.Index != nil, exp.Slice != nil, exp.Repl != nil, exp.Exp != nil:
		return c.unsupported(exp, "parameter expansion operators")
	}

	raw.WriteString("${" + exp.Param.Value + "}")
	return nil
}

// unquoteLit removes the backslashes quoting characters in an unquoted word
// and reports whether there were any.
func unquoteLit(s string) (string, bool) {
	if !strings.Contains(s, `\`) {
		return s, false
	}

	var out strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			if s[i] == '\n' {
				continue
			}
		}
		out.WriteByte(s[i])
	}
	return out.String(), true
}

// unescapeSubstitution reverses escapeSubstitution.
func unescapeSubstitution(s string) string {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		out.WriteByte(s[i])
	}
	return out.String()
}

// Package expand implements the textual expansions applied to words before
// they're used: tilde, parameter, escape and glob expansion.
package expand

import (
	"os"

	"github.com/josephlewis42/elvi/core/vars"
	"github.com/spf13/afero"
)

// Expander applies expansions using a variable store and a filesystem.
type Expander struct {
	Vars Variables
	Fs   afero.Fs

	// Pid is the value of $$.
	Pid int

	// HomeDir resolves ~user, if nil only ~ is expanded.
	HomeDir HomeDirFunc
}

// New creates an expander backed by the real system.
func New(v Variables, fs afero.Fs) *Expander {
	return &Expander{
		Vars:    v,
		Fs:      fs,
		Pid:     os.Getpid(),
		HomeDir: SystemHomeDir,
	}
}

// Tilde expands a leading tilde in bare words, other values are returned
// unchanged.
func (e *Expander) Tilde(v vars.Value) vars.Value {
	word, ok := v.(vars.BareWord)
	if !ok {
		return v
	}
	home := ""
	if h, ok := e.Vars.Lookup(vars.EnvHome); ok {
		home = h.String()
	}
	return vars.BareWord(Tilde(string(word), home, e.HomeDir))
}

// Parameters substitutes variables in a pending parameter substitution and
// decodes its escapes. The result is a PlainString, other values are returned
// unchanged.
func (e *Expander) Parameters(v vars.Value) vars.Value {
	text, ok := v.(vars.ParameterSubstitution)
	if !ok {
		return v
	}
	return vars.PlainString(Unescape(Parameters(string(text), e.Vars, e.Pid)))
}

// Word runs tilde and parameter expansion. Command substitutions are
// returned as-is, running them is up to the caller.
func (e *Expander) Word(v vars.Value) vars.Value {
	return e.Parameters(e.Tilde(v))
}

// Globs expands an unquoted value into the files it matches. Quoted values
// and patterns that match nothing come back as a single literal.
func (e *Expander) Globs(v vars.Value) []vars.Value {
	if v.IsQuoted() {
		return []vars.Value{v}
	}

	var out []vars.Value
	for _, match := range Glob(e.Fs, v.String()) {
		out = append(out, vars.PlainString(match))
	}
	return out
}

// Fields runs every expansion on v, flattening glob matches.
func (e *Expander) Fields(v vars.Value) []vars.Value {
	return e.Globs(e.Word(v))
}

// Package vars holds the shell's variables and positional parameters.
package vars

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/josephlewis42/elvi/core/status"
)

const (
	EnvHome    = "HOME"
	EnvPWD     = "PWD"
	EnvOldPWD  = "OLDPWD"
	EnvPath    = "PATH"
	EnvPrompt  = "PS1"
	EnvIFS     = "IFS"
	EnvVersion = "ELVI_VERSION"

	// StatusName is the name of the last exit status variable, $?.
	StatusName = "?"
)

// Defaults holds the values the store is seeded with.
type Defaults struct {
	Prompt  string
	IFS     string
	Path    string
	Home    string
	PWD     string
	Version string
}

// Store holds named variables and the positional parameters.
//
// Every name maps to exactly one variable and $? always exists.
type Store struct {
	vars map[string]Variable

	// params holds the positional parameters, params[0] is the name of the
	// script or function.
	params []string
}

// NewStore creates a store seeded with the variables every shell has.
func NewStore(d Defaults) *Store {
	s := &Store{
		vars: make(map[string]Variable),
	}

	for name, value := range map[string]string{
		EnvPrompt:  d.Prompt,
		EnvIFS:     d.IFS,
		EnvPath:    d.Path,
		EnvPWD:     d.PWD,
		EnvOldPWD:  d.PWD,
		EnvHome:    d.Home,
		EnvVersion: d.Version,
	} {
		s.vars[name] = NewVariable(PlainString(value), Normal, Global())
	}
	s.SetStatus(status.Success)

	return s
}

// Lookup retrieves the variable with the given name. Names that are numbers
// refer to positional parameters.
func (s *Store) Lookup(name string) (Variable, bool) {
	if idx, err := strconv.Atoi(name); err == nil {
		if idx < 0 || idx >= len(s.params) {
			return Variable{}, false
		}
		return NewVariable(PlainString(s.params[idx]), Normal, Global()), true
	}

	v, ok := s.vars[name]
	return v, ok
}

// Get returns the textual value of the named variable, or an empty string if
// it isn't set.
func (s *Store) Get(name string) string {
	v, ok := s.Lookup(name)
	if !ok {
		return ""
	}
	return v.String()
}

// Set stores a variable. It fails if an existing variable with the same name
// is readonly, in which case $? is left for the caller to decide.
func (s *Store) Set(name string, v Variable) error {
	if existing, ok := s.vars[name]; ok && existing.Mutability.IsReadonly() {
		return &status.ReadonlyError{
			Name:   name,
			Line:   existing.Line,
			Column: existing.Column,
		}
	}

	s.vars[name] = v
	s.SetStatus(status.Success)
	return nil
}

// Unset removes a variable regardless of its mutability, callers must check
// that themselves. It reports whether the variable existed.
func (s *Store) Unset(name string) bool {
	_, ok := s.vars[name]
	delete(s.vars, name)
	return ok
}

// SetStatus sets $?.
func (s *Store) SetStatus(code status.Status) {
	s.vars[StatusName] = NewVariable(ExitStatus(code), ReadonlyUnsettable, Global())
}

// Status returns the value of $?.
func (s *Store) Status() status.Status {
	if v, ok := s.vars[StatusName].Value.(ExitStatus); ok {
		return status.Status(v)
	}
	return status.Success
}

// Environ returns the exported variables in the form "key=value", sorted by
// key. The result is never nil so it can be handed to a process verbatim.
func (s *Store) Environ() []string {
	env := make([]string, 0, len(s.vars))
	for name, v := range s.vars {
		if !v.Scope.IsGlobal() || name == StatusName {
			continue
		}
		env = append(env, fmt.Sprintf("%s=%s", name, v.String()))
	}
	sort.Strings(env)
	return env
}

// Names returns the name of every variable, sorted.
func (s *Store) Names() []string {
	var names []string
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Params returns a copy of the positional parameters including $0.
func (s *Store) Params() []string {
	return append([]string(nil), s.params...)
}

// SetParams replaces the positional parameters, params[0] becomes $0.
func (s *Store) SetParams(params []string) {
	s.params = append([]string(nil), params...)
}

// ParamCount returns $#, the number of positional parameters excluding $0.
func (s *Store) ParamCount() int {
	if len(s.params) == 0 {
		return 0
	}
	return len(s.params) - 1
}

// Shift drops the first n positional parameters after $0. It fails if there
// are fewer than n.
func (s *Store) Shift(n int) error {
	if n < 0 || n > s.ParamCount() {
		return fmt.Errorf("can't shift that many")
	}
	if n == 0 {
		return nil
	}
	s.params = append(s.params[:1:1], s.params[1+n:]...)
	return nil
}

// PruneNested removes variables belonging to shell levels deeper than level.
func (s *Store) PruneNested(level uint32) {
	for name, v := range s.vars {
		if v.Scope.Kind == KindNested && v.Scope.Level > level {
			delete(s.vars, name)
		}
	}
}

// PruneLocals removes every function-local variable.
func (s *Store) PruneLocals() {
	for name, v := range s.vars {
		if v.Scope.Kind == KindLocal {
			delete(s.vars, name)
		}
	}
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	out := &Store{
		vars:   make(map[string]Variable, len(s.vars)),
		params: s.Params(),
	}
	for name, v := range s.vars {
		out.vars[name] = v
	}
	return out
}

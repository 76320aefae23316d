package vars

import (
	"strconv"

	"github.com/josephlewis42/elvi/core/status"
)

// Value is the contents of a variable or a word in a script.
//
// The concrete types form a closed set: PlainString, BareWord, Number,
// Boolean, ExitStatus, CommandSubstitution and ParameterSubstitution.
type Value interface {
	// String returns the textual form of the value.
	String() string

	// IsQuoted is true if the value must not be glob expanded.
	IsQuoted() bool

	isValue()
}

// PlainString is literal text that needs no further expansion.
type PlainString string

// BareWord is an unquoted word that may still need tilde and glob expansion.
type BareWord string

// Number is an integer value.
type Number int64

// Boolean is a true/false value.
type Boolean bool

// ExitStatus holds the status of a command, it's only ever used for $?.
type ExitStatus status.Status

// CommandSubstitution holds the text of a command whose output becomes the
// value once it's run.
type CommandSubstitution string

// ParameterSubstitution holds double quoted text that still has variable
// references in it.
type ParameterSubstitution string

var (
	_ Value = PlainString("")
	_ Value = BareWord("")
	_ Value = Number(0)
	_ Value = Boolean(false)
	_ Value = ExitStatus(0)
	_ Value = CommandSubstitution("")
	_ Value = ParameterSubstitution("")
)

func (v PlainString) String() string           { return string(v) }
func (v BareWord) String() string              { return string(v) }
func (v Number) String() string                { return strconv.FormatInt(int64(v), 10) }
func (v Boolean) String() string               { return strconv.FormatBool(bool(v)) }
func (v ExitStatus) String() string            { return status.Status(v).String() }
func (v CommandSubstitution) String() string   { return string(v) }
func (v ParameterSubstitution) String() string { return string(v) }

func (PlainString) IsQuoted() bool           { return true }
func (BareWord) IsQuoted() bool              { return false }
func (Number) IsQuoted() bool                { return true }
func (Boolean) IsQuoted() bool               { return true }
func (ExitStatus) IsQuoted() bool            { return true }
func (CommandSubstitution) IsQuoted() bool   { return true }
func (ParameterSubstitution) IsQuoted() bool { return true }

func (PlainString) isValue()           {}
func (BareWord) isValue()              {}
func (Number) isValue()                {}
func (Boolean) isValue()               {}
func (ExitStatus) isValue()            {}
func (CommandSubstitution) isValue()   {}
func (ParameterSubstitution) isValue() {}

// IsPending is true for values that need to be expanded before they can be
// stored or used.
func IsPending(v Value) bool {
	switch v.(type) {
	case CommandSubstitution, ParameterSubstitution:
		return true
	default:
		return false
	}
}

// IsAssignable is true for the values a script may assign literally.
func IsAssignable(v Value) bool {
	switch v.(type) {
	case PlainString, BareWord:
		return true
	default:
		return false
	}
}

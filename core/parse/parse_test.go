package parse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/josephlewis42/elvi/core/ast"
	"github.com/josephlewis42/elvi/core/status"
	"github.com/josephlewis42/elvi/core/vars"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assign(name string, value vars.Value, mut vars.Mutability, scope vars.Scope, line, col uint) *ast.AssignVariable {
	return &ast.AssignVariable{
		Name:     name,
		Variable: vars.NewVariable(value, mut, scope).At(line, col),
	}
}

func TestString(t *testing.T) {
	cases := map[string]struct {
		script   string
		expected []ast.Action
	}{
		"empty": {
			script:   "",
			expected: []ast.Action{},
		},
		"assignment": {
			script: "x=1\n  y='two words'",
			expected: []ast.Action{
				assign("x", vars.BareWord("1"), vars.Normal, vars.Nested(0), 1, 1),
				assign("y", vars.PlainString("two words"), vars.Normal, vars.Nested(0), 2, 3),
			},
		},
		"assignment-empty": {
			script: "x=",
			expected: []ast.Action{
				assign("x", vars.PlainString(""), vars.Normal, vars.Nested(0), 1, 1),
			},
		},
		"multiple-assignments": {
			script: "a=1 b=2",
			expected: []ast.Action{
				&ast.BraceGroup{Body: []ast.Action{
					assign("a", vars.BareWord("1"), vars.Normal, vars.Nested(0), 1, 1),
					assign("b", vars.BareWord("2"), vars.Normal, vars.Nested(0), 1, 5),
				}},
			},
		},
		"declarations": {
			script: "readonly x\nexport PATH=/bin\nf() { local y=\"$1\"; }",
			expected: []ast.Action{
				assign("x", nil, vars.Readonly, vars.Nested(0), 1, 10),
				assign("PATH", vars.BareWord("/bin"), vars.Normal, vars.Global(), 2, 8),
				&ast.FunctionDeclaration{Function: ast.FunctionDefinition{
					Name: "f",
					Body: []ast.Action{
						assign("y", vars.ParameterSubstitution("${1}"), vars.Normal, vars.Local(), 3, 13),
					},
				}},
			},
		},
		"builtin": {
			script: "echo -n \"hello $name\" 'a b' *.txt",
			expected: []ast.Action{
				&ast.Builtin{Kind: ast.Echo, Name: "echo", Args: []vars.Value{
					vars.BareWord("-n"),
					vars.ParameterSubstitution("hello ${name}"),
					vars.PlainString("a b"),
					vars.BareWord("*.txt"),
				}},
			},
		},
		"bracket-test": {
			script: "[ -f /etc/passwd ]",
			expected: []ast.Action{
				&ast.Builtin{Kind: ast.Test, Name: "[", Args: []vars.Value{
					vars.BareWord("-f"), vars.BareWord("/etc/passwd"), vars.BareWord("]"),
				}},
			},
		},
		"external": {
			script: "ls -l ~/docs",
			expected: []ast.Action{
				&ast.ExternalCommand{Args: []vars.Value{
					vars.BareWord("ls"), vars.BareWord("-l"), vars.BareWord("~/docs"),
				}},
			},
		},
		"command-substitution": {
			script: "x=$(pwd)\ny=`date -u`\nz=\"$(id)\"",
			expected: []ast.Action{
				assign("x", vars.CommandSubstitution("pwd"), vars.Normal, vars.Nested(0), 1, 1),
				assign("y", vars.CommandSubstitution("date -u"), vars.Normal, vars.Nested(0), 2, 1),
				assign("z", vars.CommandSubstitution("id"), vars.Normal, vars.Nested(0), 3, 1),
			},
		},
		"composite-words": {
			script: `echo pre"$x"post 'it'"'"'s' a\ b ${y}z`,
			expected: []ast.Action{
				&ast.Builtin{Kind: ast.Echo, Name: "echo", Args: []vars.Value{
					vars.ParameterSubstitution("pre${x}post"),
					vars.ParameterSubstitution("it's"),
					vars.PlainString("a b"),
					vars.ParameterSubstitution("${y}z"),
				}},
			},
		},
		"single-quotes-protected": {
			script: `echo 'costs $5'"!"`,
			expected: []ast.Action{
				&ast.Builtin{Kind: ast.Echo, Name: "echo", Args: []vars.Value{
					vars.ParameterSubstitution(`costs \$5!`),
				}},
			},
		},
		"if-elif-else": {
			script: "if true; then a; elif false; then b; else c; fi",
			expected: []ast.Action{
				&ast.If{
					Conditional: ast.Conditional{
						Condition: &ast.ExternalCommand{Args: []vars.Value{vars.BareWord("true")}},
						Then:      []ast.Action{&ast.ExternalCommand{Args: []vars.Value{vars.BareWord("a")}}},
					},
					Elifs: []ast.Conditional{{
						Condition: &ast.ExternalCommand{Args: []vars.Value{vars.BareWord("false")}},
						Then:      []ast.Action{&ast.ExternalCommand{Args: []vars.Value{vars.BareWord("b")}}},
					}},
					Else: []ast.Action{&ast.ExternalCommand{Args: []vars.Value{vars.BareWord("c")}}},
				},
			},
		},
		"for": {
			script: "for i in a *.c; do echo $i; done\nfor p; do :; done",
			expected: []ast.Action{
				&ast.For{
					Var:   "i",
					Items: []vars.Value{vars.BareWord("a"), vars.BareWord("*.c")},
					Body: []ast.Action{&ast.Builtin{Kind: ast.Echo, Name: "echo", Args: []vars.Value{
						vars.ParameterSubstitution("${i}"),
					}}},
				},
				&ast.For{
					Var:        "p",
					OverParams: true,
					Body:       []ast.Action{&ast.ExternalCommand{Args: []vars.Value{vars.BareWord(":")}}},
				},
			},
		},
		"while-until": {
			script: "while a; do b; done; until a; do b; done",
			expected: []ast.Action{
				&ast.While{
					Condition: &ast.ExternalCommand{Args: []vars.Value{vars.BareWord("a")}},
					Body:      []ast.Action{&ast.ExternalCommand{Args: []vars.Value{vars.BareWord("b")}}},
				},
				&ast.While{
					Condition: &ast.ExternalCommand{Args: []vars.Value{vars.BareWord("a")}},
					Body:      []ast.Action{&ast.ExternalCommand{Args: []vars.Value{vars.BareWord("b")}}},
					Until:     true,
				},
			},
		},
		"groups": {
			script: "(a; b) && { c; } || ! d",
			expected: []ast.Action{
				&ast.AndOr{
					Op: ast.Or,
					Left: &ast.AndOr{
						Op: ast.And,
						Left: &ast.Subshell{Body: []ast.Action{
							&ast.ExternalCommand{Args: []vars.Value{vars.BareWord("a")}},
							&ast.ExternalCommand{Args: []vars.Value{vars.BareWord("b")}},
						}},
						Right: &ast.BraceGroup{Body: []ast.Action{
							&ast.ExternalCommand{Args: []vars.Value{vars.BareWord("c")}},
						}},
					},
					Right: &ast.Not{Action: &ast.ExternalCommand{Args: []vars.Value{vars.BareWord("d")}}},
				},
			},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			actual, err := String(tc.script, "test.sh")
			require.NoError(t, err)

			if diff := cmp.Diff(tc.expected, actual); diff != "" {
				t.Errorf("String() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestString_unsupported(t *testing.T) {
	cases := map[string]string{
		"pipeline":            "a | b",
		"background":          "sleep 1 &",
		"redirect":            "echo hi > out",
		"prefix-assignment":   "FOO=bar env",
		"parameter-operator":  "echo ${x:-default}",
		"length":              "echo ${#x}",
		"arithmetic":          "echo $((1 + 2))",
		"nested-substitution": "echo a$(pwd)",
		"case":                "case x in *) ;; esac",
		"c-style-for":         "for ((i = 0; i < 3; i++)); do :; done",
		"declare":             "declare x=1",
		"append":              "x+=1",
	}

	for tn, script := range cases {
		t.Run(tn, func(t *testing.T) {
			_, err := String(script, "test.sh")

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, "test.sh", syntaxErr.File)
			assert.Equal(t, status.Misuse, status.Of(err))
		})
	}
}

func TestString_parseError(t *testing.T) {
	_, err := String("echo ok\nif true; then", "broken.sh")

	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, "broken.sh", syntaxErr.File)
	assert.NotZero(t, syntaxErr.Line)
	assert.Contains(t, err.Error(), "broken.sh:")
}

func TestUnquoteLit(t *testing.T) {
	cases := []struct {
		in      string
		out     string
		escaped bool
	}{
		{"plain", "plain", false},
		{`a\ b`, "a b", true},
		{`\*`, "*", true},
		{`\\`, `\`, true},
		{"line\\\ncontinued", "linecontinued", true},
	}

	for _, tc := range cases {
		out, escaped := unquoteLit(tc.in)
		assert.Equal(t, tc.out, out, tc.in)
		assert.Equal(t, tc.escaped, escaped, tc.in)
	}
}

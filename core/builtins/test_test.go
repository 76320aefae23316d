package builtins

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/josephlewis42/elvi/core/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTest(t *testing.T) {
	cases := map[string]struct {
		name string
		args []string
		want TestExpression
	}{
		"empty":         {"test", nil, TestExpression{Op: TestFalse, Args: []string{}}},
		"not-null":      {"test", []string{"x"}, TestExpression{Op: StringNotNull, Args: []string{"x"}}},
		"unary":         {"test", []string{"-f", "a"}, TestExpression{Op: RegularFile, Args: []string{"a"}}},
		"binary":        {"test", []string{"a", "!=", "b"}, TestExpression{Op: StringNotEqual, Args: []string{"a", "b"}}},
		"inverted":      {"test", []string{"!", "-z", "a"}, TestExpression{Op: StringZero, Args: []string{"a"}, Invert: true}},
		"inverted-word": {"test", []string{"!", "a"}, TestExpression{Op: StringNotNull, Args: []string{"a"}, Invert: true}},
		"bang-operand":  {"test", []string{"!", "=", "!"}, TestExpression{Op: StringEqual, Args: []string{"!", "!"}}},
		"lone-bang":     {"test", []string{"!"}, TestExpression{Op: StringNotNull, Args: []string{"!"}}},
		"bracket":       {"[", []string{"1", "-lt", "2", "]"}, TestExpression{Op: IntLess, Args: []string{"1", "2"}}},
		"bracket-empty": {"[", []string{"]"}, TestExpression{Op: TestFalse, Args: []string{}}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got, err := ParseTest(tc.name, tc.args)

			require.NoError(t, err)
			assert.Equal(t, tc.want.Op, got.Op)
			assert.Equal(t, tc.want.Invert, got.Invert)
			assert.ElementsMatch(t, tc.want.Args, got.Args)
		})
	}
}

func TestParseTest_errors(t *testing.T) {
	cases := map[string]struct {
		name string
		args []string
		want string
	}{
		"missing-bracket":  {"[", []string{"a"}, "[: missing ]"},
		"bad-unary":        {"test", []string{"-Q", "a"}, "test: -Q: unary operator expected"},
		"bad-binary":       {"test", []string{"a", "-foo", "b"}, "test: -foo: binary operator expected"},
		"too-many":         {"test", []string{"a", "=", "b", "c"}, "test: too many arguments"},
		"bracket-too-many": {"[", []string{"a", "b", "c", "d", "]"}, "[: too many arguments"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			_, err := ParseTest(tc.name, tc.args)

			assert.EqualError(t, err, tc.want)
			assert.Equal(t, status.Misuse, status.Of(err))
		})
	}
}

func TestTest_comparisons(t *testing.T) {
	cases := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{""}, false},
		{[]string{"x"}, true},
		{[]string{"-z", ""}, true},
		{[]string{"-z", "x"}, false},
		{[]string{"-n", ""}, false},
		{[]string{"-n", "x"}, true},
		{[]string{"a", "=", "a"}, true},
		{[]string{"a", "=", "b"}, false},
		{[]string{"a", "!=", "b"}, true},
		{[]string{"a", "<", "b"}, true},
		{[]string{"b", "<", "a"}, false},
		{[]string{"b", ">", "a"}, true},
		// After is defined as "not before", so equal strings compare after.
		{[]string{"a", ">", "a"}, true},
		{[]string{"10", "-eq", "10"}, true},
		{[]string{"10", "-ne", "10"}, false},
		{[]string{"-3", "-lt", "2"}, true},
		{[]string{"2", "-le", "2"}, true},
		{[]string{"3", "-gt", "2"}, true},
		{[]string{"2", "-gt", "2"}, false},
		{[]string{"2", "-ge", "2"}, true},
		{[]string{"1", "-ge", "2"}, false},
		{[]string{"!", "a", "=", "a"}, false},
		{[]string{"!", ""}, true},
	}

	for _, tc := range cases {
		expr, err := ParseTest("test", tc.args)
		require.NoError(t, err, "args: %q", tc.args)

		got, err := expr.Evaluate()

		require.NoError(t, err, "args: %q", tc.args)
		assert.Equal(t, tc.want, got, "args: %q", tc.args)
	}
}

func TestTest_illegalNumber(t *testing.T) {
	env := newTestEnv(t)

	for _, args := range [][]string{{"a", "-eq", "1"}, {"1", "-gt", "b"}, {"-t", "x"}} {
		code, err := Test(env.Env, "test", args)

		var num *status.IllegalNumberError
		require.True(t, errors.As(err, &num), "args: %q", args)
		assert.Equal(t, status.Misuse, code)
	}
}

func TestTest_status(t *testing.T) {
	env := newTestEnv(t)

	code, err := Test(env.Env, "test", []string{"a", "=", "a"})
	require.NoError(t, err)
	assert.Equal(t, status.Success, code)

	code, err = Test(env.Env, "test", []string{"a", "=", "b"})
	require.NoError(t, err)
	assert.Equal(t, status.Failure, code)
}

func fileFixtures(t *testing.T) (dir, file, empty, link string) {
	t.Helper()

	dir = t.TempDir()
	file = filepath.Join(dir, "file")
	empty = filepath.Join(dir, "empty")
	link = filepath.Join(dir, "link")

	require.NoError(t, os.WriteFile(file, []byte("data"), 0755))
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	require.NoError(t, os.Symlink(file, link))

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(empty, old, old))
	return dir, file, empty, link
}

func TestTest_files(t *testing.T) {
	dir, file, empty, link := fileFixtures(t)
	missing := filepath.Join(dir, "missing")

	cases := []struct {
		args []string
		want bool
	}{
		{[]string{"-e", file}, true},
		{[]string{"-e", missing}, false},
		{[]string{"-f", file}, true},
		{[]string{"-f", dir}, false},
		{[]string{"-f", link}, true},
		{[]string{"-d", dir}, true},
		{[]string{"-d", file}, false},
		{[]string{"-h", link}, true},
		{[]string{"-L", file}, false},
		{[]string{"-x", file}, true},
		{[]string{"-x", empty}, false},
		{[]string{"-r", file}, true},
		{[]string{"-r", missing}, false},
		{[]string{"-w", missing}, false},
		{[]string{"-s", file}, true},
		{[]string{"-s", empty}, false},
		{[]string{"-p", file}, false},
		{[]string{"-S", file}, false},
		{[]string{"-b", file}, false},
		{[]string{"-c", file}, false},
		{[]string{"-O", file}, true},
		{[]string{"-k", file}, false},
		{[]string{"-u", file}, false},
		{[]string{"-g", missing}, false},
		{[]string{file, "-nt", empty}, true},
		{[]string{empty, "-nt", file}, false},
		{[]string{empty, "-ot", file}, true},
		{[]string{file, "-ot", missing}, false},
		{[]string{file, "-nt", missing}, false},
		{[]string{file, "-ef", link}, true},
		{[]string{file, "-ef", empty}, false},
	}

	for _, tc := range cases {
		expr, err := ParseTest("test", tc.args)
		require.NoError(t, err, "args: %q", tc.args)

		got, err := expr.Evaluate()

		require.NoError(t, err, "args: %q", tc.args)
		assert.Equal(t, tc.want, got, "args: %q", tc.args)
	}
}

// Inverting any expression must give exactly the opposite result.
func TestTest_doubleNegation(t *testing.T) {
	dir, file, empty, link := fileFixtures(t)
	words := []string{"", "a", "b", "10", "2", dir, file, empty, link, filepath.Join(dir, "missing")}

	var exprs []TestExpression
	for _, op := range unaryOps {
		for _, w := range words {
			if op == Terminal {
				continue
			}
			exprs = append(exprs, TestExpression{Op: op, Args: []string{w}})
		}
	}
	for _, op := range binaryOps {
		for _, a := range words {
			for _, b := range words {
				exprs = append(exprs, TestExpression{Op: op, Args: []string{a, b}})
			}
		}
	}

	for _, expr := range exprs {
		plain, err := expr.Evaluate()
		if err != nil {
			continue
		}

		inverted := expr
		inverted.Invert = true
		got, err := inverted.Evaluate()

		require.NoError(t, err)
		assert.Equal(t, !plain, got, "%v %q", expr.Op, expr.Args)
	}
}

func TestTest_negatedForms(t *testing.T) {
	pairs := map[TestOp]TestOp{
		StringNotEqual:  StringEqual,
		StringAfter:     StringBefore,
		IntNotEqual:     IntEqual,
		IntGreater:      IntLessEqual,
		IntGreaterEqual: IntLess,
		StringNonZero:   StringZero,
		StringNotNull:   StringZero,
	}
	inputs := [][]string{{"1", "1"}, {"1", "2"}, {"2", "1"}, {"", ""}, {"9", "10"}}

	for negated, positive := range pairs {
		for _, args := range inputs {
			if negated == StringNonZero || negated == StringNotNull {
				args = args[:1]
			}

			want, err := TestExpression{Op: positive, Args: args}.Evaluate()
			if err != nil {
				continue
			}
			got, err := TestExpression{Op: negated, Args: args}.Evaluate()

			require.NoError(t, err)
			assert.Equal(t, !want, got, "%v %q", negated, args)
		}
	}
}

package builtins

import (
	"fmt"
	"os"
	"strconv"

	"github.com/josephlewis42/elvi/core/status"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// TestOp is a single test(1) predicate or comparison.
type TestOp int

const (
	// TestFalse is the empty expression.
	TestFalse TestOp = iota

	FileExists
	RegularFile
	Directory
	Symlink
	Readable
	Writable
	Executable
	StickyBit
	SetUID
	SetGID
	Socket
	NamedPipe
	BlockDevice
	CharDevice
	OwnedByEUID
	OwnedByEGID
	NonEmptyFile
	Terminal

	StringZero
	StringNonZero
	// StringNotNull is the single argument form, it's the same check as
	// StringNonZero.
	StringNotNull

	StringEqual
	StringNotEqual
	StringBefore
	StringAfter

	IntEqual
	IntNotEqual
	IntLess
	IntLessEqual
	IntGreater
	IntGreaterEqual

	FileNewer
	FileOlder
	SameFile
)

var unaryOps = map[string]TestOp{
	"-e": FileExists,
	"-f": RegularFile,
	"-d": Directory,
	"-h": Symlink,
	"-L": Symlink,
	"-r": Readable,
	"-w": Writable,
	"-x": Executable,
	"-k": StickyBit,
	"-u": SetUID,
	"-g": SetGID,
	"-S": Socket,
	"-p": NamedPipe,
	"-b": BlockDevice,
	"-c": CharDevice,
	"-O": OwnedByEUID,
	"-G": OwnedByEGID,
	"-s": NonEmptyFile,
	"-t": Terminal,
	"-z": StringZero,
	"-n": StringNonZero,
}

var binaryOps = map[string]TestOp{
	"=":   StringEqual,
	"!=":  StringNotEqual,
	"<":   StringBefore,
	">":   StringAfter,
	"-eq": IntEqual,
	"-ne": IntNotEqual,
	"-lt": IntLess,
	"-le": IntLessEqual,
	"-gt": IntGreater,
	"-ge": IntGreaterEqual,
	"-nt": FileNewer,
	"-ot": FileOlder,
	"-ef": SameFile,
}

// TestExpression is a parsed test(1) invocation.
type TestExpression struct {
	Op   TestOp
	Args []string

	// Invert negates the result once.
	Invert bool
}

// ParseTest turns the arguments of test, or [ if name is "[", into an
// expression.
func ParseTest(name string, args []string) (TestExpression, error) {
	if name == "[" {
		if len(args) == 0 || args[len(args)-1] != "]" {
			return TestExpression{}, &status.UsageError{Name: name, Msg: "missing ]"}
		}
		args = args[:len(args)-1]
	}

	var expr TestExpression
	if len(args) >= 2 && args[0] == "!" && !isBinaryForm(args) {
		expr.Invert = true
		args = args[1:]
	}

	switch len(args) {
	case 0:
		expr.Op = TestFalse
	case 1:
		expr.Op = StringNotNull
	case 2:
		op, ok := unaryOps[args[0]]
		if !ok {
			return TestExpression{}, &status.UsageError{Name: name, Msg: fmt.Sprintf("%s: unary operator expected", args[0])}
		}
		expr.Op = op
		args = args[1:]
	case 3:
		op, ok := binaryOps[args[1]]
		if !ok {
			return TestExpression{}, &status.UsageError{Name: name, Msg: fmt.Sprintf("%s: binary operator expected", args[1])}
		}
		expr.Op = op
		args = []string{args[0], args[2]}
	default:
		return TestExpression{}, &status.UsageError{Name: name, Msg: "too many arguments"}
	}

	expr.Args = args
	return expr, nil
}

// isBinaryForm is true when "!" is the left operand of a comparison rather
// than a negation, as in `test ! = x`.
func isBinaryForm(args []string) bool {
	if len(args) != 3 {
		return false
	}
	_, ok := binaryOps[args[1]]
	return ok
}

// Evaluate runs the expression against the real filesystem.
func (e TestExpression) Evaluate() (bool, error) {
	ok, err := e.Op.eval(e.Args)
	if err != nil {
		return false, err
	}
	return ok != e.Invert, nil
}

func (op TestOp) eval(args []string) (bool, error) {
	switch op {
	case TestFalse:
		return false, nil

	// Negated forms are defined in terms of their positive counterpart.
	case StringNonZero, StringNotNull:
		return negate(StringZero.eval(args))
	case StringNotEqual:
		return negate(StringEqual.eval(args))
	case StringAfter:
		return negate(StringBefore.eval(args))
	case IntNotEqual:
		return negate(IntEqual.eval(args))
	case IntGreater:
		return negate(IntLessEqual.eval(args))
	case IntGreaterEqual:
		return negate(IntLess.eval(args))

	case StringZero:
		return args[0] == "", nil
	case StringEqual:
		return args[0] == args[1], nil
	case StringBefore:
		return args[0] < args[1], nil

	case IntEqual, IntLess, IntLessEqual:
		a, b, err := integers(args)
		if err != nil {
			return false, err
		}
		switch op {
		case IntEqual:
			return a == b, nil
		case IntLess:
			return a < b, nil
		default:
			return a <= b, nil
		}

	case Terminal:
		fd, err := strconv.Atoi(args[0])
		if err != nil {
			return false, &status.IllegalNumberError{Name: args[0], Caller: "test"}
		}
		return term.IsTerminal(fd), nil

	case FileNewer, FileOlder:
		a, errA := os.Stat(args[0])
		b, errB := os.Stat(args[1])
		if errA != nil || errB != nil {
			return false, nil
		}
		if op == FileNewer {
			return a.ModTime().After(b.ModTime()), nil
		}
		return a.ModTime().Before(b.ModTime()), nil

	case SameFile:
		var a, b unix.Stat_t
		if unix.Stat(args[0], &a) != nil || unix.Stat(args[1], &b) != nil {
			return false, nil
		}
		return a.Dev == b.Dev && a.Ino == b.Ino, nil

	case Readable:
		f, err := os.Open(args[0])
		if err != nil {
			return false, nil
		}
		defer f.Close()
		return true, nil
	case Writable:
		return unix.Access(args[0], unix.W_OK) == nil, nil
	case Executable:
		return unix.Access(args[0], unix.X_OK) == nil, nil

	case Symlink:
		var st unix.Stat_t
		if unix.Lstat(args[0], &st) != nil {
			return false, nil
		}
		return fileType(&st) == unix.S_IFLNK, nil

	default:
		var st unix.Stat_t
		if unix.Stat(args[0], &st) != nil {
			return false, nil
		}
		return statPredicate(op, &st), nil
	}
}

func statPredicate(op TestOp, st *unix.Stat_t) bool {
	mode := uint32(st.Mode)
	switch op {
	case FileExists:
		return true
	case RegularFile:
		return fileType(st) == unix.S_IFREG
	case Directory:
		return fileType(st) == unix.S_IFDIR
	case Socket:
		return fileType(st) == unix.S_IFSOCK
	case NamedPipe:
		return fileType(st) == unix.S_IFIFO
	case BlockDevice:
		return fileType(st) == unix.S_IFBLK
	case CharDevice:
		return fileType(st) == unix.S_IFCHR
	case StickyBit:
		return mode&unix.S_ISVTX != 0
	case SetUID:
		return mode&unix.S_ISUID != 0
	case SetGID:
		return mode&unix.S_ISGID != 0
	case OwnedByEUID:
		return int(st.Uid) == unix.Geteuid()
	case OwnedByEGID:
		return int(st.Gid) == unix.Getegid()
	case NonEmptyFile:
		return st.Size > 0
	default:
		return false
	}
}

func fileType(st *unix.Stat_t) uint32 {
	return uint32(st.Mode) & unix.S_IFMT
}

func negate(ok bool, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func integers(args []string) (int64, int64, error) {
	a, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, &status.IllegalNumberError{Name: args[0], Caller: "test"}
	}
	b, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, &status.IllegalNumberError{Name: args[1], Caller: "test"}
	}
	return a, b, nil
}

// Test evaluates a conditional expression, name is either "test" or "[".
func Test(env *Env, name string, args []string) (status.Status, error) {
	expr, err := ParseTest(name, args)
	if err != nil {
		return status.Misuse, err
	}

	ok, err := expr.Evaluate()
	if err != nil {
		return status.Misuse, err
	}
	return status.FromBool(ok), nil
}

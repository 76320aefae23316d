package expand

import (
	"os/user"
	"strings"
)

// HomeDirFunc looks up the home directory of a user.
type HomeDirFunc func(username string) (string, bool)

// SystemHomeDir looks users up in the system's user database.
func SystemHomeDir(username string) (string, bool) {
	u, err := user.Lookup(username)
	if err != nil || u.HomeDir == "" {
		return "", false
	}
	return u.HomeDir, true
}

// Tilde expands a leading ~ or ~user. Unknown users leave the word untouched.
func Tilde(word, home string, lookup HomeDirFunc) string {
	if !strings.HasPrefix(word, "~") {
		return word
	}

	name, rest := word[1:], ""
	if idx := strings.IndexByte(name, '/'); idx >= 0 {
		name, rest = name[:idx], name[idx:]
	}

	if name == "" {
		return home + rest
	}

	if lookup == nil {
		return word
	}
	dir, ok := lookup(name)
	if !ok {
		return word
	}
	return dir + rest
}

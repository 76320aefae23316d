// Package registry tracks the commands a script can run: executables found
// on $PATH and user defined functions.
package registry

import (
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/josephlewis42/elvi/core/ast"
	"github.com/josephlewis42/elvi/core/status"
	"github.com/josephlewis42/elvi/core/vars"
	"github.com/spf13/afero"
)

// Registry holds the path cache and the function table.
type Registry struct {
	fs        afero.Fs
	paths     map[string]string
	functions map[string]ast.FunctionDefinition
}

// Generate builds a registry by scanning every directory in $PATH.
func Generate(fsys afero.Fs, store *vars.Store) *Registry {
	r := &Registry{
		fs:        fsys,
		functions: make(map[string]ast.FunctionDefinition),
	}
	r.Regenerate(store)
	return r
}

// Regenerate rebuilds the path cache from the current $PATH, functions are
// kept. Directories that can't be read are skipped and when two directories
// contain the same name the later one wins.
func (r *Registry) Regenerate(store *vars.Store) {
	r.paths = make(map[string]string)

	for _, dir := range filepath.SplitList(store.Get(vars.EnvPath)) {
		if dir == "" {
			continue
		}

		entries, err := afero.ReadDir(r.fs, dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			path := filepath.Join(dir, name)
			if entry.Mode()&fs.ModeSymlink != 0 {
				if entry, err = r.fs.Stat(path); err != nil {
					continue
				}
			}
			if !entry.Mode().IsRegular() {
				continue
			}
			r.paths[name] = path
		}
	}
}

// Clone copies the path cache and the function table, changes to the copy
// don't affect r.
func (r *Registry) Clone() *Registry {
	out := &Registry{
		fs:        r.fs,
		paths:     make(map[string]string, len(r.paths)),
		functions: make(map[string]ast.FunctionDefinition, len(r.functions)),
	}
	for name, path := range r.paths {
		out.paths[name] = path
	}
	for name, fn := range r.functions {
		out.functions[name] = fn
	}
	return out
}

// Paths returns the cached executables as "name=path", sorted by name.
func (r *Registry) Paths() []string {
	var out []string
	for name, path := range r.paths {
		out = append(out, name+"="+path)
	}
	sort.Strings(out)
	return out
}

// Register adds or replaces a function.
func (r *Registry) Register(fn ast.FunctionDefinition) {
	r.functions[fn.Name] = fn
}

// Deregister removes a function, it's a no-op if the function doesn't exist.
func (r *Registry) Deregister(name string) {
	delete(r.functions, name)
}

// Function looks up a function by name.
func (r *Registry) Function(name string) (ast.FunctionDefinition, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}

// Functions returns the names of every function, sorted.
func (r *Registry) Functions() []string {
	var out []string
	for name := range r.functions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve finds the executable for a command. Commands containing a slash
// are checked directly, anything else must be in the path cache.
func (r *Registry) Resolve(command string) (string, error) {
	if strings.Contains(command, "/") {
		if err := r.checkExecutable(command); err != nil {
			return "", err
		}
		return command, nil
	}

	path, ok := r.paths[command]
	if !ok {
		return "", &status.NotFoundError{Name: command}
	}
	return path, nil
}

func (r *Registry) checkExecutable(file string) error {
	d, err := r.fs.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &status.NotFoundError{Name: file}
	case err != nil:
		return &status.PermissionDeniedError{Path: file}
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return &status.PermissionDeniedError{Path: file}
}

// Launch builds the process for args. The process gets only the exported
// variables and runs in $PWD. It's up to the caller to attach streams, start
// and wait on it.
func (r *Registry) Launch(args []string, store *vars.Store) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, &status.NotFoundError{Name: ""}
	}

	path, err := r.Resolve(args[0])
	if err != nil {
		return nil, err
	}

	return &exec.Cmd{
		Path: path,
		Args: append([]string(nil), args...),
		Env:  store.Environ(),
		Dir:  store.Get(vars.EnvPWD),
	}, nil
}

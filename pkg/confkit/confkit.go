package confkit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeromicro/go-zero/core/conf"
)

// ResolvePath expands environment variables in file and resolves it against
// base unless it is already absolute. Section files under etc/ reference
// their prompt templates and sibling configs this way.
func ResolvePath(base, file string) string {
	file = os.ExpandEnv(file)
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}

// BaseDir returns the directory holding the root config file. Relative
// section paths resolve against it.
func BaseDir(mainPath string) string {
	return filepath.Dir(mainPath)
}

// LoadFile reads a yaml config into T via go-zero's loader, optionally
// expanding ${VAR} placeholders from the environment.
func LoadFile[T any](path string, useEnv bool) (*T, error) {
	var cfg T
	var opts []conf.Option
	if useEnv {
		opts = append(opts, conf.UseEnv())
	}
	if err := conf.Load(path, &cfg, opts...); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &cfg, nil
}

// Section is a subsystem config slot in the root config: File names a yaml
// file to load, Value receives the parsed result after Hydrate. A section
// with no File stays unhydrated and its subsystem is simply not constructed.
type Section[T any] struct {
	File  string `json:",optional"`
	Value *T     `json:"-"`
}

// Hydrate resolves File against base, runs the subsystem's own loader on it
// and stores the result. File is rewritten to the resolved path so later
// consumers (config summaries, template resolution) see where it came from.
func (s *Section[T]) Hydrate(base string, loader func(string) (*T, error)) error {
	if s.File == "" {
		return nil
	}
	resolved := ResolvePath(base, s.File)
	v, err := loader(resolved)
	if err != nil {
		return err
	}
	s.File = resolved
	s.Value = v
	return nil
}

// Hydrated reports whether the section carries a loaded value.
func (s *Section[T]) Hydrated() bool {
	return s != nil && s.Value != nil
}

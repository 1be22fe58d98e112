package confkit

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// rootMarkers identify the repository root while walking upwards.
var rootMarkers = []string{"go.mod", ".git"}

const maxRootWalk = 8

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	_, err := os.Stat(p)
	return err == nil
}

func isRoot(dir string) bool {
	for _, marker := range rootMarkers {
		if fileExists(filepath.Join(dir, marker)) {
			return true
		}
	}
	return false
}

// walkUp climbs from dir towards the filesystem root, calling visit per
// directory, and stops once a repository root marker is found or the walk
// budget runs out.
func walkUp(dir string, visit func(dir string)) (string, bool) {
	for i := 0; i < maxRootWalk; i++ {
		if visit != nil {
			visit(dir)
		}
		if isRoot(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

// ProjectRoot locates the repository root by walking upwards from this source
// file. Tests and CLI entrypoints run from arbitrary working directories, so
// paths like etc/sigsim.yaml must not depend on the cwd. Falls back to the
// working directory when no marker is found.
func ProjectRoot() (string, error) {
	if _, file, _, ok := runtime.Caller(0); ok {
		if root, found := walkUp(filepath.Dir(file), nil); found {
			return root, nil
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return ".", fmt.Errorf("getwd: %w", err)
	}
	return wd, nil
}

// MustProjectRoot returns the repository root path or panics on failure.
func MustProjectRoot() string {
	root, err := ProjectRoot()
	if err != nil {
		panic(err)
	}
	return root
}

// ProjectPath joins the repository root with the provided relative path.
func ProjectPath(rel string) (string, error) {
	root, err := ProjectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, rel), nil
}

// MustProjectPath returns ProjectPath(rel) and panics on failure.
func MustProjectPath(rel string) string {
	p, err := ProjectPath(rel)
	if err != nil {
		panic(err)
	}
	return p
}

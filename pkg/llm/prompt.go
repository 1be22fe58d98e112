package llm

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
)

// PromptTemplate is a text/template loaded from disk. Rendering is safe for
// concurrent use; Reload swaps in a freshly parsed copy.
type PromptTemplate struct {
	path  string
	funcs template.FuncMap

	mu   sync.RWMutex
	tmpl *template.Template
	hash string
}

// NewPromptTemplate loads and parses the template at path. funcs may be nil.
func NewPromptTemplate(path string, funcs template.FuncMap) (*PromptTemplate, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("prompt template path is empty")
	}
	t := &PromptTemplate{path: path, funcs: funcs}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Render executes the template against data.
func (t *PromptTemplate) Render(data any) (string, error) {
	t.mu.RLock()
	tmpl := t.tmpl
	t.mu.RUnlock()

	if tmpl == nil {
		return "", fmt.Errorf("prompt template %q not parsed", t.path)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute prompt template %q: %w", t.path, err)
	}
	return buf.String(), nil
}

// Reload reparses the template from disk, picking up edits made after load.
func (t *PromptTemplate) Reload() error {
	raw, err := os.ReadFile(t.path)
	if err != nil {
		return fmt.Errorf("read prompt template %q: %w", t.path, err)
	}

	tmpl := template.New(filepath.Base(t.path)).Option("missingkey=error")
	if len(t.funcs) > 0 {
		tmpl = tmpl.Funcs(t.funcs)
	}
	if _, err := tmpl.Parse(string(raw)); err != nil {
		return fmt.Errorf("parse prompt template %q: %w", t.path, err)
	}

	t.mu.Lock()
	t.tmpl = tmpl
	t.hash = digest(raw)
	t.mu.Unlock()
	return nil
}

// Digest returns the sha256 hex digest of the template source.
func (t *PromptTemplate) Digest() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.hash
}

// DigestString returns the sha256 hex digest of s.
func DigestString(s string) string {
	return digest([]byte(s))
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

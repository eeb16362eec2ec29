package policy

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

//go:embed defaults/*.rego
var defaultPolicies embed.FS

// PolicyFile is one Rego module.
type PolicyFile struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Builtin bool   `json:"builtin,omitempty"`
}

// Loader reads .rego modules from a directory tree on any afero filesystem.
// Files ending in _test.rego hold OPA unit tests and are skipped.
type Loader struct {
	fs      afero.Fs
	baseDir string
}

// NewLoader creates a loader over fs rooted at baseDir.
func NewLoader(fs afero.Fs, baseDir string) *Loader {
	return &Loader{fs: fs, baseDir: baseDir}
}

// LoadAll returns the modules in lexical path order. An empty or missing
// directory yields none.
func (l *Loader) LoadAll() ([]*PolicyFile, error) {
	if l.baseDir == "" {
		return nil, nil
	}
	if ok, err := afero.DirExists(l.fs, l.baseDir); err != nil {
		return nil, fmt.Errorf("check policies directory: %w", err)
	} else if !ok {
		return nil, nil
	}

	var out []*PolicyFile
	walk := func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !isPolicyModule(info) {
			return nil
		}
		content, err := afero.ReadFile(l.fs, p)
		if err != nil {
			return fmt.Errorf("read policy %s: %w", p, err)
		}
		out = append(out, &PolicyFile{
			Path:    p,
			Name:    strings.TrimSuffix(filepath.Base(p), ".rego"),
			Content: string(content),
		})
		return nil
	}
	if err := afero.Walk(l.fs, l.baseDir, walk); err != nil {
		return nil, fmt.Errorf("walk policies directory: %w", err)
	}
	return out, nil
}

func isPolicyModule(info os.FileInfo) bool {
	name := info.Name()
	return !info.IsDir() && strings.HasSuffix(name, ".rego") && !strings.HasSuffix(name, "_test.rego")
}

// DefaultPolicies returns the eligibility rules compiled into the binary.
func DefaultPolicies() ([]*PolicyFile, error) {
	files, err := NewLoader(afero.FromIOFS{FS: defaultPolicies}, "defaults").LoadAll()
	if err != nil {
		return nil, fmt.Errorf("read default policies: %w", err)
	}
	for _, f := range files {
		f.Path = "builtin/" + filepath.Base(f.Path)
		f.Builtin = true
	}
	return files, nil
}

// Package workspace confines file access to a single root directory.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"crew-agent/internal/domain/entity"
)

type Workspace struct {
	root string
}

func New(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	return &Workspace{root: abs}, nil
}

func (w *Workspace) Root() string {
	return w.root
}

// Resolve maps a workspace-relative path to an absolute one. Absolute paths,
// paths climbing out of the root and symlinks pointing outside it fail with
// entity.ErrAccessDenied.
func (w *Workspace) Resolve(rel string) (string, error) {
	if rel == "" {
		rel = "."
	}
	if filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return "", fmt.Errorf("%w: %s", entity.ErrAccessDenied, rel)
	}

	target := filepath.Join(w.root, rel)
	if !w.contains(target) {
		return "", fmt.Errorf("%w: %s", entity.ErrAccessDenied, rel)
	}

	if real, ok := existingAncestor(target); ok {
		if resolved, err := filepath.EvalSymlinks(real); err == nil && !w.contains(resolved) {
			return "", fmt.Errorf("%w: %s", entity.ErrAccessDenied, rel)
		}
	}

	return target, nil
}

// existingAncestor returns path or its nearest parent that exists on disk.
func existingAncestor(path string) (string, bool) {
	for {
		if _, err := os.Lstat(path); err == nil {
			return path, true
		}
		parent := filepath.Dir(path)
		if parent == path {
			return "", false
		}
		path = parent
	}
}

func (w *Workspace) contains(path string) bool {
	r, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	return r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator))
}

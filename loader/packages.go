package loader

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/teranos/typomatic/orchestrator"
)

// GoPackages is the host registry backed by the loader's package set. Each
// top-level namespace is one installed package; its path is the directory
// holding it.
type GoPackages struct {
	loader *Loader
}

// NewGoPackages returns a host registry over l. Packages are loaded on first
// use if l has not loaded yet.
func NewGoPackages(l *Loader) *GoPackages {
	return &GoPackages{loader: l}
}

// ListInstalledPackages lists top-level packages in import path order,
// deduped by name.
func (g *GoPackages) ListInstalledPackages(ctx context.Context) ([]orchestrator.Package, error) {
	if g.loader.pkgs == nil {
		if _, err := g.loader.Load(ctx); err != nil {
			return nil, err
		}
	}

	module := modulePath(g.loader.pkgs)
	seen := make(map[string]bool)
	var out []orchestrator.Package

	for _, pkg := range g.loader.pkgs {
		ns := Namespace(pkg.PkgPath, module)
		top, _, _ := strings.Cut(ns, ".")
		if top == "" || seen[top] {
			continue
		}
		dir := packageDir(pkg.GoFiles)
		if dir == "" {
			continue
		}
		if module != "" && (pkg.PkgPath == module || strings.HasPrefix(pkg.PkgPath, module+"/")) {
			dir = appDir(dir, ns)
		}
		seen[top] = true
		out = append(out, orchestrator.Package{Name: top, Path: dir})
	}
	return out, nil
}

// appDir walks up from a package directory to the directory of its
// top-level namespace segment.
func appDir(dir, ns string) string {
	depth := strings.Count(ns, ".")
	for i := 0; i < depth; i++ {
		dir = filepath.Dir(dir)
	}
	return dir
}

func packageDir(files []string) string {
	if len(files) == 0 {
		return ""
	}
	return filepath.Dir(files[0])
}

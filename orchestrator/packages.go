package orchestrator

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/teranos/typomatic/errors"
	"github.com/teranos/typomatic/logger"
)

// Package is one entry of the host registry: an importable top-level package
// name and the directory it lives in.
type Package struct {
	Name string
	Path string
}

// HostRegistry enumerates every package installed in the host environment.
type HostRegistry interface {
	ListInstalledPackages(ctx context.Context) ([]Package, error)
}

// DefaultExcludes are the dependency directories skipped by ExpandAll.
var DefaultExcludes = []string{
	"**/vendor/**",
	"**/node_modules/**",
	"**/pkg/mod/**",
	"**/.venv/**",
	"**/site-packages/**",
}

// ExpandAll lists installed packages and keeps those that live under the
// project root and outside every exclude glob. The surviving names, deduped
// in registry order, become the specifier list of an all-packages run.
func (o *Orchestrator) ExpandAll(ctx context.Context) ([]string, error) {
	if o.hosts == nil {
		return nil, errors.WithHint(errors.ErrNoHostRegistry,
			"all-packages mode needs a loaded project; check --dir")
	}

	pkgs, err := o.hosts.ListInstalledPackages(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list installed packages")
	}

	root, err := filepath.Abs(o.root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve project root %s", o.root)
	}

	seen := make(map[string]bool)
	var names []string
	for _, pkg := range pkgs {
		if seen[pkg.Name] {
			continue
		}
		keep, reason := o.keepPackage(root, pkg)
		if !keep {
			o.log.Debugw("Skipping package",
				logger.FieldPackage, pkg.Name,
				logger.FieldPath, pkg.Path,
				"reason", reason)
			continue
		}
		seen[pkg.Name] = true
		names = append(names, pkg.Name)
	}

	o.log.Infow("Expanded all packages", logger.FieldCount, len(names))
	return names, nil
}

func (o *Orchestrator) keepPackage(root string, pkg Package) (bool, string) {
	if pkg.Name == "" {
		return false, "no name"
	}
	path, err := filepath.Abs(pkg.Path)
	if err != nil {
		return false, "unresolvable path"
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, "outside project root"
	}

	slashed := filepath.ToSlash(rel)
	for _, pattern := range o.excludes {
		if matched, _ := doublestar.Match(pattern, slashed); matched {
			return false, "excluded by " + pattern
		}
		if matched, _ := doublestar.Match(pattern, slashed+"/"); matched {
			return false, "excluded by " + pattern
		}
	}
	return true, ""
}

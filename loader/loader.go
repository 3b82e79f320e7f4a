// Package loader builds the namespace tree from Go source using
// golang.org/x/tools/go/packages.
//
// Every package of the project becomes a dotted namespace (its import path
// relative to the module, "/" replaced by "."), and every exported
// package-level object becomes a binding in it. Struct types that embed the
// base schema type are schema declarations.
package loader

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/teranos/typomatic/errors"
	"github.com/teranos/typomatic/logger"
	"github.com/teranos/typomatic/schema"
)

// DefaultPatterns are the package patterns loaded when none are configured.
var DefaultPatterns = []string{"./..."}

// Config controls what is loaded.
type Config struct {
	// Dir is the project directory packages are loaded from
	Dir string
	// Patterns are go/packages patterns (default ./...)
	Patterns []string
	// BaseType is the fully qualified base schema type (default schema.BaseType)
	BaseType string
	// BuildTags are passed to the build system as -tags
	BuildTags []string
}

// Loader loads Go packages and converts them into a schema.Tree.
type Loader struct {
	cfg  Config
	log  *zap.SugaredLogger
	pkgs []*packages.Package
}

// New creates a loader. Empty config fields take their defaults.
func New(cfg Config) *Loader {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = DefaultPatterns
	}
	if cfg.BaseType == "" {
		cfg.BaseType = schema.BaseType
	}
	return &Loader{cfg: cfg, log: logger.ComponentLogger("loader")}
}

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedModule |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo

// Load type-checks the configured packages and returns a fresh tree.
// Packages with errors are logged and skipped.
func (l *Loader) Load(ctx context.Context) (*schema.Tree, error) {
	start := time.Now()

	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     l.cfg.Dir,
	}
	if len(l.cfg.BuildTags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(l.cfg.BuildTags, ",")}
	}

	pkgs, err := packages.Load(cfg, l.cfg.Patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load packages %s from %s",
			strings.Join(l.cfg.Patterns, " "), l.cfg.Dir)
	}

	var ok []*packages.Package
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			l.log.Warnw("Skipping package with errors",
				logger.FieldPackage, pkg.PkgPath,
				logger.FieldError, pkg.Errors[0].Msg,
				logger.FieldCount, len(pkg.Errors))
			continue
		}
		if pkg.Types == nil {
			continue
		}
		ok = append(ok, pkg)
	}
	if len(ok) == 0 {
		if len(pkgs) > 0 {
			return nil, errors.Newf("no loadable packages in %s (%d with errors)", l.cfg.Dir, len(pkgs))
		}
		return nil, errors.WithHint(
			errors.Newf("no packages found for %s in %s", strings.Join(l.cfg.Patterns, " "), l.cfg.Dir),
			"run typomatic from inside a Go module or pass --dir")
	}
	sort.Slice(ok, func(i, j int) bool { return ok[i].PkgPath < ok[j].PkgPath })
	l.pkgs = ok

	b := newBuilder(l.cfg.BaseType, modulePath(ok), l.log)
	for _, pkg := range ok {
		b.indexDocs(pkg)
	}
	for _, pkg := range ok {
		b.addPackage(pkg)
	}

	l.log.Infow("Loaded namespace tree",
		logger.FieldCount, len(ok),
		"declarations", b.declared,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return b.tree, nil
}

// modulePath returns the main module's path, or "" when packages were loaded
// outside module mode.
func modulePath(pkgs []*packages.Package) string {
	for _, pkg := range pkgs {
		if pkg.Module != nil && pkg.Module.Main {
			return pkg.Module.Path
		}
	}
	return ""
}

// Namespace converts an import path into a dotted namespace. Paths inside
// module are made relative to it; others keep their full path.
func Namespace(importPath, module string) string {
	rel := importPath
	if module != "" {
		switch {
		case importPath == module:
			rel = module[strings.LastIndex(module, "/")+1:]
		case strings.HasPrefix(importPath, module+"/"):
			rel = strings.TrimPrefix(importPath, module+"/")
		}
	}
	return strings.ReplaceAll(rel, "/", ".")
}

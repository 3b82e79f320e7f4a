// Package orchestrator drives a generation run: it turns a selection into
// declarations, groups them by output context, and pushes them through an
// emitter.
package orchestrator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/typomatic/emitter"
	"github.com/teranos/typomatic/errors"
	"github.com/teranos/typomatic/logger"
	"github.com/teranos/typomatic/schema"
)

// FlushPolicy decides when contexts are written.
type FlushPolicy int

const (
	// FlushOnce writes every touched context exactly once, in first-seen
	// order, after all declarations are registered.
	FlushOnce FlushPolicy = iota
	// FlushEach rewrites a context after every new registration into it.
	FlushEach
)

func (p FlushPolicy) String() string {
	if p == FlushEach {
		return "each"
	}
	return "once"
}

// Resolver turns specifiers into declarations.
type Resolver interface {
	ResolveAll(specifiers []string) []*schema.Declaration
}

// Orchestrator runs generation. It holds no per-run state; every Run gets a
// fresh emitter from the factory.
type Orchestrator struct {
	resolver Resolver
	factory  emitter.Factory
	hosts    HostRegistry
	root     string
	excludes []string
	policy   FlushPolicy
	log      *zap.SugaredLogger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithHostRegistry wires the package registry used by all-packages mode.
func WithHostRegistry(hosts HostRegistry) Option {
	return func(o *Orchestrator) {
		o.hosts = hosts
	}
}

// WithProjectRoot sets the directory packages must live under to be
// selected by all-packages mode.
func WithProjectRoot(root string) Option {
	return func(o *Orchestrator) {
		if root != "" {
			o.root = root
		}
	}
}

// WithExcludes replaces DefaultExcludes.
func WithExcludes(globs []string) Option {
	return func(o *Orchestrator) {
		if globs != nil {
			o.excludes = globs
		}
	}
}

// WithFlushPolicy sets when contexts are written.
func WithFlushPolicy(policy FlushPolicy) Option {
	return func(o *Orchestrator) {
		o.policy = policy
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// New creates an orchestrator.
func New(r Resolver, factory emitter.Factory, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		resolver: r,
		factory:  factory,
		root:     ".",
		excludes: DefaultExcludes,
		policy:   FlushOnce,
		log:      logger.ComponentLogger("orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run validates sel, resolves it and emits the result. Configuration errors
// are returned before anything is resolved or written. Selecting nothing is
// an empty run.
func (o *Orchestrator) Run(ctx context.Context, sel Selection, opts emitter.Options) (*Report, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	if sel.Empty() {
		o.log.Infow("Nothing selected, no files written")
		return &Report{}, nil
	}

	specifiers := sel.Specifiers
	if sel.All {
		names, err := o.ExpandAll(ctx)
		if err != nil {
			return nil, err
		}
		specifiers = names
	}

	start := time.Now()
	decls := o.resolver.ResolveAll(specifiers)
	o.log.Debugw("Resolved selection",
		logger.FieldCount, len(decls),
		"specifiers", len(specifiers))

	report, err := o.Process(o.factory(), decls, opts)
	if err != nil {
		return nil, err
	}

	o.log.Infow("Generation complete",
		logger.FieldCount, len(report.Labels),
		"contexts", len(report.Contexts),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return report, nil
}

// Process registers decls with em in input order and flushes according to
// the flush policy. Every newly registered declaration yields the label
// "emitted <origin>.<Name>"; duplicates yield nothing. The first emitter
// failure aborts processing.
func (o *Orchestrator) Process(em emitter.Emitter, decls []*schema.Declaration, opts emitter.Options) (*Report, error) {
	report := &Report{Language: em.Language()}
	index := make(map[schema.OutputContext]int)

	for _, decl := range decls {
		ctx := decl.Context()
		if !em.RegisterDeclaration(decl, ctx) {
			o.log.Debugw("Already registered", logger.FieldDeclaration, decl.Qualified())
			continue
		}

		i, ok := index[ctx]
		if !ok {
			i = len(report.Contexts)
			index[ctx] = i
			report.Contexts = append(report.Contexts, ContextReport{
				Name: string(ctx),
				Path: emitter.OutputPath(opts.OutputRoot, ctx, em.FileExtension()),
			})
		}
		report.Contexts[i].Declarations = append(report.Contexts[i].Declarations, decl.Qualified())

		if o.policy == FlushEach {
			if err := o.flush(em, report.Contexts[i], opts); err != nil {
				return nil, err
			}
		}

		label := "emitted " + decl.Qualified()
		report.Labels = append(report.Labels, label)
		o.log.Infow("Registered declaration",
			logger.FieldLabel, label,
			logger.FieldContext, string(ctx))
	}

	if o.policy == FlushOnce {
		for _, c := range report.Contexts {
			if err := o.flush(em, c, opts); err != nil {
				return nil, err
			}
		}
	}

	return report, nil
}

func (o *Orchestrator) flush(em emitter.Emitter, c ContextReport, opts emitter.Options) error {
	if err := em.Flush(c.Path, schema.OutputContext(c.Name), opts); err != nil {
		return errors.Wrapf(err, "failed to emit context %s to %s", c.Name, c.Path)
	}
	o.log.Debugw("Flushed context",
		logger.FieldContext, c.Name,
		logger.FieldPath, c.Path,
		"policy", o.policy.String())
	return nil
}

package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teranos/typomatic/config"
	"github.com/teranos/typomatic/emitter/typescript"
	"github.com/teranos/typomatic/loader"
	"github.com/teranos/typomatic/logger"
	"github.com/teranos/typomatic/orchestrator"
	"github.com/teranos/typomatic/resolver"
	"github.com/teranos/typomatic/watch"
)

type generateFlags struct {
	configFile  string
	dir         string
	serializers []string
	all         bool
	trim        bool
	camelize    bool
	annotations bool
	enumChoices bool
	enumValues  bool
	enumKeys    bool
	output      string
	incremental bool
	manifest    string
	watch       bool
}

// NewGenerateCmd builds the generate command.
func NewGenerateCmd() *cobra.Command {
	f := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write TypeScript definitions for the selected serializers",
		Long: `Write one TypeScript file per output context (the top-level package of
each serializer) under the output root: <output>/<context>/index.ts.

Specifiers select what to generate:
  billing                        - every serializer in billing/serializers
  billing.InvoiceSerializer      - one serializer from billing/serializers
  billing.serializers.internal   - every serializer in that exact package

--serializers and --all are mutually exclusive. Flags override
typomatic.toml, which overrides built-in defaults; either selection flag
replaces the other kind of selection set in typomatic.toml.

Examples:
  typomatic generate -s billing,users --trim
  typomatic generate --all --enum-choices --enum-values
  typomatic generate -s billing --manifest types/manifest.yaml
  typomatic generate -s billing --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, f)
		},
	}

	f.register(cmd.Flags())

	return cmd
}

func (f *generateFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.configFile, "config", "", "Config file (default: typomatic.toml found walking up from --dir)")
	flags.StringVarP(&f.dir, "dir", "d", "", "Project directory to load packages from")
	flags.StringSliceVarP(&f.serializers, "serializers", "s", nil, "Specifiers to generate (repeatable or comma separated)")
	flags.BoolVar(&f.all, "all", false, "Generate every package of the project")
	flags.BoolVarP(&f.trim, "trim", "t", false, "Strip the Serializer suffix from type names")
	flags.BoolVarP(&f.camelize, "camelize", "c", false, "Convert field names to camelCase")
	flags.BoolVarP(&f.annotations, "annotations", "a", false, "Add JSDoc annotations from docs and validate tags")
	flags.BoolVar(&f.enumChoices, "enum-choices", false, "Emit choices as TypeScript enums")
	flags.BoolVar(&f.enumValues, "enum-values", false, "Emit a value to label map per choices field")
	flags.BoolVar(&f.enumKeys, "enum-keys", false, "Emit a value to key map per choices field")
	flags.StringVarP(&f.output, "output", "o", "", "Output root directory (default: ./types)")
	flags.BoolVar(&f.incremental, "incremental", false, "Rewrite a context after every new declaration")
	flags.StringVar(&f.manifest, "manifest", "", "Write a YAML report of the run to this path")
	flags.BoolVarP(&f.watch, "watch", "w", false, "Regenerate when Go sources change")
}

func runGenerate(cmd *cobra.Command, f *generateFlags) error {
	cfg, err := config.Load(f.configFile, f.dir)
	if err != nil {
		return err
	}
	if err := f.apply(cmd.Flags(), cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	verbosity := verbosityOf(cmd)
	if cfg.Source != "" && logger.ShouldOutput(verbosity, logger.OutputConfig) {
		fmt.Fprintf(out, "Using config %s\n", cfg.Source)
	}

	// Reject bad invocations before touching any package
	sel := orchestrator.Selection{Specifiers: cfg.Generate.Serializers, All: cfg.Generate.All}
	if err := sel.Validate(); err != nil {
		return err
	}
	if sel.Empty() {
		fmt.Fprintln(out, "Nothing selected, pass --serializers or --all")
		return nil
	}

	g := &generator{cfg: cfg, sel: sel, out: out, verbosity: verbosity}
	if err := g.run(cmd.Context()); err != nil {
		return err
	}
	if !f.watch {
		return nil
	}
	return g.watch(cmd.Context())
}

// apply lays explicitly set flags over cfg and revalidates. A selection made
// on the command line replaces the other kind of selection from config, so
// only passing both flags at once conflicts.
func (f *generateFlags) apply(flags *pflag.FlagSet, cfg *config.Config) error {
	if flags.Changed("dir") {
		cfg.Project.Root = f.dir
	}
	serializers, all := flags.Changed("serializers"), flags.Changed("all")
	if serializers {
		cfg.Generate.Serializers = f.serializers
		if !all && len(f.serializers) > 0 {
			cfg.Generate.All = false
		}
	}
	if all {
		cfg.Generate.All = f.all
		if !serializers && f.all {
			cfg.Generate.Serializers = nil
		}
	}
	if flags.Changed("incremental") {
		cfg.Generate.Incremental = f.incremental
	}
	if flags.Changed("manifest") {
		cfg.Generate.Manifest = f.manifest
	}
	if flags.Changed("trim") {
		cfg.Render.TrimSuffix = f.trim
	}
	if flags.Changed("camelize") {
		cfg.Render.Camelize = f.camelize
	}
	if flags.Changed("annotations") {
		cfg.Render.Annotations = f.annotations
	}
	if flags.Changed("enum-choices") {
		cfg.Render.EnumChoices = f.enumChoices
	}
	if flags.Changed("enum-values") {
		cfg.Render.EnumValues = f.enumValues
	}
	if flags.Changed("enum-keys") {
		cfg.Render.EnumKeys = f.enumKeys
	}
	if flags.Changed("output") {
		cfg.Render.OutputRoot = f.output
	}
	return cfg.Validate()
}

// generator runs one load, resolve and emit cycle per call to run
type generator struct {
	cfg       *config.Config
	sel       orchestrator.Selection
	out       io.Writer
	verbosity int
}

func (g *generator) run(ctx context.Context) error {
	start := time.Now()

	l := loader.New(loader.Config{
		Dir:       g.cfg.Project.Root,
		Patterns:  g.cfg.Project.Patterns,
		BaseType:  g.cfg.Discovery.BaseType,
		BuildTags: g.cfg.Project.BuildTags,
	})
	tree, err := l.Load(ctx)
	if err != nil {
		return err
	}
	if logger.ShouldOutput(g.verbosity, logger.OutputProgress) {
		fmt.Fprintf(g.out, "Loaded %d namespaces from %s\n", len(tree.Paths()), g.cfg.Project.Root)
	}
	if logger.ShouldLogTrace(g.verbosity) {
		for _, path := range tree.Paths() {
			logger.Debugw("Loaded namespace", logger.FieldNamespace, path)
		}
	}

	policy := orchestrator.FlushOnce
	if g.cfg.Generate.Incremental {
		policy = orchestrator.FlushEach
	}

	orch := orchestrator.New(
		resolver.New(tree, resolver.WithSubNamespace(g.cfg.Discovery.SubNamespace)),
		typescript.Factory,
		orchestrator.WithHostRegistry(loader.NewGoPackages(l)),
		orchestrator.WithProjectRoot(g.cfg.Project.Root),
		orchestrator.WithExcludes(g.cfg.Project.Exclude),
		orchestrator.WithFlushPolicy(policy),
	)

	report, err := orch.Run(ctx, g.sel, g.cfg.Render)
	if err != nil {
		return err
	}

	if path := g.cfg.Generate.Manifest; path != "" {
		if err := report.WriteManifest(path); err != nil {
			return err
		}
	}

	g.print(report, time.Since(start))
	return nil
}

func (g *generator) print(report *orchestrator.Report, elapsed time.Duration) {
	if report.Empty() {
		fmt.Fprintln(g.out, "No serializers matched, no files written")
		return
	}

	if logger.ShouldOutput(g.verbosity, logger.OutputLabels) {
		for _, label := range report.Labels {
			fmt.Fprintf(g.out, "  %s\n", pterm.Gray(label))
		}
	}
	for _, c := range report.Contexts {
		fmt.Fprintf(g.out, "%s Generated %s (%d types)\n", pterm.LightGreen("✓"), c.Path, len(c.Declarations))
		if logger.ShouldOutput(g.verbosity, logger.OutputDataDump) {
			if data, err := os.ReadFile(c.Path); err == nil {
				fmt.Fprintln(g.out, string(data))
			}
		}
	}
	if logger.ShouldOutput(g.verbosity, logger.OutputTiming) {
		fmt.Fprintf(g.out, "Generated %d declarations in %s\n", len(report.Labels), elapsed.Round(time.Millisecond))
	}
}

// watch regenerates on source changes until ctx is cancelled. Failures are
// logged and the watcher keeps running.
func (g *generator) watch(ctx context.Context) error {
	ignore := []string{"**/vendor/**", "**/node_modules/**", "**/testdata/**"}
	if rel, ok := relativeTo(g.cfg.Project.Root, g.cfg.Render.OutputRoot); ok {
		ignore = append(ignore, rel, rel+"/**")
	}

	w, err := watch.New(g.cfg.Project.Root, g.run,
		watch.WithDebounce(time.Duration(g.cfg.Watch.DebounceMS)*time.Millisecond),
		watch.WithIgnore(ignore...),
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.out, "Watching %s for changes (Ctrl+C to stop)\n", g.cfg.Project.Root)
	return w.Run(ctx)
}

// relativeTo returns path relative to root in slash form when it lies below it
func relativeTo(root, path string) (string, bool) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

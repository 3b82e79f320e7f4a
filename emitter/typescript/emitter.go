// Package typescript emits TypeScript interface files from schema
// declarations, one module per output context.
package typescript

import (
	"github.com/teranos/typomatic/emitter"
	"github.com/teranos/typomatic/logger"
	"github.com/teranos/typomatic/schema"
)

// Emitter implements emitter.Emitter for TypeScript
type Emitter struct {
	*emitter.Registry
}

// NewEmitter creates a new TypeScript emitter with an empty registry
func NewEmitter() *Emitter {
	return &Emitter{Registry: emitter.NewRegistry()}
}

// Factory is an emitter.Factory producing TypeScript emitters.
func Factory() emitter.Emitter {
	return NewEmitter()
}

// Language returns "typescript"
func (e *Emitter) Language() string {
	return "typescript"
}

// FileExtension returns "ts"
func (e *Emitter) FileExtension() string {
	return "ts"
}

// RegisterDeclaration records decl under ctx
func (e *Emitter) RegisterDeclaration(decl *schema.Declaration, ctx schema.OutputContext) bool {
	return e.Register(decl, ctx)
}

// Flush renders everything registered under ctx and writes it to outputPath,
// replacing any previous content. Only contexts registered so far are
// imported from; references into any other context are inlined.
func (e *Emitter) Flush(outputPath string, ctx schema.OutputContext, opts emitter.Options) error {
	decls := e.Declarations(ctx)
	content := Render(ctx, decls, opts, e.Contexts()...)

	logger.Logger.Debugw("Writing context",
		logger.FieldContext, string(ctx),
		logger.FieldPath, outputPath,
		logger.FieldCount, len(decls),
		logger.FieldLanguage, e.Language())

	return emitter.WriteFile(outputPath, []byte(content))
}

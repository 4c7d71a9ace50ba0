package serialism

import (
	"github.com/voodooattack/serialism/frame"
	"github.com/voodooattack/serialism/value"
	"go.uber.org/zap"
)

// Options configures a Serialism instance.
type Options struct {
	Logger *zap.Logger
	// MaxDepth bounds container nesting on both encode and decode.
	// Zero means unlimited.
	MaxDepth int
	// Compression is used by SerializeFramed.
	Compression frame.Compression
	// Symbols interns decoded symbols. Nil uses the process-wide table
	// behind value.SymbolFor, whose entries are never released.
	Symbols *value.SymbolTable
}

// DefaultOptions returns default configuration.
func DefaultOptions() Options {
	return Options{
		Compression: frame.CompressionZstd,
	}
}

// Option modifies Options.
type Option func(*Options)

// WithLogger sets the logger. A nil logger falls back to wire.Logger,
// which discards output unless configured with wire.SetLogger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithMaxDepth limits container nesting.
func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		o.MaxDepth = depth
	}
}

// WithCompression sets the compression used by SerializeFramed.
func WithCompression(c frame.Compression) Option {
	return func(o *Options) {
		o.Compression = c
	}
}

// WithSymbolTable interns decoded symbols into t, so their lifetime is
// bounded by t rather than the process.
func WithSymbolTable(t *value.SymbolTable) Option {
	return func(o *Options) {
		o.Symbols = t
	}
}

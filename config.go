package jsondelta

import "log/slog"

const (
	// DefaultMaxArraySizeForLcs is the longest array aligned with the LCS
	// table; longer arrays are compared position by position.
	DefaultMaxArraySizeForLcs = 1000
	// DefaultMaxDepth bounds the nesting depth of documents accepted by Diff.
	DefaultMaxDepth = 10000
)

// Config holds the options read by Diff and DiffArrays. A Config is read-only
// for the duration of a call and may be shared between goroutines.
type Config struct {
	// IgnoreRemovals suppresses remove operations. Objects simply drop them;
	// an array that would need one is replaced as a whole instead.
	IgnoreRemovals bool
	// OptimizePatch collapses equal remove/add pairs inside arrays into moves.
	OptimizePatch bool
	// UseArrayDiffAlgorithm enables structural array diffing. When false every
	// changed array is replaced as a whole.
	UseArrayDiffAlgorithm bool
	// MaxArraySizeForLcs is the longest array aligned with the LCS table.
	MaxArraySizeForLcs int
	// UsePositionalArrayPatching selects the shape used for arrays that are
	// too long for the LCS table: per-index operations (true) or a single
	// replace of the whole array (false).
	UsePositionalArrayPatching bool
	// FormatOutput makes Format indent its output; it does not affect Diff.
	FormatOutput bool
	// MaxDepth bounds document nesting; zero means DefaultMaxDepth.
	MaxDepth int
	// Logger receives debug records about the strategy chosen for each
	// array. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used by New when no options are
// given.
func DefaultConfig() *Config {
	return &Config{
		UseArrayDiffAlgorithm:      true,
		MaxArraySizeForLcs:         DefaultMaxArraySizeForLcs,
		UsePositionalArrayPatching: true,
		FormatOutput:               true,
		MaxDepth:                   DefaultMaxDepth,
	}
}

// Option adjusts a Config built by NewConfig
type Option func(cfg *Config)

// NewConfig returns DefaultConfig with opts applied in order.
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithIgnoreRemovals sets Config.IgnoreRemovals.
func WithIgnoreRemovals(ignore bool) Option {
	return func(cfg *Config) { cfg.IgnoreRemovals = ignore }
}

// WithOptimizePatch enables the move pass over array edits.
func WithOptimizePatch(optimize bool) Option {
	return func(cfg *Config) { cfg.OptimizePatch = optimize }
}

// WithArrayDiffAlgorithm turns structural array diffing on or off. When off,
// every changed array is replaced as a whole.
func WithArrayDiffAlgorithm(enabled bool) Option {
	return func(cfg *Config) { cfg.UseArrayDiffAlgorithm = enabled }
}

// WithMaxArraySizeForLcs sets the longest array aligned with the LCS table.
func WithMaxArraySizeForLcs(n int) Option {
	return func(cfg *Config) { cfg.MaxArraySizeForLcs = n }
}

// WithPositionalArrayPatching selects per-index operations (true) or a whole
// replace (false) for arrays longer than MaxArraySizeForLcs.
func WithPositionalArrayPatching(positional bool) Option {
	return func(cfg *Config) { cfg.UsePositionalArrayPatching = positional }
}

// WithFormatOutput makes Format indent (true) or minify (false) its output.
func WithFormatOutput(indent bool) Option {
	return func(cfg *Config) { cfg.FormatOutput = indent }
}

// WithMaxDepth bounds the nesting depth accepted by Diff. Zero or less means
// DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(cfg *Config) { cfg.MaxDepth = depth }
}

// WithLogger routes debug records to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) { cfg.Logger = logger }
}

func (c *Config) maxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

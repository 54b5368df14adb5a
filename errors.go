package jsondelta

import "errors"

// Every error returned by Diff, DiffJSON, DiffArrays and New matches exactly
// one of these with errors.Is.
var (
	// ErrInvalidArgument reports a missing input, a missing configuration, a
	// value of the wrong kind where an array or object was required, or a tree
	// holding an unsupported Go value or nested deeper than Config.MaxDepth.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrParse reports raw input that is not valid JSON.
	ErrParse = errors.New("parse error")
	// ErrOperation reports an unexpected failure while comparing two valid
	// trees. The underlying cause stays reachable through errors.Is / errors.As.
	ErrOperation = errors.New("diff operation failed")
)

package jsondelta

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Op represents JSON Patch operation types
type Op string

const (
	Add     Op = "add"
	Remove  Op = "remove"
	Replace Op = "replace"
	Move    Op = "move"
	// Copy and Test are understood by Apply but never produced by Diff.
	Copy Op = "copy"
	Test Op = "test"
)

// Operation represents a single JSON Patch operation
type Operation struct {
	Op    Op     `json:"op"`
	Path  string `json:"path"`
	From  string `json:"from,omitempty"`
	Value any    `json:"value,omitempty"`
}

// wireOperation keeps a JSON null value on the wire for operations that carry
// one; a plain omitempty would drop it.
type wireOperation struct {
	Op    Op     `json:"op"`
	Path  string `json:"path"`
	From  string `json:"from,omitempty"`
	Value *any   `json:"value,omitempty"`
}

// MarshalJSON renders the operation in RFC 6902 shape.
func (o Operation) MarshalJSON() ([]byte, error) {
	w := wireOperation{Op: o.Op, Path: o.Path}
	switch o.Op {
	case Add, Replace, Test:
		v := o.Value
		w.Value = &v
	case Move, Copy:
		w.From = o.From
	}
	return json.Marshal(w)
}

// String renders the operation for logs and test failures, e.g. `move "/1" -> "/0"`.
func (o Operation) String() string {
	switch o.Op {
	case Remove:
		return fmt.Sprintf("%s %q", o.Op, o.Path)
	case Move, Copy:
		return fmt.Sprintf("%s %q -> %q", o.Op, o.From, o.Path)
	default:
		return fmt.Sprintf("%s %q %v", o.Op, o.Path, o.Value)
	}
}

// Patch represents a collection of JSON Patch operations
type Patch []Operation

// String renders every operation of p inside brackets.
func (p Patch) String() string {
	parts := make([]string, len(p))
	for i, op := range p {
		parts[i] = op.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func addOp(path string, value any) Operation {
	return Operation{Op: Add, Path: path, Value: value}
}

func removeOp(path string) Operation {
	return Operation{Op: Remove, Path: path}
}

func replaceOp(path string, value any) Operation {
	return Operation{Op: Replace, Path: path, Value: value}
}

func moveOp(from, path string) Operation {
	return Operation{Op: Move, From: from, Path: path}
}

package jsondelta

import (
	"fmt"
	"io"

	"github.com/agentflare-ai/jsonpointer"
	gojson "github.com/goccy/go-json"
	"github.com/mitchellh/copystructure"
)

// Apply applies a series of JSON Patch operations to a document, returning a new
// modified document. The original document is not changed.
func Apply(document any, patch Patch) (any, error) {
	result, err := copystructure.Copy(document)
	if err != nil {
		return nil, fmt.Errorf("failed to copy document: %w", err)
	}

	return ApplyInPlace(result, patch)
}

// ApplyInPlace applies a series of JSON Patch operations to a document in-place.
// WARNING: This function modifies the input document.
func ApplyInPlace(document any, patch Patch) (any, error) {
	for _, op := range patch {
		var err error
		switch op.Op {
		case Add:
			document, err = applyAdd(document, op.Path, op.Value)
		case Remove:
			document, err = applyRemove(document, op.Path)
		case Replace:
			document, err = applyReplace(document, op.Path, op.Value)
		case Move:
			document, err = applyMove(document, op.From, op.Path)
		case Copy:
			document, err = applyCopy(document, op.From, op.Path)
		case Test:
			err = applyTest(document, op.Path, op.Value)
		default:
			return nil, fmt.Errorf("unsupported patch operation: %s", op.Op)
		}

		if err != nil {
			return nil, fmt.Errorf("patch operation %s failed: %w", op.Op, err)
		}
	}

	return document, nil
}

// ApplyStream applies a series of JSON Patch operations from a reader to a writer.
// This is more memory-efficient for large documents than Apply, as it avoids
// marshalling the intermediate document to a byte slice.
func ApplyStream(reader io.Reader, writer io.Writer, patch Patch) error {
	var doc any
	decoder := gojson.NewDecoder(reader)
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	// the decoded document is private to this call
	modifiedDoc, err := ApplyInPlace(doc, patch)
	if err != nil {
		return err
	}

	encoder := gojson.NewEncoder(writer)
	return encoder.Encode(modifiedDoc)
}

// leafFunc edits the container holding the last reference token and returns
// the container to store in its parent (arrays may be reallocated). last holds
// exactly that token.
type leafFunc func(container any, last jsonpointer.Pointer) (any, error)

// edit walks document along p and runs leaf on the parent of the target.
func edit(document any, p jsonpointer.Pointer, leaf leafFunc) (any, error) {
	if len(p) == 1 {
		return leaf(document, p)
	}

	switch node := document.(type) {
	case map[string]any:
		key := string(p[0])
		child, ok := node[key]
		if !ok {
			return nil, fmt.Errorf("path segment %q not found", key)
		}
		updated, err := edit(child, p[1:], leaf)
		if err != nil {
			return nil, err
		}
		node[key] = updated
		return node, nil
	case []any:
		idx, err := arrayIndex(p, len(node))
		if err != nil {
			return nil, err
		}
		updated, err := edit(node[idx], p[1:], leaf)
		if err != nil {
			return nil, err
		}
		node[idx] = updated
		return node, nil
	default:
		return nil, fmt.Errorf("path segment %q addresses into a %T", string(p[0]), document)
	}
}

// arrayIndex parses the first token of p as the index of an existing element.
func arrayIndex(p jsonpointer.Pointer, length int) (int, error) {
	idx, err := jsonpointer.ParseArrayIndex(p[0])
	if err != nil {
		return 0, err
	}
	if idx >= uint64(length) {
		return 0, fmt.Errorf("array index %d is out of bounds for array of length %d", idx, length)
	}
	return int(idx), nil
}

// Helper functions for patch operations
func applyAdd(document any, path string, value any) (any, error) {
	p, err := jsonpointer.New(path)
	if err != nil {
		return nil, err
	}

	if len(p) == 0 {
		return value, nil
	}

	return edit(document, p, func(container any, last jsonpointer.Pointer) (any, error) {
		switch parent := container.(type) {
		case map[string]any:
			parent[string(last[0])] = value
			return parent, nil
		case []any:
			if last[0] == "-" {
				return append(parent, value), nil
			}
			idx, err := jsonpointer.ParseArrayIndex(last[0])
			if err != nil {
				return nil, err
			}
			if idx > uint64(len(parent)) {
				return nil, fmt.Errorf("add operation on array index %d is out of bounds for array of length %d", idx, len(parent))
			}
			newArr := make([]any, 0, len(parent)+1)
			newArr = append(newArr, parent[:idx]...)
			newArr = append(newArr, value)
			newArr = append(newArr, parent[idx:]...)
			return newArr, nil
		default:
			return nil, fmt.Errorf("parent of '%s' is a %T, not a container", path, container)
		}
	})
}

func applyRemove(document any, path string) (any, error) {
	p, err := jsonpointer.New(path)
	if err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("cannot remove the document root")
	}

	return edit(document, p, func(container any, last jsonpointer.Pointer) (any, error) {
		switch parent := container.(type) {
		case map[string]any:
			key := string(last[0])
			if _, ok := parent[key]; !ok {
				return nil, fmt.Errorf("member %q not found", key)
			}
			delete(parent, key)
			return parent, nil
		case []any:
			idx, err := arrayIndex(last, len(parent))
			if err != nil {
				return nil, err
			}
			newArr := make([]any, 0, len(parent)-1)
			newArr = append(newArr, parent[:idx]...)
			return append(newArr, parent[idx+1:]...), nil
		default:
			return nil, fmt.Errorf("parent of '%s' is a %T, not a container", path, container)
		}
	})
}

func applyReplace(document any, path string, value any) (any, error) {
	// To be compliant with RFC6902, "replace" is atomic: the target location
	// MUST exist.
	p, err := jsonpointer.New(path)
	if err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return value, nil
	}

	return edit(document, p, func(container any, last jsonpointer.Pointer) (any, error) {
		switch parent := container.(type) {
		case map[string]any:
			key := string(last[0])
			if _, ok := parent[key]; !ok {
				return nil, fmt.Errorf("member %q not found", key)
			}
			parent[key] = value
			return parent, nil
		case []any:
			idx, err := arrayIndex(last, len(parent))
			if err != nil {
				return nil, err
			}
			parent[idx] = value
			return parent, nil
		default:
			return nil, fmt.Errorf("parent of '%s' is a %T, not a container", path, container)
		}
	})
}

func applyMove(document any, from, to string) (any, error) {
	if from == to {
		return document, nil
	}
	val, err := get(document, from)
	if err != nil {
		return nil, err
	}

	doc, err := applyRemove(document, from)
	if err != nil {
		return nil, err
	}

	return applyAdd(doc, to, val)
}

func applyCopy(document any, from, to string) (any, error) {
	val, err := get(document, from)
	if err != nil {
		return nil, err
	}
	dup, err := copystructure.Copy(val)
	if err != nil {
		return nil, err
	}
	return applyAdd(document, to, dup)
}

func applyTest(document any, path string, expected any) error {
	actual, err := get(document, path)
	if err != nil {
		return err
	}

	if !Equal(actual, expected) {
		return fmt.Errorf("test failed: expected %v, got %v", expected, actual)
	}

	return nil
}

func get(document any, path string) (any, error) {
	if path == "" {
		return document, nil
	}
	return jsonpointer.Get(document, path)
}

package jsondelta

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	gojson "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// Diff computes the patch that turns original into updated. Both values must
// be decoded JSON trees (see KindOf). Applying the result to original, one
// operation after the other, yields a value Equal to updated.
func Diff(original, updated any, cfg *Config) (patch Patch, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: configuration is nil", ErrInvalidArgument)
	}

	defer func() {
		if r := recover(); r != nil {
			patch = nil
			if cause, ok := r.(error); ok {
				err = fmt.Errorf("%w: %w", ErrOperation, cause)
				return
			}
			err = fmt.Errorf("%w: %v", ErrOperation, r)
		}
	}()

	d := newDiffer(cfg)
	if err := d.validate("", original, 0); err != nil {
		return nil, fmt.Errorf("%w: original document: %w", ErrInvalidArgument, err)
	}
	if err := d.validate("", updated, 0); err != nil {
		return nil, fmt.Errorf("%w: updated document: %w", ErrInvalidArgument, err)
	}

	patch = d.diffAt(Patch{}, "", original, updated)
	return patch, nil
}

// DiffJSON parses two JSON documents and diffs them. Formatting and property
// order of the input text do not influence the result.
func DiffJSON(original, updated []byte, cfg *Config) (Patch, error) {
	a, err := parseDocument("original", original)
	if err != nil {
		return nil, err
	}
	b, err := parseDocument("updated", updated)
	if err != nil {
		return nil, err
	}
	return Diff(a, b, cfg)
}

// New diffs two documents using DefaultConfig adjusted by opts. Each document
// may be raw JSON ([]byte, json.RawMessage), a decoded tree, or any Go value
// that encodes to JSON.
func New(original, updated any, opts ...Option) (Patch, error) {
	a, err := normalize("original", original)
	if err != nil {
		return nil, err
	}
	b, err := normalize("updated", updated)
	if err != nil {
		return nil, err
	}
	return Diff(a, b, NewConfig(opts...))
}

func parseDocument(name string, data []byte) (any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s document is empty", ErrInvalidArgument, name)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s document is not valid JSON", ErrParse, name)
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

// fromResult builds the decoded tree for r. Numbers become float64 when that
// loses nothing and keep their literal as json.Number otherwise.
func fromResult(r gjson.Result) any {
	switch r.Type {
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return number(r.Raw)
	case gjson.String:
		return r.Str
	case gjson.JSON:
		if r.IsArray() {
			arr := []any{}
			r.ForEach(func(_, v gjson.Result) bool {
				arr = append(arr, fromResult(v))
				return true
			})
			return arr
		}
		obj := map[string]any{}
		r.ForEach(func(k, v gjson.Result) bool {
			obj[k.Str] = fromResult(v)
			return true
		})
		return obj
	}
	return nil
}

// maxExactInt is the largest magnitude up to which float64 holds every integer.
const maxExactInt = 1 << 53

func number(raw string) any {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if i >= -maxExactInt && i <= maxExactInt {
			return float64(i)
		}
		return json.Number(raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err == nil && strconv.FormatFloat(f, 'g', -1, 64) == raw {
		return f
	}
	return json.Number(raw)
}

func normalize(name string, v any) (any, error) {
	switch x := v.(type) {
	case []byte:
		return parseDocument(name, x)
	case json.RawMessage:
		return parseDocument(name, x)
	}
	if _, err := KindOf(v); err == nil {
		return v, nil
	}

	data, err := gojson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s document cannot be encoded as JSON: %w", ErrInvalidArgument, name, err)
	}
	return parseDocument(name, data)
}

type differ struct {
	cfg *Config
	log *slog.Logger
}

func newDiffer(cfg *Config) *differ {
	return &differ{cfg: cfg, log: cfg.logger()}
}

// validate checks that every node of v has a supported kind and that the tree
// is not nested deeper than the configured limit.
func (d *differ) validate(path string, v any, depth int) error {
	if depth > d.cfg.maxDepth() {
		return fmt.Errorf("nesting depth exceeds %d at %q", d.cfg.maxDepth(), path)
	}
	kind, err := KindOf(v)
	if err != nil {
		return fmt.Errorf("at %q: %w", path, err)
	}
	switch kind {
	case KindArray:
		for i, e := range v.([]any) {
			if err := d.validate(AppendIndex(path, i), e, depth+1); err != nil {
				return err
			}
		}
	case KindObject:
		for k, e := range v.(map[string]any) {
			if err := d.validate(AppendKey(path, k), e, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// diffAt appends to ops the operations that turn a into b at path.
func (d *differ) diffAt(ops Patch, path string, a, b any) Patch {
	ka, _ := KindOf(a)
	kb, _ := KindOf(b)

	switch {
	case ka == KindObject && kb == KindObject:
		return d.diffObjects(ops, path, a.(map[string]any), b.(map[string]any))
	case ka == KindArray && kb == KindArray:
		return d.diffArrays(ops, path, a.([]any), b.([]any))
	}

	if !Equal(a, b) {
		ops = append(ops, replaceOp(path, b))
	}
	return ops
}

func (d *differ) diffObjects(ops Patch, path string, a, b map[string]any) Patch {
	for _, k := range sortedKeys(b) {
		if _, ok := a[k]; !ok {
			ops = append(ops, addOp(AppendKey(path, k), b[k]))
		}
	}

	if !d.cfg.IgnoreRemovals {
		for _, k := range sortedKeys(a) {
			if _, ok := b[k]; !ok {
				ops = append(ops, removeOp(AppendKey(path, k)))
			}
		}
	}

	for _, k := range sortedKeys(a) {
		if bv, ok := b[k]; ok {
			ops = d.diffAt(ops, AppendKey(path, k), a[k], bv)
		}
	}
	return ops
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package jsondelta_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/agentflare-ai/jsondelta"
)

var optionSets = map[string][]jsondelta.Option{
	"defaults":   nil,
	"optimize":   {jsondelta.WithOptimizePatch(true)},
	"positional": {jsondelta.WithMaxArraySizeForLcs(1)},
	"whole":      {jsondelta.WithArrayDiffAlgorithm(false)},
	"fast whole": {jsondelta.WithMaxArraySizeForLcs(1), jsondelta.WithPositionalArrayPatching(false)},
}

func TestNew_ObjectBasic(t *testing.T) {
	a := map[string]any{"a": 1.0, "b": map[string]any{"x": 10.0}}
	b := map[string]any{"a": 2.0, "b": map[string]any{"x": 10.0, "y": 20.0}}

	p, err := jsondelta.New(a, b)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	want := jsondelta.Patch{
		{Op: jsondelta.Replace, Path: "/a", Value: 2.0},
		{Op: jsondelta.Add, Path: "/b/y", Value: 20.0},
	}
	if !reflect.DeepEqual(p, want) {
		t.Fatalf("New() = %v, want %v", p, want)
	}
}

func TestNew_ArrayInsertRemoveMove(t *testing.T) {
	cases := []struct {
		name string
		a, b any
	}{
		{
			name: "insert middle",
			a:    map[string]any{"arr": []any{"bar", "baz"}},
			b:    map[string]any{"arr": []any{"bar", "qux", "baz"}},
		},
		{
			name: "remove middle",
			a:    map[string]any{"arr": []any{"bar", "qux", "baz"}},
			b:    map[string]any{"arr": []any{"bar", "baz"}},
		},
		{
			name: "simple move",
			a:    map[string]any{"arr": []any{"a", "b", "c", "d"}},
			b:    map[string]any{"arr": []any{"a", "c", "b", "d"}},
		},
		{
			name: "duplicates",
			a:    map[string]any{"arr": []any{"a", "b", "a"}},
			b:    map[string]any{"arr": []any{"a", "a", "b"}},
		},
		{
			name: "reverse",
			a:    []any{1.0, 2.0, 3.0, 4.0, 5.0},
			b:    []any{5.0, 4.0, 3.0, 2.0, 1.0},
		},
		{
			name: "objects inside arrays",
			a:    []any{map[string]any{"id": 1.0}, map[string]any{"id": 2.0}},
			b:    []any{map[string]any{"id": 2.0}, map[string]any{"id": 1.0, "x": true}},
		},
	}
	for _, c := range cases {
		for setName, opts := range optionSets {
			t.Run(c.name+"/"+setName, func(t *testing.T) {
				p, err := jsondelta.New(c.a, c.b, opts...)
				if err != nil {
					t.Fatalf("New() error: %v", err)
				}
				out, err := jsondelta.Apply(c.a, p)
				if err != nil {
					t.Fatalf("Apply() error: %v\npatch=%v", err, p)
				}
				if !reflect.DeepEqual(out, c.b) {
					ob, _ := json.Marshal(out)
					bb, _ := json.Marshal(c.b)
					t.Fatalf("Apply(New(a,b)) mismatch\nout=%s\nb  =%s\npatch=%v", ob, bb, p)
				}
			})
		}
	}
}

func TestNew_MixedInputs(t *testing.T) {
	aJSON := []byte(`{"a":1,"arr":["x","y"]}`)
	bMap := map[string]any{"a": 1.0, "arr": []any{"x", "y", "z"}}

	p, err := jsondelta.New(aJSON, bMap)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	want := jsondelta.Patch{{Op: jsondelta.Add, Path: "/arr/2", Value: "z"}}
	if !reflect.DeepEqual(p, want) {
		t.Fatalf("New() = %v, want %v", p, want)
	}
}

func TestNew_NumericNormalization(t *testing.T) {
	type S struct {
		N int `json:"n"`
	}

	p, err := jsondelta.New(S{N: 1}, map[string]any{"n": 1.0})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if len(p) != 0 {
		t.Fatalf("expected empty patch, got %v", p)
	}
}

func TestNew_RootReplace_TypeChange(t *testing.T) {
	a := map[string]any{"x": 1.0}
	b := []any{1.0, 2.0}

	p, err := jsondelta.New(a, b)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	want := jsondelta.Patch{{Op: jsondelta.Replace, Path: "", Value: b}}
	if !reflect.DeepEqual(p, want) {
		t.Fatalf("New() = %v, want %v", p, want)
	}
}

func TestNew_NoOpWhenEqual(t *testing.T) {
	a := map[string]any{"a": 1.0, "b": []any{1.0, 2.0}}
	for setName, opts := range optionSets {
		p, err := jsondelta.New(a, a, opts...)
		if err != nil {
			t.Fatalf("%s: New() error: %v", setName, err)
		}
		if len(p) != 0 {
			t.Fatalf("%s: expected empty patch when inputs equal, got %v", setName, p)
		}
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := jsondelta.New([]byte(`{"a":`), []byte(`{}`)); !errors.Is(err, jsondelta.ErrParse) {
		t.Errorf("truncated JSON: got %v, want ErrParse", err)
	}
	if _, err := jsondelta.New([]byte{}, []byte(`{}`)); !errors.Is(err, jsondelta.ErrInvalidArgument) {
		t.Errorf("empty JSON: got %v, want ErrInvalidArgument", err)
	}
	if _, err := jsondelta.New(make(chan int), map[string]any{}); !errors.Is(err, jsondelta.ErrInvalidArgument) {
		t.Errorf("unencodable value: got %v, want ErrInvalidArgument", err)
	}
}

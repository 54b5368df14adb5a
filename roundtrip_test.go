package jsondelta_test

import (
	"encoding/json"
	"math/rand"
	"sort"
	"testing"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/jsondelta"
)

// docGen builds random documents from a small value domain so that
// duplicates, reorderings and shared subtrees are common.
type docGen struct {
	r      *rand.Rand
	noNull bool
}

var genKeys = []string{"a", "b", "c", "d/e", "f~g", "h"}

func (g docGen) value(depth int) any {
	n := g.r.Intn(10)
	if depth >= 3 {
		n = g.r.Intn(4)
	}
	switch {
	case n == 0:
		if g.noNull {
			return "n"
		}
		return nil
	case n == 1:
		return g.r.Intn(2) == 0
	case n == 2:
		return float64(g.r.Intn(4))
	case n == 3:
		return []string{"x", "y", "z"}[g.r.Intn(3)]
	case n < 7:
		return g.array(depth + 1)
	default:
		return g.object(depth + 1)
	}
}

func (g docGen) array(depth int) []any {
	out := make([]any, g.r.Intn(7))
	for i := range out {
		out[i] = g.value(depth)
	}
	return out
}

func (g docGen) object(depth int) map[string]any {
	out := map[string]any{}
	for n := g.r.Intn(5); n > 0; n-- {
		out[genKeys[g.r.Intn(len(genKeys))]] = g.value(depth)
	}
	return out
}

// mutate returns a changed copy of v; unchanged subtrees are shared.
func (g docGen) mutate(v any, depth int) any {
	switch x := v.(type) {
	case []any:
		out := append([]any(nil), x...)
		for n := g.r.Intn(4); n > 0; n-- {
			switch g.r.Intn(4) {
			case 0:
				if len(out) > 0 {
					i := g.r.Intn(len(out))
					out = append(out[:i:i], out[i+1:]...)
				}
			case 1:
				i := g.r.Intn(len(out) + 1)
				out = append(out[:i:i], append([]any{g.value(depth)}, out[i:]...)...)
			case 2:
				g.r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
			case 3:
				if len(out) > 0 {
					i := g.r.Intn(len(out))
					out[i] = g.mutate(out[i], depth+1)
				}
			}
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := make(map[string]any, len(x))
		for _, k := range keys {
			switch g.r.Intn(5) {
			case 0:
			case 1:
				out[k] = g.mutate(x[k], depth+1)
			default:
				out[k] = x[k]
			}
		}
		if g.r.Intn(2) == 0 {
			out[genKeys[g.r.Intn(len(genKeys))]] = g.value(depth)
		}
		return out
	}
	if g.r.Intn(2) == 0 {
		return g.value(depth)
	}
	return v
}

func (g docGen) pair() (map[string]any, map[string]any) {
	a := g.object(0)
	a["list"] = g.array(1)
	return a, g.mutate(a, 0).(map[string]any)
}

func TestRoundTripRandomDocuments(t *testing.T) {
	for setName, opts := range optionSets {
		t.Run(setName, func(t *testing.T) {
			g := docGen{r: rand.New(rand.NewSource(42))}
			cfg := jsondelta.NewConfig(opts...)
			for n := 0; n < 300; n++ {
				a, b := g.pair()
				patch, err := jsondelta.Diff(a, b, cfg)
				require.NoError(t, err)

				out, err := jsondelta.Apply(a, patch)
				require.NoError(t, err, "patch=%v", patch)
				require.True(t, jsondelta.Equal(out, b), "iteration %d\na=%v\nb=%v\npatch=%v\nout=%v", n, a, b, patch, out)
			}
		})
	}
}

func TestRoundTripWithIndependentPatcher(t *testing.T) {
	for _, setName := range []string{"defaults", "optimize", "positional"} {
		t.Run(setName, func(t *testing.T) {
			g := docGen{r: rand.New(rand.NewSource(7)), noNull: true}
			cfg := jsondelta.NewConfig(append(optionSets[setName], jsondelta.WithFormatOutput(false))...)
			for n := 0; n < 200; n++ {
				a, b := g.pair()
				patch, err := jsondelta.Diff(a, b, cfg)
				require.NoError(t, err)

				doc, err := json.Marshal(a)
				require.NoError(t, err)
				encoded, err := jsondelta.Format(patch, cfg)
				require.NoError(t, err)

				decoded, err := jsonpatch.DecodePatch(encoded)
				require.NoError(t, err)
				applied, err := decoded.Apply(doc)
				require.NoError(t, err, "patch=%s", encoded)

				var out any
				require.NoError(t, json.Unmarshal(applied, &out))
				require.True(t, jsondelta.Equal(out, b), "iteration %d\ndoc=%s\npatch=%s\nout=%s", n, doc, encoded, applied)
			}
		})
	}
}

func TestIgnoreRemovalsNeverRemoves(t *testing.T) {
	g := docGen{r: rand.New(rand.NewSource(3))}
	for _, opts := range optionSets {
		cfg := jsondelta.NewConfig(append(opts, jsondelta.WithIgnoreRemovals(true))...)
		for n := 0; n < 200; n++ {
			a, b := g.pair()
			patch, err := jsondelta.Diff(a, b, cfg)
			require.NoError(t, err)
			require.Zero(t, patch.Stats().Removes, "patch=%v", patch)

			// whatever is applied still lands on a valid document
			_, err = jsondelta.Apply(a, patch)
			require.NoError(t, err, "patch=%v", patch)
		}
	}
}

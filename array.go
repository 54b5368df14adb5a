package jsondelta

import "fmt"

// DiffArrays returns the operations that turn the array original into the
// array updated, with every path rooted at path. Both values must be arrays.
func DiffArrays(path string, original, updated any, cfg *Config) (Patch, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: configuration is nil", ErrInvalidArgument)
	}
	a, ok := original.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: original value at %q is not an array", ErrInvalidArgument, path)
	}
	b, ok := updated.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: updated value at %q is not an array", ErrInvalidArgument, path)
	}
	return newDiffer(cfg).diffArrays(nil, path, a, b), nil
}

// diffArrays appends the operations for one array pair to ops.
func (d *differ) diffArrays(ops Patch, path string, a, b []any) Patch {
	if len(a) == 0 && len(b) == 0 {
		return ops
	}

	if !d.cfg.UseArrayDiffAlgorithm {
		d.log.Debug("array diff disabled, replacing array", "path", path)
		return d.replaceArray(ops, path, a, b)
	}

	var out Patch
	if len(a) > d.cfg.MaxArraySizeForLcs || len(b) > d.cfg.MaxArraySizeForLcs {
		if !d.cfg.UsePositionalArrayPatching {
			d.log.Debug("array too large for lcs, replacing array",
				"path", path, "original", len(a), "updated", len(b), "max", d.cfg.MaxArraySizeForLcs)
			return d.replaceArray(ops, path, a, b)
		}
		d.log.Debug("array too large for lcs, positional compare",
			"path", path, "original", len(a), "updated", len(b), "max", d.cfg.MaxArraySizeForLcs)
		out = positionalEdits(path, a, b)
	} else {
		removes, adds, kept := lcsEdits(a, b)
		if d.cfg.OptimizePatch {
			out = movedEdits(path, a, b, removes, adds, kept)
		} else {
			out = alignedEdits(path, b, removes, adds)
		}
	}

	if d.cfg.IgnoreRemovals && containsOp(out, Remove) {
		d.log.Debug("array shrinks while removals are ignored, replacing array", "path", path)
		return d.replaceArray(ops, path, a, b)
	}
	return append(ops, out...)
}

func (d *differ) replaceArray(ops Patch, path string, a, b []any) Patch {
	if Equal(a, b) {
		return ops
	}
	return append(ops, replaceOp(path, b))
}

// positionalEdits compares the arrays index by index. Extra elements of b are
// appended in order; extra elements of a are removed from the end.
func positionalEdits(path string, a, b []any) Patch {
	var ops Patch
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if !Equal(a[i], b[i]) {
			ops = append(ops, replaceOp(AppendIndex(path, i), b[i]))
		}
	}
	for i := n; i < len(b); i++ {
		ops = append(ops, addOp(AppendIndex(path, i), b[i]))
	}
	for i := len(a) - 1; i >= n; i-- {
		ops = append(ops, removeOp(AppendIndex(path, i)))
	}
	return ops
}

// lcsEdits aligns a and b along a longest common subsequence. It returns the
// indices of a that are not part of it (descending), the indices of b that
// are not part of it (ascending), and for every index of b the index of a it
// was matched with, or -1.
//
// The table holds the LCS length of every pair of suffixes, so the alignment
// is read front to back. On a tie the element of b is taken as an insertion
// before the element of a is taken as a deletion.
func lcsEdits(a, b []any) (removes, adds, kept []int) {
	kept = make([]int, len(b))
	for j := range kept {
		kept[j] = -1
	}

	// a common prefix aligns the same way with or without the table
	prefix := 0
	for prefix < len(a) && prefix < len(b) && Equal(a[prefix], b[prefix]) {
		kept[prefix] = prefix
		prefix++
	}
	ra, rb := a[prefix:], b[prefix:]
	n, m := len(ra), len(rb)

	width := m + 1
	table := make([]int, (n+1)*width)
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if Equal(ra[i], rb[j]) {
				table[i*width+j] = table[(i+1)*width+j+1] + 1
			} else {
				table[i*width+j] = max(table[(i+1)*width+j], table[i*width+j+1])
			}
		}
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case Equal(ra[i], rb[j]):
			kept[prefix+j] = prefix + i
			i++
			j++
		case table[i*width+j+1] >= table[(i+1)*width+j]:
			adds = append(adds, prefix+j)
			j++
		default:
			removes = append(removes, prefix+i)
			i++
		}
	}
	for ; j < m; j++ {
		adds = append(adds, prefix+j)
	}
	for ; i < n; i++ {
		removes = append(removes, prefix+i)
	}

	// removals are applied from the highest index down so that earlier
	// indices stay valid
	for l, r := 0, len(removes)-1; l < r; l, r = l+1, r-1 {
		removes[l], removes[r] = removes[r], removes[l]
	}
	return removes, adds, kept
}

// alignedEdits renders an LCS alignment as removes followed by adds.
func alignedEdits(path string, b []any, removes, adds []int) Patch {
	ops := make(Patch, 0, len(removes)+len(adds))
	for _, i := range removes {
		ops = append(ops, removeOp(AppendIndex(path, i)))
	}
	for _, j := range adds {
		ops = append(ops, addOp(AppendIndex(path, j), b[j]))
	}
	return ops
}

// movedEdits renders an LCS alignment like alignedEdits, but first pairs every
// removed element with the first unconsumed added element of equal value and
// turns each pair into a single move.
//
// Moving an element shifts the elements around it, so the indices of the
// rewritten sequence are taken from a simulation of the array as each
// operation is applied rather than from the alignment itself.
func movedEdits(path string, a, b []any, removes, adds, kept []int) Patch {
	movedFrom := make(map[int]int) // index in b -> index in a
	paired := make(map[int]bool)   // index in a
	consumed := make([]bool, len(adds))
	for _, i := range removes {
		for k, j := range adds {
			if !consumed[k] && Equal(a[i], b[j]) {
				consumed[k] = true
				movedFrom[j] = i
				paired[i] = true
				break
			}
		}
	}

	// ids below len(a) are original elements, len(a)+j is the element
	// inserted at index j of b
	state := make([]int, len(a))
	for i := range state {
		state[i] = i
	}
	finalID := func(j int) int {
		if kept[j] >= 0 {
			return kept[j]
		}
		if i, ok := movedFrom[j]; ok {
			return i
		}
		return len(a) + j
	}
	// insertion point for the element that belongs at index j of b: right
	// behind the element that precedes it there
	insertAt := func(j int) int {
		if j == 0 {
			return 0
		}
		return indexOf(state, finalID(j-1)) + 1
	}

	var ops Patch
	for _, i := range removes {
		if paired[i] {
			continue
		}
		at := indexOf(state, i)
		state = deleteAt(state, at)
		ops = append(ops, removeOp(AppendIndex(path, at)))
	}

	for j := range b {
		if kept[j] >= 0 {
			continue
		}
		if i, ok := movedFrom[j]; ok {
			from := indexOf(state, i)
			state = deleteAt(state, from)
			to := insertAt(j)
			state = insertAtIndex(state, to, i)
			if from != to {
				ops = append(ops, moveOp(AppendIndex(path, from), AppendIndex(path, to)))
			}
			continue
		}
		to := insertAt(j)
		state = insertAtIndex(state, to, len(a)+j)
		ops = append(ops, addOp(AppendIndex(path, to), b[j]))
	}
	return ops
}

func indexOf(state []int, id int) int {
	for k, v := range state {
		if v == id {
			return k
		}
	}
	return -1
}

func deleteAt(s []int, i int) []int {
	return append(s[:i], s[i+1:]...)
}

func insertAtIndex(s []int, i, v int) []int {
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func containsOp(ops Patch, op Op) bool {
	for _, o := range ops {
		if o.Op == op {
			return true
		}
	}
	return false
}

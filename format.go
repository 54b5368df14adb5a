package jsondelta

import (
	"bytes"
	"fmt"

	gojson "github.com/goccy/go-json"
	"github.com/tidwall/pretty"
)

// Format renders patch as a JSON document. With cfg.FormatOutput the output
// is indented, otherwise it is minified. A nil cfg is rejected.
func Format(patch Patch, cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: configuration is nil", ErrInvalidArgument)
	}
	if patch == nil {
		patch = Patch{}
	}

	data, err := gojson.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patch: %w", err)
	}
	if cfg.FormatOutput {
		return pretty.PrettyOptions(data, &pretty.Options{Width: 80, Indent: "  "}), nil
	}
	return pretty.Ugly(data), nil
}

// Stats counts the operations of a patch by kind
type Stats struct {
	Adds     int `json:"adds,omitempty"`
	Removes  int `json:"removes,omitempty"`
	Replaces int `json:"replaces,omitempty"`
	Moves    int `json:"moves,omitempty"`
	Copies   int `json:"copies,omitempty"`
	Tests    int `json:"tests,omitempty"`
}

// Stats returns the number of operations of each kind in p.
func (p Patch) Stats() Stats {
	var s Stats
	for _, op := range p {
		switch op.Op {
		case Add:
			s.Adds++
		case Remove:
			s.Removes++
		case Replace:
			s.Replaces++
		case Move:
			s.Moves++
		case Copy:
			s.Copies++
		case Test:
			s.Tests++
		}
	}
	return s
}

// Total returns the number of counted operations.
func (s Stats) Total() int {
	return s.Adds + s.Removes + s.Replaces + s.Moves + s.Copies + s.Tests
}

// String prints a one-line summary, e.g. "3 operations: 1 add. 1 remove. 1 replace."
func (s Stats) String() string {
	if s.Total() == 0 {
		return "no operations."
	}
	buf := &bytes.Buffer{}
	buf.WriteString(fmt.Sprintf("%d %s:", s.Total(), plural(s.Total(), "operation")))
	for _, c := range []struct {
		n    int
		word string
	}{
		{s.Adds, "add"},
		{s.Removes, "remove"},
		{s.Replaces, "replace"},
		{s.Moves, "move"},
		{s.Copies, "copy"},
		{s.Tests, "test"},
	} {
		if c.n > 0 {
			buf.WriteString(fmt.Sprintf(" %d %s.", c.n, plural(c.n, c.word)))
		}
	}
	return buf.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	if word == "copy" {
		return "copies"
	}
	return word + "s"
}

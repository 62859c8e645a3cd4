package snapshot

import (
	"fmt"

	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/graph"
)

// Validate reports malformed entries. Relations naming tags that are not in
// the file are allowed; the graph builder drops them.
func (f *File) Validate() error {
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	seen := make(map[string]bool, len(f.Tags))
	for i, t := range f.Tags {
		switch {
		case t.ID == "":
			add("tags[%d]: empty id", i)
		case seen[t.ID]:
			add("tags[%d]: duplicate id %q", i, t.ID)
		}
		seen[t.ID] = true
	}

	for i, r := range f.Relations {
		if r.FromTagID == "" || r.ToTagID == "" {
			add("relations[%d]: empty endpoint", i)
		}
		if r.Strength < 0 || r.Strength > 1 {
			add("relations[%d]: strength %g outside [0, 1]", i, r.Strength)
		}
		if !r.RelationType.Valid() {
			add("relations[%d]: unknown relation type %q", i, r.RelationType)
		}
	}

	if f.Filter != nil {
		if err := f.Filter.Validate(); err != nil {
			add("filter: %v", err)
		}
	}

	if len(problems) == 0 {
		return nil
	}

	err := errors.NewInvalidSnapshotError("%d malformed entries, first: %s", len(problems), problems[0])
	for _, p := range problems {
		err = errors.WithDetail(err, p)
	}
	return errors.WithHintf(err, "relation types are %v; strengths are between 0 and 1", graph.RelationTypes())
}

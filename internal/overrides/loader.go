package overrides

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a dictionary file. JSON is accepted since it is valid YAML.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides file %s: %w", path, err)
	}
	t, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse overrides file %s: %w", path, err)
	}
	return t, nil
}

// Decode parses either a mapping of source to target or a list of
// {source, target} objects.
func Decode(data []byte) (*Table, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	t := New()
	if len(node.Content) == 0 {
		return t, nil
	}
	root := node.Content[0]
	switch root.Kind {
	case yaml.MappingNode:
		var m map[string]string
		if err := root.Decode(&m); err != nil {
			return nil, err
		}
		for src, tgt := range m {
			t.Add(src, tgt)
		}
	case yaml.SequenceNode:
		var list []Entry
		if err := root.Decode(&list); err != nil {
			return nil, err
		}
		for i, e := range list {
			if e.Source == "" {
				return nil, fmt.Errorf("entry %d: missing source field", i)
			}
			if e.Target == "" {
				return nil, fmt.Errorf("entry %d: missing target field", i)
			}
			t.Add(e.Source, e.Target)
		}
	default:
		return nil, fmt.Errorf("expected a mapping or a list of entries")
	}
	return t, nil
}

// Entries returns the table contents sorted by source.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, t.Len())
	if t == nil {
		return out
	}
	for _, e := range t.entries {
		out = append(out, e)
	}
	sortEntries(out)
	return out
}

// Encode renders the table as a YAML list, the format LoadFile reads back.
func (t *Table) Encode() ([]byte, error) {
	return yaml.Marshal(t.Entries())
}

func sortEntries(es []Entry) {
	sort.Slice(es, func(i, j int) bool { return es[i].Source < es[j].Source })
}

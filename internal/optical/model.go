package optical

import (
	"encoding/json"
	"sort"
)

// Model is the assembled time-series hierarchy for one collection run, plus
// two registries derived from the same ingestion: the set of lab names and
// the per-lab node-name sets. Labs appear in arrival order and are never
// deleted within a run; consumers treat the whole structure as immutable
// once the run completes.
type Model struct {
	Labs []*Lab

	names map[string]struct{}
	nodes map[string]map[string]struct{}
}

// NewModel returns an empty model ready to merge records into.
func NewModel() *Model {
	return &Model{
		names: make(map[string]struct{}),
		nodes: make(map[string]map[string]struct{}),
	}
}

// Merge folds one file's records into the model. Labs are deduplicated by
// name; each record becomes one appended Snapshot, even when the same
// (timestamp, lab) pair was seen before. Safe to call repeatedly across many
// files: previously merged snapshots are never touched.
//
// Callers parse a file completely before merging, so a file's entries land
// in the model as a whole or not at all.
func (m *Model) Merge(records []Record) {
	for _, rec := range records {
		lab := m.findOrCreate(rec.Lab)
		lab.Snapshots = append(lab.Snapshots, Snapshot{Time: rec.Time, Nodes: rec.Nodes})

		reg := m.nodes[rec.Lab]
		if reg == nil {
			reg = make(map[string]struct{})
			m.nodes[rec.Lab] = reg
		}
		for _, n := range rec.Nodes {
			reg[n.Name] = struct{}{}
		}
	}
}

// findOrCreate looks the lab up by name, creating it on first sight.
// Lab counts are small, so a linear scan over the arrival-ordered slice
// is the index.
func (m *Model) findOrCreate(name string) *Lab {
	for _, l := range m.Labs {
		if l.Name == name {
			return l
		}
	}
	l := &Lab{Name: name}
	m.Labs = append(m.Labs, l)
	m.names[name] = struct{}{}
	return l
}

// Lab returns the lab with the given name, or nil.
func (m *Model) Lab(name string) *Lab {
	for _, l := range m.Labs {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// HasLab reports whether a lab with the given name has been merged.
func (m *Model) HasLab(name string) bool {
	_, ok := m.names[name]
	return ok
}

// LabNames returns the lab names in arrival order.
func (m *Model) LabNames() []string {
	out := make([]string, len(m.Labs))
	for i, l := range m.Labs {
		out[i] = l.Name
	}
	return out
}

// NodeNames returns the deduplicated node names registered for a lab,
// sorted for stable presentation. Insertion order is not significant for
// the registry.
func (m *Model) NodeNames(lab string) []string {
	reg := m.nodes[lab]
	if len(reg) == 0 {
		return nil
	}
	out := make([]string, 0, len(reg))
	for name := range reg {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// TotalSnapshots counts snapshots across all labs.
func (m *Model) TotalSnapshots() int {
	n := 0
	for _, l := range m.Labs {
		n += len(l.Snapshots)
	}
	return n
}

// TotalReadings counts node readings across all snapshots.
func (m *Model) TotalReadings() int {
	n := 0
	for _, l := range m.Labs {
		for _, s := range l.Snapshots {
			n += len(s.Nodes)
		}
	}
	return n
}

// modelJSON is the serialized form of a Model: the lab hierarchy plus the
// two derived registries, so downstream consumers get all three views.
type modelJSON struct {
	Labs      []*Lab              `json:"labs"`
	LabNames  []string            `json:"lab_names"`
	NodeNames map[string][]string `json:"node_names"`
}

// MarshalJSON serializes the model with its derived registries.
func (m *Model) MarshalJSON() ([]byte, error) {
	doc := modelJSON{
		Labs:      m.Labs,
		LabNames:  m.LabNames(),
		NodeNames: make(map[string][]string, len(m.Labs)),
	}
	if doc.Labs == nil {
		doc.Labs = []*Lab{}
	}
	for _, l := range m.Labs {
		doc.NodeNames[l.Name] = m.NodeNames(l.Name)
	}
	return json.Marshal(doc)
}

// UnmarshalJSON restores a model from its serialized form. The registries
// are rebuilt from the lab hierarchy so they can never disagree with it.
func (m *Model) UnmarshalJSON(data []byte) error {
	var doc modelJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	m.Labs = nil
	m.names = make(map[string]struct{})
	m.nodes = make(map[string]map[string]struct{})

	for _, l := range doc.Labs {
		m.Labs = append(m.Labs, l)
		m.names[l.Name] = struct{}{}
		reg := make(map[string]struct{})
		for _, s := range l.Snapshots {
			for _, n := range s.Nodes {
				reg[n.Name] = struct{}{}
			}
		}
		m.nodes[l.Name] = reg
	}
	return nil
}

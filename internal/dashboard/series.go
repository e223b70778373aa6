// Package dashboard renders the collected model as an interactive terminal
// view: one lab and one metric at a time, a sparkline per node.
package dashboard

import (
	"github.com/jal555/optiqa/internal/optical"
)

// Series is one node's values for the selected metric, in the order the
// snapshots were merged.
type Series struct {
	Node   string
	Values []float64
}

// labSeries extracts the per-node series for one metric across a lab's
// snapshots. Missing values are dropped from the series rather than plotted;
// a sparkline has no way to show a hole. Nodes come back in registry order
// and a node with no numeric values still appears, with an empty series.
func labSeries(m *optical.Model, labName, metric string) []Series {
	lab := m.Lab(labName)
	if lab == nil {
		return nil
	}

	byNode := make(map[string][]float64)
	for _, snap := range lab.Snapshots {
		for _, node := range snap.Nodes {
			v := node.Measurements.Instantaneous.Metric(metric)
			if v.Missing() {
				continue
			}
			byNode[node.Name] = append(byNode[node.Name], float64(v))
		}
	}

	nodes := m.NodeNames(labName)
	series := make([]Series, 0, len(nodes))
	for _, name := range nodes {
		series = append(series, Series{Node: name, Values: byNode[name]})
	}
	return series
}

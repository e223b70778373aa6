// Package analyze fits a linear model relating the instantaneous optical
// metrics to signal quality (qfactor), so a lab operator can see which
// measurements actually track quality on their links.
package analyze

import (
	"github.com/jal555/optiqa/internal/optical"
)

// FeatureNames are the candidate predictors, every instantaneous metric
// except the qfactor target.
var FeatureNames = []string{
	optical.MetricPower,
	optical.MetricBER,
	optical.MetricSNR,
	optical.MetricDGD,
	optical.MetricChromaticDispersion,
	optical.MetricCarrierOffset,
}

// Dataset is the model flattened into regression form: one row per node
// reading, feature columns aligned with FeatureNames, qfactor as the target.
type Dataset struct {
	Rows   [][]float64
	Target []float64
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Rows) }

// Column returns one feature column as a slice.
func (d *Dataset) Column(i int) []float64 {
	col := make([]float64, len(d.Rows))
	for r, row := range d.Rows {
		col[r] = row[i]
	}
	return col
}

// Flatten walks every lab, snapshot, and node reading in the model and
// produces the regression dataset. Readings where any instantaneous metric
// is missing are dropped whole: a partial row would skew the fit more than
// its absence does.
func Flatten(m *optical.Model) *Dataset {
	ds := &Dataset{}
	for _, lab := range m.Labs {
		for _, snap := range lab.Snapshots {
			for _, node := range snap.Nodes {
				inst := node.Measurements.Instantaneous
				q := inst.Metric(optical.MetricQFactor)
				if q.Missing() {
					continue
				}
				row := make([]float64, len(FeatureNames))
				complete := true
				for i, name := range FeatureNames {
					v := inst.Metric(name)
					if v.Missing() {
						complete = false
						break
					}
					row[i] = float64(v)
				}
				if !complete {
					continue
				}
				ds.Rows = append(ds.Rows, row)
				ds.Target = append(ds.Target, float64(q))
			}
		}
	}
	return ds
}

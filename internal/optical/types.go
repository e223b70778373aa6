// Package optical holds the optical signal quality data model and the
// snapshot-file parser. The hierarchy is a pure owning tree: a Lab owns its
// Snapshots, a Snapshot owns its NodeReadings, and a NodeReading owns its
// Measurements.
package optical

import (
	"encoding/json"
	"math"
	"time"
)

// Metric names as they appear in the snapshot files, in canonical order.
const (
	MetricPower               = "power"
	MetricBER                 = "ber"
	MetricSNR                 = "snr"
	MetricDGD                 = "dgd"
	MetricQFactor             = "qfactor"
	MetricChromaticDispersion = "chromatic_dispersion"
	MetricCarrierOffset       = "carrier_offset"
)

// MetricNames lists the seven metrics every snapshot must carry, in the
// order they are reported.
var MetricNames = []string{
	MetricPower,
	MetricBER,
	MetricSNR,
	MetricDGD,
	MetricQFactor,
	MetricChromaticDispersion,
	MetricCarrierOffset,
}

// Scalar is a single metric value. Values the equipment didn't measure show
// up in the files as null or non-numeric placeholders; those decode to NaN
// and flow through the model untouched rather than failing the file.
type Scalar float64

// Missing reports whether the value was absent or non-numeric in the source.
func (s Scalar) Missing() bool {
	return math.IsNaN(float64(s))
}

// UnmarshalJSON accepts a JSON number, or treats anything else (null,
// strings, objects) as a missing measurement.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*s = Scalar(math.NaN())
		return nil
	}
	*s = Scalar(f)
	return nil
}

// MarshalJSON writes missing values back out as null, so a decoded model
// re-serializes to the same document shape it was read from.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if s.Missing() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(s))
}

// Instantaneous holds the point-in-time readings for one node.
type Instantaneous struct {
	Power               Scalar `json:"power"`
	BER                 Scalar `json:"ber"`
	SNR                 Scalar `json:"snr"`
	DGD                 Scalar `json:"dgd"`
	QFactor             Scalar `json:"qfactor"`
	ChromaticDispersion Scalar `json:"chromatic_dispersion"`
	CarrierOffset       Scalar `json:"carrier_offset"`
}

// Metric returns the named metric value. Unknown names return a missing value.
func (in Instantaneous) Metric(name string) Scalar {
	switch name {
	case MetricPower:
		return in.Power
	case MetricBER:
		return in.BER
	case MetricSNR:
		return in.SNR
	case MetricDGD:
		return in.DGD
	case MetricQFactor:
		return in.QFactor
	case MetricChromaticDispersion:
		return in.ChromaticDispersion
	case MetricCarrierOffset:
		return in.CarrierOffset
	}
	return Scalar(math.NaN())
}

// Range summarizes a metric over a trailing window.
// The expected ordering low ≤ median ≤ high is not enforced by the source;
// the parser logs a diagnostic on violation but keeps the values as-is.
type Range struct {
	Low    Scalar `json:"low"`
	Median Scalar `json:"median"`
	High   Scalar `json:"high"`
}

// WellOrdered reports whether low ≤ median ≤ high holds. Missing values make
// the check vacuously true since NaN comparisons are always false.
func (r Range) WellOrdered() bool {
	return !(float64(r.Low) > float64(r.Median) || float64(r.Median) > float64(r.High))
}

// FifteenMinuteBin holds the binned readings for one node: each of the seven
// metrics summarized as a {low, median, high} range over the last 15 minutes.
type FifteenMinuteBin struct {
	Power               Range `json:"power"`
	BER                 Range `json:"ber"`
	SNR                 Range `json:"snr"`
	DGD                 Range `json:"dgd"`
	QFactor             Range `json:"qfactor"`
	ChromaticDispersion Range `json:"chromatic_dispersion"`
	CarrierOffset       Range `json:"carrier_offset"`
}

// Metric returns the named metric range. Unknown names return a zero Range.
func (b FifteenMinuteBin) Metric(name string) Range {
	switch name {
	case MetricPower:
		return b.Power
	case MetricBER:
		return b.BER
	case MetricSNR:
		return b.SNR
	case MetricDGD:
		return b.DGD
	case MetricQFactor:
		return b.QFactor
	case MetricChromaticDispersion:
		return b.ChromaticDispersion
	case MetricCarrierOffset:
		return b.CarrierOffset
	}
	return Range{}
}

// Measurements pairs the instantaneous and binned readings for one node.
// Both sections are mandatory in the source format.
type Measurements struct {
	Instantaneous    Instantaneous    `json:"instantaneous"`
	FifteenMinuteBin FifteenMinuteBin `json:"fifteen_minute_bin"`
}

// NodeReading is one node's measurements within a snapshot.
type NodeReading struct {
	Name         string       `json:"name"`
	Measurements Measurements `json:"measurements"`
}

// Snapshot is everything one lab reported at one instant. Snapshots are
// appended in arrival order (the order files were processed), which is not
// necessarily chronological, and duplicate (timestamp, lab) occurrences stay
// separate entries.
type Snapshot struct {
	Time  time.Time     `json:"timestamp"`
	Nodes []NodeReading `json:"nodes"`
}

// Lab is a monitoring site and the top-level grouping for snapshots.
type Lab struct {
	Name      string     `json:"name"`
	Snapshots []Snapshot `json:"snapshots"`
}

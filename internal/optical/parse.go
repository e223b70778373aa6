package optical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/jal555/optiqa/internal/errors"
	"github.com/jal555/optiqa/internal/logger"
)

// Record is one (timestamp, lab) occurrence decoded from a snapshot file,
// carrying every node reading the lab reported at that instant. Records are
// emitted in document traversal order: timestamp order in the top-level
// mapping, then lab order, then node order.
type Record struct {
	Time  time.Time
	Lab   string
	Nodes []NodeReading
}

// Parser decodes raw snapshot file content into Records.
//
// A snapshot file maps a Unix-epoch-seconds string to a sequence of lab
// entries; each lab entry is a one-entry mapping {labName: [nodeEntry, ...]};
// each node entry is a one-entry mapping {nodeName: measurements}. Any shape
// violation is a PARSE error for the whole file; the source format does not
// attempt partial-record recovery.
type Parser struct {
	log logger.Logger
}

// NewParser creates a Parser. A nil logger disables diagnostics.
func NewParser(log logger.Logger) *Parser {
	if log == nil {
		log = logger.Noop()
	}
	return &Parser{log: log}
}

// Parse decodes one file's raw content. Empty or whitespace-only content
// yields (nil, nil): the file is skipped, not an error.
func (p *Parser) Parse(raw []byte) ([]Record, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	// The top-level object is walked token by token so timestamps are
	// visited in document order. A map decode would lose that order.
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrParse,
			"Snapshot content is not valid JSON",
			"The file is skipped; collection continues with the next file")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New(errors.ErrParse,
			"Snapshot document is not a timestamp mapping",
			"Expected a JSON object keyed by epoch-seconds strings")
	}

	var records []Record
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrParse,
				"Snapshot content is not valid JSON", "")
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.New(errors.ErrParse,
				"Snapshot document has a non-string timestamp key", "")
		}

		ts, err := parseEpoch(key)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrParse,
				fmt.Sprintf("Timestamp key %q is not epoch seconds", key), "")
		}

		var labs []json.RawMessage
		if err := dec.Decode(&labs); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrParse,
				fmt.Sprintf("Timestamp %q does not map to a lab sequence", key), "")
		}

		for _, labRaw := range labs {
			name, nodesRaw, err := singleKey(labRaw, "lab")
			if err != nil {
				return nil, err
			}

			var nodeEntries []json.RawMessage
			if err := json.Unmarshal(nodesRaw, &nodeEntries); err != nil {
				return nil, errors.WrapWithCode(err, errors.ErrParse,
					fmt.Sprintf("Lab %q does not carry a node sequence", name), "")
			}

			nodes := make([]NodeReading, 0, len(nodeEntries))
			for _, nodeRaw := range nodeEntries {
				nodeName, measRaw, err := singleKey(nodeRaw, "node")
				if err != nil {
					return nil, err
				}

				meas, err := p.decodeMeasurements(name, nodeName, measRaw)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, NodeReading{Name: nodeName, Measurements: meas})
			}

			records = append(records, Record{Time: ts, Lab: name, Nodes: nodes})
		}
	}

	return records, nil
}

// parseEpoch converts an epoch-seconds string (possibly fractional) to a time.
func parseEpoch(s string) (time.Time, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, err
	}
	sec := math.Floor(f)
	return time.Unix(int64(sec), int64((f-sec)*float64(time.Second))), nil
}

// singleKey extracts the sole key of a one-entry mapping. The format uses the
// single key to name an entity (lab or node); zero or multiple keys is a
// shape violation rather than something to silently pick from.
func singleKey(raw json.RawMessage, kind string) (string, json.RawMessage, error) {
	var entry map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entry); err != nil {
		return "", nil, errors.WrapWithCode(err, errors.ErrParse,
			fmt.Sprintf("A %s entry is not a one-entry mapping", kind), "")
	}
	if len(entry) != 1 {
		return "", nil, errors.New(errors.ErrParse,
			fmt.Sprintf("A %s entry has %d keys, expected exactly 1", kind, len(entry)), "")
	}
	for name, value := range entry {
		return name, value, nil
	}
	return "", nil, nil // unreachable
}

// decodeMeasurements requires both the "instantaneous" and
// "fifteen_minute_bin" sections with all seven metrics each. Presence is a
// shape requirement; values that are present but non-numeric decode to NaN.
func (p *Parser) decodeMeasurements(lab, node string, raw json.RawMessage) (Measurements, error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return Measurements{}, errors.WrapWithCode(err, errors.ErrParse,
			fmt.Sprintf("Node %q in lab %q has malformed measurements", node, lab), "")
	}

	instRaw, ok := sections["instantaneous"]
	if !ok {
		return Measurements{}, errors.New(errors.ErrParse,
			fmt.Sprintf("Node %q in lab %q is missing the instantaneous section", node, lab), "")
	}
	binRaw, ok := sections["fifteen_minute_bin"]
	if !ok {
		return Measurements{}, errors.New(errors.ErrParse,
			fmt.Sprintf("Node %q in lab %q is missing the fifteen_minute_bin section", node, lab), "")
	}

	inst, err := p.decodeInstantaneous(lab, node, instRaw)
	if err != nil {
		return Measurements{}, err
	}
	bin, err := p.decodeBin(lab, node, binRaw)
	if err != nil {
		return Measurements{}, err
	}

	return Measurements{Instantaneous: inst, FifteenMinuteBin: bin}, nil
}

func (p *Parser) decodeInstantaneous(lab, node string, raw json.RawMessage) (Instantaneous, error) {
	if _, err := requireMetrics(raw, "instantaneous", lab, node); err != nil {
		return Instantaneous{}, err
	}

	var inst Instantaneous
	if err := json.Unmarshal(raw, &inst); err != nil {
		return Instantaneous{}, errors.WrapWithCode(err, errors.ErrParse,
			fmt.Sprintf("Node %q in lab %q has a malformed instantaneous section", node, lab), "")
	}
	return inst, nil
}

func (p *Parser) decodeBin(lab, node string, raw json.RawMessage) (FifteenMinuteBin, error) {
	fields, err := requireMetrics(raw, "fifteen_minute_bin", lab, node)
	if err != nil {
		return FifteenMinuteBin{}, err
	}

	var bin FifteenMinuteBin
	for name, fieldRaw := range fields {
		r, err := p.decodeRange(lab, node, name, fieldRaw)
		if err != nil {
			return FifteenMinuteBin{}, err
		}
		switch name {
		case MetricPower:
			bin.Power = r
		case MetricBER:
			bin.BER = r
		case MetricSNR:
			bin.SNR = r
		case MetricDGD:
			bin.DGD = r
		case MetricQFactor:
			bin.QFactor = r
		case MetricChromaticDispersion:
			bin.ChromaticDispersion = r
		case MetricCarrierOffset:
			bin.CarrierOffset = r
		}
	}
	return bin, nil
}

func (p *Parser) decodeRange(lab, node, metric string, raw json.RawMessage) (Range, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Range{}, errors.WrapWithCode(err, errors.ErrParse,
			fmt.Sprintf("Metric %q for node %q in lab %q is not a {low, median, high} mapping", metric, node, lab), "")
	}
	for _, k := range []string{"low", "median", "high"} {
		if _, ok := fields[k]; !ok {
			return Range{}, errors.New(errors.ErrParse,
				fmt.Sprintf("Metric %q for node %q in lab %q is missing %q", metric, node, lab, k), "")
		}
	}

	var r Range
	if err := json.Unmarshal(raw, &r); err != nil {
		return Range{}, errors.WrapWithCode(err, errors.ErrParse,
			fmt.Sprintf("Metric %q for node %q in lab %q has a malformed range", metric, node, lab), "")
	}

	// Diagnostic only: the source doesn't enforce the ordering, so neither do we.
	if !r.WellOrdered() {
		p.log.Debug("range out of order for %s/%s metric %s: low=%v median=%v high=%v",
			lab, node, metric, float64(r.Low), float64(r.Median), float64(r.High))
	}
	return r, nil
}

// requireMetrics checks that a section carries all seven metric names.
func requireMetrics(raw json.RawMessage, section, lab, node string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrParse,
			fmt.Sprintf("Node %q in lab %q has a malformed %s section", node, lab, section), "")
	}
	for _, name := range MetricNames {
		if _, ok := fields[name]; !ok {
			return nil, errors.New(errors.ErrParse,
				fmt.Sprintf("Node %q in lab %q is missing %q in its %s section", node, lab, name, section), "")
		}
	}
	return fields, nil
}

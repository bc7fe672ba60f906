package harness

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// parametersDoc is the "parameters" block of the JSON result bundle.
type parametersDoc struct {
	Timestamp string    `json:"timestamp"`
	Topology  string    `json:"topology"`
	Duration  int       `json:"duration"`
	Loads     []float64 `json:"loads"`
}

type algorithmDoc struct {
	ER         []float64 `json:"er"`
	Throughput []float64 `json:"throughput"`
	TX         []float64 `json:"tx"`
}

// WriteJSON writes the full sweep bundle to <dir>/simulation_results.json,
// returning the path written. Each algorithm's results sit as a top-level
// sibling of "parameters" in the result schema, so the
// document is built as a plain map rather than a struct.
func WriteJSON(dir string, sweep SweepResult, timestamp string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("harness: creating output dir %q: %w", dir, err)
	}

	doc := map[string]any{
		"parameters": parametersDoc{
			Timestamp: timestamp,
			Topology:  sweep.Topology,
			Duration:  sweep.Duration,
			Loads:     sweep.Loads,
		},
	}
	for alg, ar := range sweep.Results {
		doc[string(alg)] = algorithmDoc{ER: ar.ER, Throughput: ar.Throughput, TX: ar.TX}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("harness: marshaling results: %w", err)
	}

	path := filepath.Join(dir, "simulation_results.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("harness: writing %q: %w", path, err)
	}
	return path, nil
}

// WriteTransitCSV writes the LB variants' per-packet transit-time CSV
// (packet_id,transmission_time_seconds), sorted by packet id so the file
// is stable across runs with the same input, at
// <dir>/<algorithm>_transit_times.csv.
func WriteTransitCSV(dir string, alg Algorithm, transits []PacketTransit) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("harness: creating output dir %q: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_transit_times.csv", alg))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("harness: creating %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"packet_id", "transmission_time_seconds"}); err != nil {
		return "", fmt.Errorf("harness: writing csv header: %w", err)
	}
	sorted := make([]PacketTransit, len(transits))
	copy(sorted, transits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PacketID < sorted[j].PacketID })
	for _, t := range sorted {
		row := []string{
			strconv.FormatUint(t.PacketID, 10),
			strconv.FormatFloat(t.TransmissionSec, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("harness: writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("harness: flushing csv: %w", err)
	}
	return path, nil
}

// Timestamp formats the current time in the original's MMDDHHMM convention
// (original_source/sim.py: time.strftime("%m%d%H%M")), used both to name
// the results directory and to stamp the "parameters" block of the JSON
// bundle.
func Timestamp() string {
	return time.Now().Format("01021504")
}

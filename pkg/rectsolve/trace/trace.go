// Package trace records the labeled snapshots produced during a solve.
package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
)

const (
	InitLabel  = "Init"
	FinalLabel = "Final result"
)

// Step is one labeled snapshot.
type Step struct {
	Label    string
	Snapshot rect.Rectangle
}

// MarshalJSON encodes a step as a two-element array: [label, snapshot].
func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{s.Label, s.Snapshot})
}

// UnmarshalJSON reverses MarshalJSON.
func (s *Step) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("trace step: expected [label, snapshot], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &s.Label); err != nil {
		return fmt.Errorf("trace step label: %w", err)
	}
	if err := json.Unmarshal(raw[1], &s.Snapshot); err != nil {
		return fmt.Errorf("trace step snapshot: %w", err)
	}
	return nil
}

// Recorder is an append-only list of steps.
type Recorder struct {
	steps []Step
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Append copies r and stores it under label.
func (rec *Recorder) Append(label string, r *rect.Rectangle) {
	rec.steps = append(rec.steps, Step{Label: label, Snapshot: r.Clone()})
}

// Len returns the number of recorded steps.
func (rec *Recorder) Len() int { return len(rec.steps) }

// Steps returns the recorded steps. The slice is a copy; snapshots are
// never mutated after recording.
func (rec *Recorder) Steps() []Step {
	return append([]Step(nil), rec.steps...)
}

// Labels returns just the labels, in order.
func Labels(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Label
	}
	return out
}

// WriteJSON writes steps as a pretty-printed JSON array.
func WriteJSON(w io.Writer, steps []Step) error {
	if steps == nil {
		steps = []Step{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(steps)
}

// SaveJSON writes steps to path, replacing any existing file.
func SaveJSON(path string, steps []Step) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trace file: %w", err)
	}
	if err := WriteJSON(f, steps); err != nil {
		f.Close()
		return fmt.Errorf("write trace: %w", err)
	}
	return f.Close()
}

// ReadJSON decodes a trace written by WriteJSON.
func ReadJSON(r io.Reader) ([]Step, error) {
	var steps []Step
	if err := json.NewDecoder(r).Decode(&steps); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	return steps, nil
}

// Print writes a human-readable rendering, one block per step.
func Print(w io.Writer, steps []Step) {
	for i, s := range steps {
		fmt.Fprintf(w, "%d. %s\n", i+1, s.Label)
		snap := s.Snapshot
		if snap.Width.Known() {
			fmt.Fprintf(w, "   width: %g\n", snap.Width.Value())
		}
		if snap.Height.Known() {
			fmt.Fprintf(w, "   height: %g\n", snap.Height.Value())
		}
		for _, k := range snap.Keys() {
			v, _ := snap.Get(k)
			fmt.Fprintf(w, "   %s: %s\n", k, v)
		}
	}
}

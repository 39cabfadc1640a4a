package trace

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
)

func TestSnapshotsAreIsolated(t *testing.T) {
	r := rect.New()
	rec := NewRecorder()
	rec.Append(InitLabel, r)

	r.SetWidth(6)
	r.Set(rect.Area, rect.Single(48))
	rec.Append("Found something", r)

	steps := rec.Steps()
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Snapshot.Width.Known() || steps[0].Snapshot.Len() != 0 {
		t.Error("Init snapshot changed after mutation")
	}
	if !steps[1].Snapshot.Has(rect.Area) {
		t.Error("second snapshot should contain Area")
	}
}

func TestWriteJSONShape(t *testing.T) {
	r := rect.New()
	rec := NewRecorder()
	rec.Append(InitLabel, r)
	r.SetWidth(6)
	r.SetHeight(8)
	r.Set(rect.SideDistances, rect.Pair(3, 4))
	rec.Append(FinalLabel, r)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, rec.Steps()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var raw [][]interface{}
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("output is not [[label, snapshot]]: %v\n%s", err, buf.String())
	}
	if len(raw) != 2 || raw[0][0] != InitLabel || raw[1][0] != FinalLabel {
		t.Fatalf("unexpected labels: %v", raw)
	}
	first := raw[0][1].(map[string]interface{})
	if first["width"] != nil || first["height"] != nil {
		t.Errorf("unknown dims should be null: %v", first)
	}
	final := raw[1][1].(map[string]interface{})
	if final["width"] != 6.0 || final["height"] != 8.0 {
		t.Errorf("final dims = %v, %v", final["width"], final["height"])
	}

	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if a, b, ok := back[1].Snapshot.Pair(rect.SideDistances); !ok || a != 3 || b != 4 {
		t.Errorf("SideDistances = %v %v %v", a, b, ok)
	}
}

func TestSaveAndReadJSON(t *testing.T) {
	r := rect.New()
	r.Set(rect.Perimeter, rect.Single(28))
	rec := NewRecorder()
	rec.Append(InitLabel, r)
	r.SetWidth(6)
	r.SetHeight(8)
	rec.Append(FinalLabel, r)

	path := filepath.Join(t.TempDir(), "steps.json")
	if err := SaveJSON(path, rec.Steps()); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	steps, err := ReadJSON(f)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if diff := cmp.Diff([]string{InitLabel, FinalLabel}, Labels(steps)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if p, _ := steps[0].Snapshot.Single(rect.Perimeter); p != 28 {
		t.Errorf("perimeter = %v", p)
	}
	if !steps[1].Snapshot.HasSides() {
		t.Error("final snapshot should have sides")
	}
}

func TestEmptyTraceIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("got %q", buf.String())
	}
}

func TestPrint(t *testing.T) {
	r := rect.New()
	r.SetWidth(5)
	r.Set(rect.Area, rect.Single(50))
	rec := NewRecorder()
	rec.Append(InitLabel, r)

	var buf bytes.Buffer
	Print(&buf, rec.Steps())
	out := buf.String()
	for _, want := range []string{"1. Init", "width: 5", "Area: 50"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

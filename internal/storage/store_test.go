package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/verlet/internal/particles"
	"github.com/san-kum/verlet/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Times:      []float64{0.0, 0.01},
		Energy:     []float64{4.0, 3.5},
		StepsTaken: 1,
		Metrics: map[string]float64{
			"max_penetration": 0.25,
		},
	}
}

func testFrame() Frame {
	return Frame{
		Width:  300,
		Height: 200,
		Discs: []Disc{
			{X: 10, Y: 20, Radius: 3, R: 0.8, G: 0.9, B: 1},
			{X: 40, Y: 50, Radius: 5, R: 0.7, G: 0.7, B: 0.7},
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Name: "dense", Seed: 42, Particles: 2, Dt: 0.01, Duration: 0.01, Iterations: 2}, testResult(), testFrame())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "dense_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Seed != 42 || meta.Iterations != 2 || meta.StepsTaken != 1 {
		t.Errorf("metadata not round-tripped: %+v", meta)
	}
	if meta.Width != 300 || meta.Height != 200 {
		t.Errorf("world size not recorded: %gx%g", meta.Width, meta.Height)
	}
	if meta.Metrics["max_penetration"] != 0.25 {
		t.Errorf("expected max_penetration 0.25, got %f", meta.Metrics["max_penetration"])
	}

	times, energy, err := st.LoadEnergy(runID)
	if err != nil {
		t.Fatalf("load energy failed: %v", err)
	}
	if len(times) != 2 || energy[1] != 3.5 {
		t.Errorf("unexpected energy series: %v %v", times, energy)
	}

	frame, err := st.LoadFrame(runID)
	if err != nil {
		t.Fatalf("load frame failed: %v", err)
	}
	if len(frame.Discs) != 2 || frame.Discs[1].Radius != 5 || frame.Width != 300 {
		t.Errorf("unexpected frame: %+v", frame)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(RunMetadata{Name: "a"}, testResult(), testFrame()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.Save(RunMetadata{Name: "b"}, testResult(), testFrame()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(st.baseDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Name != "a" || runs[1].Name != "b" {
		t.Errorf("runs not ordered by time: %s, %s", runs[0].Name, runs[1].Name)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreRunNotFound(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load: expected ErrRunNotFound, got %v", err)
	}
	if _, _, err := st.LoadEnergy("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadEnergy: expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadFrame("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadFrame: expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{}, testResult(), testFrame())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, energyFile, frameFile} {
		if _, err := os.Stat(filepath.Join(st.baseDir, runID, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(st.baseDir, runID, frameFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "x,y,radius,r,g,b\n") {
		t.Errorf("unexpected frame header: %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestSnapshot(t *testing.T) {
	engine, err := particles.New(5, 200, 100, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatal(err)
	}

	f := Snapshot(engine)
	if f.Width != 200 || f.Height != 100 || len(f.Discs) != 5 {
		t.Fatalf("unexpected snapshot: %gx%g, %d discs", f.Width, f.Height, len(f.Discs))
	}
	if f.Discs[2].Radius != float64(float32(engine.Particles[2].Radius)) {
		t.Errorf("radius mismatch: %g vs %g", f.Discs[2].Radius, engine.Particles[2].Radius)
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Name: "j", Seed: 3}, testResult(), testFrame())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Run.Seed != 3 || len(out.Energy) != 2 || len(out.Frame) != 2 {
		t.Errorf("unexpected export: %+v", out)
	}
}

func TestWriteEnergyCSV_UnevenSeries(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEnergyCSV(&buf, []float64{0, 1, 2}, []float64{5}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("expected header plus one row, got %d lines", len(lines))
	}
}

package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/verlet/internal/particles"
	"github.com/san-kum/verlet/internal/sim"
)

const (
	metadataFile = "metadata.json"
	energyFile   = "energy.csv"
	frameFile    = "frame.csv"
)

type Store struct {
	baseDir string
	logger  *log.Logger
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// SetLogger reports skipped run directories. nil disables it.
func (s *Store) SetLogger(l *log.Logger) { s.logger = l }

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Particles  int                `json:"particles"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Iterations int                `json:"iterations"`
	Scenario   string             `json:"scenario,omitempty"`
	StepsTaken int                `json:"steps_taken"`
	Drift      float64            `json:"energy_drift"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Disc is one row of a saved frame: the render tuple of a particle.
type Disc struct {
	X, Y, Radius float64
	R, G, B      float64
}

// Frame is a snapshot of the world at the end of a run.
type Frame struct {
	Width, Height float64
	Discs         []Disc
}

// Snapshot copies the current render tuples out of an engine.
func Snapshot(engine *particles.Simulation) Frame {
	f := Frame{Width: engine.Width(), Height: engine.Height()}
	verts := engine.AppendVertices(nil)
	f.Discs = make([]Disc, 0, len(verts)/particles.VertexStride)
	for i := 0; i+particles.VertexStride <= len(verts); i += particles.VertexStride {
		v := verts[i : i+particles.VertexStride]
		f.Discs = append(f.Discs, Disc{
			X: float64(v[0]), Y: float64(v[1]), Radius: float64(v[2]),
			R: float64(v[3]), G: float64(v[4]), B: float64(v[5]),
		})
	}
	return f
}

// Save writes a run directory and returns its ID. meta.ID and
// meta.Timestamp are filled in here.
func (s *Store) Save(meta RunMetadata, result *sim.Result, frame Frame) (string, error) {
	name := meta.Name
	if name == "" {
		name = "run"
	}
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", name, now.UnixNano())
	meta.Timestamp = now
	meta.Width, meta.Height = frame.Width, frame.Height
	meta.StepsTaken = result.StepsTaken
	meta.Drift = result.EnergyDrift
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		return WriteJSON(w, meta)
	}); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, energyFile), func(w io.Writer) error {
		return WriteEnergyCSV(w, result.Times, result.Energy)
	}); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, frameFile), func(w io.Writer) error {
		return WriteFrameCSV(w, frame.Discs)
	}); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns saved runs, oldest first. Unreadable run directories are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			if s.logger != nil {
				s.logger.Printf("skipping %s: %v", entry.Name(), err)
			}
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, notFound(runID, err)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}

	return &meta, nil
}

// LoadEnergy returns the sampled times and kinetic-energy proxy of a run.
func (s *Store) LoadEnergy(runID string) ([]float64, []float64, error) {
	rows, err := s.readCSV(runID, energyFile, 2)
	if err != nil {
		return nil, nil, err
	}

	times := make([]float64, 0, len(rows))
	energy := make([]float64, 0, len(rows))
	for _, row := range rows {
		times = append(times, row[0])
		energy = append(energy, row[1])
	}
	return times, energy, nil
}

func (s *Store) LoadFrame(runID string) (Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return Frame{}, err
	}
	rows, err := s.readCSV(runID, frameFile, particles.VertexStride)
	if err != nil {
		return Frame{}, err
	}

	f := Frame{Width: meta.Width, Height: meta.Height, Discs: make([]Disc, 0, len(rows))}
	for _, row := range rows {
		f.Discs = append(f.Discs, Disc{X: row[0], Y: row[1], Radius: row[2], R: row[3], G: row[4], B: row[5]})
	}
	return f, nil
}

// readCSV parses a headed CSV into float rows of the given width. Malformed
// rows are skipped.
func (s *Store) readCSV(runID, name string, width int) ([][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, notFound(runID, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, 0, len(records))
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < width {
			continue
		}

		row := make([]float64, width)
		ok := true
		for j := 0; j < width; j++ {
			row[j], err = strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
		}
		if ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func notFound(runID string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return err
}

package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/surface"
)

const (
	metadataFile = "metadata.json"
	pointsFile   = "points.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RunMetadata describes one saved trajectory: the inputs needed to rerun
// it and a summary of how it ended.
type RunMetadata struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Masses     []surface.Mass     `json:"masses"`
	Start      Vec                `json:"start"`
	Velocity   Vec                `json:"velocity"`
	Goal       *Vec               `json:"goal,omitempty"`
	GoalRadius float64            `json:"goal_radius"`
	Bounds     sim.Bounds         `json:"bounds"`
	Dt         float64            `json:"dt"`
	MaxSteps   int                `json:"max_steps"`
	Integrator string             `json:"integrator"`
	Outcome    sim.Outcome        `json:"outcome"`
	Steps      int                `json:"steps"`
	FinalPos   Vec                `json:"final_pos"`
	Metrics    map[string]float64 `json:"metrics"`
}

// NewRunMetadata fills the run inputs and the result summary. ID and
// Timestamp are assigned by Save.
func NewRunMetadata(field *surface.Field, start, vel Vec, opts sim.Options, integrator string, result *sim.Result) RunMetadata {
	meta := RunMetadata{
		Masses:     field.Masses(),
		Start:      start,
		Velocity:   vel,
		GoalRadius: opts.GoalRadius,
		Bounds:     opts.Bounds,
		Dt:         opts.Dt,
		MaxSteps:   opts.MaxSteps,
		Integrator: integrator,
		Outcome:    result.Outcome,
		Steps:      result.Steps,
		FinalPos:   Vec{X: result.FinalPos.X, Y: result.FinalPos.Y},
		Metrics:    make(map[string]float64, len(result.Metrics)),
	}
	if opts.Goal != nil {
		meta.Goal = &Vec{X: opts.Goal.X, Y: opts.Goal.Y}
	}
	// JSON has no encoding for Inf or NaN.
	for name, v := range result.Metrics {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			meta.Metrics[name] = v
		}
	}
	return meta
}

func (s *Store) Save(meta RunMetadata, points []sim.Point) (string, error) {
	meta.ID = uuid.NewString()
	meta.Timestamp = time.Now().UTC()
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, pointsFile), func(w io.Writer) error {
		return WritePointsCSV(w, points)
	}); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns saved runs, newest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) runDir(runID string) (string, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return "", fmt.Errorf("%w: invalid run id %q", ErrRunNotFound, runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decoding metadata for %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadPoints(runID string) ([]sim.Point, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(dir, pointsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()
	return ReadPointsCSV(f)
}

var pointsHeader = []string{"step", "x", "y", "z"}

func WritePointsCSV(w io.Writer, points []sim.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(pointsHeader); err != nil {
		return err
	}
	for i, p := range points {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
			strconv.FormatFloat(p.Z, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadPointsCSV(r io.Reader) ([]sim.Point, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Point{}, nil
	}

	points := make([]sim.Point, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(pointsHeader) {
			return nil, fmt.Errorf("points row %d: want %d fields, got %d", i+1, len(pointsHeader), len(record))
		}
		var vals [3]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("points row %d: %w", i+1, err)
			}
			vals[j] = v
		}
		points = append(points, sim.Point{X: vals[0], Y: vals[1], Z: vals[2]})
	}
	return points, nil
}

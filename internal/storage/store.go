package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/polyorbit/internal/orbit"
	"github.com/san-kum/polyorbit/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Settings  string               `json:"settings"`
	Timestamp time.Time            `json:"timestamp"`
	Seed      int64                `json:"seed"`
	Ticks     int                  `json:"ticks"`
	Dt        float64              `json:"dt"`
	Speed     float64              `json:"speed"`
	Bodies    int                  `json:"bodies"`
	Metrics   map[string]float64   `json:"metrics"`
	Counts    map[orbit.BodyID]int `json:"counts"`
}

// Crossing is one row of crossings.csv.
type Crossing struct {
	Tick int
	Body orbit.BodyID
	Kind string
	X, Y float64
}

// Save writes metadata.json and crossings.csv into a new run directory and
// returns the run ID. meta.ID, Timestamp, Ticks, Metrics and Counts are
// filled from the result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.newRunDir(meta.Name, now)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Ticks = result.Ticks
	meta.Metrics = result.Metrics
	meta.Counts = result.Counts

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "crossings.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"tick", "body", "kind", "x", "y"}); err != nil {
		return "", err
	}
	for _, e := range result.Crossings {
		row := []string{
			strconv.Itoa(e.Tick),
			strconv.FormatUint(uint64(e.ID), 10),
			e.Kind.String(),
			strconv.FormatFloat(e.X, 'f', 3, 64),
			strconv.FormatFloat(e.Y, 'f', 3, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) newRunDir(name string, now time.Time) (string, string, error) {
	if name == "" {
		name = "run"
	}
	base := fmt.Sprintf("%s_%d", name, now.Unix())
	runID := base
	for n := 1; ; n++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if os.IsNotExist(err) {
			if err := s.Init(); err != nil {
				return "", "", err
			}
			continue
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, n)
	}
}

// List returns every stored run, oldest first.
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
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadCrossings reads crossings.csv back. Malformed rows are skipped.
func (s *Store) LoadCrossings(runID string) ([]Crossing, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "crossings.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	out := make([]Crossing, 0, max(len(records)-1, 0))
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 5 {
			continue
		}
		tick, err1 := strconv.Atoi(rec[0])
		id, err2 := strconv.ParseUint(rec[1], 10, 64)
		x, err3 := strconv.ParseFloat(rec[3], 64)
		y, err4 := strconv.ParseFloat(rec[4], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		out = append(out, Crossing{Tick: tick, Body: orbit.BodyID(id), Kind: rec[2], X: x, Y: y})
	}

	return out, nil
}

// Histogram buckets stored crossings into windows of the given number of ticks.
func Histogram(crossings []Crossing, ticks, window int) []float64 {
	if window <= 0 || ticks <= 0 {
		return nil
	}
	out := make([]float64, (ticks+window-1)/window)
	for _, c := range crossings {
		if c.Tick < 1 || c.Tick > ticks {
			continue
		}
		out[(c.Tick-1)/window]++
	}
	return out
}

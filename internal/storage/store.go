// Package storage persists simulation runs: a directory per run holding
// metadata.json and states.csv, plus JSON export for downstream tools.
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

	"github.com/san-kum/parcelsim/internal/dynamo"
	"github.com/san-kum/parcelsim/internal/parcel"
)

var scalarColumns = []string{"pressure", "temperature", "vapor", "liquid", "supersaturation"}

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
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Updraft    float64            `json:"updraft"`
	Particles  int                `json:"particles"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes one run directory and returns its ID.
func (s *Store) Save(dt, duration float64, integrator string, updraft float64, result *dynamo.Result) (string, error) {
	runID := fmt.Sprintf("parcel_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	particles := 0
	if len(result.States) > 0 {
		particles = len(result.States[0]) - parcel.NumScalars
	}

	meta := RunMetadata{
		ID:         runID,
		Timestamp:  time.Now(),
		Dt:         dt,
		Duration:   duration,
		Integrator: integrator,
		Updraft:    updraft,
		Particles:  particles,
		Metrics:    result.Metrics,
	}

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

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.States) == 0 {
		return runID, nil
	}

	header := append([]string{"time"}, scalarColumns...)
	for i := 0; i < particles; i++ {
		header = append(header, fmt.Sprintf("r%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range result.States {
		row := make([]string, 0, len(header))
		row = append(row, strconv.FormatFloat(result.Times[i], 'g', -1, 64))
		for _, val := range result.States[i] {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, w.Error()
}

// List returns the metadata of every stored run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.LoadMetadata(e.Name())
		if err != nil {
			continue // skip foreign directories
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) LoadMetadata(runID string) (RunMetadata, error) {
	var meta RunMetadata
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return meta, err
	}
	err = json.Unmarshal(data, &meta)
	return meta, err
}

// LoadStates reads a run's state history back from its CSV.
func (s *Store) LoadStates(runID string) ([]float64, []dynamo.State, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 2 {
		return nil, nil, nil
	}

	times := make([]float64, 0, len(rows)-1)
	states := make([]dynamo.State, 0, len(rows)-1)
	for _, row := range rows[1:] {
		t, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, nil, err
		}
		x := make(dynamo.State, len(row)-1)
		for i, cell := range row[1:] {
			if x[i], err = strconv.ParseFloat(cell, 64); err != nil {
				return nil, nil, err
			}
		}
		times = append(times, t)
		states = append(states, x)
	}
	return times, states, nil
}

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

	"github.com/simedcn/Langevin-GJI-2020/internal/sampler"
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
	ID          string             `json:"id"`
	Target      string             `json:"target"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dim         int                `json:"dim"`
	Steps       int                `json:"steps"`
	StepSizes   []float64          `json:"step_sizes"`
	Thin        int                `json:"thin"`
	AcceptRates []float64          `json:"accept_rates"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes one metadata.json plus one chain_<i>.csv per chain under a
// fresh run directory and returns the run id.
func (s *Store) Save(target string, seed int64, thin int, stepSizes []float64, ms map[string]float64, result *sampler.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", target, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Target:      target,
		Timestamp:   time.Now(),
		Seed:        seed,
		Dim:         result.Dim,
		Steps:       result.Steps,
		StepSizes:   stepSizes,
		Thin:        thin,
		AcceptRates: result.AcceptRates(),
		Metrics:     ms,
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

	for i, ch := range result.Chains {
		if err := s.saveChain(runDir, i, result.Dim, ch); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) saveChain(runDir string, idx, dim int, ch *sampler.Chain) error {
	f, err := os.Create(filepath.Join(runDir, fmt.Sprintf("chain_%d.csv", idx)))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"step"}
	for i := 0; i < dim; i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	for i := 0; i < dim; i++ {
		header = append(header, fmt.Sprintf("g%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for k := range ch.States {
		row := make([]string, 0, 1+2*dim)
		row = append(row, strconv.Itoa(k))
		for _, v := range ch.States[k] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		for _, v := range ch.Grads[k] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
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

// LoadChain reads one chain's trajectory back; states and grads come out in
// the same shape Save received them.
func (s *Store) LoadChain(runID string, idx int) (states, grads []sampler.State, err error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, fmt.Sprintf("chain_%d.csv", idx)))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 1 {
		return nil, nil, fmt.Errorf("storage: empty chain file for %s[%d]", runID, idx)
	}

	dim := (len(rows[0]) - 1) / 2
	for _, row := range rows[1:] {
		x := make(sampler.State, dim)
		g := make(sampler.State, dim)
		for i := 0; i < dim; i++ {
			if x[i], err = strconv.ParseFloat(row[1+i], 64); err != nil {
				return nil, nil, err
			}
			if g[i], err = strconv.ParseFloat(row[1+dim+i], 64); err != nil {
				return nil, nil, err
			}
		}
		states = append(states, x)
		grads = append(grads, g)
	}
	return states, grads, nil
}

func (s *Store) List() ([]*RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []*RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

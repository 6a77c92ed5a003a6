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
)

const (
	metadataFile = "metadata.json"
	ticksFile    = "ticks.csv"
)

// Store keeps one directory per headless run under baseDir. Only run
// settings and per-tick statistics are written, never field contents.
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
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Capacity   int                `json:"capacity"`
	Ticks      int                `json:"ticks"`
	Integrator string             `json:"integrator"`
	Epsilon    float64            `json:"epsilon"`
	Theta1     float64            `json:"theta1"`
	Theta2     float64            `json:"theta2"`
	Spread     float64            `json:"spread"`
	Elapsed    time.Duration      `json:"elapsed_ns"`
	Metrics    map[string]float64 `json:"metrics"`
}

var tickHeader = []string{
	"tick", "time", "len", "pairs", "subdivided", "inserted",
	"evicted_front", "evicted_back", "max_gap", "mean_energy",
}

func (r TickRecord) row() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }
	return []string{
		strconv.Itoa(r.Tick), f(r.Time), strconv.Itoa(r.Len),
		strconv.Itoa(r.Pairs), strconv.Itoa(r.Subdivided), strconv.Itoa(r.Inserted),
		strconv.Itoa(r.EvictedFront), strconv.Itoa(r.EvictedBack),
		f(r.MaxGap), f(r.MeanEnergy),
	}
}

// Save writes a new run directory and returns its id. meta.ID and
// meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, ticks []TickRecord) (string, error) {
	now := time.Now()
	name := meta.Preset
	if name == "" {
		name = "custom"
	}
	meta.ID = fmt.Sprintf("%s_%d", name, now.UnixNano())
	meta.Timestamp = now
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, ticksFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(tickHeader); err != nil {
		return "", err
	}
	for _, rec := range ticks {
		if err := w.Write(rec.row()); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTicks(runID string) ([]TickRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, ticksFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(tickHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []TickRecord{}, nil
	}

	out := make([]TickRecord, 0, len(records)-1)
	for i, rec := range records[1:] {
		tr, err := parseTick(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", ticksFile, i+2, err)
		}
		out = append(out, tr)
	}
	return out, nil
}

func parseTick(rec []string) (TickRecord, error) {
	ints := make([]int, 0, 7)
	for _, i := range []int{0, 2, 3, 4, 5, 6, 7} {
		v, err := strconv.Atoi(rec[i])
		if err != nil {
			return TickRecord{}, err
		}
		ints = append(ints, v)
	}
	floats := make([]float64, 0, 3)
	for _, i := range []int{1, 8, 9} {
		v, err := strconv.ParseFloat(rec[i], 64)
		if err != nil {
			return TickRecord{}, err
		}
		floats = append(floats, v)
	}
	return TickRecord{
		Tick:         ints[0],
		Time:         floats[0],
		Len:          ints[1],
		Pairs:        ints[2],
		Subdivided:   ints[3],
		Inserted:     ints[4],
		EvictedFront: ints[5],
		EvictedBack:  ints[6],
		MaxGap:       floats[1],
		MeanEnergy:   floats[2],
	}, nil
}

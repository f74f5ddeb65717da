package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/orrery/internal/logging"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
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

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset,omitempty"`
	Scenario  string             `json:"scenario,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	FrameDt   float64            `json:"frame_dt"`
	Speed     float64            `json:"speed"`
	MeanSpeed float64            `json:"mean_speed,omitempty"`
	Varied    bool               `json:"speed_varied,omitempty"`
	Frames    int                `json:"frames"`
	Bodies    []string           `json:"bodies"`
	Metrics   map[string]float64 `json:"metrics"`
}

// EffectiveSpeed is the multiplier that explains the recorded orbits: the
// per-frame mean when one was logged, the starting speed otherwise.
func (m *RunMetadata) EffectiveSpeed() float64 {
	if m.MeanSpeed > 0 || m.Varied {
		return m.MeanSpeed
	}
	return m.Speed
}

// SpeedLog follows the speed multiplier across the frames of a run.
type SpeedLog struct {
	first, sum float64
	n          int
	varied     bool
}

// Observe records the multiplier a frame was advanced with.
func (l *SpeedLog) Observe(speed float64) {
	if l.n == 0 {
		l.first = speed
	} else if speed != l.first {
		l.varied = true
	}
	l.sum += speed
	l.n++
}

// Apply stores the mean multiplier on meta, and whether it changed.
func (l *SpeedLog) Apply(meta *RunMetadata) {
	if l.n == 0 {
		return
	}
	meta.MeanSpeed = l.sum / float64(l.n)
	meta.Varied = l.varied
}

// Save writes a run under a fresh ID and returns it. The ID and timestamp
// on meta are overwritten.
func (s *Store) Save(meta *RunMetadata, tr *Trace) (string, error) {
	meta.ID = uuid.NewString()
	meta.Timestamp = time.Now().UTC()
	if tr != nil {
		meta.Bodies = append([]string(nil), tr.Bodies...)
		meta.Frames = len(tr.Frames)
	}

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

	csvFile, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if tr != nil {
		if err := tr.writeCSV(csvFile); err != nil {
			return "", err
		}
	}

	logging.L().Info("run saved", "id", meta.ID, "frames", meta.Frames, "dir", runDir)
	return meta.ID, nil
}

// List returns every readable run, oldest first. Directories without
// valid metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
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
			logging.L().Debug("skipping run dir", "name", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

// Resolve maps an ID or unique ID prefix onto a stored run ID.
func (s *Store) Resolve(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: empty id", ErrRunNotFound)
	}
	if _, err := os.Stat(filepath.Join(s.baseDir, ref, metadataFile)); err == nil {
		return ref, nil
	}
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	match := ""
	for _, r := range runs {
		if strings.HasPrefix(r.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("storage: id prefix %q is ambiguous", ref)
			}
			match = r.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, ref)
	}
	return match, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrace(runID string) (*Trace, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return parseTrace(records)
}

func parseTrace(records [][]string) (*Trace, error) {
	tr := &Trace{}
	if len(records) == 0 {
		return tr, nil
	}

	header := records[0]
	if len(header) == 0 || header[0] != "frame" || (len(header)-1)%len(sampleFields) != 0 {
		return nil, fmt.Errorf("storage: malformed trace header %v", header)
	}
	for i := 1; i < len(header); i += len(sampleFields) {
		name, _, _ := strings.Cut(header[i], ".")
		tr.Bodies = append(tr.Bodies, name)
	}

	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		frame, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		row := make([]Sample, len(tr.Bodies))
		ok := true
		for b := range tr.Bodies {
			var vals [3]float64
			for k := range vals {
				vals[k], err = strconv.ParseFloat(record[1+b*3+k], 64)
				if err != nil {
					ok = false
				}
			}
			row[b] = Sample{Angle: vals[0], X: vals[1], Z: vals[2]}
		}
		if !ok {
			continue
		}
		tr.Frames = append(tr.Frames, frame)
		tr.Samples = append(tr.Samples, row)
	}
	return tr, nil
}

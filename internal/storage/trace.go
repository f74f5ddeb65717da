package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/orrery/internal/scene"
)

var sampleFields = []string{"angle", "x", "z"}

// Sample is one body's orbital state at one frame.
type Sample struct {
	Angle float64 `json:"angle"`
	X     float64 `json:"x"`
	Z     float64 `json:"z"`
}

// Trace is a per-frame record of every orbiting body. Samples[i][b] is
// body b at Frames[i].
type Trace struct {
	Bodies  []string   `json:"bodies"`
	Frames  []int      `json:"frames"`
	Samples [][]Sample `json:"samples"`
}

// Record appends the current state of the scene's bodies. The body list
// is fixed by the first call.
func (t *Trace) Record(frame int, sc *scene.Scene) {
	if !sc.Live() {
		return
	}
	if t.Bodies == nil {
		for _, b := range sc.Bodies {
			t.Bodies = append(t.Bodies, b.Name())
		}
	}
	row := make([]Sample, len(t.Bodies))
	for i, name := range t.Bodies {
		if b, ok := sc.Body(name); ok {
			row[i] = Sample{Angle: b.Angle, X: b.Position.X(), Z: b.Position.Z()}
		}
	}
	t.Frames = append(t.Frames, frame)
	t.Samples = append(t.Samples, row)
}

func (t *Trace) Len() int { return len(t.Frames) }

func (t *Trace) index(body string) int {
	for i, name := range t.Bodies {
		if name == body {
			return i
		}
	}
	return -1
}

// Series extracts one field ("angle", "x" or "z") of one body. ok is false
// for an unknown body or field.
func (t *Trace) Series(body, field string) ([]float64, bool) {
	b := t.index(body)
	if b < 0 {
		return nil, false
	}
	var pick func(Sample) float64
	switch field {
	case "angle":
		pick = func(s Sample) float64 { return s.Angle }
	case "x":
		pick = func(s Sample) float64 { return s.X }
	case "z":
		pick = func(s Sample) float64 { return s.Z }
	default:
		return nil, false
	}
	out := make([]float64, len(t.Samples))
	for i, row := range t.Samples {
		out[i] = pick(row[b])
	}
	return out, true
}

func (t *Trace) writeCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{"frame"}
	for _, name := range t.Bodies {
		for _, f := range sampleFields {
			header = append(header, name+"."+f)
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for i, row := range t.Samples {
		rec := []string{strconv.Itoa(t.Frames[i])}
		for _, s := range row {
			rec = append(rec, format(s.Angle), format(s.X), format(s.Z))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type ExportData struct {
	Run   RunMetadata `json:"run"`
	Trace *Trace      `json:"trace"`
}

// ExportJSON writes a run and its trace as one JSON document. An empty
// path writes to stdout.
func ExportJSON(path string, meta RunMetadata, tr *Trace) error {
	var w io.Writer = os.Stdout
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Trace: tr})
}

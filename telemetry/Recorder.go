package telemetry

import (
	"encoding/gob"
	"log"
	"os"
)

// ScalarPoint is a single recorded scalar value
type ScalarPoint struct {
	Step  int
	Value float64
}

// HistogramPoint is a single recorded histogram summary
type HistogramPoint struct {
	Step    int
	Summary Summary
}

// Data holds everything a Recorder has recorded, keyed by tag
type Data struct {
	Scalars    map[string][]ScalarPoint
	Histograms map[string][]HistogramPoint
}

// Recorder is a Sink that accumulates all written statistics in memory
// and saves them to disk on demand. Histogram writes keep only the
// distribution Summary, not the raw values.
type Recorder struct {
	data     Data
	filename string
}

// NewRecorder returns a new Recorder which saves to filename
func NewRecorder(filename string) *Recorder {
	return &Recorder{
		data: Data{
			Scalars:    make(map[string][]ScalarPoint),
			Histograms: make(map[string][]HistogramPoint),
		},
		filename: filename,
	}
}

// Scalar implements the Sink interface
func (r *Recorder) Scalar(tag string, value float64, step int) error {
	r.data.Scalars[tag] = append(r.data.Scalars[tag],
		ScalarPoint{Step: step, Value: value})
	return nil
}

// Histogram implements the Sink interface
func (r *Recorder) Histogram(tag string, values []float64, step int) error {
	r.data.Histograms[tag] = append(r.data.Histograms[tag],
		HistogramPoint{Step: step, Summary: Summarize(values)})
	return nil
}

// Scalars returns the recorded scalar series for a tag
func (r *Recorder) Scalars(tag string) []ScalarPoint {
	return r.data.Scalars[tag]
}

// Histograms returns the recorded histogram series for a tag
func (r *Recorder) Histograms(tag string) []HistogramPoint {
	return r.data.Histograms[tag]
}

// Tags returns all tags with recorded scalar data
func (r *Recorder) Tags() []string {
	tags := make([]string, 0, len(r.data.Scalars))
	for tag := range r.data.Scalars {
		tags = append(tags, tag)
	}
	return tags
}

// Save saves all recorded data to disk
func (r *Recorder) Save() {
	file, err := os.Create(r.filename)
	if err != nil {
		log.Fatalf("could not open save file: %v", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err := en.Encode(r.data); err != nil {
		log.Fatalf("could not encode recorded data: %v", err)
	}
}

// LoadData loads and returns the data saved by a Recorder
func LoadData(filename string) Data {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatalf("could not open data file: %v", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	var data Data
	if err := dec.Decode(&data); err != nil {
		log.Fatalf("could not decode data: %v", err)
	}
	return data
}

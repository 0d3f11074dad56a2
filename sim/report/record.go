// Package report collects the per-round record stream produced by the
// simulator and exports it for metrics and visualization consumers.
// This package has no dependencies on sim/; it stores pure data types.
package report

// Record is one line of the append-only record stream: the state of a single
// node at the end of a single round.
type Record struct {
	Round            int
	AliveCount       int
	NodeID           int
	RemainingEnergyJ float64
}

// Recorder appends one Record per node per round. The stream is append-only;
// consumers read Records after the run completes.
type Recorder struct {
	Records []Record
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Records: make([]Record, 0)}
}

// Append adds a record to the stream.
func (r *Recorder) Append(record Record) {
	r.Records = append(r.Records, record)
}

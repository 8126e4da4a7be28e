package metrics

import "time"

// Window accumulates per-epoch training stats between log lines.
type Window struct {
	examples int
	hits     int
	elapsed  time.Duration
	epochs   int
	lastAcc  float64
}

// Record adds one finished epoch to the window.
func (w *Window) Record(examples, hits int, elapsed time.Duration) {
	w.examples += examples
	w.hits += hits
	w.elapsed += elapsed
	w.epochs++
	if examples > 0 {
		w.lastAcc = float64(hits) / float64(examples)
	}
}

// Snapshot returns aggregated metrics and resets the window.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{Epochs: w.epochs}
	if w.elapsed > 0 {
		snap.ExamplesPerSec = float64(w.examples) / w.elapsed.Seconds()
	}
	if w.epochs > 0 {
		snap.AvgEpochMS = (w.elapsed.Seconds() * 1000) / float64(w.epochs)
	}
	if w.examples > 0 {
		snap.WindowAccuracy = float64(w.hits) / float64(w.examples)
	}
	snap.LastAccuracy = w.lastAcc

	w.examples = 0
	w.hits = 0
	w.elapsed = 0
	w.epochs = 0
	return snap
}

// Snapshot represents loggable metrics.
type Snapshot struct {
	Epochs         int
	ExamplesPerSec float64
	AvgEpochMS     float64
	WindowAccuracy float64
	LastAccuracy   float64
}

package trainer

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"mlpclass/internal/dataset"
	"mlpclass/internal/metrics"
	"mlpclass/internal/model"
)

// RunConfig captures the knobs required by the training loop.
type RunConfig struct {
	// TimeBudget bounds wall-clock training time. It is checked after each
	// epoch, so zero still runs exactly one epoch.
	TimeBudget time.Duration
	LogEvery   int
}

// Result summarises a finished run.
type Result struct {
	RunID     string
	Epochs    int
	Hits      int
	Accuracy  float64
	Converged bool
	TimedOut  bool
	Elapsed   time.Duration
}

// Run sweeps examples in order, training on each, until every example of an
// epoch converged or the time budget is spent. When ctx is cancelled between
// epochs the partial result is returned with ctx.Err().
func Run(ctx context.Context, m model.Model, examples []dataset.Example, cfg RunConfig) (Result, error) {
	if len(examples) == 0 {
		return Result{}, errors.New("trainer: no training examples")
	}
	if cfg.TimeBudget < 0 {
		return Result{}, errors.Errorf("trainer: negative time budget %s", cfg.TimeBudget)
	}
	if cfg.LogEvery <= 0 {
		cfg.LogEvery = 100
	}

	res := Result{RunID: uuid.NewString()}
	log.Printf("run=%s training examples=%d budget=%s", res.RunID, len(examples), cfg.TimeBudget)

	var window metrics.Window
	start := time.Now()
	for {
		epochStart := time.Now()
		hits, converged, err := epoch(m, examples)
		if err != nil {
			return res, errors.Wrapf(err, "trainer: epoch %d", res.Epochs+1)
		}
		window.Record(len(examples), hits, time.Since(epochStart))

		res.Epochs++
		res.Hits = hits
		res.Accuracy = float64(hits) / float64(len(examples))
		res.Elapsed = time.Since(start)

		if res.Epochs%cfg.LogEvery == 0 {
			snap := window.Snapshot()
			log.Printf("run=%s epoch=%d accuracy=%.4f examples_per_sec=%.1f epoch_ms=%.3f",
				res.RunID,
				res.Epochs,
				snap.LastAccuracy,
				snap.ExamplesPerSec,
				snap.AvgEpochMS,
			)
		}

		if converged {
			res.Converged = true
			break
		}
		if res.Elapsed >= cfg.TimeBudget {
			res.TimedOut = true
			log.Printf("run=%s time limit exceeded: %s", res.RunID, cfg.TimeBudget)
			break
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
	}

	log.Printf("run=%s training finished epochs=%d accuracy=%.1f%% converged=%t",
		res.RunID, res.Epochs, res.Accuracy*100, res.Converged)
	return res, nil
}

// epoch trains on every example once and reports the hit count and whether
// every example converged.
func epoch(m model.Model, examples []dataset.Example) (int, bool, error) {
	hits := 0
	converged := true
	for i, ex := range examples {
		hit, err := m.TrainExample(ex.Features, ex.Label)
		if err != nil {
			return hits, false, errors.Wrapf(err, "example %d", i)
		}
		if hit {
			hits++
		}
		if !m.Converged() {
			converged = false
		}
	}
	return hits, converged, nil
}

package model

// Model is the training and inference surface the epoch driver works with.
type Model interface {
	// TrainExample runs one forward and backward pass and reports whether
	// the prediction before the update matched label.
	TrainExample(features []float64, label string) (bool, error)
	// Converged reports whether the most recent TrainExample pushed the
	// correct output neuron to the convergence threshold.
	Converged() bool
	Classify(features []float64) (string, error)
}

var _ Model = (*Network)(nil)

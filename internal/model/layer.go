package model

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// convergenceThreshold is the activation the correct output neuron must
// reach for an example to count as learned.
const convergenceThreshold = 0.95

// Kind distinguishes the three layer variants.
type Kind int

const (
	KindInput Kind = iota
	KindHidden
	KindOutput
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindHidden:
		return "hidden"
	case KindOutput:
		return "output"
	default:
		return "unknown"
	}
}

// layer holds the activation buffer of one stage of the chain. Hidden and
// output layers also own the weights that connect them to the layer before
// them; the predecessor itself is addressed by position in Network.layers.
type layer struct {
	kind        Kind
	activations *mat.VecDense
	weights     *mat.Dense    // predecessor width x width
	biases      *mat.VecDense // width
	names       []string      // output only, names[i] labels neuron i
}

func newInputLayer(width int) *layer {
	return &layer{
		kind:        KindInput,
		activations: mat.NewVecDense(width, nil),
	}
}

func newWeightedLayer(kind Kind, prevWidth, width int) *layer {
	return &layer{
		kind:        kind,
		activations: mat.NewVecDense(width, nil),
		weights:     mat.NewDense(prevWidth, width, nil),
		biases:      mat.NewVecDense(width, nil),
	}
}

func (l *layer) width() int {
	return l.activations.Len()
}

// randomize draws every weight and bias from Uniform(-1, 1).
func (l *layer) randomize(rng *rand.Rand) {
	for i := 0; i < l.biases.Len(); i++ {
		l.biases.SetVec(i, 2*rng.Float64()-1)
	}
	rows, cols := l.weights.Dims()
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			l.weights.Set(j, i, 2*rng.Float64()-1)
		}
	}
}

// setInput copies features into the input buffer untouched.
func (l *layer) setInput(features []float64) {
	for i, v := range features {
		l.activations.SetVec(i, v)
	}
}

// activate computes sigmoid(W^T a + b) from the predecessor's activations.
func (l *layer) activate(prev *layer) {
	l.activations.MulVec(l.weights.T(), prev.activations)
	l.activations.AddVec(l.activations, l.biases)
	for i := 0; i < l.activations.Len(); i++ {
		l.activations.SetVec(i, Sigmoid(l.activations.AtVec(i)))
	}
}

// outputError returns δO for the given correct neuron and whether that
// neuron reached the convergence threshold.
func (l *layer) outputError(correct int) (*mat.VecDense, bool) {
	n := l.width()
	delta := mat.NewVecDense(n, nil)
	converged := false
	for i := 0; i < n; i++ {
		o := l.activations.AtVec(i)
		t := 0.0
		if i == correct {
			t = 1
			converged = o >= convergenceThreshold
		}
		delta.SetVec(i, o*(1-o)*(t-o))
	}
	return delta, converged
}

// propagate applies delta to the layer's weights and biases and returns the
// error for the predecessor, computed from the weights as they were before
// the update. When upstream is false the predecessor is the input layer and
// no error is returned.
func (l *layer) propagate(prev *layer, delta *mat.VecDense, rate float64, upstream bool) *mat.VecDense {
	var prevErr *mat.VecDense
	if upstream {
		prevErr = mat.NewVecDense(prev.width(), nil)
		prevErr.MulVec(l.weights, delta)
		for j := 0; j < prevErr.Len(); j++ {
			a := prev.activations.AtVec(j)
			prevErr.SetVec(j, prevErr.AtVec(j)*a*(1-a))
		}
	}

	l.weights.RankOne(l.weights, rate, prev.activations, delta)
	// Biases are replaced, not accumulated.
	l.biases.ScaleVec(rate, delta)
	return prevErr
}

// best returns the index of the strictly largest activation above zero,
// first found on ties, or -1 when no activation exceeds zero.
func (l *layer) best() int {
	top := 0.0
	index := -1
	for i := 0; i < l.width(); i++ {
		if v := l.activations.AtVec(i); v > top {
			top = v
			index = i
		}
	}
	return index
}

// Sigmoid is the logistic function 1 / (1 + e^-x).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

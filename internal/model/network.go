package model

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Topology fixes the shape of a network for its whole lifetime.
type Topology struct {
	Inputs       int
	Hidden       []int
	Labels       []string
	LearningRate float64
}

// LayerParams carries explicit weights and biases for one hidden or output
// layer. Weights is indexed [predecessor neuron][neuron].
type LayerParams struct {
	Weights [][]float64
	Biases  []float64
}

// Network is a fully connected sigmoid perceptron trained online. A Network
// must not be used by more than one goroutine at a time.
type Network struct {
	layers    []*layer
	rate      float64
	labels    map[string]int
	converged bool
}

// New builds a network whose weights and biases are drawn from
// Uniform(-1, 1) using rng.
func New(topo Topology, rng *rand.Rand) (*Network, error) {
	if rng == nil {
		return nil, errors.Wrap(ErrInvalidTopology, "nil random source")
	}
	n, err := build(topo)
	if err != nil {
		return nil, err
	}
	for _, l := range n.layers[1:] {
		l.randomize(rng)
	}
	return n, nil
}

// NewWithParams builds a network from explicit weights and biases, one
// LayerParams per hidden layer followed by one for the output layer.
func NewWithParams(topo Topology, params []LayerParams) (*Network, error) {
	n, err := build(topo)
	if err != nil {
		return nil, err
	}
	if len(params) != len(n.layers)-1 {
		return nil, errors.Wrapf(ErrInvalidTopology, "got params for %d layers, want %d", len(params), len(n.layers)-1)
	}
	for k, p := range params {
		l := n.layers[k+1]
		rows, cols := l.weights.Dims()
		if len(p.Biases) != cols {
			return nil, errors.Wrapf(ErrInvalidTopology, "layer %d: %d biases, want %d", k+1, len(p.Biases), cols)
		}
		if len(p.Weights) != rows {
			return nil, errors.Wrapf(ErrInvalidTopology, "layer %d: %d weight rows, want %d", k+1, len(p.Weights), rows)
		}
		for j, row := range p.Weights {
			if len(row) != cols {
				return nil, errors.Wrapf(ErrInvalidTopology, "layer %d: weight row %d has %d columns, want %d", k+1, j, len(row), cols)
			}
			l.weights.SetRow(j, row)
		}
		for i, b := range p.Biases {
			l.biases.SetVec(i, b)
		}
	}
	return n, nil
}

func build(topo Topology) (*Network, error) {
	if topo.Inputs < 1 {
		return nil, errors.Wrapf(ErrInvalidTopology, "input width %d", topo.Inputs)
	}
	if !(topo.LearningRate > 0) || math.IsInf(topo.LearningRate, 0) {
		return nil, errors.Wrapf(ErrInvalidTopology, "learning rate %v", topo.LearningRate)
	}
	if len(topo.Labels) == 0 {
		return nil, errors.Wrap(ErrInvalidTopology, "no labels")
	}
	labels := make(map[string]int, len(topo.Labels))
	for i, name := range topo.Labels {
		if _, dup := labels[name]; dup {
			return nil, errors.Wrapf(ErrInvalidTopology, "duplicate label %q", name)
		}
		labels[name] = i
	}

	layers := make([]*layer, 0, len(topo.Hidden)+2)
	layers = append(layers, newInputLayer(topo.Inputs))
	prev := topo.Inputs
	for k, width := range topo.Hidden {
		if width < 1 {
			return nil, errors.Wrapf(ErrInvalidTopology, "hidden layer %d width %d", k+1, width)
		}
		layers = append(layers, newWeightedLayer(KindHidden, prev, width))
		prev = width
	}
	out := newWeightedLayer(KindOutput, prev, len(topo.Labels))
	out.names = append([]string(nil), topo.Labels...)
	layers = append(layers, out)

	return &Network{
		layers: layers,
		rate:   topo.LearningRate,
		labels: labels,
	}, nil
}

// TrainExample runs a forward pass on features, back-propagates the error
// against label and reports whether the most active output neuron was the
// one for label. No state changes when an error is returned.
func (n *Network) TrainExample(features []float64, label string) (bool, error) {
	correct, ok := n.labels[label]
	if !ok {
		return false, errors.Wrapf(ErrUnknownLabel, "label %q", label)
	}
	if err := n.forward(features); err != nil {
		return false, err
	}
	n.backward(correct)
	return n.output().best() == correct, nil
}

// Classify runs a forward pass and returns the label of the most active
// output neuron. The label is empty when no output activation exceeds zero.
func (n *Network) Classify(features []float64) (string, error) {
	if err := n.forward(features); err != nil {
		return "", err
	}
	out := n.output()
	best := out.best()
	if best < 0 {
		return "", nil
	}
	return out.names[best], nil
}

// Converged reports whether the correct output neuron reached the
// convergence threshold during the most recent TrainExample.
func (n *Network) Converged() bool {
	return n.converged
}

// Labels returns the label of each output neuron, in neuron order.
func (n *Network) Labels() []string {
	return append([]string(nil), n.output().names...)
}

// Inputs returns the width of the input layer.
func (n *Network) Inputs() int {
	return n.layers[0].width()
}

// Depth returns the number of layers including input and output.
func (n *Network) Depth() int {
	return len(n.layers)
}

// Activations returns a copy of the activation buffer of layer i, where 0 is
// the input layer and Depth()-1 the output layer.
func (n *Network) Activations(i int) []float64 {
	return mat.Col(nil, 0, n.layers[i].activations)
}

func (n *Network) output() *layer {
	return n.layers[len(n.layers)-1]
}

func (n *Network) forward(features []float64) error {
	in := n.layers[0]
	if len(features) != in.width() {
		return errors.Wrapf(ErrShapeMismatch, "got %d features, want %d", len(features), in.width())
	}
	in.setInput(features)
	for i := 1; i < len(n.layers); i++ {
		n.layers[i].activate(n.layers[i-1])
	}
	return nil
}

// backward starts propagation at the output layer and walks the chain down
// to the first hidden layer. The input layer has nothing to update.
func (n *Network) backward(correct int) {
	delta, converged := n.output().outputError(correct)
	n.converged = converged
	for i := len(n.layers) - 1; i >= 1; i-- {
		delta = n.layers[i].propagate(n.layers[i-1], delta, n.rate, i > 1)
	}
}

package model

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// DumpMask selects which parts of each layer Dump writes.
type DumpMask struct {
	Neurons bool
	Biases  bool
	Weights bool
}

// ParseDumpMask reads a three character selector such as "011": the first
// character enables neurons, the second biases, the third weights.
func ParseDumpMask(s string) (DumpMask, error) {
	if len(s) != 3 {
		return DumpMask{}, errors.Errorf("dump mask %q: want 3 characters", s)
	}
	var bits [3]bool
	for i := 0; i < 3; i++ {
		switch s[i] {
		case '0':
		case '1':
			bits[i] = true
		default:
			return DumpMask{}, errors.Errorf("dump mask %q: character %d is not 0 or 1", s, i)
		}
	}
	return DumpMask{Neurons: bits[0], Biases: bits[1], Weights: bits[2]}, nil
}

// Dump writes a textual view of every layer. It only reads network state.
func (n *Network) Dump(w io.Writer, mask DumpMask) error {
	bw := bufio.NewWriter(w)
	for i, l := range n.layers {
		switch l.kind {
		case KindInput:
			if mask.Neurons {
				fmt.Fprintln(bw, "INPUT LAYER")
				for k := 0; k < l.width(); k++ {
					fmt.Fprintf(bw, "Neuron %d : %v\n", k, l.activations.AtVec(k))
				}
			}
		case KindHidden:
			fmt.Fprintf(bw, "HIDDEN LAYER %d\n", i)
			l.dumpParams(bw, mask, func(k int) string { return fmt.Sprintf("Neuron %d", k) })
		case KindOutput:
			fmt.Fprintln(bw, "OUTPUT LAYER")
			l.dumpParams(bw, mask, func(k int) string { return l.names[k] })
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func (l *layer) dumpParams(w io.Writer, mask DumpMask, neuron func(int) string) {
	if mask.Neurons {
		for k := 0; k < l.width(); k++ {
			fmt.Fprintf(w, "%s : %.6f\n", neuron(k), l.activations.AtVec(k))
		}
		if mask.Biases {
			fmt.Fprintln(w)
		}
	}
	if mask.Biases {
		for k := 0; k < l.width(); k++ {
			fmt.Fprintf(w, "Bias %d : %.6f\n", k, l.biases.AtVec(k))
		}
		if mask.Weights {
			fmt.Fprintln(w)
		}
	}
	if mask.Weights {
		rows, cols := l.weights.Dims()
		for j := 0; j < rows; j++ {
			for k := 0; k < cols; k++ {
				fmt.Fprintf(w, "Weight %d->%d : %.6f\n", j, k, l.weights.At(j, k))
			}
			fmt.Fprintln(w)
		}
	}
}

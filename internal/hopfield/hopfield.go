// Package hopfield implements the classical Hopfield network (Hopfield
// 1982): Hebbian outer-product storage of polar patterns and threshold
// recall, synchronous or asynchronous.
package hopfield

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrBadSize    = errors.New("hopfield: network size must be positive")
	ErrBadPattern = errors.New("hopfield: pattern entries must be -1 or +1")
	ErrDimension  = errors.New("hopfield: pattern length does not match network size")
)

// Network stores polar {-1,+1} patterns in a symmetric weight matrix with
// zero diagonal.
type Network struct {
	size      int
	weights   *mat.Dense
	threshold []float64
	stored    int
}

func New(size int) (*Network, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	return &Network{
		size:      size,
		weights:   mat.NewDense(size, size, nil),
		threshold: make([]float64, size),
	}, nil
}

func (n *Network) Size() int   { return n.size }
func (n *Network) Stored() int { return n.stored }

// Capacity is the approximate number of patterns retrievable with a small
// error rate, 0.14 per unit.
func (n *Network) Capacity() int {
	return int(0.14 * float64(n.size))
}

func (n *Network) checkPattern(p []float64) error {
	if len(p) != n.size {
		return fmt.Errorf("%w: got %d, want %d", ErrDimension, len(p), n.size)
	}
	for _, v := range p {
		if v != 1 && v != -1 {
			return fmt.Errorf("%w: got %g", ErrBadPattern, v)
		}
	}
	return nil
}

// Train adds the pattern's outer product to the weights. No unit connects
// to itself, so the diagonal stays zero; symmetry follows from the outer
// product.
func (n *Network) Train(pattern []float64) error {
	if err := n.checkPattern(pattern); err != nil {
		return err
	}
	v := mat.NewVecDense(n.size, pattern)
	var outer mat.Dense
	outer.Outer(1, v, v)
	for i := 0; i < n.size; i++ {
		outer.Set(i, i, 0)
	}
	n.weights.Add(n.weights, &outer)
	n.stored++
	return nil
}

// localField is the weighted input to unit i.
func (n *Network) localField(state []float64, i int) float64 {
	field := 0.0
	for j := 0; j < n.size; j++ {
		field += n.weights.At(i, j) * state[j]
	}
	return field
}

// RecallSync updates every unit simultaneously and returns the new state.
func (n *Network) RecallSync(state []float64) ([]float64, error) {
	if err := n.checkPattern(state); err != nil {
		return nil, err
	}
	out := make([]float64, n.size)
	for i := range out {
		if n.localField(state, i) >= n.threshold[i] {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out, nil
}

// RecallAsync updates one random unit per iteration, converging gradually.
func (n *Network) RecallAsync(state []float64, iterations int, rng *rand.Rand) ([]float64, error) {
	if err := n.checkPattern(state); err != nil {
		return nil, err
	}
	out := append([]float64(nil), state...)
	for iter := 0; iter < iterations; iter++ {
		i := rng.Intn(n.size)
		if n.localField(out, i) >= n.threshold[i] {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out, nil
}

// Energy is the Hopfield energy; recall never increases it.
func (n *Network) Energy(state []float64) (float64, error) {
	if err := n.checkPattern(state); err != nil {
		return 0, err
	}
	e := 0.0
	for i := 0; i < n.size; i++ {
		e += n.threshold[i] * state[i]
		for j := 0; j < n.size; j++ {
			e -= n.weights.At(i, j) * state[i] * state[j] / 2
		}
	}
	return e, nil
}

// Overlap is the normalized agreement between two polar states, 1 for
// identical and -1 for inverted.
func Overlap(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum / float64(len(a))
}

// Corrupt flips each entry with the given probability, for recall
// exercises.
func Corrupt(pattern []float64, flipProb float64, rng *rand.Rand) []float64 {
	out := append([]float64(nil), pattern...)
	for i := range out {
		if rng.Float64() < flipProb {
			out[i] = -out[i]
		}
	}
	return out
}

// RandomPattern draws a uniform polar pattern.
func RandomPattern(size int, rng *rand.Rand) []float64 {
	p := make([]float64, size)
	for i := range p {
		if rng.Float64() < 0.5 {
			p[i] = 1
		} else {
			p[i] = -1
		}
	}
	return p
}

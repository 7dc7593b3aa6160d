// Package matrix provides a dense, row-major n×n float64 matrix used as the
// cost-source abstraction for the route optimizer: distance and time
// matrices are both instances of Dense.
//
// Adapted from the Matrix/Dense split in the upstream lvlath library: here
// the two are collapsed into one concrete type since the optimizer core
// never needs a second backing implementation, only the shape guarantees
// (square, finite, non-negative off an explicit zero diagonal).
package matrix

import "errors"

var (
	// ErrBadShape is returned when a requested shape is invalid (n<=0).
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates an index outside [0,n).
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrNonSquare signals a break of the square, zero-diagonal shape
	// contract; ValidateSquareNonNegativeZeroDiag returns it for a non-zero
	// diagonal entry.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNaNInf signals a NaN or ±Inf value where a finite value is required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNegative signals a negative weight where only non-negative is allowed.
	ErrNegative = errors.New("matrix: negative value encountered")
)

// Dense is a concrete row-major n×n matrix of float64 weights.
type Dense struct {
	n    int
	data []float64
}

// NewDense allocates an n×n Dense matrix initialized to zero.
func NewDense(n int) (*Dense, error) {
	if n <= 0 {
		return nil, ErrBadShape
	}
	return &Dense{n: n, data: make([]float64, n*n)}, nil
}

// N returns the matrix dimension (rows == cols == N()).
func (m *Dense) N() int { return m.n }

func (m *Dense) index(i, j int) (int, error) {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		return 0, ErrOutOfRange
	}
	return i*m.n + j, nil
}

// At returns the value at (i,j).
func (m *Dense) At(i, j int) (float64, error) {
	idx, err := m.index(i, j)
	if err != nil {
		return 0, err
	}
	return m.data[idx], nil
}

// Set assigns v at (i,j).
func (m *Dense) Set(i, j int, v float64) error {
	idx, err := m.index(i, j)
	if err != nil {
		return err
	}
	m.data[idx] = v
	return nil
}

// Clone returns a deep copy, independent of the original.
func (m *Dense) Clone() *Dense {
	cp := make([]float64, len(m.data))
	copy(cp, m.data)
	return &Dense{n: m.n, data: cp}
}

// ValidateSquareNonNegativeZeroDiag checks the invariants shared by distance
// and time matrices per the problem instance contract: square, finite,
// non-negative, zero diagonal.
func (m *Dense) ValidateSquareNonNegativeZeroDiag() error {
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			v := m.data[i*m.n+j]
			if isNaNOrInf(v) {
				return ErrNaNInf
			}
			if v < 0 {
				return ErrNegative
			}
			if i == j && v != 0 {
				return ErrNonSquare
			}
		}
	}
	return nil
}

func isNaNOrInf(v float64) bool {
	return v != v || v > maxFinite || v < -maxFinite
}

const maxFinite = 1.7976931348623157e+308

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qroute/optimizer/internal/matrix"
)

func TestNewDense_RejectsNonPositiveN(t *testing.T) {
	_, err := matrix.NewDense(0)
	require.ErrorIs(t, err, matrix.ErrBadShape)
	_, err = matrix.NewDense(-1)
	require.ErrorIs(t, err, matrix.ErrBadShape)
}

func TestDense_AtSetRoundTrip(t *testing.T) {
	m, err := matrix.NewDense(3)
	require.NoError(t, err)
	require.NoError(t, m.Set(0, 2, 4.5))
	v, err := m.At(0, 2)
	require.NoError(t, err)
	require.Equal(t, 4.5, v)
}

func TestDense_OutOfRange(t *testing.T) {
	m, _ := matrix.NewDense(2)
	_, err := m.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(-1, 0, 1), matrix.ErrOutOfRange)
}

func TestDense_Clone_IsIndependent(t *testing.T) {
	m, _ := matrix.NewDense(2)
	_ = m.Set(0, 1, 9)
	cp := m.Clone()
	_ = m.Set(0, 1, 100)
	v, _ := cp.At(0, 1)
	require.Equal(t, 9.0, v)
}

func TestValidate_RejectsNaNInf(t *testing.T) {
	m, _ := matrix.NewDense(2)
	_ = m.Set(0, 1, math.NaN())
	require.ErrorIs(t, m.ValidateSquareNonNegativeZeroDiag(), matrix.ErrNaNInf)

	m2, _ := matrix.NewDense(2)
	_ = m2.Set(0, 1, math.Inf(1))
	require.ErrorIs(t, m2.ValidateSquareNonNegativeZeroDiag(), matrix.ErrNaNInf)
}

func TestValidate_RejectsNegative(t *testing.T) {
	m, _ := matrix.NewDense(2)
	_ = m.Set(1, 0, -3)
	require.ErrorIs(t, m.ValidateSquareNonNegativeZeroDiag(), matrix.ErrNegative)
}

func TestValidate_RejectsNonZeroDiagonal(t *testing.T) {
	m, _ := matrix.NewDense(2)
	_ = m.Set(1, 1, 5)
	require.ErrorIs(t, m.ValidateSquareNonNegativeZeroDiag(), matrix.ErrNonSquare)
}

func TestValidate_AllowsAsymmetricOffDiagonal(t *testing.T) {
	m, _ := matrix.NewDense(3)
	_ = m.Set(0, 1, 5)
	_ = m.Set(1, 0, 9)
	require.NoError(t, m.ValidateSquareNonNegativeZeroDiag())
}

package dng

import "gonum.org/v1/gonum/mat"

// IdentityLikeMatrix returns the fallback camera matrix for a channel count:
// 3×3 identity for 3 channels, and for 4 channels a 4×3 whose first row is
// zero and whose remaining rows form the identity. Other counts return nil.
func IdentityLikeMatrix(channels int) *mat.Dense {
	switch channels {
	case 3:
		return mat.NewDense(3, 3, []float64{
			1, 0, 0,
			0, 1, 0,
			0, 0, 1,
		})
	case 4:
		return mat.NewDense(4, 3, []float64{
			0, 0, 0,
			1, 0, 0,
			0, 1, 0,
			0, 0, 1,
		})
	default:
		return nil
	}
}

// IsZeroMatrix reports whether every entry of m is exactly zero.
func IsZeroMatrix(m mat.Matrix) bool {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return true
	}
	return mat.Equal(m, mat.NewDense(r, c, nil))
}

// MatrixRows copies m into a row slice, handy for serializers.
func MatrixRows(m mat.Matrix) [][]float64 {
	if m == nil {
		return nil
	}
	r, c := m.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		rows[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			rows[i][j] = m.At(i, j)
		}
	}
	return rows
}

// 4x4 affine transformations. We only need multiply, invert and
// apply-to-point, so there is no reason to pull in a big linear
// algebra library. Everything is float64. Coordinates in files are
// float32, but the orthogonalisation matrices involve divisions by
// sines of cell angles and we do not want to lose digits there.

package xtal

import (
	"math"
	"strconv"
)

// Matrix4 is a 4x4 affine transformation, row major. The last row of
// anything well formed is 0 0 0 1.
type Matrix4 [4][4]float64

// Identity returns a fresh identity matrix.
func Identity() Matrix4 {
	var m Matrix4
	m[0][0], m[1][1], m[2][2], m[3][3] = 1, 1, 1, 1
	return m
}

// IsIdentity says if a matrix is exactly the identity. Exactly means
// exactly. Operator zero of a space group must pass this test.
func (m *Matrix4) IsIdentity() bool {
	id := Identity()
	return *m == id
}

// Mul returns m times n, so the transformation n happens first if you
// are transforming column vectors.
func (m *Matrix4) Mul(n *Matrix4) Matrix4 {
	var r Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += m[i][k] * n[k][j]
			}
			r[i][j] = s
		}
	}
	return r
}

// Transform applies the affine transformation to a point.
func (m *Matrix4) Transform(x, y, z float64) (float64, float64, float64) {
	xx := m[0][0]*x + m[0][1]*y + m[0][2]*z + m[0][3]
	yy := m[1][0]*x + m[1][1]*y + m[1][2]*z + m[1][3]
	zz := m[2][0]*x + m[2][1]*y + m[2][2]*z + m[2][3]
	return xx, yy, zz
}

// det3 is the determinant of the rotation part.
func (m *Matrix4) det3() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// AffineInverse inverts the matrix, treating it as rotation plus
// translation. The rotation part is inverted by cofactors and the
// translation becomes -R⁻¹ t. A singular rotation part gets you an
// error, not garbage.
func (m *Matrix4) AffineInverse() (Matrix4, error) {
	d := m.det3()
	if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return Matrix4{}, Error("cannot invert, determinant " +
			strconv.FormatFloat(d, 'g', -1, 64))
	}
	var r Matrix4
	r[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) / d
	r[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) / d
	r[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) / d
	r[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) / d
	r[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) / d
	r[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) / d
	r[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) / d
	r[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) / d
	r[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) / d
	for i := 0; i < 3; i++ {
		r[i][3] = -(r[i][0]*m[0][3] + r[i][1]*m[1][3] + r[i][2]*m[2][3])
	}
	r[3][3] = 1
	return r, nil
}

// Ok checks that a matrix looks like an affine transformation. The
// last row must be 0 0 0 1 and every entry must be finite.
func (m *Matrix4) Ok() bool {
	if m[3][0] != 0 || m[3][1] != 0 || m[3][2] != 0 || m[3][3] != 1 {
		return false
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math.IsNaN(m[i][j]) || math.IsInf(m[i][j], 0) {
				return false
			}
		}
	}
	return true
}

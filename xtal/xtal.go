// Package xtal holds the crystallographic side of a structure. A
// unit cell, a space group with its symmetry operators and maybe a
// set of NCS operators. The one real calculation is turning an
// operator given on the crystal axes into one on orthonormal axes.
// The axis convention is the PDB one (NCODE = 1), a along x, b in
// the xy plane.
// Where the full operator tables for all 230 space groups come from
// is somebody else's problem. We are given a symbol, a multiplicity
// and a list of operators and we check they are consistent.

package xtal

import (
	"math"
	"strconv"
)

type Error string

func (e Error) Error() string { return string(e) }

// A CrystalCell is the six numbers from a CRYST1 record or the _cell
// category. Lengths in Angstrom, angles in degrees.
type CrystalCell struct {
	A, B, C            float64
	Alpha, Beta, Gamma float64
}

// angleOk says if a cell angle is usable. Zero or 180 degrees would
// put two axes on top of each other and the orthogonalisation
// matrix would be singular.
func angleOk(ang float64) bool {
	return ang > 0 && ang < 180 && !math.IsNaN(ang)
}

// NewCrystalCell checks the parameters before letting anyone
// calculate with them. Broken cells should fail here, loudly, and
// not as NaN coordinates three calls later.
func NewCrystalCell(a, b, c, alpha, beta, gamma float64) (*CrystalCell, error) {
	for _, x := range []float64{a, b, c} {
		if x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, Error("cell axis must be positive, got " +
				strconv.FormatFloat(x, 'g', -1, 64))
		}
	}
	for _, x := range []float64{alpha, beta, gamma} {
		if !angleOk(x) {
			return nil, Error("cell angle must be in (0,180), got " +
				strconv.FormatFloat(x, 'g', -1, 64))
		}
	}
	// The angles must also fit together. Three angles of 170 pass
	// the individual checks but no parallelepiped has them, and the
	// volume term under the square root goes negative.
	degToRad := math.Pi / 180
	ca := math.Cos(alpha * degToRad)
	cb := math.Cos(beta * degToRad)
	cg := math.Cos(gamma * degToRad)
	if v := 1 - ca*ca - cb*cb - cg*cg + 2*ca*cb*cg; v <= 0 {
		return nil, Error("cell angles " +
			strconv.FormatFloat(alpha, 'g', -1, 64) + " " +
			strconv.FormatFloat(beta, 'g', -1, 64) + " " +
			strconv.FormatFloat(gamma, 'g', -1, 64) +
			" do not describe a real cell")
	}
	cell := CrystalCell{A: a, B: b, C: c, Alpha: alpha, Beta: beta, Gamma: gamma}
	return &cell, nil
}

// orthMatrix is the fractional to orthonormal matrix as a 4x4 with
// no translation. This is a pure function of the six cell numbers.
func (cell *CrystalCell) orthMatrix() Matrix4 {
	degToRad := math.Pi / 180
	ca := math.Cos(cell.Alpha * degToRad)
	cb := math.Cos(cell.Beta * degToRad)
	cg := math.Cos(cell.Gamma * degToRad)
	sg := math.Sin(cell.Gamma * degToRad)
	v := math.Sqrt(1 - ca*ca - cb*cb - cg*cg + 2*ca*cb*cg)

	m := Identity()
	m[0][0] = cell.A
	m[0][1] = cell.B * cg
	m[0][2] = cell.C * cb
	m[1][1] = cell.B * sg
	m[1][2] = cell.C * (ca - cb*cg) / sg
	m[2][2] = cell.C * v / sg
	return m
}

// TransfToOrthonormal takes an operator on the crystal axes
// (fractional coordinates) and expresses it on orthonormal axes,
// M F M⁻¹ with M the orthogonalisation matrix. For sensible cells
// (angles checked by NewCrystalCell) M is never singular, so the
// error return is a precondition failure, not something a caller
// needs a recovery plan for.
func (cell *CrystalCell) TransfToOrthonormal(f *Matrix4) (Matrix4, error) {
	m := cell.orthMatrix()
	minv, err := m.AffineInverse()
	if err != nil {
		return Matrix4{}, err
	}
	t := f.Mul(&minv)
	return m.Mul(&t), nil
}

// A SpaceGroup is a symbol plus its operators in fractional
// coordinates. Operator 0 is the identity, always.
type SpaceGroup struct {
	Symbol string
	ops    []Matrix4
}

// NewSpaceGroup builds a space group after checking that the
// operator list matches the declared multiplicity and starts with
// the identity.
func NewSpaceGroup(symbol string, multiplicity int, ops []Matrix4) (*SpaceGroup, error) {
	if len(ops) != multiplicity {
		return nil, Error(symbol + ": got " + strconv.Itoa(len(ops)) +
			" operators, multiplicity says " + strconv.Itoa(multiplicity))
	}
	if len(ops) == 0 || !ops[0].IsIdentity() {
		return nil, Error(symbol + ": operator 0 is not the identity")
	}
	for i := range ops {
		if !ops[i].Ok() {
			return nil, Error(symbol + ": operator " + strconv.Itoa(i) +
				" is not a well formed affine transformation")
		}
	}
	sg := SpaceGroup{Symbol: symbol, ops: ops}
	return &sg, nil
}

// P1 is the one group everybody needs. A structure with no symmetry
// record still lives in P 1.
func P1() *SpaceGroup {
	sg, _ := NewSpaceGroup("P 1", 1, []Matrix4{Identity()})
	return sg
}

// NumOperators says how many symmetry operators the group has.
func (sg *SpaceGroup) NumOperators() int { return len(sg.ops) }

// Transformation returns operator i in fractional coordinates. A
// copy, so nobody can scribble on the group's own table.
func (sg *SpaceGroup) Transformation(i int) Matrix4 { return sg.ops[i] }

// Info is the crystallographic part of a structure's header. The
// NCS operators are only present if the file declared them and the
// "given" ones are never stored.
type Info struct {
	Cell         *CrystalCell
	SG           *SpaceGroup
	NcsOperators []Matrix4
}

// Accessors for the individual cell parameters. Callers poking at
// one number should not have to know about the cell struct.
func (inf *Info) GetA() float64     { return inf.Cell.A }
func (inf *Info) GetB() float64     { return inf.Cell.B }
func (inf *Info) GetC() float64     { return inf.Cell.C }
func (inf *Info) GetAlpha() float64 { return inf.Cell.Alpha }
func (inf *Info) GetBeta() float64  { return inf.Cell.Beta }
func (inf *Info) GetGamma() float64 { return inf.Cell.Gamma }

// TransformationsOrthonormal gives every space group operator on
// orthonormal axes, one per operator, identity first. The identity
// is copied straight over rather than run through the conversion,
// so index 0 is exact and not identity-plus-rounding.
func (inf *Info) TransformationsOrthonormal() ([]Matrix4, error) {
	n := inf.SG.NumOperators()
	transfs := make([]Matrix4, n)
	transfs[0] = inf.SG.Transformation(0)
	for i := 1; i < n; i++ {
		f := inf.SG.Transformation(i)
		t, err := inf.Cell.TransfToOrthonormal(&f)
		if err != nil {
			return nil, err
		}
		transfs[i] = t
	}
	return transfs, nil
}

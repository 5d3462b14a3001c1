// Package quat rebuilds quaternary structure. Given the asymmetric
// unit and the ordered transformations from the header, it stamps
// out transformed copies of the named chains and collects them in a
// new structure. Crystallographers deposit one copy of a chain and
// a recipe. We run the recipe.

package quat

import (
	"strconv"

	"github.com/andrew-torda/matrix"
	"github.com/andrew-torda/structure/pdb/cmmn"
)

type Error string

func (e Error) Error() string { return string(e) }

// A builder carries the one piece of reusable state, the staging
// matrix the coordinates pass through. The zero value is ready to
// use.
type builder struct {
	stage matrix.FMatrix2d
}

// applyToChain moves every atom of the chain by m. The coordinates
// go through the staging matrix, which reuses its backing store
// across calls, so rebuilding a virus capsid does not allocate one
// scratch buffer per chain per transform.
// Broken atoms stay broken. Transforming a missing coordinate
// would turn a marker value into a plausible looking position.
func (b *builder) applyToChain(ch *cmmn.Chain, m *cmmn.Transform) {
	for _, xyzs := range ch.CoordSet {
		st := b.stage.Resize(len(xyzs), 3)
		for i, x := range xyzs {
			st.Mat[i][0], st.Mat[i][1], st.Mat[i][2] = x.X, x.Y, x.Z
		}
		for i := range xyzs {
			if !xyzs[i].Ok() {
				continue
			}
			x, y, z := m.Mat.Transform(
				float64(st.Mat[i][0]), float64(st.Mat[i][1]), float64(st.Mat[i][2]))
			xyzs[i] = cmmn.Xyz{X: float32(x), Y: float32(y), Z: float32(z)}
		}
	}
}

// Rebuild applies each transformation, in order, to a deep copy of
// the chains it names and appends the copies to a fresh structure.
// An identity transformation still produces a copy. A biological
// assembly with four copies of chain A really does contain four
// distinct chains, one of which happens not to move.
// The result inherits the title and crystallographic info of the
// asymmetric unit but none of its chain list, and shares no
// coordinate storage with it. The same input always gives bit
// identical output.
func Rebuild(asym *cmmn.Structure, transforms []cmmn.Transform) (*cmmn.Structure, error) {
	out := cmmn.Structure{
		Code: asym.Code,
		Hdr: cmmn.Header{
			Title:   asym.Hdr.Title,
			DepDate: asym.Hdr.DepDate,
			Xtal:    asym.Hdr.Xtal,
		},
	}
	var b builder
	seen := make(map[string]int)   // times each chain id has been used
	used := make(map[string]bool)  // names already in the output
	for i := range transforms {
		t := &transforms[i]
		if !t.Mat.Ok() {
			return nil, Error("transformation " + strconv.Itoa(i) +
				" is not a well formed affine matrix")
		}
		for _, chainID := range t.ChainIDs {
			src := asym.Chain(chainID)
			if src == nil {
				return nil, Error("transformation " + strconv.Itoa(i) +
					" names chain " + chainID + ", not in " + asym.Code)
			}
			cp := src.Copy()
			b.applyToChain(&cp, t)
			seen[chainID]++
			name := chainID
			if seen[chainID] > 1 {
				name = chainID + "_" + strconv.Itoa(seen[chainID])
			}
			// an asymmetric unit can itself hold a chain called
			// A_2, so keep counting until the name is free
			for used[name] {
				seen[chainID]++
				name = chainID + "_" + strconv.Itoa(seen[chainID])
			}
			cp.ChainID = name
			used[name] = true
			out.Chains = append(out.Chains, cp)
		}
	}
	return &out, nil
}

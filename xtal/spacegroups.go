// A few space groups, keyed by Hermann-Mauguin symbol. This is not
// the full set of 230. The real tables come from outside. These are
// the groups that cover most deposited protein structures, enough
// for a reader to attach something sensible to a header, and P 1 as
// the fallback when a file says nothing.

package xtal

// op builds an operator from a 3x3 rotation and a translation,
// everything fractional.
func op(r [3][3]float64, t [3]float64) Matrix4 {
	m := Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = r[i][j]
		}
		m[i][3] = t[i]
	}
	return m
}

var (
	rotID  = [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	rotInv = [3][3]float64{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}}
	rot2y  = [3][3]float64{{-1, 0, 0}, {0, 1, 0}, {0, 0, -1}}
	rot2z  = [3][3]float64{{-1, 0, 0}, {0, -1, 0}, {0, 0, 1}}
	rot2x  = [3][3]float64{{1, 0, 0}, {0, -1, 0}, {0, 0, -1}}
)

// knownGroups is filled once at startup. The operator lists are the
// standard settings from the international tables.
var knownGroups = map[string]*SpaceGroup{}

func mustGroup(symbol string, ops []Matrix4) {
	sg, err := NewSpaceGroup(symbol, len(ops), ops)
	if err != nil {
		panic("space group table is broken: " + err.Error())
	}
	knownGroups[symbol] = sg
}

func init() {
	mustGroup("P 1", []Matrix4{op(rotID, [3]float64{0, 0, 0})})
	mustGroup("P -1", []Matrix4{
		op(rotID, [3]float64{0, 0, 0}),
		op(rotInv, [3]float64{0, 0, 0}),
	})
	mustGroup("P 1 2 1", []Matrix4{
		op(rotID, [3]float64{0, 0, 0}),
		op(rot2y, [3]float64{0, 0, 0}),
	})
	mustGroup("P 1 21 1", []Matrix4{
		op(rotID, [3]float64{0, 0, 0}),
		op(rot2y, [3]float64{0, 0.5, 0}),
	})
	mustGroup("C 1 2 1", []Matrix4{
		op(rotID, [3]float64{0, 0, 0}),
		op(rot2y, [3]float64{0, 0, 0}),
		op(rotID, [3]float64{0.5, 0.5, 0}),
		op(rot2y, [3]float64{0.5, 0.5, 0}),
	})
	mustGroup("P 2 2 2", []Matrix4{
		op(rotID, [3]float64{0, 0, 0}),
		op(rot2z, [3]float64{0, 0, 0}),
		op(rot2y, [3]float64{0, 0, 0}),
		op(rot2x, [3]float64{0, 0, 0}),
	})
	mustGroup("P 21 21 21", []Matrix4{
		op(rotID, [3]float64{0, 0, 0}),
		op(rot2z, [3]float64{0.5, 0, 0.5}),
		op(rot2y, [3]float64{0, 0.5, 0.5}),
		op(rot2x, [3]float64{0.5, 0.5, 0}),
	})
}

// LookupSpaceGroup finds a group by its Hermann-Mauguin symbol,
// "P 21 21 21" and the like. The second return says if we know it.
func LookupSpaceGroup(symbol string) (*SpaceGroup, bool) {
	sg, ok := knownGroups[symbol]
	return sg, ok
}

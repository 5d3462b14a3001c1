// Package cmmn has the common definitions for coordinates and
// structures. Everything above it (the readers, the resolver, the
// assembly builder) talks in these types, so this package depends
// on nothing except xtal.

package cmmn

import (
	"math"
	"sort"

	"github.com/andrew-torda/structure/xtal"
)

type Xyz struct{ X, Y, Z float32 }
type XyzSl []Xyz // xyz's are coordinates
type CoordSet map[string]XyzSl

var BrokenXyz = Xyz{math.MaxFloat32, 0, -math.MaxFloat32}

var BrokenResNum int = -9999

func (xyz *Xyz) Ok() bool {
	return *xyz != BrokenXyz
}

// A ResID is a residue number as it appears in a file. The author
// can stick a letter after the number, so 100, 100A, 100B are
// consecutive residues.
type ResID struct {
	Num int
	Ins byte // 0 if there is none
}

// insRank makes a missing insertion code sort before 'A'.
func insRank(b byte) int {
	if b == 0 || b == ' ' {
		return 0
	}
	return int(b)
}

// Cmp orders residue ids the way they run along a chain.
func (r ResID) Cmp(s ResID) int {
	if r.Num != s.Num {
		if r.Num < s.Num {
			return -1
		}
		return 1
	}
	a, b := insRank(r.Ins), insRank(s.Ins)
	if a != b {
		if a < b {
			return -1
		}
		return 1
	}
	return 0
}

// A Chain holds one model's worth of one chain. The residue
// numbers and insertion codes are parallel to the coordinate
// slices in CoordSet, so index i means residue i everywhere.
type Chain struct {
	ChainID  string // Name, like "A" or "B"
	MdlNum   int16  // Model number
	NumLbl   []int  // residue numbers from the file. Not real indices
	InsCode  []byte // Insertion code, 0 for none
	CoordSet CoordSet
}

// NRes says how many residues the chain has.
func (ch *Chain) NRes() int { return len(ch.NumLbl) }

// Copy gives back a chain sharing no storage with the original.
// The assembly builder leans on this. If a transformed copy shared
// a slice with the asymmetric unit we would corrupt it.
func (ch *Chain) Copy() Chain {
	r := Chain{ChainID: ch.ChainID, MdlNum: ch.MdlNum}
	r.NumLbl = append([]int(nil), ch.NumLbl...)
	r.InsCode = append([]byte(nil), ch.InsCode...)
	r.CoordSet = make(CoordSet, len(ch.CoordSet))
	for name, xyzs := range ch.CoordSet {
		r.CoordSet[name] = append(XyzSl(nil), xyzs...)
	}
	return r
}

// FilterRange returns a copy of the chain keeping only residues
// with start <= id <= end, both ends inclusive, insertion codes
// respected. An empty result is not an error here. The caller
// knows whether an empty selection is worth complaining about.
func (ch *Chain) FilterRange(start, end ResID) Chain {
	r := Chain{ChainID: ch.ChainID, MdlNum: ch.MdlNum}
	r.CoordSet = make(CoordSet)
	var keep []int
	for i := range ch.NumLbl {
		id := ResID{Num: ch.NumLbl[i], Ins: insAt(ch.InsCode, i)}
		if start.Cmp(id) <= 0 && id.Cmp(end) <= 0 {
			keep = append(keep, i)
		}
	}
	for _, i := range keep {
		r.NumLbl = append(r.NumLbl, ch.NumLbl[i])
		r.InsCode = append(r.InsCode, insAt(ch.InsCode, i))
	}
	for name, xyzs := range ch.CoordSet {
		sl := make(XyzSl, 0, len(keep))
		for _, i := range keep {
			sl = append(sl, xyzs[i])
		}
		r.CoordSet[name] = sl
	}
	return r
}

func insAt(ins []byte, i int) byte {
	if i < len(ins) {
		return ins[i]
	}
	return 0
}

// An Atom is the flat form of one atom, for callers who want a
// plain list rather than the per-chain layout.
type Atom struct {
	ChainID string
	Name    string
	Res     ResID
	Xyz     Xyz
}

// A Transform says which chains it applies to and how to move
// them. The matrix is on orthonormal axes.
type Transform struct {
	ChainIDs []string
	Mat      xtal.Matrix4
}

// AppliesTo says whether the transform names the given chain.
func (t *Transform) AppliesTo(chainID string) bool {
	for _, c := range t.ChainIDs {
		if c == chainID {
			return true
		}
	}
	return false
}

// A BioAssembly is one biological assembly as declared in the
// header, an ordered list of transforms. Built once by the reader
// and read-only after that.
type BioAssembly struct {
	ID         int
	Transforms []Transform
}

// Header is the non-coordinate part of an entry.
type Header struct {
	Title         string
	DepDate       string // deposition date as given, yyyy-mm-dd
	Xtal          *xtal.Info
	BioAssemblies map[int]BioAssembly // key 1..n, never 0
}

// AssemblyIDs returns the declared assembly numbers, sorted.
func (h *Header) AssemblyIDs() []int {
	ids := make([]int, 0, len(h.BioAssemblies))
	for id := range h.BioAssemblies {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// A Structure is one entry, first model only, ligands included.
type Structure struct {
	Code   string // four characters, lower case
	Chains []Chain
	Hdr    Header
}

// Chain finds a chain by id, nil if the structure has no such
// chain. Ids are case sensitive.
func (s *Structure) Chain(chainID string) *Chain {
	for i := range s.Chains {
		if s.Chains[i].ChainID == chainID {
			return &s.Chains[i]
		}
	}
	return nil
}

// ChainNames returns a slice with the names of the chains.
func (s *Structure) ChainNames() (ret []string) {
	ret = make([]string, len(s.Chains))
	for i, k := range s.Chains {
		ret[i] = k.ChainID
	}
	return
}

// NAtoms counts the atoms with usable coordinates and the broken
// ones over the whole structure.
func (s *Structure) NAtoms() (valid, invalid int) {
	for _, c := range s.Chains {
		for _, xyzS := range c.CoordSet {
			for i := range xyzS {
				if xyzS[i].Ok() {
					valid++
				} else {
					invalid++
				}
			}
		}
	}
	return
}

// Atoms flattens the structure into one atom list, chain by chain.
func (s *Structure) Atoms() []Atom {
	var ret []Atom
	for _, c := range s.Chains {
		names := make([]string, 0, len(c.CoordSet))
		for name := range c.CoordSet {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			xyzs := c.CoordSet[name]
			for i := range xyzs {
				ret = append(ret, Atom{
					ChainID: c.ChainID, Name: name,
					Res: ResID{Num: c.NumLbl[i], Ins: insAt(c.InsCode, i)},
					Xyz: xyzs[i],
				})
			}
		}
	}
	return ret
}

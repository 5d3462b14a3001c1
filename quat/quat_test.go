package quat_test

import (
	"testing"

	"github.com/andrew-torda/structure/pdb/cmmn"
	. "github.com/andrew-torda/structure/quat"
	"github.com/andrew-torda/structure/xtal"
)

func asymUnit() *cmmn.Structure {
	mkchain := func(id string, x0 float32) cmmn.Chain {
		return cmmn.Chain{
			ChainID: id,
			NumLbl:  []int{1, 2},
			InsCode: []byte{0, 0},
			CoordSet: cmmn.CoordSet{
				"CA": cmmn.XyzSl{{X: x0, Y: 0, Z: 0}, {X: x0 + 1, Y: 0, Z: 0}},
			},
		}
	}
	return &cmmn.Structure{
		Code:   "1fah",
		Chains: []cmmn.Chain{mkchain("A", 0), mkchain("B", 10)},
		Hdr:    cmmn.Header{Title: "a title"},
	}
}

func translate(x, y, z float64) xtal.Matrix4 {
	m := xtal.Identity()
	m[0][3], m[1][3], m[2][3] = x, y, z
	return m
}

func TestIdentityStillCopies(t *testing.T) {
	asym := asymUnit()
	tr := []cmmn.Transform{{ChainIDs: []string{"A"}, Mat: xtal.Identity()}}
	got, err := Rebuild(asym, tr)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Chains) != 1 || got.Chains[0].ChainID != "A" {
		t.Fatal("want one chain A, got", got.ChainNames())
	}
	// same coordinates, different storage
	if got.Chains[0].CoordSet["CA"][0] != asym.Chains[0].CoordSet["CA"][0] {
		t.Error("identity transform changed a coordinate")
	}
	got.Chains[0].CoordSet["CA"][0].X = 42
	if asym.Chains[0].CoordSet["CA"][0].X == 42 {
		t.Error("assembly aliases the asymmetric unit")
	}
}

func TestTranslationAndNaming(t *testing.T) {
	asym := asymUnit()
	tr := []cmmn.Transform{
		{ChainIDs: []string{"A", "B"}, Mat: xtal.Identity()},
		{ChainIDs: []string{"A", "B"}, Mat: translate(0, 5, 0)},
	}
	got, err := Rebuild(asym, tr)
	if err != nil {
		t.Fatal(err)
	}
	wantNames := []string{"A", "B", "A_2", "B_2"}
	names := got.ChainNames()
	if len(names) != len(wantNames) {
		t.Fatal("want", wantNames, "got", names)
	}
	for i := range names {
		if names[i] != wantNames[i] {
			t.Error("chain", i, "named", names[i], "want", wantNames[i])
		}
	}
	ca := got.Chains[2].CoordSet["CA"] // A_2
	if ca[0].Y != 5 || ca[1].Y != 5 || ca[0].X != 0 || ca[1].X != 1 {
		t.Error("translation not applied, got", ca)
	}
}

// A deposited file may already contain a chain whose name looks like
// one of our generated copies. The generated names must step around
// it.
func TestNamingAvoidsDepositedNames(t *testing.T) {
	asym := asymUnit()
	a2 := asym.Chains[0].Copy()
	a2.ChainID = "A_2"
	asym.Chains = append(asym.Chains, a2)
	tr := []cmmn.Transform{
		{ChainIDs: []string{"A", "A_2"}, Mat: xtal.Identity()},
		{ChainIDs: []string{"A", "A_2"}, Mat: translate(0, 5, 0)},
	}
	got, err := Rebuild(asym, tr)
	if err != nil {
		t.Fatal(err)
	}
	wantNames := []string{"A", "A_2", "A_3", "A_2_2"}
	names := got.ChainNames()
	if len(names) != len(wantNames) {
		t.Fatal("want", wantNames, "got", names)
	}
	for i := range names {
		if names[i] != wantNames[i] {
			t.Error("chain", i, "named", names[i], "want", wantNames[i])
		}
	}
}

func TestDeterminism(t *testing.T) {
	tr := []cmmn.Transform{
		{ChainIDs: []string{"A", "B"}, Mat: translate(1.25, -3.5, 0.125)},
		{ChainIDs: []string{"B"}, Mat: translate(-7, 2, 9)},
	}
	a, err := Rebuild(asymUnit(), tr)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Rebuild(asymUnit(), tr)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Chains) != len(b.Chains) {
		t.Fatal("chain counts differ")
	}
	for i := range a.Chains {
		ca, cb := a.Chains[i].CoordSet["CA"], b.Chains[i].CoordSet["CA"]
		for j := range ca {
			if ca[j] != cb[j] { // bit identical, no tolerance
				t.Error("chain", i, "atom", j, "differs:", ca[j], cb[j])
			}
		}
	}
}

func TestHeaderInherited(t *testing.T) {
	asym := asymUnit()
	cell, _ := xtal.NewCrystalCell(10, 10, 10, 90, 90, 90)
	asym.Hdr.Xtal = &xtal.Info{Cell: cell, SG: xtal.P1()}
	asym.Hdr.BioAssemblies = map[int]cmmn.BioAssembly{1: {ID: 1}}
	got, err := Rebuild(asym, []cmmn.Transform{{ChainIDs: []string{"B"}, Mat: xtal.Identity()}})
	if err != nil {
		t.Fatal(err)
	}
	if got.Hdr.Title != "a title" || got.Hdr.Xtal == nil {
		t.Error("title and crystal info should be inherited")
	}
	if len(got.Chains) != 1 || got.Chains[0].ChainID != "B" {
		t.Error("chain list should be rebuilt from scratch, got", got.ChainNames())
	}
}

func TestBrokenAtomStaysBroken(t *testing.T) {
	asym := asymUnit()
	asym.Chains[0].CoordSet["CA"][1] = cmmn.BrokenXyz
	got, err := Rebuild(asym, []cmmn.Transform{{ChainIDs: []string{"A"}, Mat: translate(1, 1, 1)}})
	if err != nil {
		t.Fatal(err)
	}
	ca := got.Chains[0].CoordSet["CA"]
	if ca[1].Ok() {
		t.Error("broken atom was transformed into a real looking one")
	}
	if ca[0].X != 1 {
		t.Error("good atom not transformed")
	}
}

func TestRebuildErrors(t *testing.T) {
	asym := asymUnit()
	if _, err := Rebuild(asym, []cmmn.Transform{
		{ChainIDs: []string{"Z"}, Mat: xtal.Identity()}}); err == nil {
		t.Error("unknown chain should be an error")
	}
	bad := xtal.Identity()
	bad[3][0] = 1
	if _, err := Rebuild(asym, []cmmn.Transform{
		{ChainIDs: []string{"A"}, Mat: bad}}); err == nil {
		t.Error("malformed matrix should be an error")
	}
}

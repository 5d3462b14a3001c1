package strucid_test

import (
	"errors"
	"testing"

	"github.com/andrew-torda/structure/pdb/cmmn"
	. "github.com/andrew-torda/structure/strucid"
)

var goodnames = []struct {
	in   string
	kind Kind
	code string
}{
	{"1TIM", WholeEntry, "1tim"},
	{"1tim", WholeEntry, "1tim"},
	{"4HHB.C", ChainSelection, "4hhb"},
	{"3AA0.A,B", ChainSelection, "3aa0"},
	{"4GCR.A_1-83", RangeSelection, "4gcr"},
	{"4GCR.A_1-83,B", RangeSelection, "4gcr"},
	{"1xyz.A_-5--1", RangeSelection, "1xyz"},
	{"2abc.A_100A-100B", RangeSelection, "2abc"},
	{"d2bq6a1", ScopDomain, ""},
	{"d1tim__", ScopDomain, ""},
	{"BIOL:1fah", BioAssembly, "1fah"},
	{"BIOL:1fah:0", BioAssembly, "1fah"},
	{"BIOL:1FAH:2", BioAssembly, "1fah"},
	{"PDP:8TIMA_1", DomainPrediction, "8tim"},
	{"http://files.rcsb.org/download/4hhb.cif", URL, ""},
}

func TestParseGood(t *testing.T) {
	for _, test := range goodnames {
		spec, err := Parse(test.in)
		if err != nil {
			t.Error(test.in, "unexpected error:", err)
			continue
		}
		if spec.Kind != test.kind {
			t.Error(test.in, "got kind", spec.Kind, "want", test.kind)
		}
		if spec.Code != test.code {
			t.Error(test.in, "got code", spec.Code, "want", test.code)
		}
	}
}

var badnames = []string{
	"",
	"X",
	"1ti",              // too short
	"atim",             // first char must be a digit
	"1tim.",            // empty selector
	"1tim.AB",          // chain id is one character
	"1tim.A_",          // missing range
	"1tim.A_1",         // missing end of range
	"1tim.A_1-",        // missing end of range
	"1tim.A_x-3",       // not a number
	"1timA",            // junk after code
	"BIOL:xyz",         // not a pdb id
	"BIOL:1fah:x",      // bad assembly number
	"BIOL:1fah:-1",     // negative assembly number
	"BIOL:1fah.A",      // selection on an assembly is not supported
	"BIOL:1fah.A:1",    // ditto
	"PDP:1fah",         // nothing after the code
	"d2bq6a",           // scop id too short
}

func TestParseBad(t *testing.T) {
	for _, test := range badnames {
		spec, err := Parse(test)
		if err == nil {
			t.Errorf("%q: expected an error, got %v", test, spec)
			continue
		}
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("%q: error does not wrap ErrMalformed", test)
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%q: error is not a ParseError", test)
		}
	}
}

func TestRangeDetails(t *testing.T) {
	spec, err := Parse("4GCR.A_1-83")
	if err != nil {
		t.Fatal(err)
	}
	if len(spec.Ranges) != 1 {
		t.Fatal("want one range, got", len(spec.Ranges))
	}
	r := spec.Ranges[0]
	if r.ChainID != "A" || r.Whole {
		t.Error("bad chain in", r)
	}
	if (r.Start != cmmn.ResID{Num: 1}) || (r.End != cmmn.ResID{Num: 83}) {
		t.Error("bad range bounds", r.Start, r.End)
	}

	spec, err = Parse("2abc.B_10A-11B")
	if err != nil {
		t.Fatal(err)
	}
	r = spec.Ranges[0]
	if r.Start.Ins != 'A' || r.End.Ins != 'B' {
		t.Error("insertion codes lost:", r.Start, r.End)
	}
}

func TestChainCaseKept(t *testing.T) {
	spec, err := Parse("4HHB.c")
	if err != nil {
		t.Fatal(err)
	}
	if spec.Ranges[0].ChainID != "c" {
		t.Error("chain id was case folded to", spec.Ranges[0].ChainID)
	}
}

func TestBiolDefaultsToOne(t *testing.T) {
	spec, err := Parse("BIOL:1fah")
	if err != nil {
		t.Fatal(err)
	}
	if spec.AssemblyNr != 1 {
		t.Error("bare BIOL: should mean assembly 1, got", spec.AssemblyNr)
	}
	spec, err = Parse("BIOL:1fah:0")
	if err != nil {
		t.Fatal(err)
	}
	if spec.AssemblyNr != 0 {
		t.Error("BIOL:1fah:0 should mean the asym unit, got", spec.AssemblyNr)
	}
}

var roundtrips = []string{
	"1tim",
	"4hhb.C",
	"3aa0.A,B",
	"4gcr.A_1-83",
	"2abc.A_100A-100B,B",
	"d2bq6a1",
	"BIOL:1fah:1",
	"BIOL:1fah:0",
	"PDP:8TIMA_1",
}

func TestRoundTrip(t *testing.T) {
	for _, s := range roundtrips {
		spec, err := Parse(s)
		if err != nil {
			t.Error(s, "did not parse:", err)
			continue
		}
		if got := spec.String(); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
		again, err := Parse(spec.String())
		if err != nil {
			t.Error(s, "canonical form did not reparse:", err)
			continue
		}
		if again.String() != spec.String() {
			t.Error(s, "not stable under reparse")
		}
	}
}

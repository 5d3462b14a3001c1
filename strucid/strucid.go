// Package strucid turns the text people use to name a structure
// into something typed. The grammar, in the usual loose notation:
//
//	name      := pdbId ('.' selector)? | scopId
//	           | 'BIOL:' pdbId (':' digits)? | 'PDP:' pdpToken | url
//	selector  := chainRange (',' chainRange)*
//	chainRange:= chainId ('_' resNum '-' resNum)?
//	pdbId     := digit alnum{3}
//	chainId   := alnum
//	scopId    := 'd' pdbId [a-z_][0-9_]
//	resNum    := [+-]? digits letter?
//
// So 1TIM is a whole entry, 4HHB.C is one chain, 4GCR.A_1-83 is a
// residue range, 3AA0.A,B is two chains treated as one structure,
// d2bq6a1 is a scop domain, BIOL:1fah is biological assembly 1 and
// BIOL:1fah:2 is assembly 2. Anything with :// in it is taken to
// be a url and handed to the retrieval backend untouched.
// PDB codes are not case sensitive and come back lower case.
// Chain ids are case sensitive and come back as given.
// A name either parses to exactly one of the variants or you get
// a ParseError. Nothing is guessed.

package strucid

import (
	"errors"
	"strconv"
	"strings"

	"github.com/andrew-torda/structure/pdb/cmmn"
)

// ErrMalformed is wrapped by every ParseError, so callers can ask
// errors.Is(err, ErrMalformed) without looking at the details.
var ErrMalformed = errors.New("malformed structure name")

// A ParseError says what we could not parse and why.
type ParseError struct {
	Name string // the text we were given
	Desc string
}

func (e *ParseError) Error() string {
	return "cannot parse \"" + e.Name + "\": " + e.Desc
}

func (e *ParseError) Unwrap() error { return ErrMalformed }

// Kind says which variant a NameSpec is.
type Kind byte

const (
	WholeEntry Kind = iota
	ChainSelection
	RangeSelection
	ScopDomain
	BioAssembly
	DomainPrediction
	URL
)

// A ChainRange selects a chain, or a residue range within it.
type ChainRange struct {
	ChainID    string
	Whole      bool // whole chain, Start and End unused
	Start, End cmmn.ResID
}

// A NameSpec is one parsed name. Exactly one variant, given by
// Kind. Only the fields belonging to that variant are set.
type NameSpec struct {
	Kind       Kind
	Code       string       // lower case pdb id
	Ranges     []ChainRange // ChainSelection, RangeSelection
	Scop       string       // ScopDomain
	Pdp        string       // DomainPrediction
	AssemblyNr int          // BioAssembly, 0 means the asym unit
	Url        string       // URL
}

const pdbIDLen = 4

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlnum(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// pdbID checks the four character form, digit then three
// alphanumerics, and returns the lower cased code.
func pdbID(s string) (string, bool) {
	if len(s) != pdbIDLen || !isDigit(s[0]) {
		return "", false
	}
	for i := 1; i < pdbIDLen; i++ {
		if !isAlnum(s[i]) {
			return "", false
		}
	}
	return strings.ToLower(s), true
}

// resNum eats one residue number from the front of s, sign, digits
// and maybe one trailing letter, and says how much it ate.
func resNum(s string) (cmmn.ResID, int, bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j == i { // no digits
		return cmmn.ResID{}, 0, false
	}
	num, err := strconv.Atoi(s[:j])
	if err != nil {
		return cmmn.ResID{}, 0, false
	}
	r := cmmn.ResID{Num: num}
	if j < len(s) && isLetter(s[j]) {
		r.Ins = s[j]
		j++
	}
	return r, j, true
}

// chainRange parses one selector element, "A" or "A_1-83".
func chainRange(s string) (ChainRange, bool) {
	if len(s) == 0 || !isAlnum(s[0]) {
		return ChainRange{}, false
	}
	cr := ChainRange{ChainID: s[:1]}
	s = s[1:]
	if s == "" {
		cr.Whole = true
		return cr, true
	}
	if s[0] != '_' {
		return ChainRange{}, false
	}
	s = s[1:]
	start, n, ok := resNum(s)
	if !ok {
		return ChainRange{}, false
	}
	s = s[n:]
	if len(s) == 0 || s[0] != '-' {
		return ChainRange{}, false
	}
	s = s[1:]
	end, n, ok := resNum(s)
	if !ok || n != len(s) {
		return ChainRange{}, false
	}
	cr.Start, cr.End = start, end
	return cr, true
}

// scopID checks the d2bq6a1 form, 'd' then a pdb id then a chain
// letter or '_' then a domain digit or '_'.
func scopID(s string) bool {
	if len(s) != 7 || s[0] != 'd' {
		return false
	}
	if _, ok := pdbID(s[1:5]); !ok {
		return false
	}
	c := s[5]
	if !(c == '_' || (c >= 'a' && c <= 'z')) {
		return false
	}
	c = s[6]
	return c == '_' || isDigit(c)
}

// parseBiol handles BIOL:pdbId and BIOL:pdbId:n. A bare BIOL:code
// means assembly number 1. Chain selections on an assembly are
// not part of the grammar and fall out as malformed here.
func parseBiol(name, rest string) (*NameSpec, error) {
	code := rest
	nr := 1
	if i := strings.IndexByte(rest, ':'); i != -1 {
		code = rest[:i]
		num := rest[i+1:]
		n, err := strconv.Atoi(num)
		if err != nil || n < 0 {
			return nil, &ParseError{name, "bad assembly number \"" + num + "\""}
		}
		nr = n
	}
	lc, ok := pdbID(code)
	if !ok {
		return nil, &ParseError{name, "\"" + code + "\" is not a pdb id"}
	}
	return &NameSpec{Kind: BioAssembly, Code: lc, AssemblyNr: nr}, nil
}

// parsePdp handles PDP:8TIMA_1 style domain prediction ids. The
// token is a pdb id followed by chain and domain characters.
func parsePdp(name, rest string) (*NameSpec, error) {
	if len(rest) <= pdbIDLen {
		return nil, &ParseError{name, "pdp token too short"}
	}
	lc, ok := pdbID(rest[:pdbIDLen])
	if !ok {
		return nil, &ParseError{name, "pdp token does not start with a pdb id"}
	}
	for i := pdbIDLen; i < len(rest); i++ {
		if !isAlnum(rest[i]) && rest[i] != '_' {
			return nil, &ParseError{name, "bad character in pdp token"}
		}
	}
	return &NameSpec{Kind: DomainPrediction, Code: lc, Pdp: rest}, nil
}

// Parse takes one name and returns the parsed form or a
// ParseError. It never returns half a result.
func Parse(name string) (*NameSpec, error) {
	if strings.Contains(name, "://") {
		return &NameSpec{Kind: URL, Url: name}, nil
	}
	if rest, ok := strings.CutPrefix(name, "BIOL:"); ok {
		return parseBiol(name, rest)
	}
	if rest, ok := strings.CutPrefix(name, "PDP:"); ok {
		return parsePdp(name, rest)
	}
	if scopID(name) {
		return &NameSpec{Kind: ScopDomain, Scop: name}, nil
	}
	if len(name) < pdbIDLen {
		return nil, &ParseError{name, "too short for a pdb id"}
	}
	code, ok := pdbID(name[:pdbIDLen])
	if !ok {
		return nil, &ParseError{name, "does not match any known form"}
	}
	if len(name) == pdbIDLen {
		return &NameSpec{Kind: WholeEntry, Code: code}, nil
	}
	if name[pdbIDLen] != '.' {
		return nil, &ParseError{name, "expected '.' after the pdb id"}
	}
	sel := name[pdbIDLen+1:]
	if sel == "" {
		return nil, &ParseError{name, "empty selector after '.'"}
	}
	spec := NameSpec{Kind: ChainSelection, Code: code}
	for _, part := range strings.Split(sel, ",") {
		cr, ok := chainRange(part)
		if !ok {
			return nil, &ParseError{name, "bad selector \"" + part + "\""}
		}
		if !cr.Whole {
			spec.Kind = RangeSelection
		}
		spec.Ranges = append(spec.Ranges, cr)
	}
	return &spec, nil
}

// fmtRes prints a residue id the way the grammar reads it.
func fmtRes(r cmmn.ResID) string {
	s := strconv.Itoa(r.Num)
	if r.Ins != 0 {
		s += string(r.Ins)
	}
	return s
}

// String gives back the canonical text form. Parsing the result
// again yields an equal NameSpec, with the pdb code lower cased.
func (spec *NameSpec) String() string {
	switch spec.Kind {
	case WholeEntry:
		return spec.Code
	case ChainSelection, RangeSelection:
		parts := make([]string, len(spec.Ranges))
		for i, cr := range spec.Ranges {
			if cr.Whole {
				parts[i] = cr.ChainID
			} else {
				parts[i] = cr.ChainID + "_" + fmtRes(cr.Start) + "-" + fmtRes(cr.End)
			}
		}
		return spec.Code + "." + strings.Join(parts, ",")
	case ScopDomain:
		return spec.Scop
	case BioAssembly:
		return "BIOL:" + spec.Code + ":" + strconv.Itoa(spec.AssemblyNr)
	case DomainPrediction:
		return "PDP:" + spec.Pdp
	case URL:
		return spec.Url
	}
	return ""
}

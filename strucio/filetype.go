package strucio

import "strings"

// Filetype is a guess at what a coordinate file holds.
type Filetype byte

const (
	Unknown Filetype = iota
	PDBFile
	CIFFile
)

func (ft Filetype) String() string {
	switch ft {
	case PDBFile:
		return "pdb"
	case CIFFile:
		return "mmcif"
	}
	return "unknown"
}

// Order matters. The first match wins, so the double extensions
// must come after their plain forms do not match, which HasSuffix
// gives us for free, but keep the table grouped anyway.
var fileSuffixes = []struct {
	suffix string
	ft     Filetype
}{
	{".ent", PDBFile},
	{".pdb", PDBFile},
	{".ent.gz", PDBFile},
	{".pdb.gz", PDBFile},
	{".cif", CIFFile},
	{".mmcif", CIFFile},
	{".cif.gz", CIFFile},
	{".mmcif.gz", CIFFile},
}

// GuessFiletype guesses from the file name alone. Case does not
// matter. A name we do not recognize is Unknown, never an error.
func GuessFiletype(fname string) Filetype {
	lower := strings.ToLower(fname)
	for _, e := range fileSuffixes {
		if strings.HasSuffix(lower, e.suffix) {
			return e.ft
		}
	}
	return Unknown
}

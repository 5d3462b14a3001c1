// Package pdb is the retrieval backend. Give it a four character
// code and it hands back a structure, downloading from one of the
// pdb sites and keeping a copy in a disk cache on the way. It can
// also read a local file. The resolver above only relies on the
// two fetch methods, so a test can slide in its own backend.

package pdb

import (
	"io"
	"log"
	"os"

	"github.com/andrew-torda/structure/pdb/cmmn"
	"github.com/andrew-torda/structure/pdb/mmcif"
	"github.com/andrew-torda/structure/pdb/zwrap"
)

// LogWhere decides where to send logged output. "" means throw it
// away, "stdout" means standard output, anything else is a file
// name to append to.
func LogWhere(outinfo string) (*log.Logger, error) {
	var iowriter io.Writer
	switch outinfo {
	case "":
		iowriter = io.Discard
	case "stdout":
		iowriter = os.Stdout
	default:
		var err error
		iowriter, err = os.OpenFile(outinfo, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return nil, err
		}
	}
	return log.New(iowriter, "", log.Lshortfile), nil
}

// ReadFile reads one structure from a local file, compressed or
// not.
func ReadFile(fname string) (*cmmn.Structure, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	rdr, err := zwrap.WrapMaybe(fp)
	if err != nil {
		fp.Close()
		return nil, err
	}
	defer rdr.Close()
	return mmcif.NewReader(rdr).DoFile()
}

// The disk cache. One gzipped file per entry, written under a
// temporary name and renamed into place, so a half written file
// from a crashed run can never be mistaken for a good one. Reads
// go through mmap, which saves a copy of the whole file and was
// measurably faster on the big ribosome entries.

package pdb

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"

	"github.com/andrew-torda/structure/pdb/cmmn"
	"github.com/andrew-torda/structure/pdb/mmcif"
	"github.com/andrew-torda/structure/pdb/zwrap"
)

type diskCache struct {
	dir string
	idx *fetchIndex
}

func newDiskCache(dir string) (*diskCache, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, err
	}
	idx, err := newFetchIndex(filepath.Join(dir, "fetchlog.db"))
	if err != nil {
		return nil, err
	}
	return &diskCache{dir: dir, idx: idx}, nil
}

func (dc *diskCache) close() error { return dc.idx.close() }

func (dc *diskCache) path(code string) string {
	return filepath.Join(dc.dir, code+".cif.gz")
}

// mmapFile is a ReadCloser over a memory mapped file. Closing
// unmaps and closes the file.
type mmapFile struct {
	*bytes.Reader
	mm mmap.MMap
	fp *os.File
}

func (m *mmapFile) Close() error {
	var s string
	if e := m.mm.Unmap(); e != nil {
		s = e.Error()
	}
	if e := m.fp.Close(); e != nil {
		s = s + " " + e.Error()
	}
	if s == "" {
		return nil
	}
	return Error(s)
}

type Error string

func (e Error) Error() string { return string(e) }

// openMmap maps a file and gives back a ReadCloser over the
// mapping.
func openMmap(fname string) (io.ReadCloser, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		fp.Close()
		return nil, err
	}
	return &mmapFile{Reader: bytes.NewReader(mm), mm: mm, fp: fp}, nil
}

// load tries the cache. The second return says whether we had the
// entry. A file that is there but will not parse counts as not
// had, the caller will download a fresh copy over it.
func (dc *diskCache) load(code string) (*cmmn.Structure, bool) {
	if _, ok := dc.idx.lookup(code); !ok {
		return nil, false
	}
	raw, err := openMmap(dc.path(code))
	if err != nil {
		return nil, false
	}
	rdr, err := zwrap.WrapMaybe(raw)
	if err != nil {
		raw.Close()
		return nil, false
	}
	defer rdr.Close()
	s, err := mmcif.NewReader(rdr).DoFile()
	if err != nil {
		return nil, false
	}
	return s, true
}

// countWriter counts what goes through it, for the fetch log.
type countWriter struct {
	w io.Writer
	n int64
}

func (cw *countWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// storeAndParse parses the stream and writes a gzipped copy to the
// cache as it goes. If parsing fails, no cache file appears and no
// record is made.
func (dc *diskCache) storeAndParse(code string, rdr io.ReadCloser) (*cmmn.Structure, error) {
	defer rdr.Close()
	tmpf, err := os.CreateTemp(dc.dir, code+".part")
	if err != nil {
		return nil, err
	}
	tmpname := tmpf.Name()
	cw := &countWriter{w: tmpf}
	gz := gzip.NewWriter(cw)

	s, perr := mmcif.NewReader(io.TeeReader(rdr, gz)).DoFile()
	gzerr := gz.Close()
	cerr := tmpf.Close()
	if perr != nil || gzerr != nil || cerr != nil {
		os.Remove(tmpname)
		if perr != nil {
			return nil, perr
		}
		if gzerr != nil {
			return nil, gzerr
		}
		return nil, cerr
	}
	if err := os.Rename(tmpname, dc.path(code)); err != nil {
		os.Remove(tmpname)
		return nil, err
	}
	if err := dc.idx.record(code, dc.path(code), cw.n); err != nil {
		return nil, err
	}
	return s, nil
}

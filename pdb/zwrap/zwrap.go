// Package zwrap takes a ReadCloser and optionally wraps it so upon
// calling Close, the decompressor will be closed, followed by the
// underlying source.
// Earlier versions decided whether a stream was compressed by trying
// the gzip reader and seeking back on failure. That needed a Seeker,
// which an http body is not. Peeking at the two magic bytes through
// a bufio.Reader works on anything.

package zwrap

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
)

type FpGzip struct { // This is what we return.
	src  io.ReadCloser
	rdr  io.Reader // where Read really reads from
	zrdr *gzip.Reader
}

// Close closes the decompressor if there is one, then the backing
// source. It should work if the source is a file or an http stream.
func (fc *FpGzip) Close() error {
	var s string
	if fc.zrdr != nil {
		if e := fc.zrdr.Close(); e != nil { // Close decompressor
			s = e.Error()
		}
	}
	if e := fc.src.Close(); e != nil { // and backing source
		s = s + " " + e.Error()
	}
	if s == "" {
		return nil
	}
	return errors.New(s)
}

// Read reads from the decompressed stream, or straight from the
// source if it was not compressed.
func (fc *FpGzip) Read(p []byte) (int, error) { return fc.rdr.Read(p) }

// Wrap insists the source is gzipped and returns a decompressing
// reader over it.
func Wrap(src io.ReadCloser) (*FpGzip, error) {
	zrdr, err := gzip.NewReader(src)
	if err != nil {
		return nil, err
	}
	return &FpGzip{src: src, rdr: zrdr, zrdr: zrdr}, nil
}

// WrapMaybe decides if the underlying stream is compressed and
// wraps it if necessary. The source does not have to be seekable.
// An empty stream is fine, it is just not compressed.
func WrapMaybe(src io.ReadCloser) (*FpGzip, error) {
	br := bufio.NewReader(src)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		zrdr, e2 := gzip.NewReader(br)
		if e2 != nil {
			return nil, e2
		}
		return &FpGzip{src: src, rdr: zrdr, zrdr: zrdr}, nil
	}
	return &FpGzip{src: src, rdr: br}, nil
}

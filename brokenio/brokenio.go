// brokenio wraps an io.ReadCloser so tests can provoke the failures
// real sources produce. A download can die mid-stream, or hand you a
// zero length file, which happens surprisingly often. Wrap the
// reader, say where it should break and everything downstream gets
// exercised on the error path, deterministically.

package brokenio

import (
	"errors"
	"io"
)

// ErrBroken is what Read returns at the break point, unless the
// caller installed a different error.
var ErrBroken = errors.New("injected read failure")

// A BrknRdrClsr reads from the wrapped source until failAfter bytes
// have gone through, then fails. failAfter < 0 means never fail.
type BrknRdrClsr struct {
	src       io.ReadCloser
	failAfter int
	nByte     int
	err       error
	zeroFile  bool
}

// NewReader wraps a reader. The result does not fail until it is
// told to.
func NewReader(src io.ReadCloser) *BrknRdrClsr {
	return &BrknRdrClsr{src: src, failAfter: -1, err: ErrBroken}
}

// FailAfter arranges for Read to return an error once n bytes have
// been delivered.
func (r *BrknRdrClsr) FailAfter(n int) *BrknRdrClsr { r.failAfter = n; return r }

// FailWith swaps ErrBroken for the caller's own error.
func (r *BrknRdrClsr) FailWith(err error) *BrknRdrClsr { r.err = err; return r }

// ZeroFile makes the reader act like a zero length file, clean EOF
// on the first read.
func (r *BrknRdrClsr) ZeroFile() *BrknRdrClsr { r.zeroFile = true; return r }

func (r *BrknRdrClsr) Read(p []byte) (int, error) {
	if r.zeroFile {
		return 0, io.EOF
	}
	if r.failAfter >= 0 && r.nByte >= r.failAfter {
		return 0, r.err
	}
	if r.failAfter >= 0 && len(p) > r.failAfter-r.nByte {
		p = p[:r.failAfter-r.nByte]
	}
	n, err := r.src.Read(p)
	r.nByte += n
	return n, err
}

func (r *BrknRdrClsr) Close() error { return r.src.Close() }

// NByte says how much data went through, for tests that care where
// the break landed.
func (r *BrknRdrClsr) NByte() int { return r.nByte }

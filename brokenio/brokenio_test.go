package brokenio_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	. "github.com/andrew-torda/structure/brokenio"
)

func src(s string) io.ReadCloser { return io.NopCloser(strings.NewReader(s)) }

func TestNoFailure(t *testing.T) {
	b, err := io.ReadAll(NewReader(src("hello world")))
	if err != nil || string(b) != "hello world" {
		t.Error("undisturbed reader should pass data through:", err, string(b))
	}
}

func TestFailAfter(t *testing.T) {
	r := NewReader(src("hello world")).FailAfter(5)
	b, err := io.ReadAll(r)
	if !errors.Is(err, ErrBroken) {
		t.Fatal("want ErrBroken, got", err)
	}
	if string(b) != "hello" || r.NByte() != 5 {
		t.Error("break point wrong, got", string(b), r.NByte())
	}
}

func TestFailWith(t *testing.T) {
	mine := errors.New("my own disaster")
	_, err := io.ReadAll(NewReader(src("abc")).FailAfter(0).FailWith(mine))
	if !errors.Is(err, mine) {
		t.Error("want my own error, got", err)
	}
}

func TestZeroFile(t *testing.T) {
	b, err := io.ReadAll(NewReader(src("should not appear")).ZeroFile())
	if err != nil || len(b) != 0 {
		t.Error("zero file should be a clean empty read:", err, string(b))
	}
}

package pdb

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andrew-torda/structure/brokenio"
)

const miniCif = `data_5xyz
_struct.title 'tiny test entry'
loop_
_atom_site.group_PDB
_atom_site.label_atom_id
_atom_site.auth_asym_id
_atom_site.auth_seq_id
_atom_site.Cartn_x
_atom_site.Cartn_y
_atom_site.Cartn_z
ATOM CA A 1 1.0 2.0 3.0
ATOM CA A 2 4.0 5.0 6.0
`

func TestCodeURL(t *testing.T) {
	want := sites[0].urlBase + "5pti" + sites[0].urlSuffix
	if got := codeURL("5pti", 0); got != want {
		t.Error("got", got, "want", want)
	}
	// out of range site numbers wrap rather than break
	if codeURL("5pti", NSites) != codeURL("5pti", 0) {
		t.Error("site number should wrap around")
	}
	if codeURL("5pti", -1) != codeURL("5pti", NSites-1) {
		t.Error("negative site number should wrap around")
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "5xyz.cif")
	if err := os.WriteFile(fname, []byte(miniCif), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if s.Hdr.Title != "tiny test entry" {
		t.Errorf("title came out as %q", s.Hdr.Title)
	}
	if s.Chain("A") == nil || s.Chain("A").NRes() != 2 {
		t.Error("chain A should have two residues")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	dc, err := newDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer dc.close()
	if _, ok := dc.load("5xyz"); ok {
		t.Fatal("empty cache claimed to hold an entry")
	}
	s, err := dc.storeAndParse("5xyz", io.NopCloser(strings.NewReader(miniCif)))
	if err != nil {
		t.Fatal(err)
	}
	if s.Code != "5xyz" {
		t.Error("stored structure has code", s.Code)
	}
	s2, ok := dc.load("5xyz")
	if !ok {
		t.Fatal("cache lost the entry it just stored")
	}
	if s2.Hdr.Title != s.Hdr.Title {
		t.Error("cached copy differs from original")
	}
	if _, err := os.Stat(dc.path("5xyz")); err != nil {
		t.Error("cache file missing:", err)
	}
}

func TestCacheRejectsGarbage(t *testing.T) {
	dc, err := newDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer dc.close()
	bad := "data_1xyz\n_struct.title\n;never closed\n"
	if _, err := dc.storeAndParse("1xyz", io.NopCloser(strings.NewReader(bad))); err == nil {
		t.Fatal("broken input should not parse")
	}
	if _, err := os.Stat(dc.path("1xyz")); err == nil {
		t.Error("broken input must not leave a cache file behind")
	}
	if _, ok := dc.load("1xyz"); ok {
		t.Error("broken input must not be recorded")
	}
}

func TestCacheSurvivesDeadConnection(t *testing.T) {
	dc, err := newDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer dc.close()
	// the connection dies in the middle of the atom table
	rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(miniCif))).FailAfter(len(miniCif) / 2)
	if _, err := dc.storeAndParse("5xyz", rdr); err == nil {
		t.Fatal("half a download should not parse")
	}
	if _, err := os.Stat(dc.path("5xyz")); err == nil {
		t.Error("half a download must not leave a cache file")
	}
	if _, ok := dc.load("5xyz"); ok {
		t.Error("half a download must not be recorded")
	}
}

// testServer serves miniCif for 5xyz and a 404 for anything else,
// counting the hits so we can see whether the cache was used.
func testServer(nhits *int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			*nhits++
			if strings.HasPrefix(r.URL.Path, "/5xyz") {
				io.WriteString(w, miniCif)
			} else {
				http.NotFound(w, r)
			}
		}))
}

func TestFetcherCaches(t *testing.T) {
	var nhits int
	srv := testServer(&nhits)
	defer srv.Close()
	oldBase, oldSuffix := sites[0].urlBase, sites[0].urlSuffix
	sites[0].urlBase, sites[0].urlSuffix = srv.URL+"/", ".cif"
	defer func() { sites[0].urlBase, sites[0].urlSuffix = oldBase, oldSuffix }()

	wf, err := NewWebFetcher(t.TempDir(), 0, 5*time.Second, "")
	if err != nil {
		t.Fatal(err)
	}
	defer wf.Close()
	// upper case codes should be accepted and lowered
	s, err := wf.FetchByCode("5XYZ")
	if err != nil {
		t.Fatal(err)
	}
	if s.Code != "5xyz" {
		t.Error("code is", s.Code)
	}
	if _, err := wf.FetchByCode("5xyz"); err != nil {
		t.Fatal(err)
	}
	if nhits != 1 {
		t.Error("second fetch should come from the cache, server saw", nhits, "hits")
	}
	if _, err := wf.FetchByCode("toolong"); err == nil {
		t.Error("bad length code should be rejected")
	}
}

func TestFetcherNotFound(t *testing.T) {
	var nhits int
	srv := testServer(&nhits)
	defer srv.Close()
	oldBase, oldSuffix := sites[0].urlBase, sites[0].urlSuffix
	sites[0].urlBase, sites[0].urlSuffix = srv.URL+"/", ".cif"
	defer func() { sites[0].urlBase, sites[0].urlSuffix = oldBase, oldSuffix }()

	wf, err := NewWebFetcher("", 0, 5*time.Second, "")
	if err != nil {
		t.Fatal(err)
	}
	defer wf.Close()
	_, err = wf.FetchByCode("9zzz")
	if !errors.Is(err, ErrNotFound) {
		t.Error("missing entry should give ErrNotFound, got", err)
	}
}

func TestFetcherURLPassthrough(t *testing.T) {
	var nhits int
	srv := testServer(&nhits)
	defer srv.Close()
	wf, err := NewWebFetcher(t.TempDir(), 0, 5*time.Second, "")
	if err != nil {
		t.Fatal(err)
	}
	defer wf.Close()
	s, err := wf.FetchByCode(srv.URL + "/5xyz.cif")
	if err != nil {
		t.Fatal(err)
	}
	if s.Code != "5xyz" {
		t.Error("code is", s.Code)
	}
	atoms, err := wf.FetchAtoms(srv.URL + "/5xyz.cif")
	if err != nil {
		t.Fatal(err)
	}
	if len(atoms) != 2 {
		t.Error("want 2 atoms, got", len(atoms))
	}
	if nhits != 2 {
		t.Error("urls must not be cached, server saw", nhits, "hits")
	}
}

func TestLogWhere(t *testing.T) {
	if _, err := LogWhere(""); err != nil {
		t.Error(err)
	}
	if _, err := LogWhere("stdout"); err != nil {
		t.Error(err)
	}
	fname := filepath.Join(t.TempDir(), "fetch.log")
	lg, err := LogWhere(fname)
	if err != nil {
		t.Fatal(err)
	}
	lg.Println("hello")
	if fi, err := os.Stat(fname); err != nil || fi.Size() == 0 {
		t.Error("log file should exist and be non-empty")
	}
}

// The web fetcher. This is the one concrete backend. It knows the
// download sites, the disk cache and the mmcif reader, and nothing
// about identifiers or assemblies.

package pdb

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/andrew-torda/structure/pdb/cmmn"
	"github.com/andrew-torda/structure/pdb/mmcif"
)

// ErrNotFound means the site answered and the entry is not there.
// Anything else coming out of a fetch is an I/O problem of some
// kind and is not wrapped in this.
var ErrNotFound = errors.New("no such entry")

// A WebFetcher downloads entries and remembers them in a disk
// cache. Zero or more of these can exist, but they can share one
// cache directory since files are written via rename.
type WebFetcher struct {
	client *http.Client
	site   int
	cache  *diskCache // nil means no caching
	outlog *log.Logger
}

// NewWebFetcher builds a fetcher. cacheDir may be "" for no disk
// cache. site picks the download mirror. logTo is interpreted by
// LogWhere.
func NewWebFetcher(cacheDir string, site int, timeout time.Duration, logTo string) (*WebFetcher, error) {
	outlog, err := LogWhere(logTo)
	if err != nil {
		return nil, err
	}
	wf := WebFetcher{
		client: &http.Client{Timeout: timeout},
		site:   site,
		outlog: outlog,
	}
	if cacheDir != "" {
		c, err := newDiskCache(cacheDir)
		if err != nil {
			return nil, err
		}
		wf.cache = c
	}
	return &wf, nil
}

// Close releases the cache index. The fetcher is done after this.
func (wf *WebFetcher) Close() error {
	if wf.cache != nil {
		return wf.cache.close()
	}
	return nil
}

// FetchByCode gets one structure. The code is a four character pdb
// id, or a url which is passed to the site untouched and not
// cached.
func (wf *WebFetcher) FetchByCode(code string) (*cmmn.Structure, error) {
	if strings.Contains(code, "://") {
		rdr, err := getHTTP(wf.client, code)
		if err != nil {
			return nil, err
		}
		defer rdr.Close()
		return mmcif.NewReader(rdr).DoFile()
	}
	if len(code) != 4 {
		return nil, errors.New("acq code should be four char, not " + code)
	}
	code = strings.ToLower(code)
	if wf.cache != nil {
		if s, ok := wf.cache.load(code); ok {
			wf.outlog.Println(code, "from cache")
			return s, nil
		}
	}
	url := codeURL(code, wf.site)
	rdr, err := getHTTP(wf.client, url)
	if err != nil {
		return nil, err
	}
	wf.outlog.Println(code, "from", url)
	if wf.cache != nil {
		return wf.cache.storeAndParse(code, rdr)
	}
	defer rdr.Close()
	return mmcif.NewReader(rdr).DoFile()
}

// FetchAtoms gets the same structure as FetchByCode, flattened to
// one atom list.
func (wf *WebFetcher) FetchAtoms(code string) ([]cmmn.Atom, error) {
	s, err := wf.FetchByCode(code)
	if err != nil {
		return nil, err
	}
	return s.Atoms(), nil
}

// Package strucio turns a structure name into a structure. It sits
// between the name parser and the retrieval backend. Give Resolve a
// name like "4hhb", "4hhb.C", "4gcr.A_1-83" or "BIOL:1fah" and it
// parses the name, fetches the asymmetric unit and applies whatever
// sub-selection or assembly rebuilding the name asks for.
//
// A Resolver owns one backend, made lazily on first use. SetFetcher
// swaps it for later resolutions. A resolution that already started
// keeps the backend it captured, so a swap never disturbs work in
// flight.
package strucio

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andrew-torda/structure/pdb"
	"github.com/andrew-torda/structure/pdb/cmmn"
	"github.com/andrew-torda/structure/strucid"
)

// A Fetcher is what the resolver needs from a retrieval backend.
// pdb.WebFetcher is the real one, tests slide in their own.
type Fetcher interface {
	FetchByCode(code string) (*cmmn.Structure, error)
	FetchAtoms(code string) ([]cmmn.Atom, error)
}

// A DomainProvider serves scop and pdp domain definitions. There is
// no default. Without one, domain names come back with an error.
type DomainProvider interface {
	FetchDomain(id string) (*cmmn.Structure, error)
}

// Options says how the resolver should build its default backend
// and where to send its log output.
type Options struct {
	CacheDir string        // "" means no disk cache
	Site     int           // download mirror, see pdb.NSites
	Timeout  time.Duration // per http request
	LogTo    string        // interpreted by pdb.LogWhere
}

// fetcherHolder exists so the atomic pointer has a concrete type to
// point at. An interface cannot go into an atomic.Pointer directly.
type fetcherHolder struct{ f Fetcher }

type Resolver struct {
	opts    Options
	backend atomic.Pointer[fetcherHolder]
	mu      sync.Mutex // serializes backend construction and swaps
	domains DomainProvider
	bio     BioUnitProvider
	outlog  *log.Logger
}

// NewResolver makes a resolver. Nothing is fetched and no backend
// is built until the first name is resolved.
func NewResolver(opts Options) (*Resolver, error) {
	outlog, err := pdb.LogWhere(opts.LogTo)
	if err != nil {
		return nil, err
	}
	return &Resolver{opts: opts, outlog: outlog}, nil
}

// fetcher hands back the backend, building the default one on first
// use. The fast path is a single atomic load. Construction happens
// at most once, under the mutex with a second look at the pointer.
func (r *Resolver) fetcher() (Fetcher, error) {
	if h := r.backend.Load(); h != nil {
		return h.f, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if h := r.backend.Load(); h != nil {
		return h.f, nil
	}
	wf, err := pdb.NewWebFetcher(r.opts.CacheDir, r.opts.Site, r.opts.Timeout, r.opts.LogTo)
	if err != nil {
		return nil, err
	}
	r.backend.Store(&fetcherHolder{f: wf})
	return wf, nil
}

// SetFetcher replaces the backend for resolutions that have not yet
// started. Results already returned, and resolutions under way, are
// untouched.
func (r *Resolver) SetFetcher(f Fetcher) {
	r.mu.Lock()
	r.backend.Store(&fetcherHolder{f: f})
	r.mu.Unlock()
}

// SetDomainProvider installs a source for scop and pdp domains.
// nil removes it again.
func (r *Resolver) SetDomainProvider(p DomainProvider) {
	r.mu.Lock()
	r.domains = p
	r.mu.Unlock()
}

func (r *Resolver) domainProvider() DomainProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.domains
}

// Close shuts the backend down if it was ever built and has a
// Close method.
func (r *Resolver) Close() error {
	h := r.backend.Load()
	if h == nil {
		return nil
	}
	if c, ok := h.f.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Resolve parses a name and materializes the structure it asks for.
// Parse errors, not-found and I/O errors all come out distinct, see
// strucid.ErrMalformed and pdb.ErrNotFound.
func (r *Resolver) Resolve(name string) (*cmmn.Structure, error) {
	spec, err := strucid.Parse(name)
	if err != nil {
		return nil, err
	}
	return r.ResolveSpec(spec)
}

// ResolveSpec materializes an already parsed name.
func (r *Resolver) ResolveSpec(spec *strucid.NameSpec) (*cmmn.Structure, error) {
	switch spec.Kind {
	case strucid.WholeEntry:
		f, err := r.fetcher()
		if err != nil {
			return nil, err
		}
		return f.FetchByCode(spec.Code)
	case strucid.URL:
		f, err := r.fetcher()
		if err != nil {
			return nil, err
		}
		return f.FetchByCode(spec.Url)
	case strucid.ChainSelection, strucid.RangeSelection:
		f, err := r.fetcher()
		if err != nil {
			return nil, err
		}
		asym, err := f.FetchByCode(spec.Code)
		if err != nil {
			return nil, err
		}
		return subSelect(asym, spec.Ranges)
	case strucid.BioAssembly:
		return r.GetBioAssembly(spec.Code, spec.AssemblyNr)
	case strucid.ScopDomain, strucid.DomainPrediction:
		id := spec.Scop
		if spec.Kind == strucid.DomainPrediction {
			id = spec.Pdp
		}
		p := r.domainProvider()
		if p == nil {
			return nil, errors.New("no domain provider configured, cannot resolve " + id)
		}
		return p.FetchDomain(id)
	}
	return nil, errors.New("unhandled name variant " + strconv.Itoa(int(spec.Kind)))
}

// subSelect cuts the selected chains and ranges out of a structure.
// The result is a fresh structure sharing nothing mutable with the
// original. Selector order is kept.
func subSelect(asym *cmmn.Structure, ranges []strucid.ChainRange) (*cmmn.Structure, error) {
	out := cmmn.Structure{Code: asym.Code, Hdr: asym.Hdr}
	for _, cr := range ranges {
		ch := asym.Chain(cr.ChainID)
		if ch == nil {
			return nil, errors.New("no chain " + cr.ChainID + " in " + asym.Code +
				", it has " + strings.Join(asym.ChainNames(), " "))
		}
		var cut cmmn.Chain
		if cr.Whole {
			cut = ch.Copy()
		} else {
			cut = ch.FilterRange(cr.Start, cr.End)
			if cut.NRes() == 0 {
				return nil, errors.New("no residues of " + asym.Code + " chain " +
					cr.ChainID + " fall in the requested range")
			}
		}
		out.Chains = append(out.Chains, cut)
	}
	return &out, nil
}

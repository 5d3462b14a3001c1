// The assembly path. Ask for "BIOL:1fah:2" and this loads the
// asymmetric unit of 1fah, looks up the transforms registered for
// assembly 2 in its header and hands both to the quat builder.

package strucio

import (
	"strconv"
	"strings"

	"github.com/andrew-torda/structure/pdb/cmmn"
	"github.com/andrew-torda/structure/quat"
)

// NoSuchAssemblyError says an entry exists but has no assembly with
// the number asked for.
type NoSuchAssemblyError struct {
	Code string
	Nr   int
}

func (e *NoSuchAssemblyError) Error() string {
	return e.Code + " has no biological assembly " + strconv.Itoa(e.Nr)
}

// NoTransformsError says the assembly is declared but carries no
// transforms. The metadata is there and empty, which is a different
// complaint from the number not existing at all.
type NoTransformsError struct {
	Code string
	Nr   int
}

func (e *NoTransformsError) Error() string {
	return "assembly " + strconv.Itoa(e.Nr) + " of " + e.Code +
		" is declared but has no transformations"
}

// A BioUnitProvider serves asymmetric units and assembly counts.
// Release drops any structure the provider is holding from the last
// call, and the resolver calls it on every exit from the assembly
// path, error or not.
type BioUnitProvider interface {
	GetAsymUnit(code string) (*cmmn.Structure, error)
	HasBiolAssembly(code string) (bool, error)
	NrBiolAssemblies(code string) (int, error)
	Release()
}

// headerProvider is the default BioUnitProvider. It fetches through
// the resolver's backend and reads the counts out of the header.
type headerProvider struct {
	r    *Resolver
	held *cmmn.Structure
}

func (hp *headerProvider) GetAsymUnit(code string) (*cmmn.Structure, error) {
	f, err := hp.r.fetcher()
	if err != nil {
		return nil, err
	}
	s, err := f.FetchByCode(code)
	if err != nil {
		return nil, err
	}
	hp.held = s
	return s, nil
}

func (hp *headerProvider) HasBiolAssembly(code string) (bool, error) {
	n, err := hp.NrBiolAssemblies(code)
	return n > 0, err
}

func (hp *headerProvider) NrBiolAssemblies(code string) (int, error) {
	s, err := hp.GetAsymUnit(code)
	if err != nil {
		return 0, err
	}
	return len(s.Hdr.BioAssemblies), nil
}

func (hp *headerProvider) Release() { hp.held = nil }

// SetBioUnitProvider replaces the source of asymmetric units for
// the assembly path. nil goes back to the default, which reads the
// header metadata.
func (r *Resolver) SetBioUnitProvider(p BioUnitProvider) {
	r.mu.Lock()
	r.bio = p
	r.mu.Unlock()
}

func (r *Resolver) bioProvider() BioUnitProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bio != nil {
		return r.bio
	}
	return &headerProvider{r: r}
}

// HasBioAssembly says whether an entry declares any biological
// assembly at all.
func (r *Resolver) HasBioAssembly(code string) (bool, error) {
	p := r.bioProvider()
	defer p.Release()
	return p.HasBiolAssembly(strings.ToLower(code))
}

// NrBioAssemblies counts the declared assemblies. The asymmetric
// unit itself, number 0, is not counted.
func (r *Resolver) NrBioAssemblies(code string) (int, error) {
	p := r.bioProvider()
	defer p.Release()
	return p.NrBiolAssemblies(strings.ToLower(code))
}

// GetBioAssembly builds assembly nr of an entry. nr 0 gives back
// the asymmetric unit itself, which is noted in the log since it is
// not a true assembly. A number the entry does not declare gives a
// NoSuchAssemblyError, a declared but empty one a NoTransformsError.
func (r *Resolver) GetBioAssembly(code string, nr int) (*cmmn.Structure, error) {
	code = strings.ToLower(code)
	p := r.bioProvider()
	defer p.Release()
	asym, err := p.GetAsymUnit(code)
	if err != nil {
		return nil, err
	}
	if nr == 0 {
		r.outlog.Println(code, "assembly 0 asked for, returning the asymmetric unit")
		return asym, nil
	}
	asm, ok := asym.Hdr.BioAssemblies[nr]
	if !ok {
		return nil, &NoSuchAssemblyError{Code: code, Nr: nr}
	}
	if len(asm.Transforms) == 0 {
		return nil, &NoTransformsError{Code: code, Nr: nr}
	}
	return quat.Rebuild(asym, asm.Transforms)
}

// Go to a pdb website and download coordinates.
// pdb europe files are at http://www.ebi.ac.uk/pdbe/entry-files/download/5pti.cif
// or maybe http://www.ebi.ac.uk/pdbe/entry-files/download/5pti_updated.cif
// The main point is to visit the web page and return a reader that
// can be used like the file readers.

package pdb

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/andrew-torda/structure/pdb/zwrap"
)

// NSites says how many download sites we know about.
const NSites = 3

var sites = []struct {
	urlBase   string
	urlSuffix string
}{
	{"https://files.rcsb.org/download/", ".cif.gz"},
	{"http://www.ebi.ac.uk/pdbe/entry-files/download/", ".cif"},
	{"http://ftp.pdbj.org/mmcif/", ".cif.gz"},
}

// codeURL builds the download url for a code at one of the sites.
// If siteNum is too big, we use a modulo to wrap it around, rather
// than generate an error. This makes it easier to cycle through
// them or pick one at random.
func codeURL(acqCode string, siteNum int) string {
	if siteNum >= len(sites) || siteNum < 0 {
		siteNum = ((siteNum % len(sites)) + len(sites)) % len(sites)
	}
	return sites[siteNum].urlBase + acqCode + sites[siteNum].urlSuffix
}

// getHTTP visits a url and returns a decompressed reader over the
// body. Sites return normal or gzipped data, so we let zwrap sniff
// rather than trusting the file name. A 404 comes back as
// ErrNotFound so the caller can tell a missing entry from a broken
// network.
func getHTTP(client *http.Client, url string) (io.ReadCloser, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("wanted %s: %w", url, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.New("wanted " + url + ", got " + resp.Status)
	}
	return zwrap.WrapMaybe(resp.Body)
}

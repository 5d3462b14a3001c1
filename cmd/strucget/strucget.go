// strucget fetches a structure by name and prints what it found.

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/andrew-torda/structure/config"
	"github.com/andrew-torda/structure/pdb/cmmn"
	"github.com/andrew-torda/structure/strucid"
	"github.com/andrew-torda/structure/strucio"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

var (
	cacheDir   string
	site       int
	logTo      string
	timeoutSec int
	listAsm    bool
)

var rootCmd = &cobra.Command{
	Use:   "strucget <name>",
	Short: "Fetch a structure and print a summary",
	Long: `strucget resolves a structure name, fetches the coordinates and
prints a short summary. Names look like

  4hhb            a whole entry
  4hhb.C          one chain
  4gcr.A_1-83     a residue range
  BIOL:1fah       biological assembly 1
  BIOL:1fah:2     biological assembly 2

With -a it lists the biological assemblies an entry declares
instead of fetching coordinates.`,
	Args:          cobra.ExactArgs(1),
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "where to keep downloaded entries")
	rootCmd.Flags().IntVar(&site, "site", 0, "download mirror index")
	rootCmd.Flags().StringVar(&logTo, "log", "", "log destination, empty, stdout or a filename")
	rootCmd.Flags().IntVar(&timeoutSec, "timeout", 0, "http timeout in seconds")
	rootCmd.Flags().BoolVarP(&listAsm, "assemblies", "a", false, "list the entry's biological assemblies")
}

// options merges the config file with whatever flags were set on
// the command line. A flag that was given beats the file.
func options(cmd *cobra.Command) (strucio.Options, error) {
	cfg, _, err := config.Load()
	if err != nil {
		return strucio.Options{}, err
	}
	if cmd.Flags().Changed("cache-dir") {
		cfg.CacheDir = cacheDir
	}
	if cmd.Flags().Changed("site") {
		cfg.Site = site
	}
	if cmd.Flags().Changed("log") {
		cfg.LogTo = logTo
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSec = timeoutSec
	}
	return strucio.Options{
		CacheDir: cfg.CacheDir,
		Site:     cfg.Site,
		Timeout:  cfg.Timeout(),
		LogTo:    cfg.LogTo,
	}, nil
}

func run(cmd *cobra.Command, args []string) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	rslvr, err := strucio.NewResolver(opts)
	if err != nil {
		return err
	}
	defer rslvr.Close()
	if listAsm {
		return listAssemblies(cmd, rslvr, args[0])
	}
	s, err := rslvr.Resolve(args[0])
	if err != nil {
		return err
	}
	summary(cmd, s)
	return nil
}

func listAssemblies(cmd *cobra.Command, rslvr *strucio.Resolver, name string) error {
	spec, err := strucid.Parse(name)
	if err != nil {
		return err
	}
	if spec.Code == "" {
		return fmt.Errorf("%s does not name a pdb entry", name)
	}
	s, err := rslvr.Resolve(spec.Code)
	if err != nil {
		return err
	}
	ids := s.Hdr.AssemblyIDs()
	if len(ids) == 0 {
		cmd.Println(s.Code, "declares no biological assemblies")
		return nil
	}
	cmd.Println(s.Code, "declares", len(ids), "biological assemblies")
	for _, id := range ids {
		asm := s.Hdr.BioAssemblies[id]
		cmd.Printf("  %d: %d transformations\n", id, len(asm.Transforms))
	}
	return nil
}

func summary(cmd *cobra.Command, s *cmmn.Structure) {
	cmd.Println("code: ", s.Code)
	if s.Hdr.Title != "" {
		cmd.Println("title:", s.Hdr.Title)
	}
	if s.Hdr.Xtal != nil {
		inf := s.Hdr.Xtal
		cmd.Printf("cell:  %.1f %.1f %.1f  %.1f %.1f %.1f  %s\n",
			inf.GetA(), inf.GetB(), inf.GetC(),
			inf.GetAlpha(), inf.GetBeta(), inf.GetGamma(), inf.SG.Symbol)
	}
	valid, invalid := s.NAtoms()
	cmd.Println("atoms:", valid, "placed,", invalid, "missing")
	names := s.ChainNames()
	sort.Strings(names)
	cmd.Println("chains:")
	for _, n := range names {
		cmd.Printf("  %-4s %d residues\n", n, s.Chain(n).NRes())
	}
	if ids := s.Hdr.AssemblyIDs(); len(ids) > 0 {
		cmd.Println("assemblies:", len(ids))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "strucget:", err)
		os.Exit(ExitFailure)
	}
	os.Exit(ExitSuccess)
}

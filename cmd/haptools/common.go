package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dasnellings/hapTools/haplotype"
	"github.com/dasnellings/hapTools/targets"
	"github.com/dasnellings/hapTools/variant"
	"github.com/dasnellings/hapTools/vcfio"
)

var errNoTargets = errors.New("must request sites with -t, -T, -b, or -c and -p, or use -all")

// targetFlags holds the site selection options shared by every subcommand.
type targetFlags struct {
	sites      inputFiles
	beds       inputFiles
	sitesFile  *string
	chrom      *string
	pos        *int
	upstream   *int
	downstream *int
	all        *bool
}

func addTargetFlags(fs *flag.FlagSet) *targetFlags {
	tf := new(targetFlags)
	fs.Var(&tf.sites, "t", "Comma separated list of sites as chr:pos. Codes are built in the order given. May be declared more than once.")
	tf.sitesFile = fs.String("T", "", "File with one site per line, as chr:pos or chr<tab>pos. Lines beginning with # are ignored.")
	fs.Var(&tf.beds, "b", "Bed file of regions. Every record inside a region is used, in VCF order, after any explicit sites. May be declared more than once.")
	tf.chrom = fs.String("c", "", "Chromosome of a window target. Requires -p.")
	tf.pos = fs.Int("p", 0, "Position of a window target. Requires -c.")
	tf.upstream = fs.Int("s", 0, "Bases upstream of -p included in the window target.")
	tf.downstream = fs.Int("e", 0, "Bases downstream of -p included in the window target.")
	tf.all = fs.Bool("all", false, "Use every record in the VCF, in file order. May not be combined with other target options.")
	return tf
}

// build assembles the requested targets. A nil set selects every record.
// When required is false and no target option is set, every record is used.
func (tf *targetFlags) build(required bool) (*targets.Set, error) {
	req := targets.NewSet()
	for _, list := range tf.sites {
		sites, err := targets.ParseSites(list)
		if err != nil {
			return nil, err
		}
		for _, site := range sites {
			req.AddSite(site)
		}
	}

	if *tf.sitesFile != "" {
		sites, err := targets.ReadSites(*tf.sitesFile)
		if err != nil {
			return nil, err
		}
		for _, site := range sites {
			req.AddSite(site)
		}
	}

	if (*tf.chrom == "") != (*tf.pos == 0) {
		return nil, errors.New("-c and -p must be used together")
	}
	if *tf.upstream < 0 || *tf.downstream < 0 {
		return nil, errors.New("-s and -e may not be negative")
	}
	if *tf.chrom != "" {
		if *tf.pos < 1 {
			return nil, errors.New("-p must be a 1-based position")
		}
		req.AddRegion(targets.Window(*tf.chrom, *tf.pos, *tf.upstream, *tf.downstream))
	}

	for _, bedFile := range tf.beds {
		regions, err := targets.ReadBed(bedFile)
		if err != nil {
			return nil, err
		}
		for _, r := range regions {
			req.AddRegion(r)
		}
	}

	switch {
	case *tf.all && !req.Empty():
		return nil, errors.New("-all may not be combined with other target options")
	case *tf.all:
		return nil, nil
	case req.Empty() && required:
		return nil, errNoTargets
	case req.Empty():
		return nil, nil
	}
	return req, nil
}

// newLogger writes to stderr. verbose 0 shows warnings, 1 adds info and
// anything higher adds debug output.
func newLogger(verbose int) *log.Logger {
	level := log.WarnLevel
	switch {
	case verbose == 1:
		level = log.InfoLevel
	case verbose > 1:
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{Prefix: "haptools", Level: level})
}

// haplotypeFile runs the haplotype pipeline over one VCF path, which may be
// gzip or zstd compressed, or "-" for stdin.
func haplotypeFile(input string, req *targets.Set, opts haplotype.Options) (*haplotype.Result, error) {
	r, err := vcfio.Open(input)
	if err != nil {
		return nil, err
	}
	defer cleanup(r)
	return haplotype.Run(r, req, opts)
}

func logResult(logger *log.Logger, input string, res *haplotype.Result) {
	for _, w := range res.Warnings {
		kv := []interface{}{"input", input, "chrom", w.Site.Chrom, "pos", w.Site.Pos}
		if w.Line > 0 {
			kv = append(kv, "line", w.Line)
		}
		if w.Sample != "" {
			kv = append(kv, "sample", w.Sample, "gt", w.GT)
		}
		if w.Detail != "" {
			kv = append(kv, "detail", w.Detail)
		}
		logger.Warn(w.Kind.String(), kv...)
	}
	logger.Info("haplotyped", "input", input, "samples", len(res.Samples), "sites", len(res.Sites), "groups", len(res.Groups))
	if logger.GetLevel() <= log.DebugLevel {
		logger.Debug("header", "input", input, "format", strings.Join(res.Header.FormatIDs(), ","))
		for _, site := range res.Sites {
			logger.Debug("site", "input", input, "site", site.String())
		}
	}
}

// logFailure reports err for input, adding the line number of format errors.
func logFailure(logger *log.Logger, input string, err error) {
	var fe *variant.FormatError
	if errors.As(err, &fe) {
		logger.Error("malformed vcf", "input", input, "line", fe.Line, "err", fe.Msg)
		return
	}
	logger.Error("failed", "input", input, "err", err)
}

// perInput inserts the base name of input before the extension of path so
// batch runs write one file per input. perInput("out/groups.arrow", "x/a.vcf.gz")
// is "out/groups.a.arrow".
func perInput(path, input string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + inputName(input) + ext
}

// inputName is the base name of input without VCF and compression extensions.
func inputName(input string) string {
	if input == "-" || input == "stdin" {
		return "stdin"
	}
	name := filepath.Base(input)
	for _, ext := range []string{".gz", ".bgz", ".zst", ".vcf"} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

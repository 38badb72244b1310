package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/vertgenlab/gonomics/exception"
)

const version string = "0.1.0"
const gonomicsVersion string = "1.0.1-0.20240426183757-e6c6ab634c20"

// subcommand is one entry of the haptools command table.
type subcommand struct {
	name  string
	run   func(args []string)
	about string
}

// SubCommands lists the commands in the order usage prints them.
var SubCommands = []*subcommand{
	{name: "hap", run: runHap, about: "group samples by haplotype across requested sites"},
	{name: "sample", run: runSample, about: "report each sample's genotype at requested sites"},
	{name: "table", run: runTable, about: "site by sample matrix of genotype symbols"},
	{name: "extract", run: runExtract, about: "write requested sites from a VCF as a new VCF"},
}

func usage() {
	w := tabwriter.NewWriter(os.Stderr, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "haptools %s - haplotype extraction and grouping from VCF\n", version)
	fmt.Fprintf(w, "built with gonomics %s\n\n", gonomicsVersion)
	fmt.Fprintln(w, "Usage: haptools <command> [options]")
	fmt.Fprintln(w, "Run 'haptools <command> -h' for the options of a command.")
	fmt.Fprintln(w, "\nCommands:")
	for _, c := range SubCommands {
		fmt.Fprintf(w, "  %s\t%s\n", c.name, c.about)
	}
	w.Flush()
}

// findCommand returns the subcommand called name, or nil.
func findCommand(name string) *subcommand {
	for _, c := range SubCommands {
		if c.name == name {
			return c
		}
	}
	return nil
}

func main() {
	flag.Usage = usage
	flag.Parse()

	c := findCommand(flag.Arg(0))
	if c == nil {
		flag.Usage()
		if flag.NArg() > 0 {
			errExit(fmt.Sprintf("\nERROR: unknown command %q", flag.Arg(0)))
		}
		return
	}
	c.run(flag.Args()[1:])
}

// inputFiles is a custom type that gets filled by flag.Parse()
type inputFiles []string

// String to satisfy flag.Value interface
func (i *inputFiles) String() string {
	return strings.Join(*i, " ")
}

// Set to satisfy flag.Value interface
func (i *inputFiles) Set(value string) error {
	*i = append(*i, value)
	return nil
}

func errExit(err string) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func cleanup(f io.Closer) {
	err := f.Close()
	exception.PanicOnErr(err)
}

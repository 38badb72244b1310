package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dasnellings/hapTools/haplotype"
	"github.com/dasnellings/hapTools/report"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

func tableUsage(tableFlags *flag.FlagSet) {
	fmt.Print(
		"table - print a site by sample matrix of genotype symbols\n" +
			"\tWithout target options every record in the VCF is used.\n\n" +
			"Usage:\n" +
			"  haptools table [options] -i input.vcf > genotypes.tsv\n\n" +
			"Options:\n")
	tableFlags.PrintDefaults()
}

func runTable(args []string) {
	var err error
	tableFlags := flag.NewFlagSet("table", flag.ExitOnError)
	tableFlags.Usage = func() { tableUsage(tableFlags) }

	input := tableFlags.String("i", "", "Input VCF file. May be gzip or zstd compressed, or - for stdin.")
	output := tableFlags.String("o", "stdout", "Output TSV file.")
	numeric := tableFlags.Bool("numeric", false, "Print allele indices (0/1) instead of sequences (C/T).")
	missing := tableFlags.String("missing", haplotype.DefaultMissing, "Symbol for missing, partial, and unsupported genotypes.")
	verbose := tableFlags.Int("v", 0, "Verbose output by setting to >0.")
	tf := addTargetFlags(tableFlags)

	err = tableFlags.Parse(args)
	exception.PanicOnErr(err)

	if *input == "" {
		tableFlags.Usage()
		errExit("\nERROR: must have an input VCF with -i")
	}

	req, err := tf.build(false)
	if err != nil {
		tableFlags.Usage()
		errExit("\nERROR: " + err.Error())
	}

	logger := newLogger(*verbose)
	res, err := haplotypeFile(*input, req, haplotype.Options{Missing: *missing, Numeric: *numeric})
	if err != nil {
		logFailure(logger, *input, err)
		os.Exit(1)
	}
	logResult(logger, *input, res)

	out := fileio.EasyCreate(*output)
	err = report.WriteTable(out, res)
	exception.PanicOnErr(err)
	cleanup(out)
}

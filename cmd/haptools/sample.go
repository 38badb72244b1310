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

func sampleUsage(sampleFlags *flag.FlagSet) {
	fmt.Print(
		"sample - report the genotype, alleles, and zygosity of every sample at the requested sites\n\n" +
			"Usage:\n" +
			"  haptools sample [options] -i input.vcf.gz -c chr1 -p 1000 -s 50 -e 50 > samples.tsv\n\n" +
			"Options:\n")
	sampleFlags.PrintDefaults()
}

func runSample(args []string) {
	var err error
	sampleFlags := flag.NewFlagSet("sample", flag.ExitOnError)
	sampleFlags.Usage = func() { sampleUsage(sampleFlags) }

	input := sampleFlags.String("i", "", "Input VCF file. May be gzip or zstd compressed, or - for stdin.")
	output := sampleFlags.String("o", "stdout", "Output TSV file.")
	numeric := sampleFlags.Bool("numeric", false, "Render alleles as indices (0/1) instead of sequences (C/T).")
	missing := sampleFlags.String("missing", haplotype.DefaultMissing, "Symbol for missing, partial, and unsupported genotypes.")
	verbose := sampleFlags.Int("v", 0, "Verbose output by setting to >0.")
	tf := addTargetFlags(sampleFlags)

	err = sampleFlags.Parse(args)
	exception.PanicOnErr(err)

	if *input == "" {
		sampleFlags.Usage()
		errExit("\nERROR: must have an input VCF with -i")
	}

	req, err := tf.build(true)
	if err != nil {
		sampleFlags.Usage()
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
	err = report.WriteSamples(out, res)
	exception.PanicOnErr(err)
	cleanup(out)
}

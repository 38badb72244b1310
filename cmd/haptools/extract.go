package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dasnellings/hapTools/haplotype"
	"github.com/dasnellings/hapTools/report"
	"github.com/dasnellings/hapTools/vcfio"
	"github.com/vertgenlab/gonomics/exception"
)

func extractUsage(extractFlags *flag.FlagSet) {
	fmt.Print(
		"extract - write the records at the requested sites as a VCF\n" +
			"\tRecords are written in input order with every column kept as read, GT first.\n\n" +
			"Usage:\n" +
			"  haptools extract [options] -i input.vcf.gz -b regions.bed > subset.vcf\n\n" +
			"Options:\n")
	extractFlags.PrintDefaults()
}

func runExtract(args []string) {
	var err error
	extractFlags := flag.NewFlagSet("extract", flag.ExitOnError)
	extractFlags.Usage = func() { extractUsage(extractFlags) }

	input := extractFlags.String("i", "", "Input VCF file. May be gzip or zstd compressed, or - for stdin.")
	output := extractFlags.String("o", "stdout", "Output VCF file. Ending the name in .gz or .zst compresses the output.")
	verbose := extractFlags.Int("v", 0, "Verbose output by setting to >0.")
	tf := addTargetFlags(extractFlags)

	err = extractFlags.Parse(args)
	exception.PanicOnErr(err)

	if *input == "" {
		extractFlags.Usage()
		errExit("\nERROR: must have an input VCF with -i")
	}

	req, err := tf.build(true)
	if err != nil {
		extractFlags.Usage()
		errExit("\nERROR: " + err.Error())
	}

	logger := newLogger(*verbose)
	res, err := haplotypeFile(*input, req, haplotype.Options{})
	if err != nil {
		logFailure(logger, *input, err)
		os.Exit(1)
	}
	logResult(logger, *input, res)

	out, err := vcfio.Create(*output)
	if err != nil {
		errExit("ERROR: " + err.Error())
	}
	if err = report.WriteVcf(out, res); err != nil {
		errExit("ERROR: " + err.Error())
	}
	cleanup(out)
}

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dasnellings/hapTools/haplotype"
	"github.com/dasnellings/hapTools/report"
	"github.com/dasnellings/hapTools/targets"
	"github.com/dasnellings/hapTools/vcfio"
	"github.com/vertgenlab/gonomics/exception"
)

func hapUsage(hapFlags *flag.FlagSet) {
	fmt.Print(
		"hap - group samples sharing an identical haplotype across the requested sites\n\n" +
			"Usage:\n" +
			"  haptools hap [options] -i input.vcf.gz -t chr1:100,chr1:250 > groups.tsv\n" +
			"  haptools hap [options] -i a.vcf -i b.vcf -T sites.txt -o outdir\n\n" +
			"Options:\n")
	hapFlags.PrintDefaults()
}

// hapSettings holds the outputs requested for each input of a hap run.
type hapSettings struct {
	output    string
	arrow     string
	db        string
	chart     string
	plot      bool
	chunkSize int
	opts      haplotype.Options
}

// forInput returns the settings for one input of a batch. The group report
// goes to <output>/<name>.hap.tsv and other files get the input name inserted
// before their extension.
func (s hapSettings) forInput(input string) hapSettings {
	ans := s
	ans.output = filepath.Join(s.output, inputName(input)+".hap.tsv")
	if s.arrow != "" {
		ans.arrow = perInput(s.arrow, input)
	}
	if s.db != "" {
		ans.db = perInput(s.db, input)
	}
	if s.chart != "" {
		ans.chart = perInput(s.chart, input)
	}
	return ans
}

func runHap(args []string) {
	var err error
	hapFlags := flag.NewFlagSet("hap", flag.ExitOnError)
	hapFlags.Usage = func() { hapUsage(hapFlags) }

	var inputs inputFiles
	hapFlags.Var(&inputs, "i", "Input VCF file. May be gzip or zstd compressed, or - for stdin. May be declared more than once; inputs are processed concurrently.")
	output := hapFlags.String("o", "stdout", "Output group report. With more than one -i this must be a directory.")
	numeric := hapFlags.Bool("numeric", false, "Render alleles as indices (0/1) instead of sequences (C/T).")
	missing := hapFlags.String("missing", haplotype.DefaultMissing, "Symbol for missing, partial, and unsupported genotypes.")
	arrowFile := hapFlags.String("arrow", "", "Also write the group report to an Arrow IPC file.")
	chunkSize := hapFlags.Int("arrowChunkSize", report.DefaultChunkSize, "Groups per Arrow record batch.")
	dbFile := hapFlags.String("db", "", "Also write sites, groups, and group members to a SQLite database. Existing tables are replaced.")
	chartFile := hapFlags.String("chart", "", "Draw a bar chart of group sizes. Format is taken from the extension (png, svg, pdf).")
	plot := hapFlags.Bool("plot", false, "Print a plot of group sizes to stderr.")
	verbose := hapFlags.Int("v", 0, "Verbose output by setting to >0.")
	tf := addTargetFlags(hapFlags)

	err = hapFlags.Parse(args)
	exception.PanicOnErr(err)

	if len(inputs) == 0 {
		hapFlags.Usage()
		errExit("\nERROR: must have at least one input VCF with -i")
	}

	req, err := tf.build(true)
	if err != nil {
		hapFlags.Usage()
		errExit("\nERROR: " + err.Error())
	}

	settings := hapSettings{
		output:    *output,
		arrow:     *arrowFile,
		db:        *dbFile,
		chart:     *chartFile,
		plot:      *plot,
		chunkSize: *chunkSize,
		opts:      haplotype.Options{Missing: *missing, Numeric: *numeric},
	}
	logger := newLogger(*verbose)

	if len(inputs) == 1 {
		if err = hapFile(inputs[0], req, settings, logger); err != nil {
			logFailure(logger, inputs[0], err)
			os.Exit(1)
		}
		return
	}

	if *output == "stdout" {
		hapFlags.Usage()
		errExit("\nERROR: -o must be a directory when more than one -i is given")
	}
	if err = checkInputNames(inputs); err != nil {
		errExit("ERROR: " + err.Error())
	}
	err = os.MkdirAll(*output, 0755)
	exception.PanicOnErr(err)

	if failed := hapBatch(inputs, req, settings, logger); failed > 0 {
		errExit(fmt.Sprintf("ERROR: %d of %d inputs failed", failed, len(inputs)))
	}
}

// checkInputNames returns an error if two inputs would write the same batch
// outputs, e.g. a/cohort.vcf and b/cohort.vcf.gz.
func checkInputNames(inputs []string) error {
	seen := make(map[string]string, len(inputs))
	for _, input := range inputs {
		name := inputName(input)
		if prev, found := seen[name]; found {
			return fmt.Errorf("inputs %s and %s both write outputs named %s", prev, input, name)
		}
		seen[name] = input
	}
	return nil
}

// hapBatch processes each input in its own goroutine and returns the number
// of inputs that failed. A failure does not stop the other inputs. Inputs
// sharing a name are all failed without being read.
func hapBatch(inputs []string, req *targets.Set, settings hapSettings, logger *log.Logger) int {
	errs := make([]error, len(inputs))
	users := make(map[string][]string, len(inputs))
	for _, input := range inputs {
		users[inputName(input)] = append(users[inputName(input)], input)
	}

	var wg sync.WaitGroup
	for i := range inputs {
		if same := users[inputName(inputs[i])]; len(same) > 1 {
			errs[i] = fmt.Errorf("output name %s is shared by inputs %v", inputName(inputs[i]), same)
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("panic: %v", r)
				}
			}()
			errs[i] = hapFile(inputs[i], req, settings.forInput(inputs[i]), logger)
		}(i)
	}
	wg.Wait()

	var failed int
	for i := range errs {
		if errs[i] != nil {
			logFailure(logger, inputs[i], errs[i])
			failed++
		}
	}
	return failed
}

func hapFile(input string, req *targets.Set, s hapSettings, logger *log.Logger) error {
	res, err := haplotypeFile(input, req, s.opts)
	if err != nil {
		return err
	}
	logResult(logger, input, res)

	out, err := vcfio.Create(s.output)
	if err != nil {
		return err
	}
	err = report.WriteGroups(out, res)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	if s.arrow != "" {
		if err = report.WriteArrow(s.arrow, res, s.chunkSize); err != nil {
			return err
		}
		logger.Info("wrote arrow", "file", s.arrow)
	}
	if s.db != "" {
		if err = report.WriteSQLite(s.db, res); err != nil {
			return err
		}
		logger.Info("wrote database", "file", s.db)
	}
	if s.chart != "" {
		if err = report.SaveChart(s.chart, res, inputName(input)); err != nil {
			return err
		}
		logger.Info("wrote chart", "file", s.chart)
	}
	if s.plot {
		fmt.Fprint(os.Stderr, report.Plot(res, 10))
	}
	return nil
}

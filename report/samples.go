package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dasnellings/hapTools/haplotype"
)

var sampleColumns = []string{"Chr", "Position", "REF", "ALT", "Sample", "GT", "Alleles", "Frequency", "Biological_Meaning", "DP", "AD"}

// WriteSamples writes one row per sample per site found in the input.
// Frequency is the share of samples carrying the same symbol at that site.
// Requested sites absent from the input have no rows.
func WriteSamples(w io.Writer, res *haplotype.Result) error {
	if _, err := fmt.Fprintln(w, strings.Join(sampleColumns, "\t")); err != nil {
		return err
	}

	s := new(strings.Builder)
	var i int
	for _, sc := range res.Calls {
		if sc == nil || len(sc.Genotypes) == 0 {
			continue
		}

		symbolCounts := make(map[string]int)
		for _, sym := range sc.Symbols {
			symbolCounts[sym]++
		}

		alt := "."
		if len(sc.Record.Alt) > 0 {
			alt = strings.Join(sc.Record.Alt, ",")
		}

		for i = range res.Samples {
			g := sc.Genotypes[i]
			s.Reset()
			s.WriteString(sc.Record.Chrom)
			s.WriteByte('\t')
			s.WriteString(strconv.Itoa(sc.Record.Pos))
			s.WriteByte('\t')
			s.WriteString(sc.Record.Ref)
			s.WriteByte('\t')
			s.WriteString(alt)
			s.WriteByte('\t')
			s.WriteString(res.Samples[i])
			s.WriteByte('\t')
			if g.GT == "" {
				s.WriteByte('.')
			} else {
				s.WriteString(g.GT)
			}
			s.WriteByte('\t')
			s.WriteString(sc.Symbols[i])
			s.WriteByte('\t')
			s.WriteString(formatPercent(float64(symbolCounts[sc.Symbols[i]]) / float64(len(res.Samples))))
			s.WriteByte('\t')
			s.WriteString(g.Zygosity().String())
			s.WriteByte('\t')
			if g.DP < 0 {
				s.WriteByte('.')
			} else {
				s.WriteString(strconv.Itoa(g.DP))
			}
			s.WriteByte('\t')
			s.WriteString(joinInts(g.AD))
			if _, err := fmt.Fprintln(w, s.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

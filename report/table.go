package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dasnellings/hapTools/haplotype"
)

// WriteTable writes a site by sample matrix of rendered symbols, one row per
// encoded site. Absent sites are filled with the missing symbol.
func WriteTable(w io.Writer, res *haplotype.Result) error {
	h := make([]string, 4+len(res.Samples))
	h[0] = "Chromosome"
	h[1] = "Position"
	h[2] = "REF"
	h[3] = "ALT"
	copy(h[4:], res.Samples)

	if _, err := fmt.Fprintln(w, strings.Join(h, "\t")); err != nil {
		return err
	}

	s := new(strings.Builder)
	var i, j int
	for i = range res.Sites {
		s.Reset()
		s.WriteString(fmt.Sprintf("%s\t%d", res.Sites[i].Chrom, res.Sites[i].Pos))

		sc := res.Calls[i]
		if sc == nil {
			s.WriteString("\t.\t.")
		} else {
			s.WriteString("\t" + sc.Record.Ref + "\t")
			if len(sc.Record.Alt) == 0 {
				s.WriteByte('.')
			} else {
				s.WriteString(strings.Join(sc.Record.Alt, ","))
			}
		}

		for j = range res.Samples {
			s.WriteByte('\t')
			if sc == nil {
				s.WriteString(res.Missing)
				continue
			}
			s.WriteString(sc.Symbols[j])
		}
		if _, err := fmt.Fprintln(w, s.String()); err != nil {
			return err
		}
	}
	return nil
}

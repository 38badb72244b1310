package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dasnellings/hapTools/haplotype"
	"github.com/dasnellings/hapTools/variant"
	"github.com/vertgenlab/gonomics/vcf"
)

// WriteVcf writes the header of res and every record found at an encoded
// site, in input file order. Sites absent from the input are skipped.
func WriteVcf(w io.Writer, res *haplotype.Result) error {
	vcf.NewWriteHeader(w, vcf.Header{Text: res.Header.Text()})

	records := make([]variant.Record, 0, len(res.Calls))
	for _, sc := range res.Calls {
		if sc != nil {
			records = append(records, sc.Record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Line < records[j].Line
	})

	for i := range records {
		if _, err := fmt.Fprintln(w, RecordLine(records[i])); err != nil {
			return err
		}
	}
	return nil
}

// RecordLine renders rec as a VCF data line. Every column and subfield is
// written as it was read, including genotypes the decoder does not support.
// GT is moved to the first FORMAT subfield; subfields dropped from the end
// of a sample are written as ".".
func RecordLine(rec variant.Record) string {
	s := new(strings.Builder)
	s.WriteString(rec.Chrom)
	s.WriteByte('\t')
	s.WriteString(strconv.Itoa(rec.Pos))
	s.WriteByte('\t')
	s.WriteString(rec.Id)
	s.WriteByte('\t')
	s.WriteString(rec.Ref)
	s.WriteByte('\t')
	s.WriteString(strings.Join(rec.Alt, ","))
	s.WriteByte('\t')
	s.WriteString(rec.Qual)
	s.WriteByte('\t')
	s.WriteString(rec.Filter)
	s.WriteByte('\t')
	s.WriteString(rec.Info)

	if len(rec.Format) == 0 {
		return s.String()
	}

	order := formatOrder(rec.Format)
	s.WriteByte('\t')
	for i, idx := range order {
		if i > 0 {
			s.WriteByte(':')
		}
		s.WriteString(rec.Format[idx])
	}

	var subfields []string
	for i := range rec.Samples {
		subfields = strings.Split(rec.Samples[i], ":")
		s.WriteByte('\t')
		for j, idx := range order {
			if j > 0 {
				s.WriteByte(':')
			}
			if idx < len(subfields) {
				s.WriteString(subfields[idx])
			} else {
				s.WriteByte('.')
			}
		}
	}
	return s.String()
}

// formatOrder lists the FORMAT indices in output order, GT first.
func formatOrder(format []string) []int {
	ans := make([]int, 0, len(format))
	for i := range format {
		if format[i] == "GT" {
			ans = append(ans, i)
		}
	}
	for i := range format {
		if format[i] != "GT" {
			ans = append(ans, i)
		}
	}
	return ans
}

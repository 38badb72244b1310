// Package variant streams records from VCF text. Only the fixed columns are
// interpreted here; per-sample genotype strings are handed to the genotype
// package untouched.
package variant

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	chromIdx  int = 0
	posIdx    int = 1
	idIdx     int = 2
	refIdx    int = 3
	altIdx    int = 4
	qualIdx   int = 5
	filterIdx int = 6
	infoIdx   int = 7
	formatIdx int = 8
)

// numFixed is the number of columns preceding the sample columns.
const numFixed int = 9

// FormatError reports input that cannot be read as VCF. Line is the 1-based
// line number of the offending line, or 0 when the error is not tied to a line.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("vcf format error on line %d: %s", e.Line, e.Msg)
	}
	return "vcf format error: " + e.Msg
}

// Site is a 1-based genomic position.
type Site struct {
	Chrom string
	Pos   int
}

func (s Site) String() string {
	return s.Chrom + ":" + strconv.Itoa(s.Pos)
}

// Record is one VCF data line. Samples holds the raw colon-delimited
// genotype strings in header sample order.
type Record struct {
	Line    int
	Chrom   string
	Pos     int
	Id      string
	Ref     string
	Alt     []string
	Qual    string
	Filter  string
	Info    string
	Format  []string
	Samples []string
}

func (r Record) Site() Site {
	return Site{Chrom: r.Chrom, Pos: r.Pos}
}

// Alleles returns the reference allele followed by the alternates, so that
// a GT allele index can be used to index into it directly. A missing ALT
// ("." in the VCF) contributes no alleles.
func (r Record) Alleles() []string {
	ans := make([]string, 0, 1+len(r.Alt))
	ans = append(ans, r.Ref)
	for _, a := range r.Alt {
		if a == "." {
			continue
		}
		ans = append(ans, a)
	}
	return ans
}

// parseRecord splits a data line. The column count must match the header:
// 8 columns when the file has no samples, otherwise 9 plus one per sample.
func parseRecord(line string, lineNum int, numSamples int) (Record, error) {
	var ans Record
	var err error
	fields := strings.Split(line, "\t")

	want := numFixed + numSamples
	if numSamples == 0 && len(fields) == numFixed-1 {
		want = numFixed - 1
	}
	if len(fields) < want {
		return ans, &FormatError{Line: lineNum, Msg: fmt.Sprintf("found %d columns, expected %d (9 fixed + %d samples)", len(fields), numFixed+numSamples, numSamples)}
	}
	if len(fields) > want {
		return ans, &FormatError{Line: lineNum, Msg: fmt.Sprintf("found %d columns, header declares %d", len(fields), want)}
	}

	ans.Line = lineNum
	ans.Chrom = fields[chromIdx]
	ans.Pos, err = strconv.Atoi(fields[posIdx])
	if err != nil || ans.Pos < 0 {
		return ans, &FormatError{Line: lineNum, Msg: fmt.Sprintf("invalid POS %q", fields[posIdx])}
	}
	ans.Id = fields[idIdx]
	ans.Ref = fields[refIdx]
	ans.Alt = strings.Split(fields[altIdx], ",")
	ans.Qual = fields[qualIdx]
	ans.Filter = fields[filterIdx]
	ans.Info = fields[infoIdx]
	if want > formatIdx {
		ans.Format = strings.Split(fields[formatIdx], ":")
		ans.Samples = fields[numFixed:]
	}
	return ans, nil
}

// checkSubfields enforces that no sample carries more subfields than FORMAT
// declares. Trailing subfields may be dropped, as the VCF format allows.
func checkSubfields(r Record, samples []string) error {
	for i := range r.Samples {
		if n := strings.Count(r.Samples[i], ":") + 1; n > len(r.Format) {
			return &FormatError{Line: r.Line, Msg: fmt.Sprintf("sample %s has %d subfields, FORMAT declares %d", samples[i], n, len(r.Format))}
		}
	}
	return nil
}

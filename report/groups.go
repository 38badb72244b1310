package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dasnellings/hapTools/haplotype"
	"github.com/dasnellings/hapTools/targets"
	"github.com/dasnellings/hapTools/variant"
)

const (
	missingPrefix string = "##missing="
	sitePrefix    string = "##site="
)

var groupColumns = []string{"rank", "code", "count", "frequency", "uncalled", "meanDP", "samples"}

// WriteGroups writes the group report as tab separated text. The missing
// symbol is recorded on a ##missing= line, followed by the encoded sites as
// ##site= lines in code order.
func WriteGroups(w io.Writer, res *haplotype.Result) error {
	missing := res.Missing
	if missing == "" {
		missing = haplotype.DefaultMissing
	}
	_, err := fmt.Fprintln(w, missingPrefix+missing)
	if err != nil {
		return err
	}
	for _, site := range res.Sites {
		if _, err = fmt.Fprintln(w, sitePrefix+site.String()); err != nil {
			return err
		}
	}
	if _, err = fmt.Fprintln(w, strings.Join(groupColumns, "\t")); err != nil {
		return err
	}

	s := new(strings.Builder)
	for _, r := range Rows(res) {
		s.Reset()
		s.WriteString(strconv.Itoa(r.Rank))
		s.WriteByte('\t')
		s.WriteString(r.Code)
		s.WriteByte('\t')
		s.WriteString(strconv.Itoa(r.Count))
		s.WriteByte('\t')
		s.WriteString(formatPercent(r.Frequency))
		s.WriteByte('\t')
		s.WriteString(strconv.FormatBool(r.Uncalled))
		s.WriteByte('\t')
		s.WriteString(formatDepth(r.MeanDP))
		s.WriteByte('\t')
		s.WriteString(strings.Join(r.Samples, MemberSep))
		if _, err = fmt.Fprintln(w, s.String()); err != nil {
			return err
		}
	}
	return nil
}

// GroupReport is a group report read back from text. Missing is
// haplotype.DefaultMissing for reports without a ##missing= line.
type GroupReport struct {
	Missing string
	Sites   []variant.Site
	Groups  []haplotype.Group
}

// ReadGroups parses a report written by WriteGroups.
func ReadGroups(r io.Reader) (*GroupReport, error) {
	ans := &GroupReport{Missing: haplotype.DefaultMissing}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<30)

	var lineNum int
	var sawHeader bool
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case line == "":
			continue
		case !sawHeader && strings.HasPrefix(line, missingPrefix):
			ans.Missing = strings.TrimPrefix(line, missingPrefix)
			if ans.Missing == "" {
				return nil, fmt.Errorf("line %d: empty missing symbol", lineNum)
			}
			continue
		case strings.HasPrefix(line, sitePrefix):
			site, err := targets.ParseSite(strings.TrimPrefix(line, sitePrefix))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			ans.Sites = append(ans.Sites, site)
			continue
		case !sawHeader:
			if line != strings.Join(groupColumns, "\t") {
				return nil, fmt.Errorf("line %d: unexpected report header %q", lineNum, line)
			}
			sawHeader = true
			continue
		}

		words := strings.Split(line, "\t")
		if len(words) != len(groupColumns) {
			return nil, fmt.Errorf("line %d: found %d columns, expected %d", lineNum, len(words), len(groupColumns))
		}
		count, err := strconv.Atoi(words[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid count %q", lineNum, words[2])
		}
		uncalled, err := strconv.ParseBool(words[4])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid uncalled flag %q", lineNum, words[4])
		}

		g := haplotype.Group{Code: haplotype.ParseCode(words[1]), Uncalled: uncalled}
		if words[6] != "" {
			g.Samples = strings.Split(words[6], MemberSep)
		}
		if len(g.Samples) != count {
			return nil, fmt.Errorf("line %d: count %d does not match %d listed samples", lineNum, count, len(g.Samples))
		}
		ans.Groups = append(ans.Groups, g)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !sawHeader {
		return nil, fmt.Errorf("no report header found")
	}
	return ans, nil
}

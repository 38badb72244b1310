package haplotype

import (
	"fmt"
	"io"
	"strings"

	"github.com/dasnellings/hapTools/genotype"
	"github.com/dasnellings/hapTools/targets"
	"github.com/dasnellings/hapTools/variant"
)

// WarningKind classifies non-fatal conditions found during a run.
type WarningKind int

const (
	MissingPosition WarningKind = iota
	UnsupportedGenotype
	DuplicateSite
)

func (k WarningKind) String() string {
	switch k {
	case MissingPosition:
		return "missing position"
	case UnsupportedGenotype:
		return "unsupported genotype"
	default:
		return "duplicate site"
	}
}

// Warning is a non-fatal condition. Sample and GT are set for
// UnsupportedGenotype only; Line is 0 for MissingPosition.
type Warning struct {
	Kind   WarningKind
	Site   variant.Site
	Line   int
	Sample string
	GT     string
	Detail string
}

func (w Warning) String() string {
	s := new(strings.Builder)
	fmt.Fprintf(s, "%s at %s", w.Kind, w.Site)
	if w.Line > 0 {
		fmt.Fprintf(s, " (line %d)", w.Line)
	}
	if w.Sample != "" {
		fmt.Fprintf(s, " sample %s GT %q", w.Sample, w.GT)
	}
	if w.Detail != "" {
		s.WriteString(": ")
		s.WriteString(w.Detail)
	}
	return s.String()
}

// Result is the output of one haplotyping run over one VCF.
type Result struct {
	Header   variant.Header
	Samples  []string
	Sites    []variant.Site
	Calls    []*SiteCalls // aligned to Sites; nil where the site is absent
	Codes    []Code       // aligned to Samples
	Groups   []Group
	Missing  string
	Warnings []Warning
}

// Run reads the VCF in r once and haplotypes every sample over the sites
// selected by req. A nil req selects every record, in file order. Explicit
// sites of req come first in request order, followed by region matches in
// file order. The only error returned for bad input is a *variant.FormatError.
func Run(r io.Reader, req *targets.Set, opts Options) (*Result, error) {
	var sel variant.Selector
	if req != nil {
		sel = req
	}

	vr, err := variant.NewReader(r, sel)
	if err != nil {
		return nil, err
	}

	ans := &Result{
		Header:  vr.Header,
		Samples: vr.Header.Samples,
		Missing: opts.missing(),
	}

	calls := make(map[variant.Site]*SiteCalls)
	layouts := make(map[string]*genotype.Layout)
	var found []variant.Site

	for vr.Next() {
		rec := vr.Record()
		site := rec.Site()
		if _, dup := calls[site]; dup {
			ans.Warnings = append(ans.Warnings, Warning{Kind: DuplicateSite, Site: site, Line: rec.Line, Detail: "keeping first record"})
			continue
		}

		sc, warnings, err := decodeRecord(rec, ans.Samples, vr.Header, layouts, opts)
		if err != nil {
			return nil, err
		}
		ans.Warnings = append(ans.Warnings, warnings...)
		calls[site] = sc
		found = append(found, site)
	}
	if err = vr.Error(); err != nil {
		return nil, err
	}

	if req != nil {
		ans.Sites = req.Resolve(found)
	} else {
		ans.Sites = found
	}

	ans.Calls = make([]*SiteCalls, len(ans.Sites))
	for i, site := range ans.Sites {
		ans.Calls[i] = calls[site]
		if ans.Calls[i] == nil {
			ans.Warnings = append(ans.Warnings, Warning{Kind: MissingPosition, Site: site, Detail: "every sample coded missing"})
		}
	}

	ans.Codes = Encode(ans.Sites, len(ans.Samples), calls, opts)
	ans.Groups = Partition(ans.Samples, ans.Codes, ans.Missing)
	return ans, nil
}

// decodeRecord decodes every sample of rec. Layouts are cached by FORMAT
// string so each distinct FORMAT is resolved once.
func decodeRecord(rec variant.Record, samples []string, header variant.Header, layouts map[string]*genotype.Layout, opts Options) (*SiteCalls, []Warning, error) {
	var warnings []Warning
	if len(samples) == 0 {
		return &SiteCalls{Record: rec}, nil, nil
	}

	key := strings.Join(rec.Format, ":")
	layout, found := layouts[key]
	if !found {
		var err error
		layout, err = genotype.NewLayout(rec, header.Format)
		if err != nil {
			return nil, nil, err
		}
		layouts[key] = layout
	}

	numAlleles := len(rec.Alleles())
	ans := &SiteCalls{
		Record:    rec,
		Genotypes: make([]genotype.Genotype, len(samples)),
		Symbols:   make([]string, len(samples)),
	}
	for i := range samples {
		ans.Genotypes[i] = genotype.Decode(layout, rec.Samples[i], numAlleles)
		if ans.Genotypes[i].Status == genotype.Unsupported {
			warnings = append(warnings, Warning{
				Kind:   UnsupportedGenotype,
				Site:   rec.Site(),
				Line:   rec.Line,
				Sample: samples[i],
				GT:     ans.Genotypes[i].GT,
				Detail: ans.Genotypes[i].Reason,
			})
		}
		ans.Symbols[i] = Symbol(rec, ans.Genotypes[i], opts)
	}
	return ans, warnings, nil
}

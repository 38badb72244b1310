// Package haplotype builds per-sample haplotype codes from decoded genotypes
// and partitions samples by identical code.
package haplotype

import (
	"strconv"
	"strings"

	"github.com/dasnellings/hapTools/genotype"
	"github.com/dasnellings/hapTools/variant"
)

// DefaultMissing is the symbol for a missing genotype or an absent site.
const DefaultMissing string = "./."

// Sep joins the symbols of a Code when it is written as text.
const Sep string = ";"

// Code is one sample's ordered genotype symbols, one per site.
type Code []string

func (c Code) String() string {
	return strings.Join(c, Sep)
}

// ParseCode splits text written by Code.String.
func ParseCode(s string) Code {
	if s == "" {
		return Code{}
	}
	return strings.Split(s, Sep)
}

func (c Code) Equal(other Code) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// AllMissing reports whether every symbol of a non-empty code is missing.
func (c Code) AllMissing(missing string) bool {
	if len(c) == 0 {
		return false
	}
	for i := range c {
		if c[i] != missing {
			return false
		}
	}
	return true
}

// Options control symbol rendering.
type Options struct {
	Missing string // defaults to DefaultMissing
	Numeric bool   // render allele indices instead of allele sequences
}

func (o Options) missing() string {
	if o.Missing == "" {
		return DefaultMissing
	}
	return o.Missing
}

// Symbol renders g at rec: its alleles joined by the separator they were
// written with, or the missing symbol.
func Symbol(rec variant.Record, g genotype.Genotype, opts Options) string {
	if g.IsMissing() {
		return opts.missing()
	}

	alleles := rec.Alleles()
	s := new(strings.Builder)
	for i, idx := range g.Alleles {
		if i > 0 {
			s.WriteByte(g.Sep)
		}
		if opts.Numeric {
			s.WriteString(strconv.Itoa(idx))
		} else {
			s.WriteString(alleles[idx])
		}
	}
	return s.String()
}

// SiteCalls holds the record found at one site and the symbol of every
// sample there.
type SiteCalls struct {
	Record    variant.Record
	Genotypes []genotype.Genotype
	Symbols   []string
}

// Encode builds one Code per sample over sites, in the order of sites.
// calls holds the decoded records by site; a site with no entry gives
// every sample the missing symbol.
func Encode(sites []variant.Site, numSamples int, calls map[variant.Site]*SiteCalls, opts Options) []Code {
	missing := opts.missing()
	ans := make([]Code, numSamples)
	for i := range ans {
		ans[i] = make(Code, len(sites))
	}

	var i, j int
	for j = range sites {
		sc := calls[sites[j]]
		for i = range ans {
			if sc == nil || i >= len(sc.Symbols) {
				ans[i][j] = missing
				continue
			}
			ans[i][j] = sc.Symbols[i]
		}
	}
	return ans
}

// Package genotype decodes the per-sample columns of a VCF record into
// normalized genotype calls.
package genotype

import (
	"fmt"
	"strconv"
	"strings"
)

// Status classifies a decoded GT.
type Status int

const (
	Called Status = iota
	Missing
	Unsupported // polyploid, malformed, or out of range; treated as missing
)

func (s Status) String() string {
	switch s {
	case Called:
		return "called"
	case Missing:
		return "missing"
	default:
		return "unsupported"
	}
}

// Zygosity is the biological reading of a called genotype.
type Zygosity int

const (
	Uncalled Zygosity = iota
	HomozygousReference
	HomozygousAlternate
	Heterozygous
)

func (z Zygosity) String() string {
	switch z {
	case HomozygousReference:
		return "Homozygous Reference"
	case HomozygousAlternate:
		return "Homozygous Alternate"
	case Heterozygous:
		return "Heterozygous"
	default:
		return "Missing"
	}
}

// Value is one parsed subfield. Which of Ints, Floats or Str is set depends
// on Kind; Missing is true for "." or an absent trailing subfield.
type Value struct {
	Kind    Kind
	Ints    []int
	Floats  []float64
	Str     string
	Missing bool
}

// Genotype is one sample's decoded call at one record. Alleles is nil unless
// Status is Called. DP and GQ are -1 when not reported.
type Genotype struct {
	GT      string // as written
	Alleles []int
	Sep     byte // '/' or '|', 0 for haploid or missing
	Phased  bool
	Status  Status
	Reason  string // set when Status is Unsupported

	DP     int
	GQ     int
	AD     []int
	PL     []int
	VAF    []float64
	Values []Value // aligned to Layout.Rules
}

// IsMissing reports whether the genotype contributes no alleles.
func (g Genotype) IsMissing() bool {
	return g.Status != Called
}

// Zygosity classifies the genotype. Haploid calls are homozygous.
func (g Genotype) Zygosity() Zygosity {
	if g.IsMissing() {
		return Uncalled
	}
	for i := 1; i < len(g.Alleles); i++ {
		if g.Alleles[i] != g.Alleles[0] {
			return Heterozygous
		}
	}
	if g.Alleles[0] == 0 {
		return HomozygousReference
	}
	return HomozygousAlternate
}

// Decode parses one sample's raw column with layout. numAlleles is the
// count of REF plus ALT alleles at the record; GT indices at or beyond it
// are unsupported. Subfields other than GT never change the Status.
func Decode(layout *Layout, raw string, numAlleles int) Genotype {
	subfields := strings.Split(raw, ":")
	ans := Genotype{DP: -1, GQ: -1}
	ans.Values = make([]Value, len(layout.Rules))

	for i, rule := range layout.Rules {
		if i >= len(subfields) {
			ans.Values[i] = Value{Kind: rule.Kind, Missing: true}
			continue
		}
		ans.Values[i] = parseValue(rule, subfields[i])
	}

	if layout.gt < len(subfields) {
		ans.GT = subfields[layout.gt]
	}
	parseGT(&ans, numAlleles)

	if v := valueAt(ans.Values, layout.dp); len(v.Ints) == 1 {
		ans.DP = v.Ints[0]
	}
	if v := valueAt(ans.Values, layout.gq); len(v.Ints) == 1 {
		ans.GQ = v.Ints[0]
	}
	ans.AD = valueAt(ans.Values, layout.ad).Ints
	ans.PL = valueAt(ans.Values, layout.pl).Ints
	ans.VAF = valueAt(ans.Values, layout.vaf).Floats
	return ans
}

func valueAt(v []Value, idx int) Value {
	if idx < 0 || idx >= len(v) {
		return Value{Missing: true}
	}
	return v[idx]
}

// parseValue applies rule to one subfield. Unparseable numbers are kept as
// text; they are carried for reporting only.
func parseValue(rule Rule, s string) Value {
	ans := Value{Kind: rule.Kind, Str: s}
	if s == "" || s == "." {
		ans.Missing = true
		return ans
	}

	var words []string
	if rule.List {
		words = strings.Split(s, ",")
	} else {
		words = []string{s}
	}

	switch rule.Kind {
	case Int:
		ans.Ints = make([]int, 0, len(words))
		for _, w := range words {
			n, err := strconv.Atoi(w)
			if err != nil {
				ans.Ints = nil
				ans.Kind = Text
				return ans
			}
			ans.Ints = append(ans.Ints, n)
		}
	case Real:
		ans.Floats = make([]float64, 0, len(words))
		for _, w := range words {
			f, err := strconv.ParseFloat(w, 64)
			if err != nil {
				ans.Floats = nil
				ans.Kind = Text
				return ans
			}
			ans.Floats = append(ans.Floats, f)
		}
	}
	return ans
}

// parseGT fills the allele fields of g from g.GT. A "." in either allele
// makes the whole call missing, so half-calls such as 0/. never resolve.
func parseGT(g *Genotype, numAlleles int) {
	if g.GT == "" || g.GT == "." {
		g.Status = Missing
		return
	}

	var tokens []string
	switch {
	case strings.IndexByte(g.GT, '|') >= 0 && strings.IndexByte(g.GT, '/') >= 0:
		g.Status = Unsupported
		g.Reason = "mixed phased and unphased separators"
		return
	case strings.IndexByte(g.GT, '|') >= 0:
		g.Sep = '|'
		g.Phased = true
		tokens = strings.Split(g.GT, "|")
	case strings.IndexByte(g.GT, '/') >= 0:
		g.Sep = '/'
		tokens = strings.Split(g.GT, "/")
	default:
		tokens = []string{g.GT}
	}

	if len(tokens) > 2 {
		g.Status = Unsupported
		g.Reason = fmt.Sprintf("%d alleles in genotype", len(tokens))
		return
	}

	alleles := make([]int, 0, len(tokens))
	var missing bool
	for _, tok := range tokens {
		if tok == "." {
			missing = true
			continue
		}
		idx, err := strconv.Atoi(tok)
		if err != nil || idx < 0 {
			g.Status = Unsupported
			g.Reason = fmt.Sprintf("unrecognized allele %q", tok)
			return
		}
		if idx >= numAlleles {
			g.Status = Unsupported
			g.Reason = fmt.Sprintf("allele index %d beyond %d alleles", idx, numAlleles)
			return
		}
		alleles = append(alleles, idx)
	}

	if missing {
		g.Status = Missing
		return
	}
	g.Status = Called
	g.Alleles = alleles
}

package genotype

import (
	"fmt"

	"github.com/dasnellings/hapTools/variant"
)

// Kind selects how a FORMAT subfield is parsed.
type Kind int

const (
	Text Kind = iota
	Int
	Real
	AllelePair
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "integer"
	case Real:
		return "float"
	case AllelePair:
		return "allele-pair"
	default:
		return "string"
	}
}

// Rule is the parse rule for one FORMAT subfield. List rules split the
// subfield on commas.
type Rule struct {
	Name string
	Kind Kind
	List bool
}

// builtin rules apply to fields the header does not declare.
var builtin = map[string]Rule{
	"GT":  {Name: "GT", Kind: AllelePair},
	"DP":  {Name: "DP", Kind: Int},
	"GQ":  {Name: "GQ", Kind: Int},
	"AD":  {Name: "AD", Kind: Int, List: true},
	"PL":  {Name: "PL", Kind: Int, List: true},
	"VAF": {Name: "VAF", Kind: Real, List: true},
}

// Layout maps each position of a FORMAT column to its parse rule, and
// records where the fields carried into reports sit. Build one per
// distinct FORMAT string and reuse it for every sample of the record.
type Layout struct {
	Rules []Rule
	gt    int
	dp    int
	gq    int
	ad    int
	pl    int
	vaf   int
}

// NewLayout resolves the parse rules for rec's FORMAT column. Header
// declarations take precedence over the builtin table, except for GT which
// is always parsed as an allele pair. A FORMAT without GT cannot be
// haplotyped and yields a FormatError.
func NewLayout(rec variant.Record, defs map[string]variant.FieldDef) (*Layout, error) {
	ans := &Layout{
		Rules: make([]Rule, len(rec.Format)),
		gt:    -1,
		dp:    -1,
		gq:    -1,
		ad:    -1,
		pl:    -1,
		vaf:   -1,
	}

	for i, name := range rec.Format {
		ans.Rules[i] = resolveRule(name, defs)
		switch name {
		case "GT":
			ans.gt = i
		case "DP":
			ans.dp = i
		case "GQ":
			ans.gq = i
		case "AD":
			ans.ad = i
		case "PL":
			ans.pl = i
		case "VAF":
			ans.vaf = i
		}
	}

	if ans.gt == -1 {
		return nil, &variant.FormatError{Line: rec.Line, Msg: fmt.Sprintf("GT absent from FORMAT %v at %s", rec.Format, rec.Site())}
	}
	return ans, nil
}

func resolveRule(name string, defs map[string]variant.FieldDef) Rule {
	if name == "GT" {
		return builtin["GT"]
	}

	def, declared := defs[name]
	if !declared {
		if r, found := builtin[name]; found {
			return r
		}
		return Rule{Name: name, Kind: Text}
	}

	ans := Rule{Name: name, List: def.Number != "1" && def.Number != "0"}
	switch def.Type {
	case variant.Integer:
		ans.Kind = Int
	case variant.Float:
		ans.Kind = Real
	default:
		ans.Kind = Text
	}
	return ans
}

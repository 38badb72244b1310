package genotype

import (
	"errors"
	"testing"

	"github.com/dasnellings/hapTools/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layoutFor(t *testing.T, format ...string) *Layout {
	l, err := NewLayout(variant.Record{Line: 12, Chrom: "1", Pos: 100, Format: format}, nil)
	require.NoError(t, err)
	return l
}

func TestDecodeGT(t *testing.T) {
	l := layoutFor(t, "GT")
	tests := []struct {
		gt      string
		status  Status
		alleles []int
		phased  bool
		zyg     Zygosity
	}{
		{"0/0", Called, []int{0, 0}, false, HomozygousReference},
		{"0/1", Called, []int{0, 1}, false, Heterozygous},
		{"1|0", Called, []int{1, 0}, true, Heterozygous},
		{"2/2", Called, []int{2, 2}, false, HomozygousAlternate},
		{"1", Called, []int{1}, false, HomozygousAlternate},
		{"./.", Missing, nil, false, Uncalled},
		{".|.", Missing, nil, true, Uncalled},
		{".", Missing, nil, false, Uncalled},
		{"0/.", Missing, nil, false, Uncalled},
		{"./1", Missing, nil, false, Uncalled},
		{".|0", Missing, nil, true, Uncalled},
		{"0/1/1", Unsupported, nil, false, Uncalled},
		{"0\\1", Unsupported, nil, false, Uncalled},
		{"0/1|1", Unsupported, nil, false, Uncalled},
		{"0/3", Unsupported, nil, false, Uncalled},
		{"", Missing, nil, false, Uncalled},
	}

	for _, tc := range tests {
		t.Run(tc.gt, func(t *testing.T) {
			g := Decode(l, tc.gt, 3)
			assert.Equal(t, tc.status, g.Status)
			assert.Equal(t, tc.alleles, g.Alleles)
			assert.Equal(t, tc.phased, g.Phased)
			assert.Equal(t, tc.zyg, g.Zygosity())
			assert.Equal(t, tc.status != Called, g.IsMissing())
			if tc.status == Unsupported {
				assert.NotEmpty(t, g.Reason)
			}
		})
	}
}

func TestHalfCallAlwaysMissing(t *testing.T) {
	l := layoutFor(t, "GT")
	for _, other := range []string{"0", "1", "2"} {
		for _, gt := range []string{other + "/.", "./" + other, other + "|.", ".|" + other} {
			assert.Equal(t, Missing, Decode(l, gt, 3).Status, gt)
		}
	}
}

func TestDecodeSubfields(t *testing.T) {
	l := layoutFor(t, "GT", "AD", "DP", "GQ", "VAF", "PL", "FT")
	g := Decode(l, "0/1:5,7:12:99:0.58:120,0,80:PASS", 2)

	assert.Equal(t, Called, g.Status)
	assert.Equal(t, 12, g.DP)
	assert.Equal(t, 99, g.GQ)
	assert.Equal(t, []int{5, 7}, g.AD)
	assert.Equal(t, []int{120, 0, 80}, g.PL)
	assert.Equal(t, []float64{0.58}, g.VAF)
	require.Len(t, g.Values, 7)
	assert.Equal(t, Text, g.Values[6].Kind)
	assert.Equal(t, "PASS", g.Values[6].Str)
}

func TestDecodeTrailingSubfieldsDropped(t *testing.T) {
	l := layoutFor(t, "GT", "AD", "DP")
	g := Decode(l, "./.", 2)

	assert.Equal(t, Missing, g.Status)
	assert.Equal(t, -1, g.DP)
	assert.Nil(t, g.AD)
	assert.True(t, g.Values[1].Missing)
	assert.True(t, g.Values[2].Missing)
}

func TestDecodeDepthDoesNotAffectCall(t *testing.T) {
	l := layoutFor(t, "GT", "DP")
	assert.Equal(t, Called, Decode(l, "0/1:0", 2).Status)
	assert.Equal(t, Called, Decode(l, "0/1:.", 2).Status)
	assert.Equal(t, Called, Decode(l, "0/1:garbage", 2).Status)
	assert.Equal(t, -1, Decode(l, "0/1:garbage", 2).DP)
}

func TestNewLayoutRequiresGT(t *testing.T) {
	_, err := NewLayout(variant.Record{Line: 42, Chrom: "1", Pos: 5, Format: []string{"DP", "AD"}}, nil)
	var fe *variant.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 42, fe.Line)
}

func TestNewLayoutHeaderDeclarations(t *testing.T) {
	defs := map[string]variant.FieldDef{
		"GT": {ID: "GT", Number: "1", Type: variant.String},
		"DP": {ID: "DP", Number: "1", Type: variant.Float},
		"XS": {ID: "XS", Number: "2", Type: variant.Integer},
	}
	l, err := NewLayout(variant.Record{Format: []string{"GT", "DP", "XS", "AD"}}, defs)
	require.NoError(t, err)

	assert.Equal(t, Rule{Name: "GT", Kind: AllelePair}, l.Rules[0])
	assert.Equal(t, Rule{Name: "DP", Kind: Real}, l.Rules[1])
	assert.Equal(t, Rule{Name: "XS", Kind: Int, List: true}, l.Rules[2])
	assert.Equal(t, Rule{Name: "AD", Kind: Int, List: true}, l.Rules[3])

	g := Decode(l, "1/1:7.5:3,4:0,9", 2)
	assert.Equal(t, []float64{7.5}, g.Values[1].Floats)
	assert.Equal(t, -1, g.DP)
	assert.Equal(t, []int{3, 4}, g.Values[2].Ints)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "Heterozygous", Heterozygous.String())
	assert.Equal(t, "Missing", Uncalled.String())
	assert.Equal(t, "unsupported", Unsupported.String())
	assert.Equal(t, "allele-pair", AllelePair.String())
}

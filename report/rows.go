// Package report writes haplotyping results: the group report in several
// formats, the per-sample table and the genotype matrix.
package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/dasnellings/hapTools/haplotype"
	"gonum.org/v1/gonum/stat"
)

// MemberSep joins the sample names of a group in text output.
const MemberSep string = ","

// Row is one haplotype group prepared for output. MeanDP is NaN when no
// member reported a read depth at any site.
type Row struct {
	Rank      int
	Code      string
	Count     int
	Frequency float64
	Uncalled  bool
	MeanDP    float64
	Samples   []string
}

// Rows derives one Row per group of res, in group order.
func Rows(res *haplotype.Result) []Row {
	sampleIdx := make(map[string]int, len(res.Samples))
	for i, s := range res.Samples {
		sampleIdx[s] = i
	}

	ans := make([]Row, len(res.Groups))
	for i, g := range res.Groups {
		ans[i] = Row{
			Rank:     i + 1,
			Code:     g.Code.String(),
			Count:    g.Count(),
			Uncalled: g.Uncalled,
			MeanDP:   meanDepth(res, g.Samples, sampleIdx),
			Samples:  g.Samples,
		}
		if len(res.Samples) > 0 {
			ans[i].Frequency = float64(g.Count()) / float64(len(res.Samples))
		}
	}
	return ans
}

// meanDepth averages DP over every member at every site where it was reported.
func meanDepth(res *haplotype.Result, members []string, sampleIdx map[string]int) float64 {
	var depths []float64
	for _, sc := range res.Calls {
		if sc == nil || len(sc.Genotypes) == 0 {
			continue
		}
		for _, m := range members {
			if dp := sc.Genotypes[sampleIdx[m]].DP; dp >= 0 {
				depths = append(depths, float64(dp))
			}
		}
	}
	if len(depths) == 0 {
		return math.NaN()
	}
	return stat.Mean(depths, nil)
}

func formatPercent(f float64) string {
	return strconv.FormatFloat(f*100, 'f', 2, 64) + "%"
}

func formatDepth(f float64) string {
	if math.IsNaN(f) {
		return "."
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func joinInts(v []int) string {
	if len(v) == 0 {
		return "."
	}
	words := make([]string, len(v))
	for i := range v {
		words[i] = strconv.Itoa(v[i])
	}
	return strings.Join(words, ",")
}

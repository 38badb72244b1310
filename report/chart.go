package report

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/dasnellings/hapTools/haplotype"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// maxChartLabel truncates long haplotype codes on chart axes.
const maxChartLabel int = 40

var (
	calledColor   = color.RGBA{R: 70, G: 110, B: 190, A: 255}
	uncalledColor = color.RGBA{R: 170, G: 170, B: 170, A: 255}
)

// Chart draws one bar per group, in group order, with the bar height set to
// the group size. Uncalled groups are drawn in grey.
func Chart(res *haplotype.Result, title string) (*plot.Plot, error) {
	rows := Rows(res)
	called := make(plotter.Values, len(rows))
	uncalled := make(plotter.Values, len(rows))
	labels := make(groupTicks, len(rows))
	for i, r := range rows {
		if r.Uncalled {
			uncalled[i] = float64(r.Count)
		} else {
			called[i] = float64(r.Count)
		}
		labels[i] = chartLabel(r)
	}

	pl := plot.New()
	pl.Title.Text = title
	pl.Title.TextStyle.Font.Size = 15
	pl.X.Label.Text = "Haplotype"
	pl.Y.Label.Text = "Samples"

	if len(rows) > 0 {
		width := vg.Points(math.Max(4, math.Min(20, 400/float64(len(rows)))))
		calledBars, err := plotter.NewBarChart(called, width)
		if err != nil {
			return nil, pfx.Err(err)
		}
		calledBars.Color = calledColor
		calledBars.LineStyle.Width = 0

		uncalledBars, err := plotter.NewBarChart(uncalled, width)
		if err != nil {
			return nil, pfx.Err(err)
		}
		uncalledBars.Color = uncalledColor
		uncalledBars.LineStyle.Width = 0
		uncalledBars.StackOn(calledBars)

		pl.Add(calledBars, uncalledBars)
	}

	pl.X.Tick.Marker = labels
	pl.X.Tick.Label.Rotation = math.Pi / 2
	pl.X.Tick.Label.YAlign = -0.35
	pl.X.Tick.Label.XAlign = text.XRight
	pl.X.Tick.Label.Font.Size = 8
	pl.X.Tick.LineStyle = draw.LineStyle{
		Color: color.Black,
		Width: vg.Points(0.5),
	}
	return pl, nil
}

// SaveChart renders the group chart of res to file. The image format is
// taken from the file extension (png, svg, pdf, ...).
func SaveChart(file string, res *haplotype.Result, title string) error {
	pl, err := Chart(res, title)
	if err != nil {
		return err
	}
	width := 15*vg.Centimeter + vg.Length(len(res.Groups))*vg.Millimeter*5
	if err = pl.Save(width, 15*vg.Centimeter, file); err != nil {
		return pfx.Err(err)
	}
	return nil
}

func chartLabel(r Row) string {
	label := r.Code
	if len(label) > maxChartLabel {
		label = label[:maxChartLabel-3] + "..."
	}
	return strconv.Itoa(r.Rank) + ". " + label
}

type groupTicks []string

func (g groupTicks) Ticks(min, max float64) []plot.Tick {
	var ans []plot.Tick
	for i := range g {
		if float64(i) >= min && float64(i) <= max {
			ans = append(ans, plot.Tick{Value: float64(i), Label: g[i]})
		}
	}
	return ans
}

// Plot renders group sizes as a terminal line graph, largest group first.
func Plot(res *haplotype.Result, height int) string {
	if len(res.Groups) == 0 {
		return ""
	}
	data := make([]float64, len(res.Groups))
	for i := range res.Groups {
		data[i] = float64(res.Groups[i].Count())
	}
	if len(data) == 1 {
		data = append(data, data[0])
	}

	s := new(strings.Builder)
	s.WriteString(asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("samples per haplotype (%d groups, %d samples)", len(res.Groups), len(res.Samples)))))
	s.WriteByte('\n')
	return s.String()
}

package report

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RoundSeries holds the per-round time series plotted by WriteChart.
// All slices are parallel, one entry per executed round.
type RoundSeries struct {
	Rounds         []int
	AliveCounts    []int
	MeanEnergiesJ  []float64
	TotalEnergiesJ []float64
}

// WriteChart renders a standalone HTML line chart of the network lifetime:
// alive-node count and mean residual energy per round.
func WriteChart(path, title string, series RoundSeries) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("rounds=%d", len(series.Rounds)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "round"}),
	)

	labels := make([]string, len(series.Rounds))
	alive := make([]opts.LineData, len(series.Rounds))
	meanEnergy := make([]opts.LineData, len(series.Rounds))
	for i, r := range series.Rounds {
		labels[i] = strconv.Itoa(r)
		alive[i] = opts.LineData{Value: series.AliveCounts[i]}
		meanEnergy[i] = opts.LineData{Value: series.MeanEnergiesJ[i]}
	}

	line.SetXAxis(labels).
		AddSeries("alive nodes", alive).
		AddSeries("mean residual energy (J)", meanEnergy)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	defer file.Close()
	return line.Render(file)
}

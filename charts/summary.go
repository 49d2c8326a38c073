package charts

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"sensoraudit/common"
)

// Summary 汇总图：各指标前后均值与标准差的分组柱状对比，单张 PNG 两个子图
func Summary(rows []common.SummaryRow, style Style, outPath string) error {
	labels := make([]string, len(rows))
	meansBefore := make(plotter.Values, len(rows))
	meansAfter := make(plotter.Values, len(rows))
	stdsBefore := make(plotter.Values, len(rows))
	stdsAfter := make(plotter.Values, len(rows))
	for i, r := range rows {
		labels[i] = r.Metric
		meansBefore[i] = r.MeanBefore
		meansAfter[i] = r.MeanAfter
		stdsBefore[i] = r.StdBefore
		stdsAfter[i] = r.StdAfter
	}

	means, err := groupedBars("Mean by metric", "Mean", labels, meansBefore, meansAfter, style)
	if err != nil {
		return err
	}
	stds, err := groupedBars("Variability by metric", "Std dev", labels, stdsBefore, stdsAfter, style)
	if err != nil {
		return err
	}

	grid := [][]*plot.Plot{{means, stds}}
	return writeGrid(grid, 1, 2, Style{Width: style.Width, Height: style.Height / 2,
		Before: style.Before, After: style.After, Reference: style.Reference}, outPath)
}

func groupedBars(title, ylabel string, labels []string, before, after plotter.Values, style Style) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = ylabel
	p.Legend.Top = true

	width := vg.Points(18)
	barsBefore, err := plotter.NewBarChart(before, width)
	if err != nil {
		return nil, err
	}
	barsBefore.Color = withAlpha(style.Before, 200)
	barsBefore.Offset = -width / 2

	barsAfter, err := plotter.NewBarChart(after, width)
	if err != nil {
		return nil, err
	}
	barsAfter.Color = withAlpha(style.After, 200)
	barsAfter.Offset = width / 2

	p.Add(barsBefore, barsAfter)
	p.Legend.Add("before", barsBefore)
	p.Legend.Add("after", barsAfter)
	p.NominalX(labels...)
	return p, nil
}

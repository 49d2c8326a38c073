package charts

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"sensoraudit/common"
)

// Dispersion 画滑动窗口标准差随时间的变化，PNG 落盘
// 每个窗口的结果标在窗口尾部的时间点上
func Dispersion(res *common.AnalysisResult, style Style, outPath string) error {
	p := plot.New()
	p.Title.Text = "Rolling dispersion " + res.Config.Title
	p.X.Label.Text = "Time (minutes)"
	p.Y.Label.Text = "Std dev (window)"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	if err := addDispersion(p, res.Before, res.StatsBefore, style.Before, "before"); err != nil {
		return err
	}
	if err := addDispersion(p, res.After, res.StatsAfter, style.After, "after"); err != nil {
		return err
	}

	grid := [][]*plot.Plot{{p}}
	return writeGrid(grid, 1, 1, Style{Width: style.Width / 2, Height: style.Height / 2,
		Before: style.Before, After: style.After, Reference: style.Reference}, outPath)
}

func addDispersion(p *plot.Plot, s common.Series, stats common.Stats, c color.Color, label string) error {
	window := common.AdaptiveWindow(s.Len())
	if s.Len() > window {
		std := common.WindowedStd(s.Values, window)
		xys := make(plotter.XYs, len(std))
		for i := range std {
			xys[i].X = s.Times[window-1+i]
			xys[i].Y = std[i]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = c
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s (w=%d)", label, window), line)
		return nil
	}

	// 序列不够长开不了窗口，退回整体标准差的水平线
	x1 := s.MaxTime()
	if x1 == 0 {
		x1 = 1
	}
	line, err := dashedLine(0, stats.StdDev, x1, stats.StdDev, c)
	if err != nil {
		return err
	}
	p.Add(line)
	p.Legend.Add(label+" (overall)", line)
	return nil
}

// Categories 画百分比指标的分桶分布对比柱状图，非百分比指标直接跳过
func Categories(res *common.AnalysisResult, style Style, outPath string) error {
	if !res.Config.IsPercentage {
		return nil
	}

	before := common.Categorize(res.Before.Values)
	after := common.Categorize(res.After.Values)

	p := plot.New()
	p.Title.Text = "Distribution by range " + res.Config.Title
	p.Y.Label.Text = "Samples (%)"

	labels := make([]string, len(before))
	beforePct := make(plotter.Values, len(before))
	afterPct := make(plotter.Values, len(after))
	for i := range before {
		labels[i] = before[i].Label
		beforePct[i] = before[i].Pct
		afterPct[i] = after[i].Pct
	}

	width := vg.Points(14)
	barsBefore, err := plotter.NewBarChart(beforePct, width)
	if err != nil {
		return err
	}
	barsBefore.Color = withAlpha(style.Before, 200)
	barsBefore.Offset = -width / 2

	barsAfter, err := plotter.NewBarChart(afterPct, width)
	if err != nil {
		return err
	}
	barsAfter.Color = withAlpha(style.After, 200)
	barsAfter.Offset = width / 2

	p.Add(barsBefore, barsAfter)
	p.Legend.Add("before", barsBefore)
	p.Legend.Add("after", barsAfter)
	p.Legend.Top = true
	p.NominalX(labels...)

	grid := [][]*plot.Plot{{p}}
	return writeGrid(grid, 1, 1, Style{Width: style.Width / 2, Height: style.Height / 2,
		Before: style.Before, After: style.After, Reference: style.Reference}, outPath)
}

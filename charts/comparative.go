package charts

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"sensoraudit/common"
)

// Comparative 渲染 2x2 对比面板并写出 PNG：
// 时间演化、取值分布、箱线图、相关性散点（长度不一致时退化为滑动平均）
func Comparative(res *common.AnalysisResult, style Style, outPath string) error {
	evolution, err := timeEvolution(res, style)
	if err != nil {
		return err
	}
	distribution, err := distributions(res, style)
	if err != nil {
		return err
	}
	boxes, err := boxPlots(res, style)
	if err != nil {
		return err
	}
	correlation, err := correlationOrRolling(res, style)
	if err != nil {
		return err
	}

	grid := [][]*plot.Plot{
		{evolution, distribution},
		{boxes, correlation},
	}
	return writeGrid(grid, 2, 2, style, outPath)
}

// writeGrid 把若干子图排版到一张 PNG 里
func writeGrid(grid [][]*plot.Plot, rows, cols int, style Style, outPath string) error {
	img := vgimg.New(style.Width, style.Height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 4,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}

	canvases := plot.Align(grid, tiles, dc)
	for i := range grid {
		for j := range grid[i] {
			if grid[i][j] != nil {
				grid[i][j].Draw(canvases[i][j])
			}
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create chart file '%s': %w", outPath, err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("write chart '%s': %w", outPath, err)
	}
	return nil
}

func timeEvolution(res *common.AnalysisResult, style Style) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Evolution " + res.Config.Title
	p.X.Label.Text = "Time (minutes)"
	p.Y.Label.Text = res.Config.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	lineBefore, err := newSeriesLine(res.Before, style.Before)
	if err != nil {
		return nil, err
	}
	lineAfter, err := newSeriesLine(res.After, style.After)
	if err != nil {
		return nil, err
	}
	p.Add(lineBefore, lineAfter)
	p.Legend.Add("before", lineBefore)
	p.Legend.Add("after", lineAfter)

	if res.Config.IsPercentage {
		// 百分比指标固定纵轴并画出最优/临界参考线
		x0, x1 := timeSpan(res)
		optimal, err := dashedLine(x0, 100, x1, 100, style.Reference)
		if err != nil {
			return nil, err
		}
		critical, err := dashedLine(x0, 75, x1, 75, style.Before)
		if err != nil {
			return nil, err
		}
		p.Add(optimal, critical)
		p.Legend.Add("optimal (100%)", optimal)
		p.Legend.Add("critical (75%)", critical)
		p.Y.Min, p.Y.Max = 0, 105
	}
	return p, nil
}

func distributions(res *common.AnalysisResult, style Style) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Distribution " + res.Config.Title
	p.X.Label.Text = res.Config.YLabel
	p.Y.Label.Text = "Density"
	p.Legend.Top = true

	bins := 30
	if res.Config.IsPercentage {
		bins = 20
	}

	histBefore, err := plotter.NewHist(plotter.Values(res.Before.Values), bins)
	if err != nil {
		return nil, err
	}
	histBefore.Normalize(1)
	histBefore.FillColor = withAlpha(style.Before, 150)
	histBefore.LineStyle.Color = style.Before

	histAfter, err := plotter.NewHist(plotter.Values(res.After.Values), bins)
	if err != nil {
		return nil, err
	}
	histAfter.Normalize(1)
	histAfter.FillColor = withAlpha(style.After, 150)
	histAfter.LineStyle.Color = style.After

	p.Add(histBefore, histAfter)

	// 均值竖线，高度取两个直方图的最高柱
	_, _, _, ymaxB := histBefore.DataRange()
	_, _, _, ymaxA := histAfter.DataRange()
	ymax := math.Max(ymaxB, ymaxA)

	meanBefore, err := dashedLine(res.StatsBefore.Mean, 0, res.StatsBefore.Mean, ymax, style.Before)
	if err != nil {
		return nil, err
	}
	meanAfter, err := dashedLine(res.StatsAfter.Mean, 0, res.StatsAfter.Mean, ymax, style.After)
	if err != nil {
		return nil, err
	}
	p.Add(meanBefore, meanAfter)
	p.Legend.Add("mean before", meanBefore)
	p.Legend.Add("mean after", meanAfter)
	return p, nil
}

func boxPlots(res *common.AnalysisResult, style Style) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Box plot " + res.Config.Title
	p.Y.Label.Text = res.Config.YLabel

	boxBefore, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(res.Before.Values))
	if err != nil {
		return nil, err
	}
	boxBefore.FillColor = withAlpha(style.Before, 180)

	boxAfter, err := plotter.NewBoxPlot(vg.Points(40), 1, plotter.Values(res.After.Values))
	if err != nil {
		return nil, err
	}
	boxAfter.FillColor = withAlpha(style.After, 180)

	p.Add(boxBefore, boxAfter)
	p.NominalX("before", "after")
	return p, nil
}

// correlationOrRolling 长度一致时画前后逐点散点加 y=x 参考线，
// 否则退化为滑动平均对比（参考行为里的既定分支，不算错误）
func correlationOrRolling(res *common.AnalysisResult, style Style) (*plot.Plot, error) {
	p := plot.New()

	if res.Before.Len() == res.After.Len() {
		p.Title.Text = "Correlation before vs after"
		p.X.Label.Text = "Before"
		p.Y.Label.Text = "After"

		xys := make(plotter.XYs, res.Before.Len())
		for i := range xys {
			xys[i].X = res.Before.Values[i]
			xys[i].Y = res.After.Values[i]
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyle.Radius = vg.Points(1.5)
		scatter.GlyphStyle.Color = withAlpha(style.Reference, 150)
		p.Add(scatter)

		lo := math.Min(res.StatsBefore.Min, res.StatsAfter.Min)
		hi := math.Max(res.StatsBefore.Max, res.StatsAfter.Max)
		ref, err := dashedLine(lo, lo, hi, hi, style.Before)
		if err != nil {
			return nil, err
		}
		p.Add(ref)
		p.Legend.Add("y=x", ref)
		return p, nil
	}

	p.Title.Text = "Rolling means"
	p.X.Label.Text = "Index"
	p.Y.Label.Text = res.Config.YLabel
	p.Legend.Top = true

	window := common.RollingWindow(res.Before.Len())
	if window > 1 {
		rollBefore, err := indexLine(common.RollingMean(res.Before.Values, window), style.Before)
		if err != nil {
			return nil, err
		}
		rollAfter, err := indexLine(common.RollingMean(res.After.Values, window), style.After)
		if err != nil {
			return nil, err
		}
		p.Add(rollBefore, rollAfter)
		p.Legend.Add(fmt.Sprintf("rolling before (w=%d)", window), rollBefore)
		p.Legend.Add(fmt.Sprintf("rolling after (w=%d)", window), rollAfter)
		return p, nil
	}

	// 序列太短开不了窗口，退回均值水平线
	n := math.Max(float64(res.Before.Len()), float64(res.After.Len()))
	meanBefore, err := dashedLine(0, res.StatsBefore.Mean, n, res.StatsBefore.Mean, style.Before)
	if err != nil {
		return nil, err
	}
	meanAfter, err := dashedLine(0, res.StatsAfter.Mean, n, res.StatsAfter.Mean, style.After)
	if err != nil {
		return nil, err
	}
	p.Add(meanBefore, meanAfter)
	p.Legend.Add("mean before", meanBefore)
	p.Legend.Add("mean after", meanAfter)
	return p, nil
}

func newSeriesLine(s common.Series, c color.Color) (*plotter.Line, error) {
	xys := make(plotter.XYs, s.Len())
	for i := range xys {
		xys[i].X = s.Times[i]
		xys[i].Y = s.Values[i]
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.Color = c
	line.Width = vg.Points(1)
	return line, nil
}

func indexLine(values []float64, c color.Color) (*plotter.Line, error) {
	xys := make(plotter.XYs, len(values))
	for i, v := range values {
		xys[i].X = float64(i)
		xys[i].Y = v
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.Color = c
	line.Width = vg.Points(1)
	return line, nil
}

func dashedLine(x0, y0, x1, y1 float64, c color.Color) (*plotter.Line, error) {
	line, err := plotter.NewLine(plotter.XYs{{X: x0, Y: y0}, {X: x1, Y: y1}})
	if err != nil {
		return nil, err
	}
	line.Color = c
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	return line, nil
}

func timeSpan(res *common.AnalysisResult) (float64, float64) {
	x1 := math.Max(res.Before.MaxTime(), res.After.MaxTime())
	if x1 == 0 {
		x1 = 1
	}
	return 0, x1
}

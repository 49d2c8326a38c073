package common

import (
	"fmt"
	"io"
	"strings"
)

// AnalysisConfig 单个指标的分析配置
// FieldIndex 支持负数，Title/YLabel 只做展示不参与计算
type AnalysisConfig struct {
	Title        string
	YLabel       string
	FieldIndex   int
	MinFields    int
	IsPercentage bool
}

// DefaultConfigs 产线改造审计默认分析的四个指标
func DefaultConfigs() []AnalysisConfig {
	return []AnalysisConfig{
		{Title: "ThicknessBottlePerc", YLabel: "Bottles read (%)", FieldIndex: -1, MinFields: 12, IsPercentage: true},
		{Title: "ThicknessBottles[1] (Sensor 1)", YLabel: "ThicknessBottles[1]", FieldIndex: 1, MinFields: 2},
		{Title: "ThicknessBottles[2] (Sensor 2)", YLabel: "ThicknessBottles[2]", FieldIndex: 3, MinFields: 4},
		{Title: "ThicknessBottles[3] (Sensor 3)", YLabel: "ThicknessBottles[3]", FieldIndex: 5, MinFields: 6},
	}
}

// AnalysisResult 一次前后对比的全部产出，供表格打印或绘图使用
type AnalysisResult struct {
	Config      AnalysisConfig
	Before      Series
	After       Series
	StatsBefore Stats
	StatsAfter  Stats
}

// RunAnalysis 提取两份日志的同一列并计算对比统计
// 两个序列长度不要求一致，长度差异由展示层选择对比方式
func RunAnalysis(beforePath, afterPath string, cfg AnalysisConfig) (*AnalysisResult, error) {
	before, err := ExtractFromFile(beforePath, cfg.FieldIndex, cfg.MinFields)
	if err != nil {
		return nil, err
	}
	after, err := ExtractFromFile(afterPath, cfg.FieldIndex, cfg.MinFields)
	if err != nil {
		return nil, err
	}

	statsBefore, err := Summarize(before.Values, cfg.IsPercentage)
	if err != nil {
		return nil, fmt.Errorf("before series '%s': %w", cfg.Title, err)
	}
	statsAfter, err := Summarize(after.Values, cfg.IsPercentage)
	if err != nil {
		return nil, fmt.Errorf("after series '%s': %w", cfg.Title, err)
	}

	return &AnalysisResult{
		Config:      cfg,
		Before:      before,
		After:       after,
		StatsBefore: statsBefore,
		StatsAfter:  statsAfter,
	}, nil
}

// PrintComparison 打印前后对比统计表
func PrintComparison(w io.Writer, res *AnalysisResult) {
	sep := 60
	if len(res.Config.Title)+20 > sep {
		sep = len(res.Config.Title) + 20
	}

	fmt.Fprintf(w, "\nSTATISTICS %s\n", res.Config.Title)
	fmt.Fprintln(w, strings.Repeat("=", sep))
	fmt.Fprintf(w, "%-20s %-12s %-12s %-12s\n", "Metric", "Before", "After", "Diff")
	fmt.Fprintln(w, strings.Repeat("-", sep))

	beforeRows := res.StatsBefore.Rows()
	afterRows := res.StatsAfter.Rows()
	for i, row := range beforeRows {
		diff := afterRows[i].Value - row.Value
		switch {
		case row.Name == "CV (%)" || row.Name == "Time at 100%":
			fmt.Fprintf(w, "%-20s %-12.2f %-12.2f %-+12.2f\n", row.Name, row.Value, afterRows[i].Value, diff)
		case res.Config.IsPercentage:
			fmt.Fprintf(w, "%-20s %-12.1f %-12.1f %-+12.1f\n", row.Name, row.Value, afterRows[i].Value, diff)
		default:
			fmt.Fprintf(w, "%-20s %-12.3f %-12.3f %-+12.3f\n", row.Name, row.Value, afterRows[i].Value, diff)
		}
	}
}

// PrintCategories 打印百分比指标的分桶分布，非百分比指标不适用
func PrintCategories(w io.Writer, res *AnalysisResult) {
	if !res.Config.IsPercentage {
		return
	}

	before := Categorize(res.Before.Values)
	after := Categorize(res.After.Values)

	fmt.Fprintf(w, "\nDISTRIBUTION %s\n", res.Config.Title)
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "%-10s %-12s %-12s\n", "Range", "Before (%)", "After (%)")
	for i, b := range before {
		fmt.Fprintf(w, "%-10s %-12.2f %-12.2f\n", b.Label, b.Pct, after[i].Pct)
	}
}

// SummaryRow 汇总表的一行
type SummaryRow struct {
	Metric     string
	MeanBefore float64
	MeanAfter  float64
	StdBefore  float64
	StdAfter   float64
	Improved   bool
}

// BuildSummary 汇总所有指标的均值/波动变化并给出结论
// 百分比类指标看均值是否提升，传感器指标看波动是否收窄
func BuildSummary(results []*AnalysisResult) []SummaryRow {
	rows := make([]SummaryRow, 0, len(results))
	for _, res := range results {
		row := SummaryRow{
			Metric:     res.Config.Title,
			MeanBefore: res.StatsBefore.Mean,
			MeanAfter:  res.StatsAfter.Mean,
			StdBefore:  res.StatsBefore.StdDev,
			StdAfter:   res.StatsAfter.StdDev,
		}
		if res.Config.IsPercentage {
			row.Improved = row.MeanAfter > row.MeanBefore
		} else {
			row.Improved = row.StdAfter < row.StdBefore
		}
		rows = append(rows, row)
	}
	return rows
}

// PrintSummary 打印所有指标的汇总表
func PrintSummary(w io.Writer, rows []SummaryRow) {
	fmt.Fprintln(w, "\nSUMMARY OF ALL METRICS")
	fmt.Fprintln(w, strings.Repeat("=", 86))
	fmt.Fprintf(w, "%-32s %-12s %-12s %-12s %-12s\n", "Metric", "Mean before", "Mean after", "Diff", "Verdict")
	fmt.Fprintln(w, strings.Repeat("-", 86))
	for _, r := range rows {
		verdict := "degraded"
		if r.Improved {
			verdict = "improved"
		}
		fmt.Fprintf(w, "%-32s %-12.2f %-12.2f %-+12.2f %-12s\n",
			r.Metric, r.MeanBefore, r.MeanAfter, r.MeanAfter-r.MeanBefore, verdict)
	}
}

package common

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunAnalysis(t *testing.T) {
	dir := t.TempDir()
	before := writeLog(t, dir, "before.csv", "%header\n0,10.0\n60,20.0\n120,30.0\n")
	after := writeLog(t, dir, "after.csv", "%header\n0,20.0\n60,20.0\n120,20.0\n180,20.0\n")

	cfg := AnalysisConfig{Title: "Sensor 1", YLabel: "t", FieldIndex: 1, MinFields: 2}
	res, err := RunAnalysis(before, after, cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Before.Len())
	assert.Equal(t, 4, res.After.Len()) // 长度不一致不是错误
	assert.InDelta(t, 20.0, res.StatsBefore.Mean, 1e-12)
	assert.InDelta(t, 20.0, res.StatsAfter.Mean, 1e-12)
	assert.Zero(t, res.StatsAfter.StdDev)
}

func TestRunAnalysisErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeLog(t, dir, "good.csv", "%h\n0,1.0\n")

	_, err := RunAnalysis(filepath.Join(dir, "missing.csv"), good, AnalysisConfig{FieldIndex: 1, MinFields: 2})
	assert.Error(t, err)

	// 全是坏行时序列为空，统计显式报错而不是静默给默认值
	empty := writeLog(t, dir, "empty.csv", "%only a header\n")
	_, err = RunAnalysis(good, empty, AnalysisConfig{Title: "x", FieldIndex: 1, MinFields: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty series")
}

func TestPrintComparison(t *testing.T) {
	res := &AnalysisResult{
		Config:      AnalysisConfig{Title: "Sensor 1", IsPercentage: false},
		StatsBefore: Stats{Mean: 1, Median: 1, StdDev: 0.5, Min: 0, Max: 2, Range: 2, CV: 50},
		StatsAfter:  Stats{Mean: 2, Median: 2, StdDev: 0.25, Min: 1, Max: 3, Range: 2, CV: 12.5},
	}

	var buf bytes.Buffer
	PrintComparison(&buf, res)
	out := buf.String()

	assert.Contains(t, out, "STATISTICS Sensor 1")
	assert.Contains(t, out, "Mean")
	assert.Contains(t, out, "CV (%)")
	assert.NotContains(t, out, "Time at 100%")
}

func TestPrintCategories(t *testing.T) {
	pct := &AnalysisResult{
		Config: AnalysisConfig{Title: "Perc", IsPercentage: true},
		Before: Series{Values: []float64{100, 60}},
		After:  Series{Values: []float64{100, 100}},
	}
	var buf bytes.Buffer
	PrintCategories(&buf, pct)
	assert.Contains(t, buf.String(), "95-100")

	sensor := &AnalysisResult{Config: AnalysisConfig{Title: "S"}}
	buf.Reset()
	PrintCategories(&buf, sensor)
	assert.Empty(t, buf.String())
}

func TestBuildSummary(t *testing.T) {
	results := []*AnalysisResult{
		{
			Config:      AnalysisConfig{Title: "Perc", IsPercentage: true},
			StatsBefore: Stats{Mean: 80, StdDev: 5},
			StatsAfter:  Stats{Mean: 90, StdDev: 9},
		},
		{
			Config:      AnalysisConfig{Title: "Sensor"},
			StatsBefore: Stats{Mean: 1, StdDev: 0.5},
			StatsAfter:  Stats{Mean: 2, StdDev: 0.7},
		},
	}

	rows := BuildSummary(results)
	require.Len(t, rows, 2)

	// 百分比类指标看均值，传感器指标看波动
	assert.True(t, rows[0].Improved)
	assert.False(t, rows[1].Improved)
	assert.Equal(t, "Perc", rows[0].Metric)

	var buf bytes.Buffer
	PrintSummary(&buf, rows)
	assert.Contains(t, buf.String(), "improved")
	assert.Contains(t, buf.String(), "degraded")
}

func TestDefaultConfigs(t *testing.T) {
	configs := DefaultConfigs()
	require.Len(t, configs, 4)
	assert.True(t, configs[0].IsPercentage)
	assert.Equal(t, -1, configs[0].FieldIndex)
	for _, cfg := range configs[1:] {
		assert.False(t, cfg.IsPercentage)
		assert.Greater(t, cfg.MinFields, cfg.FieldIndex)
	}
}

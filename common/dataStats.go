package common

import (
	"fmt"
	"math"
	"sort"
)

// PercentageCeiling 百分比类指标的饱和上限
const PercentageCeiling = 100.0

// Stats 单个序列的描述统计
// 饱和占比和变异系数二选一，由 IsPercentage 决定，Rows 保证互斥
type Stats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Range  float64 `json:"range"` // Max - Min

	IsPercentage  bool    `json:"is_percentage"`
	SaturationPct float64 `json:"saturation_pct"` // 恰好等于上限的采样占比
	CV            float64 `json:"cv"`             // 变异系数 std/mean*100
}

// MetricRow 统计表的一行
type MetricRow struct {
	Name  string
	Value float64
}

// Rows 按固定顺序导出指标行
func (s Stats) Rows() []MetricRow {
	rows := []MetricRow{
		{"Mean", s.Mean},
		{"Median", s.Median},
		{"Std dev", s.StdDev},
		{"Minimum", s.Min},
		{"Maximum", s.Max},
		{"Range", s.Range},
	}
	if s.IsPercentage {
		rows = append(rows, MetricRow{"Time at 100%", s.SaturationPct})
	} else {
		rows = append(rows, MetricRow{"CV (%)", s.CV})
	}
	return rows
}

// Summarize 计算描述统计（总体标准差），空序列显式报错
func Summarize(values []float64, isPercentage bool) (Stats, error) {
	n := len(values)
	if n == 0 {
		return Stats{}, fmt.Errorf("summarize: empty series")
	}

	s := Stats{IsPercentage: isPercentage, Min: values[0], Max: values[0]}
	sum := 0.0
	for _, v := range values {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		sum += v
	}
	s.Mean = sum / float64(n)
	s.Range = s.Max - s.Min

	// 第二遍：方差
	sumSqDiff := 0.0
	for _, v := range values {
		diff := v - s.Mean
		sumSqDiff += diff * diff
	}
	s.StdDev = math.Sqrt(sumSqDiff / float64(n))

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	s.Median = percentile(sorted, 50)

	if isPercentage {
		// 精确相等判饱和，不加容差，保持参考行为
		saturated := 0
		for _, v := range values {
			if v == PercentageCeiling {
				saturated++
			}
		}
		s.SaturationPct = float64(saturated) / float64(n) * 100
	} else {
		// mean 为 0 时得到 ±Inf/NaN，按原样上报
		s.CV = s.StdDev / s.Mean * 100
	}
	return s, nil
}

// Bucket 分布桶及其采样占比
type Bucket struct {
	Label string
	Pct   float64
}

// Categorize 按固定区间给百分比序列分桶，区间左闭右开，末桶双闭
// 各桶独立计数，边界连续无重叠，占比之和为 100（浮点舍入误差内）
func Categorize(values []float64) []Bucket {
	buckets := []Bucket{
		{Label: "<65"},
		{Label: "65-70"},
		{Label: "70-75"},
		{Label: "75-80"},
		{Label: "80-85"},
		{Label: "85-90"},
		{Label: "90-95"},
		{Label: "95-100"},
	}
	n := len(values)
	if n == 0 {
		return buckets
	}

	counts := make([]int, len(buckets))
	for _, v := range values {
		counts[bucketIndex(v)]++
	}
	for i := range buckets {
		buckets[i].Pct = float64(counts[i]) / float64(n) * 100
	}
	return buckets
}

func bucketIndex(v float64) int {
	switch {
	case v < 65:
		return 0
	case v < 70:
		return 1
	case v < 75:
		return 2
	case v < 80:
		return 3
	case v < 85:
		return 4
	case v < 90:
		return 5
	case v < 95:
		return 6
	default:
		return 7
	}
}

// percentile 线性插值百分位数，输入须已排序
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	rank := p / 100 * float64(len(sorted)-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))

	if lowerIdx == upperIdx {
		return sorted[lowerIdx]
	}

	weight := rank - float64(lowerIdx)
	return sorted[lowerIdx]*(1-weight) + sorted[upperIdx]*weight
}

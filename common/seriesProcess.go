package common

import "math"

// AdaptiveWindow 按序列长度选滑窗大小，下限 10
// 调用方须确认 n > w 再调 WindowedStd，否则退回整体统计
func AdaptiveWindow(n int) int {
	w := n / 50
	if w < 10 {
		w = 10
	}
	return w
}

// RollingWindow 长度不一致对比时的滑动平均窗口，上限 100
func RollingWindow(n int) int {
	w := n / 10
	if w > 100 {
		w = 100
	}
	return w
}

// WindowedStd 滑动窗口总体标准差，输出长度 N-W+1
// 第 i 个结果对应 [i, i+W)，时间轴对齐窗口尾部 times[W-1:]
func WindowedStd(values []float64, window int) []float64 {
	n := len(values)
	if window <= 0 || window > n {
		return nil
	}

	out := make([]float64, 0, n-window+1)
	for i := 0; i+window <= n; i++ {
		out = append(out, populationStd(values[i:i+window]))
	}
	return out
}

func populationStd(window []float64) float64 {
	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(len(window))

	sumSqDiff := 0.0
	for _, v := range window {
		diff := v - mean
		sumSqDiff += diff * diff
	}
	return math.Sqrt(sumSqDiff / float64(len(window)))
}

// RollingMean 简单滑动平均（valid 卷积语义），输出长度 N-W+1
func RollingMean(values []float64, window int) []float64 {
	n := len(values)
	if window <= 0 || window > n {
		return nil
	}

	out := make([]float64, 0, n-window+1)
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}

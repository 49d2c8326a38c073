package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	lz4 "github.com/bkaradzic/go-lz4"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/gozstd"
)

func TestExtractSeriesScenario(t *testing.T) {
	lines := []string{
		"%header",
		"0,10.0",
		"60,20.0",
		"120,30.0",
	}

	times, values := ExtractSeries(lines, 1, 2)

	assert.Equal(t, []float64{0, 1, 2}, times)
	assert.Equal(t, []float64{10, 20, 30}, values)
}

func TestExtractSeriesPreambleSkip(t *testing.T) {
	cases := []struct {
		name  string
		lines []string
		times []float64
	}{
		{
			name:  "comment block then data",
			lines: []string{"% meta", "%, still meta", "", "60,1", "120,2"},
			times: []float64{1, 2},
		},
		{
			name:  "blank lines before comments",
			lines: []string{"", "   ", "%meta", "60,1"},
			times: []float64{1},
		},
		{
			// 数据段从第一个非注释非空行开始，后面夹着的注释行按坏行丢弃
			name:  "data line before a late comment",
			lines: []string{"60,1", "%late meta", "120,2"},
			times: []float64{1, 2},
		},
		{
			name:  "comments only",
			lines: []string{"%a", "%b"},
			times: nil,
		},
		{
			name:  "empty input",
			lines: nil,
			times: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			times, values := ExtractSeries(tc.lines, 1, 2)
			assert.Equal(t, tc.times, times)
			assert.Len(t, values, len(tc.times))
		})
	}
}

func TestExtractSeriesTolerance(t *testing.T) {
	lines := []string{
		"%header",
		"0,1.0",
		"60",           // 列数不足，整行丢弃
		"120,abc",      // 取值列坏，整行丢弃
		"xyz,4.0",      // 时间列坏，整行丢弃
		"240, 5.0 ",    // 列内空白要去掉
		"300,,6.0,7.0", // 空列丢弃后重新计数
	}

	times, values := ExtractSeries(lines, 1, 2)

	// 坏行丢弃后剩余行保持对齐，不补默认值
	assert.Equal(t, []float64{0, 4, 5}, times)
	assert.Equal(t, []float64{1, 5, 6}, values)
}

func TestExtractSeriesNegativeIndex(t *testing.T) {
	lines := []string{"60,1,2,3", "120,4,5,6"}

	_, last := ExtractSeries(lines, -1, 2)
	_, explicit := ExtractSeries(lines, 3, 2)

	assert.Equal(t, explicit, last)
	assert.Equal(t, []float64{3, 6}, last)

	// 负向越界的行按坏行处理
	_, none := ExtractSeries(lines, -5, 2)
	assert.Empty(t, none)
}

func TestExtractFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sensor.csv")
	content := "%header\n0,10.0\n60,20.0\n120,30.0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := ExtractFromFile(path, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.InDelta(t, 2.0, s.MaxTime(), 1e-12)

	_, err = ExtractFromFile(filepath.Join(dir, "missing.csv"), 1, 2)
	assert.Error(t, err)
}

func TestReadSensorLinesCompressed(t *testing.T) {
	content := "%header\n0,10.0\n60,20.0\n120,30.0\n"
	want := strings.Split(strings.TrimRight(content, "\n"), "\n")
	dir := t.TempDir()

	plain := filepath.Join(dir, "log.csv")
	require.NoError(t, os.WriteFile(plain, []byte(content), 0644))

	gzPath := filepath.Join(dir, "log.csv.gz")
	f, err := os.Create(gzPath)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	_, err = gw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	zstPath := filepath.Join(dir, "log.csv.zst")
	require.NoError(t, os.WriteFile(zstPath, gozstd.Compress(nil, []byte(content)), 0644))

	lz4Path := filepath.Join(dir, "log.csv.lz4")
	encoded, err := lz4.Encode(nil, []byte(content))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(lz4Path, encoded, 0644))

	for _, path := range []string{plain, gzPath, zstPath, lz4Path} {
		lines, err := ReadSensorLines(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, lines, path)
	}
}

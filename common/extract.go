package common

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	lz4 "github.com/bkaradzic/go-lz4"
	"github.com/klauspost/compress/gzip"
	"github.com/valyala/gozstd"
)

// CommentMarker 元数据行前缀，数据段从第一个非注释非空行开始
const CommentMarker = "%"

// Series 对齐的时间/取值序列，times[i] 和 values[i] 来自同一行
type Series struct {
	Times  []float64
	Values []float64
}

func (s Series) Len() int { return len(s.Values) }

// MaxTime 返回最大时间点（分钟），空序列返回 0
func (s Series) MaxTime() float64 {
	maxT := 0.0
	for _, t := range s.Times {
		if t > maxT {
			maxT = t
		}
	}
	return maxT
}

// ReadSensorLines 读取传感器日志并按行返回，按扩展名自动解压 .gz/.zst/.lz4
// 只有文件本身不可读才报错，坏行的容错在 ExtractSeries 里处理
func ReadSensorLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file error '%s': %w", path, err)
	}
	defer file.Close()

	var reader io.Reader = file
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("gzip reader error '%s': %w", path, err)
		}
		defer gz.Close()
		reader = gz
	case ".zst":
		zr := gozstd.NewReader(file)
		defer zr.Release()
		reader = zr
	case ".lz4":
		// go-lz4 是块格式，整体读入后一次解码
		raw, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("read file error '%s': %w", path, err)
		}
		decoded, err := lz4.Decode(nil, raw)
		if err != nil {
			return nil, fmt.Errorf("lz4 decode error '%s': %w", path, err)
		}
		reader = bytes.NewReader(decoded)
	}

	scanner := bufio.NewScanner(reader)
	// 增加缓冲区大小以处理长行
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read file error '%s': %w", path, err)
	}
	return lines, nil
}

// ExtractSeries 从日志行提取时间列和指定取值列
// fieldIndex 支持负数（-1 取每行最后一列），字段 0 按秒读入并换算成分钟
// 列数不足或数值解析失败的行整行丢弃，两个序列永远等长对齐
func ExtractSeries(lines []string, fieldIndex, minFields int) (times, values []float64) {
	// 跳过开头的元数据段：取第一个非 % 非空行作为数据起点
	dataStart := len(lines)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, CommentMarker) {
			dataStart = i
			break
		}
	}

	for _, line := range lines[dataStart:] {
		fields := splitFields(line)
		if len(fields) < minFields || len(fields) == 0 {
			continue
		}
		idx := fieldIndex
		if idx < 0 {
			idx += len(fields)
		}
		if idx < 0 || idx >= len(fields) {
			continue
		}
		timeVal, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		dataVal, err := strconv.ParseFloat(fields[idx], 64)
		if err != nil {
			continue
		}
		times = append(times, timeVal/60) // 秒转分钟
		values = append(values, dataVal)
	}
	return times, values
}

// splitFields 逗号分列，去掉每列两侧空白并丢弃空列
func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}

// ExtractFromFile 读文件并提取序列
func ExtractFromFile(path string, fieldIndex, minFields int) (Series, error) {
	lines, err := ReadSensorLines(path)
	if err != nil {
		return Series{}, err
	}
	times, values := ExtractSeries(lines, fieldIndex, minFields)
	return Series{Times: times, Values: values}, nil
}

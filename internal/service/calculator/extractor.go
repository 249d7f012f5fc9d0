package calculator

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"ycreport/internal/model"
)

// Mode 数值提取模式
type Mode string

const (
	ModeSum Mode = "sum"
	ModeMax Mode = "max" // 累计型栏位（如今年受浸），周报重复出现时不可相加
	ModeAvg Mode = "avg" // 去尾平均
)

// trimThreshold 笔数超过此值时剔除最高、最低各 trimCount 笔
const (
	trimThreshold = 4
	trimCount     = 2
)

// NoDataTrace 没有任何列含指定栏位
const NoDataTrace = "無數據"

// Extraction 提取结果
type Extraction struct {
	Value   float64
	Trace   string
	Samples []float64
}

// HasData 是否至少有一列含指定栏位（区分「无数据」与真实的 0）
func (e Extraction) HasData() bool {
	return len(e.Samples) > 0
}

// Extract 从列集合中按别名（每列取第一个命中的别名）提取数值
func Extract(rows []model.RawRecord, aliases []string, mode Mode) Extraction {
	values := collectValues(rows, aliases)
	if len(values) == 0 {
		return Extraction{Value: 0, Trace: NoDataTrace}
	}

	switch mode {
	case ModeMax:
		peak := values[0]
		for _, v := range values[1:] {
			if v > peak {
				peak = v
			}
		}
		return Extraction{
			Value:   peak,
			Samples: values,
			Trace:   fmt.Sprintf("最大值模式\n原始數據(%d筆): %s", len(values), joinNums(values)),
		}
	case ModeSum:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return Extraction{
			Value:   sum,
			Samples: values,
			Trace:   fmt.Sprintf("加總模式\n原始數據(%d筆): %s", len(values), joinNums(values)),
		}
	case ModeAvg:
		return trimmedMean(values)
	default:
		return Extraction{Value: 0, Trace: fmt.Sprintf("%s（未知模式 %q）", NoDataTrace, string(mode))}
	}
}

func collectValues(rows []model.RawRecord, aliases []string) []float64 {
	var values []float64
	for _, r := range rows {
		for _, alias := range aliases {
			v, ok := r.Number(alias)
			if !ok {
				continue
			}
			values = append(values, v)
			break
		}
	}
	return values
}

func trimmedMean(values []float64) Extraction {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if len(sorted) > trimThreshold {
		low := sorted[:trimCount]
		high := sorted[len(sorted)-trimCount:]
		kept := sorted[trimCount : len(sorted)-trimCount]
		total := sumOf(kept)
		avg := roundHalfUp(total / float64(len(kept)))

		var b strings.Builder
		b.WriteString("【去尾平均(剔除高低各2)】\n")
		fmt.Fprintf(&b, "原始筆數: %d (大於4筆，執行剔除)\n", len(values))
		fmt.Fprintf(&b, "原始排序: %s\n", joinNums(sorted))
		fmt.Fprintf(&b, "❌ 剔除低值: %s\n", joinNums(low))
		fmt.Fprintf(&b, "❌ 剔除高值: %s\n", joinNums(high))
		fmt.Fprintf(&b, "✅ 納入計算: %s\n", joinNums(kept))
		fmt.Fprintf(&b, "平均: %s / %d = %s", formatNum(total), len(kept), formatNum(avg))
		return Extraction{Value: avg, Samples: values, Trace: b.String()}
	}

	total := sumOf(values)
	avg := roundHalfUp(total / float64(len(values)))
	trace := fmt.Sprintf("【一般平均】\n原始筆數: %d (未達5筆，不剔除)\n原始數據: %s\n平均: %s / %d = %s",
		len(values), joinNums(values), formatNum(total), len(values), formatNum(avg))
	return Extraction{Value: avg, Samples: values, Trace: trace}
}

func sumOf(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// roundHalfUp 四舍五入（.5 向上）
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func joinNums(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatNum(v)
	}
	return strings.Join(parts, ", ")
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

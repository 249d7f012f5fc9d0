package model

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// 原始记录中的保留来源栏位
const (
	KeySourceFile = "來源報表"
	KeySheetName  = "工作表名稱"
)

// RawRecord 解析器产出的扁平记录：列名 -> 基本类型值
// 列名遵循下划线分段约定（如 "主日_青職"），是别名表的连接键
type RawRecord map[string]any

// SourceFile 来源报表文件名
func (r RawRecord) SourceFile() string {
	return cellText(r[KeySourceFile])
}

// SheetName 工作表名称
func (r RawRecord) SheetName() string {
	return cellText(r[KeySheetName])
}

// GroupKey 同一文件同一工作表的分组键
func (r RawRecord) GroupKey() string {
	file := r.SourceFile()
	if file == "" {
		file = "unknown"
	}
	sheet := r.SheetName()
	if sheet == "" {
		sheet = "unknown"
	}
	return file + "_" + sheet
}

// CellTexts 以确定顺序返回所有单元格文本：内容栏位按列名排序，来源栏位在后
func (r RawRecord) CellTexts() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sortCellKeys(keys)

	texts := make([]string, 0, len(keys))
	for _, k := range keys {
		texts = append(texts, cellText(r[k]))
	}
	return texts
}

// StringCells 仅返回字符串类型的单元格（同样保持确定顺序）
func (r RawRecord) StringCells() []string {
	keys := make([]string, 0, len(r))
	for k, v := range r {
		if _, ok := v.(string); ok {
			keys = append(keys, k)
		}
	}
	sortCellKeys(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, r[k].(string))
	}
	return out
}

// Number 安全读取数值列
func (r RawRecord) Number(key string) (float64, bool) {
	v, ok := r[key]
	if !ok {
		return 0, false
	}
	return ParseNumber(v)
}

// Clone 浅拷贝
func (r RawRecord) Clone() RawRecord {
	out := make(RawRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// sortCellKeys 内容栏位在前（按列名），来源报表、工作表名称在最后
// 分区判断依列本身的标签
func sortCellKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		pi, pj := provenanceRank(keys[i]), provenanceRank(keys[j])
		if pi != pj {
			return pi < pj
		}
		return keys[i] < keys[j]
	})
}

func provenanceRank(key string) int {
	switch key {
	case KeySourceFile:
		return 1
	case KeySheetName:
		return 2
	default:
		return 0
	}
}

// ParseNumber 安全解析数值；空值、布尔、非法字符串一律视为无值
func ParseNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case fmt.Stringer:
		return ParseNumber(n.String())
	case string:
		s := strings.TrimSpace(n)
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimSuffix(s, "%")
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeColumnName 规范化列名，去除空白字符
func NormalizeColumnName(name string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(name), "")
}

// cellValue 单元格文本转为记录值：纯数字转为 float64，其余保留字符串
func cellValue(text string) any {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
		return f
	}
	return s
}

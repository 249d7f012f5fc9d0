package calculator

import (
	"strings"

	"ycreport/internal/model"
)

// Ambiguity 两个召会名互为子字串，子字串比对无法区分
type Ambiguity struct {
	Short string `json:"short"`
	Long  string `json:"long"`
}

// UnitMatcher 判断原始记录是否属于某召会
// 先看单元格是否与召会名完全相同，再看来源栏位或单元格是否包含召会名
type UnitMatcher struct {
	units       []string
	ambiguities []Ambiguity
}

// NewUnitMatcher 由区域结构建立比对器
func NewUnitMatcher(taxonomy model.Taxonomy) *UnitMatcher {
	units := taxonomy.Units()
	m := &UnitMatcher{units: units}
	for i, a := range units {
		for j, b := range units {
			if i == j || a == b {
				continue
			}
			if strings.Contains(b, a) {
				m.ambiguities = append(m.ambiguities, Ambiguity{Short: a, Long: b})
			}
		}
	}
	return m
}

// Ambiguities 名称互相包含的召会组合（未解决，仅供警示）
func (m *UnitMatcher) Ambiguities() []Ambiguity {
	return m.ambiguities
}

// MatchKind 比对结果
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchSubstring
	MatchExact
)

// Match 比对单笔记录
func (m *UnitMatcher) Match(r model.RawRecord, unit string) MatchKind {
	texts := r.CellTexts()
	for _, s := range texts {
		if strings.TrimSpace(s) == unit {
			return MatchExact
		}
	}
	for _, s := range texts {
		if strings.Contains(s, unit) {
			return MatchSubstring
		}
	}
	return MatchNone
}

// Filter 选出属于该召会的全部记录（保持原顺序）
func (m *UnitMatcher) Filter(records []model.RawRecord, unit string) []model.RawRecord {
	var out []model.RawRecord
	for _, r := range records {
		if m.Match(r, unit) != MatchNone {
			out = append(out, r)
		}
	}
	return out
}

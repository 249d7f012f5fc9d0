package calculator

import (
	"math"

	"ycreport/internal/model"
)

// MergeRowSets 合并两份完整总表（如两位同工各自的专案档）
// 目标/基数/排数取较大值；平均值以 incoming 覆盖；实际人数相加（假设两边原始资料不重叠）
// 小计与合计不直接合并，由 RecalculateSubtotals 重建；去年统计列原样保留
func (e *Engine) MergeRowSets(current, incoming []model.ConsolidatedRow) []model.ConsolidatedRow {
	incomingByName := indexByName(incoming)

	out := make([]model.ConsolidatedRow, len(current))
	for i, row := range current {
		out[i] = row
		if row.IsAggregate() || row.IsInert() {
			continue
		}
		inc, ok := incomingByName[row.Name]
		if !ok {
			continue
		}

		merged := row
		for _, f := range model.ConsolidatedFields {
			if !f.Numeric() {
				continue
			}
			cur, in := *f.Ptr(&row), *f.Ptr(inc)
			switch f.Kind {
			case model.AggMax:
				*f.Ptr(&merged) = math.Max(cur, in)
			case model.AggOverwrite:
				*f.Ptr(&merged) = in
			default:
				*f.Ptr(&merged) = cur + in
			}
		}
		if inc.SunAllDetails != "" {
			merged.SunAllDetails = inc.SunAllDetails
		}
		out[i] = e.Recalculate(merged)
	}

	return RecalculateSubtotals(out)
}

// Reconcile 以新算出的总表对照旧版（手动输入）总表
// 目标/基数/排数取较大值；其余栏位以新值为准，但新值为 0 且旧值非 0 时沿用旧值
func (e *Engine) Reconcile(fresh, legacy []model.ConsolidatedRow) []model.ConsolidatedRow {
	legacyByName := indexByName(legacy)

	out := make([]model.ConsolidatedRow, len(fresh))
	for i, row := range fresh {
		out[i] = row
		if row.IsAggregate() || row.IsInert() {
			continue
		}
		old, ok := legacyByName[row.Name]
		if !ok {
			continue
		}

		merged := row
		for _, f := range model.ConsolidatedFields {
			if !f.Numeric() {
				continue
			}
			calc, ready := *f.Ptr(&row), *f.Ptr(old)
			if f.Kind == model.AggMax {
				*f.Ptr(&merged) = math.Max(calc, ready)
				continue
			}
			if calc == 0 && ready != 0 {
				*f.Ptr(&merged) = ready
			}
		}
		if merged.SunAllDetails == "" {
			merged.SunAllDetails = old.SunAllDetails
		}
		out[i] = e.Recalculate(merged)
	}

	return RecalculateSubtotals(out)
}

func indexByName(rows []model.ConsolidatedRow) map[string]*model.ConsolidatedRow {
	m := make(map[string]*model.ConsolidatedRow, len(rows))
	for i := range rows {
		if rows[i].IsAggregate() || rows[i].IsInert() {
			continue
		}
		if _, dup := m[rows[i].Name]; dup {
			continue
		}
		m[rows[i].Name] = &rows[i]
	}
	return m
}

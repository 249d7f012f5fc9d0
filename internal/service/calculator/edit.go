package calculator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"ycreport/internal/model"
)

var (
	ErrUnitNotFound  = errors.New("召会不存在")
	ErrUnknownField  = errors.New("未知栏位")
	ErrReadOnlyField = errors.New("栏位不可编辑")
)

// EditCell 修改总表单一栏位，该栏位本次不被公式覆盖，之后重算小计
func (e *Engine) EditCell(rows []model.ConsolidatedRow, unit, field string, value float64) ([]model.ConsolidatedRow, error) {
	meta, ok := model.LookupField(field)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if !meta.Numeric() {
		return nil, fmt.Errorf("%w: %s 为推导栏位", ErrReadOnlyField, field)
	}

	idx := -1
	for i := range rows {
		if rows[i].Name == unit && !rows[i].IsInert() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnitNotFound, unit)
	}
	if rows[idx].IsAggregate() {
		return nil, fmt.Errorf("%w: %s 为小计列", ErrReadOnlyField, unit)
	}

	out := make([]model.ConsolidatedRow, len(rows))
	copy(out, rows)
	row := out[idx]
	*meta.Ptr(&row) = value
	out[idx] = e.Recalculate(row, field)

	return RecalculateSubtotals(out), nil
}

// formulaGoalField 青年目标永远由三项目标加总
const formulaGoalField = "bap_youth_goal"

// ApplyTargets 匯入目标/基数：values 为 召会 → 栏位 → 数值
// 只接受目标/基数栏位；返回被忽略的 "召会.栏位"
func (e *Engine) ApplyTargets(rows []model.ConsolidatedRow, values map[string]map[string]float64) ([]model.ConsolidatedRow, []string) {
	out := make([]model.ConsolidatedRow, len(rows))
	copy(out, rows)

	var ignored []string
	seen := make(map[string]bool, len(values))
	for i := range out {
		r := &out[i]
		if r.IsAggregate() || r.IsInert() {
			continue
		}
		fields, ok := values[r.Name]
		if !ok {
			continue
		}
		seen[r.Name] = true

		var protected []string
		for _, name := range sortedKeys(fields) {
			if !model.IsTargetField(name) {
				ignored = append(ignored, r.Name+"."+name)
				continue
			}
			meta, _ := model.LookupField(name)
			*meta.Ptr(r) = fields[name]
			if name != formulaGoalField {
				protected = append(protected, name)
			}
		}
		*r = e.Recalculate(*r, protected...)
	}

	for _, unit := range sortedKeys(values) {
		if !seen[unit] {
			ignored = append(ignored, unit)
		}
	}

	return RecalculateSubtotals(out), ignored
}

// ClearTargets 清除全部目标与基数
func (e *Engine) ClearTargets(rows []model.ConsolidatedRow) []model.ConsolidatedRow {
	out := make([]model.ConsolidatedRow, len(rows))
	copy(out, rows)

	for i := range out {
		r := &out[i]
		if r.IsAggregate() || r.IsInert() {
			continue
		}
		for _, f := range model.ConsolidatedFields {
			if f.Numeric() && model.IsTargetField(f.Name) {
				*f.Ptr(r) = 0
			}
		}
		*r = e.Recalculate(*r)
	}
	return RecalculateSubtotals(out)
}

// ApplyMonthlyEdit 月报表手动修正：写到该召会第一笔原始记录上
// bap_online 另存为 bap_online_manual，以免与报表原有栏位混淆
func (e *Engine) ApplyMonthlyEdit(records []model.RawRecord, unit, field string, value float64) ([]model.RawRecord, error) {
	if field == "" {
		return nil, fmt.Errorf("%w: 空栏位名", ErrUnknownField)
	}
	if field == "bap_online" {
		field = ManualOnlineField
	}

	for i, r := range records {
		if e.matcher.Match(r, unit) == MatchNone {
			continue
		}
		out := make([]model.RawRecord, len(records))
		copy(out, records)
		edited := r.Clone()
		edited[field] = value
		out[i] = edited
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s 没有原始记录", ErrUnitNotFound, unit)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

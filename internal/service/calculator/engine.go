package calculator

import (
	"log"

	"ycreport/internal/model"
)

// Engine 报表计算引擎
type Engine struct {
	settings model.ReportSettings
	matcher  *UnitMatcher
}

// NewEngine 创建计算引擎
func NewEngine(settings model.ReportSettings) *Engine {
	matcher := NewUnitMatcher(settings.Taxonomy)
	for _, a := range matcher.Ambiguities() {
		log.Printf("召会名称互相包含，比对可能重复: %s ⊂ %s", a.Short, a.Long)
	}
	return &Engine{settings: settings, matcher: matcher}
}

// Settings 当前报表配置
func (e *Engine) Settings() model.ReportSettings {
	return e.settings
}

// Consolidate 原始记录 → 月报表 → 总表 → 小计
// 有旧版总表时与之对照；没有原始记录时直接沿用旧版总表
func (e *Engine) Consolidate(records []model.RawRecord, legacy []model.ConsolidatedRow) []model.ConsolidatedRow {
	if len(records) == 0 && len(legacy) > 0 {
		rows := e.alignToTaxonomy(legacy)
		return append(RecalculateSubtotals(rows), lastYearRow(legacy))
	}

	rows := e.BuildRows(e.Monthly(records))
	rows = RecalculateSubtotals(rows)
	if len(legacy) > 0 {
		rows = e.Reconcile(rows, legacy)
	}
	return append(rows, lastYearRow(legacy))
}

// BuildRows 月报表逐列转为总表列；小计与合计先放零值占位
func (e *Engine) BuildRows(monthly []model.MonthlyMetricRow) []model.ConsolidatedRow {
	rows := make([]model.ConsolidatedRow, 0, len(monthly))
	for i := range monthly {
		m := &monthly[i]
		switch {
		case m.IsGrandTotal:
			rows = append(rows, grandTotalRow())
		case m.IsSubtotal:
			rows = append(rows, subtotalRow(m.Region))
		default:
			rows = append(rows, e.BuildConsolidatedRow(m))
		}
	}
	return rows
}

// Skeleton 按区域结构产生的零值总表（不含去年统计）
func (e *Engine) Skeleton() []model.ConsolidatedRow {
	var rows []model.ConsolidatedRow
	for _, region := range e.settings.Taxonomy {
		for _, unit := range region.Churches {
			rows = append(rows, e.Recalculate(model.NewConsolidatedRow(unit, region.Name)))
		}
		rows = append(rows, subtotalRow(region.Name))
	}
	return append(rows, grandTotalRow())
}

// alignToTaxonomy 旧版总表按区域结构重排，缺少的召会补零值列
// 召会列只重算百分比，保留原有的目标与总数
func (e *Engine) alignToTaxonomy(legacy []model.ConsolidatedRow) []model.ConsolidatedRow {
	byName := indexByName(legacy)

	rows := e.Skeleton()
	for i := range rows {
		r := &rows[i]
		if r.IsAggregate() {
			continue
		}
		old, ok := byName[r.Name]
		if !ok {
			continue
		}
		aligned := *old
		aligned.Region = r.Region
		*r = RecalcRates(aligned)
	}
	return rows
}

// UnknownUnits 不在区域结构中的召会列名称（对齐与对照时会被略过）
func (e *Engine) UnknownUnits(rows []model.ConsolidatedRow) []string {
	var out []string
	for _, r := range rows {
		if r.IsAggregate() || r.IsInert() {
			continue
		}
		if _, ok := e.settings.Taxonomy.RegionOf(r.Name); !ok {
			out = append(out, r.Name)
		}
	}
	return out
}

func subtotalRow(region string) model.ConsolidatedRow {
	row := model.NewConsolidatedRow(model.SubtotalName(region), region)
	row.IsSubtotal = true
	return row
}

func grandTotalRow() model.ConsolidatedRow {
	row := model.NewConsolidatedRow(model.GrandTotalName, "")
	row.IsSubtotal = true
	row.IsGrandTotal = true
	return row
}

// lastYearRow 沿用旧版的去年统计列，没有则为零值
func lastYearRow(legacy []model.ConsolidatedRow) model.ConsolidatedRow {
	for _, r := range legacy {
		if r.IsLastYear {
			return r
		}
	}
	row := model.NewConsolidatedRow(model.LastYearName, "")
	row.IsLastYear = true
	return row
}

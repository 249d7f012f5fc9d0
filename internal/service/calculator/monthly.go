package calculator

import "ycreport/internal/model"

// 各指标可接受的栏位别名（每列取第一个命中者）
var (
	aliasBapRollCall   = []string{"今年受浸小計", "受浸_小計", "今年受浸_小計"}
	aliasBapOnline     = []string{"受浸_線上", "線上受浸"}
	aliasBapChild      = []string{"今年受浸_小學", "受浸_小學"}
	aliasBapTeen       = []string{"今年受浸_中學", "受浸_中學"}
	aliasBapUni        = []string{"今年受浸_大專", "受浸_大專"}
	aliasBapYA         = []string{"今年受浸_青職", "受浸_青職"}
	aliasSunChild      = []string{"主日_兒童", "兒童主日_小計", "兒童主日_合計"}
	aliasSunTeen       = []string{"主日_中學"}
	aliasSunUni        = []string{"主日_大專"}
	aliasSunYA         = []string{"主日_青職"}
	aliasSunTotal      = []string{"主日_小計", "主日_合計", "主日_總計", "主日_總數", "主日_人數", "主日_全召會", "全召會", "小計"}
	aliasGospelYA      = []string{"福音出訪_青職"}
	aliasGospelTotal   = []string{"福音出訪_小計"}
	aliasHomeYA        = []string{"家聚會出訪_青職", "家聚會受訪_青職"}
	aliasHomeTotal     = []string{"家聚會出訪_小計", "家聚會受訪_小計"}
	aliasLifeTeen      = []string{"生命讀經_中學"}
	aliasLifeUni       = []string{"生命讀經_大專"}
	aliasLifeYA        = []string{"生命讀經_青職"}
	aliasLifeTotal     = []string{"生命讀經_小計"}
	aliasGroupChild    = []string{"小排_學齡前", "小排_小學", "兒童排_學齡前", "兒童排_小學"}
	aliasGroupTeen     = []string{"小排_中學"}
	aliasGroupUni      = []string{"小排_大專", "小排_大學"}
	aliasGroupYA       = []string{"小排_青職"}
	aliasBapOnlineEdit = []string{ManualOnlineField}
)

// ManualOnlineField 月报表手动填写的线上受浸人数（优先于报表栏位）
const ManualOnlineField = "bap_online_manual"

// Monthly 由原始记录产生月报表：[召会..., 区域小计] × 区域，最后为合计
func (e *Engine) Monthly(records []model.RawRecord) []model.MonthlyMetricRow {
	var results []model.MonthlyMetricRow
	for _, region := range e.settings.Taxonomy {
		subtotal := model.MonthlyMetricRow{
			Name:       model.SubtotalName(region.Name),
			Region:     region.Name,
			IsSubtotal: true,
		}
		for _, unit := range region.Churches {
			row := e.aggregateUnit(records, unit, region.Name)
			model.AddMonthly(&subtotal, &row)
			results = append(results, row)
		}
		results = append(results, subtotal)
	}

	grand := model.MonthlyMetricRow{
		Name:         model.GrandTotalName,
		IsSubtotal:   true,
		IsGrandTotal: true,
	}
	for i := range results {
		if results[i].IsSubtotal {
			model.AddMonthly(&grand, &results[i])
		}
	}
	return append(results, grand)
}

func (e *Engine) aggregateUnit(records []model.RawRecord, unit, region string) model.MonthlyMetricRow {
	row := model.NewMonthlyRow(unit, region)

	unitRows := e.matcher.Filter(records, unit)
	if len(unitRows) == 0 {
		return row
	}

	rep := SelectRepresentativeRows(unitRows, unit)
	details := row.Details
	extract := func(rows []model.RawRecord, aliases []string, mode Mode, key string) float64 {
		res := Extract(rows, aliases, mode)
		if res.Trace != "" {
			details[key] = res.Trace
		}
		return res.Value
	}

	// 受浸（累计值取最大）
	row.BapRollCall = extract(rep, aliasBapRollCall, ModeMax, "bap_roll_call")
	if manual := Extract(unitRows, aliasBapOnlineEdit, ModeMax); manual.HasData() {
		row.BapOnline = manual.Value
		details["bap_online"] = manual.Trace
	} else {
		row.BapOnline = extract(rep, aliasBapOnline, ModeMax, "bap_online")
	}
	row.BapChild = extract(rep, aliasBapChild, ModeMax, "bap_child")
	row.BapTeen = extract(rep, aliasBapTeen, ModeMax, "bap_teen")
	row.BapUni = extract(rep, aliasBapUni, ModeMax, "bap_uni")
	row.BapYA = extract(rep, aliasBapYA, ModeMax, "bap_ya")

	// 主日
	row.SunChild = extract(rep, aliasSunChild, ModeAvg, "sun_child")
	row.SunTeen = extract(rep, aliasSunTeen, ModeAvg, "sun_teen")
	row.SunUni = extract(rep, aliasSunUni, ModeAvg, "sun_uni")
	row.SunYA = extract(rep, aliasSunYA, ModeAvg, "sun_ya")
	row.SunTotal = extract(rep, aliasSunTotal, ModeAvg, "sun_total")
	if row.SunTotal == 0 {
		if sum := row.SunChild + row.SunTeen + row.SunUni + row.SunYA; sum > 0 {
			row.SunTotal = sum
			details["sun_total"] += "\n(自動加總: 兒童+中學+大專+青職)"
		}
	}

	// 福音出訪、家聚會：无合计栏位时以青職代替
	row.GospelYA = extract(rep, aliasGospelYA, ModeAvg, "gospel_ya")
	row.GospelTotal = extract(rep, aliasGospelTotal, ModeAvg, "gospel_total")
	if row.GospelTotal == 0 && row.GospelYA > 0 {
		row.GospelTotal = row.GospelYA
	}
	row.HomeYA = extract(rep, aliasHomeYA, ModeAvg, "home_ya")
	row.HomeTotal = extract(rep, aliasHomeTotal, ModeAvg, "home_total")
	if row.HomeTotal == 0 && row.HomeYA > 0 {
		row.HomeTotal = row.HomeYA
	}

	// 生命讀經
	row.LifeTeen = extract(rep, aliasLifeTeen, ModeAvg, "life_teen")
	row.LifeUni = extract(rep, aliasLifeUni, ModeAvg, "life_uni")
	row.LifeYA = extract(rep, aliasLifeYA, ModeAvg, "life_ya")
	row.LifeTotal = extract(rep, aliasLifeTotal, ModeAvg, "life_total")
	if row.LifeTotal == 0 {
		row.LifeTotal = row.LifeTeen + row.LifeUni + row.LifeYA
	}

	// 小排
	row.GroupChild = extract(rep, aliasGroupChild, ModeAvg, "group_child")
	row.GroupTeen = extract(rep, aliasGroupTeen, ModeAvg, "group_teen")
	row.GroupUni = extract(rep, aliasGroupUni, ModeAvg, "group_uni")
	row.GroupYA = extract(rep, aliasGroupYA, ModeAvg, "group_ya")

	return row
}

// MonthlyFromConsolidated 只有旧版总表（无原始记录）时，由总表反推月报表
func (e *Engine) MonthlyFromConsolidated(rows []model.ConsolidatedRow) []model.MonthlyMetricRow {
	byName := make(map[string]*model.ConsolidatedRow, len(rows))
	for i := range rows {
		byName[rows[i].Name] = &rows[i]
	}

	var results []model.MonthlyMetricRow
	for _, region := range e.settings.Taxonomy {
		subtotal := model.MonthlyMetricRow{
			Name:       model.SubtotalName(region.Name),
			Region:     region.Name,
			IsSubtotal: true,
		}
		for _, unit := range region.Churches {
			row := model.NewMonthlyRow(unit, region.Name)
			if c, ok := byName[unit]; ok && !c.IsAggregate() {
				row = monthlyFromRow(c, region.Name)
			}
			model.AddMonthly(&subtotal, &row)
			results = append(results, row)
		}
		results = append(results, subtotal)
	}

	grand := model.MonthlyMetricRow{Name: model.GrandTotalName, IsSubtotal: true, IsGrandTotal: true}
	for i := range results {
		if results[i].IsSubtotal {
			model.AddMonthly(&grand, &results[i])
		}
	}
	return append(results, grand)
}

func monthlyFromRow(c *model.ConsolidatedRow, region string) model.MonthlyMetricRow {
	return model.MonthlyMetricRow{
		Name:        c.Name,
		Region:      region,
		Details:     map[string]string{"info": "由已處理的總表資料轉換"},
		BapRollCall: c.BapAllTotal,
		BapTeen:     c.BapTeenActual,
		BapUni:      c.BapUniActual,
		BapYA:       c.BapYAActual,
		SunChild:    c.SunChildWAvg,
		SunTeen:     c.SunTeenAvg,
		SunUni:      c.SunUniAvg,
		SunYA:       c.SunYAAvg,
		SunTotal:    c.SunAllAvg,
		GospelYA:    c.VisYAAvg,
		GospelTotal: c.VisAllAvg,
		HomeYA:      c.HomeYAAvg,
		HomeTotal:   c.HomeAllAvg,
		LifeYA:      c.LifeYAAvg,
		LifeTotal:   c.LifeAllAvg,
		GroupChild:  c.GrpChildWAvg,
		GroupTeen:   c.GrpTeenAvg,
		GroupUni:    c.GrpUniCnt,
		GroupYA:     c.GrpYAAvg,
	}
}

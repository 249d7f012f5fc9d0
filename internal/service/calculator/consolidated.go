package calculator

import (
	"math"

	"github.com/shopspring/decimal"

	"ycreport/internal/model"
)

// BuildConsolidatedRow 将单一召会的月报表映射为总表列
// 目标/基数栏位一律为 0，由目标匯入或旧版资料补上
func (e *Engine) BuildConsolidatedRow(m *model.MonthlyMetricRow) model.ConsolidatedRow {
	row := model.NewConsolidatedRow(m.Name, m.Region)

	teenActual := m.BapChild + m.BapTeen
	youthTotal := teenActual + m.BapUni + m.BapYA
	otherActual := math.Max(0, m.BapRollCall-youthTotal)

	row.BapTeenActual = teenActual
	row.BapUniActual = m.BapUni
	row.BapYAActual = m.BapYA
	row.BapYouthTotal = youthTotal
	row.BapOtherActual = otherActual
	row.BapAllTotal = m.BapRollCall

	row.VisYAAvg = m.GospelYA
	row.VisAllAvg = m.GospelTotal
	row.HomeYAAvg = m.HomeYA
	row.HomeAllAvg = m.HomeTotal
	row.LifeYAAvg = m.LifeYA
	row.LifeAllAvg = m.LifeTotal

	row.GrpYAAvg = m.GroupYA
	row.GrpUniCnt = m.GroupUni
	row.GrpTeenCnt = e.settings.TeenGroupSeeds[m.Name]
	row.GrpTeenAvg = m.GroupTeen
	row.GrpChildCnt = e.settings.ChildGroupSeeds[m.Name]
	row.GrpChildWAvg = m.GroupChild

	row.SunYAAvg = m.SunYA
	row.SunUniAvg = m.SunUni
	row.SunTeenAvg = m.SunTeen
	row.SunChildWAvg = m.SunChild
	row.SunAllAvg = m.SunTotal
	if trace, ok := m.Details["sun_total"]; ok && trace != NoDataTrace {
		row.SunAllDetails = trace
	}

	return e.Recalculate(row)
}

// Recalculate 由细项重算总数与全部百分比
// skipFields 中的栏位保留手动输入值，不被公式覆盖
func (e *Engine) Recalculate(row model.ConsolidatedRow, skipFields ...string) model.ConsolidatedRow {
	skip := make(map[string]bool, len(skipFields))
	for _, f := range skipFields {
		skip[f] = true
	}

	if !skip["bap_youth_total"] {
		row.BapYouthTotal = row.BapYAActual + row.BapUniActual + row.BapTeenActual
	}
	if !skip["bap_youth_goal"] {
		row.BapYouthGoal = row.BapYATarget + row.BapUniTarget + row.BapTeenTarget
	}
	if !skip["bap_all_total"] {
		row.BapAllTotal = row.BapYouthTotal + row.BapOtherActual
	}
	if !skip["bap_all_goal"] {
		allowance := 0.0
		if row.BapOtherActual > 0 {
			allowance = e.settings.OtherGoalAllowance
		}
		row.BapAllGoal = row.BapYouthGoal + allowance
	}

	return RecalcRates(row)
}

// RecalcRates 依目前栏位重算全部百分比
func RecalcRates(row model.ConsolidatedRow) model.ConsolidatedRow {
	// 受浸达成率 = 实际 / 目标
	row.BapYouthRate = calcRate(row.BapYouthTotal, row.BapYouthGoal)
	row.BapAllRate = calcRate(row.BapAllTotal, row.BapAllGoal)

	// 福音出訪、家聚會、生命讀經 = 平均 / 主日基数
	row.VisYARate = calcRate(row.VisYAAvg, row.SunYABase)
	row.VisAllRate = calcRate(row.VisAllAvg, row.SunAllBase)
	row.HomeYARate = calcRate(row.HomeYAAvg, row.SunYABase)
	row.HomeAllRate = calcRate(row.HomeAllAvg, row.SunAllBase)
	row.LifeYARate = calcRate(row.LifeYAAvg, row.SunYABase)
	row.LifeAllRate = calcRate(row.LifeAllAvg, row.SunAllBase)

	// 主日青職占比 = 青職平均 / 全召會平均
	row.SunYAPct = calcRate(row.SunYAAvg, row.SunAllAvg)

	// 全召會年增 = 平均 / 基数
	row.SunAllYoY = calcRate(row.SunAllAvg, row.SunAllBase)

	return row
}

// calcRate 百分比字串（一位小数），除数为 0 时为 0.0%
func calcRate(numerator, denominator float64) string {
	if denominator == 0 {
		return model.ZeroRate
	}
	pct := decimal.NewFromFloat(numerator).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromFloat(denominator))
	return pct.StringFixed(1) + "%"
}

package calculator

import "ycreport/internal/model"

// RecalculateSubtotals 由下而上重算区域小计与合计，返回新切片
// 小计 = 区域内非小计列逐栏相加；合计 = 各区域小计逐栏相加；去年统计列不参与
func RecalculateSubtotals(rows []model.ConsolidatedRow) []model.ConsolidatedRow {
	out := make([]model.ConsolidatedRow, len(rows))
	copy(out, rows)

	for i := range out {
		r := &out[i]
		if !r.IsSubtotal || r.IsGrandTotal {
			continue
		}
		model.ZeroNumeric(r)
		for j := range out {
			m := &out[j]
			if m.IsAggregate() || m.IsInert() || m.Region != r.Region {
				continue
			}
			model.AddConsolidated(r, m)
		}
		*r = RecalcRates(*r)
	}

	for i := range out {
		g := &out[i]
		if !g.IsGrandTotal {
			continue
		}
		model.ZeroNumeric(g)
		for j := range out {
			s := &out[j]
			if s.IsSubtotal && !s.IsGrandTotal {
				model.AddConsolidated(g, s)
			}
		}
		*g = RecalcRates(*g)
	}

	return out
}

package calculator

import "ycreport/internal/model"

// ValidateRow 校验总表列的资料规则（用于导出前提示）
func ValidateRow(r *model.ConsolidatedRow) []string {
	if r == nil {
		return []string{}
	}

	errs := make([]string, 0, 4)

	for _, f := range model.ConsolidatedFields {
		if f.Numeric() && *f.Ptr(r) < 0 {
			errs = append(errs, "人数不能为负数: "+f.Name)
		}
	}
	if r.BapYouthTotal > r.BapAllTotal {
		errs = append(errs, "青年受浸不能超过全召會受浸")
	}
	if r.SunAllAvg > 0 && r.SunYAAvg > r.SunAllAvg {
		errs = append(errs, "主日青職平均不能超过全召會平均")
	}

	return errs
}

// ValidateRows 逐列校验召会列，返回 召会名 → 错误
func ValidateRows(rows []model.ConsolidatedRow) map[string][]string {
	out := make(map[string][]string)
	for i := range rows {
		r := &rows[i]
		if r.IsAggregate() || r.IsInert() {
			continue
		}
		if errs := ValidateRow(r); len(errs) > 0 {
			out[r.Name] = errs
		}
	}
	return out
}

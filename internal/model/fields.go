package model

// AggKind 栏位的聚合/合并策略
type AggKind string

const (
	AggSum       AggKind = "sum"       // 实际人数：跨来源相加
	AggMax       AggKind = "max"       // 目标/基数/手填排数：取较大值
	AggOverwrite AggKind = "overwrite" // 平均值：以较新的重算结果覆盖
	AggDerived   AggKind = "derived"   // 百分比：永远由同列推导
)

// FieldMeta 总表栏位元数据
// 数值栏位使用 Ptr，百分比栏位使用 Text
type FieldMeta struct {
	Name string
	Kind AggKind
	Ptr  func(r *ConsolidatedRow) *float64
	Text func(r *ConsolidatedRow) *string
}

// Numeric 是否为数值栏位
func (f FieldMeta) Numeric() bool {
	return f.Ptr != nil
}

func num(name string, kind AggKind, ptr func(r *ConsolidatedRow) *float64) FieldMeta {
	return FieldMeta{Name: name, Kind: kind, Ptr: ptr}
}

func rate(name string, text func(r *ConsolidatedRow) *string) FieldMeta {
	return FieldMeta{Name: name, Kind: AggDerived, Text: text}
}

// ConsolidatedFields 总表栏位表：建表、重算与合并共用同一份策略
var ConsolidatedFields = []FieldMeta{
	num("bap_ya_target", AggMax, func(r *ConsolidatedRow) *float64 { return &r.BapYATarget }),
	num("bap_ya_actual", AggSum, func(r *ConsolidatedRow) *float64 { return &r.BapYAActual }),
	num("bap_uni_target", AggMax, func(r *ConsolidatedRow) *float64 { return &r.BapUniTarget }),
	num("bap_uni_actual", AggSum, func(r *ConsolidatedRow) *float64 { return &r.BapUniActual }),
	num("bap_teen_target", AggMax, func(r *ConsolidatedRow) *float64 { return &r.BapTeenTarget }),
	num("bap_teen_actual", AggSum, func(r *ConsolidatedRow) *float64 { return &r.BapTeenActual }),
	num("bap_youth_goal", AggMax, func(r *ConsolidatedRow) *float64 { return &r.BapYouthGoal }),
	num("bap_youth_total", AggSum, func(r *ConsolidatedRow) *float64 { return &r.BapYouthTotal }),
	rate("bap_youth_rate", func(r *ConsolidatedRow) *string { return &r.BapYouthRate }),
	num("bap_other_actual", AggSum, func(r *ConsolidatedRow) *float64 { return &r.BapOtherActual }),
	num("bap_all_goal", AggMax, func(r *ConsolidatedRow) *float64 { return &r.BapAllGoal }),
	num("bap_all_total", AggSum, func(r *ConsolidatedRow) *float64 { return &r.BapAllTotal }),
	rate("bap_all_rate", func(r *ConsolidatedRow) *string { return &r.BapAllRate }),

	num("vis_ya_avg", AggOverwrite, func(r *ConsolidatedRow) *float64 { return &r.VisYAAvg }),
	rate("vis_ya_rate", func(r *ConsolidatedRow) *string { return &r.VisYARate }),
	num("vis_all_avg", AggOverwrite, func(r *ConsolidatedRow) *float64 { return &r.VisAllAvg }),
	rate("vis_all_rate", func(r *ConsolidatedRow) *string { return &r.VisAllRate }),
	num("home_ya_avg", AggOverwrite, func(r *ConsolidatedRow) *float64 { return &r.HomeYAAvg }),
	rate("home_ya_rate", func(r *ConsolidatedRow) *string { return &r.HomeYARate }),
	num("home_all_avg", AggOverwrite, func(r *ConsolidatedRow) *float64 { return &r.HomeAllAvg }),
	rate("home_all_rate", func(r *ConsolidatedRow) *string { return &r.HomeAllRate }),
	num("life_ya_avg", AggOverwrite, func(r *ConsolidatedRow) *float64 { return &r.LifeYAAvg }),
	rate("life_ya_rate", func(r *ConsolidatedRow) *string { return &r.LifeYARate }),
	num("life_all_avg", AggOverwrite, func(r *ConsolidatedRow) *float64 { return &r.LifeAllAvg }),
	rate("life_all_rate", func(r *ConsolidatedRow) *string { return &r.LifeAllRate }),

	num("grp_ya_avg", AggOverwrite, func(r *ConsolidatedRow) *float64 { return &r.GrpYAAvg }),
	num("grp_uni_cnt", AggMax, func(r *ConsolidatedRow) *float64 { return &r.GrpUniCnt }),
	num("grp_teen_cnt", AggMax, func(r *ConsolidatedRow) *float64 { return &r.GrpTeenCnt }),
	num("grp_teen_avg", AggOverwrite, func(r *ConsolidatedRow) *float64 { return &r.GrpTeenAvg }),
	num("grp_child_cnt", AggMax, func(r *ConsolidatedRow) *float64 { return &r.GrpChildCnt }),
	num("grp_child_w_avg", AggOverwrite, func(r *ConsolidatedRow) *float64 { return &r.GrpChildWAvg }),
	num("uni_house_cnt", AggMax, func(r *ConsolidatedRow) *float64 { return &r.UniHouseCnt }),

	num("sun_ya_base", AggMax, func(r *ConsolidatedRow) *float64 { return &r.SunYABase }),
	num("sun_ya_avg", AggOverwrite, func(r *ConsolidatedRow) *float64 { return &r.SunYAAvg }),
	rate("sun_ya_pct", func(r *ConsolidatedRow) *string { return &r.SunYAPct }),
	num("sun_uni_base", AggMax, func(r *ConsolidatedRow) *float64 { return &r.SunUniBase }),
	num("sun_uni_avg", AggOverwrite, func(r *ConsolidatedRow) *float64 { return &r.SunUniAvg }),
	num("sun_teen_base", AggMax, func(r *ConsolidatedRow) *float64 { return &r.SunTeenBase }),
	num("sun_teen_avg", AggOverwrite, func(r *ConsolidatedRow) *float64 { return &r.SunTeenAvg }),
	num("sun_child_base", AggMax, func(r *ConsolidatedRow) *float64 { return &r.SunChildBase }),
	num("sun_child_w_avg", AggOverwrite, func(r *ConsolidatedRow) *float64 { return &r.SunChildWAvg }),
	num("sun_all_base", AggMax, func(r *ConsolidatedRow) *float64 { return &r.SunAllBase }),
	num("sun_all_avg", AggOverwrite, func(r *ConsolidatedRow) *float64 { return &r.SunAllAvg }),
	rate("sun_all_yoy", func(r *ConsolidatedRow) *string { return &r.SunAllYoY }),

	num("cl_count", AggMax, func(r *ConsolidatedRow) *float64 { return &r.CLCount }),
}

var fieldIndex = func() map[string]FieldMeta {
	m := make(map[string]FieldMeta, len(ConsolidatedFields))
	for _, f := range ConsolidatedFields {
		m[f.Name] = f
	}
	return m
}()

// LookupField 按 JSON 栏位名查找元数据
func LookupField(name string) (FieldMeta, bool) {
	f, ok := fieldIndex[name]
	return f, ok
}

// IsTargetField 目标/基数类栏位（*_target / *_goal / *_base）
func IsTargetField(name string) bool {
	f, ok := fieldIndex[name]
	return ok && f.Kind == AggMax && name != "cl_count" && !isCountField(name)
}

func isCountField(name string) bool {
	n := len(name)
	return n > 4 && name[n-4:] == "_cnt"
}

// AddConsolidated 将 src 的数值栏位逐一加到 dst
func AddConsolidated(dst *ConsolidatedRow, src *ConsolidatedRow) {
	for _, f := range ConsolidatedFields {
		if f.Numeric() {
			*f.Ptr(dst) += *f.Ptr(src)
		}
	}
}

// ZeroNumeric 数值栏位归零
func ZeroNumeric(r *ConsolidatedRow) {
	for _, f := range ConsolidatedFields {
		if f.Numeric() {
			*f.Ptr(r) = 0
		}
	}
}

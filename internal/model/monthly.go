package model

// 汇总列名称
const (
	GrandTotalName = "合計"
	LastYearName   = "去年統計"
)

// SubtotalName 区域小计列名称
func SubtotalName(region string) string {
	return region + " 小計"
}

// MonthlyMetricRow 月报表：单一召会（或小计/合计）的当期统计
type MonthlyMetricRow struct {
	Name         string `json:"name"`
	Region       string `json:"region"`
	IsSubtotal   bool   `json:"isSubtotal,omitempty"`
	IsGrandTotal bool   `json:"isGrandTotal,omitempty"`

	// 指标 -> 计算过程说明（仅供稽核显示，不参与计算）
	Details map[string]string `json:"details,omitempty"`

	// 一、受浸人數
	BapRollCall float64 `json:"bap_roll_call"` // 今年受浸_小計
	BapOnline   float64 `json:"bap_online"`    // 線上表單
	BapChild    float64 `json:"bap_child"`
	BapTeen     float64 `json:"bap_teen"`
	BapUni      float64 `json:"bap_uni"`
	BapYA       float64 `json:"bap_ya"`

	// 二、主日
	SunChild float64 `json:"sun_child"`
	SunTeen  float64 `json:"sun_teen"`
	SunUni   float64 `json:"sun_uni"`
	SunYA    float64 `json:"sun_ya"`
	SunTotal float64 `json:"sun_total"`

	// 三、福音出訪
	GospelYA    float64 `json:"gospel_ya"`
	GospelTotal float64 `json:"gospel_total"`

	// 四、家聚會
	HomeYA    float64 `json:"home_ya"`
	HomeTotal float64 `json:"home_total"`

	// 五、生命讀經
	LifeTeen  float64 `json:"life_teen"`
	LifeUni   float64 `json:"life_uni"`
	LifeYA    float64 `json:"life_ya"`
	LifeTotal float64 `json:"life_total"`

	// 六、小排
	GroupChild float64 `json:"group_child"`
	GroupTeen  float64 `json:"group_teen"`
	GroupUni   float64 `json:"group_uni"`
	GroupYA    float64 `json:"group_ya"`
}

// NewMonthlyRow 零值占位列
func NewMonthlyRow(name, region string) MonthlyMetricRow {
	return MonthlyMetricRow{Name: name, Region: region, Details: map[string]string{}}
}

// MonthlyField 月报表数值栏位描述
type MonthlyField struct {
	Name string
	Ptr  func(r *MonthlyMetricRow) *float64
}

// MonthlyFields 月报表全部数值栏位（小计/合计按栏位逐一加总）
var MonthlyFields = []MonthlyField{
	{"bap_roll_call", func(r *MonthlyMetricRow) *float64 { return &r.BapRollCall }},
	{"bap_online", func(r *MonthlyMetricRow) *float64 { return &r.BapOnline }},
	{"bap_child", func(r *MonthlyMetricRow) *float64 { return &r.BapChild }},
	{"bap_teen", func(r *MonthlyMetricRow) *float64 { return &r.BapTeen }},
	{"bap_uni", func(r *MonthlyMetricRow) *float64 { return &r.BapUni }},
	{"bap_ya", func(r *MonthlyMetricRow) *float64 { return &r.BapYA }},
	{"sun_child", func(r *MonthlyMetricRow) *float64 { return &r.SunChild }},
	{"sun_teen", func(r *MonthlyMetricRow) *float64 { return &r.SunTeen }},
	{"sun_uni", func(r *MonthlyMetricRow) *float64 { return &r.SunUni }},
	{"sun_ya", func(r *MonthlyMetricRow) *float64 { return &r.SunYA }},
	{"sun_total", func(r *MonthlyMetricRow) *float64 { return &r.SunTotal }},
	{"gospel_ya", func(r *MonthlyMetricRow) *float64 { return &r.GospelYA }},
	{"gospel_total", func(r *MonthlyMetricRow) *float64 { return &r.GospelTotal }},
	{"home_ya", func(r *MonthlyMetricRow) *float64 { return &r.HomeYA }},
	{"home_total", func(r *MonthlyMetricRow) *float64 { return &r.HomeTotal }},
	{"life_teen", func(r *MonthlyMetricRow) *float64 { return &r.LifeTeen }},
	{"life_uni", func(r *MonthlyMetricRow) *float64 { return &r.LifeUni }},
	{"life_ya", func(r *MonthlyMetricRow) *float64 { return &r.LifeYA }},
	{"life_total", func(r *MonthlyMetricRow) *float64 { return &r.LifeTotal }},
	{"group_child", func(r *MonthlyMetricRow) *float64 { return &r.GroupChild }},
	{"group_teen", func(r *MonthlyMetricRow) *float64 { return &r.GroupTeen }},
	{"group_uni", func(r *MonthlyMetricRow) *float64 { return &r.GroupUni }},
	{"group_ya", func(r *MonthlyMetricRow) *float64 { return &r.GroupYA }},
}

// AddMonthly 将 src 的数值栏位逐一加到 dst
func AddMonthly(dst *MonthlyMetricRow, src *MonthlyMetricRow) {
	for _, f := range MonthlyFields {
		*f.Ptr(dst) += *f.Ptr(src)
	}
}

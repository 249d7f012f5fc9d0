package model

// ConsolidatedRow 总表：单一召会的目标/实际/衍生栏位
// 百分比栏位一律由同列其他栏位推导，不作为输入
type ConsolidatedRow struct {
	Name         string `json:"name"`
	Region       string `json:"region,omitempty"`
	IsSubtotal   bool   `json:"isSubtotal,omitempty"`
	IsGrandTotal bool   `json:"isGrandTotal,omitempty"`
	IsLastYear   bool   `json:"isLastYear,omitempty"`

	// 一、受浸人數
	BapYATarget    float64 `json:"bap_ya_target"`
	BapYAActual    float64 `json:"bap_ya_actual"`
	BapUniTarget   float64 `json:"bap_uni_target"`
	BapUniActual   float64 `json:"bap_uni_actual"`
	BapTeenTarget  float64 `json:"bap_teen_target"`
	BapTeenActual  float64 `json:"bap_teen_actual"`
	BapYouthGoal   float64 `json:"bap_youth_goal"`
	BapYouthTotal  float64 `json:"bap_youth_total"`
	BapYouthRate   string  `json:"bap_youth_rate"`
	BapOtherActual float64 `json:"bap_other_actual"`
	BapAllGoal     float64 `json:"bap_all_goal"`
	BapAllTotal    float64 `json:"bap_all_total"`
	BapAllRate     string  `json:"bap_all_rate"`

	// 二、福家及生命讀經
	VisYAAvg   float64 `json:"vis_ya_avg"`
	VisYARate  string  `json:"vis_ya_rate"`
	VisAllAvg  float64 `json:"vis_all_avg"`
	VisAllRate string  `json:"vis_all_rate"`

	HomeYAAvg   float64 `json:"home_ya_avg"`
	HomeYARate  string  `json:"home_ya_rate"`
	HomeAllAvg  float64 `json:"home_all_avg"`
	HomeAllRate string  `json:"home_all_rate"`

	LifeYAAvg   float64 `json:"life_ya_avg"`
	LifeYARate  string  `json:"life_ya_rate"`
	LifeAllAvg  float64 `json:"life_all_avg"`
	LifeAllRate string  `json:"life_all_rate"`

	// 三、小排與大學之家
	GrpYAAvg     float64 `json:"grp_ya_avg"`
	GrpUniCnt    float64 `json:"grp_uni_cnt"`
	GrpTeenCnt   float64 `json:"grp_teen_cnt"`
	GrpTeenAvg   float64 `json:"grp_teen_avg"`
	GrpChildCnt  float64 `json:"grp_child_cnt"`
	GrpChildWAvg float64 `json:"grp_child_w_avg"`
	UniHouseCnt  float64 `json:"uni_house_cnt"`

	// 四、主日聚會
	SunYABase     float64 `json:"sun_ya_base"`
	SunYAAvg      float64 `json:"sun_ya_avg"`
	SunYAPct      string  `json:"sun_ya_pct"`
	SunUniBase    float64 `json:"sun_uni_base"`
	SunUniAvg     float64 `json:"sun_uni_avg"`
	SunTeenBase   float64 `json:"sun_teen_base"`
	SunTeenAvg    float64 `json:"sun_teen_avg"`
	SunChildBase  float64 `json:"sun_child_base"`
	SunChildWAvg  float64 `json:"sun_child_w_avg"`
	SunAllBase    float64 `json:"sun_all_base"`
	SunAllAvg     float64 `json:"sun_all_avg"`
	SunAllYoY     string  `json:"sun_all_yoy"`
	SunAllDetails string  `json:"sun_all_avg_details,omitempty"`

	// 五、召會生活
	CLCount float64 `json:"cl_count"`
}

// IsAggregate 小计或合计列（由子列推导，不直接编辑或合并）
func (r *ConsolidatedRow) IsAggregate() bool {
	return r.IsSubtotal || r.IsGrandTotal
}

// IsInert 不参与重算与合并的列
func (r *ConsolidatedRow) IsInert() bool {
	return r.IsLastYear
}

// ZeroRate 除数为零时的百分比
const ZeroRate = "0.0%"

// NewConsolidatedRow 零值列（百分比初始化为 0.0%）
func NewConsolidatedRow(name, region string) ConsolidatedRow {
	row := ConsolidatedRow{Name: name, Region: region}
	for _, f := range ConsolidatedFields {
		if f.Kind == AggDerived {
			*f.Text(&row) = ZeroRate
		}
	}
	return row
}

package exporter

import "ycreport/internal/model"

// consolidatedLabels 总表栏位标题
var consolidatedLabels = map[string]string{
	"bap_ya_target":    "青職目標",
	"bap_ya_actual":    "青職實際",
	"bap_uni_target":   "大專目標",
	"bap_uni_actual":   "大專實際",
	"bap_teen_target":  "青少年目標",
	"bap_teen_actual":  "青少年實際",
	"bap_youth_goal":   "青年目標",
	"bap_youth_total":  "青年合計",
	"bap_youth_rate":   "青年達成率",
	"bap_other_actual": "其他實際",
	"bap_all_goal":     "全召會目標",
	"bap_all_total":    "全召會合計",
	"bap_all_rate":     "全召會達成率",
	"vis_ya_avg":       "福音出訪青職",
	"vis_ya_rate":      "福音出訪青職%",
	"vis_all_avg":      "福音出訪全召會",
	"vis_all_rate":     "福音出訪全召會%",
	"home_ya_avg":      "家聚會青職",
	"home_ya_rate":     "家聚會青職%",
	"home_all_avg":     "家聚會全召會",
	"home_all_rate":    "家聚會全召會%",
	"life_ya_avg":      "生命讀經青職",
	"life_ya_rate":     "生命讀經青職%",
	"life_all_avg":     "生命讀經全召會",
	"life_all_rate":    "生命讀經全召會%",
	"grp_ya_avg":       "青職排平均",
	"grp_uni_cnt":      "大專排數",
	"grp_teen_cnt":     "青少年排數",
	"grp_teen_avg":     "青少年排平均",
	"grp_child_cnt":    "兒童排數",
	"grp_child_w_avg":  "兒童排週平均",
	"uni_house_cnt":    "大學之家",
	"sun_ya_base":      "主日青職基數",
	"sun_ya_avg":       "主日青職平均",
	"sun_ya_pct":       "主日青職占比",
	"sun_uni_base":     "主日大專基數",
	"sun_uni_avg":      "主日大專平均",
	"sun_teen_base":    "主日青少年基數",
	"sun_teen_avg":     "主日青少年平均",
	"sun_child_base":   "主日兒童基數",
	"sun_child_w_avg":  "主日兒童週平均",
	"sun_all_base":     "主日全召會基數",
	"sun_all_avg":      "主日全召會平均",
	"sun_all_yoy":      "主日全召會年增",
	"cl_count":         "召會生活人數",
}

// monthlyLabels 月报表栏位标题
var monthlyLabels = map[string]string{
	"bap_roll_call": "今年受浸小計",
	"bap_online":    "線上受浸",
	"bap_child":     "受浸小學",
	"bap_teen":      "受浸中學",
	"bap_uni":       "受浸大專",
	"bap_ya":        "受浸青職",
	"sun_child":     "主日兒童",
	"sun_teen":      "主日中學",
	"sun_uni":       "主日大專",
	"sun_ya":        "主日青職",
	"sun_total":     "主日小計",
	"gospel_ya":     "福音出訪青職",
	"gospel_total":  "福音出訪小計",
	"home_ya":       "家聚會青職",
	"home_total":    "家聚會小計",
	"life_teen":     "生命讀經中學",
	"life_uni":      "生命讀經大專",
	"life_ya":       "生命讀經青職",
	"life_total":    "生命讀經小計",
	"group_child":   "兒童排",
	"group_teen":    "中學排",
	"group_uni":     "大專排",
	"group_ya":      "青職排",
}

func label(labels map[string]string, field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

// consolidatedValue 栏位值：数值或百分比字串
func consolidatedValue(f model.FieldMeta, r *model.ConsolidatedRow) any {
	if f.Numeric() {
		return *f.Ptr(r)
	}
	return *f.Text(r)
}

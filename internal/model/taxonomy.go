package model

// Region 区域及其下属召会（顺序即报表顺序）
type Region struct {
	Name     string   `json:"region" toml:"name"`
	Churches []string `json:"churches" toml:"churches"`
}

// Taxonomy 固定的区域/召会结构
type Taxonomy []Region

// Units 按报表顺序展开全部召会
func (t Taxonomy) Units() []string {
	var out []string
	for _, r := range t {
		out = append(out, r.Churches...)
	}
	return out
}

// RegionOf 查询召会所属区域
func (t Taxonomy) RegionOf(unit string) (string, bool) {
	for _, r := range t {
		for _, c := range r.Churches {
			if c == unit {
				return r.Name, true
			}
		}
	}
	return "", false
}

// ReportSettings 报表计算所需的静态配置
type ReportSettings struct {
	Taxonomy Taxonomy

	// 尚无观测值时的小排数预设（可被观测值或合并值覆盖）
	ChildGroupSeeds map[string]float64
	TeenGroupSeeds  map[string]float64

	// 有「其他」受浸人数时，全召會目标额外加上的名额
	OtherGoalAllowance float64
}

// DefaultTaxonomy 雲嘉各区召会
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{Name: "雲東區", Churches: []string{"斗六", "古坑", "林內", "西螺", "莿桐", "斗南"}},
		{Name: "雲西區", Churches: []string{"虎尾", "土庫", "北港", "口湖", "崙背", "褒忠", "二崙", "麥寮"}},
		{Name: "朴子區", Churches: []string{"朴子", "布袋", "鹿草", "太保", "水上"}},
		{Name: "嘉義區", Churches: []string{"嘉義", "梅山", "中埔", "竹崎", "番路"}},
		{Name: "民雄區", Churches: []string{"民雄", "六腳", "溪口", "大林", "新港"}},
	}
}

// DefaultChildGroupSeeds 兒童排数预设
func DefaultChildGroupSeeds() map[string]float64 {
	return map[string]float64{
		"斗六": 1, "古坑": 1, "林內": 1, "西螺": 1, "莿桐": 1, "斗南": 3,
		"虎尾": 0, "土庫": 1, "北港": 0, "口湖": 0, "崙背": 1, "褒忠": 0, "二崙": 0, "麥寮": 0,
		"朴子": 8, "布袋": 1, "鹿草": 0, "太保": 1, "水上": 1,
		"嘉義": 10, "梅山": 1, "中埔": 1, "竹崎": 2, "番路": 1,
		"民雄": 3, "六腳": 0, "溪口": 1, "大林": 0, "新港": 1,
	}
}

// DefaultTeenGroupSeeds 青少排数预设
func DefaultTeenGroupSeeds() map[string]float64 {
	return map[string]float64{
		"斗六": 1, "古坑": 0, "林內": 0, "西螺": 1, "莿桐": 0, "斗南": 1,
		"虎尾": 0, "土庫": 0, "北港": 0, "口湖": 0, "崙背": 1, "褒忠": 0, "二崙": 1, "麥寮": 0,
		"朴子": 3, "布袋": 0, "鹿草": 1, "太保": 1, "水上": 1,
		"嘉義": 8, "梅山": 0, "中埔": 1, "竹崎": 1, "番路": 3,
		"民雄": 1, "六腳": 0, "溪口": 1, "大林": 1, "新港": 1,
	}
}

// DefaultReportSettings 默认报表配置
func DefaultReportSettings() ReportSettings {
	return ReportSettings{
		Taxonomy:           DefaultTaxonomy(),
		ChildGroupSeeds:    DefaultChildGroupSeeds(),
		TeenGroupSeeds:     DefaultTeenGroupSeeds(),
		OtherGoalAllowance: 5,
	}
}

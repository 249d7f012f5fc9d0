package calculator

import (
	"reflect"
	"testing"

	"ycreport/internal/model"
)

func testSettings() model.ReportSettings {
	return model.ReportSettings{
		Taxonomy: model.Taxonomy{
			{Name: "雲東區", Churches: []string{"斗六", "古坑"}},
			{Name: "雲西區", Churches: []string{"虎尾"}},
		},
		ChildGroupSeeds:    map[string]float64{"斗六": 1},
		TeenGroupSeeds:     map[string]float64{"斗六": 2},
		OtherGoalAllowance: 5,
	}
}

// 斗六两周周报：受浸累计 3→5，青職 1→2，主日青職 10/20
func testRecords() []model.RawRecord {
	return []model.RawRecord{
		{model.KeySourceFile: "週報.xlsx", model.KeySheetName: "斗六", "名稱": "第1週", "主日_青職": 10, "今年受浸小計": 3, "今年受浸_青職": 1},
		{model.KeySourceFile: "週報.xlsx", model.KeySheetName: "斗六", "名稱": "第2週", "主日_青職": 20, "今年受浸小計": 5, "今年受浸_青職": 2},
	}
}

func findRow(t *testing.T, rows []model.ConsolidatedRow, name string) model.ConsolidatedRow {
	t.Helper()
	for _, r := range rows {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("row %s not found", name)
	return model.ConsolidatedRow{}
}

func TestMonthly(t *testing.T) {
	engine := NewEngine(testSettings())
	rows := engine.Monthly(testRecords())

	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	wantNames := []string{"斗六", "古坑", "雲東區 小計", "虎尾", "雲西區 小計", "合計"}
	if !reflect.DeepEqual(names, wantNames) {
		t.Fatalf("names = %v, want %v", names, wantNames)
	}

	douliu := rows[0]
	if !floatEquals(douliu.SunYA, 15) {
		t.Errorf("SunYA = %v, want 15", douliu.SunYA)
	}
	if !floatEquals(douliu.BapRollCall, 5) {
		t.Errorf("BapRollCall = %v, want 5", douliu.BapRollCall)
	}
	if !floatEquals(douliu.BapYA, 2) {
		t.Errorf("BapYA = %v, want 2", douliu.BapYA)
	}
	// 无主日合计栏位时由各年龄层加总
	if !floatEquals(douliu.SunTotal, 15) {
		t.Errorf("SunTotal = %v, want 15", douliu.SunTotal)
	}
	if rows[1].SunYA != 0 {
		t.Errorf("placeholder SunYA = %v, want 0", rows[1].SunYA)
	}
	if !floatEquals(rows[2].SunYA, 15) || !floatEquals(rows[5].SunYA, 15) {
		t.Errorf("subtotal/grand SunYA = %v/%v, want 15", rows[2].SunYA, rows[5].SunYA)
	}
	if !rows[5].IsGrandTotal {
		t.Errorf("last row should be grand total")
	}
}

func TestMonthlyTotalsFallBackToComponents(t *testing.T) {
	e := NewEngine(testSettings())
	records := []model.RawRecord{
		{model.KeySourceFile: "虎尾.xlsx", "名稱": "虎尾", "福音出訪_青職": 4, "家聚會出訪_青職": 6,
			"生命讀經_中學": 1, "生命讀經_大專": 2, "生命讀經_青職": 3},
	}

	monthly := e.Monthly(records)
	var row *model.MonthlyMetricRow
	for i := range monthly {
		if monthly[i].Name == "虎尾" {
			row = &monthly[i]
		}
	}
	if row == nil {
		t.Fatalf("row 虎尾 missing")
	}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"gospel_total", row.GospelTotal, 4},
		{"home_total", row.HomeTotal, 6},
		{"life_total", row.LifeTotal, 6},
	}
	for _, tt := range tests {
		if !floatEquals(tt.got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestConsolidate(t *testing.T) {
	engine := NewEngine(testSettings())
	rows := engine.Consolidate(testRecords(), nil)

	if len(rows) != 7 {
		t.Fatalf("len(rows) = %d, want 7", len(rows))
	}
	if !rows[6].IsLastYear || rows[6].Name != model.LastYearName {
		t.Fatalf("last row = %+v, want last-year row", rows[6])
	}

	douliu := findRow(t, rows, "斗六")
	if !floatEquals(douliu.BapYAActual, 2) || !floatEquals(douliu.BapYouthTotal, 2) {
		t.Errorf("youth = %v/%v, want 2/2", douliu.BapYAActual, douliu.BapYouthTotal)
	}
	if !floatEquals(douliu.BapOtherActual, 3) || !floatEquals(douliu.BapAllTotal, 5) {
		t.Errorf("other/all = %v/%v, want 3/5", douliu.BapOtherActual, douliu.BapAllTotal)
	}
	if !floatEquals(douliu.BapAllGoal, 5) || douliu.BapAllRate != "100.0%" {
		t.Errorf("all goal/rate = %v/%s, want 5/100.0%%", douliu.BapAllGoal, douliu.BapAllRate)
	}
	if douliu.BapYouthRate != "0.0%" {
		t.Errorf("BapYouthRate = %s, want 0.0%%", douliu.BapYouthRate)
	}
	if douliu.SunYAPct != "100.0%" {
		t.Errorf("SunYAPct = %s, want 100.0%%", douliu.SunYAPct)
	}
	if !floatEquals(douliu.GrpChildCnt, 1) || !floatEquals(douliu.GrpTeenCnt, 2) {
		t.Errorf("group seeds = %v/%v, want 1/2", douliu.GrpChildCnt, douliu.GrpTeenCnt)
	}
	if douliu.SunAllDetails == "" {
		t.Errorf("expected sun_all_avg_details trace")
	}

	grand := findRow(t, rows, model.GrandTotalName)
	if !floatEquals(grand.BapAllTotal, 5) || !floatEquals(grand.BapAllGoal, 5) {
		t.Errorf("grand all = %v/%v, want 5/5", grand.BapAllTotal, grand.BapAllGoal)
	}
}

func TestConsolidatePlaceholders(t *testing.T) {
	engine := NewEngine(testSettings())
	rows := engine.Consolidate(nil, nil)

	wantNames := []string{"斗六", "古坑", "雲東區 小計", "虎尾", "雲西區 小計", "合計", "去年統計"}
	if len(rows) != len(wantNames) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(wantNames))
	}
	for i, r := range rows {
		if r.Name != wantNames[i] {
			t.Errorf("rows[%d] = %s, want %s", i, r.Name, wantNames[i])
		}
		if r.BapAllTotal != 0 || r.SunAllYoY != model.ZeroRate {
			t.Errorf("rows[%d] not zero-filled: %+v", i, r)
		}
	}
}

func TestUnknownUnits(t *testing.T) {
	engine := NewEngine(testSettings())
	rows := []model.ConsolidatedRow{
		model.NewConsolidatedRow("斗六", ""),
		model.NewConsolidatedRow("北港", "雲西區"),
		subtotalRow("雲東區"),
		grandTotalRow(),
	}
	got := engine.UnknownUnits(rows)
	if len(got) != 1 || got[0] != "北港" {
		t.Errorf("UnknownUnits() = %v, want [北港]", got)
	}
	if got := engine.UnknownUnits(nil); len(got) != 0 {
		t.Errorf("UnknownUnits(nil) = %v", got)
	}
}

func TestConsolidateLegacyOnly(t *testing.T) {
	engine := NewEngine(testSettings())

	legacy := model.NewConsolidatedRow("斗六", "雲東區")
	legacy.BapYATarget = 4
	legacy.BapYouthGoal = 4
	legacy.BapYAActual = 3
	legacy.BapYouthTotal = 3
	legacy.BapAllTotal = 3
	lastYear := model.NewConsolidatedRow(model.LastYearName, "")
	lastYear.IsLastYear = true
	lastYear.BapAllTotal = 99

	rows := engine.Consolidate(nil, []model.ConsolidatedRow{legacy, lastYear})

	douliu := findRow(t, rows, "斗六")
	if !floatEquals(douliu.BapYATarget, 4) || douliu.BapYouthRate != "75.0%" {
		t.Errorf("legacy row = %v/%s, want 4/75.0%%", douliu.BapYATarget, douliu.BapYouthRate)
	}
	findRow(t, rows, "古坑")

	sub := findRow(t, rows, "雲東區 小計")
	if !floatEquals(sub.BapYATarget, 4) {
		t.Errorf("subtotal target = %v, want 4", sub.BapYATarget)
	}
	if got := rows[len(rows)-1]; !got.IsLastYear || got.BapAllTotal != 99 {
		t.Errorf("last-year row not carried over: %+v", got)
	}
}

func TestConsolidateReconcilesLegacy(t *testing.T) {
	engine := NewEngine(testSettings())

	douliu := model.NewConsolidatedRow("斗六", "雲東區")
	douliu.BapYATarget = 10
	gukeng := model.NewConsolidatedRow("古坑", "雲東區")
	gukeng.SunYAAvg = 7

	rows := engine.Consolidate(testRecords(), []model.ConsolidatedRow{douliu, gukeng})

	got := findRow(t, rows, "斗六")
	if !floatEquals(got.BapYATarget, 10) || !floatEquals(got.BapYouthGoal, 10) {
		t.Errorf("target/goal = %v/%v, want 10/10", got.BapYATarget, got.BapYouthGoal)
	}
	if !floatEquals(got.BapYAActual, 2) || got.BapYouthRate != "20.0%" {
		t.Errorf("actual/rate = %v/%s, want 2/20.0%%", got.BapYAActual, got.BapYouthRate)
	}
	if g := findRow(t, rows, "古坑"); !floatEquals(g.SunYAAvg, 7) {
		t.Errorf("古坑 SunYAAvg = %v, want legacy 7", g.SunYAAvg)
	}
	if sub := findRow(t, rows, "雲東區 小計"); !floatEquals(sub.SunYAAvg, 22) {
		t.Errorf("subtotal SunYAAvg = %v, want 22", sub.SunYAAvg)
	}
}

func TestRecalculateSubtotals(t *testing.T) {
	engine := NewEngine(testSettings())
	rows := engine.Skeleton()
	rows[0].SunAllAvg = 10
	rows[1].SunAllAvg = 5
	rows[3].SunAllAvg = 20
	rows[2].SunAllAvg = 1000 // 错误的小计值应被覆盖

	lastYear := model.NewConsolidatedRow(model.LastYearName, "雲東區")
	lastYear.IsLastYear = true
	lastYear.SunAllAvg = 500
	rows = append(rows, lastYear)

	out := RecalculateSubtotals(rows)
	if !floatEquals(out[2].SunAllAvg, 15) {
		t.Errorf("雲東區 小計 = %v, want 15", out[2].SunAllAvg)
	}
	if !floatEquals(out[4].SunAllAvg, 20) {
		t.Errorf("雲西區 小計 = %v, want 20", out[4].SunAllAvg)
	}
	if !floatEquals(out[5].SunAllAvg, 35) {
		t.Errorf("合計 = %v, want 35", out[5].SunAllAvg)
	}
	if rows[2].SunAllAvg != 1000 {
		t.Errorf("input slice modified")
	}

	again := RecalculateSubtotals(out)
	if !reflect.DeepEqual(out, again) {
		t.Errorf("RecalculateSubtotals not idempotent")
	}
}

func TestCalcRate(t *testing.T) {
	tests := []struct {
		name        string
		numerator   float64
		denominator float64
		expected    string
	}{
		{"除数为零", 5, 0, "0.0%"},
		{"整除", 1, 2, "50.0%"},
		{"循环小数", 1, 3, "33.3%"},
		{"进位", 2, 3, "66.7%"},
		{"五入", 1, 16, "6.3%"},
		{"超过百分百", 3, 2, "150.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calcRate(tt.numerator, tt.denominator); got != tt.expected {
				t.Errorf("calcRate(%v, %v) = %s, want %s", tt.numerator, tt.denominator, got, tt.expected)
			}
		})
	}
}

func TestMonthlyFromConsolidated(t *testing.T) {
	engine := NewEngine(testSettings())
	row := model.NewConsolidatedRow("虎尾", "雲西區")
	row.SunAllAvg = 40
	row.BapAllTotal = 6

	monthly := engine.MonthlyFromConsolidated([]model.ConsolidatedRow{row})
	if len(monthly) != 6 {
		t.Fatalf("len = %d, want 6", len(monthly))
	}
	if !floatEquals(monthly[3].SunTotal, 40) || !floatEquals(monthly[3].BapRollCall, 6) {
		t.Errorf("虎尾 = %+v", monthly[3])
	}
	if !floatEquals(monthly[5].SunTotal, 40) {
		t.Errorf("合計 SunTotal = %v, want 40", monthly[5].SunTotal)
	}
}

// floatEquals 浮点数近似相等判断
func floatEquals(a, b float64) bool {
	const epsilon = 1e-9
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}

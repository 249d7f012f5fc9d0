package calculator

import (
	"testing"

	"ycreport/internal/model"
)

func rec(file string, label string, v float64) model.RawRecord {
	return model.RawRecord{model.KeySourceFile: file, "名稱": label, "主日_青職": v}
}

func TestSelectRepresentativeRowsPriority(t *testing.T) {
	tests := []struct {
		name string
		rows []model.RawRecord
		want []float64
	}{
		{
			name: "召会合计列优先",
			rows: []model.RawRecord{rec("A", "斗六", 1), rec("A", "斗六 小計", 2), rec("A", "合計", 3)},
			want: []float64{2},
		},
		{
			name: "单纯合计列",
			rows: []model.RawRecord{rec("A", "第一週", 1), rec("A", "合計", 9)},
			want: []float64{9},
		},
		{
			name: "召会名列排除分区",
			rows: []model.RawRecord{rec("A", "斗六一區", 1), rec("A", "斗六", 2), rec("A", "斗六家", 3)},
			want: []float64{2, 3},
		},
		{
			name: "最后一列",
			rows: []model.RawRecord{rec("A", "x", 1), rec("A", "y", 4)},
			want: []float64{4},
		},
		{
			name: "每个文件各自挑选",
			rows: []model.RawRecord{rec("A", "合計", 5), rec("B", "x", 6), rec("A", "x", 7), rec("B", "y", 8)},
			want: []float64{5, 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectRepresentativeRows(tt.rows, "斗六")
			if len(got) != len(tt.want) {
				t.Fatalf("got %d rows, want %d", len(got), len(tt.want))
			}
			for i, r := range got {
				v, _ := r.Number("主日_青職")
				if !floatEquals(v, tt.want[i]) {
					t.Errorf("row %d = %v, want %v", i, v, tt.want[i])
				}
			}
		})
	}
}

func TestSelectDistrictUnit(t *testing.T) {
	rows := []model.RawRecord{rec("A", "斗六一區", 1), rec("A", "其他", 2)}
	got := SelectRepresentativeRows(rows, "斗六一區")
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if v, _ := got[0].Number("主日_青職"); v != 1 {
		t.Fatalf("selected %v, want 1", v)
	}
}

func TestSelectDistrictJudgedOnRowLabel(t *testing.T) {
	tests := []struct {
		name string
		unit string
		rows []model.RawRecord
		want []float64
	}{
		{
			name: "文件名含召会名，分区列仍排除",
			unit: "斗六",
			rows: []model.RawRecord{
				rec("斗六週報.xlsx", "斗六一區", 10),
				rec("斗六週報.xlsx", "斗六二區", 12),
				rec("斗六週報.xlsx", "斗六", 30),
			},
			want: []float64{30},
		},
		{
			name: "文件名含區，召会列不被排除",
			unit: "嘉義",
			rows: []model.RawRecord{
				rec("嘉義區週報.xlsx", "嘉義", 40),
				rec("嘉義區週報.xlsx", "嘉義", 50),
				rec("嘉義區週報.xlsx", "備註", 0),
			},
			want: []float64{40, 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectRepresentativeRows(tt.rows, tt.unit)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d rows, want %d", len(got), len(tt.want))
			}
			for i, r := range got {
				if v, _ := r.Number("主日_青職"); !floatEquals(v, tt.want[i]) {
					t.Errorf("row %d = %v, want %v", i, v, tt.want[i])
				}
			}
			ex := Extract(got, []string{"主日_青職"}, ModeAvg)
			var sum float64
			for _, w := range tt.want {
				sum += w
			}
			if !floatEquals(ex.Value, sum/float64(len(tt.want))) {
				t.Errorf("extracted %v", ex.Value)
			}
		})
	}
}

func TestCellTextsProvenanceLast(t *testing.T) {
	r := model.RawRecord{model.KeySourceFile: "斗六週報.xlsx", model.KeySheetName: "一月", "名稱": "斗六一區"}
	texts := r.CellTexts()
	if len(texts) != 3 || texts[0] != "斗六一區" || texts[2] != "一月" {
		t.Errorf("cell texts = %v", texts)
	}
	cells := r.StringCells()
	if cells[0] != "斗六一區" || cells[1] != "斗六週報.xlsx" {
		t.Errorf("string cells = %v", cells)
	}
}

func TestUnitMatcher(t *testing.T) {
	m := NewUnitMatcher(model.Taxonomy{{Name: "民雄區", Churches: []string{"民雄", "民雄東", "大林"}}})

	amb := m.Ambiguities()
	if len(amb) != 1 || amb[0].Short != "民雄" || amb[0].Long != "民雄東" {
		t.Fatalf("Ambiguities = %v", amb)
	}

	exact := model.RawRecord{"名稱": " 大林 "}
	if got := m.Match(exact, "大林"); got != MatchExact {
		t.Errorf("Match exact = %v", got)
	}
	sub := model.RawRecord{model.KeySourceFile: "大林週報.xlsx"}
	if got := m.Match(sub, "大林"); got != MatchSubstring {
		t.Errorf("Match substring = %v", got)
	}
	if got := m.Match(sub, "民雄"); got != MatchNone {
		t.Errorf("Match none = %v", got)
	}

	got := m.Filter([]model.RawRecord{exact, sub, {"名稱": "民雄"}}, "大林")
	if len(got) != 2 {
		t.Fatalf("Filter = %d rows, want 2", len(got))
	}
}

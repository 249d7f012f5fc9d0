package exporter

import (
	"testing"

	"ycreport/internal/model"
	"ycreport/internal/service/calculator"
)

func testDocument() (model.ProjectDocument, []model.MonthlyMetricRow) {
	engine := calculator.NewEngine(model.ReportSettings{
		Taxonomy: model.Taxonomy{{Name: "雲東區", Churches: []string{"斗六", "古坑"}}},
	})
	records := []model.RawRecord{
		{model.KeySourceFile: "a.xlsx", "名稱": "斗六", "主日_青職": 12.0},
	}
	rows := engine.Consolidate(records, nil)
	return model.ProjectDocument{Title: "十月報表", MasterData: rows, RawData: records}, engine.Monthly(records)
}

func TestExportWorkbook(t *testing.T) {
	doc, monthly := testDocument()

	var stages []string
	f, err := NewExporter("").Export(doc, monthly, ExportOptions{
		IncludeRaw: true,
		Progress:   func(ev ProgressEvent) { stages = append(stages, ev.Stage) },
	})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	sheets := f.GetSheetList()
	want := map[string]bool{SheetConsolidated: true, SheetMonthly: true, SheetRaw: true}
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v", sheets)
	}
	for _, s := range sheets {
		if !want[s] {
			t.Errorf("unexpected sheet %s", s)
		}
	}

	title, _ := f.GetCellValue(SheetConsolidated, "A1")
	if title != "十月報表" {
		t.Errorf("title = %q", title)
	}
	name, _ := f.GetCellValue(SheetConsolidated, cellName(2, dataRow))
	if name != "斗六" {
		t.Errorf("first unit = %q", name)
	}

	// 主日青職平均栏位
	col := 0
	for i, fm := range model.ConsolidatedFields {
		if fm.Name == "sun_ya_avg" {
			col = 3 + i
		}
	}
	v, _ := f.GetCellValue(SheetConsolidated, cellName(col, dataRow))
	if v != "12" {
		t.Errorf("sun_ya_avg cell = %q, want 12", v)
	}

	last, _ := f.GetCellValue(SheetConsolidated, cellName(2, dataRow+len(doc.MasterData)-1))
	if last != model.LastYearName {
		t.Errorf("last row = %q", last)
	}

	src, _ := f.GetCellValue(SheetRaw, "A2")
	if src != "a.xlsx" {
		t.Errorf("raw source = %q", src)
	}

	if len(stages) == 0 || stages[len(stages)-1] != "完成" {
		t.Errorf("progress stages = %v", stages)
	}
}

func TestExportWithoutRaw(t *testing.T) {
	doc, monthly := testDocument()
	f, err := NewExporter("").Export(doc, monthly, ExportOptions{Title: "覆蓋"})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	if idx, _ := f.GetSheetIndex(SheetRaw); idx >= 0 {
		t.Errorf("raw sheet should not exist")
	}
	title, _ := f.GetCellValue(SheetMonthly, "A1")
	if title != "覆蓋" {
		t.Errorf("title = %q", title)
	}
}

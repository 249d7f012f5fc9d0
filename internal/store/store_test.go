package store

import (
	"errors"
	"path/filepath"
	"testing"

	"ycreport/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "ycreport.db"))
	if err != nil {
		t.Fatalf("open store failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDocumentRoundTrip(t *testing.T) {
	s := newTestStore(t)

	p, err := s.CreateProject("demo", "雲嘉")
	if err != nil {
		t.Fatalf("create project failed: %v", err)
	}

	row := model.NewConsolidatedRow("斗六", "雲東區")
	row.BapYATarget = 3
	row.SunAllDetails = "trace"
	doc := model.ProjectDocument{
		Title:      "雲嘉 十月",
		MasterData: []model.ConsolidatedRow{row},
		RawData: []model.RawRecord{
			{model.KeySourceFile: "a.xlsx", model.KeySheetName: "斗六", "主日_青職": 12},
			{model.KeySourceFile: "b.xlsx", "主日_青職": "8"},
		},
	}
	if err := s.SaveDocument(p.ID, doc); err != nil {
		t.Fatalf("save document failed: %v", err)
	}

	got, err := s.LoadDocument(p.ID)
	if err != nil {
		t.Fatalf("load document failed: %v", err)
	}
	if got.Title != "雲嘉 十月" || got.Version != model.DocumentVersion {
		t.Errorf("title/version = %q/%q", got.Title, got.Version)
	}
	if len(got.RawData) != 2 || got.RawData[1].SourceFile() != "b.xlsx" {
		t.Fatalf("raw data = %v", got.RawData)
	}
	if v, ok := got.RawData[0].Number("主日_青職"); !ok || v != 12 {
		t.Errorf("raw value = %v, %v", v, ok)
	}
	if len(got.MasterData) != 1 || got.MasterData[0].BapYATarget != 3 || got.MasterData[0].SunAllDetails != "trace" {
		t.Errorf("master data = %+v", got.MasterData)
	}

	// 再次保存为覆盖而非追加
	doc.RawData = doc.RawData[:1]
	if err := s.SaveDocument(p.ID, doc); err != nil {
		t.Fatalf("save document failed: %v", err)
	}
	list, err := s.ListProjects()
	if err != nil {
		t.Fatalf("list projects failed: %v", err)
	}
	if len(list) != 1 || list[0].RecordCount != 1 || list[0].RowCount != 1 || !list[0].HasData() {
		t.Errorf("projects = %+v", list)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	s := newTestStore(t)

	p, err := s.CreateProject("demo", "")
	if err != nil {
		t.Fatalf("create project failed: %v", err)
	}
	doc := model.ProjectDocument{RawData: []model.RawRecord{{"x": 1}}}
	if err := s.SaveDocument(p.ID, doc); err != nil {
		t.Fatalf("save document failed: %v", err)
	}

	if err := s.DeleteProject(p.ID); err != nil {
		t.Fatalf("delete project failed: %v", err)
	}
	if _, err := s.GetProject(p.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("err = %v, want ErrProjectNotFound", err)
	}
	if err := s.DeleteProject(p.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("err = %v, want ErrProjectNotFound", err)
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM raw_records`).Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("raw_records left: %d", n)
	}
}

func TestSaveDocumentUnknownProject(t *testing.T) {
	s := newTestStore(t)
	err := s.SaveDocument("p_missing", model.ProjectDocument{})
	if !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("err = %v, want ErrProjectNotFound", err)
	}
}

func TestConfigAndImportLogs(t *testing.T) {
	s := newTestStore(t)

	if got := s.GetActiveProject(); got != "" {
		t.Errorf("active project = %q, want empty", got)
	}
	if err := s.SetActiveProject("p_1"); err != nil {
		t.Fatalf("set active project failed: %v", err)
	}
	if err := s.SetActiveProject("p_2"); err != nil {
		t.Fatalf("set active project failed: %v", err)
	}
	if got := s.GetActiveProject(); got != "p_2" {
		t.Errorf("active project = %q, want p_2", got)
	}

	id, err := s.CreateImportLog("p_2", "週報.xlsx", ImportKindXlsx, 10)
	if err != nil {
		t.Fatalf("create import log failed: %v", err)
	}
	if err := s.UpdateImportLog(id, 9, 1, "completed", ""); err != nil {
		t.Fatalf("update import log failed: %v", err)
	}

	logs, err := s.ListImportLogs("p_2", 10)
	if err != nil {
		t.Fatalf("list import logs failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(logs))
	}
	got := logs[0]
	if got.FileName != "週報.xlsx" || got.ImportedRows != 9 || got.LegacyRows != 1 || got.Status != "completed" {
		t.Errorf("log = %+v", got)
	}
	if got.CompletedAt == nil {
		t.Errorf("completedAt should be set")
	}
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"ycreport/internal/service/project"
)

const testConfig = `
[report]
title = "測試報表"
other_goal_allowance = 5

[[report.regions]]
name = "雲東區"
churches = ["斗六", "古坑"]
`

func setupCtl(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(testConfig), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func runCtl(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", filepath.Join(dir, "config.toml")}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeRecords(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write records: %v", err)
	}
	return path
}

func TestBuildMergeExport(t *testing.T) {
	dir := setupCtl(t)
	a := writeRecords(t, dir, "a.json", `[{"名稱":"斗六","主日_青職":10}]`)
	b := writeRecords(t, dir, "b.json", `[{"名稱":"古坑","主日_青職":6}]`)

	docA := filepath.Join(dir, "a.doc.json")
	docB := filepath.Join(dir, "b.doc.json")
	if _, err := runCtl(t, dir, "build", a, "-o", docA); err != nil {
		t.Fatalf("build a: %v", err)
	}
	if _, err := runCtl(t, dir, "build", b, "-o", docB); err != nil {
		t.Fatalf("build b: %v", err)
	}

	built, err := project.ReadDocumentFile(docA)
	if err != nil {
		t.Fatalf("read built: %v", err)
	}
	if built.Title != "測試報表" {
		t.Errorf("title = %q", built.Title)
	}
	if len(built.RawData) != 1 || built.RawData[0].SourceFile() != "a.json" {
		t.Errorf("raw data = %v", built.RawData)
	}

	merged := filepath.Join(dir, "merged.json")
	if _, err := runCtl(t, dir, "merge", docA, docB, "-o", merged); err != nil {
		t.Fatalf("merge: %v", err)
	}
	doc, err := project.ReadDocumentFile(merged)
	if err != nil {
		t.Fatalf("read merged: %v", err)
	}
	if len(doc.RawData) != 2 {
		t.Fatalf("merged raw = %d, want 2", len(doc.RawData))
	}
	got := map[string]float64{}
	for _, r := range doc.MasterData {
		got[r.Name] = r.SunYAAvg
	}
	if got["斗六"] != 10 || got["古坑"] != 6 {
		t.Errorf("merged averages = %v", got)
	}
	if got["雲東區 小計"] != 16 {
		t.Errorf("subtotal = %v, want 16", got["雲東區 小計"])
	}

	xlsx := filepath.Join(dir, "out.xlsx")
	out, err := runCtl(t, dir, "export", merged, "-o", xlsx, "--raw")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "out.xlsx") {
		t.Errorf("output = %q", out)
	}
	f, err := excelize.OpenFile(xlsx)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	if len(f.GetSheetList()) != 3 {
		t.Errorf("sheets = %v", f.GetSheetList())
	}
}

func TestValidateReportsViolations(t *testing.T) {
	dir := setupCtl(t)
	// 青年受浸多于全召會受浸
	docPath := writeRecords(t, dir, "bad.json", `{
		"title": "t",
		"version": "2.0",
		"rawData": [],
		"masterData": [{"name": "斗六", "region": "雲東區", "bap_youth_total": 5, "bap_all_total": 1}]
	}`)

	out, err := runCtl(t, dir, "validate", docPath)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(out, "斗六") {
		t.Errorf("output = %q", out)
	}
}

func TestBuildRequiresInput(t *testing.T) {
	dir := setupCtl(t)
	if _, err := runCtl(t, dir, "build"); err == nil {
		t.Fatalf("expected args error")
	}
}

package parser

import "time"

// SheetResult 单一工作表的解析结果
type SheetResult struct {
	SheetName    string   `json:"sheetName"`
	Status       string   `json:"status"` // imported/skipped
	TotalRows    int      `json:"totalRows"`
	ImportedRows int      `json:"importedRows"`
	Errors       []string `json:"errors,omitempty"`
}

// ImportReport 匯入报告
type ImportReport struct {
	Filename       string        `json:"filename"`
	TotalSheets    int           `json:"totalSheets"`
	ImportedSheets int           `json:"importedSheets"`
	SkippedSheets  int           `json:"skippedSheets"`
	TotalRows      int           `json:"totalRows"`
	ImportedRows   int           `json:"importedRows"`
	LegacyRows     int           `json:"legacyRows"`
	Duration       time.Duration `json:"duration"`
	Sheets         []SheetResult `json:"sheets"`
}

const (
	statusImported = "imported"
	statusSkipped  = "skipped"
)

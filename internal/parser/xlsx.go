package parser

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"ycreport/internal/model"
)

// ReadWorkbook 读取平面工作簿：每个工作表第一行为表头，其余每行为一笔原始记录
// 每笔记录带上来源报表与工作表名称
func ReadWorkbook(r io.Reader, fileName string) ([]model.RawRecord, *ImportReport, error) {
	start := time.Now()

	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	report := &ImportReport{Filename: fileName}
	var records []model.RawRecord

	for _, sheet := range file.GetSheetList() {
		report.TotalSheets++

		rows, err := file.GetRows(sheet)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}

		res := SheetResult{SheetName: sheet, TotalRows: max(len(rows)-1, 0)}
		if len(rows) < 2 {
			res.Status = statusSkipped
			res.Errors = append(res.Errors, "sheet has no data rows")
			report.SkippedSheets++
			report.Sheets = append(report.Sheets, res)
			continue
		}

		// 第一行是表头
		headers := make([]string, len(rows[0]))
		for i, h := range rows[0] {
			headers[i] = NormalizeColumnName(h)
		}

		for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
			rec := parseRow(rows[rowIdx], headers)
			if rec == nil {
				continue
			}
			rec[model.KeySourceFile] = fileName
			rec[model.KeySheetName] = sheet
			records = append(records, rec)
			res.ImportedRows++
		}

		res.Status = statusImported
		report.ImportedSheets++
		report.TotalRows += res.TotalRows
		report.ImportedRows += res.ImportedRows
		report.Sheets = append(report.Sheets, res)
	}

	report.Duration = time.Since(start)
	return records, report, nil
}

// parseRow 解析单行；空行返回 nil
func parseRow(row []string, headers []string) model.RawRecord {
	rec := model.RawRecord{}
	for i, cell := range row {
		if i >= len(headers) || headers[i] == "" {
			continue
		}
		if _, dup := rec[headers[i]]; dup {
			continue
		}
		if v := cellValue(cell); v != nil {
			rec[headers[i]] = v
		}
	}
	if len(rec) == 0 {
		return nil
	}
	return rec
}

package exporter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"ycreport/internal/model"
)

// 工作表名称
const (
	SheetConsolidated = "總表"
	SheetMonthly      = "月報表"
	SheetRaw          = "原始資料"
)

// 第一列为标题，第二列为栏位名，数据从第三列开始
const (
	titleRow  = 1
	headerRow = 2
	dataRow   = 3
)

// Exporter 报表导出器
//
// 配置了模板时以模板为底（保留其他 sheet 与样式），否则建立新工作簿。
type Exporter struct {
	templatePath string
}

// NewExporter 创建导出器
func NewExporter(templatePath string) *Exporter {
	return &Exporter{templatePath: templatePath}
}

// ProgressEvent 导出进度
type ProgressEvent struct {
	Percent int
	Stage   string
}

// ExportOptions 导出选项
type ExportOptions struct {
	Title      string
	IncludeRaw bool
	Progress   func(ProgressEvent)
}

func (o ExportOptions) report(percent int, stage string) {
	if o.Progress != nil {
		o.Progress(ProgressEvent{Percent: min(max(percent, 0), 100), Stage: stage})
	}
}

// Export 导出总表、月报表（与可选的原始资料）
func (e *Exporter) Export(doc model.ProjectDocument, monthly []model.MonthlyMetricRow, opts ExportOptions) (*excelize.File, error) {
	f, err := e.openWorkbook()
	if err != nil {
		return nil, err
	}

	title := opts.Title
	if title == "" {
		title = doc.Title
	}

	opts.report(10, "总表")
	if err := writeConsolidatedSheet(f, title, doc.MasterData); err != nil {
		_ = f.Close()
		return nil, err
	}

	opts.report(50, "月报表")
	if err := writeMonthlySheet(f, title, monthly); err != nil {
		_ = f.Close()
		return nil, err
	}

	if opts.IncludeRaw {
		opts.report(80, "原始资料")
		if err := writeRawSheet(f, doc.RawData); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	// 新工作簿预设的空白 Sheet1
	if idx, _ := f.GetSheetIndex("Sheet1"); idx >= 0 && e.templatePath == "" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	if idx, err := f.GetSheetIndex(SheetConsolidated); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	opts.report(100, "完成")
	return f, nil
}

func (e *Exporter) openWorkbook() (*excelize.File, error) {
	if p := strings.TrimSpace(e.templatePath); p != "" {
		f, err := excelize.OpenFile(p)
		if err != nil {
			return nil, fmt.Errorf("打开模板失败: %w", err)
		}
		return f, nil
	}
	return excelize.NewFile(), nil
}

// resetSheet 建立或清空工作表
func resetSheet(f *excelize.File, sheet string) error {
	if idx, _ := f.GetSheetIndex(sheet); idx >= 0 {
		if err := f.DeleteSheet(sheet); err != nil {
			return fmt.Errorf("清空 %s 失败: %w", sheet, err)
		}
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("建立 %s 失败: %w", sheet, err)
	}
	return nil
}

type rowStyles struct {
	title    int
	header   int
	subtotal int
	grand    int
}

func newRowStyles(f *excelize.File) (rowStyles, error) {
	var s rowStyles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
	}); err != nil {
		return s, err
	}
	if s.subtotal, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFF2CC"}, Pattern: 1},
	}); err != nil {
		return s, err
	}
	if s.grand, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F8CBAD"}, Pattern: 1},
	}); err != nil {
		return s, err
	}
	return s, nil
}

func writeTitle(f *excelize.File, sheet, title string, cols int, style int) error {
	if title == "" {
		return nil
	}
	if err := f.SetCellValue(sheet, cellName(1, titleRow), title); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, cellName(1, titleRow), cellName(cols, titleRow)); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cellName(1, titleRow), cellName(1, titleRow), style)
}

func writeConsolidatedSheet(f *excelize.File, title string, rows []model.ConsolidatedRow) error {
	sheet := SheetConsolidated
	if err := resetSheet(f, sheet); err != nil {
		return err
	}
	styles, err := newRowStyles(f)
	if err != nil {
		return fmt.Errorf("建立样式失败: %w", err)
	}

	headers := []any{"區域", "召會"}
	for _, fm := range model.ConsolidatedFields {
		headers = append(headers, label(consolidatedLabels, fm.Name))
	}
	if err := writeTitle(f, sheet, title, len(headers), styles.title); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cellName(1, headerRow), &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cellName(1, headerRow), cellName(len(headers), headerRow), styles.header); err != nil {
		return err
	}

	for i := range rows {
		r := &rows[i]
		values := []any{r.Region, r.Name}
		for _, fm := range model.ConsolidatedFields {
			values = append(values, consolidatedValue(fm, r))
		}
		rowNo := dataRow + i
		if err := f.SetSheetRow(sheet, cellName(1, rowNo), &values); err != nil {
			return fmt.Errorf("写入总表第 %d 列失败: %w", rowNo, err)
		}
		if style, ok := aggregateStyle(styles, r.IsSubtotal, r.IsGrandTotal); ok {
			if err := f.SetCellStyle(sheet, cellName(1, rowNo), cellName(len(values), rowNo), style); err != nil {
				return err
			}
		}
	}

	return f.SetColWidth(sheet, "A", "B", 12)
}

func writeMonthlySheet(f *excelize.File, title string, rows []model.MonthlyMetricRow) error {
	sheet := SheetMonthly
	if err := resetSheet(f, sheet); err != nil {
		return err
	}
	styles, err := newRowStyles(f)
	if err != nil {
		return fmt.Errorf("建立样式失败: %w", err)
	}

	headers := []any{"區域", "召會"}
	for _, mf := range model.MonthlyFields {
		headers = append(headers, label(monthlyLabels, mf.Name))
	}
	if err := writeTitle(f, sheet, title, len(headers), styles.title); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cellName(1, headerRow), &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cellName(1, headerRow), cellName(len(headers), headerRow), styles.header); err != nil {
		return err
	}

	for i := range rows {
		r := &rows[i]
		values := []any{r.Region, r.Name}
		for _, mf := range model.MonthlyFields {
			values = append(values, *mf.Ptr(r))
		}
		rowNo := dataRow + i
		if err := f.SetSheetRow(sheet, cellName(1, rowNo), &values); err != nil {
			return fmt.Errorf("写入月报表第 %d 列失败: %w", rowNo, err)
		}
		if style, ok := aggregateStyle(styles, r.IsSubtotal, r.IsGrandTotal); ok {
			if err := f.SetCellStyle(sheet, cellName(1, rowNo), cellName(len(values), rowNo), style); err != nil {
				return err
			}
		}
		// 主日合计的计算过程写入批注
		if trace := r.Details["sun_total"]; trace != "" && !r.IsSubtotal {
			_ = f.AddComment(sheet, excelize.Comment{
				Cell:   cellName(2+sunTotalColumn(), rowNo),
				Author: "ycreport",
				Text:   trace,
			})
		}
	}

	return f.SetColWidth(sheet, "A", "B", 12)
}

func sunTotalColumn() int {
	for i, mf := range model.MonthlyFields {
		if mf.Name == "sun_total" {
			return i + 1
		}
	}
	return 1
}

// writeRawSheet 原始资料：栏位为全部记录键的联集（来源栏位在前）
func writeRawSheet(f *excelize.File, records []model.RawRecord) error {
	sheet := SheetRaw
	if err := resetSheet(f, sheet); err != nil {
		return err
	}

	seen := map[string]bool{model.KeySourceFile: true, model.KeySheetName: true}
	var keys []string
	for _, r := range records {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	keys = append([]string{model.KeySourceFile, model.KeySheetName}, keys...)

	headers := make([]any, len(keys))
	for i, k := range keys {
		headers[i] = k
	}
	if err := f.SetSheetRow(sheet, cellName(1, 1), &headers); err != nil {
		return err
	}

	for i, r := range records {
		values := make([]any, len(keys))
		for j, k := range keys {
			values[j] = r[k]
		}
		if err := f.SetSheetRow(sheet, cellName(1, i+2), &values); err != nil {
			return fmt.Errorf("写入原始资料第 %d 列失败: %w", i+2, err)
		}
	}
	return nil
}

func aggregateStyle(s rowStyles, isSubtotal, isGrand bool) (int, bool) {
	switch {
	case isGrand:
		return s.grand, true
	case isSubtotal:
		return s.subtotal, true
	default:
		return 0, false
	}
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

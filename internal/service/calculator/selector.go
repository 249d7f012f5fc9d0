package calculator

import (
	"strings"

	"ycreport/internal/model"
)

// 合计列关键字
var totalKeywords = []string{"小計", "合計", "總計", "Total", "總數", "全召會"}

// districtMarker 分区（牧區）列标记
const districtMarker = "區"

// IsTotalRow 任一字符串单元格含合计关键字
func IsTotalRow(r model.RawRecord) bool {
	for _, s := range r.StringCells() {
		if containsAny(s, totalKeywords) {
			return true
		}
	}
	return false
}

// SelectRepresentativeRows 按文件/工作表分组，为召会挑出代表列
// 每组依序：召会名+合计 > 单纯合计 > 召会名（排除分区列） > 最后一列
func SelectRepresentativeRows(rows []model.RawRecord, unit string) []model.RawRecord {
	groups, order := groupByFile(rows)

	var result []model.RawRecord
	for _, key := range order {
		result = append(result, selectInGroup(groups[key], unit)...)
	}
	return result
}

func groupByFile(rows []model.RawRecord) (map[string][]model.RawRecord, []string) {
	groups := make(map[string][]model.RawRecord)
	var order []string
	for _, r := range rows {
		key := r.GroupKey()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}
	return groups, order
}

func selectInGroup(fileRows []model.RawRecord, unit string) []model.RawRecord {
	if len(fileRows) == 0 {
		return nil
	}

	// 1. 明确标注该召会的合计列，如「斗六小計」
	for _, r := range fileRows {
		if mentionsUnit(r, unit) && IsTotalRow(r) {
			return []model.RawRecord{r}
		}
	}

	// 2. 单纯合计列（文件已预先只含该召会）
	for _, r := range fileRows {
		if IsTotalRow(r) {
			return []model.RawRecord{r}
		}
	}

	// 3. 含召会名的非合计列；多列时后续取平均而非加总（已知取舍）
	var specific []model.RawRecord
	for _, r := range fileRows {
		matched, ok := firstUnitCell(r, unit)
		if !ok {
			continue
		}
		if strings.Contains(matched, districtMarker) && !strings.Contains(unit, districtMarker) {
			continue
		}
		if IsTotalRow(r) {
			continue
		}
		specific = append(specific, r)
	}
	if len(specific) > 0 {
		return specific
	}

	// 4. 最后一列
	return []model.RawRecord{fileRows[len(fileRows)-1]}
}

func mentionsUnit(r model.RawRecord, unit string) bool {
	for _, s := range r.CellTexts() {
		if strings.Contains(s, unit) {
			return true
		}
	}
	return false
}

func firstUnitCell(r model.RawRecord, unit string) (string, bool) {
	for _, s := range r.StringCells() {
		if strings.Contains(s, unit) {
			return s, true
		}
	}
	return "", false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

package parser

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"ycreport/internal/model"
)

// 旧版（已处理）总表列的识别栏位
const (
	legacyNameKey   = "name"
	legacyMarkerKey = "bap_ya_actual"
)

// Classify 在边界上判定单笔 JSON 物件为原始记录或旧版总表列
func Classify(obj map[string]any) (model.Record, error) {
	_, hasName := obj[legacyNameKey]
	_, hasMarker := obj[legacyMarkerKey]
	if !hasName || !hasMarker {
		return model.Record{Raw: model.RawRecord(obj)}, nil
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return model.Record{}, err
	}
	var row model.ConsolidatedRow
	if err := json.Unmarshal(data, &row); err != nil {
		return model.Record{}, fmt.Errorf("invalid legacy row %v: %w", obj[legacyNameKey], err)
	}
	return model.Record{Legacy: &row}, nil
}

// DecodeRecords 解析 JSON 数组
func DecodeRecords(data []byte) ([]model.Record, error) {
	var objs []map[string]any
	if err := json.Unmarshal(data, &objs); err != nil {
		return nil, fmt.Errorf("decode records failed: %w", err)
	}
	return ClassifyAll(objs)
}

// ClassifyAll 逐笔判定
func ClassifyAll(objs []map[string]any) ([]model.Record, error) {
	out := make([]model.Record, 0, len(objs))
	for i, obj := range objs {
		rec, err := Classify(obj)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// SplitRecords 分出原始记录与旧版总表列
func SplitRecords(records []model.Record) ([]model.RawRecord, []model.ConsolidatedRow) {
	raw := lo.FilterMap(records, func(r model.Record, _ int) (model.RawRecord, bool) {
		return r.Raw, !r.IsLegacy() && r.Raw != nil
	})
	legacy := lo.FilterMap(records, func(r model.Record, _ int) (model.ConsolidatedRow, bool) {
		if !r.IsLegacy() {
			return model.ConsolidatedRow{}, false
		}
		return *r.Legacy, true
	})
	return raw, legacy
}

// TagSource 为缺少来源的原始记录补上来源报表名称
func TagSource(records []model.RawRecord, fileName string) []model.RawRecord {
	return lo.Map(records, func(r model.RawRecord, _ int) model.RawRecord {
		if r.SourceFile() != "" || fileName == "" {
			return r
		}
		tagged := r.Clone()
		tagged[model.KeySourceFile] = fileName
		return tagged
	})
}

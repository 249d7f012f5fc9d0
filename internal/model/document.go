package model

import "time"

// DocumentVersion 专案档版本
const DocumentVersion = "2.0"

// ProjectDocument 专案档：标题、总表、原始资料
type ProjectDocument struct {
	Title      string            `json:"title"`
	MasterData []ConsolidatedRow `json:"masterData"`
	RawData    []RawRecord       `json:"rawData"`
	Timestamp  time.Time         `json:"timestamp"`
	Version    string            `json:"version"`
}

// Record 解析器边界产物：原始记录或旧版（已处理）总表列，二者择一
type Record struct {
	Raw    RawRecord
	Legacy *ConsolidatedRow
}

// IsLegacy 是否为旧版总表列
func (r Record) IsLegacy() bool {
	return r.Legacy != nil
}

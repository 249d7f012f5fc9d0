package project

import (
	"time"

	"ycreport/internal/parser"
	"ycreport/internal/store"
)

// ProjectSummary 专案概要（用于专案列表）
type ProjectSummary struct {
	ProjectID   string    `json:"projectId"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	HasData     bool      `json:"hasData"`
	RecordCount int       `json:"recordCount"`
	Active      bool      `json:"active"`
}

func summaryOf(p store.Project, activeID string) ProjectSummary {
	return ProjectSummary{
		ProjectID:   p.ID,
		Name:        p.Name,
		Title:       p.Title,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		HasData:     p.HasData(),
		RecordCount: p.RecordCount,
		Active:      p.ID == activeID,
	}
}

// CurrentProject 当前专案（用于顶栏展示）
type CurrentProject struct {
	Project ProjectSummary `json:"project"`
	Title   string         `json:"title"`
	Files   []string       `json:"files"`
	Records int            `json:"records"`
	HasData bool           `json:"hasData"`
}

// ImportResult 匯入结果
type ImportResult struct {
	FileName   string `json:"fileName"`
	Records    int    `json:"records"`
	LegacyRows int    `json:"legacyRows"`
	// 旧版总表中不在区域结构内、已略过的召会
	UnknownUnits []string             `json:"unknownUnits,omitempty"`
	Report       *parser.ImportReport `json:"report,omitempty"`
}

// ImportMode 专案档匯入方式
type ImportMode string

const (
	// ImportMerge 目前已有数据：与现有总表合并
	ImportMerge ImportMode = "merge"
	// ImportOverwrite 目前为空：直接採用专案档
	ImportOverwrite ImportMode = "overwrite"
)

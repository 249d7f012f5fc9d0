package report

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized    bool     `json:"initialized"`    // 是否已有数据
	ProjectID      string   `json:"projectId"`      // 当前专案
	Title          string   `json:"title"`          // 报表标题
	Files          []string `json:"files"`          // 已匯入的来源文件
	Records        int      `json:"records"`        // 原始记录笔数
	LastImportTime string   `json:"lastImportTime"` // 最后匯入时间
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	cur, err := h.projects.Current()
	if err != nil {
		c.JSON(http.StatusOK, StatusResponse{Initialized: false})
		return
	}

	resp := StatusResponse{
		Initialized: cur.HasData,
		ProjectID:   cur.Project.ProjectID,
		Title:       cur.Title,
		Files:       cur.Files,
		Records:     cur.Records,
	}
	if logs, err := h.projects.ImportLogs(1); err == nil && len(logs) > 0 {
		resp.LastImportTime = logs[0].CreatedAt.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, resp)
}

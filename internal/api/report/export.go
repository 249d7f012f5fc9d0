package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"ycreport/internal/exporter"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportRequest 导出请求
type ExportRequest struct {
	Title      string `json:"title"`
	IncludeRaw bool   `json:"includeRaw"`
}

type exportProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

func bindExport(c *gin.Context) ExportRequest {
	var req ExportRequest
	// 空 body 视为预设选项
	_ = c.ShouldBindJSON(&req)
	return req
}

// buildExportContentDisposition 附件名：ASCII 备用名 + UTF-8 标题
func buildExportContentDisposition(title string) string {
	if title == "" {
		title = "report"
	}
	return fmt.Sprintf("attachment; filename=\"ycreport.xlsx\"; filename*=UTF-8''%s", url.PathEscape(title+".xlsx"))
}

// Export 直接下载 Excel
// POST /api/export
func (h *Handler) Export(c *gin.Context) {
	req := bindExport(c)
	doc := h.projects.Document()
	if req.Title == "" {
		req.Title = doc.Title
	}

	file, err := h.exporter.Export(doc, h.projects.Monthly(), exporter.ExportOptions{
		Title:      req.Title,
		IncludeRaw: req.IncludeRaw,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导出失败: " + err.Error()})
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", buildExportContentDisposition(req.Title))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := file.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// ExportStream 导出 Excel（SSE 进度 + 完成后提供下载地址）
// POST /api/export/stream
func (h *Handler) ExportStream(c *gin.Context) {
	req := bindExport(c)
	doc := h.projects.Document()
	monthly := h.projects.Monthly()
	if req.Title == "" {
		req.Title = doc.Title
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	send := func(event exportProgressEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}
	fail := func(msg string) {
		send(exportProgressEvent{
			Type:      "error",
			Message:   msg,
			Data:      map[string]any{},
			Timestamp: time.Now(),
		})
	}

	send(exportProgressEvent{
		Type:      "start",
		Message:   "开始导出",
		Data:      map[string]any{"title": req.Title},
		Timestamp: time.Now(),
	})

	lastPercent := -1
	progressFn := func(p exporter.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send(exportProgressEvent{
			Type:      "progress",
			Message:   p.Stage,
			Data:      map[string]any{"percent": p.Percent},
			Timestamp: time.Now(),
		})
	}

	file, err := h.exporter.Export(doc, monthly, exporter.ExportOptions{
		Title:      req.Title,
		IncludeRaw: req.IncludeRaw,
		Progress:   progressFn,
	})
	if err != nil {
		fail("导出失败: " + err.Error())
		return
	}
	defer file.Close()

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("ycreport_export_%d_%d.xlsx", time.Now().UnixNano(), os.Getpid()))
	if err := file.SaveAs(tempPath); err != nil {
		fail("写入导出文件失败: " + err.Error())
		_ = os.Remove(tempPath)
		return
	}

	token := h.downloads.put(tempPath, req.Title, 10*time.Minute)
	send(exportProgressEvent{
		Type:    "done",
		Message: "导出完成",
		Data: map[string]any{
			"percent":     100,
			"downloadUrl": "/api/export/download/" + token,
		},
		Timestamp: time.Now(),
	})
}

// DownloadExport 下载导出的 Excel 文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	item, ok := h.downloads.take(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}
	defer os.Remove(item.filePath)

	if _, err := os.Stat(item.filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	c.Header("Content-Disposition", buildExportContentDisposition(item.title))
	c.Header("Content-Type", xlsxContentType)
	c.File(item.filePath)
}

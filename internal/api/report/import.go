package report

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ycreport/internal/model"
	"ycreport/internal/parser"
)

// ImportRecordsRequest 记录匯入请求：records 可混合原始记录与旧版总表列
type ImportRecordsRequest struct {
	FileName string           `json:"fileName"`
	Records  []map[string]any `json:"records"`
}

// ImportRecords 匯入已解析的报表记录
// POST /api/records
func (h *Handler) ImportRecords(c *gin.Context) {
	var req ImportRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}
	if req.FileName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 fileName"})
		return
	}

	records, err := parser.ClassifyAll(req.Records)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.projects.ImportRecords(req.FileName, records)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ImportXlsx 上传平面工作簿（第一列为栏位名）
// POST /api/records/xlsx
func (h *Handler) ImportXlsx(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的表单数据"})
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	uploaded := files[0]
	f, err := uploaded.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败"})
		return
	}
	defer f.Close()

	result, err := h.projects.ImportXlsx(uploaded.Filename, f)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			// 无法识别的工作簿
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// RemoveFile 移除某来源报表的全部记录
// DELETE /api/records/files/:name
func (h *Handler) RemoveFile(c *gin.Context) {
	if err := h.projects.RemoveFile(c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ImportDocument 匯入专案档：目前为空时直接採用，否则合并
// POST /api/project/document
func (h *Handler) ImportDocument(c *gin.Context) {
	var doc model.ProjectDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的专案档"})
		return
	}
	mode, err := h.projects.ImportDocument(doc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mode": mode})
}

// ListImports 匯入日志
// GET /api/imports?limit=20
func (h *Handler) ListImports(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	logs, err := h.projects.ImportLogs(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}

package report

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ycreport/internal/exporter"
	"ycreport/internal/service/calculator"
	"ycreport/internal/service/project"
	"ycreport/internal/store"
)

// Handler 报表 API 处理器
type Handler struct {
	projects  *project.Manager
	exporter  *exporter.Exporter
	downloads *exportDownloadStore
}

// NewHandler 创建报表 API 处理器
func NewHandler(projects *project.Manager, templatePath string) *Handler {
	return &Handler{
		projects:  projects,
		exporter:  exporter.NewExporter(templatePath),
		downloads: newExportDownloadStore(),
	}
}

// RegisterRoutes 注册报表 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 专案管理
	router.GET("/projects", h.ListProjects)
	router.POST("/projects", h.CreateProject)
	router.POST("/projects/:id/select", h.SelectProject)
	router.DELETE("/projects/:id", h.DeleteProject)

	// 专案档
	router.GET("/project/document", h.GetDocument)
	router.POST("/project/document", h.ImportDocument)
	router.PUT("/project/title", h.UpdateTitle)

	// 原始记录匯入
	router.POST("/records", h.ImportRecords)
	router.POST("/records/xlsx", h.ImportXlsx)
	router.DELETE("/records/files/:name", h.RemoveFile)
	router.GET("/imports", h.ListImports)

	// 报表查询与修改
	router.GET("/report", h.GetReport)
	router.GET("/report/monthly", h.GetMonthly)
	router.GET("/report/warnings", h.GetWarnings)
	router.PATCH("/report/rows/:name", h.EditCell)
	router.PATCH("/report/monthly/:name", h.EditMonthly)
	router.POST("/report/targets", h.ApplyTargets)
	router.POST("/report/targets/clear", h.ClearTargets)

	router.POST("/undo", h.Undo)
	router.POST("/clear", h.Clear)

	// 数据导出
	router.POST("/export", h.Export)
	router.POST("/export/stream", h.ExportStream)
	router.GET("/export/download/:token", h.DownloadExport)
}

// errorStatus 业务错误对应的 HTTP 状态码
func errorStatus(err error) int {
	switch {
	case errors.Is(err, calculator.ErrUnitNotFound),
		errors.Is(err, store.ErrProjectNotFound),
		errors.Is(err, project.ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, calculator.ErrUnknownField),
		errors.Is(err, calculator.ErrReadOnlyField),
		errors.Is(err, project.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, project.ErrNoUndoSnapshot),
		errors.Is(err, project.ErrNoActiveProject):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

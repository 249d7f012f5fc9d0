package report

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateProjectRequest 新建专案请求
type CreateProjectRequest struct {
	Name string `json:"name"`
}

// UpdateTitleRequest 修改标题请求
type UpdateTitleRequest struct {
	Title string `json:"title"`
}

// ListProjects 专案列表
// GET /api/projects
func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.projects.ListProjects()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// CreateProject 新建专案并切换过去
// POST /api/projects
func (h *Handler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}
	p, err := h.projects.CreateProject(req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// SelectProject 切换专案
// POST /api/projects/:id/select
func (h *Handler) SelectProject(c *gin.Context) {
	p, err := h.projects.SelectProject(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteProject 删除专案
// DELETE /api/projects/:id
func (h *Handler) DeleteProject(c *gin.Context) {
	if err := h.projects.DeleteProject(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetDocument 下载当前专案档
// GET /api/project/document
func (h *Handler) GetDocument(c *gin.Context) {
	c.JSON(http.StatusOK, h.projects.Document())
}

// UpdateTitle 修改报表标题
// PUT /api/project/title
func (h *Handler) UpdateTitle(c *gin.Context) {
	var req UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}
	h.projects.SetTitle(req.Title)
	c.JSON(http.StatusOK, gin.H{"title": req.Title})
}

// Undo 撤销上一次修改
// POST /api/undo
func (h *Handler) Undo(c *gin.Context) {
	if err := h.projects.UndoLast(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Clear 清空当前专案
// POST /api/clear
func (h *Handler) Clear(c *gin.Context) {
	if err := h.projects.Clear(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

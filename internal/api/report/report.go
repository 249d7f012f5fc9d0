package report

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// EditCellRequest 单一栏位修改请求
type EditCellRequest struct {
	Field string   `json:"field"`
	Value *float64 `json:"value"`
}

// TargetsRequest 目标匯入请求：召会 → 栏位 → 数值
type TargetsRequest struct {
	Values map[string]map[string]float64 `json:"values"`
}

// GetReport 总表
// GET /api/report
func (h *Handler) GetReport(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rows": h.projects.Report()})
}

// GetMonthly 月报表
// GET /api/report/monthly
func (h *Handler) GetMonthly(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rows": h.projects.Monthly()})
}

// GetWarnings 资料规则检查结果（召会 → 提示）
// GET /api/report/warnings
func (h *Handler) GetWarnings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"warnings": h.projects.Validate()})
}

func bindEdit(c *gin.Context) (EditCellRequest, bool) {
	var req EditCellRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Field == "" || req.Value == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "需要 field 与 value"})
		return req, false
	}
	return req, true
}

// EditCell 修改总表栏位
// PATCH /api/report/rows/:name
func (h *Handler) EditCell(c *gin.Context) {
	req, ok := bindEdit(c)
	if !ok {
		return
	}
	if err := h.projects.EditCell(c.Param("name"), req.Field, *req.Value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": h.projects.Report()})
}

// EditMonthly 修改月报表数值
// PATCH /api/report/monthly/:name
func (h *Handler) EditMonthly(c *gin.Context) {
	req, ok := bindEdit(c)
	if !ok {
		return
	}
	if err := h.projects.EditMonthly(c.Param("name"), req.Field, *req.Value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": h.projects.Monthly()})
}

// ApplyTargets 匯入目标与基数
// POST /api/report/targets
func (h *Handler) ApplyTargets(c *gin.Context) {
	var req TargetsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Values) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "需要 values"})
		return
	}
	ignored, err := h.projects.ApplyTargets(req.Values)
	if err != nil {
		respondError(c, err)
		return
	}
	if ignored == nil {
		ignored = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"ignored": ignored})
}

// ClearTargets 清除目标与基数
// POST /api/report/targets/clear
func (h *Handler) ClearTargets(c *gin.Context) {
	if err := h.projects.ClearTargets(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

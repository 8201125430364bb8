package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bumimakmur/bumi-erp/internal/erp/service"
)

type MRPHandler struct {
	svc         *service.MRPService
	suggestions *service.MRPSuggestionService
}

func NewMRPHandler(svc *service.MRPService, suggestions *service.MRPSuggestionService) *MRPHandler {
	return &MRPHandler{svc: svc, suggestions: suggestions}
}

func (h *MRPHandler) CreateRun(c *gin.Context) {
	var req service.CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	run, err := h.svc.CreateRun(&req, currentUser(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": run})
}

func (h *MRPHandler) Execute(c *gin.Context) {
	run, err := h.svc.Execute(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": run})
}

func (h *MRPHandler) Get(c *gin.Context) {
	run, err := h.svc.GetRun(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": "MRP运行不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": run})
}

func (h *MRPHandler) ListRuns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	runs, total, err := h.svc.ListRuns(page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": runs, "total": total, "page": page, "size": size}})
}

func (h *MRPHandler) Latest(c *gin.Context) {
	run, err := h.svc.GetLatestRun()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": "没有已完成的MRP运行"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": run})
}

func (h *MRPHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteRun(c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

func (h *MRPHandler) Demands(c *gin.Context) {
	demands, err := h.svc.GetDemands(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": demands})
}

func (h *MRPHandler) Suggestions(c *gin.Context) {
	suggestions, err := h.svc.GetSuggestions(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": suggestions})
}

func (h *MRPHandler) Export(c *gin.Context) {
	f, filename, err := h.svc.ExportSuggestions(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
	}
}

func (h *MRPHandler) AcceptSuggestion(c *gin.Context) {
	sg, err := h.suggestions.Accept(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": sg})
}

func (h *MRPHandler) RejectSuggestion(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	c.ShouldBindJSON(&req)
	sg, err := h.suggestions.Reject(c.Param("id"), req.Reason)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": sg})
}

func (h *MRPHandler) AdjustSuggestion(c *gin.Context) {
	var req struct {
		Quantity float64 `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	sg, err := h.suggestions.AdjustQty(c.Param("id"), req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": sg})
}

func (h *MRPHandler) ConvertSuggestion(c *gin.Context) {
	var req struct {
		TargetType string `json:"target_type"`
	}
	c.ShouldBindJSON(&req)
	sg, err := h.suggestions.Convert(c.Param("id"), req.TargetType, currentUser(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": sg})
}

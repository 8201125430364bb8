package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bumimakmur/bumi-erp/internal/erp/repository"
	"github.com/bumimakmur/bumi-erp/internal/erp/service"
)

type SubcontractHandler struct {
	svc *service.SubcontractService
}

func NewSubcontractHandler(svc *service.SubcontractService) *SubcontractHandler {
	return &SubcontractHandler{svc: svc}
}

func (h *SubcontractHandler) Create(c *gin.Context) {
	var req service.CreateSCORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	sco, err := h.svc.Create(&req, currentUser(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": sco})
}

func (h *SubcontractHandler) Get(c *gin.Context) {
	sco, err := h.svc.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": "委外订单不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": sco})
}

func (h *SubcontractHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.SCOListParams{
		Page:            page,
		Size:            size,
		Status:          c.Query("status"),
		SubcontractorID: c.Query("subcontractor_id"),
	}
	scos, total, err := h.svc.List(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": scos, "total": total, "page": page, "size": size}})
}

func (h *SubcontractHandler) Confirm(c *gin.Context) {
	sco, err := h.svc.Confirm(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": sco})
}

func (h *SubcontractHandler) Receive(c *gin.Context) {
	var req service.ReceiveSCORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	sco, err := h.svc.Receive(c.Param("id"), &req, currentUser(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": sco})
}

func (h *SubcontractHandler) Cancel(c *gin.Context) {
	sco, err := h.svc.Cancel(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": sco})
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bumimakmur/bumi-erp/internal/erp/repository"
	"github.com/bumimakmur/bumi-erp/internal/erp/service"
)

type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.StockListParams{
		Page:        page,
		Size:        size,
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		LowStock:    c.Query("low_stock") == "true",
	}
	stocks, total, err := h.svc.ListStocks(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": stocks, "total": total, "page": page, "size": size}})
}

func (h *InventoryHandler) Inbound(c *gin.Context) {
	var req service.StockMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	req.OperatorID = currentUser(c)
	if err := h.svc.Inbound(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

func (h *InventoryHandler) Outbound(c *gin.Context) {
	var req service.StockMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	req.OperatorID = currentUser(c)
	if err := h.svc.Outbound(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req struct {
		ProductID   string  `json:"product_id" binding:"required"`
		WarehouseID string  `json:"warehouse_id" binding:"required"`
		NewQty      float64 `json:"new_qty"`
		Notes       string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	if err := h.svc.Adjust(req.ProductID, req.WarehouseID, req.NewQty, req.Notes, currentUser(c)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

func (h *InventoryHandler) Movements(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	movements, total, err := h.svc.ListMovements(c.Query("product_id"), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": movements, "total": total, "page": page, "size": size}})
}

// Alerts 低库存告警：在手量低于安全库存的产品
func (h *InventoryHandler) Alerts(c *gin.Context) {
	stocks, total, err := h.svc.ListStocks(repository.StockListParams{LowStock: true, Page: 1, Size: 200})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": stocks, "total": total}})
}

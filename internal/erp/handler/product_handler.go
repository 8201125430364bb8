package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bumimakmur/bumi-erp/internal/erp/repository"
	"github.com/bumimakmur/bumi-erp/internal/erp/service"
)

type ProductHandler struct {
	svc *service.ProductService
}

func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	product, err := h.svc.Create(&req, currentUser(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": product})
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.svc.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": "产品不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": product})
}

func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.ProductListParams{
		Page:            page,
		Size:            size,
		ProcurementType: c.Query("procurement_type"),
		Status:          c.Query("status"),
		Keyword:         c.Query("keyword"),
	}
	products, total, err := h.svc.List(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": products, "total": total, "page": page, "size": size}})
}

func (h *ProductHandler) Update(c *gin.Context) {
	product, err := h.svc.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": "产品不存在"})
		return
	}
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	product.Name = req.Name
	product.Unit = req.Unit
	product.LeadTimeDays = req.LeadTimeDays
	product.MinOrderQty = req.MinOrderQty
	product.OrderMultiple = req.OrderMultiple
	product.PurchasePrice = req.PurchasePrice
	product.SafetyStock = req.SafetyStock
	product.SupplierID = req.SupplierID
	product.SubcontractorID = req.SubcontractorID
	product.Notes = req.Notes
	if err := h.svc.Update(product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": product})
}

func (h *ProductHandler) CreateBom(c *gin.Context) {
	var req service.CreateBomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	bom, err := h.svc.CreateBom(&req, currentUser(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": bom})
}

func (h *ProductHandler) ActivateBom(c *gin.Context) {
	bom, err := h.svc.ActivateBom(c.Param("bom_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": bom})
}

func (h *ProductHandler) GetActiveBom(c *gin.Context) {
	bom, err := h.svc.GetActiveBom(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": bom})
}

func (h *ProductHandler) ListBoms(c *gin.Context) {
	boms, err := h.svc.ListBoms(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": boms})
}

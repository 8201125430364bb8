package entity

import "gorm.io/gorm"

// AutoMigrate 自动迁移所有ERP表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 基础数据
		&Warehouse{},
		&Supplier{},
		&Product{},
		&Bom{},
		&BomItem{},

		// 库存
		&ProductStock{},
		&StockMovement{},

		// 采购
		&PurchaseOrder{},
		&POItem{},

		// 生产
		&WorkOrder{},
		&WorkOrderMaterial{},
		&WorkOrderReport{},

		// 委外
		&SubcontractOrder{},

		// MRP
		&MRPRun{},
		&MRPDemand{},
		&MRPSuggestion{},
	)
}

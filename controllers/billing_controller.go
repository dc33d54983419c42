package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chiyadani/chiyadani-api/config"
	"github.com/chiyadani/chiyadani-api/models"
)

// CreateBillRequest represents the request body for creating a table bill
type CreateBillRequest struct {
	Table    int `json:"table" binding:"required,gte=1"`
	Discount int `json:"discount" binding:"omitempty,gte=0"`
}

// PayBillRequest represents the request body for settling a bill
type PayBillRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// CreateBill handles POST /api/v1/bills - rolls every served, unbilled order
// of a table into one unpaid bill (staff only)
func CreateBill(c *gin.Context) {
	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var orders []models.Order
	if err := db.Preload("Items").
		Where("table_number = ? AND status = ? AND bill_id IS NULL", req.Table, string(models.StatusServed)).
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	if len(orders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NO_BILLABLE_ORDERS",
				"message": "No served, unbilled orders for this table",
			},
		})
		return
	}

	subtotal := 0
	phoneSet := map[string]bool{}
	phones := []string{}
	for _, order := range orders {
		subtotal += order.Total
		if !phoneSet[order.CustomerPhone] {
			phoneSet[order.CustomerPhone] = true
			phones = append(phones, order.CustomerPhone)
		}
	}

	discount := req.Discount
	if discount > subtotal {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_DISCOUNT",
				"message": "Discount cannot exceed the subtotal",
			},
		})
		return
	}

	bill := models.Bill{
		TableNumber:    req.Table,
		CustomerPhones: phones,
		Subtotal:       subtotal,
		Discount:       discount,
		Total:          subtotal - discount,
		Status:         models.BillStatusUnpaid,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&bill).Error; err != nil {
			return err
		}
		ids := make([]uint, len(orders))
		for i, order := range orders {
			ids[i] = order.ID
		}
		return tx.Model(&models.Order{}).Where("id IN ?", ids).Update("bill_id", bill.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create bill",
			},
		})
		return
	}

	bill.Orders = orders
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    bill,
	})
}

// ListBills handles GET /api/v1/bills with an optional status filter
func ListBills(c *gin.Context) {
	query := config.GetDB().Preload("Orders.Items").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		if status != models.BillStatusUnpaid && status != models.BillStatusPaid {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": "Unknown bill status",
				},
			})
			return
		}
		query = query.Where("status = ?", status)
	}

	var bills []models.Bill
	if err := query.Find(&bills).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load bills",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bills,
	})
}

// PayBill handles POST /api/v1/bills/:id/pay - marks a bill paid and writes
// the matching transaction record (staff only)
func PayBill(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid bill id",
			},
		})
		return
	}

	var req PayBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}
	if req.PaymentMethod != models.PaymentMethodCash && req.PaymentMethod != models.PaymentMethodFonepay {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_PAYMENT_METHOD",
				"message": "Payment method must be cash or fonepay",
			},
		})
		return
	}

	db := config.GetDB()
	var bill models.Bill
	if err := db.Preload("Orders.Items").First(&bill, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BILL_NOT_FOUND",
				"message": "Bill not found",
			},
		})
		return
	}

	if bill.Status == models.BillStatusPaid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BILL_ALREADY_PAID",
				"message": "This bill has already been settled",
			},
		})
		return
	}

	now := time.Now()
	txn := models.Transaction{
		BillID:         bill.ID,
		TableNumber:    bill.TableNumber,
		CustomerPhones: bill.CustomerPhones,
		Total:          bill.Total,
		Discount:       bill.Discount,
		PaymentMethod:  req.PaymentMethod,
		PaidAt:         now,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		bill.Status = models.BillStatusPaid
		bill.PaymentMethod = &req.PaymentMethod
		bill.PaidAt = &now
		if err := tx.Save(&bill).Error; err != nil {
			return err
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to settle bill",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"bill":        bill,
			"transaction": txn,
		},
	})
}

// ListTransactions handles GET /api/v1/transactions (staff only)
func ListTransactions(c *gin.Context) {
	var txns []models.Transaction
	if err := config.GetDB().Order("paid_at DESC").Find(&txns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load transactions",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    txns,
	})
}

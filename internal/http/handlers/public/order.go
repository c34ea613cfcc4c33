package public

import (
	"errors"
	"strconv"

	handlershared "github.com/preetizen/shop-api/internal/http/handlers/shared"
	"github.com/preetizen/shop-api/internal/http/response"
	"github.com/preetizen/shop-api/internal/models"
	"github.com/preetizen/shop-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderItemRequest 下单项请求
type CreateOrderItemRequest struct {
	ProductID uint         `json:"product_id" binding:"required"`
	Quantity  int          `json:"quantity" binding:"required"`
	Price     models.Money `json:"price"`
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	Items           []CreateOrderItemRequest `json:"items"`
	Total           models.Money             `json:"total"`
	ShippingAddress string                   `json:"shipping_address"`
}

// OrderSummary 订单摘要
type OrderSummary struct {
	OrderID uint         `json:"order_id"`
	OrderNo string       `json:"order_no"`
	Status  string       `json:"status"`
	Total   models.Money `json:"total"`
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	items := make([]service.PlaceOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.PlaceOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	order, err := h.OrderService.PlaceOrder(service.PlaceOrderInput{
		UserID:          uid,
		Items:           items,
		Total:           req.Total,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyOrder):
			respondError(c, response.CodeBadRequest, "order must contain at least one item", nil)
		case errors.Is(err, service.ErrInvalidOrderItem):
			respondError(c, response.CodeBadRequest, "invalid order item", nil)
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "create order failed", err)
		}
		return
	}

	response.Created(c, OrderSummary{
		OrderID: order.ID,
		OrderNo: order.OrderNo,
		Status:  order.Status,
		Total:   order.TotalAmount,
	})
}

// ListOrders 用户订单列表（按创建时间倒序）
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrdersByUser(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "fetch orders failed", err)
		return
	}

	totalPage := int64(0)
	if pageSize > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	response.SuccessWithPage(c, gin.H{"items": orders}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// GetOrder 订单详情，仅限本人订单
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	rawID := c.Param("id")
	orderID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}

	order, err := h.OrderService.GetOrderByUser(uint(orderID), uid)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "fetch order failed", err)
		return
	}

	response.Success(c, order)
}

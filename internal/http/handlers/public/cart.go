package public

import (
	"errors"
	"strconv"

	"github.com/preetizen/shop-api/internal/http/response"
	"github.com/preetizen/shop-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车项请求
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	items, err := h.CartService.ListByUser(uid)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCartItem) {
			respondError(c, response.CodeBadRequest, "invalid cart item", nil)
			return
		}
		respondError(c, response.CodeInternal, "fetch cart failed", err)
		return
	}

	response.Success(c, gin.H{"items": items})
}

// AddCartItem 加入购物车（同商品数量累加）
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.CartService.AddItem(uid, req.ProductID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCartItem):
			respondError(c, response.CodeBadRequest, "invalid cart item", nil)
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "product not found", nil)
		default:
			respondError(c, response.CodeInternal, "update cart failed", err)
		}
		return
	}
	response.Success(c, gin.H{"added": true})
}

// UpdateCartItem 更新购物车项数量，数量 <= 0 时删除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.CartService.SetQuantity(uid, req.ProductID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCartItem):
			respondError(c, response.CodeBadRequest, "invalid cart item", nil)
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "product not found", nil)
		default:
			respondError(c, response.CodeInternal, "update cart failed", err)
		}
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// DeleteCartItem 删除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	rawID := c.Param("product_id")
	productID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}
	if err := h.CartService.RemoveItem(uid, uint(productID)); err != nil {
		if errors.Is(err, service.ErrInvalidCartItem) {
			respondError(c, response.CodeBadRequest, "invalid cart item", nil)
			return
		}
		respondError(c, response.CodeInternal, "update cart failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(uid); err != nil {
		respondError(c, response.CodeInternal, "update cart failed", err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}

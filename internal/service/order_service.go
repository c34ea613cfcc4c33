package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/preetizen/shop-api/internal/constants"
	"github.com/preetizen/shop-api/internal/logger"
	"github.com/preetizen/shop-api/internal/models"
	"github.com/preetizen/shop-api/internal/queue"
	"github.com/preetizen/shop-api/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	queueClient *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		queueClient: queueClient,
	}
}

// PlaceOrderInput 下单输入
type PlaceOrderInput struct {
	UserID          uint
	Items           []PlaceOrderItem
	Total           models.Money
	ShippingAddress string
}

// PlaceOrderItem 下单项输入
// Price 为客户端提交的下单时价格快照，按原样落库
type PlaceOrderItem struct {
	ProductID uint
	Quantity  int
	Price     models.Money
}

// PlaceOrder 创建订单
// 订单与订单项在同一事务内写入，失败整体回滚；
// 清空购物车与下单通知在提交后尽力而为，失败不影响订单
func (s *OrderService) PlaceOrder(input PlaceOrderInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidOrderItem
	}
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	productIDs := make([]uint, 0, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrInvalidOrderItem
		}
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := s.productRepo.ListByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	known := make(map[uint]bool, len(products))
	for _, p := range products {
		known[p.ID] = true
	}
	for _, item := range input.Items {
		if !known[item.ProductID] {
			return nil, fmt.Errorf("%w: product %d", ErrProductNotFound, item.ProductID)
		}
	}

	now := time.Now()
	order := &models.Order{
		OrderNo:         generateOrderNo(),
		UserID:          input.UserID,
		TotalAmount:     input.Total,
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		Status:          constants.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		return orderRepo.Create(order, items)
	})
	if err != nil {
		return nil, err
	}
	order.Items = items

	if err := s.cartRepo.ClearByUser(input.UserID); err != nil {
		logger.Warnw("order_cart_clear_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"user_id", input.UserID,
			"error", err,
		)
	}

	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueOrderPlaced(queue.OrderPlacedPayload{OrderID: order.ID}); err != nil {
			logger.Warnw("order_placed_enqueue_failed",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"error", err,
			)
		}
	}

	logger.Infow("order_placed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", input.UserID,
		"total_amount", order.TotalAmount.String(),
		"item_count", len(items),
	)
	return order, nil
}

// GetOrder 获取订单（不校验归属，内部使用）
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderByUser 获取用户订单详情
// 订单不存在或属于其他用户均返回 ErrOrderNotFound
func (s *OrderService) GetOrderByUser(orderID, userID uint) (*models.Order, error) {
	if orderID == 0 || userID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersByUser 用户订单列表（按创建时间倒序）
func (s *OrderService) ListOrdersByUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(repository.OrderListFilter{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	randPart := randNumeric(6)
	return fmt.Sprintf("PZ%s%s", now, randPart)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}

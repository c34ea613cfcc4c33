package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/preetizen/shop-api/internal/logger"
	"github.com/preetizen/shop-api/internal/provider"
	"github.com/preetizen/shop-api/internal/queue"
	"github.com/preetizen/shop-api/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPlaced, c.handleOrderPlaced)
}

// handleOrderPlaced 处理下单通知任务
// 邮件发送不在本系统范围内，这里记录确认日志供下游对账
func (c *Consumer) handleOrderPlaced(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_placed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderPlacedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_placed_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_placed_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderService.GetOrder(payload.OrderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_order_placed_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_placed_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}

	receiverEmail := ""
	user, err := c.UserRepo.GetByID(order.UserID)
	if err != nil {
		logger.Warnw("worker_order_placed_fetch_user_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
		return err
	}
	if user != nil {
		receiverEmail = strings.TrimSpace(user.Email)
	}

	logger.Infow("order_placed_notify",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"receiver_email", receiverEmail,
		"total_amount", order.TotalAmount.String(),
		"item_count", len(order.Items),
	)
	return nil
}

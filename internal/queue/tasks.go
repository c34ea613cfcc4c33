package queue

import (
	"encoding/json"

	"github.com/preetizen/shop-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPlaced 下单通知任务
	TaskOrderPlaced = constants.TaskOrderPlaced
)

// OrderPlacedPayload 下单通知任务载荷
type OrderPlacedPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderPlacedTask 创建下单通知任务
func NewOrderPlacedTask(payload OrderPlacedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPlaced, body), nil
}

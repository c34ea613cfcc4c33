package constants

// 订单状态常量
// 本系统只产生 pending，后续状态流转由外部履约流程负责
const (
	OrderStatusPending = "pending"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskOrderPlaced = "order:placed"
)

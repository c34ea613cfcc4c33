package service

import "errors"

// 业务哨兵错误，handler 层据此映射响应码
var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password too weak")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserDisabled       = errors.New("user disabled")
	ErrUserNotFound       = errors.New("user not found")

	ErrProductNotFound = errors.New("product not found")

	ErrInvalidCartItem = errors.New("invalid cart item")

	ErrEmptyOrder       = errors.New("order must contain at least one item")
	ErrInvalidOrderItem = errors.New("invalid order item")
	ErrOrderNotFound    = errors.New("order not found")
)

package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
// 商品由 cmd/seed 工具维护，API 侧只读
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                              // 主键
	Name        string         `gorm:"not null;index" json:"name"`                        // 商品名称
	Description string         `gorm:"type:text" json:"description"`                      // 商品描述
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 价格
	Category    string         `gorm:"type:varchar(100);index" json:"category"`           // 分类
	ImageURL    string         `gorm:"type:varchar(500)" json:"image_url"`                // 图片地址
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                        // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

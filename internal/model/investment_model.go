package model

import (
	"time"
)

// InvestmentModel 投资记录，每笔成功的投资落一行
type InvestmentModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ProjectId uint64 `json:"project_id" gorm:"not null;index"`
	Address   string `json:"address" gorm:"not null;index"` // 投资人地址
	Amount    int64  `json:"amount" gorm:"not null"`        // 本笔投资额（最小单位）
}

// TableName 自定义表名
func (InvestmentModel) TableName() string {
	return "investment"
}

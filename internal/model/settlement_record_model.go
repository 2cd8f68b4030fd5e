package model

import (
	"time"
)

// 结算类型
const (
	SettlementKindWithdrawal   = "withdrawal"   // 项目方提取募集资金
	SettlementKindDistribution = "distribution" // 收益分配
	SettlementKindRefund       = "refund"       // 取消后退款
)

// SettlementRecordModel 结算记录，记录提取、分配、退款的资金拆分
type SettlementRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ProjectId uint64 `json:"project_id" gorm:"not null;index"`
	Kind      string `json:"kind" gorm:"not null;index"`

	TotalAmount   int64 `json:"total_amount"`   // 结算涉及的总额
	PlatformFee   int64 `json:"platform_fee"`   // 平台手续费（提取时）
	CreatorAmount int64 `json:"creator_amount"` // 项目方净得（提取时）
	TotalReturns  int64 `json:"total_returns"`  // 收益总额（分配时）
}

// TableName 自定义表名
func (SettlementRecordModel) TableName() string {
	return "settlement_record"
}

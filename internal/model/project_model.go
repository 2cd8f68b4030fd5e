package model

import (
	"time"
)

// ProjectModel 项目审计快照，由同步任务和事件管道从引擎状态落库
type ProjectModel struct {
	Id        uint64    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Location    string `json:"location"`

	// 募集信息（代币最小单位）
	FundingGoal       int64 `json:"funding_goal" gorm:"not null"`
	MinInvestment     int64 `json:"min_investment" gorm:"not null"`
	ExpectedReturnBps int64 `json:"expected_return_bps"`
	TotalFunded       int64 `json:"total_funded" gorm:"default:0"`
	InvestorCount     int   `json:"investor_count" gorm:"default:0"`

	// 时间信息
	Deadline time.Time `json:"deadline" gorm:"not null"`
	Duration int64     `json:"duration"`

	// 状态
	Status         string `json:"status" gorm:"default:'pending';index"`
	FundsWithdrawn bool   `json:"funds_withdrawn" gorm:"default:false"`

	// 项目方地址
	OwnerAddress string `json:"owner_address" gorm:"not null;index"`
}

// TableName 自定义表名
func (ProjectModel) TableName() string {
	return "project"
}

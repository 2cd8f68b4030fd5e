package model

import (
	"time"
)

// EventModel 引擎事件记录，供外部索引和审计查询
type EventModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ProjectId uint64    `json:"project_id" gorm:"index"`
	EventType string    `json:"event_type" gorm:"not null;index"`
	Payload   string    `json:"payload" gorm:"type:text"` // 事件内容JSON
	EventTime time.Time `json:"event_time"`
}

// TableName 自定义表名
func (EventModel) TableName() string {
	return "event"
}

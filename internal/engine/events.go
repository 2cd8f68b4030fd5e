package engine

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// EventType 引擎事件类型
type EventType string

const (
	EventProjectCreated     EventType = "ProjectCreated"
	EventInvestmentMade     EventType = "InvestmentMade"
	EventFundsWithdrawn     EventType = "FundsWithdrawn"
	EventReturnsDistributed EventType = "ReturnsDistributed"
	EventProjectCancelled   EventType = "ProjectCancelled"
)

// Event 引擎在状态变更提交后发布的事件，供外部索引和审计消费，
// 引擎自身不解读事件内容
type Event struct {
	Type      EventType      `json:"type"`
	ProjectID uint64         `json:"project_id"`
	Name      string         `json:"name,omitempty"`     // ProjectCreated
	Owner     common.Address `json:"owner,omitempty"`    // ProjectCreated, FundsWithdrawn
	Investor  common.Address `json:"investor,omitempty"` // InvestmentMade
	Amount    int64          `json:"amount,omitempty"`   // 投资额 / 募集目标 / 收益总额
	NetAmount int64          `json:"net_amount,omitempty"`
	Fee       int64          `json:"fee,omitempty"`
	Time      time.Time      `json:"time"`
}

// Sink 事件接收器
type Sink interface {
	Publish(event Event)
}

// publish 发布事件，未配置接收器时为空操作
func (e *Engine) publish(event Event) {
	if e.events == nil {
		return
	}
	event.Time = e.now()
	e.events.Publish(event)
}

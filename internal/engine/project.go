package engine

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Status 项目生命周期状态
type Status uint8

const (
	StatusPending   Status = iota // 募集中
	StatusActive                  // 募集完成，项目进行中
	StatusCompleted               // 收益已分配，项目结束
	StatusCancelled               // 已取消，本金已退回
)

// String 状态名称
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// project 引擎内部的项目状态。所有变更操作都持有 mu，
// 保证同一项目上的 invest/cancel/withdraw/distribute 串行执行。
type project struct {
	mu sync.Mutex

	id          uint64
	name        string
	description string
	location    string
	owner       common.Address

	fundingGoal       int64
	minInvestment     int64
	expectedReturnBps int64
	deadline          time.Time
	duration          int64

	totalFunded    int64
	status         Status
	fundsWithdrawn bool

	// 投资人累计投资额，investors 记录插入顺序，
	// 退款和收益分配按此顺序遍历，保证可复现
	investments map[common.Address]int64
	investors   []common.Address

	createdAt time.Time
}

// Snapshot 项目状态的一致性快照，供只读查询使用
type Snapshot struct {
	ID                uint64                   `json:"id"`
	Name              string                   `json:"name"`
	Description       string                   `json:"description"`
	Location          string                   `json:"location"`
	Owner             common.Address           `json:"owner"`
	FundingGoal       int64                    `json:"funding_goal"`
	MinInvestment     int64                    `json:"min_investment"`
	ExpectedReturnBps int64                    `json:"expected_return_bps"`
	Deadline          time.Time                `json:"deadline"`
	Duration          int64                    `json:"duration"`
	TotalFunded       int64                    `json:"total_funded"`
	Status            Status                   `json:"status"`
	StatusName        string                   `json:"status_name"`
	FundsWithdrawn    bool                     `json:"funds_withdrawn"`
	Investments       map[common.Address]int64 `json:"investments"`
	Investors         []common.Address         `json:"investors"`
	CreatedAt         time.Time                `json:"created_at"`
}

// snapshot 构建快照，调用方必须持有 p.mu
func (p *project) snapshot() Snapshot {
	investments := make(map[common.Address]int64, len(p.investments))
	for addr, amount := range p.investments {
		investments[addr] = amount
	}
	investors := make([]common.Address, len(p.investors))
	copy(investors, p.investors)

	return Snapshot{
		ID:                p.id,
		Name:              p.name,
		Description:       p.description,
		Location:          p.location,
		Owner:             p.owner,
		FundingGoal:       p.fundingGoal,
		MinInvestment:     p.minInvestment,
		ExpectedReturnBps: p.expectedReturnBps,
		Deadline:          p.deadline,
		Duration:          p.duration,
		TotalFunded:       p.totalFunded,
		Status:            p.status,
		StatusName:        p.status.String(),
		FundsWithdrawn:    p.fundsWithdrawn,
		Investments:       investments,
		Investors:         investors,
		CreatedAt:         p.createdAt,
	}
}

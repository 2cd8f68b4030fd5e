package engine

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ratbekn/umay/internal/ledger"
)

// Engine 投资池结算引擎。管理项目集合、募集状态机与资金结算，
// 资金流转全部通过账本适配器完成，引擎本身只做记账与校验。
type Engine struct {
	mu       sync.RWMutex
	projects map[uint64]*project
	ids      []uint64
	nextID   uint64

	ledger   ledger.Ledger
	escrow   common.Address // 项目资金托管账户
	treasury common.Address // 平台金库
	feeBps   int64          // 平台手续费（基点），构造后不可变

	events Sink
	now    func() time.Time
}

// Params 引擎构造参数
type Params struct {
	FeeBps   int64
	Treasury common.Address
	Escrow   common.Address
}

// Option 引擎可选配置
type Option func(*Engine)

// WithClock 替换时钟，测试用
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithEventSink 设置事件接收器
func WithEventSink(sink Sink) Option {
	return func(e *Engine) {
		e.events = sink
	}
}

// New 创建结算引擎
func New(l ledger.Ledger, params Params, opts ...Option) *Engine {
	e := &Engine{
		projects: make(map[uint64]*project),
		ledger:   l,
		escrow:   params.Escrow,
		treasury: params.Treasury,
		feeBps:   params.FeeBps,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateParams 项目创建参数
type CreateParams struct {
	Owner             common.Address
	Name              string
	Description       string
	Location          string
	FundingGoal       int64
	MinInvestment     int64
	ExpectedReturnBps int64
	Deadline          time.Time
	Duration          int64
}

// CreateProject 创建项目并分配递增的项目ID
func (e *Engine) CreateProject(params CreateParams) (uint64, error) {
	// 校验创建参数
	if params.FundingGoal <= 0 || params.MinInvestment <= 0 {
		return 0, ErrInvalidParameters
	}
	if !params.Deadline.After(e.now()) {
		return 0, ErrInvalidParameters
	}

	e.mu.Lock()
	id := e.nextID
	e.nextID++

	p := &project{
		id:                id,
		name:              params.Name,
		description:       params.Description,
		location:          params.Location,
		owner:             params.Owner,
		fundingGoal:       params.FundingGoal,
		minInvestment:     params.MinInvestment,
		expectedReturnBps: params.ExpectedReturnBps,
		deadline:          params.Deadline,
		duration:          params.Duration,
		status:            StatusPending,
		investments:       make(map[common.Address]int64),
		createdAt:         e.now(),
	}
	e.projects[id] = p
	e.ids = append(e.ids, id)
	e.mu.Unlock()

	e.publish(Event{
		Type:      EventProjectCreated,
		ProjectID: id,
		Name:      params.Name,
		Owner:     params.Owner,
		Amount:    params.FundingGoal,
	})

	return id, nil
}

// GetProject 获取项目快照
func (e *Engine) GetProject(id uint64) (Snapshot, error) {
	p, err := e.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot(), nil
}

// GetInvestorAmount 获取投资人在项目中的累计投资额
func (e *Engine) GetInvestorAmount(id uint64, investor common.Address) (int64, error) {
	p, err := e.lookup(id)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.investments[investor], nil
}

// GetAllProjectIDs 获取全部项目ID，按创建顺序排列
func (e *Engine) GetAllProjectIDs() []uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make([]uint64, len(e.ids))
	copy(ids, e.ids)
	return ids
}

// FeeBps 平台手续费率（基点）
func (e *Engine) FeeBps() int64 {
	return e.feeBps
}

// EscrowAddress 托管账户地址
func (e *Engine) EscrowAddress() common.Address {
	return e.escrow
}

// lookup 查找项目
func (e *Engine) lookup(id uint64) (*project, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, ok := e.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

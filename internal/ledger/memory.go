package ledger

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// MemoryLedger 内存账本，模拟6位小数稳定币的余额与转账。
// memory 模式下作为引擎的资金账本，也用于测试。
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[common.Address]int64
}

// NewMemoryLedger 创建内存账本
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[common.Address]int64),
	}
}

// Mint 给账户铸造余额
func (l *MemoryLedger) Mint(account common.Address, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
}

// Transfer 实现 Ledger 接口
func (l *MemoryLedger) Transfer(ctx context.Context, from, to common.Address, amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[from] < amount {
		return ErrInsufficientBalance
	}

	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

// BalanceOf 实现 Ledger 接口
func (l *MemoryLedger) BalanceOf(ctx context.Context, account common.Address) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account], nil
}

package ledger

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// Ledger 资金账本适配器。引擎通过它完成所有价值转移，
// 金额一律为代币最小单位的非负整数，单次 Transfer 要么全部生效要么完全失败。
type Ledger interface {
	// Transfer 从 from 向 to 转移 amount
	Transfer(ctx context.Context, from, to common.Address, amount int64) error

	// BalanceOf 查询账户余额
	BalanceOf(ctx context.Context, account common.Address) (int64, error)
}

var (
	// ErrInsufficientBalance 余额不足
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAmount 非法转账金额
	ErrInvalidAmount = errors.New("invalid transfer amount")
)

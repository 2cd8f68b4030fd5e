package engine

import (
	"errors"
	"fmt"
)

// 引擎错误类型。每个错误都会使整个操作原子性失败，不产生任何部分状态变更。
var (
	// ErrNotFound 项目不存在
	ErrNotFound = errors.New("project not found")

	// ErrUnauthorized 非项目方调用
	ErrUnauthorized = errors.New("not project owner")

	// ErrInvalidParameters 创建参数非法
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrInvalidState 当前生命周期状态下操作不合法
	ErrInvalidState = errors.New("invalid project state")

	// ErrBelowMinimum 投资金额低于最小投资额
	ErrBelowMinimum = errors.New("below minimum investment")

	// ErrExceedsGoal 投资金额超过剩余募集额度
	ErrExceedsGoal = errors.New("exceeds funding goal")

	// ErrTransferFailed 账本转账被拒绝
	ErrTransferFailed = errors.New("transfer failed")
)

// ErrAlreadyWithdrawn 重复提取募集资金，属于 ErrInvalidState 的细分
var ErrAlreadyWithdrawn = fmt.Errorf("%w: funds already withdrawn", ErrInvalidState)

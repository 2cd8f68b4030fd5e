package engine

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Invest 向募集中的项目投资。投资额从投资人账户转入托管账户，
// 累计到投资人名下；恰好达到募集目标时项目在同一操作内转为 Active。
func (e *Engine) Invest(ctx context.Context, id uint64, investor common.Address, amount int64) error {
	p, err := e.lookup(id)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// 状态与时间窗口校验，当前时间在整个操作内取单一快照
	now := e.now()
	if p.status != StatusPending {
		return fmt.Errorf("%w: project is %s", ErrInvalidState, p.status)
	}
	if !now.Before(p.deadline) {
		return fmt.Errorf("%w: funding deadline passed", ErrInvalidState)
	}
	if amount < p.minInvestment {
		return ErrBelowMinimum
	}
	if amount > p.fundingGoal-p.totalFunded {
		return ErrExceedsGoal
	}

	// 先完成资金划转，失败则不产生任何状态变更
	if err := e.ledger.Transfer(ctx, investor, e.escrow, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	if _, exists := p.investments[investor]; !exists {
		p.investors = append(p.investors, investor)
	}
	p.investments[investor] += amount
	p.totalFunded += amount

	// 达到募集目标，项目转为进行中
	if p.totalFunded == p.fundingGoal {
		p.status = StatusActive
	}

	// 持锁发布，保证同一项目的事件顺序与状态变更一致
	e.publish(Event{
		Type:      EventInvestmentMade,
		ProjectID: p.id,
		Investor:  investor,
		Amount:    amount,
	})

	return nil
}

// CancelProject 项目方取消项目，按投资记录全额退回每个投资人的本金。
// 退款金额先整体校验再逐笔执行，任何一笔无法通过校验则整个操作失败。
func (e *Engine) CancelProject(ctx context.Context, id uint64, caller common.Address) error {
	p, err := e.lookup(id)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if caller != p.owner {
		return ErrUnauthorized
	}
	if p.status != StatusPending && p.status != StatusActive {
		return fmt.Errorf("%w: project is %s", ErrInvalidState, p.status)
	}
	if p.fundsWithdrawn {
		return fmt.Errorf("%w: funds already withdrawn", ErrInvalidState)
	}

	// 预校验托管余额覆盖全部退款，零投资人项目的空退款循环是合法取消
	escrowBalance, err := e.ledger.BalanceOf(ctx, e.escrow)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	if escrowBalance < p.totalFunded {
		return fmt.Errorf("%w: escrow balance %d below refund total %d",
			ErrTransferFailed, escrowBalance, p.totalFunded)
	}

	// 按插入顺序逐笔退款
	for _, investor := range p.investors {
		amount := p.investments[investor]
		if amount <= 0 {
			continue
		}
		if err := e.ledger.Transfer(ctx, e.escrow, investor, amount); err != nil {
			return fmt.Errorf("%w: refund to %s: %v", ErrTransferFailed, investor.Hex(), err)
		}
	}

	p.status = StatusCancelled

	e.publish(Event{
		Type:      EventProjectCancelled,
		ProjectID: p.id,
	})

	return nil
}

package engine

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// WithdrawFunds 项目方提取募集资金。平台手续费转入金库，
// 净额转给项目方，项目状态保持 Active。
func (e *Engine) WithdrawFunds(ctx context.Context, id uint64, caller common.Address) error {
	p, err := e.lookup(id)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if caller != p.owner {
		return ErrUnauthorized
	}
	if p.status != StatusActive {
		return fmt.Errorf("%w: project is %s", ErrInvalidState, p.status)
	}
	if p.fundsWithdrawn {
		return ErrAlreadyWithdrawn
	}

	fee := PlatformFee(p.totalFunded, e.feeBps)
	net := p.totalFunded - fee

	// 预校验托管余额后再划转，两笔转账作为一个结算单元
	escrowBalance, err := e.ledger.BalanceOf(ctx, e.escrow)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	if escrowBalance < p.totalFunded {
		return fmt.Errorf("%w: escrow balance %d below funded total %d",
			ErrTransferFailed, escrowBalance, p.totalFunded)
	}

	if fee > 0 {
		if err := e.ledger.Transfer(ctx, e.escrow, e.treasury, fee); err != nil {
			return fmt.Errorf("%w: fee transfer: %v", ErrTransferFailed, err)
		}
	}
	if err := e.ledger.Transfer(ctx, e.escrow, p.owner, net); err != nil {
		return fmt.Errorf("%w: owner transfer: %v", ErrTransferFailed, err)
	}

	p.fundsWithdrawn = true

	e.publish(Event{
		Type:      EventFundsWithdrawn,
		ProjectID: p.id,
		Owner:     p.owner,
		NetAmount: net,
		Fee:       fee,
	})

	return nil
}

// payout 单个投资人的分配金额
type payout struct {
	investor common.Address
	amount   int64
}

// DistributeReturns 项目方回笼本金并分配收益。每个投资人收回本金
// 加上按出资比例分成的收益，整数除法产生的尾差留在托管账户。
// 本金在提取时已转出，因此分配从项目方账户拉取本金加收益的全额。
func (e *Engine) DistributeReturns(ctx context.Context, id uint64, caller common.Address, returnsAmount int64) error {
	p, err := e.lookup(id)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if caller != p.owner {
		return ErrUnauthorized
	}
	if p.status != StatusActive {
		return fmt.Errorf("%w: project is %s", ErrInvalidState, p.status)
	}
	if !p.fundsWithdrawn {
		return fmt.Errorf("%w: funds not yet withdrawn", ErrInvalidState)
	}
	if returnsAmount <= 0 {
		return ErrInvalidParameters
	}

	// 先计算全部分配金额，按投资人插入顺序，保证重复执行结果可复现
	payouts := make([]payout, 0, len(p.investors))
	for _, investor := range p.investors {
		stake := p.investments[investor]
		if stake <= 0 {
			continue
		}
		amount := stake + proRataShare(returnsAmount, stake, p.totalFunded)
		payouts = append(payouts, payout{investor: investor, amount: amount})
	}

	// 项目方余额必须覆盖本金与收益，校验通过后才开始划转
	ownerBalance, err := e.ledger.BalanceOf(ctx, p.owner)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	if ownerBalance < p.totalFunded+returnsAmount {
		return fmt.Errorf("%w: owner balance %d below required %d",
			ErrTransferFailed, ownerBalance, p.totalFunded+returnsAmount)
	}

	// 本金加收益转入托管账户，再逐笔分配给投资人
	if err := e.ledger.Transfer(ctx, p.owner, e.escrow, p.totalFunded+returnsAmount); err != nil {
		return fmt.Errorf("%w: returns pull: %v", ErrTransferFailed, err)
	}
	for _, po := range payouts {
		if err := e.ledger.Transfer(ctx, e.escrow, po.investor, po.amount); err != nil {
			return fmt.Errorf("%w: payout to %s: %v", ErrTransferFailed, po.investor.Hex(), err)
		}
	}

	p.status = StatusCompleted

	e.publish(Event{
		Type:      EventReturnsDistributed,
		ProjectID: p.id,
		Amount:    returnsAmount,
	})

	return nil
}

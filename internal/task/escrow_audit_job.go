package task

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/ratbekn/umay/internal/config"
	"github.com/ratbekn/umay/internal/engine"
	"github.com/ratbekn/umay/internal/ledger"
	"github.com/ratbekn/umay/internal/logger"
)

// EscrowAuditJob 托管资金审计任务。逐项目核对投资明细之和与
// totalFunded 是否一致，并检查托管账户余额能否覆盖未结算的本金。
type EscrowAuditJob struct {
	eng    *engine.Engine
	ldg    ledger.Ledger
	config *config.Config
}

// NewEscrowAuditJob 创建托管资金审计任务
func NewEscrowAuditJob(eng *engine.Engine, ldg ledger.Ledger, cfg *config.Config) *EscrowAuditJob {
	return &EscrowAuditJob{
		eng:    eng,
		ldg:    ldg,
		config: cfg,
	}
}

// GetName 获取任务名称
func (j *EscrowAuditJob) GetName() string {
	return "escrow_audit"
}

// GetSchedule 获取调度配置
func (j *EscrowAuditJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *EscrowAuditJob) Execute() {
	logger.Info("Starting escrow audit task")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	// 未提取、未退款的本金仍应留在托管账户
	var escrowExpected int64
	mismatchCount := 0

	for _, id := range j.eng.GetAllProjectIDs() {
		snap, err := j.eng.GetProject(id)
		if err != nil {
			logger.Error("Failed to fetch project %d for audit: %v", id, err)
			continue
		}

		// 核对投资明细之和与totalFunded
		var sum int64
		for _, amount := range snap.Investments {
			sum += amount
		}
		if sum != snap.TotalFunded {
			logger.Error("Audit mismatch for project %d: investments sum %d, total funded %d",
				id, sum, snap.TotalFunded)
			mismatchCount++
		}

		if (snap.Status == engine.StatusPending || snap.Status == engine.StatusActive) && !snap.FundsWithdrawn {
			escrowExpected += snap.TotalFunded
		}
	}

	balance, err := j.ldg.BalanceOf(ctx, j.eng.EscrowAddress())
	if err != nil {
		logger.Error("Failed to fetch escrow balance: %v", err)
		return
	}

	if balance < escrowExpected {
		logger.Error("Escrow balance %d below expected principal %d", balance, escrowExpected)
		mismatchCount++
	}

	if mismatchCount > 0 {
		logger.Warn("Escrow audit task completed with %d mismatches", mismatchCount)
	} else {
		logger.Info("Escrow audit task completed. Balance %d covers expected %d", balance, escrowExpected)
	}
}

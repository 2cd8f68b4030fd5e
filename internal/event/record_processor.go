package event

import (
	"encoding/json"

	"github.com/ratbekn/umay/internal/engine"
	"github.com/ratbekn/umay/internal/logger"
	"github.com/ratbekn/umay/internal/logic"
	"github.com/ratbekn/umay/internal/model"
	"gorm.io/gorm"
)

// RecordProcessor 把引擎事件落库为审计记录
type RecordProcessor struct {
	eng             *engine.Engine
	eventLogic      *logic.EventLogic
	investmentLogic *logic.InvestmentLogic
	settlementLogic *logic.SettlementLogic
	projectLogic    *logic.ProjectLogic
}

// NewRecordProcessor 创建审计记录处理器
func NewRecordProcessor(eng *engine.Engine, db *gorm.DB) *RecordProcessor {
	return &RecordProcessor{
		eng:             eng,
		eventLogic:      logic.NewEventLogic(db),
		investmentLogic: logic.NewInvestmentLogic(db),
		settlementLogic: logic.NewSettlementLogic(db),
		projectLogic:    logic.NewProjectLogic(db),
	}
}

// Name 处理器名称
func (p *RecordProcessor) Name() string {
	return "record"
}

// Process 处理事件：记录事件行、按类型补充业务记录、刷新项目快照
func (p *RecordProcessor) Process(event engine.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.eventLogic.CreateEvent(&model.EventModel{
		ProjectId: event.ProjectID,
		EventType: string(event.Type),
		Payload:   string(payload),
		EventTime: event.Time,
	}); err != nil {
		return err
	}

	switch event.Type {
	case engine.EventInvestmentMade:
		if err := p.investmentLogic.CreateInvestment(&model.InvestmentModel{
			ProjectId: event.ProjectID,
			Address:   event.Investor.Hex(),
			Amount:    event.Amount,
		}); err != nil {
			return err
		}

	case engine.EventFundsWithdrawn:
		if err := p.settlementLogic.CreateSettlementRecord(&model.SettlementRecordModel{
			ProjectId:     event.ProjectID,
			Kind:          model.SettlementKindWithdrawal,
			TotalAmount:   event.NetAmount + event.Fee,
			PlatformFee:   event.Fee,
			CreatorAmount: event.NetAmount,
		}); err != nil {
			return err
		}

	case engine.EventReturnsDistributed:
		if err := p.settlementLogic.CreateSettlementRecord(&model.SettlementRecordModel{
			ProjectId:    event.ProjectID,
			Kind:         model.SettlementKindDistribution,
			TotalAmount:  event.Amount,
			TotalReturns: event.Amount,
		}); err != nil {
			return err
		}

	case engine.EventProjectCancelled:
		snap, err := p.eng.GetProject(event.ProjectID)
		if err != nil {
			return err
		}
		if err := p.settlementLogic.CreateSettlementRecord(&model.SettlementRecordModel{
			ProjectId:   event.ProjectID,
			Kind:        model.SettlementKindRefund,
			TotalAmount: snap.TotalFunded,
		}); err != nil {
			return err
		}
	}

	// 刷新项目审计快照
	snap, err := p.eng.GetProject(event.ProjectID)
	if err != nil {
		return err
	}
	return p.projectLogic.UpsertSnapshot(snap)
}

// LogProcessor 把引擎事件写入日志
type LogProcessor struct{}

// Name 处理器名称
func (p *LogProcessor) Name() string {
	return "log"
}

// Process 处理事件
func (p *LogProcessor) Process(event engine.Event) error {
	logger.Info("Engine event %s: project=%d amount=%d", event.Type, event.ProjectID, event.Amount)
	return nil
}

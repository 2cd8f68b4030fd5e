package logic

import (
	"errors"
	"fmt"

	"github.com/ratbekn/umay/internal/model"
	"gorm.io/gorm"
)

// SettlementLogic 结算记录业务逻辑
type SettlementLogic struct {
	db *gorm.DB
}

// NewSettlementLogic 创建结算记录业务逻辑
func NewSettlementLogic(db *gorm.DB) *SettlementLogic {
	return &SettlementLogic{db: db}
}

// CreateSettlementRecord 创建结算记录
func (s *SettlementLogic) CreateSettlementRecord(record *model.SettlementRecordModel) error {
	if err := s.validateRecord(record); err != nil {
		return err
	}

	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("创建结算记录失败: %w", err)
	}

	return nil
}

// GetProjectSettlements 获取项目结算记录
func (s *SettlementLogic) GetProjectSettlements(projectId uint64) ([]model.SettlementRecordModel, error) {
	var records []model.SettlementRecordModel
	if err := s.db.Where("project_id = ?", projectId).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("获取结算记录失败: %w", err)
	}

	return records, nil
}

// validateRecord 验证结算记录
func (s *SettlementLogic) validateRecord(record *model.SettlementRecordModel) error {
	switch record.Kind {
	case model.SettlementKindWithdrawal, model.SettlementKindDistribution, model.SettlementKindRefund:
	default:
		return errors.New("未知的结算类型")
	}
	if record.TotalAmount < 0 {
		return errors.New("结算金额不能为负")
	}
	return nil
}

package logic

import (
	"errors"
	"fmt"

	"github.com/ratbekn/umay/internal/model"
	"gorm.io/gorm"
)

// InvestmentLogic 投资记录业务逻辑
type InvestmentLogic struct {
	db *gorm.DB
}

// NewInvestmentLogic 创建投资记录业务逻辑
func NewInvestmentLogic(db *gorm.DB) *InvestmentLogic {
	return &InvestmentLogic{db: db}
}

// CreateInvestment 创建投资记录
func (l *InvestmentLogic) CreateInvestment(investment *model.InvestmentModel) error {
	// 验证投资数据
	if err := l.validateInvestment(investment); err != nil {
		return err
	}

	if err := l.db.Create(investment).Error; err != nil {
		return fmt.Errorf("创建投资记录失败: %w", err)
	}

	return nil
}

// GetProjectInvestments 获取项目投资记录
func (l *InvestmentLogic) GetProjectInvestments(projectId uint64, page, pageSize int) ([]model.InvestmentModel, int64, error) {
	var investments []model.InvestmentModel
	var total int64

	// 获取总数
	if err := l.db.Model(&model.InvestmentModel{}).Where("project_id = ?", projectId).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取投资记录总数失败: %w", err)
	}

	// 分页查询
	offset := (page - 1) * pageSize
	if err := l.db.Where("project_id = ?", projectId).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&investments).Error; err != nil {
		return nil, 0, fmt.Errorf("获取投资记录失败: %w", err)
	}

	return investments, total, nil
}

// GetInvestorTotal 获取投资人在项目中的累计投资额
func (l *InvestmentLogic) GetInvestorTotal(projectId uint64, address string) (int64, error) {
	var total int64
	if err := l.db.Model(&model.InvestmentModel{}).
		Where("project_id = ? AND address = ?", projectId, address).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("获取投资人累计投资额失败: %w", err)
	}

	return total, nil
}

// validateInvestment 验证投资数据
func (l *InvestmentLogic) validateInvestment(investment *model.InvestmentModel) error {
	if investment.Amount <= 0 {
		return errors.New("投资金额必须大于0")
	}
	if investment.Address == "" {
		return errors.New("投资人地址不能为空")
	}
	return nil
}

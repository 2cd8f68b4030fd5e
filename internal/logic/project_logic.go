package logic

import (
	"errors"
	"fmt"

	"github.com/ratbekn/umay/internal/engine"
	"github.com/ratbekn/umay/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectLogic 项目审计快照业务逻辑
type ProjectLogic struct {
	db *gorm.DB
}

// NewProjectLogic 创建项目业务逻辑
func NewProjectLogic(db *gorm.DB) *ProjectLogic {
	return &ProjectLogic{db: db}
}

// UpsertSnapshot 将引擎项目快照写入审计库
func (p *ProjectLogic) UpsertSnapshot(snap engine.Snapshot) error {
	record := model.ProjectModel{
		Id:                snap.ID,
		Name:              snap.Name,
		Description:       snap.Description,
		Location:          snap.Location,
		FundingGoal:       snap.FundingGoal,
		MinInvestment:     snap.MinInvestment,
		ExpectedReturnBps: snap.ExpectedReturnBps,
		TotalFunded:       snap.TotalFunded,
		InvestorCount:     len(snap.Investors),
		Deadline:          snap.Deadline,
		Duration:          snap.Duration,
		Status:            snap.Status.String(),
		FundsWithdrawn:    snap.FundsWithdrawn,
		OwnerAddress:      snap.Owner.Hex(),
		CreatedAt:         snap.CreatedAt,
	}

	if err := p.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error; err != nil {
		return fmt.Errorf("写入项目快照失败: %w", err)
	}

	return nil
}

// GetProjects 获取项目列表
func (p *ProjectLogic) GetProjects(status, owner string, page, pageSize int) ([]model.ProjectModel, int64, error) {
	var projects []model.ProjectModel
	var total int64

	query := p.db.Model(&model.ProjectModel{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if owner != "" {
		query = query.Where("owner_address = ?", owner)
	}

	// 获取总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取项目总数失败: %w", err)
	}

	// 分页查询
	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("id ASC").Find(&projects).Error; err != nil {
		return nil, 0, fmt.Errorf("获取项目列表失败: %w", err)
	}

	return projects, total, nil
}

// GetProject 获取项目审计快照
func (p *ProjectLogic) GetProject(id uint64) (*model.ProjectModel, error) {
	var project model.ProjectModel
	if err := p.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("项目不存在")
		}
		return nil, fmt.Errorf("获取项目详情失败: %w", err)
	}

	return &project, nil
}

// GetProjectStats 获取项目统计信息
func (p *ProjectLogic) GetProjectStats(id uint64) (map[string]interface{}, error) {
	project, err := p.GetProject(id)
	if err != nil {
		return nil, err
	}

	var stats struct {
		InvestmentCount int64 `json:"investment_count"`
		InvestorCount   int64 `json:"investor_count"`
	}

	// 投资笔数
	if err := p.db.Model(&model.InvestmentModel{}).Where("project_id = ?", id).Count(&stats.InvestmentCount).Error; err != nil {
		return nil, fmt.Errorf("获取投资笔数失败: %w", err)
	}

	// 投资人数
	if err := p.db.Model(&model.InvestmentModel{}).Where("project_id = ?", id).
		Select("COUNT(DISTINCT address)").Scan(&stats.InvestorCount).Error; err != nil {
		return nil, fmt.Errorf("获取投资人数失败: %w", err)
	}

	fundedRatio := float64(0)
	if project.FundingGoal > 0 {
		fundedRatio = float64(project.TotalFunded) / float64(project.FundingGoal)
	}

	return map[string]interface{}{
		"project_id":       project.Id,
		"status":           project.Status,
		"funding_goal":     project.FundingGoal,
		"total_funded":     project.TotalFunded,
		"funded_ratio":     fundedRatio,
		"investment_count": stats.InvestmentCount,
		"investor_count":   stats.InvestorCount,
	}, nil
}

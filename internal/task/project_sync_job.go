package task

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/ratbekn/umay/internal/config"
	"github.com/ratbekn/umay/internal/engine"
	"github.com/ratbekn/umay/internal/logger"
	"github.com/ratbekn/umay/internal/logic"
	"gorm.io/gorm"
)

// ProjectSyncJob 项目快照同步任务，周期性把引擎状态刷入审计库
type ProjectSyncJob struct {
	eng          *engine.Engine
	projectLogic *logic.ProjectLogic
	config       *config.Config
}

// NewProjectSyncJob 创建项目快照同步任务
func NewProjectSyncJob(eng *engine.Engine, db *gorm.DB, cfg *config.Config) *ProjectSyncJob {
	return &ProjectSyncJob{
		eng:          eng,
		projectLogic: logic.NewProjectLogic(db),
		config:       cfg,
	}
}

// GetName 获取任务名称
func (j *ProjectSyncJob) GetName() string {
	return "project_snapshot_sync"
}

// GetSchedule 获取调度配置
func (j *ProjectSyncJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *ProjectSyncJob) Execute() {
	logger.Info("Starting project snapshot sync task")

	syncedCount := 0
	for _, id := range j.eng.GetAllProjectIDs() {
		snap, err := j.eng.GetProject(id)
		if err != nil {
			logger.Error("Failed to fetch project %d snapshot: %v", id, err)
			continue
		}

		if err := j.projectLogic.UpsertSnapshot(snap); err != nil {
			logger.Error("Failed to sync project %d snapshot: %v", id, err)
			continue
		}
		syncedCount++
	}

	logger.Info("Project snapshot sync task completed. Synced %d projects", syncedCount)
}

package task

import (
	"github.com/go-co-op/gocron/v2"
	"github.com/ratbekn/umay/internal/config"
	"github.com/ratbekn/umay/internal/engine"
	"github.com/ratbekn/umay/internal/ledger"
	"github.com/ratbekn/umay/internal/logger"
	"gorm.io/gorm"
)

// Job 定时任务接口
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	eng       *engine.Engine
	ldg       ledger.Ledger
	db        *gorm.DB
	config    *config.Config
}

// NewManager 创建新的任务管理器
func NewManager(eng *engine.Engine, ldg ledger.Ledger, db *gorm.DB, cfg *config.Config) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler: s,
		eng:       eng,
		ldg:       ldg,
		db:        db,
		config:    cfg,
	}
}

// Start 启动任务管理器
func Start(eng *engine.Engine, ldg ledger.Ledger, db *gorm.DB, cfg *config.Config) *Manager {
	manager := NewManager(eng, ldg, db, cfg)

	// 注册所有任务
	manager.RegisterJobs()

	// 启动调度器
	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
	return manager
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	m.register(NewProjectSyncJob(m.eng, m.db, m.config))
	m.register(NewEscrowAuditJob(m.eng, m.ldg, m.config))
}

// register 注册单个任务
func (m *Manager) register(job Job) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}

package main

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/ratbekn/umay/internal/config"
	"github.com/ratbekn/umay/internal/engine"
	"github.com/ratbekn/umay/internal/event"
	"github.com/ratbekn/umay/internal/ledger"
	"github.com/ratbekn/umay/internal/logger"
	"github.com/ratbekn/umay/internal/repository"
	"github.com/ratbekn/umay/internal/router"
	"github.com/ratbekn/umay/internal/task"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	if err := logger.InitFromConfig(cfg.Log); err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := repository.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化资金账本
	ldg, escrow, err := buildLedger(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize ledger: %v", err)
	}

	// 创建事件管道，处理器在引擎构建后注册
	dispatcher, err := event.NewDispatcher(4, 1024)
	if err != nil {
		logger.Fatal("Failed to create event dispatcher: %v", err)
	}

	// 初始化结算引擎
	eng := engine.New(ldg, engine.Params{
		FeeBps:   cfg.Platform.FeeBps,
		Treasury: common.HexToAddress(cfg.Platform.Treasury),
		Escrow:   escrow,
	}, engine.WithEventSink(dispatcher))

	// 启动事件管道
	dispatcher.Register(&event.LogProcessor{}, event.NewRecordProcessor(eng, db))
	dispatcher.Start()
	defer dispatcher.Stop()

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 启动定时任务
	manager := task.Start(eng, ldg, db, cfg)
	defer manager.Stop()

	// 初始化路由并启动服务器
	r := router.Setup(eng, db)

	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

// buildLedger 按配置构建资金账本
func buildLedger(cfg *config.Config) (ledger.Ledger, common.Address, error) {
	if cfg.Ledger.Mode == "chain" {
		l, err := ledger.NewERC20Ledger(ledger.ERC20Config{
			RpcUrl:        cfg.Ledger.RpcUrl,
			PrivateKey:    cfg.Ledger.PrivateKey,
			TokenAddress:  cfg.Ledger.TokenAddress,
			Confirmations: cfg.Ledger.Confirmations,
		})
		if err != nil {
			return nil, common.Address{}, err
		}
		return l, l.EscrowAddress(), nil
	}

	return ledger.NewMemoryLedger(), common.HexToAddress(cfg.Platform.Escrow), nil
}

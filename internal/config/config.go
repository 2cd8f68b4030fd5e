package config

import (
	"github.com/ratbekn/umay/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Platform PlatformConfig `mapstructure:"platform"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// PlatformConfig 平台结算配置，服务启动后不可变更
type PlatformConfig struct {
	FeeBps   int64  `mapstructure:"fee_bps"`  // 平台手续费（基点，10000=100%）
	Treasury string `mapstructure:"treasury"` // 平台金库地址
	Escrow   string `mapstructure:"escrow"`   // 项目资金托管账户地址
}

// LedgerConfig 资金账本配置
type LedgerConfig struct {
	Mode          string `mapstructure:"mode"`          // memory 或 chain
	RpcUrl        string `mapstructure:"rpc_url"`       // RPC节点URL（chain模式）
	PrivateKey    string `mapstructure:"private_key"`   // 托管账户私钥（chain模式）
	TokenAddress  string `mapstructure:"token_address"` // 稳定币合约地址
	Confirmations int    `mapstructure:"confirmations"` // 交易确认数
}

type TaskConfig struct {
	Interval int `mapstructure:"interval"` // 秒
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/umay")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "umay")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("platform.fee_bps", 250)
	viper.SetDefault("ledger.mode", "memory")
	viper.SetDefault("ledger.confirmations", 12)
	viper.SetDefault("task.interval", 60)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}

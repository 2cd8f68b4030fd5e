package logger

// LogConfig 日志配置接口，避免 logger 反向依赖 config 包
type LogConfig interface {
	GetLevel() string
	GetOutput() string
	GetFile() string
}

// InitFromConfig 根据配置初始化默认日志器
func InitFromConfig(cfg LogConfig) error {
	level := ParseLogLevel(cfg.GetLevel())

	var l *Logger
	var err error
	if cfg.GetOutput() == "file" {
		l, err = NewWithFileRotation(level, cfg.GetFile())
	} else {
		l, err = New(level)
	}
	if err != nil {
		return err
	}

	SetDefaultLogger(l)
	return nil
}

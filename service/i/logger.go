package i

import "go.uber.org/zap"

// Logger is the leveled logger every service writes to.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warning(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

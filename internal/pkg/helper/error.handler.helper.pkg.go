package helper

import (
	"lostfound/internal/pkg/logger"

	"go.uber.org/zap"
)

// HandleAppError logs err with the function and step it happened in. Fatal
// errors are returned to the caller, the rest are swallowed after logging.
func HandleAppError(err error, function, step string, fatal bool) error {
	if err == nil {
		return nil
	}
	fields := []zap.Field{zap.String("function", function), zap.String("step", step), zap.Error(err)}
	if fatal {
		logger.Zap().Error("fatal error", fields...)
		return err
	}
	logger.Zap().Warn("recoverable error", fields...)
	return nil
}

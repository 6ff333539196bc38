package calculation

import "go.uber.org/zap"

// Logger is a minimal logging interface for the projection engine.
// Implementations should be fast; the default is a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// ZapLogger adapts a zap logger to Logger.
type ZapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger wraps z. A nil logger yields a no-op zap logger.
func NewZapLogger(z *zap.Logger) ZapLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return ZapLogger{s: z.Sugar()}
}

func (l ZapLogger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l ZapLogger) Infof(format string, args ...any)  { l.s.Infof(format, args...) }
func (l ZapLogger) Warnf(format string, args ...any)  { l.s.Warnf(format, args...) }
func (l ZapLogger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }

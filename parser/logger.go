package parser

import (
	"context"
	"log/slog"
)

// Logger is the interface restspec uses for structured logging.
//
// Attributes are alternating key-value pairs, following log/slog:
//
//	logger.Debug("decoded specification", "name", spec.Name, "url", spec.URL)
//
// Use [NewSlogAdapter] to wrap a *slog.Logger. Other logging libraries
// (zap's SugaredLogger, zerolog) need a few lines of adapter code.
type Logger interface {
	// Debug logs at debug level.
	Debug(msg string, attrs ...any)

	// Info logs at info level.
	Info(msg string, attrs ...any)

	// Warn logs at warn level.
	Warn(msg string, attrs ...any)

	// Error logs at error level.
	Error(msg string, attrs ...any)

	// With returns a Logger that prepends attrs to every record.
	With(attrs ...any) Logger
}

// NopLogger discards all output. It is the default when no logger is configured.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(_ string, _ ...any) {}

// Info implements Logger.
func (NopLogger) Info(_ string, _ ...any) {}

// Warn implements Logger.
func (NopLogger) Warn(_ string, _ ...any) {}

// Error implements Logger.
func (NopLogger) Error(_ string, _ ...any) {}

// With implements Logger.
func (n NopLogger) With(_ ...any) Logger { return n }

var _ Logger = NopLogger{}

// SlogAdapter wraps a *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter from a *slog.Logger.
// If logger is nil, slog.Default() is used.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Debug implements Logger.
func (s *SlogAdapter) Debug(msg string, attrs ...any) {
	s.logger.Debug(msg, attrs...)
}

// Info implements Logger.
func (s *SlogAdapter) Info(msg string, attrs ...any) {
	s.logger.Info(msg, attrs...)
}

// Warn implements Logger.
func (s *SlogAdapter) Warn(msg string, attrs ...any) {
	s.logger.Warn(msg, attrs...)
}

// Error implements Logger.
func (s *SlogAdapter) Error(msg string, attrs ...any) {
	s.logger.Error(msg, attrs...)
}

// With implements Logger.
func (s *SlogAdapter) With(attrs ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(attrs...)}
}

// logContext emits a record carrying ctx, so slog handlers that read
// request-scoped values from the context can see them.
func (s *SlogAdapter) logContext(ctx context.Context, level slog.Level, msg string, attrs ...any) {
	s.logger.Log(ctx, level, msg, attrs...)
}

var _ Logger = (*SlogAdapter)(nil)

// ContextLogger binds a context to a Logger for the duration of one operation,
// such as a single validation cycle. When the wrapped logger is a *SlogAdapter
// the context is passed through to the slog handler.
type ContextLogger struct {
	logger Logger
	ctx    context.Context
}

// NewContextLogger creates a new ContextLogger.
// A nil logger is replaced with NopLogger.
func NewContextLogger(logger Logger, ctx context.Context) *ContextLogger {
	if logger == nil {
		logger = NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &ContextLogger{logger: logger, ctx: ctx}
}

func (c *ContextLogger) log(level slog.Level, msg string, attrs []any) {
	if s, ok := c.logger.(*SlogAdapter); ok {
		s.logContext(c.ctx, level, msg, attrs...)
		return
	}
	switch level {
	case slog.LevelDebug:
		c.logger.Debug(msg, attrs...)
	case slog.LevelInfo:
		c.logger.Info(msg, attrs...)
	case slog.LevelWarn:
		c.logger.Warn(msg, attrs...)
	default:
		c.logger.Error(msg, attrs...)
	}
}

// Debug implements Logger.
func (c *ContextLogger) Debug(msg string, attrs ...any) { c.log(slog.LevelDebug, msg, attrs) }

// Info implements Logger.
func (c *ContextLogger) Info(msg string, attrs ...any) { c.log(slog.LevelInfo, msg, attrs) }

// Warn implements Logger.
func (c *ContextLogger) Warn(msg string, attrs ...any) { c.log(slog.LevelWarn, msg, attrs) }

// Error implements Logger.
func (c *ContextLogger) Error(msg string, attrs ...any) { c.log(slog.LevelError, msg, attrs) }

// With implements Logger.
func (c *ContextLogger) With(attrs ...any) Logger {
	return &ContextLogger{
		logger: c.logger.With(attrs...),
		ctx:    c.ctx,
	}
}

// Context returns the context bound to this logger.
func (c *ContextLogger) Context() context.Context {
	return c.ctx
}

var _ Logger = (*ContextLogger)(nil)

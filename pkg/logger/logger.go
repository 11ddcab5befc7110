package logger

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the logging interface.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Sync() error
}

// LogEntry represents a log entry for the audit sink. User identity never
// appears here in raw form; only the anonymized user_hash is kept.
type LogEntry struct {
	Timestamp int64                  `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Caller    string                 `json:"caller,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	UserHash  string                 `json:"user_hash,omitempty"`
}

// LogWriter is the interface for writing log entries to storage.
type LogWriter interface {
	Write(entry LogEntry) error
	Close() error
}

// zapLogger wraps zap.Logger to implement Logger interface.
type zapLogger struct {
	logger *zap.Logger
	writer LogWriter
}

var (
	defaultLogger Logger
	defaultOnce   sync.Once
)

// New creates a new Logger with the given configuration.
func New(cfg Config, writer LogWriter) (Logger, error) {
	var cores []zapcore.Core

	level := parseLevel(cfg.Level)

	if cfg.EnableConsole {
		var encoder zapcore.Encoder
		if cfg.Environment == "production" {
			encoderConfig := zap.NewProductionEncoderConfig()
			encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			encoder = zapcore.NewJSONEncoder(encoderConfig)
		} else {
			encoderConfig := zap.NewDevelopmentEncoderConfig()
			encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
			encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
			encoder = zapcore.NewConsoleEncoder(encoderConfig)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
	}

	// Audit sink only when a nonzero retention window is configured.
	if cfg.EnableAudit && cfg.RetentionDays > 0 && writer != nil {
		cores = append(cores, newAuditCore(writer, level))
	}

	core := zapcore.NewTee(cores...)
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return &zapLogger{
		logger: logger,
		writer: writer,
	}, nil
}

// Default returns the default logger, initializing it if needed.
func Default() Logger {
	defaultOnce.Do(func() {
		logger, _ := New(DefaultConfig(), nil)
		defaultLogger = logger
	})
	return defaultLogger
}

// SetDefault sets the default logger.
func SetDefault(l Logger) {
	defaultLogger = l
}

func (l *zapLogger) Debug(msg string, fields ...Field) {
	l.logger.Debug(msg, fields...)
}

func (l *zapLogger) Info(msg string, fields ...Field) {
	l.logger.Info(msg, fields...)
}

func (l *zapLogger) Warn(msg string, fields ...Field) {
	l.logger.Warn(msg, fields...)
}

func (l *zapLogger) Error(msg string, fields ...Field) {
	l.logger.Error(msg, fields...)
}

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{
		logger: l.logger.With(fields...),
		writer: l.writer,
	}
}

func (l *zapLogger) Sync() error {
	if l.writer != nil {
		l.writer.Close()
	}
	return l.logger.Sync()
}

// Context key for logger.
type contextKey struct{}

// WithContext returns a context with the logger attached.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext retrieves the logger from context, or returns the default logger.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(contextKey{}).(Logger); ok {
		return l
	}
	return Default()
}

// auditCore is a zapcore.Core that forwards entries to the audit sink.
type auditCore struct {
	zapcore.LevelEnabler
	writer LogWriter
	fields []Field
}

func newAuditCore(writer LogWriter, level zapcore.Level) zapcore.Core {
	return &auditCore{
		LevelEnabler: level,
		writer:       writer,
	}
}

func (c *auditCore) With(fields []zapcore.Field) zapcore.Core {
	return &auditCore{
		LevelEnabler: c.LevelEnabler,
		writer:       c.writer,
		fields:       append(c.fields, fields...),
	}
}

func (c *auditCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *auditCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	allFields := append(c.fields, fields...)

	fieldMap := make(map[string]interface{})
	var requestID, userHash string

	enc := zapcore.NewMapObjectEncoder()
	for _, f := range allFields {
		f.AddTo(enc)
		switch f.Key {
		case "request_id":
			requestID = f.String
		case "user_hash":
			userHash = f.String
		}
	}
	for k, v := range enc.Fields {
		fieldMap[k] = v
	}

	return c.writer.Write(LogEntry{
		Timestamp: entry.Time.UnixMilli(),
		Level:     entry.Level.String(),
		Message:   entry.Message,
		Caller:    entry.Caller.TrimmedPath(),
		Fields:    fieldMap,
		RequestID: requestID,
		UserHash:  userHash,
	})
}

func (c *auditCore) Sync() error {
	return nil
}

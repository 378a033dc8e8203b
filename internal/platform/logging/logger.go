package logging

import (
	"context"
	"io"
	"net/url"
	"os"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

const redacted = "[REDACTED]"

// sensitiveKeyParts marks a field as secret when its key contains any of them.
var sensitiveKeyParts = []string{"secret", "password", "token", "signature", "api_key", "apikey"}

// Logger is a key/value logger backed by zap. Context variants attach the
// active trace and span ids. Secret-looking fields and URL credentials are
// redacted before they reach the encoder.
type Logger struct {
	zap    *zap.Logger
	closed *atomic.Bool
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewNop())
}

// ParseLevel maps a textual level to a Level, falling back to info.
func ParseLevel(v string) Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(v)))); err != nil {
		if strings.EqualFold(strings.TrimSpace(v), "warning") {
			return LevelWarn
		}
		return LevelInfo
	}
	switch level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return level
	default:
		return LevelError
	}
}

// NewJSON writes JSON lines to stdout.
func NewJSON(level Level, args ...any) *Logger {
	return NewJSONWriter(os.Stdout, level, args...)
}

// NewJSONWriter writes JSON lines to w. args become fields on every entry.
func NewJSONWriter(w io.Writer, level Level, args ...any) *Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.NameKey = "component"
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	encoderCfg.EncodeDuration = zapcore.StringDurationEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.Lock(zapcore.AddSync(w)), level)
	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2), zap.AddStacktrace(zapcore.ErrorLevel))
	if len(args) > 0 {
		z = z.With(fields(args)...)
	}
	return wrap(z)
}

func NewNop() *Logger {
	return wrap(zap.NewNop())
}

func wrap(z *zap.Logger) *Logger {
	return &Logger{zap: z, closed: new(atomic.Bool)}
}

func Default() *Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	return NewNop()
}

func SetDefault(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}
	defaultLogger.Store(logger)
}

// Sync flushes buffered entries once; later calls are no-ops.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil || !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	return l.zap.Sync()
}

func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return NewNop()
	}
	return &Logger{zap: l.zap.With(fields(args)...), closed: l.closed}
}

// Named returns a child logger whose entries carry component=name. Nested
// names are joined with a dot.
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return NewNop()
	}
	return &Logger{zap: l.zap.Named(name), closed: l.closed}
}

func (l *Logger) Info(msg string, args ...any) {
	l.write(context.Background(), zapcore.InfoLevel, msg, args)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.write(context.Background(), zapcore.WarnLevel, msg, args)
}

func (l *Logger) Error(msg string, args ...any) {
	l.write(context.Background(), zapcore.ErrorLevel, msg, args)
}

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zapcore.DebugLevel, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zapcore.InfoLevel, msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zapcore.WarnLevel, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zapcore.ErrorLevel, msg, args)
}

func (l *Logger) write(ctx context.Context, level zapcore.Level, msg string, args []any) {
	if l == nil {
		l = Default()
	}
	ce := l.zap.Check(level, msg)
	if ce == nil {
		return
	}
	ce.Write(append(fields(args), traceFields(ctx)...)...)
}

func traceFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

// fields turns alternating key/value args into zap fields. A missing value
// becomes null and a non-string key becomes "arg".
func fields(args []any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	out := make([]zap.Field, 0, (len(args)+1)/2+2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = "arg"
		}
		if i+1 >= len(args) {
			out = append(out, zap.Any(key, nil))
			break
		}
		out = append(out, field(key, args[i+1]))
	}
	return out
}

func field(key string, value any) zap.Field {
	if isSensitiveKey(key) {
		return zap.String(key, redacted)
	}
	switch v := value.(type) {
	case error:
		return zap.NamedError(key, v)
	case string:
		return zap.String(key, redactURLCredentials(v))
	default:
		return zap.Any(key, v)
	}
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, part := range sensitiveKeyParts {
		if strings.Contains(key, part) {
			return true
		}
	}
	return false
}

// redactURLCredentials masks the password of URLs such as mongodb://u:p@host.
// Other strings pass through unchanged.
func redactURLCredentials(v string) string {
	if !strings.Contains(v, "://") || !strings.Contains(v, "@") {
		return v
	}
	u, err := url.Parse(v)
	if err != nil || u.User == nil {
		return v
	}
	if _, ok := u.User.Password(); !ok {
		return v
	}
	return u.Redacted()
}

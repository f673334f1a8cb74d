package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Logger is a zerolog wrapper whose leveled methods take optional field
// maps. Loggers are immutable; the With* methods return children.
type Logger struct {
	zl      zerolog.Logger
	service string
}

// Init configures the global logger. The zerolog package-level logger
// is redirected too, so libraries logging through zerolog/log line up
// with ours.
func Init(cfg Config) {
	cfg.ApplyDefaults()
	service := cfg.ServiceName
	if service == "" {
		service = "default"
	}
	globalLogger = New(&cfg, service)

	if isConsoleFormat(cfg.Format) {
		log.Logger = zerolog.New(consoleWriter(&cfg, service)).With().Timestamp().Logger()
	}
}

// New builds a logger from cfg. An unparseable level falls back to info.
// The parsed level is installed globally, so the most recent New wins
// for all loggers in the process.
func New(cfg *Config, serviceName string) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var zl zerolog.Logger
	if isConsoleFormat(cfg.Format) {
		zl = zerolog.New(consoleWriter(cfg, serviceName))
	} else {
		zl = zerolog.New(outputWriter(cfg.Output))
	}

	zc := zl.With()
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	return &Logger{zl: zc.Logger(), service: serviceName}
}

// NewDefault builds a console logger at info level writing to stdout.
func NewDefault(serviceName string) *Logger {
	return New(&Config{
		Level:     "info",
		Format:    "console",
		Output:    "stdout",
		Timestamp: true,
	}, serviceName)
}

// WithFields returns a child logger carrying the given fields on every line.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	zc := l.zl.With()
	for k, v := range fields {
		zc = zc.Interface(k, v)
	}
	return &Logger{zl: zc.Logger(), service: l.service}
}

// WithComponent returns a child logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{zl: l.zl.With().Str(FieldComponent, name).Logger(), service: l.service}
}

// WithError returns a child logger carrying the error on every line.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{zl: l.zl.With().Err(err).Logger(), service: l.service}
}

// WithContext returns a child logger carrying the trace and span IDs of
// the span active in ctx, so log lines correlate with traces. Without a
// recording span the receiver is returned unchanged.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	zc := l.zl.With().
		Str(FieldTraceID, sc.TraceID().String()).
		Str(FieldSpanID, sc.SpanID().String())
	return &Logger{zl: zc.Logger(), service: l.service}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Debug(), msg, fields)
}

// Info logs at info level.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Info(), msg, fields)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Warn(), msg, fields)
}

// Error logs at error level.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Error(), msg, fields)
}

// Fatal logs at fatal level and exits the process.
func (l *Logger) Fatal(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Fatal(), msg, fields)
}

func emit(event *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, fm := range fields {
		for k, v := range fm {
			event = event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

// --- global logger ---

var globalLogger *Logger

// SetGlobalLogger replaces the global logger.
func SetGlobalLogger(l *Logger) { globalLogger = l }

// GetGlobalLogger returns the global logger, lazily creating a default
// one when Init has not run.
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		globalLogger = NewDefault("default")
	}
	return globalLogger
}

// Debug logs at debug level through the global logger.
func Debug(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Debug(msg, fields...) }

// Info logs at info level through the global logger.
func Info(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Info(msg, fields...) }

// Warn logs at warn level through the global logger.
func Warn(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Warn(msg, fields...) }

// Error logs at error level through the global logger.
func Error(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Error(msg, fields...) }

// Fatal logs at fatal level through the global logger and exits.
func Fatal(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Fatal(msg, fields...) }

// WithComponent returns a component-tagged child of the global logger.
func WithComponent(name string) *Logger { return GetGlobalLogger().WithComponent(name) }

// WithContext returns a trace-correlated child of the global logger.
func WithContext(ctx context.Context) *Logger { return GetGlobalLogger().WithContext(ctx) }

// --- output plumbing ---

func isConsoleFormat(format string) bool {
	switch strings.ToLower(format) {
	case "console", "text", "pretty":
		return true
	}
	return false
}

func outputWriter(output string) *os.File {
	if strings.ToLower(output) == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}

// consoleTags maps zerolog level names to the three-letter bracket tags
// used on console output; consoleColors holds the matching ANSI codes.
var (
	consoleTags = map[string]string{
		"trace": "[TRC]",
		"debug": "[DBG]",
		"info":  "[INF]",
		"warn":  "[WRN]",
		"error": "[ERR]",
		"fatal": "[FTL]",
	}
	consoleColors = map[string]string{
		"trace": "90",
		"debug": "36",
		"info":  "32",
		"warn":  "33",
		"error": "31",
		"fatal": "35",
	}
)

// consoleWriter builds the human-readable writer: a colored level tag,
// optionally prefixed with the first three letters of the service name.
func consoleWriter(cfg *Config, serviceName string) zerolog.ConsoleWriter {
	serviceTag := ""
	if serviceName != "" && serviceName != "default" && len(serviceName) >= 3 {
		serviceTag = strings.ToUpper(serviceName[:3])
	}

	return zerolog.ConsoleWriter{
		Out:        outputWriter(cfg.Output),
		TimeFormat: "15:04:05",
		NoColor:    cfg.NoColor,
		FormatLevel: func(i interface{}) string {
			name := strings.ToLower(fmt.Sprintf("%s", i))
			tag, known := consoleTags[name]
			if !known {
				tag = "[" + strings.ToUpper(name) + "]"
			}
			if !cfg.NoColor && known {
				tag = "\033[" + consoleColors[name] + "m" + tag + "\033[0m"
			}
			if serviceTag == "" {
				return tag
			}
			if cfg.NoColor {
				return "[" + serviceTag + "]" + tag
			}
			return "\033[34m[" + serviceTag + "]\033[0m" + tag
		},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("%s", i)
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s:", i)
		},
		FormatFieldValue: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("%s", i)
		},
	}
}

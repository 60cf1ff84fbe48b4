package orgb

import "github.com/sirupsen/logrus"

// Logger is the logging sink a Client reports through. Any type
// satisfying these three methods can be passed to WithLogger, including a
// thin adapter over zap, zerolog, or a bare log.Logger.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// NewNoopLogger returns a Logger that discards everything, for callers
// who don't want the default logrus output.
func NewNoopLogger() Logger {
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// logrusLogger is the default Logger, backed by a logrus.FieldLogger.
type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger wraps l as a Logger. Passing nil uses logrus's standard
// logger.
func NewLogrusLogger(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) fields(kv []any) logrus.Fields {
	f := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		f[key] = kv[i+1]
	}
	return f
}

func (l *logrusLogger) Debug(msg string, kv ...any) {
	l.entry.WithFields(l.fields(kv)).Debug(msg)
}

func (l *logrusLogger) Info(msg string, kv ...any) {
	l.entry.WithFields(l.fields(kv)).Info(msg)
}

func (l *logrusLogger) Error(msg string, kv ...any) {
	l.entry.WithFields(l.fields(kv)).Error(msg)
}

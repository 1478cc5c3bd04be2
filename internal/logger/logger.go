package logger

import (
	"fmt"
	"io"
	"log"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Level  string
	Format string
	Out    io.Writer
}

type Logger struct {
	l *logrus.Logger
}

func New(conf Config) (*Logger, error) {
	l := logrus.New()

	if conf.Out != nil {
		l.SetOutput(conf.Out)
	}

	level := logrus.InfoLevel

	if conf.Level != "" {
		parsed, err := logrus.ParseLevel(conf.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", conf.Level, err)
		}

		level = parsed
	}

	l.SetLevel(level)

	if conf.Format == "json" {
		//nolint:exhaustruct
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	return &Logger{l: l}, nil
}

// Discard returns a logger that writes nowhere. Used by tests.
func Discard() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return &Logger{l: l}
}

func (l *Logger) LogErrorf(format string, v ...any) {
	l.l.Errorf(format, v...)
}

func (l *Logger) LogWarnf(format string, v ...any) {
	l.l.Warnf(format, v...)
}

func (l *Logger) LogInfo(format string, v ...any) {
	l.l.Infof(format, v...)
}

func (l *Logger) LogDebugf(format string, v ...any) {
	l.l.Debugf(format, v...)
}

// StdLogger adapts the logger for APIs that want a *log.Logger, such as
// http.Server.ErrorLog. Lines are written at error level.
func (l *Logger) StdLogger() *log.Logger {
	return log.New(l.l.WriterLevel(logrus.ErrorLevel), "", 0)
}

// With returns a logger that attaches key/value to every entry.
func (l *Logger) With(key string, value any) *Entry {
	return &Entry{e: l.l.WithField(key, value)}
}

type Entry struct {
	e *logrus.Entry
}

func (e *Entry) With(key string, value any) *Entry {
	return &Entry{e: e.e.WithField(key, value)}
}

func (e *Entry) LogErrorf(format string, v ...any) {
	e.e.Errorf(format, v...)
}

func (e *Entry) LogWarnf(format string, v ...any) {
	e.e.Warnf(format, v...)
}

func (e *Entry) LogInfo(format string, v ...any) {
	e.e.Infof(format, v...)
}

func (e *Entry) LogDebugf(format string, v ...any) {
	e.e.Debugf(format, v...)
}

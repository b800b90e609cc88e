// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"context"
	"fmt"
	"io"
	golog "log"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Slog implements Logger on top of the standard library slog JSON handler.
// Formatting is skipped for disabled levels. Output is not buffered.
type Slog struct {
	logger  *slog.Logger
	level   Level
	outputs []io.Writer
}

var _ Logger = (*Slog)(nil)

// NewSlog creates a Logger backed by slog with JSON output.
func NewSlog(level Level, writers ...io.Writer) *Slog {
	if len(writers) == 0 {
		writers = []io.Writer{os.Stdout}
	}
	opts := &slog.HandlerOptions{
		Level:     toSlogLevel(level),
		AddSource: true,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format("2006-01-02T15:04:05.000000Z0700"))
				}
			case slog.SourceKey:
				if src, ok := a.Value.Any().(*slog.Source); ok && src != nil {
					return slog.String("caller", fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			case slog.LevelKey:
				a.Value = slog.StringValue(fromSlogLevel(a.Value.Any()).String())
			}
			return a
		},
	}
	return &Slog{
		logger:  slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)),
		level:   level,
		outputs: writers,
	}
}

func (l *Slog) log(level Level, msg func() string) {
	if l.Enabled(level) {
		l.logger.Log(context.Background(), toSlogLevel(level), msg())
	}
}

// Debug logs at debug level.
func (l *Slog) Debug(v ...any) { l.log(DebugLevel, func() string { return fmt.Sprint(v...) }) }

// Debugf logs a formatted message at debug level.
func (l *Slog) Debugf(format string, v ...any) {
	l.log(DebugLevel, func() string { return fmt.Sprintf(format, v...) })
}

// Info logs at info level.
func (l *Slog) Info(v ...any) { l.log(InfoLevel, func() string { return fmt.Sprint(v...) }) }

// Infof logs a formatted message at info level.
func (l *Slog) Infof(format string, v ...any) {
	l.log(InfoLevel, func() string { return fmt.Sprintf(format, v...) })
}

// Warn logs at warn level.
func (l *Slog) Warn(v ...any) { l.log(WarningLevel, func() string { return fmt.Sprint(v...) }) }

// Warnf logs a formatted message at warn level.
func (l *Slog) Warnf(format string, v ...any) {
	l.log(WarningLevel, func() string { return fmt.Sprintf(format, v...) })
}

// Error logs at error level.
func (l *Slog) Error(v ...any) { l.log(ErrorLevel, func() string { return fmt.Sprint(v...) }) }

// Errorf logs a formatted message at error level.
func (l *Slog) Errorf(format string, v ...any) {
	l.log(ErrorLevel, func() string { return fmt.Sprintf(format, v...) })
}

// Fatal logs at error level and exits.
func (l *Slog) Fatal(v ...any) {
	l.logger.Error(fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf logs a formatted message at error level and exits.
func (l *Slog) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}

// Panic logs at error level and panics.
func (l *Slog) Panic(v ...any) {
	msg := fmt.Sprint(v...)
	l.logger.Error(msg)
	panic(msg)
}

// Panicf logs a formatted message at error level and panics.
func (l *Slog) Panicf(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	l.logger.Error(msg)
	panic(msg)
}

// Enabled reports whether the given level is enabled.
func (l *Slog) Enabled(level Level) bool {
	return l.logger.Enabled(context.Background(), toSlogLevel(level))
}

// With returns a Logger that includes the given key-value pairs.
func (l *Slog) With(keyValues ...any) Logger {
	args := make([]any, 0, len(keyValues)+1)
	fields(keyValues, func(key string, value any) {
		args = append(args, slog.Any(key, value))
	})
	if len(args) == 0 {
		return l
	}
	return &Slog{
		logger:  l.logger.With(args...),
		level:   l.level,
		outputs: l.outputs,
	}
}

// LogLevel returns the configured minimum level.
func (l *Slog) LogLevel() Level {
	return l.level
}

// LogOutput returns the configured writers.
func (l *Slog) LogOutput() []io.Writer {
	return l.outputs
}

// Flush is a no-op, slog output is unbuffered.
func (l *Slog) Flush() error {
	return nil
}

// StdLogger returns a *log.Logger that writes to this logger at its configured level.
func (l *Slog) StdLogger() *golog.Logger {
	return slog.NewLogLogger(l.logger.Handler(), toSlogLevel(l.level))
}

func toSlogLevel(level Level) slog.Level {
	switch level {
	case DebugLevel:
		return slog.LevelDebug
	case WarningLevel:
		return slog.LevelWarn
	case ErrorLevel, FatalLevel, PanicLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func fromSlogLevel(value any) Level {
	level, ok := value.(slog.Level)
	if !ok {
		return InvalidLevel
	}
	switch {
	case level < slog.LevelInfo:
		return DebugLevel
	case level < slog.LevelWarn:
		return InfoLevel
	case level < slog.LevelError:
		return WarningLevel
	default:
		return ErrorLevel
	}
}

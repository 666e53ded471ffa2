package logger

import (
	"strings"

	"github.com/charmbracelet/log"
)

// BadgerLogger routes badger's internal logging through a charm logger.
// Badger is chatty at info level, so its info lines are logged as debug.
type BadgerLogger struct {
	l *log.Logger
}

// Badger returns a badger.Logger backed by a prefixed charm logger.
func Badger() *BadgerLogger {
	return &BadgerLogger{l: Default("badger")}
}

func (b *BadgerLogger) Errorf(format string, args ...any) {
	b.l.Errorf(trim(format), args...)
}

func (b *BadgerLogger) Warningf(format string, args ...any) {
	b.l.Warnf(trim(format), args...)
}

func (b *BadgerLogger) Infof(format string, args ...any) {
	b.l.Debugf(trim(format), args...)
}

func (b *BadgerLogger) Debugf(format string, args ...any) {
	b.l.Debugf(trim(format), args...)
}

// badger formats end in a newline
func trim(format string) string {
	return strings.TrimRight(format, "\n")
}

// GinWriter is an io.Writer for gin's default writers that logs each line at
// the given level.
type GinWriter struct {
	l     *log.Logger
	level log.Level
}

// Gin returns a writer for gin.DefaultWriter or gin.DefaultErrorWriter.
func Gin(level log.Level) *GinWriter {
	return &GinWriter{l: Default("http"), level: level}
}

func (w *GinWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		w.l.Log(w.level, line)
	}
	return len(p), nil
}

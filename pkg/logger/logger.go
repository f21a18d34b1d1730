// Package logger defines the logging contract used across the client.
//
// The client only ever logs through the Logger interface, so applications
// can plug in whatever stack they already run. Two implementations ship
// with the module: a zerolog-backed logger built by New, and an adapter
// for log/slog in the slog subpackage.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

const permission = 0664

// Logger accepts a message followed by alternating key/value pairs,
// mirroring the log/slog calling convention.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

type Build struct {
	writer io.Writer
	path   string
}

func New() *Build {
	return &Build{}
}

func (build *Build) FromPath(path string) *Build {
	build.path = path
	return build
}

func (build *Build) FromBuffer(w io.Writer) *Build {
	build.writer = w
	return build
}

// Make finalizes the builder. With no writer and no path configured the
// logger writes JSON lines to stderr.
func (build *Build) Make() (*ZeroLogger, error) {
	logData := &ZeroLogger{writer: build.writer}

	if logData.writer == nil {
		logData.writer = os.Stderr
	}

	if build.path != "" {
		logFile, err := os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		logData.logFile = logFile
		logData.writer = zerolog.SyncWriter(logFile)
	}

	logData.log = zerolog.New(logData.writer).With().Timestamp().Logger()

	return logData, nil
}

// ZeroLogger writes structured JSON records through zerolog.
type ZeroLogger struct {
	writer  io.Writer
	logFile *os.File
	log     zerolog.Logger
}

func (z *ZeroLogger) Error(msg string, args ...any) { z.emit(z.log.Error(), msg, args) }
func (z *ZeroLogger) Warn(msg string, args ...any)  { z.emit(z.log.Warn(), msg, args) }
func (z *ZeroLogger) Info(msg string, args ...any)  { z.emit(z.log.Info(), msg, args) }
func (z *ZeroLogger) Debug(msg string, args ...any) { z.emit(z.log.Debug(), msg, args) }

func (z *ZeroLogger) emit(ev *zerolog.Event, msg string, args []any) {
	n := len(args) - len(args)%2

	for i := 0; i < n; i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		ev = ev.Interface(key, args[i+1])
	}

	// A trailing key without a value still gets logged rather than dropped.
	if len(args)%2 != 0 {
		ev = ev.Interface("arg", args[len(args)-1])
	}

	ev.Msg(msg)
}

// Close releases the log file, if Make opened one.
func (z *ZeroLogger) Close() error {
	if z.logFile == nil {
		return nil
	}
	return z.logFile.Close()
}

// Nop discards every record. It is the default logger of the client.
type Nop struct{}

func (Nop) Error(msg string, args ...any) {}
func (Nop) Warn(msg string, args ...any)  {}
func (Nop) Info(msg string, args ...any)  {}
func (Nop) Debug(msg string, args ...any) {}

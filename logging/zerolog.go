package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the zerolog-backed logger. FilePath, when set, adds a
// rotating file writer alongside the console writer.
type Options struct {
	Level         string
	ConsoleOutput io.Writer
	FilePath      string
}

type zeroLogger struct {
	zl zerolog.Logger
}

// New builds a Logger that writes human-readable output to the console and,
// optionally, JSON lines to a size-rotated file.
func New(opts Options) Logger {
	out := opts.ConsoleOutput
	if out == nil {
		out = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}}
	if opts.FilePath != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		})
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}
	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	return &zeroLogger{zl: zl}
}

func (l *zeroLogger) Printf(message string, args ...interface{}) {
	l.zl.Info().Msgf(message, args...)
}

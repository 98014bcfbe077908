package traffic

import (
	"context"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/logging"
)

const slowQueryThreshold = time.Second

// gormLogger bridges gorm's logger interface onto the harness logger.
// Routine query traces are dropped; only errors and slow queries surface.
type gormLogger struct {
	logger   logging.Logger
	logLevel gormlogger.LogLevel
}

func newGormLogger(l logging.Logger) *gormLogger {
	return &gormLogger{logger: l, logLevel: gormlogger.Warn}
}

func (g *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	out := *g
	out.logLevel = level
	return &out
}

func (g *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.logLevel >= gormlogger.Info {
		g.logger.Printf(msg, data...)
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.logLevel >= gormlogger.Warn {
		g.logger.Printf(msg, data...)
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.logLevel >= gormlogger.Error {
		g.logger.Printf(msg, data...)
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.logLevel <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && g.logLevel >= gormlogger.Error:
		sql, _ := fc()
		g.logger.Printf("sql error: %s (%s)", err, sql)
	case elapsed > slowQueryThreshold && g.logLevel >= gormlogger.Warn:
		sql, rows := fc()
		g.logger.Printf("slow sql (%s, %d rows): %s", elapsed, rows, sql)
	}
}

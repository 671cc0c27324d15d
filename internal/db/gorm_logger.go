package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/stahnma/puppet-dashboard/internal/logging"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormLogger implements gorm's logger.Interface on top of logging.Logger.
// Raw SQL is never logged, only an op/table summary.
type gormLogger struct {
	l     logging.Logger
	level logger.LogLevel
}

func newGormLogger(l logging.Logger, lvl logger.LogLevel) *gormLogger {
	return &gormLogger{l: l, level: lvl}
}

func (g *gormLogger) LogMode(l logger.LogLevel) logger.Interface {
	cp := *g
	cp.level = l
	return &cp
}

func (g *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= logger.Info {
		g.l.Info("gorm", "msg", msg, "args", data)
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= logger.Warn {
		g.l.Error("gorm_warn", "msg", msg, "args", data)
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= logger.Error {
		g.l.Error("gorm_error", "msg", msg, "args", data)
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if g.level <= logger.Silent {
		return
	}
	sql, rows := fc()
	op, table := summarizeSQL(sql)
	fields := []any{"op", op, "table", table, "rows", rows, "durationMs", float64(time.Since(begin)) / 1e6}
	switch {
	case err != nil && errors.Is(err, gorm.ErrRecordNotFound):
		if g.level >= logger.Info {
			g.l.Debug("gorm_sql", append(fields, "notFound", true)...)
		}
	case err != nil:
		if g.level >= logger.Error {
			g.l.Error("gorm_sql", append(fields, "error", err.Error())...)
		}
	case g.level >= logger.Info:
		g.l.Debug("gorm_sql", fields...)
	}
}

// summarizeSQL turns a statement into e.g. ("SELECT", "boots").
func summarizeSQL(sql string) (op string, table string) {
	q := strings.ToUpper(strings.Join(strings.Fields(sql), " "))
	if q == "" {
		return "", ""
	}
	op, _, _ = strings.Cut(q, " ")

	if ws := strings.Fields(afterKeyword(q)); len(ws) > 0 {
		table = strings.Trim(ws[0], "`\"")
	}
	return op, strings.ToLower(table)
}

func afterKeyword(q string) string {
	for _, prefix := range []string{"UPDATE ", "INSERT INTO ", "DELETE FROM ", "CREATE TABLE ", "CREATE INDEX "} {
		if rest, ok := strings.CutPrefix(q, prefix); ok {
			return rest
		}
	}
	if _, rest, ok := strings.Cut(q, " FROM "); ok {
		return rest
	}
	return ""
}

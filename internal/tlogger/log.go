package tlogger

import (
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Log is the default logger for apps
var Log log.Logger

var hlog log.Logger

// applyLogLevel applies min logging level
var ApplyLogLevel func(string)

var currentLevel = "info"

var baseLog, baseHlog log.Logger

func init() {
	SetOutput(os.Stdout)
}

// SetOutput points every logger at w and re-applies the current level filter.
func SetOutput(w io.Writer) {
	base := log.NewLogfmtLogger(log.NewSyncWriter(w))
	baseLog = log.With(base, "ts", log.DefaultTimestampUTC, "caller", log.Caller(5))
	baseHlog = log.With(base, "ts", log.DefaultTimestampUTC, "caller", log.Caller(6))
	applyFilter(currentLevel)

	ApplyLogLevel = func(lvl string) {
		applyFilter(lvl)
		ApplyLogLevel = func(string) {}
	}
}

func applyFilter(lvl string) {
	currentLevel = lvl
	Log = level.NewFilter(baseLog, levelOption(lvl))
	hlog = level.NewFilter(baseHlog, levelOption(lvl))
}

func levelOption(lvl string) level.Option {
	switch lvl {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	case "all":
		return level.AllowAll()
	default:
		return level.AllowInfo()
	}
}

// Verbose reports whether the "all" level was applied.
func Verbose() bool {
	return currentLevel == "all"
}

// Debug add a log entry w/ Debug level
func Debug(keyvals ...interface{}) {
	level.Debug(hlog).Log(keyvals...)
}

// Info add a log entry w/ Info level
func Info(keyvals ...interface{}) {
	level.Info(hlog).Log(keyvals...)
}

// Warn add a log entry w/ Warn level
func Warn(keyvals ...interface{}) {
	level.Warn(hlog).Log(keyvals...)
}

// Error add a log entry w/ Error level
func Error(keyvals ...interface{}) {
	level.Error(hlog).Log(keyvals...)
}

// Fatal add a log entry w/ Error level tagged severity=fatal.
// The process keeps running, the caller decides what to drop.
func Fatal(keyvals ...interface{}) {
	level.Error(hlog).Log(append([]interface{}{"severity", "fatal"}, keyvals...)...)
}

// FatalIf prints a fatal Error level and exits if err != nil
func FatalIf(err error) {
	if err == nil {
		return
	}
	level.Error(hlog).Log("severity", "fatal", "err", err)
	os.Exit(1)
}

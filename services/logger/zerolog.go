package logsvc

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/trezcool/rubrica/core"
	"github.com/trezcool/rubrica/core/user"
)

// ZerologLogger writes leveled, structured records. Errors, context maps and the acting
// user found in args become fields of the record.
type ZerologLogger struct {
	log  zerolog.Logger
	exit func(code int) // mockable
}

var _ core.Logger = (*ZerologLogger)(nil)

func NewZerologLogger(conf *core.Config) *ZerologLogger {
	return NewZerologLoggerTo(os.Stdout, conf.Log)
}

// NewZerologLoggerTo builds the logger over any writer. Pretty output goes through a
// zerolog.ConsoleWriter.
func NewZerologLoggerTo(out io.Writer, conf core.LogConfig) *ZerologLogger {
	if conf.Pretty {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    conf.NoColor,
		}
	}
	log := zerolog.New(out).With().Timestamp().Logger().Level(parseLevel(conf.Level))
	return &ZerologLogger{log: log, exit: os.Exit}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *ZerologLogger) write(ev *zerolog.Event, msg string, args []interface{}) {
	var extra []string
	for _, arg := range args {
		switch a := arg.(type) {
		case error:
			ev = ev.Err(a)
		case map[string]interface{}:
			ev = ev.Fields(a)
		case user.User:
			ev = ev.Str("user_id", a.ID).Str("user_email", a.Email)
		case nil:
		default:
			extra = append(extra, fmt.Sprintf("%+v", a))
		}
	}
	if len(extra) > 0 {
		ev = ev.Strs("args", extra)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Debug(msg string, args ...interface{}) {
	l.write(l.log.Debug(), msg, args)
}

func (l *ZerologLogger) Info(msg string, args ...interface{}) {
	l.write(l.log.Info(), msg, args)
}

func (l *ZerologLogger) Warn(msg string, args ...interface{}) {
	l.write(l.log.Warn(), msg, args)
}

func (l *ZerologLogger) Error(msg string, args ...interface{}) {
	l.write(l.log.Error(), msg, args)
}

// Fatal logs at fatal level and exits the process.
func (l *ZerologLogger) Fatal(msg string, args ...interface{}) {
	l.write(l.log.WithLevel(zerolog.FatalLevel), msg, args)
	l.exit(1)
}

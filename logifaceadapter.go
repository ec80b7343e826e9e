package sched

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joeycumines/logiface"
	islog "github.com/joeycumines/logiface-slog"
)

// LogifaceLogger adapts github.com/joeycumines/logiface to the Scheduler's
// Logger interface. The teacher module depends on logiface only from its
// own test suite; here it backs real production logging, with
// logiface-slog providing the concrete slog.Handler-based sink.
type LogifaceLogger struct {
	l *logiface.Logger[*islog.Event]
}

// NewLogifaceLogger builds a structured Logger backed by handler (e.g.
// slog.NewJSONHandler(os.Stdout, nil)). Pass nil to default to a text
// handler on os.Stderr.
func NewLogifaceLogger(handler slog.Handler) *LogifaceLogger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	return &LogifaceLogger{l: islog.L.New(islog.L.WithSlogHandler(handler))}
}

// Dprintfn implements Logger, preserving the spec's exact literal line
// format in addition to emitting a structured event at info level.
func (a *LogifaceLogger) Dprintfn(elapsed Duration, format string, args ...any) {
	rendered := fmt.Sprintf(format, args...)
	a.l.Info().Int64("elapsed_ms", elapsed.Milliseconds()).Log(rendered)
	fmt.Printf("[%04d]: %s\n", elapsed.Milliseconds(), rendered)
}

// Info implements Logger.
func (a *LogifaceLogger) Info(msg string, kv ...any) { a.log(a.l.Info(), msg, kv) }

// Warn implements Logger.
func (a *LogifaceLogger) Warn(msg string, kv ...any) { a.log(a.l.Warning(), msg, kv) }

// Fatal implements Logger.
func (a *LogifaceLogger) Fatal(msg string, kv ...any) {
	a.log(a.l.Err(), msg, kv)
	os.Exit(1)
}

func (a *LogifaceLogger) log(b *logiface.Builder[*islog.Event], msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		if key == "" {
			key = fmt.Sprintf("%v", kv[i])
		}
		b = b.Any(key, kv[i+1])
	}
	b.Log(msg)
}
